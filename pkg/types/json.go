package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// StrictUnmarshal 严格 JSON 解码：拒绝未知字段与尾随数据
//
// 返回的错误未分类，由调用方决定是 InvalidInput（外部消息）还是 Serialization（存储数据）
func StrictUnmarshal(data []byte, out interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected trailing data")
	}
	return nil
}
