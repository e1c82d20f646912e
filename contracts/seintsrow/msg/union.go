// Package msg 定义 seints_row 的消息模型
//
// 消息在 JSON 中采用外部标签的 snake_case 形式，例如：
//
//	{"transfer": {"recipient": "addrB", "amount": "100"}}
//
// 每个消息族是一个封闭集合：变体只能在本包中定义，并且必须在对应的
// Handler 接口上有一个方法，新增变体会让所有未实现的处理器无法编译
package msg

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/weisyn/seints-row/pkg/types"
)

// Variant 带标签的消息变体
type Variant interface {
	// Tag 外部标签
	Tag() string
}

// Encode 以外部标签形式编码变体
func Encode(v Variant) ([]byte, error) {
	return json.Marshal(map[string]Variant{v.Tag(): v})
}

// MustEncode 编码失败时 panic，仅用于测试与构造常量消息
func MustEncode(v Variant) []byte {
	raw, err := Encode(v)
	if err != nil {
		panic(err)
	}
	return raw
}

// decodeUnion 解码外部标签消息：恰好一个键，变体已注册，字段严格匹配
func decodeUnion[T Variant](family string, data []byte, registry map[string]func() T) (T, error) {
	var zero T
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return zero, types.InvalidInputf("parsing %s: %v", family, err)
	}
	if len(envelope) != 1 {
		return zero, types.InvalidInputf("parsing %s: expected exactly one variant, got %d", family, len(envelope))
	}
	for tag, body := range envelope {
		factory, ok := registry[tag]
		if !ok {
			return zero, types.InvalidInputf("parsing %s: unknown variant %q, expected one of %s", family, tag, tags(registry))
		}
		v := factory()
		if err := types.StrictUnmarshal(body, v); err != nil {
			return zero, types.InvalidInputf("parsing %s.%s: %v", family, tag, err)
		}
		return v, nil
	}
	return zero, nil
}

func tags[T any](registry map[string]func() T) string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, fmt.Sprintf("`%s`", k))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// decodeStruct 解码非联合消息（instantiate/migrate）
func decodeStruct(name string, data []byte, out interface{}) error {
	if err := types.StrictUnmarshal(data, out); err != nil {
		return types.InvalidInputf("parsing %s: %v", name, err)
	}
	return nil
}
