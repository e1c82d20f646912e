// Package storageplus 在宿主 KV 存储之上提供带类型的 Item 与 Map
//
// 物理布局：
//   - Item：键即命名空间
//   - Map：键为 uint16be(len(ns)) || ns || key
//
// 值统一以 JSON 编码，读出的字节无法解码视为数据损坏（Serialization）
package storageplus

import (
	"encoding/binary"
	"fmt"

	"github.com/weisyn/seints-row/pkg/types"
)

// KeyCodec Map 键的编解码
//
// 编码必须保序：编码后的字节序即迭代顺序
type KeyCodec[K any] interface {
	Encode(key K) []byte
	Decode(raw []byte) (K, error)
}

type stringKey struct{}

func (stringKey) Encode(k string) []byte { return []byte(k) }

func (stringKey) Decode(raw []byte) (string, error) { return string(raw), nil }

type addrKey struct{}

func (addrKey) Encode(k types.Addr) []byte { return []byte(k) }

func (addrKey) Decode(raw []byte) (types.Addr, error) { return types.Addr(raw), nil }

type uint64Key struct{}

func (uint64Key) Encode(k uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], k)
	return b[:]
}

func (uint64Key) Decode(raw []byte) (uint64, error) {
	if len(raw) != 8 {
		return 0, fmt.Errorf("%w: uint64 key has %d bytes", types.ErrSerialization, len(raw))
	}
	return binary.BigEndian.Uint64(raw), nil
}

var (
	// StringKey 字符串键，按 UTF-8 字节序
	StringKey KeyCodec[string] = stringKey{}
	// AddrKey 地址键
	AddrKey KeyCodec[types.Addr] = addrKey{}
	// Uint64Key 大端 uint64 键，字节序与数值序一致
	Uint64Key KeyCodec[uint64] = uint64Key{}
)

// lengthPrefixed uint16be(len(ns)) || ns
func lengthPrefixed(ns []byte) []byte {
	if len(ns) > 0xFFFF {
		panic("storageplus: namespace longer than 65535 bytes")
	}
	out := make([]byte, 2+len(ns))
	binary.BigEndian.PutUint16(out, uint16(len(ns)))
	copy(out[2:], ns)
	return out
}

// prefixEnd 返回以 prefix 开头的所有键的排他上界
//
// 全部为 0xFF 时返回 nil（无上界）
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xFF {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

// concat 拼接字节切片，总是返回新切片
func concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
