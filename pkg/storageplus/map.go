package storageplus

import (
	"bytes"

	"github.com/weisyn/seints-row/pkg/types"
)

// 分页默认值
const (
	DefaultLimit uint32 = 10
	MaxLimit     uint32 = 30
)

// ClampLimit 把可选 limit 收敛到 [1, MaxLimit]，未设置时为 DefaultLimit
func ClampLimit(limit *uint32) int {
	if limit == nil {
		return int(DefaultLimit)
	}
	switch {
	case *limit == 0:
		return int(DefaultLimit)
	case *limit > MaxLimit:
		return int(MaxLimit)
	default:
		return int(*limit)
	}
}

// Pair Map 中的一条记录
type Pair[K any, V any] struct {
	Key   K
	Value V
}

// Bound 区间端点
type Bound[K any] struct {
	key       K
	inclusive bool
}

// Inclusive 包含端点
func Inclusive[K any](k K) *Bound[K] {
	return &Bound[K]{key: k, inclusive: true}
}

// Exclusive 不包含端点
func Exclusive[K any](k K) *Bound[K] {
	return &Bound[K]{key: k}
}

// Map 键值映射
type Map[K any, V any] struct {
	namespace string
	prefix    []byte
	codec     KeyCodec[K]
}

// NewMap 创建 Map
func NewMap[K any, V any](namespace string, codec KeyCodec[K]) Map[K, V] {
	return Map[K, V]{
		namespace: namespace,
		prefix:    lengthPrefixed([]byte(namespace)),
		codec:     codec,
	}
}

// Namespace 命名空间
func (m Map[K, V]) Namespace() string {
	return m.namespace
}

// Key 物理键
func (m Map[K, V]) Key(k K) []byte {
	return concat(m.prefix, m.codec.Encode(k))
}

// Save 写入
func (m Map[K, V]) Save(store types.Storage, k K, v V) error {
	raw, err := encodeValue(v)
	if err != nil {
		return err
	}
	return store.Set(m.Key(k), raw)
}

// Load 读取，缺失时返回 NotFound
func (m Map[K, V]) Load(store types.ReadonlyStorage, k K) (V, error) {
	v, found, err := m.May(store, k)
	if err != nil {
		return v, err
	}
	if !found {
		return v, types.NotFoundf("%s[%x]", m.namespace, m.codec.Encode(k))
	}
	return v, nil
}

// May 可选读取
func (m Map[K, V]) May(store types.ReadonlyStorage, k K) (V, bool, error) {
	var v V
	raw, err := store.Get(m.Key(k))
	if err != nil {
		return v, false, err
	}
	if raw == nil {
		return v, false, nil
	}
	if err := decodeValue(raw, &v); err != nil {
		return v, false, err
	}
	return v, true, nil
}

// Has 是否存在
func (m Map[K, V]) Has(store types.ReadonlyStorage, k K) (bool, error) {
	raw, err := store.Get(m.Key(k))
	if err != nil {
		return false, err
	}
	return raw != nil, nil
}

// Remove 删除
func (m Map[K, V]) Remove(store types.Storage, k K) error {
	return store.Remove(m.Key(k))
}

// Update 读取-修改-写回，fn 返回错误时不写入
func (m Map[K, V]) Update(store types.Storage, k K, fn func(cur V, found bool) (V, error)) (V, error) {
	cur, found, err := m.May(store, k)
	if err != nil {
		return cur, err
	}
	next, err := fn(cur, found)
	if err != nil {
		return next, err
	}
	if err := m.Save(store, k, next); err != nil {
		return next, err
	}
	return next, nil
}

// rawBounds 把端点转换为物理区间 [start, end)
func (m Map[K, V]) rawBounds(min, max *Bound[K]) (start, end []byte) {
	start = m.prefix
	if min != nil {
		start = m.Key(min.key)
		if !min.inclusive {
			start = append(start, 0x00)
		}
	}
	end = prefixEnd(m.prefix)
	if max != nil {
		end = m.Key(max.key)
		if max.inclusive {
			end = append(end, 0x00)
		}
	}
	return start, end
}

// Range 按键序迭代 [min, max]，端点是否包含由 Bound 决定，limit <= 0 表示不限
func (m Map[K, V]) Range(store types.ReadonlyStorage, min, max *Bound[K], order types.Order, limit int) ([]Pair[K, V], error) {
	start, end := m.rawBounds(min, max)
	if end != nil && bytes.Compare(start, end) >= 0 {
		return nil, nil
	}
	it, err := store.Range(start, end, order)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var out []Pair[K, V]
	for limit <= 0 || len(out) < limit {
		rec, ok := it.Next()
		if !ok {
			break
		}
		k, err := m.codec.Decode(rec.Key[len(m.prefix):])
		if err != nil {
			return nil, err
		}
		var v V
		if err := decodeValue(rec.Value, &v); err != nil {
			return nil, err
		}
		out = append(out, Pair[K, V]{Key: k, Value: v})
	}
	return out, nil
}

// Keys 只返回键
func (m Map[K, V]) Keys(store types.ReadonlyStorage, min, max *Bound[K], order types.Order, limit int) ([]K, error) {
	start, end := m.rawBounds(min, max)
	if end != nil && bytes.Compare(start, end) >= 0 {
		return nil, nil
	}
	it, err := store.Range(start, end, order)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var out []K
	for limit <= 0 || len(out) < limit {
		rec, ok := it.Next()
		if !ok {
			break
		}
		k, err := m.codec.Decode(rec.Key[len(m.prefix):])
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}

// Paginate 分页：沿 order 方向从 startAfter 之后开始（不含），最多 ClampLimit(limit) 条
func (m Map[K, V]) Paginate(store types.ReadonlyStorage, startAfter *K, limit *uint32, order types.Order) ([]Pair[K, V], error) {
	var min, max *Bound[K]
	if startAfter != nil {
		if order == types.Descending {
			max = Exclusive(*startAfter)
		} else {
			min = Exclusive(*startAfter)
		}
	}
	return m.Range(store, min, max, order, ClampLimit(limit))
}
