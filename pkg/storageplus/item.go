package storageplus

import (
	"encoding/json"
	"fmt"

	"github.com/weisyn/seints-row/pkg/types"
)

// Item 单值存储
type Item[T any] struct {
	key  []byte
	name string
}

// NewItem 以命名空间为键创建 Item
func NewItem[T any](namespace string) Item[T] {
	return Item[T]{key: []byte(namespace), name: namespace}
}

// Key 物理键
func (i Item[T]) Key() []byte {
	return i.key
}

// Save 写入
func (i Item[T]) Save(store types.Storage, v T) error {
	raw, err := encodeValue(v)
	if err != nil {
		return err
	}
	return store.Set(i.key, raw)
}

// Load 读取，缺失时返回 NotFound
func (i Item[T]) Load(store types.ReadonlyStorage) (T, error) {
	v, found, err := i.May(store)
	if err != nil {
		return v, err
	}
	if !found {
		return v, types.NotFoundf("%s", i.name)
	}
	return v, nil
}

// May 可选读取，缺失时 found 为 false
func (i Item[T]) May(store types.ReadonlyStorage) (T, bool, error) {
	var v T
	raw, err := store.Get(i.key)
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

// Exists 是否存在
func (i Item[T]) Exists(store types.ReadonlyStorage) (bool, error) {
	raw, err := store.Get(i.key)
	if err != nil {
		return false, err
	}
	return raw != nil, nil
}

// Remove 删除
func (i Item[T]) Remove(store types.Storage) error {
	return store.Remove(i.key)
}

// Update 读取-修改-写回，fn 返回错误时不写入
func (i Item[T]) Update(store types.Storage, fn func(cur T, found bool) (T, error)) (T, error) {
	cur, found, err := i.May(store)
	if err != nil {
		return cur, err
	}
	next, err := fn(cur, found)
	if err != nil {
		return next, err
	}
	if err := i.Save(store, next); err != nil {
		return next, err
	}
	return next, nil
}

func encodeValue(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding %T: %v", types.ErrSerialization, v, err)
	}
	return raw, nil
}

func decodeValue(raw []byte, out interface{}) error {
	if err := types.StrictUnmarshal(raw, out); err != nil {
		return types.SerializationErr(fmt.Sprintf("%T", out), err)
	}
	return nil
}
