package host

import (
	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/seints-row/pkg/types"
	"github.com/weisyn/seints-row/pkg/utils"
)

// readonlyStorage 合约存储的只读视图，所有键都加上合约前缀
type readonlyStorage struct {
	reader storage.BadgerReader
	prefix []byte
}

var _ types.ReadonlyStorage = (*readonlyStorage)(nil)

func newReadonlyStorage(reader storage.BadgerReader, addr types.Addr) *readonlyStorage {
	return &readonlyStorage{reader: reader, prefix: contractStoragePrefix(addr)}
}

func (s *readonlyStorage) key(k []byte) []byte {
	out := make([]byte, 0, len(s.prefix)+len(k))
	return append(append(out, s.prefix...), k...)
}

// Get 读取键
func (s *readonlyStorage) Get(key []byte) ([]byte, error) {
	v, err := s.reader.Get(s.key(key))
	if err != nil {
		return nil, types.HostErr("storage get", err)
	}
	return v, nil
}

// Range 迭代 [start, end)，结果在调用时全部读出
func (s *readonlyStorage) Range(start, end []byte, order types.Order) (types.Iterator, error) {
	lo := s.prefix
	if start != nil {
		lo = s.key(start)
	}
	hi := utils.PrefixEnd(s.prefix)
	if end != nil {
		hi = s.key(end)
	}
	kvs, err := s.reader.Range(lo, hi, order == types.Descending)
	if err != nil {
		return nil, types.HostErr("storage range", err)
	}
	records := make([]types.Record, len(kvs))
	for i, kv := range kvs {
		records[i] = types.Record{Key: kv.Key[len(s.prefix):], Value: kv.Value}
	}
	return types.NewSliceIterator(records), nil
}

// contractStorage 可写的合约存储，写入进入当前调用的事务
type contractStorage struct {
	readonlyStorage
	tx storage.BadgerTransaction
}

var _ types.Storage = (*contractStorage)(nil)

func newContractStorage(tx storage.BadgerTransaction, addr types.Addr) *contractStorage {
	return &contractStorage{
		readonlyStorage: readonlyStorage{reader: tx, prefix: contractStoragePrefix(addr)},
		tx:              tx,
	}
}

// Set 写入键
func (s *contractStorage) Set(key, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	if err := s.tx.Set(s.key(key), value); err != nil {
		return types.HostErr("storage set", err)
	}
	return nil
}

// Remove 删除键
func (s *contractStorage) Remove(key []byte) error {
	if err := s.tx.Delete(s.key(key)); err != nil {
		return types.HostErr("storage remove", err)
	}
	return nil
}
