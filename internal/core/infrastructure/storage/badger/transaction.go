package badger

import (
	"bytes"
	"errors"
	"fmt"
	"sync/atomic"

	badgerdb "github.com/dgraph-io/badger/v3"

	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/storage"
)

var _ storage.BadgerTransaction = (*Transaction)(nil)

// TransactionState 事务状态
type TransactionState int32

const (
	// TxActive 活动
	TxActive TransactionState = iota
	// TxCommitted 已提交
	TxCommitted
	// TxDiscarded 已丢弃
	TxDiscarded
)

// ErrTxClosed 事务已提交或丢弃
var ErrTxClosed = errors.New("事务已关闭")

// Transaction 包装 badger 事务
type Transaction struct {
	txn      *badgerdb.Txn
	state    int32
	writable bool
	writes   int
	sizeEst  *TxSizeEstimator
}

func newTransaction(txn *badgerdb.Txn, writable bool) *Transaction {
	return &Transaction{
		txn:      txn,
		state:    int32(TxActive),
		writable: writable,
		sizeEst:  NewTxSizeEstimator(0),
	}
}

// Get 获取指定键的值
func (t *Transaction) Get(key []byte) ([]byte, error) {
	if !t.IsActive() {
		return nil, ErrTxClosed
	}
	item, err := t.txn.Get(key)
	if err != nil {
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, fmt.Errorf("复制键值失败: %w", err)
	}
	return val, nil
}

// Exists 检查键是否存在
func (t *Transaction) Exists(key []byte) (bool, error) {
	if !t.IsActive() {
		return false, ErrTxClosed
	}
	_, err := t.txn.Get(key)
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("检查键存在性失败: %w", err)
	}
	return true, nil
}

// Range 读出 [start, end) 内的键值对
//
// 反向迭代时 Seek(end) 定位到 <= end 的最大键，等于 end 的键需要跳过
func (t *Transaction) Range(start, end []byte, reverse bool) ([]storage.KeyValue, error) {
	if !t.IsActive() {
		return nil, ErrTxClosed
	}
	opts := badgerdb.DefaultIteratorOptions
	opts.Reverse = reverse

	it := t.txn.NewIterator(opts)
	defer it.Close()

	inRange := func(k []byte) (ok, stop bool) {
		if reverse {
			if start != nil && bytes.Compare(k, start) < 0 {
				return false, true
			}
			if end != nil && bytes.Compare(k, end) >= 0 {
				return false, false
			}
			return true, false
		}
		if end != nil && bytes.Compare(k, end) >= 0 {
			return false, true
		}
		return true, false
	}

	switch {
	case reverse && end != nil:
		it.Seek(end)
	case !reverse && start != nil:
		it.Seek(start)
	default:
		it.Rewind()
	}

	var out []storage.KeyValue
	for ; it.Valid(); it.Next() {
		item := it.Item()
		ok, stop := inRange(item.Key())
		if stop {
			break
		}
		if !ok {
			continue
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			return nil, fmt.Errorf("复制键值失败: %w", err)
		}
		out = append(out, storage.KeyValue{Key: item.KeyCopy(nil), Value: val})
	}
	return out, nil
}

// Set 设置键值对
func (t *Transaction) Set(key, value []byte) error {
	if err := t.checkWritable(); err != nil {
		return err
	}
	if !t.sizeEst.Fits(len(key) + len(value) + writeOverhead) {
		return fmt.Errorf("%w: %d bytes", ErrTxTooLarge, t.sizeEst.GetCurrentSize())
	}
	if err := t.txn.Set(key, value); err != nil {
		return fmt.Errorf("设置键值失败: %w", err)
	}
	t.sizeEst.AddWrite(len(key), len(value))
	t.writes++
	return nil
}

// Delete 删除指定键的值
func (t *Transaction) Delete(key []byte) error {
	if err := t.checkWritable(); err != nil {
		return err
	}
	if err := t.txn.Delete(key); err != nil {
		return fmt.Errorf("删除键值失败: %w", err)
	}
	t.sizeEst.AddDelete(len(key))
	t.writes++
	return nil
}

func (t *Transaction) checkWritable() error {
	if !t.IsActive() {
		return ErrTxClosed
	}
	if !t.writable {
		return fmt.Errorf("只读事务不能写入")
	}
	return nil
}

// Commit 提交事务，没有写入时直接丢弃
func (t *Transaction) Commit() error {
	if !atomic.CompareAndSwapInt32(&t.state, int32(TxActive), int32(TxCommitted)) {
		if t.getState() == TxCommitted {
			return fmt.Errorf("事务已提交")
		}
		return fmt.Errorf("事务已丢弃，无法提交")
	}
	if t.writes == 0 {
		t.txn.Discard()
		return nil
	}
	if err := t.txn.Commit(); err != nil {
		return fmt.Errorf("事务提交失败: %w", err)
	}
	return nil
}

// Discard 丢弃事务中的所有更改
func (t *Transaction) Discard() {
	if atomic.CompareAndSwapInt32(&t.state, int32(TxActive), int32(TxDiscarded)) {
		t.txn.Discard()
	}
}

func (t *Transaction) getState() TransactionState {
	return TransactionState(atomic.LoadInt32(&t.state))
}

// IsActive 检查事务是否处于活动状态
func (t *Transaction) IsActive() bool {
	return t.getState() == TxActive
}

// IsCommitted 检查事务是否已提交
func (t *Transaction) IsCommitted() bool {
	return t.getState() == TxCommitted
}

// GetSizeEstimator 事务写入量估算
func (t *Transaction) GetSizeEstimator() storage.TxSizeEstimator {
	return t.sizeEst
}
