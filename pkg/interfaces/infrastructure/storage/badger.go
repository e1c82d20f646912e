// Package storage 键值存储接口定义
//
// 宿主以一次顶层调用为事务边界：调用中的所有读写都经过同一个
// BadgerTransaction，出错时整体丢弃，成功时整体提交
package storage

import (
	"context"
)

// KeyValue 迭代结果中的一个键值对，键与值均为副本
type KeyValue struct {
	Key   []byte
	Value []byte
}

// BadgerStore 键值存储
type BadgerStore interface {
	// Close 关闭数据库，应用退出时必须调用
	Close() error

	// Get 获取指定键的值，键不存在时返回 nil, nil
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Set 在独立事务中写入
	Set(ctx context.Context, key, value []byte) error

	// Delete 在独立事务中删除
	Delete(ctx context.Context, key []byte) error

	// Exists 检查键是否存在
	Exists(ctx context.Context, key []byte) (bool, error)

	// PrefixScan 按前缀扫描，结果按键升序
	PrefixScan(ctx context.Context, prefix []byte) ([]KeyValue, error)

	// RunInTransaction 在读写事务中执行 fn
	// fn 返回错误时事务被丢弃，否则提交
	RunInTransaction(ctx context.Context, fn func(tx BadgerTransaction) error) error

	// View 在只读事务中执行 fn
	View(ctx context.Context, fn func(tx BadgerReader) error) error
}

// BadgerReader 事务内的读操作
type BadgerReader interface {
	// Get 键不存在时返回 nil, nil
	Get(key []byte) ([]byte, error)

	// Exists 检查键是否存在
	Exists(key []byte) (bool, error)

	// Range 返回 [start, end) 内的键值对；start 为 nil 表示无下界，end 为 nil 表示无上界
	// 结果在返回前全部读出，调用方可以在遍历结果的同时写入
	Range(start, end []byte, reverse bool) ([]KeyValue, error)
}

// BadgerTransaction 读写事务
type BadgerTransaction interface {
	BadgerReader

	// Set 写入
	Set(key, value []byte) error

	// Delete 删除
	Delete(key []byte) error

	// Commit 提交
	Commit() error

	// Discard 丢弃，已提交或已丢弃时为空操作
	Discard()

	// IsActive 事务是否仍可读写
	IsActive() bool

	// GetSizeEstimator 事务写入量估算
	GetSizeEstimator() TxSizeEstimator
}

// TxSizeEstimator 事务大小估算
type TxSizeEstimator interface {
	AddWrite(keyLen, valueLen int)
	AddDelete(keyLen int)
	GetCurrentSize() uint64
	IsNearLimit() bool
	GetMaxSize() uint64
}
