package badger

import (
	"fmt"
	"sync/atomic"

	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/storage"
)

var _ storage.TxSizeEstimator = (*TxSizeEstimator)(nil)

// DefaultMaxTxSize 单个事务写入量上限的估算值
const DefaultMaxTxSize = 10 << 20

// 每个条目的元数据开销估算
const (
	writeOverhead  = 20
	deleteOverhead = 10
)

// ErrTxTooLarge 事务写入量超过上限
var ErrTxTooLarge = fmt.Errorf("transaction too large")

// TxSizeEstimator 估算一个事务的写入量
//
// 估算值是近似值。宿主把每次调用的写入量作为指标上报，
// 超过上限时拒绝继续写入，避免提交时才得到 ErrTxnTooBig
type TxSizeEstimator struct {
	currentSize atomic.Uint64
	maxSize     uint64
}

// NewTxSizeEstimator maxSize 为 0 时使用 DefaultMaxTxSize
func NewTxSizeEstimator(maxSize uint64) *TxSizeEstimator {
	if maxSize == 0 {
		maxSize = DefaultMaxTxSize
	}
	return &TxSizeEstimator{maxSize: maxSize}
}

// AddWrite 记录写入：键 + 值 + 元数据
func (e *TxSizeEstimator) AddWrite(keyLen, valueLen int) {
	e.currentSize.Add(uint64(keyLen + valueLen + writeOverhead))
}

// AddDelete 记录删除：删除同样写入墓碑
func (e *TxSizeEstimator) AddDelete(keyLen int) {
	e.currentSize.Add(uint64(keyLen + deleteOverhead))
}

// Fits 再写入 n 字节后是否仍在上限内
func (e *TxSizeEstimator) Fits(n int) bool {
	return e.GetCurrentSize()+uint64(n) <= e.maxSize
}

// GetCurrentSize 当前估算值（字节）
func (e *TxSizeEstimator) GetCurrentSize() uint64 {
	return e.currentSize.Load()
}

// IsNearLimit 达到上限的 80%
func (e *TxSizeEstimator) IsNearLimit() bool {
	return e.GetCurrentSize() >= e.maxSize*80/100
}

// GetMaxSize 上限（字节）
func (e *TxSizeEstimator) GetMaxSize() uint64 {
	return e.maxSize
}
