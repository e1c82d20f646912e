package types

import "bytes"

// Order 迭代方向
type Order int

const (
	// Ascending 按键字节序升序
	Ascending Order = 1
	// Descending 按键字节序降序
	Descending Order = 2
)

// String 实现 fmt.Stringer
func (o Order) String() string {
	switch o {
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	default:
		return "unknown"
	}
}

// Record 存储中的一条键值
type Record struct {
	Key   []byte
	Value []byte
}

// Iterator 区间迭代器
//
// Next 在没有更多记录时返回 false。迭代器不做并发保护
type Iterator interface {
	Next() (Record, bool)
	Close()
}

// ReadonlyStorage 合约存储的只读视图
//
// query 入口只能拿到该接口，因此在查询处理中写入存储无法通过编译
type ReadonlyStorage interface {
	// Get 读取键，键不存在时返回 (nil, nil)
	Get(key []byte) ([]byte, error)

	// Range 迭代 [start, end) 区间，nil 表示无界
	Range(start, end []byte, order Order) (Iterator, error)
}

// Storage 合约存储
type Storage interface {
	ReadonlyStorage

	// Set 写入键，空值视为合法
	Set(key, value []byte) error

	// Remove 删除键，键不存在时不报错
	Remove(key []byte) error
}

// sliceIterator 基于已排序切片的迭代器
type sliceIterator struct {
	records []Record
	pos     int
}

// NewSliceIterator 由已按迭代方向排好序的记录创建迭代器
func NewSliceIterator(records []Record) Iterator {
	return &sliceIterator{records: records}
}

func (it *sliceIterator) Next() (Record, bool) {
	if it.pos >= len(it.records) {
		return Record{}, false
	}
	r := it.records[it.pos]
	it.pos++
	return r, true
}

func (it *sliceIterator) Close() {
	it.records = nil
}

// InRange 判断 key 是否落在 [start, end) 内，nil 表示无界
func InRange(key, start, end []byte) bool {
	if start != nil && bytes.Compare(key, start) < 0 {
		return false
	}
	if end != nil && bytes.Compare(key, end) >= 0 {
		return false
	}
	return true
}

// CollectRecords 读尽迭代器
func CollectRecords(it Iterator) []Record {
	defer it.Close()
	var out []Record
	for {
		r, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, r)
	}
}
