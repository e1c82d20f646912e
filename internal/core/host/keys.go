package host

import (
	"encoding/binary"

	"github.com/weisyn/seints-row/pkg/types"
)

// 宿主在 badger 中的键布局
//
//	h/block            当前区块
//	h/seq              实例序号
//	h/code/{id:8}      代码记录
//	h/contract/{addr}  实例记录
//	c/{addr}/{key}     合约存储
var (
	blockKey       = []byte("h/block")
	seqKey         = []byte("h/seq")
	codePrefix     = []byte("h/code/")
	contractPrefix = []byte("h/contract/")
	storagePrefix  = []byte("c/")
)

func codeKey(id uint64) []byte {
	key := make([]byte, len(codePrefix)+8)
	n := copy(key, codePrefix)
	binary.BigEndian.PutUint64(key[n:], id)
	return key
}

func contractKey(addr types.Addr) []byte {
	return append(append([]byte{}, contractPrefix...), addr...)
}

// contractStoragePrefix 地址不含 '/'，前缀之间不会重叠
func contractStoragePrefix(addr types.Addr) []byte {
	key := make([]byte, 0, len(storagePrefix)+len(addr)+1)
	key = append(key, storagePrefix...)
	key = append(key, addr...)
	return append(key, '/')
}
