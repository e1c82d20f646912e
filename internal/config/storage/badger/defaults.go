package badger

import (
	"github.com/weisyn/seints-row/pkg/utils"
)

// getDefaultPath 默认数据库路径
func getDefaultPath() string {
	return utils.ResolveDataPath("./data/badger")
}

const (
	// defaultSyncWrites 默认每次提交同步落盘
	// 宿主以单个调用为事务边界，提交成功即视为持久化
	defaultSyncWrites = true

	// defaultInMemory 默认落盘
	defaultInMemory = false

	// defaultMemTableSize 默认内存表大小为16MB
	// 单合约宿主的写入量很小
	defaultMemTableSize = 16 << 20

	// defaultNumVersionsToKeep 只保留最新版本
	defaultNumVersionsToKeep = 1
)
