// Package badger BadgerDB 存储配置
package badger

import (
	"path/filepath"

	configtypes "github.com/weisyn/seints-row/pkg/types"
	"github.com/weisyn/seints-row/pkg/utils"
)

// BadgerOptions BadgerDB存储配置选项
type BadgerOptions struct {
	Path       string `json:"path"`        // 数据库存储路径
	InMemory   bool   `json:"in_memory"`   // 内存模式，不落盘，Path 被忽略
	SyncWrites bool   `json:"sync_writes"` // 是否同步写入

	MemTableSize      int64 `json:"mem_table_size"`       // 内存表大小
	NumVersionsToKeep int   `json:"num_versions_to_keep"` // 每个键保留的版本数
}

// Config BadgerDB配置实现
type Config struct {
	options *BadgerOptions
}

// New 创建BadgerDB配置，userConfig 为 *types.UserStorageConfig 时覆盖默认值
func New(userConfig interface{}) *Config {
	options := createDefaultBadgerOptions()
	if userConfig != nil {
		applyUserConfig(options, userConfig)
	}
	return &Config{options: options}
}

// NewFromOptions 从BadgerOptions创建配置实现
func NewFromOptions(options *BadgerOptions) *Config {
	return &Config{options: options}
}

// NewInMemory 测试与一次性运行使用的内存配置
func NewInMemory() *Config {
	options := createDefaultBadgerOptions()
	options.InMemory = true
	options.Path = ""
	options.SyncWrites = false
	return &Config{options: options}
}

func createDefaultBadgerOptions() *BadgerOptions {
	return &BadgerOptions{
		Path:              getDefaultPath(),
		InMemory:          defaultInMemory,
		SyncWrites:        defaultSyncWrites,
		MemTableSize:      defaultMemTableSize,
		NumVersionsToKeep: defaultNumVersionsToKeep,
	}
}

// applyUserConfig 应用用户配置
//
// 配置了 storage.data_root 时数据库位于 {data_root}/badger/
func applyUserConfig(options *BadgerOptions, userConfig interface{}) {
	storageConfig, ok := userConfig.(*configtypes.UserStorageConfig)
	if !ok || storageConfig == nil {
		return
	}
	if storageConfig.DataRoot != nil {
		options.Path = utils.ResolveDataPath(filepath.Join(*storageConfig.DataRoot, "badger"))
	}
	if storageConfig.InMemory != nil {
		options.InMemory = *storageConfig.InMemory
	}
	if storageConfig.SyncWrites != nil {
		options.SyncWrites = *storageConfig.SyncWrites
	}
	if options.InMemory {
		options.Path = ""
		options.SyncWrites = false
	}
}

// GetOptions 获取完整的BadgerDB配置选项
func (c *Config) GetOptions() *BadgerOptions {
	return c.options
}

// GetPath 获取数据库路径
func (c *Config) GetPath() string {
	return c.options.Path
}

// IsInMemory 是否内存模式
func (c *Config) IsInMemory() bool {
	return c.options.InMemory
}

// IsSyncWritesEnabled 是否启用同步写入
func (c *Config) IsSyncWritesEnabled() bool {
	return c.options.SyncWrites
}

// GetMemTableSize 获取内存表大小
func (c *Config) GetMemTableSize() int64 {
	return c.options.MemTableSize
}

// GetNumVersionsToKeep 每个键保留的版本数
func (c *Config) GetNumVersionsToKeep() int {
	return c.options.NumVersionsToKeep
}
