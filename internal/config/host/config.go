// Package host 本地合约宿主的链参数配置
package host

import (
	"time"

	configtypes "github.com/weisyn/seints-row/pkg/types"
)

// HostOptions 宿主配置选项
type HostOptions struct {
	ChainID        string        `json:"chain_id"`
	GenesisTime    time.Time     `json:"genesis_time"`
	BlockTime      time.Duration `json:"block_time"`
	MaxCallDepth   int           `json:"max_call_depth"`
	AddressVersion byte          `json:"address_version"`
}

// Config 宿主配置实现
type Config struct {
	options *HostOptions
}

// New 创建宿主配置，userConfig 为 *types.UserHostConfig 时覆盖默认值
// 无法解析的创世时间保留默认值
func New(userConfig interface{}) *Config {
	options := createDefaultHostOptions()
	if userConfig != nil {
		applyUserHostConfig(options, userConfig)
	}
	return &Config{options: options}
}

// NewFromOptions 直接使用已构造的选项
func NewFromOptions(options *HostOptions) *Config {
	return &Config{options: options}
}

func createDefaultHostOptions() *HostOptions {
	genesis, _ := time.Parse(time.RFC3339, defaultGenesisTime)
	return &HostOptions{
		ChainID:        defaultChainID,
		GenesisTime:    genesis,
		BlockTime:      defaultBlockTime,
		MaxCallDepth:   defaultMaxCallDepth,
		AddressVersion: defaultAddressVersion,
	}
}

func applyUserHostConfig(options *HostOptions, userConfig interface{}) {
	hostConfig, ok := userConfig.(*configtypes.UserHostConfig)
	if !ok || hostConfig == nil {
		return
	}
	if hostConfig.ChainID != nil && *hostConfig.ChainID != "" {
		options.ChainID = *hostConfig.ChainID
	}
	if hostConfig.GenesisTime != nil {
		if t, err := time.Parse(time.RFC3339, *hostConfig.GenesisTime); err == nil {
			options.GenesisTime = t.UTC()
		}
	}
	if hostConfig.BlockTimeSeconds != nil && *hostConfig.BlockTimeSeconds > 0 {
		options.BlockTime = time.Duration(*hostConfig.BlockTimeSeconds) * time.Second
	}
	if hostConfig.MaxCallDepth != nil && *hostConfig.MaxCallDepth > 0 {
		options.MaxCallDepth = *hostConfig.MaxCallDepth
	}
	if hostConfig.AddressVersion != nil {
		options.AddressVersion = *hostConfig.AddressVersion
	}
}

// GetOptions 获取完整的宿主配置选项
func (c *Config) GetOptions() *HostOptions {
	return c.options
}

// GetChainID 链ID
func (c *Config) GetChainID() string {
	return c.options.ChainID
}

// GetGenesisTime 创世区块时间
func (c *Config) GetGenesisTime() time.Time {
	return c.options.GenesisTime
}

// GetBlockTime 每个区块推进的时间
func (c *Config) GetBlockTime() time.Duration {
	return c.options.BlockTime
}

// GetMaxCallDepth 子消息最大递归深度
func (c *Config) GetMaxCallDepth() int {
	return c.options.MaxCallDepth
}

// GetAddressVersion 地址版本字节
func (c *Config) GetAddressVersion() byte {
	return c.options.AddressVersion
}
