package event

import "github.com/weisyn/seints-row/pkg/types"

// EventOptions 事件系统配置选项
type EventOptions struct {
	Enabled     bool `json:"enabled"`      // 是否发布合约事件
	HistorySize int  `json:"history_size"` // 保留的最近事件数量，0 表示不保留
	Async       bool `json:"async"`        // 订阅者是否异步处理
}

// Config 事件配置实现
type Config struct {
	options *EventOptions
}

// New 创建事件配置，userConfig 为 nil 时全部使用默认值
func New(userConfig *types.UserEventConfig) *Config {
	opts := createDefaultEventOptions()
	if userConfig != nil {
		if userConfig.Enabled != nil {
			opts.Enabled = *userConfig.Enabled
		}
		if userConfig.HistorySize != nil && *userConfig.HistorySize >= 0 {
			opts.HistorySize = *userConfig.HistorySize
		}
		if userConfig.Async != nil {
			opts.Async = *userConfig.Async
		}
	}
	return &Config{options: opts}
}

// NewFromOptions 由完整选项创建配置
func NewFromOptions(opts *EventOptions) *Config {
	if opts == nil {
		opts = createDefaultEventOptions()
	}
	return &Config{options: opts}
}

func createDefaultEventOptions() *EventOptions {
	return &EventOptions{
		Enabled:     defaultEnabled,
		HistorySize: defaultHistorySize,
		Async:       defaultAsync,
	}
}

// GetOptions 获取完整选项
func (c *Config) GetOptions() *EventOptions {
	return c.options
}

// IsEnabled 是否启用
func (c *Config) IsEnabled() bool {
	return c.options.Enabled
}

// GetHistorySize 保留的最近事件数量
func (c *Config) GetHistorySize() int {
	return c.options.HistorySize
}

// IsAsync 订阅者是否异步处理
func (c *Config) IsAsync() bool {
	return c.options.Async
}
