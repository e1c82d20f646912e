// Package api 本地 HTTP 网关配置
package api

import (
	"fmt"
	"time"

	"github.com/weisyn/seints-row/pkg/types"
)

// APIOptions API服务配置选项
type APIOptions struct {
	// HTTP API配置
	HTTP HTTPConfig `json:"http"`

	// WebSocket配置
	WebSocket WebSocketConfig `json:"websocket"`
}

// HTTPConfig HTTP API配置
type HTTPConfig struct {
	Enabled bool   `json:"enabled"` // 是否启用HTTP服务（总开关）
	Host    string `json:"host"`    // 监听地址
	Port    int    `json:"port"`    // 监听端口，0 表示由系统分配

	ReadTimeout  time.Duration `json:"read_timeout"`  // 读取超时时间
	WriteTimeout time.Duration `json:"write_timeout"` // 写入超时时间

	MaxRequestSize int64 `json:"max_request_size"` // 最大请求大小(字节)
}

// WebSocketConfig WebSocket配置
type WebSocketConfig struct {
	Enabled    bool `json:"enabled"`     // 是否启用 /ws/events
	BufferSize int  `json:"buffer_size"` // 每个连接的发送缓冲
}

// Config API配置实现
type Config struct {
	options *APIOptions
}

// New 创建API配置，userConfig 为 nil 时全部使用默认值
func New(userConfig *types.UserAPIConfig) *Config {
	opts := createDefaultAPIOptions()
	if userConfig != nil {
		applyUserAPIConfig(opts, userConfig)
	}
	return &Config{options: opts}
}

// NewFromOptions 由完整选项创建配置
func NewFromOptions(opts *APIOptions) *Config {
	if opts == nil {
		opts = createDefaultAPIOptions()
	}
	return &Config{options: opts}
}

func createDefaultAPIOptions() *APIOptions {
	return &APIOptions{
		HTTP: HTTPConfig{
			Enabled:        defaultHTTPEnabled,
			Host:           defaultHTTPHost,
			Port:           defaultHTTPPort,
			ReadTimeout:    defaultHTTPReadTimeout,
			WriteTimeout:   defaultHTTPWriteTimeout,
			MaxRequestSize: defaultMaxRequestSize,
		},
		WebSocket: WebSocketConfig{
			Enabled:    defaultWebSocketEnabled,
			BufferSize: defaultWebSocketBuffer,
		},
	}
}

// applyUserAPIConfig 非法端口与非正数大小保留默认值
func applyUserAPIConfig(opts *APIOptions, userConfig *types.UserAPIConfig) {
	if userConfig.HTTPEnabled != nil {
		opts.HTTP.Enabled = *userConfig.HTTPEnabled
	}
	if userConfig.HTTPHost != nil && *userConfig.HTTPHost != "" {
		opts.HTTP.Host = *userConfig.HTTPHost
	}
	if userConfig.HTTPPort != nil && *userConfig.HTTPPort >= 0 && *userConfig.HTTPPort <= 65535 {
		opts.HTTP.Port = *userConfig.HTTPPort
	}
	if userConfig.MaxRequestSize != nil && *userConfig.MaxRequestSize > 0 {
		opts.HTTP.MaxRequestSize = *userConfig.MaxRequestSize
	}
	if userConfig.WebSocketEnabled != nil {
		opts.WebSocket.Enabled = *userConfig.WebSocketEnabled
	}
	if userConfig.WebSocketBuffer != nil && *userConfig.WebSocketBuffer > 0 {
		opts.WebSocket.BufferSize = *userConfig.WebSocketBuffer
	}
}

// GetOptions 获取完整选项
func (c *Config) GetOptions() *APIOptions {
	return c.options
}

// IsHTTPEnabled 是否启用HTTP服务
func (c *Config) IsHTTPEnabled() bool {
	return c.options.HTTP.Enabled
}

// GetListenAddress 监听地址 host:port
func (c *Config) GetListenAddress() string {
	return fmt.Sprintf("%s:%d", c.options.HTTP.Host, c.options.HTTP.Port)
}

// GetReadTimeout 读取超时
func (c *Config) GetReadTimeout() time.Duration {
	return c.options.HTTP.ReadTimeout
}

// GetWriteTimeout 写入超时
func (c *Config) GetWriteTimeout() time.Duration {
	return c.options.HTTP.WriteTimeout
}

// GetMaxRequestSize 最大请求大小
func (c *Config) GetMaxRequestSize() int64 {
	return c.options.HTTP.MaxRequestSize
}

// IsWebSocketEnabled 是否启用事件推送
func (c *Config) IsWebSocketEnabled() bool {
	return c.options.WebSocket.Enabled
}

// GetWebSocketBuffer 每个连接的发送缓冲
func (c *Config) GetWebSocketBuffer() int {
	return c.options.WebSocket.BufferSize
}
