// Package types provides configuration type definitions.
package types

// AppConfig 应用程序根配置
// 只包含JSON配置文件解析所需的结构，不包含任何内部字段
// 默认值和完整配置结构在 internal/config/*/defaults.go 和 internal/config/*/config.go 中定义
type AppConfig struct {
	// 应用程序基本信息
	AppName *string `json:"app_name,omitempty"` // 应用名称
	DataDir *string `json:"data_dir,omitempty"` // 数据目录路径

	// Environment 运行环境：dev | test | prod
	Environment *string `json:"environment,omitempty"`

	// 存储配置
	Storage *UserStorageConfig `json:"storage,omitempty"`

	// 日志配置
	Log *UserLogConfig `json:"log,omitempty"`

	// 宿主链配置 - 对应配置文件中的 host 字段
	Host *UserHostConfig `json:"host,omitempty"`

	// 事件配置
	Event *UserEventConfig `json:"event,omitempty"`

	// 指标配置
	Metrics *UserMetricsConfig `json:"metrics,omitempty"`

	// 本地 HTTP 网关配置
	API *UserAPIConfig `json:"api,omitempty"`
}

// Environment 运行环境
type Environment string

const (
	EnvDev  Environment = "dev"
	EnvTest Environment = "test"
	EnvProd Environment = "prod"
)

// UserStorageConfig 用户存储配置
type UserStorageConfig struct {
	DataRoot   *string `json:"data_root,omitempty"`   // 数据根目录（data_root）
	InMemory   *bool   `json:"in_memory,omitempty"`   // 使用内存模式（不落盘）
	SyncWrites *bool   `json:"sync_writes,omitempty"` // 每次提交同步落盘
}

// UserLogConfig 用户日志配置
// 只包含JSON配置文件中实际出现的字段
type UserLogConfig struct {
	Level      *string `json:"level,omitempty"`       // 日志级别：debug, info, warn, error
	FilePath   *string `json:"file_path,omitempty"`   // 日志文件路径
	ToConsole  *bool   `json:"to_console,omitempty"`  // 显式开关控制台输出，优先于 file_path 的默认行为
	MaxSizeMB  *int    `json:"max_size_mb,omitempty"` // 单个文件大小上限
	MaxBackups *int    `json:"max_backups,omitempty"` // 保留的轮转文件数
	Caller     *bool   `json:"caller,omitempty"`      // 是否记录调用位置
}

// UserHostConfig 用户宿主链配置
type UserHostConfig struct {
	ChainID          *string `json:"chain_id,omitempty"`           // 链ID
	GenesisTime      *string `json:"genesis_time,omitempty"`       // 创世时间（RFC3339）
	BlockTimeSeconds *uint64 `json:"block_time_seconds,omitempty"` // 每个区块推进的秒数
	MaxCallDepth     *int    `json:"max_call_depth,omitempty"`     // 子消息最大递归深度
	AddressVersion   *byte   `json:"address_version,omitempty"`    // Base58Check 地址版本字节
}

// UserEventConfig 用户事件配置
type UserEventConfig struct {
	Enabled     *bool `json:"enabled,omitempty"`      // 是否发布合约事件
	HistorySize *int  `json:"history_size,omitempty"` // 保留的最近事件数量
	Async       *bool `json:"async,omitempty"`        // 订阅者是否异步处理
}

// UserMetricsConfig 用户指标配置
type UserMetricsConfig struct {
	Enabled   *bool   `json:"enabled,omitempty"`   // 是否采集指标
	Namespace *string `json:"namespace,omitempty"` // 指标名前缀
}

// UserAPIConfig 用户网关配置
type UserAPIConfig struct {
	HTTPEnabled      *bool   `json:"http_enabled,omitempty"`      // 是否启用 HTTP 网关
	HTTPHost         *string `json:"http_host,omitempty"`         // 监听地址
	HTTPPort         *int    `json:"http_port,omitempty"`         // 监听端口
	MaxRequestSize   *int64  `json:"max_request_size,omitempty"`  // 最大请求体字节数
	WebSocketEnabled *bool   `json:"websocket_enabled,omitempty"` // 是否开放 /ws/events
	WebSocketBuffer  *int    `json:"websocket_buffer,omitempty"`  // 每个连接的发送缓冲
}

// 配置辅助函数
// 这些函数帮助创建指针类型的配置值，区分"未设置"和"设置为零值"

// BoolPtr 创建bool指针，用于明确表示用户设置了该值
func BoolPtr(v bool) *bool {
	return &v
}

// IntPtr 创建int指针，用于明确表示用户设置了该值
func IntPtr(v int) *int {
	return &v
}

// StringPtr 创建string指针，用于明确表示用户设置了该值
func StringPtr(v string) *string {
	return &v
}

// UInt64Ptr 创建uint64指针，用于明确表示用户设置了该值
func UInt64Ptr(v uint64) *uint64 {
	return &v
}

// GetEnvironment 返回运行环境
func (c *AppConfig) GetEnvironment() Environment {
	if c.Environment == nil || *c.Environment == "" {
		return EnvDev // 默认 dev
	}
	return Environment(*c.Environment)
}
