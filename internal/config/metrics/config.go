package metrics

import (
	"regexp"

	"github.com/weisyn/seints-row/pkg/types"
)

// 与 prometheus 指标名的字符集一致
var namespacePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// MetricsOptions 指标配置选项
type MetricsOptions struct {
	Enabled   bool   `json:"enabled"`
	Namespace string `json:"namespace"`
}

// Config 指标配置实现
type Config struct {
	options *MetricsOptions
}

// New 创建指标配置，非法的 namespace 被忽略
func New(userConfig *types.UserMetricsConfig) *Config {
	opts := &MetricsOptions{
		Enabled:   defaultEnabled,
		Namespace: defaultNamespace,
	}
	if userConfig != nil {
		if userConfig.Enabled != nil {
			opts.Enabled = *userConfig.Enabled
		}
		if userConfig.Namespace != nil && namespacePattern.MatchString(*userConfig.Namespace) {
			opts.Namespace = *userConfig.Namespace
		}
	}
	return &Config{options: opts}
}

// GetOptions 获取完整选项
func (c *Config) GetOptions() *MetricsOptions {
	return c.options
}

// IsEnabled 是否采集
func (c *Config) IsEnabled() bool {
	return c.options.Enabled
}

// GetNamespace 指标名前缀
func (c *Config) GetNamespace() string {
	return c.options.Namespace
}

// NewFromOptions 由完整选项创建配置
func NewFromOptions(opts *MetricsOptions) *Config {
	if opts == nil {
		return New(nil)
	}
	return &Config{options: opts}
}
