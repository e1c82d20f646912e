package app

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/fx"

	"github.com/weisyn/seints-row/configs"
	appconfig "github.com/weisyn/seints-row/internal/config"
	"github.com/weisyn/seints-row/pkg/types"
)

// Option 应用程序选项函数类型
type Option func(*options)

// options 应用程序选项
type options struct {
	// 配置文件路径
	configFilePath string

	// 嵌入的配置内容（优先级高于configFilePath）
	embeddedConfig []byte

	// 数据目录，覆盖配置文件中的 data_dir
	dataDir string

	// 是否启动 HTTP 网关
	enableAPI bool

	// 附加的 fx 选项，测试中用于替换或补充模块
	extra []fx.Option
}

// WithConfigFile 设置配置文件路径
func WithConfigFile(configPath string) Option {
	return func(o *options) {
		o.configFilePath = configPath
	}
}

// WithEmbeddedConfig 设置嵌入的配置内容（优先级高于WithConfigFile）
func WithEmbeddedConfig(configBytes []byte) Option {
	return func(o *options) {
		o.embeddedConfig = configBytes
	}
}

// WithDataDir 覆盖数据目录，数据库与日志文件都放在该目录下
func WithDataDir(dir string) Option {
	return func(o *options) {
		o.dataDir = dir
	}
}

// WithAPI 启用HTTP网关
func WithAPI() Option {
	return func(o *options) {
		o.enableAPI = true
	}
}

// WithFxOptions 追加 fx 选项
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) {
		o.extra = append(o.extra, opts...)
	}
}

// newOptions 创建选项
func newOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// loadAppConfig 按优先级解析配置：嵌入内容 > 配置文件 > 内置默认配置
//
// 显式指定的配置文件不存在时返回错误
func (o *options) loadAppConfig() (*types.AppConfig, error) {
	var (
		appConfig *types.AppConfig
		err       error
	)
	switch {
	case len(o.embeddedConfig) > 0:
		appConfig, err = appconfig.ParseAppConfig(o.embeddedConfig)
		if err != nil {
			return nil, fmt.Errorf("解析嵌入配置失败: %w", err)
		}
	case o.configFilePath != "":
		if _, statErr := os.Stat(o.configFilePath); statErr != nil {
			return nil, fmt.Errorf("配置文件 %s 不可用: %w", o.configFilePath, statErr)
		}
		appConfig, err = appconfig.LoadAppConfig(o.configFilePath)
		if err != nil {
			return nil, err
		}
	default:
		appConfig, err = appconfig.ParseAppConfig(configs.GetDefaultConfig())
		if err != nil {
			return nil, fmt.Errorf("解析内置配置失败: %w", err)
		}
	}

	if o.dataDir != "" {
		applyDataDir(appConfig, o.dataDir)
	}
	return appConfig, nil
}

// applyDataDir 把存储与日志文件重定向到 dir
func applyDataDir(appConfig *types.AppConfig, dir string) {
	appConfig.DataDir = types.StringPtr(dir)
	if appConfig.Storage == nil {
		appConfig.Storage = &types.UserStorageConfig{}
	}
	appConfig.Storage.DataRoot = types.StringPtr(dir)
	if appConfig.Log != nil && appConfig.Log.FilePath != nil && *appConfig.Log.FilePath != "" {
		name := filepath.Base(*appConfig.Log.FilePath)
		appConfig.Log.FilePath = types.StringPtr(filepath.Join(dir, "logs", name))
	}
}
