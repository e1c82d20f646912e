package config

import (
	"github.com/weisyn/seints-row/internal/config/api"
	"github.com/weisyn/seints-row/internal/config/event"
	"github.com/weisyn/seints-row/internal/config/host"
	"github.com/weisyn/seints-row/internal/config/log"
	"github.com/weisyn/seints-row/internal/config/metrics"
	"github.com/weisyn/seints-row/internal/config/storage/badger"
	"github.com/weisyn/seints-row/pkg/interfaces/config"
	"github.com/weisyn/seints-row/pkg/types"
)

// defaultAppName 未配置 app_name 时的名称
const defaultAppName = "seintsrow"

// Provider 实现配置提供者接口
type Provider struct {
	appConfig *types.AppConfig
}

var _ config.Provider = (*Provider)(nil)

// NewProvider 创建配置提供者，appConfig 可以为 nil
func NewProvider(appConfig *types.AppConfig) config.Provider {
	return &Provider{
		appConfig: appConfig,
	}
}

// GetLog 获取日志配置
func (p *Provider) GetLog() *log.LogOptions {
	var userLogConfig *types.UserLogConfig
	if p.appConfig != nil && p.appConfig.Log != nil {
		userLogConfig = p.appConfig.Log
	}
	return log.New(userLogConfig).GetOptions()
}

// GetBadger 获取BadgerDB配置
// 未配置 storage.data_root 时使用 data_dir
func (p *Provider) GetBadger() *badger.BadgerOptions {
	userStorageConfig := &types.UserStorageConfig{}
	if p.appConfig != nil {
		if p.appConfig.Storage != nil {
			copied := *p.appConfig.Storage
			userStorageConfig = &copied
		}
		if userStorageConfig.DataRoot == nil && p.appConfig.DataDir != nil {
			userStorageConfig.DataRoot = p.appConfig.DataDir
		}
	}
	return badger.New(userStorageConfig).GetOptions()
}

// GetHost 获取宿主链参数
func (p *Provider) GetHost() *host.HostOptions {
	var userHostConfig *types.UserHostConfig
	if p.appConfig != nil && p.appConfig.Host != nil {
		userHostConfig = p.appConfig.Host
	}
	return host.New(userHostConfig).GetOptions()
}

// GetEvent 获取事件配置
func (p *Provider) GetEvent() *event.EventOptions {
	var userEventConfig *types.UserEventConfig
	if p.appConfig != nil {
		userEventConfig = p.appConfig.Event
	}
	return event.New(userEventConfig).GetOptions()
}

// GetMetrics 获取指标配置
func (p *Provider) GetMetrics() *metrics.MetricsOptions {
	var userMetricsConfig *types.UserMetricsConfig
	if p.appConfig != nil {
		userMetricsConfig = p.appConfig.Metrics
	}
	return metrics.New(userMetricsConfig).GetOptions()
}

// GetAPI 获取本地网关配置
func (p *Provider) GetAPI() *api.APIOptions {
	var userAPIConfig *types.UserAPIConfig
	if p.appConfig != nil {
		userAPIConfig = p.appConfig.API
	}
	return api.New(userAPIConfig).GetOptions()
}

// GetEnvironment 获取运行环境
func (p *Provider) GetEnvironment() string {
	if p.appConfig == nil {
		return string(types.EnvDev)
	}
	switch env := p.appConfig.GetEnvironment(); env {
	case types.EnvDev, types.EnvTest, types.EnvProd:
		return string(env)
	default:
		return string(types.EnvDev)
	}
}

// GetAppName 获取应用名称
func (p *Provider) GetAppName() string {
	if p.appConfig != nil && p.appConfig.AppName != nil && *p.appConfig.AppName != "" {
		return *p.appConfig.AppName
	}
	return defaultAppName
}

// GetAppConfig 获取原始应用配置
func (p *Provider) GetAppConfig() *types.AppConfig {
	return p.appConfig
}
