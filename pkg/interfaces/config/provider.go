// Package config provides configuration provider interfaces.
package config

import (
	apiconfig "github.com/weisyn/seints-row/internal/config/api"
	eventconfig "github.com/weisyn/seints-row/internal/config/event"
	hostconfig "github.com/weisyn/seints-row/internal/config/host"
	logconfig "github.com/weisyn/seints-row/internal/config/log"
	metricsconfig "github.com/weisyn/seints-row/internal/config/metrics"
	badgerconfig "github.com/weisyn/seints-row/internal/config/storage/badger"
	"github.com/weisyn/seints-row/pkg/types"
)

// Provider 配置提供者接口
type Provider interface {
	// GetLog 获取日志配置
	GetLog() *logconfig.LogOptions

	// GetBadger 获取BadgerDB存储配置
	GetBadger() *badgerconfig.BadgerOptions

	// GetHost 获取宿主链参数
	GetHost() *hostconfig.HostOptions

	// GetEvent 获取事件配置
	GetEvent() *eventconfig.EventOptions

	// GetMetrics 获取指标配置
	GetMetrics() *metricsconfig.MetricsOptions

	// GetAPI 获取本地网关配置
	GetAPI() *apiconfig.APIOptions

	// GetEnvironment 获取运行环境：dev | test | prod
	// 未配置或无效值时为 dev
	GetEnvironment() string

	// GetAppName 获取应用名称
	GetAppName() string

	// GetAppConfig 获取原始的应用配置，可能为 nil
	GetAppConfig() *types.AppConfig
}
