package app

import (
	"go.uber.org/fx"

	"github.com/weisyn/seints-row/contracts/seintsrow"
	"github.com/weisyn/seints-row/internal/api"
	config "github.com/weisyn/seints-row/internal/config"
	"github.com/weisyn/seints-row/internal/core/host"
	"github.com/weisyn/seints-row/internal/core/infrastructure/event"
	log "github.com/weisyn/seints-row/internal/core/infrastructure/log"
	"github.com/weisyn/seints-row/internal/core/infrastructure/metrics"
	"github.com/weisyn/seints-row/internal/core/infrastructure/storage"
	configintf "github.com/weisyn/seints-row/pkg/interfaces/config"
	"github.com/weisyn/seints-row/pkg/types"
)

// Bootstrap 应用引导程序
type Bootstrap struct {
	opts      *options
	appConfig *types.AppConfig
}

// NewBootstrap 创建引导程序
func NewBootstrap(opts *options, appConfig *types.AppConfig) *Bootstrap {
	return &Bootstrap{
		opts:      opts,
		appConfig: appConfig,
	}
}

// SetupInfrastructureLayer 设置基础设施层模块
func (b *Bootstrap) SetupInfrastructureLayer() []fx.Option {
	return []fx.Option{
		fx.Provide(func() configintf.AppOptions { return config.NewAppOptions(b.appConfig) }),
		config.Module(),  // 1. 配置(不依赖其他)
		log.Module(),     // 2. 日志(依赖配置)
		storage.Module(), // 3. 存储(依赖配置和日志)
		event.Module(),   // 4. 事件(依赖配置)
		metrics.Module(), // 5. 指标(依赖配置)
	}
}

// SetupHostLayer 设置宿主层模块与内置合约代码
func (b *Bootstrap) SetupHostLayer() []fx.Option {
	return []fx.Option{
		host.Module(),
		host.ProvideCode(seintsrow.Code),
	}
}

// SetupApplicationLayer 设置应用层模块，网关按选项启用
func (b *Bootstrap) SetupApplicationLayer() []fx.Option {
	if !b.opts.enableAPI {
		return nil
	}
	return []fx.Option{api.Module()}
}

// SetupModules 设置所有应用模块
func (b *Bootstrap) SetupModules() []fx.Option {
	var allModules []fx.Option
	allModules = append(allModules, b.SetupInfrastructureLayer()...)
	allModules = append(allModules, b.SetupHostLayer()...)
	allModules = append(allModules, b.SetupApplicationLayer()...)
	allModules = append(allModules, b.opts.extra...)
	return allModules
}
