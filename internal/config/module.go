// Package config 应用配置：解析 AppConfig 并按关注点拆分为各模块的选项
package config

import (
	"go.uber.org/fx"

	"github.com/weisyn/seints-row/pkg/interfaces/config"
	"github.com/weisyn/seints-row/pkg/types"
)

// ConfigParams 配置模块输入
type ConfigParams struct {
	fx.In

	// 未提供时全部使用默认值
	AppOptions config.AppOptions `optional:"true"`
}

// Module 配置模块，输出 config.Provider
func Module() fx.Option {
	return fx.Module("config",
		fx.Provide(ProvideConfigServices),
	)
}

// ProvideConfigServices 由应用配置创建 Provider
func ProvideConfigServices(params ConfigParams) config.Provider {
	var appConfig *types.AppConfig
	if params.AppOptions != nil {
		appConfig = params.AppOptions.GetAppConfig()
	}
	return NewProvider(appConfig)
}
