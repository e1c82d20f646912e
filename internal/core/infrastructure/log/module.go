package log

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	logconfig "github.com/weisyn/seints-row/internal/config/log"
	"github.com/weisyn/seints-row/pkg/interfaces/config"
	logInterface "github.com/weisyn/seints-row/pkg/interfaces/infrastructure/log"
)

// ModuleParams 日志模块输入
type ModuleParams struct {
	fx.In

	Provider  config.Provider
	Lifecycle fx.Lifecycle `optional:"true"`
}

// ModuleOutput 日志模块输出，zap 记录器供需要强类型字段的中间件使用
type ModuleOutput struct {
	fx.Out

	Logger    logInterface.Logger
	ZapLogger *zap.Logger
}

// Module 返回日志模块
func Module() fx.Option {
	return fx.Module("log",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 创建记录器并设为全局记录器，停止时刷新缓冲
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	logger, err := New(logconfig.NewFromProvider(params.Provider))
	if err != nil {
		return ModuleOutput{}, fmt.Errorf("创建日志记录器失败: %w", err)
	}
	SetLogger(logger)
	if params.Lifecycle != nil {
		params.Lifecycle.Append(fx.Hook{
			OnStop: func(context.Context) error {
				// stderr 等终端设备不支持 fsync，忽略错误
				_ = logger.Sync()
				return nil
			},
		})
	}
	return ModuleOutput{Logger: logger, ZapLogger: logger.GetZapLogger()}, nil
}

// NewModuleLogger 带 module 字段的记录器，base 为 nil 时丢弃输出
func NewModuleLogger(base logInterface.Logger, module string) logInterface.Logger {
	if base == nil {
		return NewNop().With("module", module)
	}
	return base.With("module", module)
}
