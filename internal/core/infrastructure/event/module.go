package event

import (
	"go.uber.org/fx"

	eventconfig "github.com/weisyn/seints-row/internal/config/event"
	"github.com/weisyn/seints-row/pkg/interfaces/config"
	eventInterface "github.com/weisyn/seints-row/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/log"
)

// ModuleInput 事件模块输入依赖
type ModuleInput struct {
	fx.In

	Provider config.Provider
	Logger   log.Logger `optional:"true"`
}

// ModuleOutput 事件模块输出服务
type ModuleOutput struct {
	fx.Out

	EventBus eventInterface.EventBus
}

// Module 返回事件模块
func Module() fx.Option {
	return fx.Module("event",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 创建事件总线
func ProvideServices(input ModuleInput) ModuleOutput {
	cfg := eventconfig.NewFromOptions(input.Provider.GetEvent())
	bus := New(cfg)
	if input.Logger != nil {
		input.Logger.With("module", "event").Debugf("事件总线已初始化，enabled=%v history=%d",
			cfg.IsEnabled(), cfg.GetHistorySize())
	}
	return ModuleOutput{EventBus: bus}
}
