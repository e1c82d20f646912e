package host

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/fx"

	hostconfig "github.com/weisyn/seints-row/internal/config/host"
	"github.com/weisyn/seints-row/internal/core/infrastructure/crypto/address"
	logimpl "github.com/weisyn/seints-row/internal/core/infrastructure/log"
	"github.com/weisyn/seints-row/pkg/interfaces/config"
	"github.com/weisyn/seints-row/pkg/interfaces/execution"
	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/crypto"
	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/metrics"
	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/storage"
)

// ModuleInput 宿主模块输入依赖
type ModuleInput struct {
	fx.In

	Lifecycle fx.Lifecycle
	Provider  config.Provider
	Store     storage.BadgerStore
	Bus       event.EventBus
	Recorder  metrics.ContractRecorder
	Logger    log.Logger `optional:"true"`

	// Codes 启动时注册的代码，值组无序，注册前按名称排序
	Codes []execution.Code `group:"codes"`
}

// ModuleOutput 宿主模块输出
type ModuleOutput struct {
	fx.Out

	Host  *Host
	Addrs crypto.AddressManager
}

// Module 返回宿主模块
func Module() fx.Option {
	return fx.Module("host",
		fx.Provide(ProvideServices),
	)
}

// ProvideCode 把代码加入启动时注册的集合
func ProvideCode(ctor interface{}) fx.Option {
	return fx.Provide(fx.Annotate(ctor, fx.ResultTags(`group:"codes"`)))
}

// ProvideServices 创建宿主并在启动时注册代码
func ProvideServices(input ModuleInput) ModuleOutput {
	cfg := hostconfig.NewFromOptions(input.Provider.GetHost())
	addrs := address.NewAddressService(cfg.GetAddressVersion())
	h := New(Deps{
		Store:    input.Store,
		Addrs:    addrs,
		Config:   cfg,
		Bus:      input.Bus,
		Recorder: input.Recorder,
		Logger:   logimpl.NewModuleLogger(input.Logger, "host"),
	})

	input.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			codes := append([]execution.Code{}, input.Codes...)
			sort.Slice(codes, func(i, j int) bool { return codes[i].Name < codes[j].Name })
			for _, code := range codes {
				if _, err := h.StoreCode(ctx, code); err != nil {
					return fmt.Errorf("注册代码 %s 失败: %w", code.Name, err)
				}
			}
			return nil
		},
	})
	return ModuleOutput{Host: h, Addrs: addrs}
}
