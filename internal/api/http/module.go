package http

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	apiconfig "github.com/weisyn/seints-row/internal/config/api"
	metricsconfig "github.com/weisyn/seints-row/internal/config/metrics"
	"github.com/weisyn/seints-row/internal/core/host"
	logimpl "github.com/weisyn/seints-row/internal/core/infrastructure/log"
	"github.com/weisyn/seints-row/pkg/interfaces/config"
	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/log"
)

// ModuleInput HTTP模块输入依赖
type ModuleInput struct {
	fx.In

	Lifecycle fx.Lifecycle
	Provider  config.Provider
	Host      *host.Host
	Bus       event.EventBus
	Registry  *prometheus.Registry
	Logger    log.Logger `optional:"true"`
}

// Module 返回HTTP网关模块
func Module() fx.Option {
	return fx.Module("http",
		fx.Provide(ProvideServer),
	)
}

// ProvideServer 创建服务器，启用时随应用启动与停止
func ProvideServer(input ModuleInput) (*Server, error) {
	cfg := apiconfig.NewFromOptions(input.Provider.GetAPI())
	server, err := NewServer(Deps{
		Config:    cfg,
		Host:      input.Host,
		Bus:       input.Bus,
		Registry:  input.Registry,
		Namespace: metricsconfig.NewFromOptions(input.Provider.GetMetrics()).GetNamespace(),
		Logger:    logimpl.NewModuleLogger(input.Logger, "api"),
	})
	if err != nil {
		return nil, err
	}
	if !cfg.IsHTTPEnabled() {
		return server, nil
	}
	input.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return server.Start()
		},
		OnStop: func(ctx context.Context) error {
			return server.Stop(ctx)
		},
	})
	return server, nil
}
