// Package app 装配合约宿主进程
//
// 配置、日志、存储、事件、指标与宿主通过 fx 组装；
// Start 时注册内置合约代码，Stop 时关闭数据库
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	apihttp "github.com/weisyn/seints-row/internal/api/http"
	"github.com/weisyn/seints-row/internal/core/host"
	"github.com/weisyn/seints-row/pkg/interfaces/config"
	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/log"
)

// 生命周期超时
const (
	startTimeout = 15 * time.Second
	// 数据库关闭前需要完成同步
	stopTimeout = 60 * time.Second
)

// App 运行中的宿主进程
type App struct {
	fxApp *fx.App

	host     *host.Host
	registry *prometheus.Registry
	bus      event.EventBus
	provider config.Provider
	logger   log.Logger
	server   *apihttp.Server
}

// New 解析配置并装配全部模块，不启动
func New(appOptions ...Option) (*App, error) {
	opts := newOptions(appOptions...)
	appConfig, err := opts.loadAppConfig()
	if err != nil {
		return nil, err
	}

	a := &App{}
	bootstrap := NewBootstrap(opts, appConfig)
	populate := []interface{}{&a.host, &a.registry, &a.bus, &a.provider, &a.logger}
	if opts.enableAPI {
		populate = append(populate, &a.server)
	}
	fxApp := fx.New(
		fx.Options(bootstrap.SetupModules()...),
		// 禁用fx内部日志
		fx.NopLogger,
		fx.Populate(populate...),
	)
	if err := fxApp.Err(); err != nil {
		return nil, fmt.Errorf("装配应用失败: %w", err)
	}
	a.fxApp = fxApp
	return a, nil
}

// Start 启动应用，打开数据库并注册代码
func (a *App) Start(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()
	if err := a.fxApp.Start(ctx); err != nil {
		return fmt.Errorf("启动应用失败: %w", err)
	}
	a.logger.Debugf("应用已启动，环境=%s", a.provider.GetEnvironment())
	return nil
}

// Stop 停止应用，关闭网关与数据库并刷新日志
func (a *App) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, stopTimeout)
	defer cancel()
	if err := a.fxApp.Stop(ctx); err != nil {
		return fmt.Errorf("停止应用失败: %w", err)
	}
	return nil
}

// Host 合约宿主
func (a *App) Host() *host.Host {
	return a.host
}

// Registry 本进程的指标注册表
func (a *App) Registry() *prometheus.Registry {
	return a.registry
}

// Events 事件总线
func (a *App) Events() event.EventBus {
	return a.bus
}

// Server HTTP网关，未启用时为 nil
func (a *App) Server() *apihttp.Server {
	return a.server
}

// Wait 阻塞到收到退出信号或 ctx 结束
func (a *App) Wait(ctx context.Context) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	a.logger.Info("收到退出信号，正在停止")
}

// Run 启动应用，执行 fn 后停止
//
// fn 的错误优先于停止时的错误返回
func Run(ctx context.Context, fn func(ctx context.Context, a *App) error, appOptions ...Option) error {
	a, err := New(appOptions...)
	if err != nil {
		return err
	}
	if err := a.Start(ctx); err != nil {
		return err
	}
	runErr := fn(ctx, a)
	stopErr := a.Stop(context.Background())
	if runErr != nil {
		return runErr
	}
	return stopErr
}
