package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.uber.org/fx"

	metricsconfig "github.com/weisyn/seints-row/internal/config/metrics"
	"github.com/weisyn/seints-row/pkg/interfaces/config"
	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/log"
	metricsintf "github.com/weisyn/seints-row/pkg/interfaces/infrastructure/metrics"
)

// ModuleInput 指标模块输入依赖
type ModuleInput struct {
	fx.In

	Provider config.Provider
	Logger   log.Logger `optional:"true"`
}

// ModuleOutput 指标模块输出
type ModuleOutput struct {
	fx.Out

	Registry *prometheus.Registry
	Recorder metricsintf.ContractRecorder
}

// Module 返回 metrics 模块
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 创建独立的注册表与合约指标
//
// 不使用全局注册表，同一进程可以有多个宿主实例
func ProvideServices(input ModuleInput) (ModuleOutput, error) {
	cfg := metricsconfig.New(nil)
	if opts := input.Provider.GetMetrics(); opts != nil {
		cfg = metricsconfig.NewFromOptions(opts)
	}
	reg := prometheus.NewRegistry()
	if !cfg.IsEnabled() {
		return ModuleOutput{Registry: reg, Recorder: NewNop()}, nil
	}
	recorder, err := NewContractMetrics(cfg.GetNamespace(), reg)
	if err != nil {
		return ModuleOutput{}, err
	}
	if input.Logger != nil {
		input.Logger.With("module", "metrics").Debugf("合约指标已注册，namespace=%s", cfg.GetNamespace())
	}
	return ModuleOutput{Registry: reg, Recorder: recorder}, nil
}

// WriteText 以 prometheus 文本格式输出注册表中的全部指标
func WriteText(w io.Writer, gatherer prometheus.Gatherer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("采集指标失败: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("输出指标失败: %w", err)
		}
	}
	return nil
}
