// Package metrics 基于 prometheus 的合约调用指标
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	metricsintf "github.com/weisyn/seints-row/pkg/interfaces/infrastructure/metrics"
)

const subsystem = "contract"

// ContractMetrics 实现 metrics.ContractRecorder
type ContractMetrics struct {
	callsTotal   *prometheus.CounterVec
	callDuration *prometheus.HistogramVec
	writeBytes   prometheus.Histogram
	subMsgsTotal prometheus.Counter
	blockHeight  prometheus.Gauge
}

var _ metricsintf.ContractRecorder = (*ContractMetrics)(nil)

// NewContractMetrics 创建指标并注册到 reg
func NewContractMetrics(namespace string, reg prometheus.Registerer) (*ContractMetrics, error) {
	m := &ContractMetrics{
		callsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "calls_total",
			Help:      "Top-level contract calls by entry point and result",
		}, []string{"entry", "result"}),
		callDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "call_duration_seconds",
			Help:      "Duration of top-level contract calls",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8), // 0.1ms ~ 1.6s
		}, []string{"entry"}),
		writeBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "write_bytes",
			Help:      "Estimated bytes written by committed calls",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
		}),
		subMsgsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "submessages_total",
			Help:      "Sub-messages dispatched by contracts",
		}),
		blockHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "block_height",
			Help:      "Current host block height",
		}),
	}
	for _, c := range []prometheus.Collector{m.callsTotal, m.callDuration, m.writeBytes, m.subMsgsTotal, m.blockHeight} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("注册合约指标失败: %w", err)
		}
	}
	return m, nil
}

// ObserveCall 记录一次顶层调用
func (m *ContractMetrics) ObserveCall(entry metricsintf.Entry, result string, elapsed time.Duration) {
	m.callsTotal.WithLabelValues(string(entry), result).Inc()
	m.callDuration.WithLabelValues(string(entry)).Observe(elapsed.Seconds())
}

// ObserveWrite 记录提交写入量
func (m *ContractMetrics) ObserveWrite(bytes uint64) {
	m.writeBytes.Observe(float64(bytes))
}

// IncSubMessages 累加子消息数量
func (m *ContractMetrics) IncSubMessages(n int) {
	if n > 0 {
		m.subMsgsTotal.Add(float64(n))
	}
}

// SetBlockHeight 设置区块高度
func (m *ContractMetrics) SetBlockHeight(height uint64) {
	m.blockHeight.Set(float64(height))
}

// nopRecorder 关闭指标时使用
type nopRecorder struct{}

// NewNop 不记录任何指标
func NewNop() metricsintf.ContractRecorder {
	return nopRecorder{}
}

func (nopRecorder) ObserveCall(metricsintf.Entry, string, time.Duration) {}
func (nopRecorder) ObserveWrite(uint64)                                  {}
func (nopRecorder) IncSubMessages(int)                                   {}
func (nopRecorder) SetBlockHeight(uint64)                                {}
