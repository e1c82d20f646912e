package metrics

import (
	"bytes"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	metricsintf "github.com/weisyn/seints-row/pkg/interfaces/infrastructure/metrics"
)

func TestContractMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewContractMetrics("test", reg)
	require.NoError(t, err)

	m.ObserveCall(metricsintf.EntryExecute, "ok", time.Millisecond)
	m.ObserveCall(metricsintf.EntryExecute, "ok", time.Millisecond)
	m.ObserveCall(metricsintf.EntryExecute, "unauthorized", time.Millisecond)
	m.ObserveWrite(128)
	m.IncSubMessages(2)
	m.IncSubMessages(0)
	m.SetBlockHeight(12345)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, reg))
	text := buf.String()
	assert.Contains(t, text, `test_contract_calls_total{entry="execute",result="ok"} 2`)
	assert.Contains(t, text, `test_contract_calls_total{entry="execute",result="unauthorized"} 1`)
	assert.Contains(t, text, "test_contract_submessages_total 2")
	assert.Contains(t, text, "test_block_height 12345")
	assert.Contains(t, text, "test_contract_write_bytes_count 1")

	// 同一注册表不能重复注册
	_, err = NewContractMetrics("test", reg)
	assert.Error(t, err)
}

func TestWriteText(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewContractMetrics("seints", reg)
	require.NoError(t, err)
	m.ObserveCall(metricsintf.EntryQuery, "ok", time.Microsecond)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, reg))
	assert.Contains(t, buf.String(), `seints_contract_calls_total{entry="query",result="ok"} 1`)
}

func TestNop(t *testing.T) {
	r := NewNop()
	r.ObserveCall(metricsintf.EntryMigrate, "ok", time.Second)
	r.ObserveWrite(1)
	r.IncSubMessages(1)
	r.SetBlockHeight(1)
}
