package event

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eventconfig "github.com/weisyn/seints-row/internal/config/event"
	"github.com/weisyn/seints-row/pkg/types"
)

func TestPublishSubscribe(t *testing.T) {
	bus := New(nil)

	var got []types.ContractEvent
	handler := func(ev types.ContractEvent) { got = append(got, ev) }
	require.NoError(t, bus.Subscribe(types.EventTypeContractExecuted, handler))
	assert.True(t, bus.HasCallback(types.EventTypeContractExecuted))
	assert.False(t, bus.HasCallback(types.EventTypeContractMigrated))

	published := bus.Publish(types.ContractEvent{Type: types.EventTypeContractExecuted, Contract: "c1"})
	assert.NotEmpty(t, published.ID)
	assert.False(t, published.Timestamp.IsZero())

	// 其他类型不会投递
	bus.Publish(types.ContractEvent{Type: types.EventTypeContractFailed})

	require.Len(t, got, 1)
	assert.Equal(t, published, got[0])

	require.NoError(t, bus.Unsubscribe(types.EventTypeContractExecuted, handler))
	bus.Publish(types.ContractEvent{Type: types.EventTypeContractExecuted})
	assert.Len(t, got, 1)
}

func TestSubscribeAll(t *testing.T) {
	bus := New(nil)
	var seen []types.EventType
	require.NoError(t, bus.SubscribeAll(func(ev types.ContractEvent) { seen = append(seen, ev.Type) }))

	bus.Publish(types.ContractEvent{Type: types.EventTypeContractInstantiated, ID: "fixed"})
	bus.Publish(types.ContractEvent{Type: types.EventTypeBlockAdvanced})
	assert.Equal(t, []types.EventType{types.EventTypeContractInstantiated, types.EventTypeBlockAdvanced}, seen)
	assert.Equal(t, "fixed", bus.History(0)[0].ID)

	count := 0
	handler := func(types.ContractEvent) { count++ }
	require.NoError(t, bus.SubscribeAll(handler))
	bus.Publish(types.ContractEvent{Type: types.EventTypeBlockAdvanced})
	require.NoError(t, bus.UnsubscribeAll(handler))
	bus.Publish(types.ContractEvent{Type: types.EventTypeBlockAdvanced})
	assert.Equal(t, 1, count)
}

func TestHistoryBounded(t *testing.T) {
	bus := New(eventconfig.NewFromOptions(&eventconfig.EventOptions{Enabled: true, HistorySize: 2}))
	for _, c := range []types.Addr{"a", "b", "c"} {
		bus.Publish(types.ContractEvent{Type: types.EventTypeContractExecuted, Contract: c})
	}
	h := bus.History(0)
	require.Len(t, h, 2)
	assert.Equal(t, types.Addr("b"), h[0].Contract)
	assert.Equal(t, types.Addr("c"), h[1].Contract)

	last := bus.History(1)
	require.Len(t, last, 1)
	assert.Equal(t, types.Addr("c"), last[0].Contract)
}

func TestDisabled(t *testing.T) {
	bus := New(eventconfig.NewFromOptions(&eventconfig.EventOptions{Enabled: false, HistorySize: 10}))
	called := false
	require.NoError(t, bus.SubscribeAll(func(types.ContractEvent) { called = true }))
	ev := bus.Publish(types.ContractEvent{Type: types.EventTypeContractExecuted})
	assert.NotEmpty(t, ev.ID)
	assert.False(t, called)
	assert.Empty(t, bus.History(0))
}

func TestAsyncDelivery(t *testing.T) {
	bus := New(eventconfig.NewFromOptions(&eventconfig.EventOptions{Enabled: true, Async: true}))
	var mu sync.Mutex
	count := 0
	require.NoError(t, bus.Subscribe(types.EventTypeContractExecuted, func(types.ContractEvent) {
		mu.Lock()
		count++
		mu.Unlock()
	}))
	for i := 0; i < 5; i++ {
		bus.Publish(types.ContractEvent{Type: types.EventTypeContractExecuted})
	}
	bus.WaitAsync()
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 5, count)
}
