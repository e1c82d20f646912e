// Package event 基于 asaskevich/EventBus 的合约事件总线
package event

import (
	"sync"
	"time"

	evbus "github.com/asaskevich/EventBus"
	"github.com/google/uuid"

	eventconfig "github.com/weisyn/seints-row/internal/config/event"
	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/seints-row/pkg/types"
)

// topicAll 所有事件都会再发布到该主题
const topicAll = "*"

// EventBus 实现 event.EventBus
type EventBus struct {
	bus    evbus.Bus
	config *eventconfig.Config

	historyMu sync.RWMutex
	history   []types.ContractEvent
}

var _ event.EventBus = (*EventBus)(nil)

// New 创建事件总线
func New(config *eventconfig.Config) *EventBus {
	if config == nil {
		config = eventconfig.New(nil)
	}
	return &EventBus{
		bus:    evbus.New(),
		config: config,
	}
}

// Subscribe 订阅一种事件类型
func (eb *EventBus) Subscribe(eventType types.EventType, handler event.Handler) error {
	return eb.subscribe(string(eventType), handler)
}

// SubscribeAll 订阅所有事件
func (eb *EventBus) SubscribeAll(handler event.Handler) error {
	return eb.subscribe(topicAll, handler)
}

func (eb *EventBus) subscribe(topic string, handler event.Handler) error {
	if !eb.config.IsEnabled() {
		return nil // 未启用时静默成功
	}
	if eb.config.IsAsync() {
		return eb.bus.SubscribeAsync(topic, handler, false)
	}
	return eb.bus.Subscribe(topic, handler)
}

// Unsubscribe 取消订阅
func (eb *EventBus) Unsubscribe(eventType types.EventType, handler event.Handler) error {
	if !eb.config.IsEnabled() {
		return nil
	}
	return eb.bus.Unsubscribe(string(eventType), handler)
}

// UnsubscribeAll 取消所有事件的订阅
func (eb *EventBus) UnsubscribeAll(handler event.Handler) error {
	if !eb.config.IsEnabled() {
		return nil
	}
	return eb.bus.Unsubscribe(topicAll, handler)
}

// Publish 发布事件
func (eb *EventBus) Publish(ev types.ContractEvent) types.ContractEvent {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	if !eb.config.IsEnabled() {
		return ev
	}

	eb.record(ev)
	eb.bus.Publish(string(ev.Type), ev)
	eb.bus.Publish(topicAll, ev)
	return ev
}

func (eb *EventBus) record(ev types.ContractEvent) {
	size := eb.config.GetHistorySize()
	if size <= 0 {
		return
	}
	eb.historyMu.Lock()
	defer eb.historyMu.Unlock()
	eb.history = append(eb.history, ev)
	if over := len(eb.history) - size; over > 0 {
		eb.history = append(eb.history[:0:0], eb.history[over:]...)
	}
}

// HasCallback 是否有订阅者
func (eb *EventBus) HasCallback(eventType types.EventType) bool {
	if !eb.config.IsEnabled() {
		return false
	}
	return eb.bus.HasCallback(string(eventType)) || eb.bus.HasCallback(topicAll)
}

// WaitAsync 等待异步处理完成
func (eb *EventBus) WaitAsync() {
	eb.bus.WaitAsync()
}

// History 最近发布的事件
func (eb *EventBus) History(limit int) []types.ContractEvent {
	eb.historyMu.RLock()
	defer eb.historyMu.RUnlock()
	start := 0
	if limit > 0 && limit < len(eb.history) {
		start = len(eb.history) - limit
	}
	out := make([]types.ContractEvent, len(eb.history)-start)
	copy(out, eb.history[start:])
	return out
}
