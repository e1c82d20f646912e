// Package event 合约事件总线接口
package event

import "github.com/weisyn/seints-row/pkg/types"

// Handler 事件处理函数
type Handler func(ev types.ContractEvent)

// EventBus 合约事件总线
//
// 宿主在调用提交或回滚后发布一条 ContractEvent，订阅者按事件类型接收
type EventBus interface {
	// Subscribe 订阅一种事件类型
	Subscribe(eventType types.EventType, handler Handler) error

	// SubscribeAll 订阅所有事件
	SubscribeAll(handler Handler) error

	// Unsubscribe 取消订阅，handler 必须是订阅时传入的同一个函数
	Unsubscribe(eventType types.EventType, handler Handler) error

	// UnsubscribeAll 取消 SubscribeAll 的订阅
	UnsubscribeAll(handler Handler) error

	// Publish 发布事件；ID 为空时分配新 ID，返回实际发布的事件
	Publish(ev types.ContractEvent) types.ContractEvent

	// HasCallback 是否有订阅者
	HasCallback(eventType types.EventType) bool

	// WaitAsync 等待异步订阅者处理完毕
	WaitAsync()

	// History 最近发布的事件，按发布顺序，limit <= 0 时返回全部
	History(limit int) []types.ContractEvent
}
