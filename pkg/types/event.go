// Package types provides event type definitions.
package types

import "time"

// EventType 事件类型
type EventType string

const (
	// EventTypeContractInstantiated 合约实例创建并提交
	EventTypeContractInstantiated EventType = "contract.instantiated"
	// EventTypeContractExecuted 合约执行并提交
	EventTypeContractExecuted EventType = "contract.executed"
	// EventTypeContractMigrated 合约迁移并提交
	EventTypeContractMigrated EventType = "contract.migrated"
	// EventTypeContractFailed 调用失败并回滚
	EventTypeContractFailed EventType = "contract.failed"
	// EventTypeBlockAdvanced 区块推进
	EventTypeBlockAdvanced EventType = "block.advanced"
)

// ContractEvent 宿主在调用结束后发布的事件
//
// 成功调用携带合约返回的属性与事件（含子消息产生的），失败调用只携带错误
type ContractEvent struct {
	ID        string        `json:"id"`
	Type      EventType     `json:"type"`
	Contract  Addr          `json:"contract"`
	Sender    Addr          `json:"sender"`
	Height    uint64        `json:"height"`
	Timestamp time.Time     `json:"timestamp"`
	Events    []Event       `json:"events,omitempty"`
	Error     *ErrorPayload `json:"error,omitempty"`
}
