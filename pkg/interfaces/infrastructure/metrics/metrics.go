// Package metrics 合约调用指标接口
package metrics

import "time"

// Entry 合约入口
type Entry string

const (
	EntryInstantiate Entry = "instantiate"
	EntryExecute     Entry = "execute"
	EntryQuery       Entry = "query"
	EntryMigrate     Entry = "migrate"
)

// ContractRecorder 记录顶层调用与子消息的指标
//
// result 为 "ok" 或错误分类（types.ErrorKind 的字符串值）
type ContractRecorder interface {
	// ObserveCall 一次顶层调用结束
	ObserveCall(entry Entry, result string, elapsed time.Duration)

	// ObserveWrite 一次提交写入的估算字节数
	ObserveWrite(bytes uint64)

	// IncSubMessages 派发的子消息数量
	IncSubMessages(n int)

	// SetBlockHeight 当前区块高度
	SetBlockHeight(height uint64)
}
