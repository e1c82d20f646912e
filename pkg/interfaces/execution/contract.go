// Package execution 定义宿主与合约之间的入口协议
package execution

import "github.com/weisyn/seints-row/pkg/types"

// Contract 合约入口
//
// 宿主以 JSON 原始消息调用入口，合约负责解码、路由并返回结果信封。
// 入口不得 panic，也不得持有跨调用的状态：全部状态都在 Storage 中
type Contract interface {
	// Instantiate 创建实例，每个实例只调用一次
	Instantiate(deps types.DepsMut, env types.Env, info types.MessageInfo, msg []byte) types.ContractResult

	// Execute 执行状态变更
	Execute(deps types.DepsMut, env types.Env, info types.MessageInfo, msg []byte) types.ContractResult

	// Query 只读查询
	Query(deps types.Deps, env types.Env, msg []byte) types.QueryResult

	// Migrate 代码升级后转换存储布局
	Migrate(deps types.DepsMut, env types.Env, msg []byte) types.ContractResult
}

// Code 已存储到宿主的合约代码
//
// 宿主不运行字节码，代码即一个 Go 实现加上用于标识的名称
type Code struct {
	Name     string
	Contract Contract
}
