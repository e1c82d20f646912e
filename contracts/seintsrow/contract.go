// Package seintsrow 实现 seints_row 代币合约
//
// 入口（Instantiate/Execute/Query/Migrate）只负责解码消息、路由到处理器、
// 把结果翻译成宿主的结果信封；业务规则全部在处理器中。
// 所有处理器先完成校验再写入存储，失败路径不会留下部分写入。
package seintsrow

import (
	"encoding/json"
	"fmt"

	"github.com/weisyn/seints-row/contracts/seintsrow/msg"
	"github.com/weisyn/seints-row/pkg/contractversion"
	"github.com/weisyn/seints-row/pkg/interfaces/execution"
	"github.com/weisyn/seints-row/pkg/types"
)

// 合约身份
const (
	ContractName    = "seints_row"
	ContractVersion = "0.1.0"
)

// 代币参数约束
const (
	MaxDecimals     = 18
	MinNameLength   = 3
	MaxNameLength   = 50
	MinSymbolLength = 3
	MaxSymbolLength = 12
)

// 初始分配
const (
	TeamSharePercent = 20
	TeamTranches     = 4
	TeamTrancheDays  = 90

	PoolSharePercent = 20
	PoolTranches     = 12
	PoolTrancheDays  = 30
)

// Contract 合约入口，无状态
type Contract struct{}

var _ execution.Contract = (*Contract)(nil)

// New 创建合约入口
func New() *Contract {
	return &Contract{}
}

// Code 可存储到宿主的代码
func Code() execution.Code {
	return execution.Code{Name: ContractName, Contract: New()}
}

// Instantiate 实现 execution.Contract
func (c *Contract) Instantiate(deps types.DepsMut, env types.Env, info types.MessageInfo, raw []byte) types.ContractResult {
	m, err := msg.DecodeInstantiateMsg(raw)
	if err != nil {
		return types.ContractErr(err)
	}
	return envelope(Instantiate(deps, env, info, *m))
}

// Execute 实现 execution.Contract
func (c *Contract) Execute(deps types.DepsMut, env types.Env, info types.MessageInfo, raw []byte) types.ContractResult {
	m, err := msg.DecodeExecuteMsg(raw)
	if err != nil {
		return types.ContractErr(err)
	}
	return envelope(Execute(deps, env, info, m))
}

// Query 实现 execution.Contract
func (c *Contract) Query(deps types.Deps, env types.Env, raw []byte) types.QueryResult {
	m, err := msg.DecodeQueryMsg(raw)
	if err != nil {
		return types.QueryErr(err)
	}
	data, err := Query(deps, env, m)
	if err != nil {
		return types.QueryErr(err)
	}
	return types.QueryOk(data)
}

// Migrate 实现 execution.Contract
func (c *Contract) Migrate(deps types.DepsMut, env types.Env, raw []byte) types.ContractResult {
	m, err := msg.DecodeMigrateMsg(raw)
	if err != nil {
		return types.ContractErr(err)
	}
	return envelope(Migrate(deps, env, *m))
}

func envelope(resp *types.Response, err error) types.ContractResult {
	if err != nil {
		return types.ContractErr(err)
	}
	return types.ContractOk(resp)
}

// Execute 路由执行消息，未实例化的存储返回 NotFound
func Execute(deps types.DepsMut, env types.Env, info types.MessageInfo, m msg.ExecuteMsg) (*types.Response, error) {
	if _, err := contractversion.Get(deps.Storage); err != nil {
		return nil, err
	}
	return m.Dispatch(&executor{deps: deps, env: env, info: info})
}

// Query 路由查询消息并编码响应，未实例化的存储返回 NotFound
func Query(deps types.Deps, env types.Env, m msg.QueryMsg) ([]byte, error) {
	if _, err := contractversion.Get(deps.Storage); err != nil {
		return nil, err
	}
	resp, err := m.Dispatch(&querier{deps: deps, env: env})
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding %s response: %v", types.ErrSerialization, m.Tag(), err)
	}
	return data, nil
}
