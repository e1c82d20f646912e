package seintsrow

import (
	"encoding/json"
	"fmt"

	"github.com/weisyn/seints-row/contracts/seintsrow/msg"
	"github.com/weisyn/seints-row/pkg/contractversion"
	"github.com/weisyn/seints-row/pkg/types"
)

// ContractRef 对已部署 seints_row 实例的引用，供其他合约与客户端构造消息和查询
type ContractRef struct {
	Addr types.Addr
}

// NewContractRef 创建引用
func NewContractRef(addr types.Addr) ContractRef {
	return ContractRef{Addr: addr}
}

// Call 构造对该实例的执行消息
func (c ContractRef) Call(m msg.ExecuteMsg, funds ...types.Coin) (types.CosmosMsg, error) {
	raw, err := msg.Encode(m)
	if err != nil {
		return types.CosmosMsg{}, fmt.Errorf("%w: encoding %s: %v", types.ErrSerialization, m.Tag(), err)
	}
	return types.CosmosMsg{Wasm: &types.WasmMsg{Execute: &types.WasmExecuteMsg{
		ContractAddr: c.Addr.String(),
		Msg:          raw,
		Funds:        funds,
	}}}, nil
}

func (c ContractRef) query(q types.QuerierWrapper, m msg.QueryMsg, out interface{}) error {
	raw, err := msg.Encode(m)
	if err != nil {
		return fmt.Errorf("%w: encoding %s: %v", types.ErrSerialization, m.Tag(), err)
	}
	return q.QueryWasmSmart(c.Addr.String(), json.RawMessage(raw), out)
}

// TokenInfo 查询代币信息
func (c ContractRef) TokenInfo(q types.QuerierWrapper) (*msg.TokenInfoResponse, error) {
	var out msg.TokenInfoResponse
	if err := c.query(q, &msg.GetTokenInfo{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Balance 查询余额
func (c ContractRef) Balance(q types.QuerierWrapper, addr string) (types.Uint128, error) {
	var out msg.BalanceResponse
	if err := c.query(q, &msg.GetBalance{Address: addr}, &out); err != nil {
		return types.Uint128{}, err
	}
	return out.Balance, nil
}

// Owner 查询所有者
func (c ContractRef) Owner(q types.QuerierWrapper) (string, error) {
	var out msg.OwnerResponse
	if err := c.query(q, &msg.GetOwner{}, &out); err != nil {
		return "", err
	}
	return out.Owner, nil
}

// Version 通过 raw 查询读取实例记录的版本，不经过合约代码
func (c ContractRef) Version(q types.QuerierWrapper) (contractversion.VersionInfo, error) {
	return contractversion.Query(q, c.Addr.String())
}
