package seintsrow

import (
	"errors"
	"fmt"

	"github.com/weisyn/seints-row/contracts/seintsrow/msg"
	"github.com/weisyn/seints-row/contracts/seintsrow/state"
	"github.com/weisyn/seints-row/pkg/types"
)

// executor 一次执行调用的处理器
type executor struct {
	deps types.DepsMut
	env  types.Env
	info types.MessageInfo
}

var _ msg.ExecuteHandler = (*executor)(nil)

func (e *executor) balanceOf(addr types.Addr) (types.Uint128, error) {
	bal, _, err := state.Balances.May(e.deps.Storage, addr)
	return bal, err
}

// debit 计算扣款后的余额，不写入
func (e *executor) debit(amount types.Uint128) (types.Uint128, error) {
	bal, err := e.balanceOf(e.info.Sender)
	if err != nil {
		return bal, err
	}
	if bal.LT(amount) {
		return bal, &InsufficientBalanceError{Required: amount, Available: bal}
	}
	return bal.CheckedSub(amount)
}

// move 计算 sender → to 的两个新余额，to 等于 sender 时余额不变
func (e *executor) move(to types.Addr, amount types.Uint128) (from, dest types.Uint128, err error) {
	from, err = e.debit(amount)
	if err != nil {
		return
	}
	cur := from
	if to != e.info.Sender {
		if cur, err = e.balanceOf(to); err != nil {
			return
		}
	}
	dest, err = cur.CheckedAdd(amount)
	return
}

func (e *executor) saveMove(to types.Addr, from, dest types.Uint128) error {
	if err := e.saveBalance(e.info.Sender, from); err != nil {
		return err
	}
	return e.saveBalance(to, dest)
}

// saveBalance 余额为零时删除条目
func (e *executor) saveBalance(addr types.Addr, bal types.Uint128) error {
	if bal.IsZero() {
		return state.Balances.Remove(e.deps.Storage, addr)
	}
	return state.Balances.Save(e.deps.Storage, addr, bal)
}

func (e *executor) requireOwner() (types.Addr, error) {
	owner, err := state.Owner.Load(e.deps.Storage)
	if err != nil {
		return "", err
	}
	if owner != e.info.Sender {
		return "", ErrUnauthorized
	}
	return owner, nil
}

// Transfer 转账
func (e *executor) Transfer(m *msg.Transfer) (*types.Response, error) {
	if m.Amount.IsZero() {
		return nil, ErrInvalidAmount
	}
	to, err := validateAddr(e.deps.Api, "recipient", m.Recipient)
	if err != nil {
		return nil, err
	}
	from, dest, err := e.move(to, m.Amount)
	if err != nil {
		return nil, err
	}
	if err := e.saveMove(to, from, dest); err != nil {
		return nil, err
	}
	return types.NewResponse().
		AddAttribute("method", "transfer").
		AddAttribute("from", e.info.Sender.String()).
		AddAttribute("to", to.String()).
		AddAttribute("amount", m.Amount.String()), nil
}

// Burn 销毁，同时减少总量
func (e *executor) Burn(m *msg.Burn) (*types.Response, error) {
	if m.Amount.IsZero() {
		return nil, ErrInvalidAmount
	}
	bal, err := e.debit(m.Amount)
	if err != nil {
		return nil, err
	}
	token, err := state.Token.Load(e.deps.Storage)
	if err != nil {
		return nil, err
	}
	if token.TotalSupply, err = token.TotalSupply.CheckedSub(m.Amount); err != nil {
		return nil, err
	}

	if err := e.saveBalance(e.info.Sender, bal); err != nil {
		return nil, err
	}
	if err := state.Token.Save(e.deps.Storage, token); err != nil {
		return nil, err
	}
	return types.NewResponse().
		AddAttribute("method", "burn").
		AddAttribute("from", e.info.Sender.String()).
		AddAttribute("amount", m.Amount.String()), nil
}

// Send 转账给合约并通知其 receive 入口
//
// 回调失败时宿主回滚整个调用，包括这里的转账
func (e *executor) Send(m *msg.Send) (*types.Response, error) {
	if m.Amount.IsZero() {
		return nil, ErrInvalidAmount
	}
	to, err := validateAddr(e.deps.Api, "contract", m.Contract)
	if err != nil {
		return nil, err
	}
	if _, err := e.deps.Querier.QueryContractInfo(to.String()); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSendToNonContract, to, err)
	}
	from, dest, err := e.move(to, m.Amount)
	if err != nil {
		return nil, err
	}
	callback, err := msg.Encode(&msg.ReceiveMsg{Sender: e.info.Sender.String(), Amount: m.Amount, Msg: m.Msg})
	if err != nil {
		return nil, fmt.Errorf("%w: encoding receive: %v", types.ErrSerialization, err)
	}

	if err := e.saveMove(to, from, dest); err != nil {
		return nil, err
	}
	return types.NewResponse().
		AddMessage(types.CosmosMsg{Wasm: &types.WasmMsg{Execute: &types.WasmExecuteMsg{
			ContractAddr: to.String(),
			Msg:          callback,
		}}}).
		AddAttribute("method", "send").
		AddAttribute("from", e.info.Sender.String()).
		AddAttribute("to", to.String()).
		AddAttribute("amount", m.Amount.String()), nil
}

// UpdateOwner 转移所有权
func (e *executor) UpdateOwner(m *msg.UpdateOwner) (*types.Response, error) {
	prev, err := e.requireOwner()
	if err != nil {
		return nil, err
	}
	next, err := validateAddr(e.deps.Api, "new_owner", m.NewOwner)
	if err != nil {
		return nil, err
	}
	if err := state.Owner.Save(e.deps.Storage, next); err != nil {
		return nil, err
	}
	return types.NewResponse().
		AddAttribute("method", "update_owner").
		AddAttribute("previous_owner", prev.String()).
		AddAttribute("owner", next.String()), nil
}

// UpdateMetadata 更新元数据地址
func (e *executor) UpdateMetadata(m *msg.UpdateMetadata) (*types.Response, error) {
	if _, err := e.requireOwner(); err != nil {
		return nil, err
	}
	if err := validateMetadataURL(m.MetadataURL); err != nil {
		return nil, err
	}
	if err := state.MetadataURL.Save(e.deps.Storage, m.MetadataURL); err != nil {
		return nil, err
	}
	return types.NewResponse().
		AddAttribute("method", "update_metadata").
		AddAttribute("metadata_url", m.MetadataURL), nil
}

// ReleaseVested 释放已到期的团队锁仓
func (e *executor) ReleaseVested(*msg.ReleaseVested) (*types.Response, error) {
	vesting, err := state.Vesting.Load(e.deps.Storage, e.info.Sender)
	if err != nil {
		return nil, scheduleNotFound(err, "vesting schedule", e.info.Sender)
	}
	due, rest, err := state.Due(vesting.ReleaseSchedule, e.env.Block.Time)
	if err != nil {
		return nil, err
	}
	if due.IsZero() {
		return nil, ErrNothingToRelease
	}
	bal, err := e.credit(due)
	if err != nil {
		return nil, err
	}

	if err := e.saveBalance(e.info.Sender, bal); err != nil {
		return nil, err
	}
	if len(rest) == 0 {
		err = state.Vesting.Remove(e.deps.Storage, e.info.Sender)
	} else {
		vesting.ReleaseSchedule = rest
		err = state.Vesting.Save(e.deps.Storage, e.info.Sender, vesting)
	}
	if err != nil {
		return nil, err
	}
	return releaseResponse("release_vested", e.info.Sender, due, len(rest)), nil
}

// ReleasePool 释放已到期的资金池份额
func (e *executor) ReleasePool(*msg.ReleasePool) (*types.Response, error) {
	pool, err := state.PoolRelease.Load(e.deps.Storage, e.info.Sender)
	if err != nil {
		return nil, scheduleNotFound(err, "pool release schedule", e.info.Sender)
	}
	due, rest, err := state.Due(pool.ReleaseSchedule, e.env.Block.Time)
	if err != nil {
		return nil, err
	}
	if due.IsZero() {
		return nil, ErrNothingToRelease
	}
	bal, err := e.credit(due)
	if err != nil {
		return nil, err
	}

	if err := e.saveBalance(e.info.Sender, bal); err != nil {
		return nil, err
	}
	if len(rest) == 0 {
		err = state.PoolRelease.Remove(e.deps.Storage, e.info.Sender)
	} else {
		pool.ReleaseSchedule = rest
		err = state.PoolRelease.Save(e.deps.Storage, e.info.Sender, pool)
	}
	if err != nil {
		return nil, err
	}
	return releaseResponse("release_pool", e.info.Sender, due, len(rest)), nil
}

func (e *executor) credit(amount types.Uint128) (types.Uint128, error) {
	bal, err := e.balanceOf(e.info.Sender)
	if err != nil {
		return bal, err
	}
	return bal.CheckedAdd(amount)
}

// scheduleNotFound 把存储层的 NotFound 换成面向调用者的描述
func scheduleNotFound(err error, what string, addr types.Addr) error {
	if errors.Is(err, types.ErrNotFound) {
		return types.NotFoundf("%s for %s", what, addr)
	}
	return err
}

func releaseResponse(method string, to types.Addr, amount types.Uint128, remaining int) *types.Response {
	return types.NewResponse().
		AddAttribute("method", method).
		AddAttribute("recipient", to.String()).
		AddAttribute("amount", amount.String()).
		AddAttribute("remaining_tranches", fmt.Sprintf("%d", remaining))
}
