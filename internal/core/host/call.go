package host

import (
	"encoding/json"
	"fmt"

	"github.com/weisyn/seints-row/pkg/interfaces/execution"
	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/seints-row/pkg/types"
)

// contractAddressAttr 宿主附加在每个事件上的属性
const contractAddressAttr = "_contract_address"

// callContext 一次顶层调用的执行上下文
//
// 读写都经过同一个事务；tx 为 nil 时是只读查询
type callContext struct {
	host   *Host
	reader storage.BadgerReader
	tx     storage.BadgerTransaction
	block  types.BlockInfo

	events  []types.Event
	subMsgs int
}

func (h *Host) newWriteContext(tx storage.BadgerTransaction, block types.BlockInfo) *callContext {
	return &callContext{host: h, reader: tx, tx: tx, block: block}
}

func (h *Host) newReadContext(reader storage.BadgerReader, block types.BlockInfo) *callContext {
	return &callContext{host: h, reader: reader, block: block}
}

func (c *callContext) env(addr types.Addr) types.Env {
	return types.Env{Block: c.block, Contract: types.ContractInfo{Address: addr}}
}

func (c *callContext) api(addr types.Addr) types.Api {
	return &hostApi{addrs: c.host.addrs, logger: c.host.logger, contract: addr}
}

func (c *callContext) depsMut(addr types.Addr, depth int) types.DepsMut {
	return types.DepsMut{
		Storage: newContractStorage(c.tx, addr),
		Api:     c.api(addr),
		Querier: types.NewQuerierWrapper(&querier{ctx: c, depth: depth}),
	}
}

func (c *callContext) deps(addr types.Addr, depth int) types.Deps {
	return types.Deps{
		Storage: newReadonlyStorage(c.reader, addr),
		Api:     c.api(addr),
		Querier: types.NewQuerierWrapper(&querier{ctx: c, depth: depth}),
	}
}

// resolve 读取实例记录与代码
func (c *callContext) resolve(addr types.Addr) (*ContractRecord, execution.Contract, error) {
	rec, err := loadContract(c.reader, addr)
	if err != nil {
		return nil, nil, err
	}
	code, err := c.host.code(rec.CodeID)
	if err != nil {
		return nil, nil, err
	}
	return rec, code.Contract, nil
}

func (c *callContext) checkDepth(depth int) error {
	if max := c.host.config.GetMaxCallDepth(); depth > max {
		return fmt.Errorf("%w: depth %d > %d", ErrCallDepthExceeded, depth, max)
	}
	return nil
}

// instantiate 创建实例记录并调用 instantiate 入口
func (c *callContext) instantiate(rec ContractRecord, code execution.Contract, funds []types.Coin, msg []byte) (*types.Response, error) {
	if err := putJSON(c.tx, contractKey(rec.Address), rec); err != nil {
		return nil, err
	}
	info := types.MessageInfo{Sender: rec.Creator, Funds: funds}
	var result types.ContractResult
	err := guard(func() {
		result = code.Instantiate(c.depsMut(rec.Address, 0), c.env(rec.Address), info, msg)
	})
	if err != nil {
		return nil, err
	}
	return c.handleResult(rec.Address, result, 0)
}

// execute 调用 execute 入口，depth 为 0 表示顶层调用
func (c *callContext) execute(addr, sender types.Addr, funds []types.Coin, msg []byte, depth int) (*types.Response, error) {
	if err := c.checkDepth(depth); err != nil {
		return nil, err
	}
	_, code, err := c.resolve(addr)
	if err != nil {
		return nil, err
	}
	info := types.MessageInfo{Sender: sender, Funds: funds}
	var result types.ContractResult
	err = guard(func() {
		result = code.Execute(c.depsMut(addr, depth), c.env(addr), info, msg)
	})
	if err != nil {
		return nil, err
	}
	return c.handleResult(addr, result, depth)
}

// migrate 切换代码并调用新代码的 migrate 入口
func (c *callContext) migrate(rec ContractRecord, code execution.Contract, msg []byte) (*types.Response, error) {
	if err := putJSON(c.tx, contractKey(rec.Address), rec); err != nil {
		return nil, err
	}
	var result types.ContractResult
	err := guard(func() {
		result = code.Migrate(c.depsMut(rec.Address, 0), c.env(rec.Address), msg)
	})
	if err != nil {
		return nil, err
	}
	return c.handleResult(rec.Address, result, 0)
}

// query 调用 query 入口
func (c *callContext) query(addr types.Addr, msg []byte, depth int) ([]byte, error) {
	if err := c.checkDepth(depth); err != nil {
		return nil, err
	}
	_, code, err := c.resolve(addr)
	if err != nil {
		return nil, err
	}
	var result types.QueryResult
	err = guard(func() {
		result = code.Query(c.deps(addr, depth), c.env(addr), msg)
	})
	if err != nil {
		return nil, err
	}
	return result.Unwrap()
}

// handleResult 校验响应、记录事件并派发子消息
func (c *callContext) handleResult(addr types.Addr, result types.ContractResult, depth int) (*types.Response, error) {
	resp, err := result.Unwrap()
	if err != nil {
		return nil, err
	}
	if err := types.ValidateAttributes(resp.Attributes); err != nil {
		return nil, err
	}
	for _, ev := range resp.Events {
		if ev.Type == "" {
			return nil, types.InvalidInputf("empty event type")
		}
		if err := types.ValidateAttributes(ev.Attributes); err != nil {
			return nil, err
		}
	}
	c.recordEvents(addr, resp)

	for _, sub := range resp.Messages {
		if err := c.dispatch(addr, sub, depth); err != nil {
			return nil, fmt.Errorf("sub-message %d (%s): %w", sub.ID, sub.Msg.String(), err)
		}
	}
	return resp, nil
}

// recordEvents 属性并入 "wasm" 事件，自定义事件加 "wasm-" 前缀
func (c *callContext) recordEvents(addr types.Addr, resp *types.Response) {
	origin := types.Attribute{Key: contractAddressAttr, Value: addr.String()}
	if len(resp.Attributes) > 0 {
		ev := types.Event{Type: "wasm", Attributes: append([]types.Attribute{origin}, resp.Attributes...)}
		c.events = append(c.events, ev)
	}
	for _, e := range resp.Events {
		ev := types.Event{Type: "wasm-" + e.Type, Attributes: append([]types.Attribute{origin}, e.Attributes...)}
		c.events = append(c.events, ev)
	}
}

// dispatch 执行子消息；任何失败使整个顶层调用回滚
func (c *callContext) dispatch(sender types.Addr, sub types.SubMsg, depth int) error {
	if err := sub.Msg.Validate(); err != nil {
		return err
	}
	c.subMsgs++
	if sub.Msg.Wasm == nil || sub.Msg.Wasm.Execute == nil {
		return ErrUnsupportedMessage
	}
	exec := sub.Msg.Wasm.Execute
	target, err := c.validateAddr(exec.ContractAddr)
	if err != nil {
		return err
	}
	_, err = c.execute(target, sender, exec.Funds, exec.Msg, depth+1)
	return err
}

func (c *callContext) validateAddr(addr string) (types.Addr, error) {
	if err := c.host.addrs.Validate(addr); err != nil {
		return "", invalidAddress(addr, err)
	}
	return types.Addr(addr), nil
}

// guard 把入口中的 panic 转为宿主错误
func guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrContractPanic, r)
		}
	}()
	fn()
	return nil
}

// querier 合约的查询通道，与调用共用同一个事务视图
type querier struct {
	ctx   *callContext
	depth int
}

var _ types.Querier = (*querier)(nil)

// QueryRaw 实现 types.Querier
func (q *querier) QueryRaw(req types.QueryRequest) ([]byte, error) {
	if req.Wasm == nil {
		return nil, fmt.Errorf("%w: query must set wasm", ErrUnsupportedMessage)
	}
	switch w := req.Wasm; {
	case w.Smart != nil:
		addr, err := q.ctx.validateAddr(w.Smart.ContractAddr)
		if err != nil {
			return nil, err
		}
		return q.ctx.query(addr, w.Smart.Msg, q.depth+1)
	case w.Raw != nil:
		addr, err := q.ctx.validateAddr(w.Raw.ContractAddr)
		if err != nil {
			return nil, err
		}
		if _, err := loadContract(q.ctx.reader, addr); err != nil {
			return nil, err
		}
		return newReadonlyStorage(q.ctx.reader, addr).Get(w.Raw.Key)
	case w.ContractInfo != nil:
		addr, err := q.ctx.validateAddr(w.ContractInfo.ContractAddr)
		if err != nil {
			return nil, err
		}
		rec, err := loadContract(q.ctx.reader, addr)
		if err != nil {
			return nil, err
		}
		return json.Marshal(rec.Info())
	default:
		return nil, fmt.Errorf("%w: unknown wasm query", ErrUnsupportedMessage)
	}
}
