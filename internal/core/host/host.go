// Package host 进程内的确定性合约宿主
//
// 宿主代替虚拟机调用合约入口：每次顶层调用在一个 badger 读写事务中完成，
// 子消息在同一事务中递归执行，任一环节失败则整个事务丢弃。
// 所有调用由互斥锁串行化，调用之间存在全序
package host

import (
	"context"
	"fmt"
	"sync"
	"time"

	hostconfig "github.com/weisyn/seints-row/internal/config/host"
	"github.com/weisyn/seints-row/pkg/interfaces/execution"
	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/crypto"
	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/metrics"
	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/seints-row/pkg/types"
)

// Host 合约宿主
type Host struct {
	mu sync.Mutex

	store    storage.BadgerStore
	addrs    crypto.AddressManager
	config   *hostconfig.Config
	bus      event.EventBus
	recorder metrics.ContractRecorder
	logger   log.Logger

	codesMu sync.RWMutex
	codes   map[uint64]execution.Code
}

// Deps 宿主依赖
type Deps struct {
	Store    storage.BadgerStore
	Addrs    crypto.AddressManager
	Config   *hostconfig.Config
	Bus      event.EventBus
	Recorder metrics.ContractRecorder
	Logger   log.Logger
}

// New 创建宿主
func New(deps Deps) *Host {
	return &Host{
		store:    deps.Store,
		addrs:    deps.Addrs,
		config:   deps.Config,
		bus:      deps.Bus,
		recorder: deps.Recorder,
		logger:   deps.Logger,
		codes:    make(map[uint64]execution.Code),
	}
}

// InstantiateRequest 创建实例的参数
type InstantiateRequest struct {
	CodeID uint64
	Sender string
	Admin  string
	Label  string
	Msg    []byte
	Funds  []types.Coin
}

// InstantiateResult 创建结果
type InstantiateResult struct {
	Address  types.Addr      `json:"address"`
	Response *types.Response `json:"response"`
}

// AccountAddress 由账户名推导本链地址
func (h *Host) AccountAddress(name string) types.Addr {
	return types.Addr(h.addrs.AccountAddress(name))
}

// ResolveAccount 合法地址原样返回，否则视为账户名派生地址
func (h *Host) ResolveAccount(nameOrAddr string) types.Addr {
	if h.addrs.Validate(nameOrAddr) == nil {
		return types.Addr(nameOrAddr)
	}
	return h.AccountAddress(nameOrAddr)
}

func (h *Host) code(id uint64) (execution.Code, error) {
	h.codesMu.RLock()
	defer h.codesMu.RUnlock()
	code, ok := h.codes[id]
	if !ok {
		return execution.Code{}, fmt.Errorf("%w: code %d", ErrCodeNotLoaded, id)
	}
	return code, nil
}

// StoreCode 注册代码，同名代码返回已有 ID
//
// 代码实现只存在于进程内，记录持久化在存储中；重启后按相同名称重新注册即可恢复
func (h *Host) StoreCode(ctx context.Context, code execution.Code) (uint64, error) {
	if code.Name == "" || code.Contract == nil {
		return 0, types.InvalidInputf("code must have a name and an implementation")
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	var id uint64
	err := h.store.RunInTransaction(ctx, func(tx storage.BadgerTransaction) error {
		codes, err := listCodes(tx)
		if err != nil {
			return err
		}
		for _, rec := range codes {
			if rec.Name == code.Name {
				id = rec.ID
				return nil
			}
		}
		id = uint64(len(codes)) + 1
		return putJSON(tx, codeKey(id), CodeRecord{ID: id, Name: code.Name})
	})
	if err != nil {
		return 0, err
	}

	h.codesMu.Lock()
	h.codes[id] = code
	h.codesMu.Unlock()
	h.logger.Debugf("代码已注册: id=%d name=%s", id, code.Name)
	return id, nil
}

// Codes 已存储的代码
func (h *Host) Codes(ctx context.Context) ([]CodeRecord, error) {
	var out []CodeRecord
	err := h.store.View(ctx, func(r storage.BadgerReader) error {
		var err error
		out, err = listCodes(r)
		return err
	})
	return out, err
}

// Instantiate 创建实例
func (h *Host) Instantiate(ctx context.Context, req InstantiateRequest) (*InstantiateResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var out *InstantiateResult
	call := h.begin(metrics.EntryInstantiate, types.Addr(req.Sender))
	err := h.store.RunInTransaction(ctx, func(tx storage.BadgerTransaction) error {
		block, err := loadBlock(tx, h.config)
		if err != nil {
			return err
		}
		c := h.newWriteContext(tx, block)
		call.bind(c, tx)

		sender, err := c.validateAddr(req.Sender)
		if err != nil {
			return err
		}
		var admin types.Addr
		if req.Admin != "" {
			if admin, err = c.validateAddr(req.Admin); err != nil {
				return err
			}
		}
		if req.Label == "" {
			return types.InvalidInputf("label is required")
		}
		if _, err := loadCode(tx, req.CodeID); err != nil {
			return err
		}
		code, err := h.code(req.CodeID)
		if err != nil {
			return err
		}
		seq, err := nextSeq(tx)
		if err != nil {
			return err
		}
		rec := ContractRecord{
			Address:   types.Addr(h.addrs.ContractAddress(req.CodeID, seq)),
			CodeID:    req.CodeID,
			Creator:   sender,
			Admin:     admin,
			Label:     req.Label,
			CreatedAt: seq,
		}
		call.contract = rec.Address
		resp, err := c.instantiate(rec, code.Contract, req.Funds, req.Msg)
		if err != nil {
			return err
		}
		out = &InstantiateResult{Address: rec.Address, Response: resp}
		return nil
	})
	h.finish(call, err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Execute 调用 execute 入口
func (h *Host) Execute(ctx context.Context, contract, sender string, msg []byte, funds ...types.Coin) (*types.Response, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var out *types.Response
	call := h.begin(metrics.EntryExecute, types.Addr(sender))
	call.contract = types.Addr(contract)
	err := h.store.RunInTransaction(ctx, func(tx storage.BadgerTransaction) error {
		block, err := loadBlock(tx, h.config)
		if err != nil {
			return err
		}
		c := h.newWriteContext(tx, block)
		call.bind(c, tx)

		from, err := c.validateAddr(sender)
		if err != nil {
			return err
		}
		addr, err := c.validateAddr(contract)
		if err != nil {
			return err
		}
		out, err = c.execute(addr, from, funds, msg, 0)
		return err
	})
	h.finish(call, err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Migrate 把实例切换到新代码并调用其 migrate 入口，只有管理员可以迁移
func (h *Host) Migrate(ctx context.Context, contract, sender string, newCodeID uint64, msg []byte) (*types.Response, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var out *types.Response
	call := h.begin(metrics.EntryMigrate, types.Addr(sender))
	call.contract = types.Addr(contract)
	err := h.store.RunInTransaction(ctx, func(tx storage.BadgerTransaction) error {
		block, err := loadBlock(tx, h.config)
		if err != nil {
			return err
		}
		c := h.newWriteContext(tx, block)
		call.bind(c, tx)

		from, err := c.validateAddr(sender)
		if err != nil {
			return err
		}
		rec, err := loadContract(tx, types.Addr(contract))
		if err != nil {
			return err
		}
		if rec.Admin != from {
			return fmt.Errorf("%w: only the admin can migrate %s", types.ErrUnauthorized, contract)
		}
		if _, err := loadCode(tx, newCodeID); err != nil {
			return err
		}
		code, err := h.code(newCodeID)
		if err != nil {
			return err
		}
		rec.CodeID = newCodeID
		out, err = c.migrate(*rec, code.Contract, msg)
		return err
	})
	h.finish(call, err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateAdmin 更换管理员，newAdmin 为空表示清除；只有当前管理员可以操作
func (h *Host) UpdateAdmin(ctx context.Context, contract, sender, newAdmin string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.store.RunInTransaction(ctx, func(tx storage.BadgerTransaction) error {
		block, err := loadBlock(tx, h.config)
		if err != nil {
			return err
		}
		c := h.newWriteContext(tx, block)
		from, err := c.validateAddr(sender)
		if err != nil {
			return err
		}
		rec, err := loadContract(tx, types.Addr(contract))
		if err != nil {
			return err
		}
		if rec.Admin != from {
			return fmt.Errorf("%w: only the admin can update the admin of %s", types.ErrUnauthorized, contract)
		}
		rec.Admin = ""
		if newAdmin != "" {
			if rec.Admin, err = c.validateAddr(newAdmin); err != nil {
				return err
			}
		}
		return putJSON(tx, contractKey(rec.Address), rec)
	})
}

// Query 调用 query 入口，在只读视图中执行
func (h *Host) Query(ctx context.Context, contract string, msg []byte) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	start := time.Now()
	var out []byte
	err := h.store.View(ctx, func(r storage.BadgerReader) error {
		block, err := loadBlock(r, h.config)
		if err != nil {
			return err
		}
		c := h.newReadContext(r, block)
		addr, err := c.validateAddr(contract)
		if err != nil {
			return err
		}
		out, err = c.query(addr, msg, 0)
		return err
	})
	h.recorder.ObserveCall(metrics.EntryQuery, resultLabel(err), time.Since(start))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ContractInfo 实例记录
func (h *Host) ContractInfo(ctx context.Context, contract string) (*ContractRecord, error) {
	var rec *ContractRecord
	err := h.store.View(ctx, func(r storage.BadgerReader) error {
		var err error
		rec, err = loadContract(r, types.Addr(contract))
		return err
	})
	return rec, err
}

// Contracts 全部实例，按创建顺序
func (h *Host) Contracts(ctx context.Context) ([]ContractRecord, error) {
	var out []ContractRecord
	err := h.store.View(ctx, func(r storage.BadgerReader) error {
		var err error
		out, err = listContracts(r)
		return err
	})
	return out, err
}

// DumpState 合约存储的全部键值，按键升序
func (h *Host) DumpState(ctx context.Context, contract string) ([]types.Record, error) {
	var out []types.Record
	err := h.store.View(ctx, func(r storage.BadgerReader) error {
		if _, err := loadContract(r, types.Addr(contract)); err != nil {
			return err
		}
		it, err := newReadonlyStorage(r, types.Addr(contract)).Range(nil, nil, types.Ascending)
		if err != nil {
			return err
		}
		out = types.CollectRecords(it)
		return nil
	})
	return out, err
}

// Block 当前区块
func (h *Host) Block(ctx context.Context) (types.BlockInfo, error) {
	var block types.BlockInfo
	err := h.store.View(ctx, func(r storage.BadgerReader) error {
		var err error
		block, err = loadBlock(r, h.config)
		return err
	})
	return block, err
}

// NextBlock 推进 n 个区块，每个区块时间增加配置的出块间隔
func (h *Host) NextBlock(ctx context.Context, n uint64) (types.BlockInfo, error) {
	if n == 0 {
		n = 1
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	var block types.BlockInfo
	err := h.store.RunInTransaction(ctx, func(tx storage.BadgerTransaction) error {
		var err error
		if block, err = loadBlock(tx, h.config); err != nil {
			return err
		}
		block = advance(block, n, h.config.GetBlockTime())
		return saveBlock(tx, block)
	})
	if err != nil {
		return types.BlockInfo{}, err
	}
	h.recorder.SetBlockHeight(block.Height)
	h.bus.Publish(types.ContractEvent{
		Type:      types.EventTypeBlockAdvanced,
		Height:    block.Height,
		Timestamp: block.Time.Time(),
	})
	h.logger.Debugf("区块推进到 %d (%s)", block.Height, block.Time)
	return block, nil
}
