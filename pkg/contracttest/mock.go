// Package contracttest 为合约单元测试提供模拟的宿主依赖
//
// 模拟环境不涉及存储引擎与事务：合约直接读写内存中的有序存储，
// 需要原子性与跨合约调用的场景应使用 internal/core/host
package contracttest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/weisyn/seints-row/pkg/types"
)

// 默认测试环境
const (
	MockChainID         = "seints-test-chain"
	MockContractAddress = "cosmos2contract"
	MockHeight          = 12345
	// MockTimeSeconds 2019-10-29T06:29:00Z
	MockTimeSeconds = 1572330540
)

// ==================== 内存存储 ====================

// MemoryStorage 有序内存存储，实现 types.Storage
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStorage 创建空存储
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

// Get 读取
func (s *MemoryStorage) Get(key []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[string(key)]
	if !ok {
		return nil, nil
	}
	return append([]byte{}, v...), nil
}

// Set 写入
func (s *MemoryStorage) Set(key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[string(key)] = append([]byte{}, value...)
	return nil
}

// Remove 删除
func (s *MemoryStorage) Remove(key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, string(key))
	return nil
}

// Range 迭代 [start, end)，结果在调用时取快照
func (s *MemoryStorage) Range(start, end []byte, order types.Order) (types.Iterator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]types.Record, 0)
	for k, v := range s.data {
		key := []byte(k)
		if !types.InRange(key, start, end) {
			continue
		}
		records = append(records, types.Record{Key: key, Value: append([]byte{}, v...)})
	}
	sort.Slice(records, func(i, j int) bool {
		c := bytes.Compare(records[i].Key, records[j].Key)
		if order == types.Descending {
			return c > 0
		}
		return c < 0
	})
	return types.NewSliceIterator(records), nil
}

// Len 键数量
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Snapshot 全量拷贝，用于比较状态是否改变
func (s *MemoryStorage) Snapshot() map[string][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]byte, len(s.data))
	for k, v := range s.data {
		out[k] = append([]byte{}, v...)
	}
	return out
}

// ==================== 模拟 Api ====================

// MockApi 宽松的地址工具：非空、无空白、长度合适即视为有效
type MockApi struct {
	// Debugs 收集 Debug 输出
	Debugs []string
}

// AddrValidate 校验地址
func (a *MockApi) AddrValidate(human string) (types.Addr, error) {
	if _, err := a.AddrCanonicalize(human); err != nil {
		return "", err
	}
	return types.Addr(human), nil
}

// AddrCanonicalize 地址即字节
func (a *MockApi) AddrCanonicalize(human string) (types.CanonicalAddr, error) {
	if len(human) < 3 {
		return nil, types.InvalidInputf("invalid address %q: too short", human)
	}
	if len(human) > 90 {
		return nil, types.InvalidInputf("invalid address %q: too long", human)
	}
	if strings.ContainsAny(human, " \t\r\n") {
		return nil, types.InvalidInputf("invalid address %q: contains whitespace", human)
	}
	return types.CanonicalAddr(human), nil
}

// AddrHumanize 字节即地址
func (a *MockApi) AddrHumanize(canonical types.CanonicalAddr) (types.Addr, error) {
	return a.AddrValidate(string(canonical))
}

// Debug 记录调试输出
func (a *MockApi) Debug(msg string) {
	a.Debugs = append(a.Debugs, msg)
}

// ==================== 模拟 Querier ====================

// SmartHandler 处理对某个合约的 smart 查询
type SmartHandler func(msg []byte) ([]byte, error)

// MockQuerier 以地址注册的查询桩
type MockQuerier struct {
	Smart map[string]SmartHandler
	Raw   map[string]map[string][]byte
	Infos map[string]types.ContractInfoResponse
}

// NewMockQuerier 创建空的查询桩
func NewMockQuerier() *MockQuerier {
	return &MockQuerier{
		Smart: make(map[string]SmartHandler),
		Raw:   make(map[string]map[string][]byte),
		Infos: make(map[string]types.ContractInfoResponse),
	}
}

// SetRaw 注册合约存储中的一个键
func (q *MockQuerier) SetRaw(contract string, key, value []byte) {
	if q.Raw[contract] == nil {
		q.Raw[contract] = make(map[string][]byte)
	}
	q.Raw[contract][string(key)] = value
}

// QueryRaw 实现 types.Querier
func (q *MockQuerier) QueryRaw(req types.QueryRequest) ([]byte, error) {
	if req.Wasm == nil {
		return nil, fmt.Errorf("%w: unsupported query", types.ErrHost)
	}
	switch {
	case req.Wasm.Smart != nil:
		h, ok := q.Smart[req.Wasm.Smart.ContractAddr]
		if !ok {
			return nil, fmt.Errorf("%w: no such contract: %s", types.ErrHost, req.Wasm.Smart.ContractAddr)
		}
		return h(req.Wasm.Smart.Msg)
	case req.Wasm.Raw != nil:
		return q.Raw[req.Wasm.Raw.ContractAddr][string(req.Wasm.Raw.Key)], nil
	case req.Wasm.ContractInfo != nil:
		info, ok := q.Infos[req.Wasm.ContractInfo.ContractAddr]
		if !ok {
			return nil, fmt.Errorf("%w: no such contract: %s", types.ErrHost, req.Wasm.ContractInfo.ContractAddr)
		}
		return json.Marshal(info)
	default:
		return nil, fmt.Errorf("%w: unsupported wasm query", types.ErrHost)
	}
}

// ==================== 依赖组合 ====================

// Dependencies 模拟依赖
type Dependencies struct {
	Storage *MemoryStorage
	Api     *MockApi
	Querier *MockQuerier
}

// MockDependencies 创建模拟依赖
func MockDependencies() *Dependencies {
	return &Dependencies{
		Storage: NewMemoryStorage(),
		Api:     &MockApi{},
		Querier: NewMockQuerier(),
	}
}

// Mut 可写依赖
func (d *Dependencies) Mut() types.DepsMut {
	return types.DepsMut{
		Storage: d.Storage,
		Api:     d.Api,
		Querier: types.NewQuerierWrapper(d.Querier),
	}
}

// Ref 只读依赖
func (d *Dependencies) Ref() types.Deps {
	return d.Mut().AsRef()
}

// MockEnv 默认区块环境
func MockEnv() types.Env {
	return types.Env{
		Block: types.BlockInfo{
			Height:  MockHeight,
			Time:    types.TimestampFromSeconds(MockTimeSeconds),
			ChainID: MockChainID,
		},
		Contract: types.ContractInfo{Address: MockContractAddress},
	}
}

// MockEnvAt 指定区块时间（秒）的环境
func MockEnvAt(seconds uint64) types.Env {
	env := MockEnv()
	env.Block.Time = types.TimestampFromSeconds(seconds)
	return env
}

// MockInfo 调用者信息
func MockInfo(sender string, funds ...types.Coin) types.MessageInfo {
	return types.MessageInfo{Sender: types.Addr(sender), Funds: funds}
}
