package host

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/seints-row/contracts/seintsrow"
	"github.com/weisyn/seints-row/contracts/seintsrow/msg"
	hostconfig "github.com/weisyn/seints-row/internal/config/host"
	badgerconfig "github.com/weisyn/seints-row/internal/config/storage/badger"
	"github.com/weisyn/seints-row/internal/core/infrastructure/crypto/address"
	eventimpl "github.com/weisyn/seints-row/internal/core/infrastructure/event"
	logimpl "github.com/weisyn/seints-row/internal/core/infrastructure/log"
	badgerstore "github.com/weisyn/seints-row/internal/core/infrastructure/storage/badger"
	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/metrics"
	"github.com/weisyn/seints-row/pkg/types"
)

// fakeRecorder 记录调用结果
type fakeRecorder struct {
	mu      sync.Mutex
	calls   []string
	writes  int
	subMsgs int
	height  uint64
}

func (r *fakeRecorder) ObserveCall(entry metrics.Entry, result string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, string(entry)+"/"+result)
}

func (r *fakeRecorder) ObserveWrite(uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
}

func (r *fakeRecorder) IncSubMessages(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subMsgs += n
}

func (r *fakeRecorder) SetBlockHeight(h uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.height = h
}

type testEnv struct {
	host     *Host
	bus      *eventimpl.EventBus
	recorder *fakeRecorder
	tokenID  uint64
	scriptID uint64
}

var testGenesis = time.Date(2019, 10, 29, 6, 29, 0, 0, time.UTC)

func testHostConfig() *hostconfig.Config {
	return hostconfig.NewFromOptions(&hostconfig.HostOptions{
		ChainID:        "seints-test-chain",
		GenesisTime:    testGenesis,
		BlockTime:      5 * time.Second,
		MaxCallDepth:   4,
		AddressVersion: address.DefaultVersion,
	})
}

func newTestHostWithStore(t *testing.T, store *badgerstore.Store) *testEnv {
	t.Helper()
	bus := eventimpl.New(nil)
	rec := &fakeRecorder{}
	h := New(Deps{
		Store:    store,
		Addrs:    address.NewAddressService(address.DefaultVersion),
		Config:   testHostConfig(),
		Bus:      bus,
		Recorder: rec,
		Logger:   logimpl.NewNop(),
	})
	ctx := context.Background()
	tokenID, err := h.StoreCode(ctx, seintsrow.Code())
	require.NoError(t, err)
	scriptID, err := h.StoreCode(ctx, scriptCode("script"))
	require.NoError(t, err)
	return &testEnv{host: h, bus: bus, recorder: rec, tokenID: tokenID, scriptID: scriptID}
}

func newTestHost(t *testing.T) *testEnv {
	t.Helper()
	store, err := badgerstore.New(badgerconfig.NewInMemory(), logimpl.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return newTestHostWithStore(t, store)
}

func (e *testEnv) addr(name string) string {
	return e.host.AccountAddress(name).String()
}

func (e *testEnv) instantiateToken(t *testing.T, owner string) types.Addr {
	t.Helper()
	owner, team, pool := e.addr(owner), e.addr("team"), e.addr("pool")
	url := "https://seints.example/meta.json"
	res, err := e.host.Instantiate(context.Background(), InstantiateRequest{
		CodeID: e.tokenID,
		Sender: owner,
		Admin:  owner,
		Label:  "seints row",
		Msg: mustJSON(msg.InstantiateMsg{
			Name:          "Seints Row",
			Symbol:        "SEINT",
			Decimals:      6,
			InitialSupply: types.NewUint128(1_000_000),
			Owner:         &owner,
			TeamAddress:   &team,
			PoolAddress:   &pool,
			MetadataURL:   &url,
		}),
	})
	require.NoError(t, err)
	return res.Address
}

func (e *testEnv) instantiateScript(t *testing.T, label string) types.Addr {
	t.Helper()
	res, err := e.host.Instantiate(context.Background(), InstantiateRequest{
		CodeID: e.scriptID,
		Sender: e.addr("alice"),
		Admin:  e.addr("alice"),
		Label:  label,
		Msg:    []byte(`{}`),
	})
	require.NoError(t, err)
	return res.Address
}

func (e *testEnv) balance(t *testing.T, token types.Addr, who string) uint64 {
	t.Helper()
	data, err := e.host.Query(context.Background(), token.String(), msg.MustEncode(&msg.GetBalance{Address: who}))
	require.NoError(t, err)
	var resp msg.BalanceResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	n, ok := resp.Balance.Uint64()
	require.True(t, ok)
	return n
}

func (e *testEnv) get(t *testing.T, contract types.Addr, key string) interface{} {
	t.Helper()
	data, err := e.host.Query(context.Background(), contract.String(), mustJSON(scriptQuery{Get: key}))
	require.NoError(t, err)
	var v interface{}
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

func TestStoreCode(t *testing.T) {
	env := newTestHost(t)
	ctx := context.Background()

	again, err := env.host.StoreCode(ctx, seintsrow.Code())
	require.NoError(t, err)
	assert.Equal(t, env.tokenID, again)

	codes, err := env.host.Codes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []CodeRecord{{ID: 1, Name: seintsrow.ContractName}, {ID: 2, Name: "script"}}, codes)

	_, err = env.host.StoreCode(ctx, scriptCode(""))
	assert.Equal(t, types.KindInvalidInput, types.KindOf(err))
}

func TestResolveAccount(t *testing.T) {
	env := newTestHost(t)
	alice := env.host.AccountAddress("alice")
	assert.Equal(t, alice, env.host.ResolveAccount("alice"))
	assert.Equal(t, alice, env.host.ResolveAccount(alice.String()))
	assert.NotEqual(t, alice, env.host.ResolveAccount("bob"))
}

func TestInstantiateToken(t *testing.T) {
	env := newTestHost(t)
	ctx := context.Background()
	token := env.instantiateToken(t, "alice")

	assert.NoError(t, env.host.addrs.Validate(token.String()))
	assert.Equal(t, uint64(600_000), env.balance(t, token, env.addr("alice")))
	assert.Equal(t, uint64(0), env.balance(t, token, env.addr("bob")))

	rec, err := env.host.ContractInfo(ctx, token.String())
	require.NoError(t, err)
	assert.Equal(t, env.tokenID, rec.CodeID)
	assert.Equal(t, types.Addr(env.addr("alice")), rec.Admin)
	assert.Equal(t, "seints row", rec.Label)

	list, err := env.host.Contracts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, token, list[0].Address)

	history := env.bus.History(0)
	require.NotEmpty(t, history)
	last := history[len(history)-1]
	assert.Equal(t, types.EventTypeContractInstantiated, last.Type)
	assert.Equal(t, token, last.Contract)
	assert.Equal(t, testGenesis, last.Timestamp)
	assert.Equal(t, "instantiate/ok", env.recorder.calls[0])
	assert.Equal(t, 1, env.recorder.writes)
}

func TestInstantiateRejects(t *testing.T) {
	env := newTestHost(t)
	ctx := context.Background()
	alice := env.addr("alice")

	tests := []struct {
		name string
		req  InstantiateRequest
		kind types.ErrorKind
	}{
		{"非法发送者", InstantiateRequest{CodeID: env.scriptID, Sender: "alice", Label: "x", Msg: []byte(`{}`)}, types.KindInvalidInput},
		{"非法管理员", InstantiateRequest{CodeID: env.scriptID, Sender: alice, Admin: "nope", Label: "x", Msg: []byte(`{}`)}, types.KindInvalidInput},
		{"缺少标签", InstantiateRequest{CodeID: env.scriptID, Sender: alice, Msg: []byte(`{}`)}, types.KindInvalidInput},
		{"未知代码", InstantiateRequest{CodeID: 99, Sender: alice, Label: "x", Msg: []byte(`{}`)}, types.KindNotFound},
		{"合约拒绝", InstantiateRequest{CodeID: env.scriptID, Sender: alice, Label: "x", Msg: []byte(`{"fail":true}`)}, types.KindInvalidInput},
		{"代币参数非法", InstantiateRequest{CodeID: env.tokenID, Sender: alice, Label: "x", Msg: []byte(`{"name":"x"}`)}, types.KindInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.host.Instantiate(ctx, tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.kind, types.KindOf(err))
		})
	}

	// 失败的实例化不留下记录，也不消耗实例序号
	list, err := env.host.Contracts(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	addr := env.instantiateScript(t, "first")
	assert.Equal(t, env.host.addrs.ContractAddress(env.scriptID, 1), addr.String())
}

func TestExecuteCommits(t *testing.T) {
	env := newTestHost(t)
	a := env.instantiateScript(t, "a")
	b := env.instantiateScript(t, "b")

	resp, err := env.host.Execute(context.Background(), a.String(), env.addr("bob"), mustJSON(script{
		Set:   map[string]string{"k": "v"},
		Call:  []call{{Contract: b.String(), Msg: script{Set: map[string]string{"from-a": "yes"}, Event: "touched"}}},
		Event: "hello",
	}))
	require.NoError(t, err)
	v, ok := resp.Attribute("sender")
	require.True(t, ok)
	assert.Equal(t, env.addr("bob"), v)

	assert.Equal(t, "v", env.get(t, a, "k"))
	assert.Equal(t, "yes", env.get(t, b, "from-a"))

	history := env.bus.History(1)
	require.Len(t, history, 1)
	ev := history[0]
	assert.Equal(t, types.EventTypeContractExecuted, ev.Type)
	var evTypes []string
	for _, e := range ev.Events {
		evTypes = append(evTypes, e.Type)
		assert.Equal(t, contractAddressAttr, e.Attributes[0].Key)
	}
	assert.Equal(t, []string{"wasm", "wasm-hello", "wasm", "wasm-touched"}, evTypes)
	// 子消息以调用方合约为 sender
	assert.Equal(t, b.String(), ev.Events[2].Attributes[0].Value)
	assert.Equal(t, a.String(), ev.Events[2].Attributes[1].Value)
	assert.Equal(t, 1, env.recorder.subMsgs)
}

func TestExecuteRollsBackOnSubMessageFailure(t *testing.T) {
	env := newTestHost(t)
	ctx := context.Background()
	a := env.instantiateScript(t, "a")
	b := env.instantiateScript(t, "b")

	before, err := env.host.DumpState(ctx, a.String())
	require.NoError(t, err)

	tests := []struct {
		name string
		msg  script
		kind types.ErrorKind
		is   error
	}{
		{"子消息失败", script{Set: map[string]string{"k": "v"}, Call: []call{{Contract: b.String(), Msg: script{Set: map[string]string{"x": "y"}, Fail: true}}}}, types.KindInvalidInput, nil},
		{"子消息目标不存在", script{Set: map[string]string{"k": "v"}, Call: []call{{Contract: env.addr("nobody"), Msg: script{}}}}, types.KindNotFound, nil},
		{"子消息地址非法", script{Set: map[string]string{"k": "v"}, Call: []call{{Contract: "bad", Msg: script{}}}}, types.KindInvalidInput, nil},
		{"不支持的消息", script{Set: map[string]string{"k": "v"}, Bank: true}, types.KindHost, ErrUnsupportedMessage},
		{"递归过深", script{Set: map[string]string{"k": "v"}, Recurse: true}, types.KindHost, ErrCallDepthExceeded},
		{"合约 panic", script{Set: map[string]string{"k": "v"}, Panic: true}, types.KindHost, ErrContractPanic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.host.Execute(ctx, a.String(), env.addr("bob"), mustJSON(tt.msg))
			require.Error(t, err)
			assert.Equal(t, tt.kind, types.KindOf(err))
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}

			after, err := env.host.DumpState(ctx, a.String())
			require.NoError(t, err)
			assert.Equal(t, before, after)
			assert.Nil(t, env.get(t, b, "x"))

			last := env.bus.History(1)[0]
			assert.Equal(t, types.EventTypeContractFailed, last.Type)
			require.NotNil(t, last.Error)
			assert.Equal(t, tt.kind, last.Error.Kind())
			assert.Empty(t, last.Events)
		})
	}
}

func TestExecuteRejects(t *testing.T) {
	env := newTestHost(t)
	ctx := context.Background()
	a := env.instantiateScript(t, "a")

	_, err := env.host.Execute(ctx, a.String(), "bob", []byte(`{}`))
	assert.Equal(t, types.KindInvalidInput, types.KindOf(err))

	_, err = env.host.Execute(ctx, env.addr("ghost"), env.addr("bob"), []byte(`{}`))
	assert.Equal(t, types.KindNotFound, types.KindOf(err))

	_, err = env.host.Execute(ctx, a.String(), env.addr("bob"), []byte(`not json`))
	assert.Equal(t, types.KindSerialization, types.KindOf(err))

	assert.Contains(t, env.recorder.calls, "execute/invalid_input")
	assert.Contains(t, env.recorder.calls, "execute/not_found")
	assert.Contains(t, env.recorder.calls, "execute/serialization")
}

func TestTokenFlows(t *testing.T) {
	env := newTestHost(t)
	ctx := context.Background()
	token := env.instantiateToken(t, "alice")
	receiver := env.instantiateScript(t, "receiver")
	alice, bob := env.addr("alice"), env.addr("bob")

	_, err := env.host.Execute(ctx, token.String(), alice, msg.MustEncode(&msg.Transfer{Recipient: bob, Amount: types.NewUint128(500)}))
	require.NoError(t, err)
	assert.Equal(t, uint64(599_500), env.balance(t, token, alice))
	assert.Equal(t, uint64(500), env.balance(t, token, bob))

	// 非地址格式的收款方由宿主 Api 拒绝
	_, err = env.host.Execute(ctx, token.String(), alice, msg.MustEncode(&msg.Transfer{Recipient: "bob", Amount: types.NewUint128(1)}))
	assert.Equal(t, types.KindInvalidInput, types.KindOf(err))

	t.Run("send 通知接收方", func(t *testing.T) {
		_, err := env.host.Execute(ctx, token.String(), bob, msg.MustEncode(&msg.Send{
			Contract: receiver.String(),
			Amount:   types.NewUint128(200),
			Msg:      []byte("hi"),
		}))
		require.NoError(t, err)
		assert.Equal(t, uint64(300), env.balance(t, token, bob))
		assert.Equal(t, uint64(200), env.balance(t, token, receiver.String()))
		assert.Equal(t, "200", env.get(t, receiver, "received"))
	})

	t.Run("接收方拒绝时整体回滚", func(t *testing.T) {
		_, err := env.host.Execute(ctx, token.String(), bob, msg.MustEncode(&msg.Send{
			Contract: receiver.String(),
			Amount:   types.NewUint128(100),
			Msg:      []byte("reject"),
		}))
		require.Error(t, err)
		assert.Equal(t, types.KindUnauthorized, types.KindOf(err))
		assert.Equal(t, uint64(300), env.balance(t, token, bob))
		assert.Equal(t, uint64(200), env.balance(t, token, receiver.String()))
	})

	t.Run("send 给非合约地址", func(t *testing.T) {
		_, err := env.host.Execute(ctx, token.String(), bob, msg.MustEncode(&msg.Send{
			Contract: alice,
			Amount:   types.NewUint128(1),
		}))
		require.Error(t, err)
		assert.Equal(t, uint64(300), env.balance(t, token, bob))
	})
}

func TestVestingFollowsBlockTime(t *testing.T) {
	env := newTestHost(t)
	ctx := context.Background()
	token := env.instantiateToken(t, "alice")
	team := env.addr("team")

	_, err := env.host.Execute(ctx, token.String(), team, msg.MustEncode(&msg.ReleaseVested{}))
	require.Error(t, err)
	assert.Equal(t, uint64(0), env.balance(t, token, team))

	// 90 天 = 1555200 个 5 秒区块
	block, err := env.host.NextBlock(ctx, 90*24*3600/5)
	require.NoError(t, err)
	assert.Equal(t, testGenesis.Add(90*24*time.Hour), block.Time.Time())

	_, err = env.host.Execute(ctx, token.String(), team, msg.MustEncode(&msg.ReleaseVested{}))
	require.NoError(t, err)
	assert.Equal(t, uint64(50_000), env.balance(t, token, team))
}

func TestNextBlock(t *testing.T) {
	env := newTestHost(t)
	ctx := context.Background()
	a := env.instantiateScript(t, "a")

	block, err := env.host.Block(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), block.Height)
	assert.Equal(t, "seints-test-chain", block.ChainID)

	block, err = env.host.NextBlock(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), block.Height)
	assert.Equal(t, testGenesis.Add(5*time.Second), block.Time.Time())

	block, err = env.host.NextBlock(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), block.Height)
	assert.Equal(t, uint64(12), env.recorder.height)
	assert.Equal(t, types.EventTypeBlockAdvanced, env.bus.History(1)[0].Type)

	data, err := env.host.Query(ctx, a.String(), mustJSON(scriptQuery{Env: true}))
	require.NoError(t, err)
	var seen types.Env
	require.NoError(t, json.Unmarshal(data, &seen))
	assert.Equal(t, block, seen.Block)
	assert.Equal(t, a, seen.Contract.Address)
}

func TestQuerier(t *testing.T) {
	env := newTestHost(t)
	ctx := context.Background()
	a := env.instantiateScript(t, "a")
	b := env.instantiateScript(t, "b")
	_, err := env.host.Execute(ctx, a.String(), env.addr("bob"), mustJSON(script{Set: map[string]string{"k": "v"}}))
	require.NoError(t, err)

	query := func(q scriptQuery) (interface{}, error) {
		data, err := env.host.Query(ctx, b.String(), mustJSON(q))
		if err != nil {
			return nil, err
		}
		var v interface{}
		require.NoError(t, json.Unmarshal(data, &v))
		return v, nil
	}

	v, err := query(scriptQuery{Raw: &rawQuery{Contract: a.String(), Key: "k"}})
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	v, err = query(scriptQuery{Raw: &rawQuery{Contract: a.String(), Key: "missing"}})
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = query(scriptQuery{Smart: &smartQuery{Contract: a.String(), Msg: scriptQuery{Get: "creator"}}})
	require.NoError(t, err)
	assert.Equal(t, env.addr("alice"), v)

	v, err = query(scriptQuery{Info: a.String()})
	require.NoError(t, err)
	info := v.(map[string]interface{})
	assert.Equal(t, "a", info["label"])
	assert.Equal(t, float64(env.scriptID), info["code_id"])

	_, err = query(scriptQuery{Info: env.addr("nobody")})
	assert.Equal(t, types.KindNotFound, types.KindOf(err))

	_, err = env.host.Query(ctx, "bad", []byte(`{"get":"k"}`))
	assert.Equal(t, types.KindInvalidInput, types.KindOf(err))
}

func TestMigrate(t *testing.T) {
	env := newTestHost(t)
	ctx := context.Background()
	token := env.instantiateToken(t, "alice")
	alice, bob := env.addr("alice"), env.addr("bob")

	_, err := env.host.Migrate(ctx, token.String(), bob, env.tokenID, []byte(`{}`))
	assert.Equal(t, types.KindUnauthorized, types.KindOf(err))

	// 同版本迁移为空操作
	_, err = env.host.Migrate(ctx, token.String(), alice, env.tokenID, []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, types.EventTypeContractMigrated, env.bus.History(1)[0].Type)

	// 迁移消息非法时代码ID不变
	_, err = env.host.Migrate(ctx, token.String(), alice, env.tokenID, []byte(`{"extra":1}`))
	assert.Equal(t, types.KindInvalidInput, types.KindOf(err))

	_, err = env.host.Migrate(ctx, token.String(), alice, 42, []byte(`{}`))
	assert.Equal(t, types.KindNotFound, types.KindOf(err))

	rec, err := env.host.ContractInfo(ctx, token.String())
	require.NoError(t, err)
	assert.Equal(t, env.tokenID, rec.CodeID)

	// 切换到其他代码
	_, err = env.host.Migrate(ctx, token.String(), alice, env.scriptID, []byte(`"to-script"`))
	require.NoError(t, err)
	rec, err = env.host.ContractInfo(ctx, token.String())
	require.NoError(t, err)
	assert.Equal(t, env.scriptID, rec.CodeID)
	assert.Equal(t, `"to-script"`, env.get(t, token, "migrated"))
}

func TestUpdateAdmin(t *testing.T) {
	env := newTestHost(t)
	ctx := context.Background()
	a := env.instantiateScript(t, "a")
	alice, bob := env.addr("alice"), env.addr("bob")

	assert.Equal(t, types.KindUnauthorized, types.KindOf(env.host.UpdateAdmin(ctx, a.String(), bob, bob)))
	require.NoError(t, env.host.UpdateAdmin(ctx, a.String(), alice, bob))

	_, err := env.host.Migrate(ctx, a.String(), alice, env.scriptID, []byte(`{}`))
	assert.Equal(t, types.KindUnauthorized, types.KindOf(err))

	// 清除管理员后无人可以迁移
	require.NoError(t, env.host.UpdateAdmin(ctx, a.String(), bob, ""))
	_, err = env.host.Migrate(ctx, a.String(), bob, env.scriptID, []byte(`{}`))
	assert.Equal(t, types.KindUnauthorized, types.KindOf(err))
}

func TestStatePersistsAcrossRestart(t *testing.T) {
	dir := t.TempDir()
	open := func() *badgerstore.Store {
		store, err := badgerstore.New(badgerconfig.NewFromOptions(&badgerconfig.BadgerOptions{
			Path:              dir,
			MemTableSize:      1 << 20,
			NumVersionsToKeep: 1,
		}), logimpl.NewNop())
		require.NoError(t, err)
		return store
	}

	store := open()
	env := newTestHostWithStore(t, store)
	token := env.instantiateToken(t, "alice")
	_, err := env.host.NextBlock(context.Background(), 3)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store = open()
	defer store.Close()
	env = newTestHostWithStore(t, store)
	assert.Equal(t, uint64(600_000), env.balance(t, token, env.addr("alice")))
	block, err := env.host.Block(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(4), block.Height)
}

func TestCallsAreSerialized(t *testing.T) {
	env := newTestHost(t)
	ctx := context.Background()
	token := env.instantiateToken(t, "alice")
	alice, bob := env.addr("alice"), env.addr("bob")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.host.Execute(ctx, token.String(), alice, msg.MustEncode(&msg.Transfer{Recipient: bob, Amount: types.NewUint128(10)}))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(200), env.balance(t, token, bob))
}
