package seintsrow

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/seints-row/contracts/seintsrow/msg"
	"github.com/weisyn/seints-row/contracts/seintsrow/state"
	"github.com/weisyn/seints-row/pkg/contracttest"
	"github.com/weisyn/seints-row/pkg/contractversion"
	"github.com/weisyn/seints-row/pkg/storageplus"
	"github.com/weisyn/seints-row/pkg/types"
)

const (
	addrA = "addrA"
	addrB = "addrB"
	addrC = "addrC"
	team  = "team-wallet"
	pool  = "pool-wallet"
)

func strPtr(s string) *string { return &s }

func defaultInstantiate() msg.InstantiateMsg {
	return msg.InstantiateMsg{
		Name:          "Seints Row",
		Symbol:        "SEINT",
		Decimals:      6,
		InitialSupply: types.NewUint128(1_000_000),
		Owner:         strPtr(addrA),
		TeamAddress:   strPtr(team),
		PoolAddress:   strPtr(pool),
		MetadataURL:   strPtr("https://seints.example/meta.json"),
	}
}

func setup(t *testing.T) *contracttest.Dependencies {
	t.Helper()
	deps := contracttest.MockDependencies()
	_, err := Instantiate(deps.Mut(), contracttest.MockEnv(), contracttest.MockInfo("creator"), defaultInstantiate())
	require.NoError(t, err)
	return deps
}

func execute(t *testing.T, deps *contracttest.Dependencies, env types.Env, sender string, m msg.ExecuteMsg) types.ContractResult {
	t.Helper()
	return New().Execute(deps.Mut(), env, contracttest.MockInfo(sender), msg.MustEncode(m))
}

func query[T any](t *testing.T, deps *contracttest.Dependencies, m msg.QueryMsg) T {
	t.Helper()
	res := New().Query(deps.Ref(), contracttest.MockEnv(), msg.MustEncode(m))
	data, err := res.Unwrap()
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func balance(t *testing.T, deps *contracttest.Dependencies, addr string) string {
	t.Helper()
	return query[msg.BalanceResponse](t, deps, &msg.GetBalance{Address: addr}).Balance.String()
}

// 所有权转移：所有者可以转移，其他人调用失败且状态不变
func TestOwnershipScenario(t *testing.T) {
	deps := contracttest.MockDependencies()
	contract := New()

	raw := []byte(`{"name":"Seints Row","symbol":"SEINT","decimals":6,"initial_supply":"1000","owner":"addrA"}`)
	res := contract.Instantiate(deps.Mut(), contracttest.MockEnv(), contracttest.MockInfo("creator"), raw)
	_, err := res.Unwrap()
	require.NoError(t, err)

	version, err := contractversion.Get(deps.Storage)
	require.NoError(t, err)
	assert.Equal(t, contractversion.VersionInfo{Contract: "seints_row", Version: "0.1.0"}, version)

	res = execute(t, deps, contracttest.MockEnv(), addrA, &msg.UpdateOwner{NewOwner: addrB})
	_, err = res.Unwrap()
	require.NoError(t, err)
	assert.Equal(t, addrB, query[msg.OwnerResponse](t, deps, &msg.GetOwner{}).Owner)

	res = execute(t, deps, contracttest.MockEnv(), addrC, &msg.UpdateOwner{NewOwner: addrC})
	require.NotNil(t, res.Err)
	assert.Equal(t, types.KindUnauthorized, res.Err.Kind())
	assert.Equal(t, addrB, query[msg.OwnerResponse](t, deps, &msg.GetOwner{}).Owner)
}

func TestInstantiateDistribution(t *testing.T) {
	deps := setup(t)

	info := query[msg.TokenInfoResponse](t, deps, &msg.GetTokenInfo{})
	assert.Equal(t, "Seints Row", info.Name)
	assert.Equal(t, "SEINT", info.Symbol)
	assert.Equal(t, uint8(6), info.Decimals)
	assert.Equal(t, "1000000", info.TotalSupply.String())
	assert.Equal(t, addrA, info.Owner)

	assert.Equal(t, "600000", balance(t, deps, addrA))
	assert.Equal(t, "0", balance(t, deps, team))
	assert.Equal(t, "0", balance(t, deps, "creator"))

	vesting := query[msg.VestingInfoResponse](t, deps, &msg.GetVestingInfo{Address: team})
	assert.Equal(t, "200000", vesting.Amount.String())
	assert.Equal(t, uint64(contracttest.MockTimeSeconds), vesting.StartTime)
	require.Len(t, vesting.ReleaseSchedule, TeamTranches)
	for i, e := range vesting.ReleaseSchedule {
		assert.Equal(t, uint64(contracttest.MockTimeSeconds)+uint64(i+1)*TeamTrancheDays*86400, e.Time)
		assert.Equal(t, "50000", e.Amount.String())
	}

	limit := uint32(storageplus.MaxLimit)
	poolInfo := query[msg.PoolReleaseInfoResponse](t, deps, &msg.GetPoolReleaseInfo{Address: pool, Limit: &limit})
	assert.Equal(t, "200000", poolInfo.Amount.String())
	require.Len(t, poolInfo.ReleaseSchedule, PoolTranches)
	assert.Equal(t, "16666", poolInfo.ReleaseSchedule[0].Amount.String())
	// 余数计入最后一份
	assert.Equal(t, "16674", poolInfo.ReleaseSchedule[PoolTranches-1].Amount.String())

	meta := query[msg.MetadataResponse](t, deps, &msg.GetMetadata{})
	assert.Equal(t, "https://seints.example/meta.json", meta.MetadataURL)
}

func TestInstantiateDefaults(t *testing.T) {
	deps := contracttest.MockDependencies()
	m := defaultInstantiate()
	m.Owner, m.TeamAddress, m.PoolAddress, m.MetadataURL = nil, nil, nil, nil

	resp, err := Instantiate(deps.Mut(), contracttest.MockEnv(), contracttest.MockInfo("creator"), m)
	require.NoError(t, err)
	owner, ok := resp.Attribute("owner")
	require.True(t, ok)
	assert.Equal(t, "creator", owner)

	assert.Equal(t, "1000000", balance(t, deps, "creator"))
	assert.Equal(t, "", query[msg.MetadataResponse](t, deps, &msg.GetMetadata{}).MetadataURL)

	res := New().Query(deps.Ref(), contracttest.MockEnv(), msg.MustEncode(&msg.GetVestingInfo{Address: "creator"}))
	require.NotNil(t, res.Err)
	assert.Equal(t, types.KindNotFound, res.Err.Kind())
}

func TestInstantiateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m *msg.InstantiateMsg)
		want   error
	}{
		{"小数位过大", func(m *msg.InstantiateMsg) { m.Decimals = 19 }, ErrInvalidDecimals},
		{"零供应", func(m *msg.InstantiateMsg) { m.InitialSupply = types.ZeroUint128() }, ErrInvalidInitialSupply},
		{"名称过短", func(m *msg.InstantiateMsg) { m.Name = "ab" }, ErrInvalidName},
		{"符号含非法字符", func(m *msg.InstantiateMsg) { m.Symbol = "SE$T" }, ErrInvalidSymbol},
		{"符号过长", func(m *msg.InstantiateMsg) { m.Symbol = "ABCDEFGHIJKLM" }, ErrInvalidSymbol},
		{"元数据非绝对地址", func(m *msg.InstantiateMsg) { m.MetadataURL = strPtr("/meta.json") }, ErrInvalidMetadataURL},
		{"元数据协议不支持", func(m *msg.InstantiateMsg) { m.MetadataURL = strPtr("ftp://x/meta.json") }, ErrInvalidMetadataURL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := contracttest.MockDependencies()
			m := defaultInstantiate()
			tt.mutate(&m)
			_, err := Instantiate(deps.Mut(), contracttest.MockEnv(), contracttest.MockInfo("creator"), m)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, types.KindInvalidInput, types.KindOf(err))
			// 校验失败时没有任何写入
			assert.Equal(t, 0, deps.Storage.Len())
		})
	}

	deps := contracttest.MockDependencies()
	m := defaultInstantiate()
	m.TeamAddress = strPtr("bad address")
	_, err := Instantiate(deps.Mut(), contracttest.MockEnv(), contracttest.MockInfo("creator"), m)
	var addrErr *InvalidAddressError
	require.ErrorAs(t, err, &addrErr)
	assert.Equal(t, "team_address", addrErr.Field)
	assert.Equal(t, 0, deps.Storage.Len())
}

func TestTransfer(t *testing.T) {
	deps := setup(t)
	env := contracttest.MockEnv()

	res := execute(t, deps, env, addrA, &msg.Transfer{Recipient: addrB, Amount: types.NewUint128(100)})
	resp, err := res.Unwrap()
	require.NoError(t, err)
	assert.Len(t, resp.Attributes, 4)
	assert.Equal(t, "599900", balance(t, deps, addrA))
	assert.Equal(t, "100", balance(t, deps, addrB))

	// 给自己转账不改变余额
	_, err = execute(t, deps, env, addrB, &msg.Transfer{Recipient: addrB, Amount: types.NewUint128(100)}).Unwrap()
	require.NoError(t, err)
	assert.Equal(t, "100", balance(t, deps, addrB))

	before := deps.Storage.Snapshot()
	res = execute(t, deps, env, addrB, &msg.Transfer{Recipient: addrC, Amount: types.NewUint128(101)})
	require.NotNil(t, res.Err)
	assert.Equal(t, types.KindInvalidInput, res.Err.Kind())
	assert.Equal(t, "Insufficient balance: required 101, available 100", res.Err.Message)
	assert.Equal(t, before, deps.Storage.Snapshot())

	res = execute(t, deps, env, addrB, &msg.Transfer{Recipient: addrC, Amount: types.ZeroUint128()})
	require.NotNil(t, res.Err)
	assert.Equal(t, types.KindInvalidInput, res.Err.Kind())

	// 余额清零后条目被删除
	_, err = execute(t, deps, env, addrB, &msg.Transfer{Recipient: addrC, Amount: types.NewUint128(100)}).Unwrap()
	require.NoError(t, err)
	has, err := state.Balances.Has(deps.Storage, addrB)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestBurn(t *testing.T) {
	deps := setup(t)
	env := contracttest.MockEnv()

	_, err := execute(t, deps, env, addrA, &msg.Burn{Amount: types.NewUint128(1000)}).Unwrap()
	require.NoError(t, err)
	assert.Equal(t, "599000", balance(t, deps, addrA))
	info := query[msg.TokenInfoResponse](t, deps, &msg.GetTokenInfo{})
	assert.Equal(t, "999000", info.TotalSupply.String())

	res := execute(t, deps, env, addrC, &msg.Burn{Amount: types.NewUint128(1)})
	require.NotNil(t, res.Err)
	assert.Equal(t, "Insufficient balance: required 1, available 0", res.Err.Message)
}

func TestSend(t *testing.T) {
	deps := setup(t)
	env := contracttest.MockEnv()
	deps.Querier.Infos["receiver"] = types.ContractInfoResponse{CodeID: 2, Creator: addrA, Label: "receiver"}

	res := execute(t, deps, env, addrA, &msg.Send{Contract: "receiver", Amount: types.NewUint128(10), Msg: []byte(`{"stake":{}}`)})
	resp, err := res.Unwrap()
	require.NoError(t, err)
	assert.Equal(t, "10", balance(t, deps, "receiver"))

	require.Len(t, resp.Messages, 1)
	exec := resp.Messages[0].Msg.Wasm.Execute
	require.NotNil(t, exec)
	assert.Equal(t, "receiver", exec.ContractAddr)

	var callback msg.ReceiverExecuteMsg
	require.NoError(t, json.Unmarshal(exec.Msg, &callback))
	require.NotNil(t, callback.Receive)
	assert.Equal(t, addrA, callback.Receive.Sender)
	assert.Equal(t, "10", callback.Receive.Amount.String())
	assert.JSONEq(t, `{"stake":{}}`, string(callback.Receive.Msg))

	before := deps.Storage.Snapshot()
	res = execute(t, deps, env, addrA, &msg.Send{Contract: "not-a-contract", Amount: types.NewUint128(10)})
	require.NotNil(t, res.Err)
	assert.Equal(t, types.KindInvalidInput, res.Err.Kind())
	assert.Equal(t, before, deps.Storage.Snapshot())
}

func TestUpdateMetadata(t *testing.T) {
	deps := setup(t)
	env := contracttest.MockEnv()

	res := execute(t, deps, env, addrB, &msg.UpdateMetadata{MetadataURL: "ipfs://cid/meta.json"})
	require.NotNil(t, res.Err)
	assert.Equal(t, types.KindUnauthorized, res.Err.Kind())

	res = execute(t, deps, env, addrA, &msg.UpdateMetadata{MetadataURL: "not a url"})
	require.NotNil(t, res.Err)
	assert.Equal(t, types.KindInvalidInput, res.Err.Kind())

	_, err := execute(t, deps, env, addrA, &msg.UpdateMetadata{MetadataURL: "ipfs://cid/meta.json"}).Unwrap()
	require.NoError(t, err)
	assert.Equal(t, "ipfs://cid/meta.json", query[msg.MetadataResponse](t, deps, &msg.GetMetadata{}).MetadataURL)
}

func TestReleaseVested(t *testing.T) {
	deps := setup(t)
	start := uint64(contracttest.MockTimeSeconds)

	res := execute(t, deps, contracttest.MockEnv(), team, &msg.ReleaseVested{})
	require.NotNil(t, res.Err)
	assert.Equal(t, types.KindInvalidInput, res.Err.Kind())

	res = execute(t, deps, contracttest.MockEnv(), addrC, &msg.ReleaseVested{})
	require.NotNil(t, res.Err)
	assert.Equal(t, types.KindNotFound, res.Err.Kind())

	// 两个周期后释放前两份
	env := contracttest.MockEnvAt(start + 2*TeamTrancheDays*86400)
	resp, err := execute(t, deps, env, team, &msg.ReleaseVested{}).Unwrap()
	require.NoError(t, err)
	amount, _ := resp.Attribute("amount")
	assert.Equal(t, "100000", amount)
	assert.Equal(t, "100000", balance(t, deps, team))

	vesting := query[msg.VestingInfoResponse](t, deps, &msg.GetVestingInfo{Address: team})
	assert.Len(t, vesting.ReleaseSchedule, 2)

	// 同一时刻再次释放没有可释放份额
	res = execute(t, deps, env, team, &msg.ReleaseVested{})
	assert.Equal(t, types.KindInvalidInput, res.Err.Kind())

	env = contracttest.MockEnvAt(start + 10*TeamTrancheDays*86400)
	_, err = execute(t, deps, env, team, &msg.ReleaseVested{}).Unwrap()
	require.NoError(t, err)
	assert.Equal(t, "200000", balance(t, deps, team))

	has, err := state.Vesting.Has(deps.Storage, team)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestReleasePool(t *testing.T) {
	deps := setup(t)
	env := contracttest.MockEnvAt(uint64(contracttest.MockTimeSeconds) + 365*86400)

	_, err := execute(t, deps, env, pool, &msg.ReleasePool{}).Unwrap()
	require.NoError(t, err)
	assert.Equal(t, "200000", balance(t, deps, pool))

	res := execute(t, deps, env, pool, &msg.ReleasePool{})
	assert.Equal(t, types.KindNotFound, res.Err.Kind())
}

func TestSchedulePagination(t *testing.T) {
	deps := setup(t)
	start := uint64(contracttest.MockTimeSeconds)

	page := query[msg.PoolReleaseInfoResponse](t, deps, &msg.GetPoolReleaseInfo{Address: pool})
	require.Len(t, page.ReleaseSchedule, 10)

	after := start + 10*PoolTrancheDays*86400
	page = query[msg.PoolReleaseInfoResponse](t, deps, &msg.GetPoolReleaseInfo{Address: pool, StartAfter: &after})
	require.Len(t, page.ReleaseSchedule, 2)
	assert.Equal(t, start+11*PoolTrancheDays*86400, page.ReleaseSchedule[0].Time)
}

func TestAllBalances(t *testing.T) {
	deps := setup(t)
	env := contracttest.MockEnv()
	for _, to := range []string{"d", "b", "c"} {
		_, err := execute(t, deps, env, addrA, &msg.Transfer{Recipient: to + "-holder", Amount: types.NewUint128(1)}).Unwrap()
		require.NoError(t, err)
	}

	limit := uint32(2)
	page := query[msg.AllBalancesResponse](t, deps, &msg.AllBalances{Limit: &limit})
	require.Len(t, page.Balances, 2)
	assert.Equal(t, addrA, page.Balances[0].Address)
	assert.Equal(t, "b-holder", page.Balances[1].Address)

	after := page.Balances[1].Address
	page = query[msg.AllBalancesResponse](t, deps, &msg.AllBalances{StartAfter: &after})
	require.Len(t, page.Balances, 2)
	assert.Equal(t, "c-holder", page.Balances[0].Address)
	assert.Equal(t, "d-holder", page.Balances[1].Address)
}

func TestQueryIsPure(t *testing.T) {
	deps := setup(t)
	before := deps.Storage.Snapshot()

	queries := []msg.QueryMsg{
		&msg.GetTokenInfo{},
		&msg.GetBalance{Address: addrA},
		&msg.GetOwner{},
		&msg.GetMetadata{},
		&msg.GetVestingInfo{Address: team},
		&msg.GetPoolReleaseInfo{Address: pool},
		&msg.AllBalances{},
		&msg.GetContractVersion{},
	}
	for _, q := range queries {
		first := New().Query(deps.Ref(), contracttest.MockEnv(), msg.MustEncode(q))
		second := New().Query(deps.Ref(), contracttest.MockEnv(), msg.MustEncode(q))
		require.Nil(t, first.Err, q.Tag())
		assert.Equal(t, string(first.Ok), string(second.Ok), q.Tag())
	}
	assert.Equal(t, before, deps.Storage.Snapshot())

	res := New().Query(deps.Ref(), contracttest.MockEnv(), []byte(`{"get_count":{}}`))
	assert.Equal(t, types.KindInvalidInput, res.Err.Kind())
}

func TestContractVersionQuery(t *testing.T) {
	deps := setup(t)
	v := query[msg.ContractVersionResponse](t, deps, &msg.GetContractVersion{})
	assert.Equal(t, msg.ContractVersionResponse{Contract: ContractName, Version: ContractVersion}, v)
}

func TestExecuteRejectsUnknownVariant(t *testing.T) {
	deps := setup(t)
	res := New().Execute(deps.Mut(), contracttest.MockEnv(), contracttest.MockInfo(addrA), []byte(`{"mint":{"amount":"5"}}`))
	require.NotNil(t, res.Err)
	assert.Equal(t, types.KindInvalidInput, res.Err.Kind())
}

// 实例化之前所有入口都返回 NotFound，且不写入
func TestHandlersRequireInstantiate(t *testing.T) {
	queries := []msg.QueryMsg{
		&msg.GetTokenInfo{},
		&msg.GetBalance{Address: addrA},
		&msg.GetOwner{},
		&msg.GetMetadata{},
		&msg.GetVestingInfo{Address: addrA},
		&msg.GetPoolReleaseInfo{Address: addrA},
		&msg.AllBalances{},
		&msg.GetContractVersion{},
	}
	for _, m := range queries {
		t.Run(m.Tag(), func(t *testing.T) {
			deps := contracttest.MockDependencies()
			res := New().Query(deps.Ref(), contracttest.MockEnv(), msg.MustEncode(m))
			require.NotNil(t, res.Err)
			assert.Equal(t, types.KindNotFound, res.Err.Kind())
		})
	}

	executes := []msg.ExecuteMsg{
		&msg.Transfer{Recipient: addrB, Amount: types.NewUint128(1)},
		&msg.Burn{Amount: types.NewUint128(1)},
		&msg.Send{Contract: addrB, Amount: types.NewUint128(1), Msg: types.Binary("{}")},
		&msg.UpdateOwner{NewOwner: addrB},
		&msg.UpdateMetadata{MetadataURL: "https://example.com/meta.json"},
		&msg.ReleaseVested{},
		&msg.ReleasePool{},
	}
	for _, m := range executes {
		t.Run(m.Tag(), func(t *testing.T) {
			deps := contracttest.MockDependencies()
			res := execute(t, deps, contracttest.MockEnv(), addrA, m)
			require.NotNil(t, res.Err)
			assert.Equal(t, types.KindNotFound, res.Err.Kind())
			assert.Equal(t, 0, deps.Storage.Len())
		})
	}
}
