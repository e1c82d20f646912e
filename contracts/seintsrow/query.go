package seintsrow

import (
	"github.com/weisyn/seints-row/contracts/seintsrow/msg"
	"github.com/weisyn/seints-row/contracts/seintsrow/state"
	"github.com/weisyn/seints-row/pkg/contractversion"
	"github.com/weisyn/seints-row/pkg/storageplus"
	"github.com/weisyn/seints-row/pkg/types"
)

// querier 只读处理器，只持有 types.Deps
type querier struct {
	deps types.Deps
	env  types.Env
}

var _ msg.QueryHandler = (*querier)(nil)

func (q *querier) GetTokenInfo(*msg.GetTokenInfo) (*msg.TokenInfoResponse, error) {
	token, err := state.Token.Load(q.deps.Storage)
	if err != nil {
		return nil, err
	}
	owner, err := state.Owner.Load(q.deps.Storage)
	if err != nil {
		return nil, err
	}
	return &msg.TokenInfoResponse{
		Name:        token.Name,
		Symbol:      token.Symbol,
		Decimals:    token.Decimals,
		TotalSupply: token.TotalSupply,
		Owner:       owner.String(),
	}, nil
}

func (q *querier) GetBalance(m *msg.GetBalance) (*msg.BalanceResponse, error) {
	addr, err := validateAddr(q.deps.Api, "address", m.Address)
	if err != nil {
		return nil, err
	}
	bal, _, err := state.Balances.May(q.deps.Storage, addr)
	if err != nil {
		return nil, err
	}
	return &msg.BalanceResponse{Balance: bal}, nil
}

func (q *querier) GetOwner(*msg.GetOwner) (*msg.OwnerResponse, error) {
	owner, err := state.Owner.Load(q.deps.Storage)
	if err != nil {
		return nil, err
	}
	return &msg.OwnerResponse{Owner: owner.String()}, nil
}

func (q *querier) GetMetadata(*msg.GetMetadata) (*msg.MetadataResponse, error) {
	url, _, err := state.MetadataURL.May(q.deps.Storage)
	if err != nil {
		return nil, err
	}
	return &msg.MetadataResponse{MetadataURL: url}, nil
}

func (q *querier) GetVestingInfo(m *msg.GetVestingInfo) (*msg.VestingInfoResponse, error) {
	addr, err := validateAddr(q.deps.Api, "address", m.Address)
	if err != nil {
		return nil, err
	}
	vesting, err := state.Vesting.Load(q.deps.Storage, addr)
	if err != nil {
		return nil, scheduleNotFound(err, "vesting schedule", addr)
	}
	return &msg.VestingInfoResponse{
		Amount:          vesting.Amount,
		StartTime:       vesting.StartTime.Seconds(),
		ReleaseSchedule: pageSchedule(vesting.ReleaseSchedule, m.StartAfter, m.Limit),
	}, nil
}

func (q *querier) GetPoolReleaseInfo(m *msg.GetPoolReleaseInfo) (*msg.PoolReleaseInfoResponse, error) {
	addr, err := validateAddr(q.deps.Api, "address", m.Address)
	if err != nil {
		return nil, err
	}
	pool, err := state.PoolRelease.Load(q.deps.Storage, addr)
	if err != nil {
		return nil, scheduleNotFound(err, "pool release schedule", addr)
	}
	return &msg.PoolReleaseInfoResponse{
		Amount:          pool.Amount,
		ReleaseSchedule: pageSchedule(pool.ReleaseSchedule, m.StartAfter, m.Limit),
	}, nil
}

func (q *querier) AllBalances(m *msg.AllBalances) (*msg.AllBalancesResponse, error) {
	var startAfter *types.Addr
	if m.StartAfter != nil {
		addr, err := validateAddr(q.deps.Api, "start_after", *m.StartAfter)
		if err != nil {
			return nil, err
		}
		startAfter = &addr
	}
	pairs, err := state.Balances.Paginate(q.deps.Storage, startAfter, m.Limit, types.Ascending)
	if err != nil {
		return nil, err
	}
	out := &msg.AllBalancesResponse{Balances: make([]msg.BalanceEntry, 0, len(pairs))}
	for _, p := range pairs {
		out.Balances = append(out.Balances, msg.BalanceEntry{Address: p.Key.String(), Balance: p.Value})
	}
	return out, nil
}

func (q *querier) GetContractVersion(*msg.GetContractVersion) (*msg.ContractVersionResponse, error) {
	v, err := contractversion.Get(q.deps.Storage)
	if err != nil {
		return nil, err
	}
	return &msg.ContractVersionResponse{Contract: v.Contract, Version: v.Version}, nil
}

// pageSchedule 按到期时间（秒）分页，计划本身已按时间升序
func pageSchedule(schedule []state.Tranche, startAfter *uint64, limit *uint32) []msg.ScheduleEntry {
	max := storageplus.ClampLimit(limit)
	out := make([]msg.ScheduleEntry, 0, max)
	for _, t := range schedule {
		if len(out) == max {
			break
		}
		sec := t.Time.Seconds()
		if startAfter != nil && sec <= *startAfter {
			continue
		}
		out = append(out, msg.ScheduleEntry{Time: sec, Amount: t.Amount})
	}
	return out
}
