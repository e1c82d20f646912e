package seintsrow

import (
	"net/url"
	"regexp"
	"unicode/utf8"

	"github.com/weisyn/seints-row/contracts/seintsrow/msg"
	"github.com/weisyn/seints-row/contracts/seintsrow/state"
	"github.com/weisyn/seints-row/pkg/contractversion"
	"github.com/weisyn/seints-row/pkg/types"
)

var symbolPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// distribution 初始分配方案
type distribution struct {
	owner       types.Addr
	ownerAmount types.Uint128
	team        *types.Addr
	vesting     state.VestingInfo
	pool        *types.Addr
	poolRelease state.PoolReleaseInfo
}

// Instantiate 创建代币并完成初始分配
func Instantiate(deps types.DepsMut, env types.Env, info types.MessageInfo, m msg.InstantiateMsg) (*types.Response, error) {
	if err := validateTokenInfo(m); err != nil {
		return nil, err
	}
	var metadata *string
	if m.MetadataURL != nil {
		if err := validateMetadataURL(*m.MetadataURL); err != nil {
			return nil, err
		}
		metadata = m.MetadataURL
	}

	owner := info.Sender
	if m.Owner != nil {
		addr, err := validateAddr(deps.Api, "owner", *m.Owner)
		if err != nil {
			return nil, err
		}
		owner = addr
	}
	team, err := validateOptionalAddr(deps.Api, "team_address", m.TeamAddress)
	if err != nil {
		return nil, err
	}
	pool, err := validateOptionalAddr(deps.Api, "pool_address", m.PoolAddress)
	if err != nil {
		return nil, err
	}

	dist, err := distribute(m.InitialSupply, env.Block.Time, owner, team, pool)
	if err != nil {
		return nil, err
	}

	// 校验全部完成，开始写入
	if err := contractversion.Set(deps.Storage, ContractName, ContractVersion); err != nil {
		return nil, err
	}
	token := state.TokenInfo{
		Name:        m.Name,
		Symbol:      m.Symbol,
		Decimals:    m.Decimals,
		TotalSupply: m.InitialSupply,
	}
	if err := state.Token.Save(deps.Storage, token); err != nil {
		return nil, err
	}
	if err := state.Owner.Save(deps.Storage, owner); err != nil {
		return nil, err
	}
	if metadata != nil {
		if err := state.MetadataURL.Save(deps.Storage, *metadata); err != nil {
			return nil, err
		}
	}
	if !dist.ownerAmount.IsZero() {
		if err := state.Balances.Save(deps.Storage, owner, dist.ownerAmount); err != nil {
			return nil, err
		}
	}
	if dist.team != nil {
		if err := state.Vesting.Save(deps.Storage, *dist.team, dist.vesting); err != nil {
			return nil, err
		}
	}
	if dist.pool != nil {
		if err := state.PoolRelease.Save(deps.Storage, *dist.pool, dist.poolRelease); err != nil {
			return nil, err
		}
	}

	return types.NewResponse().
		AddAttribute("method", "instantiate").
		AddAttribute("owner", owner.String()).
		AddAttribute("total_supply", m.InitialSupply.String()), nil
}

func validateTokenInfo(m msg.InstantiateMsg) error {
	if m.Decimals > MaxDecimals {
		return ErrInvalidDecimals
	}
	if m.InitialSupply.IsZero() {
		return ErrInvalidInitialSupply
	}
	if n := utf8.RuneCountInString(m.Name); n < MinNameLength || n > MaxNameLength {
		return ErrInvalidName
	}
	if n := len(m.Symbol); n < MinSymbolLength || n > MaxSymbolLength || !symbolPattern.MatchString(m.Symbol) {
		return ErrInvalidSymbol
	}
	return nil
}

func validateMetadataURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return ErrInvalidMetadataURL
	}
	switch u.Scheme {
	case "http", "https", "ipfs":
		return nil
	default:
		return ErrInvalidMetadataURL
	}
}

func validateAddr(api types.Api, field, human string) (types.Addr, error) {
	addr, err := api.AddrValidate(human)
	if err != nil {
		return "", &InvalidAddressError{Field: field, Err: err}
	}
	return addr, nil
}

func validateOptionalAddr(api types.Api, field string, human *string) (*types.Addr, error) {
	if human == nil {
		return nil, nil
	}
	addr, err := validateAddr(api, field, *human)
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

// distribute 计算初始分配；未指定地址或份额为零时，对应部分归所有者
func distribute(supply types.Uint128, start types.Timestamp, owner types.Addr, team, pool *types.Addr) (*distribution, error) {
	d := &distribution{owner: owner, ownerAmount: supply}

	teamAmount, teamSchedule, err := carve(supply, team, TeamSharePercent, TeamTranches, start, TeamTrancheDays)
	if err != nil {
		return nil, err
	}
	if teamSchedule != nil {
		d.team = team
		d.vesting = state.VestingInfo{Amount: teamAmount, StartTime: start, ReleaseSchedule: teamSchedule}
		if d.ownerAmount, err = d.ownerAmount.CheckedSub(teamAmount); err != nil {
			return nil, err
		}
	}

	poolAmount, poolSchedule, err := carve(supply, pool, PoolSharePercent, PoolTranches, start, PoolTrancheDays)
	if err != nil {
		return nil, err
	}
	if poolSchedule != nil {
		d.pool = pool
		d.poolRelease = state.PoolReleaseInfo{Amount: poolAmount, ReleaseSchedule: poolSchedule}
		if d.ownerAmount, err = d.ownerAmount.CheckedSub(poolAmount); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// carve 从总量中划出 percent 份额并生成释放计划，没有接收地址或份额为零时返回 nil 计划
func carve(supply types.Uint128, to *types.Addr, percent uint64, tranches int, start types.Timestamp, intervalDays uint64) (types.Uint128, []state.Tranche, error) {
	if to == nil {
		return types.ZeroUint128(), nil, nil
	}
	amount, err := supply.MultiplyRatio(percent, 100)
	if err != nil || amount.IsZero() {
		return types.ZeroUint128(), nil, err
	}
	schedule, err := splitSchedule(amount, tranches, start, intervalDays)
	if err != nil {
		return types.ZeroUint128(), nil, err
	}
	return amount, schedule, nil
}

// splitSchedule 把 amount 平均分成 n 份，第 i 份在 start + i*intervalDays 到期，余数计入最后一份，零额份跳过
func splitSchedule(amount types.Uint128, n int, start types.Timestamp, intervalDays uint64) ([]state.Tranche, error) {
	each, err := amount.MultiplyRatio(1, uint64(n))
	if err != nil {
		return nil, err
	}
	schedule := make([]state.Tranche, 0, n)
	allotted := types.ZeroUint128()
	for i := 1; i <= n; i++ {
		part := each
		if i == n {
			if part, err = amount.CheckedSub(allotted); err != nil {
				return nil, err
			}
		}
		if allotted, err = allotted.CheckedAdd(part); err != nil {
			return nil, err
		}
		if part.IsZero() {
			continue
		}
		schedule = append(schedule, state.Tranche{Time: start.PlusDays(uint64(i) * intervalDays), Amount: part})
	}
	return schedule, nil
}
