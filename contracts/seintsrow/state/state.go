// Package state 定义 seints_row 合约 0.1.0 版本的存储布局
//
// 布局只能增量演进：任何破坏性变更都必须在 migrate 中转换
package state

import (
	"encoding/json"
	"fmt"

	"github.com/weisyn/seints-row/pkg/storageplus"
	"github.com/weisyn/seints-row/pkg/types"
)

// TokenInfo 代币全局信息
type TokenInfo struct {
	Name        string        `json:"name"`
	Symbol      string        `json:"symbol"`
	Decimals    uint8         `json:"decimals"`
	TotalSupply types.Uint128 `json:"total_supply"`
}

// Tranche 一次释放：到期时间与数量，JSON 中为二元组 ["<nanos>", "<amount>"]
type Tranche struct {
	Time   types.Timestamp
	Amount types.Uint128
}

// MarshalJSON 二元组
func (t Tranche) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{t.Time, t.Amount})
}

// UnmarshalJSON 二元组
func (t *Tranche) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 2 {
		return fmt.Errorf("tranche must have 2 elements, got %d", len(parts))
	}
	if err := json.Unmarshal(parts[0], &t.Time); err != nil {
		return err
	}
	return json.Unmarshal(parts[1], &t.Amount)
}

// VestingInfo 团队锁仓
type VestingInfo struct {
	Amount          types.Uint128   `json:"amount"`
	StartTime       types.Timestamp `json:"start_time"`
	ReleaseSchedule []Tranche       `json:"release_schedule"`
}

// PoolReleaseInfo 资金池分批释放
type PoolReleaseInfo struct {
	Amount          types.Uint128 `json:"amount"`
	ReleaseSchedule []Tranche     `json:"release_schedule"`
}

var (
	// Token 代币信息
	Token = storageplus.NewItem[TokenInfo]("token_info")
	// Owner 合约所有者
	Owner = storageplus.NewItem[types.Addr]("owner")
	// MetadataURL 元数据地址，未设置时不存在
	MetadataURL = storageplus.NewItem[string]("metadata_url")
	// Balances 持有人余额
	Balances = storageplus.NewMap[types.Addr, types.Uint128]("balances", storageplus.AddrKey)
	// Vesting 团队锁仓计划
	Vesting = storageplus.NewMap[types.Addr, VestingInfo]("vesting", storageplus.AddrKey)
	// PoolRelease 资金池释放计划
	PoolRelease = storageplus.NewMap[types.Addr, PoolReleaseInfo]("pool_release_schedule", storageplus.AddrKey)
)

// Due 把计划按 now 拆成已到期与未到期两部分，并返回到期总量
func Due(schedule []Tranche, now types.Timestamp) (due types.Uint128, rest []Tranche, err error) {
	for _, t := range schedule {
		if t.Time > now {
			rest = append(rest, t)
			continue
		}
		due, err = due.CheckedAdd(t.Amount)
		if err != nil {
			return types.Uint128{}, nil, err
		}
	}
	return due, rest, nil
}

// Remaining 计划中尚未释放的总量
func Remaining(schedule []Tranche) (types.Uint128, error) {
	var sum types.Uint128
	for _, t := range schedule {
		var err error
		if sum, err = sum.CheckedAdd(t.Amount); err != nil {
			return types.Uint128{}, err
		}
	}
	return sum, nil
}
