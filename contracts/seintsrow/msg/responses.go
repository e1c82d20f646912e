package msg

import (
	"encoding/json"
	"fmt"

	"github.com/weisyn/seints-row/pkg/types"
)

// TokenInfoResponse get_token_info
type TokenInfoResponse struct {
	Name        string        `json:"name"`
	Symbol      string        `json:"symbol"`
	Decimals    uint8         `json:"decimals"`
	TotalSupply types.Uint128 `json:"total_supply"`
	Owner       string        `json:"owner"`
}

// BalanceResponse get_balance
type BalanceResponse struct {
	Balance types.Uint128 `json:"balance"`
}

// OwnerResponse get_owner
type OwnerResponse struct {
	Owner string `json:"owner"`
}

// MetadataResponse get_metadata，未设置时为空字符串
type MetadataResponse struct {
	MetadataURL string `json:"metadata_url"`
}

// ScheduleEntry 计划中的一次释放，JSON 中为 [<秒>, "<amount>"]
type ScheduleEntry struct {
	Time   uint64
	Amount types.Uint128
}

// MarshalJSON 二元组
func (e ScheduleEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{e.Time, e.Amount})
}

// UnmarshalJSON 二元组
func (e *ScheduleEntry) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 2 {
		return fmt.Errorf("schedule entry must have 2 elements, got %d", len(parts))
	}
	if err := json.Unmarshal(parts[0], &e.Time); err != nil {
		return err
	}
	return json.Unmarshal(parts[1], &e.Amount)
}

// VestingInfoResponse get_vesting_info
type VestingInfoResponse struct {
	Amount          types.Uint128   `json:"amount"`
	StartTime       uint64          `json:"start_time"`
	ReleaseSchedule []ScheduleEntry `json:"release_schedule"`
}

// PoolReleaseInfoResponse get_pool_release_info
type PoolReleaseInfoResponse struct {
	Amount          types.Uint128   `json:"amount"`
	ReleaseSchedule []ScheduleEntry `json:"release_schedule"`
}

// BalanceEntry all_balances 中的一项
type BalanceEntry struct {
	Address string        `json:"address"`
	Balance types.Uint128 `json:"balance"`
}

// AllBalancesResponse all_balances
type AllBalancesResponse struct {
	Balances []BalanceEntry `json:"balances"`
}

// ContractVersionResponse get_contract_version
type ContractVersionResponse struct {
	Contract string `json:"contract"`
	Version  string `json:"version"`
}
