package state

import (
	"github.com/weisyn/seints-row/pkg/storageplus"
	"github.com/weisyn/seints-row/pkg/types"
)

// LegacyTokenInfo 0.1.0 之前的 token_info 布局：所有者内嵌在代币信息中，没有元数据
type LegacyTokenInfo struct {
	Name        string        `json:"name"`
	Symbol      string        `json:"symbol"`
	Decimals    uint8         `json:"decimals"`
	TotalSupply types.Uint128 `json:"total_supply"`
	Owner       types.Addr    `json:"owner"`
}

// LegacyToken 与 Token 共用 token_info 键，只在迁移中使用
var LegacyToken = storageplus.NewItem[LegacyTokenInfo]("token_info")

// SplitLegacy 把旧布局拆成 0.1.0 的代币信息与所有者
func SplitLegacy(old LegacyTokenInfo) (TokenInfo, types.Addr) {
	return TokenInfo{
		Name:        old.Name,
		Symbol:      old.Symbol,
		Decimals:    old.Decimals,
		TotalSupply: old.TotalSupply,
	}, old.Owner
}
