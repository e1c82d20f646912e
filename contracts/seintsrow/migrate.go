package seintsrow

import (
	"errors"
	"fmt"

	"github.com/blang/semver/v4"

	"github.com/weisyn/seints-row/contracts/seintsrow/msg"
	"github.com/weisyn/seints-row/contracts/seintsrow/state"
	"github.com/weisyn/seints-row/pkg/contractversion"
	"github.com/weisyn/seints-row/pkg/types"
)

// migration 针对某个已存储版本区间的布局转换
type migration struct {
	name  string
	from  semver.Range
	apply func(store types.Storage) error
}

// migrations 按顺序检查，命中的全部执行
var migrations = []migration{
	{
		name:  "split-owner-from-token-info",
		from:  semver.MustParseRange("<0.1.0"),
		apply: migrateLegacyTokenInfo,
	},
}

// Migrate 检查版本兼容性并转换存储布局
//
// 已存储版本等于当前版本时不做任何写入
func Migrate(deps types.DepsMut, env types.Env, _ msg.MigrateMsg) (*types.Response, error) {
	stored, err := contractversion.Get(deps.Storage)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, fmt.Errorf("%w: no contract version recorded", types.ErrUnsupportedMigration)
		}
		return nil, err
	}
	target := contractversion.VersionInfo{Contract: ContractName, Version: ContractVersion}
	if err := contractversion.AssertCompatible(stored, target); err != nil {
		return nil, err
	}

	resp := types.NewResponse().
		AddAttribute("method", "migrate").
		AddAttribute("from_version", stored.Version).
		AddAttribute("to_version", target.Version)

	from, err := stored.Semver()
	if err != nil {
		return nil, err
	}
	to, err := target.Semver()
	if err != nil {
		return nil, err
	}
	if from.Equals(to) {
		return resp, nil
	}

	for _, m := range migrations {
		if !m.from(from) {
			continue
		}
		if err := m.apply(deps.Storage); err != nil {
			return nil, fmt.Errorf("migration %s: %w", m.name, err)
		}
		resp.AddAttribute("applied", m.name)
	}
	if err := contractversion.Set(deps.Storage, target.Contract, target.Version); err != nil {
		return nil, err
	}
	return resp, nil
}

// migrateLegacyTokenInfo 把内嵌在 token_info 中的所有者拆到独立的 owner 键
func migrateLegacyTokenInfo(store types.Storage) error {
	legacy, err := state.LegacyToken.Load(store)
	if err != nil {
		return err
	}
	// 已是新布局
	if legacy.Owner == "" {
		return nil
	}
	token, owner := state.SplitLegacy(legacy)
	if err := state.Token.Save(store, token); err != nil {
		return err
	}
	return state.Owner.Save(store, owner)
}
