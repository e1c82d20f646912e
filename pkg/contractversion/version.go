// Package contractversion 记录合约身份与版本，并在迁移时检查兼容性
//
// 版本信息存放在保留键 contract_info 下，格式与 cw2 一致：
//
//	{"contract": "seints_row", "version": "0.1.0"}
package contractversion

import (
	"fmt"

	"github.com/blang/semver/v4"

	"github.com/weisyn/seints-row/pkg/storageplus"
	"github.com/weisyn/seints-row/pkg/types"
)

// InfoKey 保留存储键
const InfoKey = "contract_info"

// VersionInfo 合约身份与版本
type VersionInfo struct {
	Contract string `json:"contract"`
	Version  string `json:"version"`
}

var info = storageplus.NewItem[VersionInfo](InfoKey)

// Semver 解析版本号
func (v VersionInfo) Semver() (semver.Version, error) {
	parsed, err := semver.Parse(v.Version)
	if err != nil {
		return semver.Version{}, fmt.Errorf("%w: version %q of %s is not semver: %v", types.ErrUnsupportedMigration, v.Version, v.Contract, err)
	}
	return parsed, nil
}

// Set 记录当前合约的身份与版本
func Set(store types.Storage, name, version string) error {
	if name == "" {
		return types.InvalidInputf("empty contract name")
	}
	if _, err := semver.Parse(version); err != nil {
		return types.InvalidInputf("version %q is not semver: %v", version, err)
	}
	return info.Save(store, VersionInfo{Contract: name, Version: version})
}

// Get 读取版本信息，缺失时返回 NotFound
func Get(store types.ReadonlyStorage) (VersionInfo, error) {
	return info.Load(store)
}

// May 可选读取
func May(store types.ReadonlyStorage) (VersionInfo, bool, error) {
	return info.May(store)
}

// Query 通过 raw 查询读取另一个合约的版本信息
func Query(querier types.QuerierWrapper, contract string) (VersionInfo, error) {
	var v VersionInfo
	raw, err := querier.QueryWasmRaw(contract, info.Key())
	if err != nil {
		return v, err
	}
	if raw == nil {
		return v, types.NotFoundf("%s of %s", InfoKey, contract)
	}
	if err := types.StrictUnmarshal(raw, &v); err != nil {
		return v, types.SerializationErr("VersionInfo", err)
	}
	return v, nil
}

// AssertCompatible 检查从 stored 迁移到 target 是否被允许
//
// 合约身份必须一致；目标版本不得低于已存储版本，相等视为允许（幂等迁移）
func AssertCompatible(stored, target VersionInfo) error {
	if stored.Contract != target.Contract {
		return fmt.Errorf("%w: cannot migrate from %s to %s", types.ErrUnsupportedMigration, stored.Contract, target.Contract)
	}
	from, err := stored.Semver()
	if err != nil {
		return err
	}
	to, err := target.Semver()
	if err != nil {
		return err
	}
	if to.LT(from) {
		return fmt.Errorf("%w: cannot downgrade %s from %s to %s", types.ErrUnsupportedMigration, stored.Contract, from, to)
	}
	return nil
}
