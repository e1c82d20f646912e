// Package version provides version information for the application.
package version

import (
	"fmt"
	"runtime"
)

// 构建时注入的变量，通过ldflags设置
var (
	Version   = "v0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// BuildInfo 构建信息
type BuildInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	GitCommit string `json:"git_commit"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`

	// 内置合约版本
	Contract        string `json:"contract"`
	ContractVersion string `json:"contract_version"`
}

// GetBuildInfo 获取完整构建信息
func GetBuildInfo(contract, contractVersion string) *BuildInfo {
	return &BuildInfo{
		Version:         Version,
		BuildTime:       BuildTime,
		GitCommit:       GitCommit,
		GoVersion:       runtime.Version(),
		Platform:        fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		Contract:        contract,
		ContractVersion: contractVersion,
	}
}
