// Package utils provides path manipulation utility functions.
package utils

import (
	"os"
	"path/filepath"
)

// HomeEnv 覆盖数据根目录的环境变量
const HomeEnv = "SEINTSROW_HOME"

// GetBaseDir 相对路径的解析基准
// 优先使用 SEINTSROW_HOME，否则为当前工作目录
func GetBaseDir() string {
	if home := os.Getenv(HomeEnv); home != "" {
		return home
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// ResolveDataPath 解析数据目录路径为绝对路径
// 如果path已经是绝对路径，直接返回
func ResolveDataPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(GetBaseDir(), path)
}

// EnsureDir 确保目录存在，如果不存在则创建
func EnsureDir(path string) error {
	//nolint:gosec // G301: 数据目录需要用户可读权限
	return os.MkdirAll(path, 0755)
}
