// Package configs 内置的配置文件
package configs

import _ "embed"

//go:embed seintsrow.json
var defaultConfig []byte

//go:embed testing.json
var testingConfig []byte

// GetDefaultConfig 默认配置，配置文件缺失时使用
func GetDefaultConfig() []byte {
	return defaultConfig
}

// GetTestingConfig 内存模式的测试配置
func GetTestingConfig() []byte {
	return testingConfig
}
