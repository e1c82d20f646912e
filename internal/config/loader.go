package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/weisyn/seints-row/pkg/interfaces/config"
	"github.com/weisyn/seints-row/pkg/types"
)

// DefaultConfigPath 默认配置文件路径
const DefaultConfigPath = "configs/seintsrow.json"

// appOptions 实现 config.AppOptions
type appOptions struct {
	appConfig *types.AppConfig
}

// GetAppConfig 获取应用配置
func (o *appOptions) GetAppConfig() *types.AppConfig {
	return o.appConfig
}

// NewAppOptions 包装已有的应用配置
func NewAppOptions(appConfig *types.AppConfig) config.AppOptions {
	return &appOptions{appConfig: appConfig}
}

// LoadAppConfig 读取 JSON 配置文件
//
// 文件不存在时返回空配置，全部使用默认值；
// 文件存在但无法解析时返回错误，不静默回退
func LoadAppConfig(path string) (*types.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &types.AppConfig{}, nil
		}
		return nil, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	}
	appConfig, err := ParseAppConfig(data)
	if err != nil {
		return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}
	return appConfig, nil
}

// ParseAppConfig 解析 JSON 配置内容
func ParseAppConfig(data []byte) (*types.AppConfig, error) {
	var appConfig types.AppConfig
	if err := json.Unmarshal(data, &appConfig); err != nil {
		return nil, err
	}
	return &appConfig, nil
}
