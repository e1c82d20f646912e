// Package api 本地网关
package api

import (
	"go.uber.org/fx"

	"github.com/weisyn/seints-row/internal/api/http"
)

// Module 返回API模块
func Module() fx.Option {
	return fx.Module("api",
		http.Module(),
		// 服务器没有被其他模块依赖，显式调用以触发构造
		fx.Invoke(func(*http.Server) {}),
	)
}
