// Package handlers 网关路由处理器
//
// 处理器只负责请求解码与响应编码，失败时通过 c.Error 交给错误中间件
package handlers

import (
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/weisyn/seints-row/internal/core/host"
	"github.com/weisyn/seints-row/pkg/types"
)

// ContractHost 网关使用的宿主能力
type ContractHost interface {
	AccountAddress(name string) types.Addr
	Codes(ctx context.Context) ([]host.CodeRecord, error)
	Instantiate(ctx context.Context, req host.InstantiateRequest) (*host.InstantiateResult, error)
	Execute(ctx context.Context, contract, sender string, msg []byte, funds ...types.Coin) (*types.Response, error)
	Migrate(ctx context.Context, contract, sender string, newCodeID uint64, msg []byte) (*types.Response, error)
	UpdateAdmin(ctx context.Context, contract, sender, newAdmin string) error
	Query(ctx context.Context, contract string, msg []byte) ([]byte, error)
	ContractInfo(ctx context.Context, contract string) (*host.ContractRecord, error)
	Contracts(ctx context.Context) ([]host.ContractRecord, error)
	DumpState(ctx context.Context, contract string) ([]types.Record, error)
	Block(ctx context.Context) (types.BlockInfo, error)
	NextBlock(ctx context.Context, n uint64) (types.BlockInfo, error)
}

var _ ContractHost = (*host.Host)(nil)

// bindJSON 解码请求体，失败归为 InvalidInput
func bindJSON(c *gin.Context, out interface{}) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		_ = c.Error(types.InvalidInputf("请求体无效: %v", err))
		return false
	}
	return true
}

// requireMsg 合约消息不能为空
func requireMsg(c *gin.Context, msg json.RawMessage) bool {
	if len(msg) == 0 || string(msg) == "null" {
		_ = c.Error(types.InvalidInputf("缺少 msg"))
		return false
	}
	return true
}

// fail err 非空时登记错误并返回 true
func fail(c *gin.Context, err error) bool {
	if err != nil {
		_ = c.Error(err)
		return true
	}
	return false
}
