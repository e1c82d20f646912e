package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/weisyn/seints-row/internal/core/host"
	"github.com/weisyn/seints-row/pkg/types"
)

// ContractHandlers 代码与合约实例
type ContractHandlers struct {
	host ContractHost
}

// NewContractHandlers 创建合约处理器
func NewContractHandlers(h ContractHost) *ContractHandlers {
	return &ContractHandlers{host: h}
}

// RegisterRoutes 注册路由
func (h *ContractHandlers) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/codes", h.ListCodes)
	r.GET("/accounts/:name", h.AccountAddress)

	contracts := r.Group("/contracts")
	contracts.GET("", h.ListContracts)
	contracts.POST("", h.Instantiate)
	contracts.GET("/:address", h.GetContract)
	contracts.GET("/:address/state", h.DumpState)
	contracts.POST("/:address/execute", h.Execute)
	contracts.POST("/:address/query", h.Query)
	contracts.POST("/:address/migrate", h.Migrate)
	contracts.POST("/:address/admin", h.UpdateAdmin)
}

// InstantiateRequest 创建实例请求
type InstantiateRequest struct {
	CodeID uint64          `json:"code_id" binding:"required"`
	Sender string          `json:"sender" binding:"required"`
	Admin  string          `json:"admin"`
	Label  string          `json:"label"`
	Msg    json.RawMessage `json:"msg"`
	Funds  []types.Coin    `json:"funds"`
}

// ExecuteRequest 执行请求
type ExecuteRequest struct {
	Sender string          `json:"sender" binding:"required"`
	Msg    json.RawMessage `json:"msg"`
	Funds  []types.Coin    `json:"funds"`
}

// QueryRequest 查询请求
type QueryRequest struct {
	Msg json.RawMessage `json:"msg"`
}

// MigrateRequest 迁移请求，msg 缺省为 {}
type MigrateRequest struct {
	Sender string          `json:"sender" binding:"required"`
	CodeID uint64          `json:"code_id" binding:"required"`
	Msg    json.RawMessage `json:"msg"`
}

// UpdateAdminRequest 更换管理员，admin 为空表示清除
type UpdateAdminRequest struct {
	Sender string `json:"sender" binding:"required"`
	Admin  string `json:"admin"`
}

// ListCodes GET /codes
func (h *ContractHandlers) ListCodes(c *gin.Context) {
	codes, err := h.host.Codes(c.Request.Context())
	if fail(c, err) {
		return
	}
	c.JSON(http.StatusOK, codes)
}

// AccountAddress GET /accounts/:name
func (h *ContractHandlers) AccountAddress(c *gin.Context) {
	name := c.Param("name")
	c.JSON(http.StatusOK, gin.H{"name": name, "address": h.host.AccountAddress(name)})
}

// ListContracts GET /contracts
func (h *ContractHandlers) ListContracts(c *gin.Context) {
	contracts, err := h.host.Contracts(c.Request.Context())
	if fail(c, err) {
		return
	}
	if contracts == nil {
		contracts = []host.ContractRecord{}
	}
	c.JSON(http.StatusOK, contracts)
}

// Instantiate POST /contracts
func (h *ContractHandlers) Instantiate(c *gin.Context) {
	var req InstantiateRequest
	if !bindJSON(c, &req) || !requireMsg(c, req.Msg) {
		return
	}
	res, err := h.host.Instantiate(c.Request.Context(), host.InstantiateRequest{
		CodeID: req.CodeID,
		Sender: req.Sender,
		Admin:  req.Admin,
		Label:  req.Label,
		Msg:    req.Msg,
		Funds:  req.Funds,
	})
	if fail(c, err) {
		return
	}
	c.JSON(http.StatusCreated, res)
}

// GetContract GET /contracts/:address
func (h *ContractHandlers) GetContract(c *gin.Context) {
	rec, err := h.host.ContractInfo(c.Request.Context(), c.Param("address"))
	if fail(c, err) {
		return
	}
	c.JSON(http.StatusOK, rec)
}

// DumpState GET /contracts/:address/state，键为十六进制
func (h *ContractHandlers) DumpState(c *gin.Context) {
	records, err := h.host.DumpState(c.Request.Context(), c.Param("address"))
	if fail(c, err) {
		return
	}
	c.JSON(http.StatusOK, host.StateEntries(records))
}

// Execute POST /contracts/:address/execute
func (h *ContractHandlers) Execute(c *gin.Context) {
	var req ExecuteRequest
	if !bindJSON(c, &req) || !requireMsg(c, req.Msg) {
		return
	}
	res, err := h.host.Execute(c.Request.Context(), c.Param("address"), req.Sender, req.Msg, req.Funds...)
	if fail(c, err) {
		return
	}
	c.JSON(http.StatusOK, res)
}

// Query POST /contracts/:address/query，原样返回合约的 JSON 结果
func (h *ContractHandlers) Query(c *gin.Context) {
	var req QueryRequest
	if !bindJSON(c, &req) || !requireMsg(c, req.Msg) {
		return
	}
	out, err := h.host.Query(c.Request.Context(), c.Param("address"), req.Msg)
	if fail(c, err) {
		return
	}
	c.Data(http.StatusOK, "application/json", out)
}

// Migrate POST /contracts/:address/migrate
func (h *ContractHandlers) Migrate(c *gin.Context) {
	var req MigrateRequest
	if !bindJSON(c, &req) {
		return
	}
	msg := []byte(req.Msg)
	if len(msg) == 0 {
		msg = []byte("{}")
	}
	res, err := h.host.Migrate(c.Request.Context(), c.Param("address"), req.Sender, req.CodeID, msg)
	if fail(c, err) {
		return
	}
	c.JSON(http.StatusOK, res)
}

// UpdateAdmin POST /contracts/:address/admin
func (h *ContractHandlers) UpdateAdmin(c *gin.Context) {
	var req UpdateAdminRequest
	if !bindJSON(c, &req) {
		return
	}
	address := c.Param("address")
	if fail(c, h.host.UpdateAdmin(c.Request.Context(), address, req.Sender, req.Admin)) {
		return
	}
	rec, err := h.host.ContractInfo(c.Request.Context(), address)
	if fail(c, err) {
		return
	}
	c.JSON(http.StatusOK, rec)
}
