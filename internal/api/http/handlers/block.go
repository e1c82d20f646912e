package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/seints-row/pkg/types"
)

// maxHistoryLimit 单次最多返回的历史事件数
const maxHistoryLimit = 1000

// ChainHandlers 区块与事件历史
type ChainHandlers struct {
	host ContractHost
	bus  event.EventBus
}

// NewChainHandlers 创建区块处理器
func NewChainHandlers(h ContractHost, bus event.EventBus) *ChainHandlers {
	return &ChainHandlers{host: h, bus: bus}
}

// RegisterRoutes 注册路由
func (h *ChainHandlers) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/block", h.GetBlock)
	r.POST("/block/next", h.NextBlock)
	r.GET("/events", h.History)
}

// NextBlockRequest 推进区块，blocks 缺省为 1
type NextBlockRequest struct {
	Blocks uint64 `json:"blocks"`
}

// GetBlock GET /block
func (h *ChainHandlers) GetBlock(c *gin.Context) {
	block, err := h.host.Block(c.Request.Context())
	if fail(c, err) {
		return
	}
	c.JSON(http.StatusOK, block)
}

// NextBlock POST /block/next，允许空请求体
func (h *ChainHandlers) NextBlock(c *gin.Context) {
	var req NextBlockRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	block, err := h.host.NextBlock(c.Request.Context(), req.Blocks)
	if fail(c, err) {
		return
	}
	c.JSON(http.StatusOK, block)
}

// History GET /events?limit=N
func (h *ChainHandlers) History(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			_ = c.Error(types.InvalidInputf("limit 无效: %q", raw))
			return
		}
		limit = n
	}
	if limit == 0 || limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	c.JSON(http.StatusOK, h.bus.History(limit))
}
