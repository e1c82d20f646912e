// Package websocket 把事件总线上的合约事件推送给 WebSocket 客户端
package websocket

import (
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/seints-row/pkg/types"
)

// Hub 事件推送中心
//
// 总线上只有一个订阅，由 Hub 向各连接扇出；
// 连接的发送缓冲写满时丢弃新事件，不阻塞发布方
type Hub struct {
	bus    event.EventBus
	logger log.Logger
	buffer int

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	handler event.Handler
}

// client 一个连接的订阅条件与发送队列
type client struct {
	send       chan types.ContractEvent
	eventTypes map[types.EventType]bool
	contract   types.Addr
	dropped    int
}

func (c *client) matches(ev types.ContractEvent) bool {
	if len(c.eventTypes) > 0 && !c.eventTypes[ev.Type] {
		return false
	}
	return c.contract == "" || c.contract == ev.Contract
}

// NewHub 创建推送中心，buffer 为每个连接的发送缓冲
func NewHub(bus event.EventBus, logger log.Logger, buffer int) *Hub {
	if buffer <= 0 {
		buffer = 1
	}
	return &Hub{
		bus:     bus,
		logger:  logger,
		buffer:  buffer,
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Start 订阅总线
//
// 总线在持锁状态下同步调用处理函数，订阅与取消订阅不能持有 h.mu
func (h *Hub) Start() error {
	h.mu.Lock()
	if h.handler != nil {
		h.mu.Unlock()
		return nil
	}
	h.handler = h.broadcast
	handler := h.handler
	h.mu.Unlock()
	return h.bus.SubscribeAll(handler)
}

// Stop 取消订阅并断开所有连接
func (h *Hub) Stop() error {
	h.mu.Lock()
	handler := h.handler
	h.handler = nil
	h.mu.Unlock()
	if handler == nil {
		return nil
	}
	err := h.bus.UnsubscribeAll(handler)

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	return err
}

// Clients 当前连接数
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) broadcast(ev types.ContractEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if !c.matches(ev) {
			continue
		}
		select {
		case c.send <- ev:
		default:
			c.dropped++
		}
	}
}

// register 登记连接并取出需要回放的历史事件
//
// 已记录但尚未广播的事件会同时出现在回放与队列中，写出时按 ID 去重
func (h *Hub) register(c *client, replay int) []types.ContractEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	var history []types.ContractEvent
	if replay > 0 {
		for _, ev := range h.bus.History(replay) {
			if c.matches(ev) {
				history = append(history, ev)
			}
		}
	}
	h.clients[c] = struct{}{}
	return history
}

// unregister 返回连接期间丢弃的事件数
func (h *Hub) unregister(c *client) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	return c.dropped
}

// parseFilter 解析 ?type=a,b&contract=addr&replay=n
func parseFilter(ctx *gin.Context) (*client, int, error) {
	c := &client{eventTypes: make(map[types.EventType]bool)}
	if raw := ctx.Query("type"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				c.eventTypes[types.EventType(t)] = true
			}
		}
	}
	c.contract = types.Addr(ctx.Query("contract"))
	replay := 0
	if raw := ctx.Query("replay"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, 0, types.InvalidInputf("replay 无效: %q", raw)
		}
		replay = n
	}
	return c, replay, nil
}
