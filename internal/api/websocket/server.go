package websocket

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/weisyn/seints-row/pkg/types"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// HandleWebSocket GET /ws/events
func (h *Hub) HandleWebSocket(ctx *gin.Context) {
	c, replay, err := parseFilter(ctx)
	if err != nil {
		_ = ctx.Error(err)
		return
	}
	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		// Upgrade 已写出错误响应
		h.logger.Warnf("WebSocket 升级失败: %v", err)
		return
	}
	c.send = make(chan types.ContractEvent, h.buffer)
	history := h.register(c, replay)
	remote := conn.RemoteAddr().String()
	h.logger.Debugf("WebSocket 连接建立: %s", remote)

	go h.writeLoop(conn, c.send, history)
	h.readLoop(conn)
	dropped := h.unregister(c)
	h.logger.Debugf("WebSocket 连接关闭: %s，丢弃事件 %d", remote, dropped)
}

// readLoop 客户端不发送业务消息，只处理 pong 与关闭
func (h *Hub) readLoop(conn *websocket.Conn) {
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debugf("WebSocket 连接异常关闭: %v", err)
			}
			return
		}
	}
}

// writeLoop 先写回放事件，再写实时事件；send 关闭后发送关闭帧
func (h *Hub) writeLoop(conn *websocket.Conn, send <-chan types.ContractEvent, history []types.ContractEvent) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	replayed := make(map[string]bool, len(history))
	for _, ev := range history {
		replayed[ev.ID] = true
		if err := writeEvent(conn, ev); err != nil {
			return
		}
	}
	for {
		select {
		case ev, ok := <-send:
			if !ok {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if replayed[ev.ID] {
				continue
			}
			if err := writeEvent(conn, ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeEvent(conn *websocket.Conn, ev types.ContractEvent) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(ev)
}
