package api

import "time"

// API服务默认配置值
const (
	// defaultHTTPEnabled 执行 serve 时默认启动 HTTP 网关
	defaultHTTPEnabled = true

	// defaultHTTPHost 默认只监听本机
	defaultHTTPHost = "127.0.0.1"

	// defaultHTTPPort 默认端口
	defaultHTTPPort = 8686

	// defaultHTTPReadTimeout 读取超时
	defaultHTTPReadTimeout = 15 * time.Second

	// defaultHTTPWriteTimeout 写入超时
	defaultHTTPWriteTimeout = 15 * time.Second

	// defaultMaxRequestSize 最大请求体 1MB
	defaultMaxRequestSize = 1 << 20

	// defaultWebSocketEnabled 默认开放事件推送
	defaultWebSocketEnabled = true

	// defaultWebSocketBuffer 每个连接待发送事件的缓冲数量，写满后丢弃新事件
	defaultWebSocketBuffer = 64
)
