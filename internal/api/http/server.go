// Package http 本地 HTTP 网关
//
// 把宿主的代码、实例、区块操作暴露为 /api/v1 下的 JSON 接口，
// 另提供 /health、/metrics 与 /ws/events
package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/weisyn/seints-row/internal/api/http/handlers"
	"github.com/weisyn/seints-row/internal/api/http/middleware"
	"github.com/weisyn/seints-row/internal/api/websocket"
	apiconfig "github.com/weisyn/seints-row/internal/config/api"
	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/log"
)

// Server HTTP服务器
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	listener   net.Listener
	config     *apiconfig.Config
	logger     log.Logger
	host       handlers.ContractHost
	hub        *websocket.Hub
}

// Deps 服务器依赖
type Deps struct {
	Config    *apiconfig.Config
	Host      handlers.ContractHost
	Bus       event.EventBus
	Registry  *prometheus.Registry
	Namespace string
	Logger    log.Logger
}

// NewServer 创建服务器并注册路由，不监听端口
func NewServer(deps Deps) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)

	apiMetrics, err := middleware.NewMetrics(deps.Namespace, deps.Registry)
	if err != nil {
		return nil, fmt.Errorf("注册网关指标失败: %w", err)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(deps.Logger),
		apiMetrics.Middleware(),
		middleware.ErrorHandler(),
		middleware.BodyLimit(deps.Config.GetMaxRequestSize()),
	)

	s := &Server{
		router: router,
		config: deps.Config,
		logger: deps.Logger,
		host:   deps.Host,
	}
	if deps.Config.IsWebSocketEnabled() {
		s.hub = websocket.NewHub(deps.Bus, deps.Logger, deps.Config.GetWebSocketBuffer())
	}
	s.setupRoutes(deps.Bus, deps.Registry)
	return s, nil
}

func (s *Server) setupRoutes(bus event.EventBus, registry *prometheus.Registry) {
	s.router.GET("/health", s.health)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	v1 := s.router.Group("/api/v1")
	handlers.NewContractHandlers(s.host).RegisterRoutes(v1)
	handlers.NewChainHandlers(s.host, bus).RegisterRoutes(v1)

	if s.hub != nil {
		s.router.GET("/ws/events", s.hub.HandleWebSocket)
	}
}

func (s *Server) health(c *gin.Context) {
	block, err := s.host.Block(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "chain_id": block.ChainID, "height": block.Height})
}

// Handler 路由处理器，测试中配合 httptest 使用
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub 事件推送中心，未启用时为 nil
func (s *Server) Hub() *websocket.Hub {
	return s.hub
}

// Start 监听端口并在后台提供服务
func (s *Server) Start() error {
	if s.hub != nil {
		if err := s.hub.Start(); err != nil {
			return fmt.Errorf("订阅事件总线失败: %w", err)
		}
	}
	addr := s.config.GetListenAddress()
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("监听 %s 失败: %w", addr, err)
	}
	s.listener = listener
	s.httpServer = &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.config.GetReadTimeout(),
		WriteTimeout: s.config.GetWriteTimeout(),
	}
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorf("HTTP服务器异常退出: %v", err)
		}
	}()
	s.logger.Infof("HTTP网关已启动: http://%s/api/v1/", listener.Addr())
	return nil
}

// Addr 实际监听地址，未启动时为空
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop 断开推送连接并优雅关闭
func (s *Server) Stop(ctx context.Context) error {
	if s.hub != nil {
		if err := s.hub.Stop(); err != nil {
			s.logger.Warnf("取消事件订阅失败: %v", err)
		}
	}
	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("关闭HTTP服务器失败: %w", err)
	}
	s.logger.Info("HTTP网关已关闭")
	return nil
}
