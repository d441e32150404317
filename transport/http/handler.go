package http

import (
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/kochabonline/mcstatus/transport/http/metrics/prometheus"
	"github.com/kochabonline/mcstatus/transport/http/middleware"
)

// GinRegister 注册到Gin路由器接口
type GinRegister interface {
	Register(r gin.IRouter)
}

// GinHandler 收集路由注册器，统一挂载到同一个前缀下
type GinHandler struct {
	prefix string
	pool   []GinRegister
	mu     sync.RWMutex
}

// NewHandler 创建一个挂载在prefix下的GinHandler
func NewHandler(prefix string) *GinHandler {
	return &GinHandler{
		prefix: prefix,
		pool:   make([]GinRegister, 0),
	}
}

// Register 将所有处理器注册到 prefix 分组
func (h *GinHandler) Register(r gin.IRouter) {
	if r == nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	group := r.Group(h.prefix)
	for _, handler := range h.pool {
		handler.Register(group)
	}
}

// Add 添加处理器，忽略nil
func (h *GinHandler) Add(handlers ...GinRegister) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, handler := range handlers {
		if handler != nil {
			h.pool = append(h.pool, handler)
		}
	}
}

// Count 返回当前处理器的数量
func (h *GinHandler) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.pool)
}

// NewEngine 创建带有恢复、请求ID、访问日志和指标中间件的gin引擎
func NewEngine(mode string, prom *prometheus.Prometheus, skipLogPaths ...string) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}

	r := gin.New()
	r.Use(
		middleware.GinRecovery(),
		middleware.GinRequestId(),
		middleware.GinLoggerWithConfig(middleware.LoggerConfig{SkipPaths: skipLogPaths}),
	)
	if prom != nil {
		r.Use(middleware.GinMetrics(prom))
	}

	return r
}
