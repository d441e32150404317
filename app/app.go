package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kochabonline/mcstatus/log"
	"github.com/kochabonline/mcstatus/transport"
)

// 默认配置值
const (
	DefaultShutdownTimeout = 30 * time.Second
	DefaultCleanupTimeout  = 10 * time.Second
)

// 默认关闭信号
var DefaultSignals = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT}

var (
	ErrAlreadyStarted = errors.New("application already started")
	ErrCleanupPanic   = errors.New("cleanup function panicked")
)

// Option 定义 Application 的配置选项
type Option func(*Application)

// Application 管理服务器和清理函数的生命周期
type Application struct {
	ctx             context.Context
	cancel          context.CancelFunc
	shutdownTimeout time.Duration
	cleanupTimeout  time.Duration
	signals         []os.Signal
	servers         []transport.Server
	cleanupFns      []CleanupFunc
	mu              sync.RWMutex
	started         bool
}

// CleanupFunc 具有可选超时的清理函数
type CleanupFunc struct {
	Name    string
	Fn      func(context.Context) error
	Timeout time.Duration
}

// New 使用给定选项创建新的应用实例
func New(options ...Option) *Application {
	app := &Application{
		shutdownTimeout: DefaultShutdownTimeout,
		cleanupTimeout:  DefaultCleanupTimeout,
		signals:         append([]os.Signal(nil), DefaultSignals...),
	}
	app.ctx, app.cancel = context.WithCancel(context.Background())

	for _, opt := range options {
		opt(app)
	}

	return app
}

// WithContext 设置应用的根上下文
func WithContext(ctx context.Context) Option {
	return func(app *Application) {
		if ctx != nil {
			app.cancel()
			app.ctx, app.cancel = context.WithCancel(ctx)
		}
	}
}

// WithShutdownTimeout 设置服务器关闭的超时时间
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(app *Application) {
		if timeout > 0 {
			app.shutdownTimeout = timeout
		}
	}
}

// WithCleanupTimeout 设置清理函数的默认超时时间
func WithCleanupTimeout(timeout time.Duration) Option {
	return func(app *Application) {
		if timeout > 0 {
			app.cleanupTimeout = timeout
		}
	}
}

// WithSignals 设置用于优雅关闭的信号
func WithSignals(signals ...os.Signal) Option {
	return func(app *Application) {
		if len(signals) > 0 {
			app.signals = append([]os.Signal(nil), signals...)
		}
	}
}

// WithServer 向应用添加服务器
func WithServer(servers ...transport.Server) Option {
	return func(app *Application) {
		for _, server := range servers {
			if server != nil {
				app.servers = append(app.servers, server)
			}
		}
	}
}

// WithCleanup 添加在关闭期间执行的清理函数
func WithCleanup(name string, fn func(context.Context) error, timeout time.Duration) Option {
	return func(app *Application) {
		if fn == nil {
			log.Warn().Str("name", name).Msg("nil cleanup function ignored")
			return
		}
		app.cleanupFns = append(app.cleanupFns, app.newCleanup(name, fn, timeout))
	}
}

func (app *Application) newCleanup(name string, fn func(context.Context) error, timeout time.Duration) CleanupFunc {
	if timeout <= 0 {
		timeout = app.cleanupTimeout
	}
	return CleanupFunc{Name: name, Fn: fn, Timeout: timeout}
}

// AddServer 在启动前添加服务器
func (app *Application) AddServer(server transport.Server) error {
	if server == nil {
		return errors.New("server cannot be nil")
	}

	app.mu.Lock()
	defer app.mu.Unlock()

	if app.started {
		return ErrAlreadyStarted
	}
	app.servers = append(app.servers, server)
	return nil
}

// AddCleanup 在运行时添加清理函数
func (app *Application) AddCleanup(name string, fn func(context.Context) error, timeout time.Duration) error {
	if fn == nil {
		return errors.New("cleanup function cannot be nil")
	}

	app.mu.Lock()
	defer app.mu.Unlock()

	app.cleanupFns = append(app.cleanupFns, app.newCleanup(name, fn, timeout))
	return nil
}

// Start 启动所有服务器并阻塞直到收到信号、调用 Stop 或某个服务器失败。
// 返回前总会执行清理函数。
func (app *Application) Start() error {
	app.mu.Lock()
	if app.started {
		app.mu.Unlock()
		return ErrAlreadyStarted
	}
	app.started = true
	servers := append([]transport.Server(nil), app.servers...)
	signals := append([]os.Signal(nil), app.signals...)
	app.mu.Unlock()

	defer app.executeCleanup()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, signals...)
	defer signal.Stop(sigCh)

	eg, egCtx := errgroup.WithContext(app.ctx)

	for _, server := range servers {
		eg.Go(func() error {
			if err := server.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})

		eg.Go(func() error {
			<-egCtx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), app.shutdownTimeout)
			defer cancel()

			return server.Shutdown(shutdownCtx)
		})
	}

	eg.Go(func() error {
		select {
		case sig := <-sigCh:
			log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
			app.cancel()
		case <-egCtx.Done():
		}
		return nil
	})

	log.Info().Int("servers", len(servers)).Msg("application started")

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Stop 优雅地停止应用
func (app *Application) Stop() {
	app.cancel()
}

// executeCleanup 并发执行所有清理函数
func (app *Application) executeCleanup() {
	app.mu.RLock()
	cleanupFns := append([]CleanupFunc(nil), app.cleanupFns...)
	app.mu.RUnlock()

	eg := &errgroup.Group{}
	for _, cleanup := range cleanupFns {
		eg.Go(func() error {
			return app.executeCleanupFunc(cleanup)
		})
	}

	if err := eg.Wait(); err != nil {
		log.Error().Err(err).Msg("some cleanup functions failed")
	}
}

// executeCleanupFunc 执行单个带超时的清理函数
func (app *Application) executeCleanupFunc(cleanup CleanupFunc) error {
	ctx, cancel := context.WithTimeout(context.Background(), cleanup.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("cleanup", cleanup.Name).Msg("cleanup function panicked")
				done <- ErrCleanupPanic
			}
		}()
		done <- cleanup.Fn(ctx)
	}()

	select {
	case err := <-done:
		if err != nil {
			log.Error().Err(err).Str("cleanup", cleanup.Name).Msg("cleanup function failed")
		}
		return err
	case <-ctx.Done():
		log.Warn().Str("cleanup", cleanup.Name).Msg("cleanup function timed out")
		return ctx.Err()
	}
}

// Info 返回应用状态信息
func (app *Application) Info() ApplicationInfo {
	app.mu.RLock()
	defer app.mu.RUnlock()

	return ApplicationInfo{
		Started:      app.started,
		ServerCount:  len(app.servers),
		CleanupCount: len(app.cleanupFns),
	}
}

// ApplicationInfo 提供应用状态信息
type ApplicationInfo struct {
	Started      bool `json:"started"`
	ServerCount  int  `json:"server_count"`
	CleanupCount int  `json:"cleanup_count"`
}
