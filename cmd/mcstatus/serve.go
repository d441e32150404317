package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kochabonline/mcstatus/api"
	"github.com/kochabonline/mcstatus/app"
	"github.com/kochabonline/mcstatus/config"
	"github.com/kochabonline/mcstatus/log"
	"github.com/kochabonline/mcstatus/status"
	"github.com/kochabonline/mcstatus/store/redis"
	transhttp "github.com/kochabonline/mcstatus/transport/http"
	"github.com/kochabonline/mcstatus/transport/http/metrics/prometheus"
	"github.com/kochabonline/mcstatus/transport/http/middleware"
)

// newService builds the cached, coalescing lookup service. The returned
// function releases the cache backend.
func newService(ctx context.Context, cfg *config.App, metrics *status.Metrics) (*status.Service, func(), error) {
	client := status.NewClient(cfg.Lookup.Timeout, cfg.Lookup.UserAgent, status.WithBaseURL(cfg.Lookup.BaseURL))
	opts := []status.ServiceOption{status.WithMetrics(metrics), status.WithLogger(log.L)}
	closeFn := func() {}

	switch cfg.Cache.Driver {
	case config.CacheDriverRedis:
		rdb, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			if rdb != nil {
				_ = rdb.Close()
			}
			return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr(), err)
		}
		opts = append(opts, status.WithCache(status.NewRedisCache(rdb.Client, cfg.Cache.Prefix), cfg.Cache.TTL))
		closeFn = func() {
			if err := rdb.Close(); err != nil {
				log.Warn().Err(err).Msg("close redis")
			}
		}
	case config.CacheDriverMemory:
		opts = append(opts, status.WithCache(status.NewMemoryCache(), cfg.Cache.TTL))
	}

	return status.NewService(client, opts...), closeFn, nil
}

// server is the wired HTTP side of mcstatus.
type server struct {
	engine   *gin.Engine
	http     *transhttp.Server
	sessions *api.SessionHandler
	closeFn  func()
}

func newServer(ctx context.Context, cfg *config.App) (*server, error) {
	middleware.SetLogger(log.L)

	var prom *prometheus.Prometheus
	if cfg.Server.Metrics.Enabled {
		prom = prometheus.NewPrometheus(prometheus.Config{
			Path:                      cfg.Server.Metrics.Path,
			EnabledGoCollector:        cfg.Server.Metrics.EnabledGoCollector,
			EnabledBuildInfoCollector: cfg.Server.Metrics.EnabledBuildInfoCollector,
		})
	}

	var metrics *status.Metrics
	if prom != nil {
		metrics = status.NewMetrics()
		if err := metrics.Register(prom.Registry); err != nil {
			return nil, err
		}
	}

	svc, closeFn, err := newService(ctx, cfg, metrics)
	if err != nil {
		return nil, err
	}

	sessionOpts := []api.SessionOption{
		api.WithLookupTimeout(cfg.Lookup.Timeout),
		api.WithMaxSessions(cfg.Session.Max),
		api.WithIdleTTL(cfg.Session.IdleTTL),
	}
	if prom != nil {
		gauge := prom.RegisterGauge("mcstatus_sessions_active", "Open input sessions.", nil).WithLabelValues()
		sessionOpts = append(sessionOpts, api.WithActiveGauge(gauge))
	}
	sessions := api.NewSessionHandler(svc, sessionOpts...)

	engine := transhttp.NewEngine(cfg.Server.Mode, prom, cfg.Server.Health.Path, cfg.Server.Metrics.Path)
	handler := transhttp.NewHandler("/api/v1")
	handler.Add(api.NewServerHandler(svc), sessions)
	handler.Register(engine)

	httpServer := transhttp.NewServer(cfg.Server.Addr, engine,
		transhttp.WithLogger(log.L),
		transhttp.WithPrometheus(prom),
		transhttp.WithReadHeaderTimeout(cfg.Server.ReadHeaderTimeout),
		transhttp.WithMetricsOptions(cfg.Server.Metrics),
		transhttp.WithHealthOptions(cfg.Server.Health),
	)

	return &server{
		engine:   engine,
		http:     httpServer,
		sessions: sessions,
		closeFn:  closeFn,
	}, nil
}

func serve(ctx context.Context, cfg *config.App) error {
	s, err := newServer(ctx, cfg)
	if err != nil {
		return err
	}

	application := app.New(
		app.WithContext(ctx),
		app.WithServer(s.http),
		app.WithCleanup("sessions", s.sessions.Close, 0),
		app.WithCleanup("cache", func(context.Context) error {
			s.closeFn()
			return nil
		}, 0),
	)

	return application.Start()
}

func watchLogLevel(c *config.Config) {
	c.OnChange = reloadLogLevel
	if err := c.WatchConfig(); err != nil {
		log.Warn().Err(err).Msg("config watch disabled")
	}
}

// reloadLogLevel applies the log level of a reloaded config. Other sections
// need a restart.
func reloadLogLevel(next any) {
	cfg, ok := next.(*config.App)
	if !ok {
		return
	}
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Warn().Err(err).Msg("ignore invalid log level")
		return
	}
	log.SetGlobalLevel(level)
	log.Info().Str("level", level.String()).Msg("log level reloaded")
}
