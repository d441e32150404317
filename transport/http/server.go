package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kochabonline/mcstatus/log"
	"github.com/kochabonline/mcstatus/transport"
	"github.com/kochabonline/mcstatus/transport/http/metrics/prometheus"
)

var _ transport.Server = (*Server)(nil)

const (
	defaultName = "http"
	defaultAddr = ":8080"
)

// Meta is the metadata of the server.
type Meta struct {
	Name string
}

type Server struct {
	Meta
	server  *http.Server
	log     *log.Logger
	prom    *prometheus.Prometheus
	options Options
}

type Option func(*Server)

func WithLogger(log *log.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

func WithName(name string) Option {
	return func(s *Server) {
		s.Name = name
	}
}

// WithPrometheus serves p on the metrics path instead of a fresh registry.
func WithPrometheus(p *prometheus.Prometheus) Option {
	return func(s *Server) {
		s.prom = p
	}
}

func WithReadHeaderTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.server.ReadHeaderTimeout = timeout
	}
}

func WithMetricsOptions(metrics MetricsOption) Option {
	return func(s *Server) {
		if err := metrics.init(); err != nil {
			s.log.Error().Err(err).Send()
			return
		}
		s.options.Metrics = metrics
	}
}

func WithHealthOptions(health HealthOption) Option {
	return func(s *Server) {
		if err := health.init(); err != nil {
			s.log.Error().Err(err).Send()
			return
		}
		s.options.Health = health
	}
}

func NewServer(addr string, handler http.Handler, opts ...Option) *Server {
	s := &Server{
		server: &http.Server{
			Addr:    addr,
			Handler: handler,
		},
		log: log.L,
	}

	for _, opt := range opts {
		opt(s)
	}

	// addon handlers
	if r, ok := s.server.Handler.(*gin.Engine); ok {
		handleMetrics(s, r)
		handleHealth(s, r)
	}

	return s
}

// Prometheus returns the registry served on the metrics path, nil when
// metrics are disabled.
func (s *Server) Prometheus() *prometheus.Prometheus {
	return s.prom
}

func (s *Server) Addr() string {
	return s.server.Addr
}

func (s *Server) Run() error {
	if s.server == nil {
		return http.ErrServerClosed
	}
	if s.Name == "" {
		s.Name = defaultName
	}

	if ok := transport.ValidateAddress(s.server.Addr); !ok {
		s.log.Warn().Msgf("invalid address %s, using default address: %s", s.server.Addr, defaultAddr)
		s.server.Addr = defaultAddr
	}
	s.log.Info().Msgf("%s server listening on %s", s.Name, s.server.Addr)

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return http.ErrServerClosed
	}

	return s.server.Shutdown(ctx)
}

func handleMetrics(s *Server, r *gin.Engine) {
	if !s.options.Metrics.Enabled {
		return
	}
	if s.prom == nil {
		s.prom = prometheus.NewPrometheus(prometheus.Config{
			Path:                      s.options.Metrics.Path,
			EnabledGoCollector:        s.options.Metrics.EnabledGoCollector,
			EnabledBuildInfoCollector: s.options.Metrics.EnabledBuildInfoCollector,
		})
	}

	r.GET(s.options.Metrics.Path, gin.WrapH(s.prom.Handler()))
}

func handleHealth(s *Server, r *gin.Engine) {
	if s.options.Health.Enabled {
		r.GET(s.options.Health.Path, func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}
}
