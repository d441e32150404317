package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabonline/mcstatus/transport/http/metrics/prometheus"
)

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestNewServer_AddonHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	s := NewServer(":8080", r,
		WithMetricsOptions(MetricsOption{Enabled: true}),
		WithHealthOptions(HealthOption{Enabled: true, Path: "/healthz"}),
	)
	require.NotNil(t, s.Prometheus())
	assert.Equal(t, "/metrics", s.options.Metrics.Path)

	w := get(r, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	assert.Equal(t, http.StatusOK, get(r, "/metrics").Code)
}

func TestNewServer_SharedRegistry(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	prom := prometheus.NewPrometheus(prometheus.Config{})
	prom.RegisterCounter("shared_total", "shared", nil).WithLabelValues().Inc()

	s := NewServer(":8080", r, WithPrometheus(prom), WithMetricsOptions(MetricsOption{Enabled: true, Path: "/m"}))
	assert.Same(t, prom, s.Prometheus())
	assert.Contains(t, get(r, "/m").Body.String(), "shared_total 1")
}

func TestNewServer_AddonsDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	s := NewServer(":8080", r)
	assert.Nil(t, s.Prometheus())
	assert.Equal(t, http.StatusNotFound, get(r, "/metrics").Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/health").Code)
}

func TestServer_ShutdownBeforeRun(t *testing.T) {
	s := NewServer("127.0.0.1:0", http.NotFoundHandler(), WithName("test"))
	require.NoError(t, s.Shutdown(context.Background()))
	assert.ErrorIs(t, s.Run(), http.ErrServerClosed)
}
