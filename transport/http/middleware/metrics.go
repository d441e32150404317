package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kochabonline/mcstatus/transport/http/metrics/prometheus"
)

// GinMetrics counts requests and observes their latency per route template.
func GinMetrics(p *prometheus.Prometheus) gin.HandlerFunc {
	requests := p.RegisterCounter("http_requests_total", "HTTP requests by route and status.", []string{"method", "route", "status"})
	latency := p.RegisterHistogram("http_request_duration_seconds", "HTTP request latency by route.", []string{"method", "route"}, nil)

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		latency.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
