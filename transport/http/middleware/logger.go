package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type LoggerConfig struct {
	// Enable logging of request headers
	HeaderEnabled  bool
	HandlerEnabled bool
	// Requests whose path starts with one of these are not logged
	SkipPaths []string
}

func GinLogger() gin.HandlerFunc {
	return GinLoggerWithConfig(LoggerConfig{})
}

func GinLoggerWithConfig(config LoggerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if skippedPathPrefixes(c, config.SkipPaths...) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		status := c.Writer.Status()
		var event *zerolog.Event
		switch {
		case status >= 500:
			event = logger().Error()
		case status >= 400:
			event = logger().Warn()
		default:
			event = logger().Info()
		}

		event = event.
			Str("method", c.Request.Method).
			Str("uri", c.Request.RequestURI).
			Dur("duration", duration).
			Int("status", status).
			Str("client_ip", c.ClientIP())

		if requestId := RequestId(c); requestId != "" {
			event = event.Str("request_id", requestId)
		}

		if config.HeaderEnabled {
			event = event.Any("headers", c.Request.Header)
		}

		if config.HandlerEnabled {
			event = event.Str("handler", c.HandlerName())
		}

		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}

		event.Send()
	}
}
