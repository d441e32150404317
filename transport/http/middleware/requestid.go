package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/xid"
)

const (
	HeaderRequestId = "X-Request-Id"
	ctxRequestId    = "request_id"
)

// GinRequestId keeps the caller's X-Request-Id or assigns a new xid.
func GinRequestId() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestId)
		if id == "" {
			id = xid.New().String()
			c.Request.Header.Set(HeaderRequestId, id)
		}
		c.Set(ctxRequestId, id)
		c.Header(HeaderRequestId, id)
		c.Next()
	}
}

// RequestId returns the id assigned by GinRequestId.
func RequestId(c *gin.Context) string {
	return c.GetString(ctxRequestId)
}
