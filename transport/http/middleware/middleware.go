package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kochabonline/mcstatus/log"
)

var mlog *log.Logger

// SetLogger replaces the logger used by the middlewares. Nil restores the
// global one.
func SetLogger(logger *log.Logger) {
	mlog = logger
}

func logger() *log.Logger {
	if mlog != nil {
		return mlog
	}
	return log.L
}

func skippedPathPrefixes(c *gin.Context, prefixes ...string) bool {
	path := c.Request.URL.Path
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
