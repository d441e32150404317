package middleware

import (
	"errors"
	"net"
	"net/http/httputil"
	"os"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	kerrors "github.com/kochabonline/mcstatus/errors"
	"github.com/kochabonline/mcstatus/transport/http/response"
)

type RecoveryConfig struct {
	Stack bool
}

func GinRecovery() gin.HandlerFunc {
	return GinRecoveryWithConfig(RecoveryConfig{
		Stack: true,
	})
}

func GinRecoveryWithConfig(config RecoveryConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				httpRequest, _ := httputil.DumpRequest(c.Request, false)
				event := logger().Error().
					Str("request", string(httpRequest)).
					Interface("error", err)

				// Check for a broken connection, as it is not really a
				// condition that warrants a panic stack trace.
				if isBrokenPipe(err) {
					event.Msg("connection broken")
					if e, ok := err.(error); ok {
						_ = c.Error(e)
					}
					c.Abort()
					return
				}

				if config.Stack {
					event = event.Str("stack", string(debug.Stack()))
				}
				event.Msg("panic recovered")

				response.GinJSONError(c, kerrors.Internal("internal server error"))
			}
		}()
		c.Next()
	}
}

func isBrokenPipe(err any) bool {
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ne *net.OpError
	if !errors.As(e, &ne) {
		return false
	}
	var se *os.SyscallError
	if errors.As(ne.Err, &se) {
		errStr := strings.ToLower(se.Error())
		return strings.Contains(errStr, "broken pipe") || strings.Contains(errStr, "connection reset by peer")
	}
	return false
}
