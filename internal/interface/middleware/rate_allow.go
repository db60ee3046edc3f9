package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// AllowPrivateIP returns an AllowFunc that bypasses rate limiting for
// requests arriving from loopback or RFC1918 addresses, which is where
// health probes and internal tooling come from.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		parsed := net.ParseIP(ipFromCtx(c))
		if parsed == nil {
			return false
		}
		return parsed.IsLoopback() || parsed.IsPrivate()
	}
}
