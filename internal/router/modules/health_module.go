package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-users-api/internal/container"
	handlers "github.com/oksasatya/go-users-api/internal/interface/http"
	"github.com/oksasatya/go-users-api/internal/interface/middleware"
)

// HealthModule exposes liveness, readiness and detailed health probes.
// The detailed check is rate limited for public callers; probes from
// private networks bypass the limit.
type HealthModule struct {
	Handler *handlers.HealthHandler
}

func NewHealthModule(h *handlers.HealthHandler) *HealthModule {
	return &HealthModule{Handler: h}
}

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	detailedLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	health := rg.Group("/health")
	{
		health.GET("", m.Handler.Basic)
		health.GET("/live", m.Handler.Live)
		health.GET("/ready", m.Handler.Ready)
		health.GET("/detailed", detailedLimiter, m.Handler.Detailed)
	}
}
