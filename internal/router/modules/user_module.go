package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-users-api/internal/container"
	handlers "github.com/oksasatya/go-users-api/internal/interface/http"
	"github.com/oksasatya/go-users-api/internal/interface/middleware"
	"github.com/oksasatya/go-users-api/pkg/helpers"
)

// UserModule wires user HTTP handlers and JWT middleware into routes.
// Public: POST /api/v1/users/register, POST /api/v1/users/login
// Protected: GET /api/v1/users/me, GET /api/v1/users/,
// GET|PUT|DELETE /api/v1/users/:id
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")

	// Public with per-IP rate limiting
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	users.POST("/register", registerLimiter, m.Handler.Register)
	users.POST("/login", loginLimiter, m.Handler.Login)

	// Protected
	auth := users.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUser(), nil),
	)
	{
		auth.GET("/me", m.Handler.Me)
		auth.GET("/", m.Handler.List)
		auth.GET("/:id", m.Handler.GetByID)
		auth.PUT("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
	}
}
