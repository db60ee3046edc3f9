package router

import (
	userapp "github.com/oksasatya/go-users-api/internal/application"
	"github.com/oksasatya/go-users-api/internal/container"
	pginfra "github.com/oksasatya/go-users-api/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/go-users-api/internal/interface/http"
	"github.com/oksasatya/go-users-api/internal/router/modules"
)

// InitModules initializes all application modules and registers them
// with the router registry. Called once during application startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()

	repo := pginfra.NewUserRepository(container.GetPGPool())
	service := userapp.NewService(repo, container.GetJWT(), container.GetLogger())
	userHandler := handlers.NewUserHandler(service, container.GetLogger())
	r.Add(modules.NewUserModule(userHandler, container.GetJWT()))

	if cfg.HealthChecksEnabled {
		healthHandler := handlers.NewHealthHandler(repo, container.GetLogger(), cfg.AppName, cfg.Version)
		r.Add(modules.NewHealthModule(healthHandler))
	}

	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
