package router

import (
	"github.com/edustream/auth-service/internal/application"
	"github.com/edustream/auth-service/internal/container"
	pginfra "github.com/edustream/auth-service/internal/infrastructure/postgres"
	handlers "github.com/edustream/auth-service/internal/interface/http"
	"github.com/edustream/auth-service/internal/router/modules"
)

// InitModules builds the application modules from container singletons and
// registers them with the router registry. Called once during startup.
func InitModules(r *Registry) {
	repo := pginfra.NewUserRepository(container.GetPGPool(), container.GetConfig().StoreTimeout)

	service := application.NewService(
		repo,
		container.GetJWT(),
		container.GetHasher(),
		container.GetBlacklist(),
		container.GetLogger(),
	)

	authHandler := handlers.NewAuthHandler(service, container.GetLogger())
	adminHandler := handlers.NewAdminHandler(service, container.GetLogger())

	r.Add(
		modules.NewAuthModule(authHandler, container.GetJWT()),
		modules.NewAdminModule(adminHandler, container.GetJWT()),
	)
}
