package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edustream/auth-service/internal/container"
	"github.com/edustream/auth-service/internal/domain/entity"
	handlers "github.com/edustream/auth-service/internal/interface/http"
	"github.com/edustream/auth-service/internal/interface/middleware"
	"github.com/edustream/auth-service/pkg/helpers"
)

// AdminModule wires account administration behind the admin role.
type AdminModule struct {
	Handler *handlers.AdminHandler
	JWT     *helpers.JWTManager
}

func NewAdminModule(h *handlers.AdminHandler, jwt *helpers.JWTManager) *AdminModule {
	return &AdminModule{Handler: h, JWT: jwt}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(container.GetBlacklist(), m.JWT, container.GetLogger()))
	admin.Use(middleware.RequireRole(entity.RoleAdmin))
	admin.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID()))
	{
		admin.GET("/users/:id", m.Handler.GetUser)
		admin.PATCH("/users/:id/status", m.Handler.SetUserStatus)
	}
}
