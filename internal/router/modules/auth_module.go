package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edustream/auth-service/internal/container"
	handlers "github.com/edustream/auth-service/internal/interface/http"
	"github.com/edustream/auth-service/internal/interface/middleware"
	"github.com/edustream/auth-service/pkg/helpers"
)

// AuthModule wires the credential endpoints.
// Public: POST /auth/register, POST /auth/login
// Protected: POST /auth/logout, GET /auth/me, GET /auth/verify
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	// Credential endpoints are brute-force targets; keep them tight.
	registerLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIP())
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP())

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetBlacklist(), m.JWT, container.GetLogger()))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID()))
	{
		auth.POST("/auth/logout", m.Handler.Logout)
		auth.GET("/auth/me", m.Handler.Me)
		auth.GET("/auth/verify", m.Handler.Verify)
	}
}
