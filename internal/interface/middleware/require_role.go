package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edustream/auth-service/internal/domain/entity"
	"github.com/edustream/auth-service/pkg/response"
)

// RequireRole allows the request only if the authenticated caller's role
// is in the given set. It must run after Auth; a missing identity here is
// a wiring bug in the route table, reported as 401 rather than 403 so the
// two outcomes stay distinct.
func RequireRole(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := RoleFromCtx(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, response.CodeNotAuthenticated, "authentication required")
			return
		}
		if !role.In(roles...) {
			response.Abort(c, http.StatusForbidden, response.CodeForbidden, "insufficient permissions")
			return
		}
		c.Next()
	}
}
