package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/edustream/auth-service/internal/application"
	"github.com/edustream/auth-service/pkg/response"
	"github.com/edustream/auth-service/pkg/validation"
)

// AdminHandler exposes account administration; every route behind it
// requires the admin role.
type AdminHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewAdminHandler(svc *application.Service, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Svc: svc, Logger: logger}
}

type setStatusRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// GetUser GET /admin/users/:id
func (h *AdminHandler) GetUser(c *gin.Context) {
	u, err := h.Svc.Profile(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, response.CodeUserNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).Error("admin user lookup failed")
		response.Fail(c, http.StatusInternalServerError, response.CodeServerError, "user lookup failed", nil)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"user": u}, "user")
}

// SetUserStatus PATCH /admin/users/:id/status
// Disabling keeps the account row; the user just cannot log in anymore.
func (h *AdminHandler) SetUserStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.CodeValidation, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.SetUserStatus(c.Request.Context(), c.Param("id"), *req.Active)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, response.CodeUserNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).Error("set user status failed")
		response.Fail(c, http.StatusInternalServerError, response.CodeServerError, "status update failed", nil)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"user": u}, "status updated")
}
