package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/edustream/auth-service/internal/application"
	"github.com/edustream/auth-service/internal/interface/middleware"
	"github.com/edustream/auth-service/pkg/helpers"
	"github.com/edustream/auth-service/pkg/response"
	"github.com/edustream/auth-service/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.Service, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,pwd"`
	FullName  string `json:"fullName" binding:"required"`
	AvatarURL string `json:"avatarUrl" binding:"omitempty,url"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.CodeValidation, "invalid payload", validation.ToDetails(err))
		return
	}

	u, token, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		if errors.Is(err, application.ErrEmailExists) {
			response.Fail(c, http.StatusConflict, response.CodeEmailExists, "email already in use", nil)
			return
		}
		h.Logger.WithError(err).Error("register failed")
		response.Fail(c, http.StatusInternalServerError, response.CodeServerError, "registration failed", nil)
		return
	}

	response.OK(c, http.StatusCreated, gin.H{"user": u, "token": token}, "registered")
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.CodeValidation, "invalid payload", validation.ToDetails(err))
		return
	}

	u, token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrInvalidCredentials):
			// Same message for unknown email and wrong password.
			response.Fail(c, http.StatusUnauthorized, response.CodeInvalidCredentials, "invalid email or password", nil)
		case errors.Is(err, application.ErrAccountDisabled):
			response.Fail(c, http.StatusForbidden, response.CodeAccountDisabled, "account is disabled", nil)
		default:
			h.Logger.WithError(err).Error("login failed")
			response.Fail(c, http.StatusInternalServerError, response.CodeServerError, "login failed", nil)
		}
		return
	}

	response.OK(c, http.StatusOK, gin.H{"user": u, "token": token}, "logged in")
}

// Logout POST /auth/logout (bearer required)
func (h *AuthHandler) Logout(c *gin.Context) {
	raw := c.GetString(middleware.CtxRawTokenKey)
	v, _ := c.Get(middleware.CtxClaimsKey)
	claims, ok := v.(*helpers.Claims)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.CodeNotAuthenticated, "authentication required", nil)
		return
	}

	if err := h.Svc.Logout(c.Request.Context(), raw, claims); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.CodeServerError, "logout failed", nil)
		return
	}
	response.OK[any](c, http.StatusOK, gin.H{"loggedOut": true}, "logged out")
}

// Me GET /auth/me (bearer required)
func (h *AuthHandler) Me(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Svc.Profile(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			// Account deleted after the token was issued.
			response.Fail(c, http.StatusNotFound, response.CodeUserNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).Error("profile lookup failed")
		response.Fail(c, http.StatusInternalServerError, response.CodeServerError, "profile lookup failed", nil)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"user": u}, "profile")
}

// Verify GET /auth/verify (bearer required)
// Returns the decoded identity; reaching the handler at all means the
// token passed the authentication gate.
func (h *AuthHandler) Verify(c *gin.Context) {
	role, _ := middleware.RoleFromCtx(c)
	response.OK(c, http.StatusOK, gin.H{
		"id":    c.GetString(middleware.CtxUserIDKey),
		"email": c.GetString(middleware.CtxUserEmailKey),
		"role":  role,
	}, "token valid")
}
