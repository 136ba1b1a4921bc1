package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Machine-readable error codes carried in the envelope's "code" field.
const (
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAccountDisabled    = "ACCOUNT_DISABLED"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeTokenBlacklisted   = "TOKEN_BLACKLISTED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotAuthenticated   = "NOT_AUTHENTICATED"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeValidation         = "VALIDATION_ERROR"
	CodeRateLimited        = "RATE_LIMITED"
	CodeServerError        = "SERVER_ERROR"
)

// APIResponse is the uniform envelope for every endpoint:
// {success, message, data|error, code?, requestId}.
type APIResponse[T any] struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      T           `json:"data,omitempty"`
	Error     interface{} `json:"error,omitempty"`
	Code      string      `json:"code,omitempty"`
	RequestID string      `json:"requestId,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// OK writes a success envelope with the given status.
func OK[T any](c *gin.Context, status int, data T, message string) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, APIResponse[T]{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestID: c.GetString("request_id"),
		Timestamp: time.Now().UTC(),
	})
}

// Fail writes an error envelope. The message stays generic; code carries
// the machine-readable reason.
func Fail(c *gin.Context, status int, code, message string, details interface{}) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, APIResponse[any]{
		Success:   false,
		Message:   message,
		Error:     details,
		Code:      code,
		RequestID: c.GetString("request_id"),
		Timestamp: time.Now().UTC(),
	})
}

// Abort writes an error envelope and stops the handler chain. For use
// inside middleware.
func Abort(c *gin.Context, status int, code, message string) {
	c.Abort()
	Fail(c, status, code, message, nil)
}
