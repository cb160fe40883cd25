package http

import (
	"errors"
	"net/http"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Envelope is the body of every response.
type Envelope struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
	Next    string `json:"next,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respond(c *gin.Context, status int, level Level, message, next string, data any) {
	c.JSON(status, Envelope{Level: level, Message: message, Next: next, Data: data})
}

func ok(c *gin.Context, message string, data any) {
	respond(c, http.StatusOK, LevelSuccess, message, "", data)
}

type errorMapping struct {
	err     error
	status  int
	level   Level
	message string
	next    string
	// detail reports the error text itself instead of message.
	detail bool
}

// Order matters: the first match wins.
var errorMappings = []errorMapping{
	{err: domain.ErrUnauthenticated, status: http.StatusUnauthorized, level: LevelWarning, message: "please log in to continue", next: "/login"},
	{err: domain.ErrInvalidCredentials, status: http.StatusUnauthorized, level: LevelWarning, message: "invalid username or password", next: "/login"},
	{err: domain.ErrUnauthorized, status: http.StatusForbidden, level: LevelError, message: "you are not allowed to do that", next: "/"},
	{err: domain.ErrNotFound, status: http.StatusNotFound, level: LevelError, message: "not found"},
	{err: domain.ErrInvalidInput, status: http.StatusBadRequest, level: LevelError, detail: true},
	{err: domain.ErrEmptyCart, status: http.StatusOK, level: LevelInfo, message: "your cart is empty", next: "/products"},
	{err: domain.ErrInsufficientStock, status: http.StatusConflict, level: LevelWarning, next: "/cart", detail: true},
	{err: domain.ErrInvalidTransition, status: http.StatusConflict, level: LevelWarning, detail: true},
	{err: domain.ErrConflict, status: http.StatusConflict, level: LevelError, detail: true},
}

// fail maps a service error to a response. Unknown errors are logged and
// reported generically.
func (h *Handler) fail(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			message := m.message
			if m.detail {
				message = err.Error()
			}
			respond(c, m.status, m.level, message, m.next, nil)
			return
		}
	}

	h.log.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.String("request_id", requestID(c)),
		zap.Error(err),
	)
	respond(c, http.StatusInternalServerError, LevelError, "something went wrong, please try again", "", nil)
}

func badRequest(c *gin.Context, err error) {
	respond(c, http.StatusBadRequest, LevelError, err.Error(), "", nil)
}
