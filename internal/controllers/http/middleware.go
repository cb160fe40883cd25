package http

import (
	"strings"
	"time"

	"storefront/internal/auth"
	"storefront/internal/infra/tracing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	sessionCookie   = "session"
	requestIDHeader = "X-Request-ID"

	principalKey = "principal"
	sessionKey   = "session"
	requestIDKey = "request_id"
)

// RequestLogger stamps a request id and logs each request after it completes.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)

		c.Next()

		log.Info("HTTP Request",
			zap.String("request_id", id),
			zap.String("trace_id", tracing.TraceID(c.Request.Context())),
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
			zap.String("user-agent", c.Request.UserAgent()),
		)
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// sessionToken reads the bearer token, falling back to the session cookie.
func sessionToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if token, found := strings.CutPrefix(h, "Bearer "); found {
			return strings.TrimSpace(token)
		}
	}
	if v, err := c.Cookie(sessionCookie); err == nil {
		return v
	}
	return ""
}

// resolveSession attaches the caller's Principal. Missing, invalid and revoked
// tokens all make the caller a guest.
func (h *Handler) resolveSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(principalKey, auth.Guest)
		raw := sessionToken(c)
		if raw == "" {
			c.Next()
			return
		}

		sess, err := h.accounts.Authenticate(c.Request.Context(), raw)
		if err != nil {
			h.log.Debug("session rejected", zap.String("request_id", requestID(c)), zap.Error(err))
			c.Next()
			return
		}
		c.Set(principalKey, sess.Principal)
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func principal(c *gin.Context) auth.Principal {
	if p, ok := c.Get(principalKey); ok {
		return p.(auth.Principal)
	}
	return auth.Guest
}

func session(c *gin.Context) auth.Session {
	if s, ok := c.Get(sessionKey); ok {
		return s.(auth.Session)
	}
	return auth.Session{Principal: auth.Guest}
}
