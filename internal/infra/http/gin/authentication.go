package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"roomdesk/internal/app/middleware"
	"roomdesk/internal/app/services/auth"
	domainauth "roomdesk/internal/domain/auth"
)

const sessionContextKey = "roomdesk.session"

type AuthMiddleware struct {
	Service *auth.Service
	Logger  *slog.Logger
}

// Handle resolves the bearer token, if any. Requests without a valid session
// continue anonymously; requireSession turns them away on protected routes.
func (m AuthMiddleware) Handle(c *gin.Context) {
	token := extractBearerToken(c.GetHeader("Authorization"))
	if token == "" || m.Service == nil {
		c.Next()
		return
	}
	session, err := m.Service.Resolve(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, domainauth.ErrSessionNotFound) && m.Logger != nil {
			m.Logger.Debug("token validation failed", "error", err)
		}
		c.Next()
		return
	}
	c.Set(sessionContextKey, session)
	c.Request = c.Request.WithContext(middleware.WithSession(c.Request.Context(), session))
	c.Next()
}

func currentSession(c *gin.Context) (*domainauth.Session, bool) {
	val, exists := c.Get(sessionContextKey)
	if !exists {
		return nil, false
	}
	s, ok := val.(*domainauth.Session)
	return s, ok && s != nil
}

func requireSession(c *gin.Context) {
	if _, ok := currentSession(c); !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
		return
	}
	c.Next()
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
