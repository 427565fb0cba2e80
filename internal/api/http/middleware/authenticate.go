package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/zyneth-auth/internal/logger"
	"github.com/dtroode/zyneth-auth/internal/model"
)

// SessionCookie is the cookie a browser client may carry the session in.
const SessionCookie = "access_token"

// SessionParser validates session tokens.
type SessionParser interface {
	ParseSession(token string) (model.SessionClaims, error)
}

// Authenticate validates bearer sessions and injects their claims into the request context.
type Authenticate struct {
	sessions       SessionParser
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAuthenticate(sessions SessionParser, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{sessions: sessions, contextManager: contextManager, logger: logger}
}

// Handle reads the Authorization header, falling back to the session cookie.
func (m *Authenticate) Handle(c *gin.Context) {
	token := bearerToken(c.GetHeader("Authorization"))
	if token == "" {
		if cookie, err := c.Cookie(SessionCookie); err == nil {
			token = cookie
		}
	}
	if token == "" {
		c.Header("WWW-Authenticate", "Bearer")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
		return
	}

	claims, err := m.sessions.ParseSession(token)
	if err != nil {
		m.logger.Debug("Authenticate middleware: invalid session",
			"error", err.Error())
		c.Header("WWW-Authenticate", "Bearer")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
		return
	}

	c.Request = c.Request.WithContext(m.contextManager.SetSessionToContext(c.Request.Context(), claims))
	c.Next()
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
