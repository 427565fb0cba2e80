package context

import (
	"context"

	"github.com/dtroode/zyneth-auth/internal/model"
)

type sessionKey struct{}

// Manager stores authenticated session claims in request contexts.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) SetSessionToContext(ctx context.Context, claims model.SessionClaims) context.Context {
	return context.WithValue(ctx, sessionKey{}, claims)
}

// GetSessionFromContext returns the claims set by the authentication middleware.
func (m *Manager) GetSessionFromContext(ctx context.Context) (model.SessionClaims, bool) {
	claims, ok := ctx.Value(sessionKey{}).(model.SessionClaims)
	if !ok || claims.Email == "" {
		return model.SessionClaims{}, false
	}
	return claims, true
}
