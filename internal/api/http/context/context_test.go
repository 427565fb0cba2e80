package context

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dtroode/zyneth-auth/internal/model"
)

func TestManager_SessionRoundTrip(t *testing.T) {
	m := NewManager()

	_, ok := m.GetSessionFromContext(context.Background())
	assert.False(t, ok)

	claims := model.SessionClaims{Email: "a@b.com", Role: model.RoleUser, ExpiresAt: time.Now().Add(time.Minute)}
	ctx := m.SetSessionToContext(context.Background(), claims)

	got, ok := m.GetSessionFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, claims, got)
}

func TestManager_EmptyClaimsAreNotASession(t *testing.T) {
	m := NewManager()
	ctx := m.SetSessionToContext(context.Background(), model.SessionClaims{})

	_, ok := m.GetSessionFromContext(ctx)
	assert.False(t, ok)
}
