package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, params CreateUserParams) (User, error)
}

// User represents a local user linked to a Google account.
type User struct {
	ID        uuid.UUID
	Email     string
	Role      string
	FullName  string
	AvatarURL *string
	GoogleID  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateUserParams contains parameters to create a Google-backed user.
// Role is left to the store default.
type CreateUserParams struct {
	Email     string
	FullName  string
	AvatarURL *string
	GoogleID  string
}

const (
	// RoleUser is the default role assigned by the store.
	RoleUser = "user"
	// RoleAdmin is an elevated role, assigned outside of this service.
	RoleAdmin = "admin"
)
