package service

import (
	"context"
	"fmt"

	"github.com/dtroode/zyneth-auth/internal/logger"
	"github.com/dtroode/zyneth-auth/internal/model"
)

// User serves read access to local users.
type User struct {
	userStore model.UserStore
	logger    *logger.Logger
}

func NewUser(userStore model.UserStore, logger *logger.Logger) *User {
	return &User{userStore: userStore, logger: logger}
}

// Current returns the user the session belongs to.
func (u *User) Current(ctx context.Context, claims model.SessionClaims) (model.User, error) {
	user, err := u.userStore.GetByEmail(ctx, claims.Email)
	if err != nil {
		u.logger.Debug("User service: failed to get current user",
			"email", claims.Email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}
