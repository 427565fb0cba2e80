package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/zyneth-auth/internal/logger"
	"github.com/dtroode/zyneth-auth/internal/model"
)

// UserService reads the authenticated user.
type UserService interface {
	Current(ctx context.Context, claims model.SessionClaims) (model.User, error)
}

// User handles the /users endpoints.
type User struct {
	userService    UserService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewUser(userService UserService, contextManager model.ContextManager, logger *logger.Logger) *User {
	return &User{
		userService:    userService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	FullName  string    `json:"full_name"`
	AvatarURL *string   `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *User) Me(c *gin.Context) {
	claims, ok := h.contextManager.GetSessionFromContext(c.Request.Context())
	if !ok {
		abort(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	user, err := h.userService.Current(c.Request.Context(), claims)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, userResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Role:      user.Role,
		FullName:  user.FullName,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt,
	})
}
