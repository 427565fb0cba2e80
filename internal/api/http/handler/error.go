package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/zyneth-auth/internal/model"
)

// handleError writes the response for a service error.
// Known client and upstream failures keep their detail; anything else is withheld.
func handleError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, model.ErrConfiguration):
		abort(c, http.StatusServiceUnavailable, "Google OAuth is not configured properly")
	case errors.Is(err, model.ErrInvalidRequest):
		abort(c, http.StatusBadRequest, detail(err, model.ErrInvalidRequest))
	case errors.Is(err, model.ErrUpstreamAuth):
		abort(c, http.StatusBadRequest, detail(err, model.ErrUpstreamAuth))
	case errors.Is(err, model.ErrInvalidProfile):
		abort(c, http.StatusBadRequest, detail(err, model.ErrInvalidProfile))
	case errors.Is(err, model.ErrUserCreation):
		abort(c, http.StatusInternalServerError, "Failed to create user")
	case errors.Is(err, model.ErrNotFound):
		abort(c, http.StatusNotFound, "User not found")
	default:
		abort(c, http.StatusInternalServerError, "Internal server error during authentication")
	}
}

func abort(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

// detail strips the sentinel prefix from a wrapped error message.
func detail(err, sentinel error) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
	if msg == "" {
		return sentinel.Error()
	}
	return upperFirst(msg)
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
