package model

import "errors"

// Store errors.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// Authentication errors. Callers wrap them with detail via fmt.Errorf("%w: ...").
var (
	ErrConfiguration  = errors.New("google oauth is not configured properly")
	ErrInvalidRequest = errors.New("invalid request")
	ErrUpstreamAuth   = errors.New("google authentication failed")
	ErrInvalidProfile = errors.New("invalid google profile")
	ErrUserCreation   = errors.New("failed to create user")
)

// UpstreamError describes a non-success answer from the identity provider.
type UpstreamError struct {
	StatusCode int
	Detail     string
}

func (e *UpstreamError) Error() string {
	return e.Detail
}
