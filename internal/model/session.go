package model

import "time"

// SessionIssuer mints signed session credentials.
type SessionIssuer interface {
	IssueSession(email, role string) (token string, expiresAt time.Time, err error)
	ParseSession(token string) (SessionClaims, error)
}

// SessionClaims are the claims carried by a session credential.
type SessionClaims struct {
	Email     string
	Role      string
	ExpiresAt time.Time
}

// ExchangeRequest is the input of a code exchange.
type ExchangeRequest struct {
	Code  string
	State string
}

// ExchangeResult is returned by a successful code exchange.
type ExchangeResult struct {
	Token  string
	UserID string
	Email  string
	Role   string
	IsNew  bool
}
