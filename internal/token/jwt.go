package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dtroode/zyneth-auth/internal/model"
)

// Claims represents session JWT claims. Subject carries the user's email.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

var _ model.SessionIssuer = (*JWT)(nil)

// JWT implements SessionIssuer backed by symmetric HMAC.
type JWT struct {
	secretKey []byte
	ttl       time.Duration
	issuer    string
	now       func() time.Time
}

// NewJWT creates a session issuer. An empty secret is a configuration error.
func NewJWT(secretKey string, ttl time.Duration, issuer string) (*JWT, error) {
	if secretKey == "" {
		return nil, errors.New("jwt secret key is empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("jwt ttl must be positive, got %s", ttl)
	}

	return &JWT{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		issuer:    issuer,
		now:       time.Now,
	}, nil
}

// IssueSession creates a signed session token binding email and role.
func (j *JWT) IssueSession(email, role string) (string, time.Time, error) {
	now := j.now()
	expiresAt := now.Add(j.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role: role,
	})

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ParseSession validates a session token and returns its claims.
func (j *JWT) ParseSession(tokenString string) (model.SessionClaims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return j.secretKey, nil
	},
		jwt.WithIssuer(j.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return model.SessionClaims{}, fmt.Errorf("failed to parse session token: %w", err)
	}
	if !token.Valid {
		return model.SessionClaims{}, fmt.Errorf("session token is invalid")
	}
	if claims.Subject == "" {
		return model.SessionClaims{}, fmt.Errorf("session token has no subject")
	}

	return model.SessionClaims{
		Email:     claims.Subject,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
