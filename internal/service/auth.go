package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dtroode/zyneth-auth/internal/logger"
	"github.com/dtroode/zyneth-auth/internal/model"
)

// stateBytes is the entropy of a generated OAuth state.
const stateBytes = 32

// IdentityProvider performs the outbound OAuth calls.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (accessToken string, err error)
	FetchProfile(ctx context.Context, accessToken string) (model.ProviderProfile, error)
}

// Auth builds authorization URLs and turns authorization codes into sessions.
type Auth struct {
	provider  IdentityProvider
	userStore model.UserStore
	sessions  model.SessionIssuer
	states    model.StateStore
	logger    *logger.Logger
}

// NewAuth creates the auth service.
// A nil provider means Google credentials are not configured: every call
// fails with model.ErrConfiguration. A nil state store disables state verification.
func NewAuth(
	provider IdentityProvider,
	userStore model.UserStore,
	sessions model.SessionIssuer,
	states model.StateStore,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		provider:  provider,
		userStore: userStore,
		sessions:  sessions,
		states:    states,
		logger:    logger,
	}
}

// Configured reports whether the Google provider is available.
func (a *Auth) Configured() bool {
	return a.provider != nil
}

// VerifiesState reports whether exchanges must present a previously issued state.
func (a *Auth) VerifiesState() bool {
	return a.states != nil
}

// BuildAuthorizationURL returns the Google authorization URL with a fresh state.
func (a *Auth) BuildAuthorizationURL(ctx context.Context) (string, error) {
	if a.provider == nil {
		return "", model.ErrConfiguration
	}

	state, err := generateState()
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}

	if a.states != nil {
		if err := a.states.Save(ctx, state, model.StateTTL); err != nil {
			a.logger.Error("Auth service: failed to save oauth state",
				"error", err.Error())
			return "", fmt.Errorf("failed to save state: %w", err)
		}
	}

	a.logger.Info("Auth service: generated google auth url",
		"state_prefix", state[:10],
		"state_stored", a.states != nil)

	return a.provider.AuthCodeURL(state), nil
}

// ExchangeCodeForSession exchanges an authorization code with Google,
// resolves or creates the local user and issues a session token.
func (a *Auth) ExchangeCodeForSession(ctx context.Context, req model.ExchangeRequest) (model.ExchangeResult, error) {
	a.logger.Debug("Auth service: exchanging google authorization code")

	if req.Code == "" {
		return model.ExchangeResult{}, fmt.Errorf("%w: no authorization code provided", model.ErrInvalidRequest)
	}
	if a.provider == nil {
		return model.ExchangeResult{}, model.ErrConfiguration
	}
	if err := a.verifyState(ctx, req.State); err != nil {
		return model.ExchangeResult{}, err
	}

	accessToken, err := a.provider.Exchange(ctx, req.Code)
	if err != nil {
		a.logger.Error("Auth service: token exchange failed",
			"error", err.Error())
		return model.ExchangeResult{}, upstreamError("failed to exchange authorization code", err)
	}

	profile, err := a.provider.FetchProfile(ctx, accessToken)
	if err != nil {
		a.logger.Error("Auth service: userinfo fetch failed",
			"error", err.Error())
		return model.ExchangeResult{}, upstreamError("failed to fetch user info from Google", err)
	}

	if profile.Email == "" {
		return model.ExchangeResult{}, fmt.Errorf("%w: no email in Google user info", model.ErrInvalidProfile)
	}
	if profile.Subject == "" {
		return model.ExchangeResult{}, fmt.Errorf("%w: no subject in Google user info", model.ErrInvalidProfile)
	}

	a.logger.Info("Auth service: user info received",
		"email", profile.Email,
		"email_verified", profile.EmailVerified)

	user, isNew, err := a.resolveUser(ctx, profile)
	if err != nil {
		return model.ExchangeResult{}, err
	}

	token, _, err := a.sessions.IssueSession(user.Email, user.Role)
	if err != nil {
		a.logger.Error("Auth service: failed to issue session",
			"email", user.Email,
			"error", err.Error())
		return model.ExchangeResult{}, fmt.Errorf("failed to issue session: %w", err)
	}

	a.logger.Info("Auth service: authentication successful",
		"email", user.Email,
		"user_id", user.ID.String(),
		"is_new", isNew)

	return model.ExchangeResult{
		Token:  token,
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   user.Role,
		IsNew:  isNew,
	}, nil
}

func (a *Auth) verifyState(ctx context.Context, state string) error {
	if a.states == nil {
		return nil
	}
	if state == "" {
		return fmt.Errorf("%w: no state provided", model.ErrInvalidRequest)
	}

	ok, err := a.states.Consume(ctx, state)
	if err != nil {
		return fmt.Errorf("failed to consume state: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: unknown or expired state", model.ErrInvalidRequest)
	}

	return nil
}

// resolveUser returns the user owning the profile email, creating it on first login.
// Uniqueness per email is enforced by the store.
func (a *Auth) resolveUser(ctx context.Context, profile model.ProviderProfile) (model.User, bool, error) {
	existing, err := a.userStore.GetByEmail(ctx, profile.Email)
	if err == nil {
		a.logger.Debug("Auth service: user exists",
			"email", profile.Email)
		return existing, false, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", profile.Email,
			"error", err.Error())
		return model.User{}, false, fmt.Errorf("failed to get user by email: %w", err)
	}

	a.logger.Info("Auth service: creating new user",
		"email", profile.Email)

	params := model.CreateUserParams{
		Email:    profile.Email,
		FullName: displayName(profile),
		GoogleID: profile.Subject,
	}
	if profile.AvatarURL != "" {
		avatar := profile.AvatarURL
		params.AvatarURL = &avatar
	}

	user, err := a.userStore.Create(ctx, params)
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", profile.Email,
			"error", err.Error())
		return model.User{}, false, fmt.Errorf("%w: %v", model.ErrUserCreation, err)
	}

	return user, true, nil
}

// displayName falls back to the local part of the email.
func displayName(profile model.ProviderProfile) string {
	if name := strings.TrimSpace(profile.Name); name != "" {
		return name
	}
	local, _, _ := strings.Cut(profile.Email, "@")
	return local
}

// upstreamError translates a provider failure. Provider answers keep their
// detail; transport failures are reported without it.
func upstreamError(msg string, err error) error {
	var upstream *model.UpstreamError
	if errors.As(err, &upstream) {
		return fmt.Errorf("%w: %s: %s", model.ErrUpstreamAuth, msg, upstream.Detail)
	}
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		return fmt.Errorf("%w: %s: request to Google timed out", model.ErrUpstreamAuth, msg)
	}
	return fmt.Errorf("%w: %s: failed to communicate with Google", model.ErrUpstreamAuth, msg)
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

func generateState() (string, error) {
	b := make([]byte, stateBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
