package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/dtroode/zyneth-auth/internal/model"
)

// Scopes requested from Google.
var Scopes = []string{"openid", "email", "profile"}

// maxErrorBody caps how much of an error response is read into a detail message.
const maxErrorBody = 4 << 10

// Config contains Google client parameters.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
	Timeout      time.Duration
}

// Provider talks to Google's OAuth and user-info endpoints.
type Provider struct {
	oauthConfig *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

// New creates a Google provider. Both client credentials are required.
func New(cfg Config) (*Provider, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("google oauth config missing client credentials")
	}
	if cfg.RedirectURL == "" {
		return nil, errors.New("google oauth config missing redirect url")
	}

	return &Provider{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
			Scopes: Scopes,
		},
		userInfoURL: cfg.UserInfoURL,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// AuthCodeURL builds the authorization URL asking Google for account selection.
func (p *Provider) AuthCodeURL(state string) string {
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
}

// RedirectURL returns the fixed redirect target registered with Google.
func (p *Provider) RedirectURL() string {
	return p.oauthConfig.RedirectURL
}

// Exchange trades an authorization code for an access token.
// Non-success answers are returned as *model.UpstreamError.
func (p *Provider) Exchange(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token, err := p.oauthConfig.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return "", &model.UpstreamError{
				StatusCode: retrieveStatus(retrieveErr),
				Detail:     retrieveDetail(retrieveErr),
			}
		}

		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return "", fmt.Errorf("token request failed: %w", err)
		}

		// oauth2 reports a body without access_token as a plain error.
		return "", &model.UpstreamError{
			StatusCode: http.StatusOK,
			Detail:     strings.TrimPrefix(err.Error(), "oauth2: "),
		}
	}

	if token.AccessToken == "" {
		return "", &model.UpstreamError{StatusCode: http.StatusOK, Detail: "no access token received from Google"}
	}

	return token.AccessToken, nil
}

type userInfo struct {
	Sub           string `json:"sub"`
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified *bool  `json:"email_verified"`
	VerifiedEmail *bool  `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
}

// FetchProfile reads the user's profile with the access token as bearer credential.
// Both the OpenID Connect (sub, email_verified) and v2 (id, verified_email) shapes are accepted.
func (p *Provider) FetchProfile(ctx context.Context, accessToken string) (model.ProviderProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return model.ProviderProfile{}, fmt.Errorf("failed to build userinfo request: %w", err)
	}
	(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}).SetAuthHeader(req)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return model.ProviderProfile{}, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return model.ProviderProfile{}, &model.UpstreamError{
			StatusCode: resp.StatusCode,
			Detail:     fmt.Sprintf("userinfo returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return model.ProviderProfile{}, &model.UpstreamError{
			StatusCode: resp.StatusCode,
			Detail:     fmt.Sprintf("failed to decode userinfo: %v", err),
		}
	}

	profile := model.ProviderProfile{
		Subject:    info.Sub,
		Email:      strings.TrimSpace(info.Email),
		Name:       info.Name,
		AvatarURL:  info.Picture,
		GivenName:  info.GivenName,
		FamilyName: info.FamilyName,
	}
	if profile.Subject == "" {
		profile.Subject = info.ID
	}
	switch {
	case info.EmailVerified != nil:
		profile.EmailVerified = *info.EmailVerified
	case info.VerifiedEmail != nil:
		profile.EmailVerified = *info.VerifiedEmail
	}

	return profile, nil
}

func retrieveStatus(err *oauth2.RetrieveError) int {
	if err.Response != nil {
		return err.Response.StatusCode
	}
	return 0
}

// retrieveDetail keeps Google's error code and description, or falls back to the raw body.
func retrieveDetail(err *oauth2.RetrieveError) string {
	if err.ErrorCode != "" {
		if err.ErrorDescription != "" {
			return fmt.Sprintf("%s: %s", err.ErrorCode, err.ErrorDescription)
		}
		return err.ErrorCode
	}

	body := err.Body
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	if len(body) == 0 {
		return fmt.Sprintf("token endpoint returned status %d", retrieveStatus(err))
	}
	return strings.TrimSpace(string(body))
}
