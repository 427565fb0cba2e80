package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/zyneth-auth/internal/logger"
	"github.com/dtroode/zyneth-auth/internal/model"
)

// AuthService drives the Google sign-in flow.
type AuthService interface {
	Configured() bool
	VerifiesState() bool
	BuildAuthorizationURL(ctx context.Context) (string, error)
	ExchangeCodeForSession(ctx context.Context, req model.ExchangeRequest) (model.ExchangeResult, error)
}

// ConfigReport is the non-secret configuration exposed by the diagnostics endpoint.
type ConfigReport struct {
	Environment         string
	ClientIDSet         bool
	ClientSecretSet     bool
	FrontendRedirectURI string
	FrontendURL         string
	BackendURL          string
}

// Auth handles the /auth endpoints.
type Auth struct {
	authService AuthService
	report      ConfigReport
	logger      *logger.Logger
}

func NewAuth(authService AuthService, report ConfigReport, logger *logger.Logger) *Auth {
	return &Auth{
		authService: authService,
		report:      report,
		logger:      logger,
	}
}

type authURLResponse struct {
	AuthURL string `json:"auth_url"`
}

// GoogleURL returns the URL the frontend sends the browser to.
func (h *Auth) GoogleURL(c *gin.Context) {
	authURL, err := h.authService.BuildAuthorizationURL(c.Request.Context())
	if err != nil {
		h.logger.Error("Auth handler: failed to build auth url",
			"error", err.Error())
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, authURLResponse{AuthURL: authURL})
}

type exchangeRequest struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

type exchangeResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	IsNew  bool   `json:"is_new"`
}

// GoogleExchange turns the authorization code captured by the frontend into a session.
func (h *Auth) GoogleExchange(c *gin.Context) {
	var req exchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Auth handler: malformed exchange body",
			"error", err.Error())
		abort(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.authService.ExchangeCodeForSession(c.Request.Context(), model.ExchangeRequest{
		Code:  req.Code,
		State: req.State,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, exchangeResponse{
		Token:  res.Token,
		UserID: res.UserID,
		Email:  res.Email,
		Role:   res.Role,
		IsNew:  res.IsNew,
	})
}

// TestConfig reports non-secret configuration to help set up the Google console.
func (h *Auth) TestConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":                   "ok",
		"environment":              h.report.Environment,
		"google_client_id_set":     h.report.ClientIDSet,
		"google_client_secret_set": h.report.ClientSecretSet,
		"google_oauth_configured":  h.authService.Configured(),
		"state_verification":       h.authService.VerifiesState(),
		"frontend_redirect_uri":    h.report.FrontendRedirectURI,
		"frontend_url":             h.report.FrontendURL,
		"backend_url":              h.report.BackendURL,
		"oauth_flow":               "frontend-first",
		"description":              "Google talks to frontend only, frontend sends code to backend",
		"required_google_console_config": gin.H{
			"authorized_javascript_origins": []string{
				"http://localhost:5500",
				"http://127.0.0.1:5500",
				"https://zyneth.shop",
				"https://www.zyneth.shop",
			},
			"authorized_redirect_uris": []string{
				"http://localhost:5500/frontend/oauth-callback.html",
				"https://zyneth.shop/oauth-callback.html",
			},
			"important": "Google Console should NOT have any backend URLs, only frontend URLs",
		},
		"endpoints": gin.H{
			"get_auth_url":  "GET /auth/google/url",
			"exchange_code": "POST /auth/google/exchange",
		},
	})
}

// Logout clears the session cookie. Sessions are stateless, so it always succeeds.
func (h *Auth) Logout(c *gin.Context) {
	c.SetCookie("access_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
