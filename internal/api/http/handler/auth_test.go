package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	servermocks "github.com/dtroode/zyneth-auth/internal/mocks"
	"github.com/dtroode/zyneth-auth/internal/model"
	"github.com/dtroode/zyneth-auth/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(svc AuthService) *gin.Engine {
	h := NewAuth(svc, ConfigReport{
		Environment:         "local",
		ClientIDSet:         true,
		ClientSecretSet:     false,
		FrontendRedirectURI: "http://localhost:5500/frontend/oauth-callback.html",
		FrontendURL:         "http://127.0.0.1:5500/frontend",
		BackendURL:          "http://localhost:8000",
	}, testutil.MakeNoopLogger())

	r := gin.New()
	r.GET("/auth/google/url", h.GoogleURL)
	r.POST("/auth/google/exchange", h.GoogleExchange)
	r.GET("/auth/test-config", h.TestConfig)
	r.POST("/auth/logout", h.Logout)
	return r
}

func TestAuth_GoogleURL(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "configured",
			url:        "https://accounts.google.com/o/oauth2/v2/auth?state=s",
			wantStatus: http.StatusOK,
			wantBody:   `{"auth_url":"https://accounts.google.com/o/oauth2/v2/auth?state=s"}`,
		},
		{
			name:       "not configured",
			err:        model.ErrConfiguration,
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"detail":"Google OAuth is not configured properly"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := servermocks.NewAuthService(t)
			svc.On("BuildAuthorizationURL", mock.Anything).Return(tt.url, tt.err)

			w := httptest.NewRecorder()
			newAuthRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/google/url", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestAuth_GoogleExchange(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(*servermocks.AuthService)
		wantStatus int
		wantBody   string
	}{
		{
			name: "success",
			body: `{"code":"abc123"}`,
			setupMock: func(m *servermocks.AuthService) {
				m.On("ExchangeCodeForSession", mock.Anything, model.ExchangeRequest{Code: "abc123"}).
					Return(model.ExchangeResult{Token: "jwt", UserID: "u1", Email: "a@b.com", Role: "user", IsNew: true}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"token":"jwt","user_id":"u1","email":"a@b.com","role":"user","is_new":true}`,
		},
		{
			name: "state forwarded",
			body: `{"code":"abc123","state":"st"}`,
			setupMock: func(m *servermocks.AuthService) {
				m.On("ExchangeCodeForSession", mock.Anything, model.ExchangeRequest{Code: "abc123", State: "st"}).
					Return(model.ExchangeResult{Token: "jwt", UserID: "u1", Email: "a@b.com", Role: "user"}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"token":"jwt","user_id":"u1","email":"a@b.com","role":"user","is_new":false}`,
		},
		{
			name:       "malformed body",
			body:       `{"code":`,
			setupMock:  func(*servermocks.AuthService) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"detail":"Invalid request body"}`,
		},
		{
			name: "empty code",
			body: `{"code":""}`,
			setupMock: func(m *servermocks.AuthService) {
				m.On("ExchangeCodeForSession", mock.Anything, model.ExchangeRequest{}).
					Return(model.ExchangeResult{}, fmt.Errorf("%w: no authorization code provided", model.ErrInvalidRequest))
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"detail":"No authorization code provided"}`,
		},
		{
			name: "upstream rejected",
			body: `{"code":"used"}`,
			setupMock: func(m *servermocks.AuthService) {
				m.On("ExchangeCodeForSession", mock.Anything, model.ExchangeRequest{Code: "used"}).
					Return(model.ExchangeResult{}, fmt.Errorf("%w: failed to exchange authorization code: invalid_grant: Bad Request", model.ErrUpstreamAuth))
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"detail":"Failed to exchange authorization code: invalid_grant: Bad Request"}`,
		},
		{
			name: "invalid profile",
			body: `{"code":"abc123"}`,
			setupMock: func(m *servermocks.AuthService) {
				m.On("ExchangeCodeForSession", mock.Anything, model.ExchangeRequest{Code: "abc123"}).
					Return(model.ExchangeResult{}, fmt.Errorf("%w: no email in Google user info", model.ErrInvalidProfile))
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"detail":"No email in Google user info"}`,
		},
		{
			name: "not configured",
			body: `{"code":"abc123"}`,
			setupMock: func(m *servermocks.AuthService) {
				m.On("ExchangeCodeForSession", mock.Anything, model.ExchangeRequest{Code: "abc123"}).
					Return(model.ExchangeResult{}, model.ErrConfiguration)
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"detail":"Google OAuth is not configured properly"}`,
		},
		{
			name: "user creation",
			body: `{"code":"abc123"}`,
			setupMock: func(m *servermocks.AuthService) {
				m.On("ExchangeCodeForSession", mock.Anything, model.ExchangeRequest{Code: "abc123"}).
					Return(model.ExchangeResult{}, fmt.Errorf("%w: duplicate key", model.ErrUserCreation))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"detail":"Failed to create user"}`,
		},
		{
			name: "unexpected withholds detail",
			body: `{"code":"abc123"}`,
			setupMock: func(m *servermocks.AuthService) {
				m.On("ExchangeCodeForSession", mock.Anything, model.ExchangeRequest{Code: "abc123"}).
					Return(model.ExchangeResult{}, fmt.Errorf("failed to get user by email: connection reset"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"detail":"Internal server error during authentication"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := servermocks.NewAuthService(t)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/auth/google/exchange", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			newAuthRouter(svc).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestAuth_TestConfig(t *testing.T) {
	svc := servermocks.NewAuthService(t)
	svc.On("Configured").Return(false)
	svc.On("VerifiesState").Return(true)

	w := httptest.NewRecorder()
	newAuthRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/test-config", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "local", body["environment"])
	assert.Equal(t, true, body["google_client_id_set"])
	assert.Equal(t, false, body["google_client_secret_set"])
	assert.Equal(t, false, body["google_oauth_configured"])
	assert.Equal(t, true, body["state_verification"])
	assert.Equal(t, "http://localhost:5500/frontend/oauth-callback.html", body["frontend_redirect_uri"])
	assert.Equal(t, "frontend-first", body["oauth_flow"])
	assert.NotContains(t, w.Body.String(), "secret\":\"")
}

func TestAuth_Logout(t *testing.T) {
	svc := servermocks.NewAuthService(t)

	w := httptest.NewRecorder()
	newAuthRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Logged out successfully"}`, w.Body.String())

	cookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, "access_token=;")
	assert.Contains(t, cookie, "Max-Age=0")
}
