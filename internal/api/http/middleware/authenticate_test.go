package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpctx "github.com/dtroode/zyneth-auth/internal/api/http/context"
	servermocks "github.com/dtroode/zyneth-auth/internal/mocks"
	"github.com/dtroode/zyneth-auth/internal/model"
	"github.com/dtroode/zyneth-auth/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthenticate_Handle(t *testing.T) {
	claims := model.SessionClaims{Email: "a@b.com", Role: model.RoleUser, ExpiresAt: time.Now().Add(time.Minute)}

	tests := []struct {
		name       string
		prepare    func(*http.Request)
		setupMock  func(*servermocks.SessionIssuer)
		wantStatus int
	}{
		{
			name:       "missing credentials",
			prepare:    func(*http.Request) {},
			setupMock:  func(*servermocks.SessionIssuer) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "non bearer scheme",
			prepare:    func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") },
			setupMock:  func(*servermocks.SessionIssuer) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:    "invalid token",
			prepare: func(r *http.Request) { r.Header.Set("Authorization", "Bearer bad") },
			setupMock: func(m *servermocks.SessionIssuer) {
				m.On("ParseSession", "bad").Return(model.SessionClaims{}, assert.AnError)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:    "valid bearer",
			prepare: func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") },
			setupMock: func(m *servermocks.SessionIssuer) {
				m.On("ParseSession", "good").Return(claims, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:    "valid cookie",
			prepare: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good"}) },
			setupMock: func(m *servermocks.SessionIssuer) {
				m.On("ParseSession", "good").Return(claims, nil)
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := servermocks.NewSessionIssuer(t)
			tt.setupMock(sessions)
			ctxMgr := httpctx.NewManager()

			mw := NewAuthenticate(sessions, ctxMgr, testutil.MakeNoopLogger())

			r := gin.New()
			r.GET("/protected", mw.Handle, func(c *gin.Context) {
				got, ok := ctxMgr.GetSessionFromContext(c.Request.Context())
				require.True(t, ok)
				c.JSON(http.StatusOK, gin.H{"email": got.Email})
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			tt.prepare(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
				assert.Contains(t, w.Body.String(), "detail")
			} else {
				assert.JSONEq(t, `{"email":"a@b.com"}`, w.Body.String())
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer  abc "))
	assert.Empty(t, bearerToken("Bearer"))
	assert.Empty(t, bearerToken("Token abc"))
	assert.Empty(t, bearerToken(""))
}
