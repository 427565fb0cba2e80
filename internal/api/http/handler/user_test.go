package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	httpctx "github.com/dtroode/zyneth-auth/internal/api/http/context"
	servermocks "github.com/dtroode/zyneth-auth/internal/mocks"
	"github.com/dtroode/zyneth-auth/internal/model"
	"github.com/dtroode/zyneth-auth/internal/testutil"
)

func TestUser_Me(t *testing.T) {
	claims := model.SessionClaims{Email: "a@b.com", Role: model.RoleUser}
	id := uuid.New()
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name       string
		withClaims bool
		setupMock  func(*servermocks.UserService)
		wantStatus int
		wantBody   string
	}{
		{
			name:       "no session",
			setupMock:  func(*servermocks.UserService) {},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"detail":"Not authenticated"}`,
		},
		{
			name:       "found",
			withClaims: true,
			setupMock: func(m *servermocks.UserService) {
				m.On("Current", mock.Anything, claims).Return(model.User{
					ID: id, Email: "a@b.com", Role: model.RoleUser, FullName: "A B", CreatedAt: created,
				}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"id":"` + id.String() + `","email":"a@b.com","role":"user","full_name":"A B","avatar_url":null,"created_at":"2025-01-02T03:04:05Z"}`,
		},
		{
			name:       "user vanished",
			withClaims: true,
			setupMock: func(m *servermocks.UserService) {
				m.On("Current", mock.Anything, claims).Return(model.User{}, model.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantBody:   `{"detail":"User not found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := servermocks.NewUserService(t)
			tt.setupMock(svc)
			ctxMgr := httpctx.NewManager()
			h := NewUser(svc, ctxMgr, testutil.MakeNoopLogger())

			r := gin.New()
			r.GET("/users/me", func(c *gin.Context) {
				if tt.withClaims {
					c.Request = c.Request.WithContext(ctxMgr.SetSessionToContext(c.Request.Context(), claims))
				}
				c.Next()
			}, h.Me)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/me", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}
