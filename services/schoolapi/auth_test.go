package schoolapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/darasahq/darasa/core/session"
)

func TestAuthService_Login(t *testing.T) {
	t.Run("submits credentials form-encoded", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/auth/login", r.URL.Path)
			assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
			assert.Empty(t, r.Header.Get("Authorization"))
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "jane@school.test", r.PostFormValue("username"))
			assert.Equal(t, "secret1234", r.PostFormValue("password"))
			writeJSON(w, http.StatusOK, session.LoginResult{
				AccessToken:  "T1",
				RefreshToken: "R1",
				TokenType:    "bearer",
				Role:         session.RoleAdmin,
				SchoolID:     5,
				UserID:       1,
			})
		}))
		defer srv.Close()

		svc := NewAuthService(&Options{BaseURL: srv.URL})
		res, err := svc.Login(context.Background(), "jane@school.test", "secret1234")
		assert.NoError(t, err)
		assert.Equal(t, "T1", res.AccessToken)
		assert.Equal(t, "R1", res.RefreshToken)
		assert.Equal(t, 5, res.SchoolID)
		assert.Equal(t, 1, res.UserID)
	})

	t.Run("maps backend rejections to typed errors", func(t *testing.T) {
		tests := []struct {
			name    string
			code    int
			wantErr error
		}{
			{"bad credentials", http.StatusUnauthorized, session.ErrInvalidCredentials},
			{"unknown account", http.StatusNotFound, session.ErrAccountNotFound},
			{"suspended account", http.StatusForbidden, session.ErrAccountSuspended},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					writeJSON(w, tt.code, map[string]string{"detail": tt.name})
				}))
				defer srv.Close()

				svc := NewAuthService(&Options{BaseURL: srv.URL})
				_, err := svc.Login(context.Background(), "jane@school.test", "x")
				assert.Equal(t, tt.wantErr, errors.Cause(err))
			})
		}
	})

	t.Run("server fault is an API error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "database down"})
		}))
		defer srv.Close()

		svc := NewAuthService(&Options{BaseURL: srv.URL})
		_, err := svc.Login(context.Background(), "jane@school.test", "x")
		assert.True(t, IsStatus(err, http.StatusInternalServerError))
	})

	t.Run("unreachable backend is a transient error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		svc := NewAuthService(&Options{BaseURL: srv.URL})
		_, err := svc.Login(context.Background(), "jane@school.test", "x")
		assert.Equal(t, ErrUnavailable, errors.Cause(err))
	})
}

func TestAuthService_Refresh(t *testing.T) {
	t.Run("exchanges the refresh token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/refresh", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "R1", body["refresh_token"])
			writeJSON(w, http.StatusOK, session.RefreshResult{AccessToken: "T2"})
		}))
		defer srv.Close()

		svc := NewAuthService(&Options{BaseURL: srv.URL})
		res, err := svc.Refresh(context.Background(), "R1")
		assert.NoError(t, err)
		assert.Equal(t, "T2", res.AccessToken)
		assert.Empty(t, res.RefreshToken) // not rotated
	})

	t.Run("carries a rotated refresh token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, session.RefreshResult{AccessToken: "T2", RefreshToken: "R2"})
		}))
		defer srv.Close()

		svc := NewAuthService(&Options{BaseURL: srv.URL})
		res, err := svc.Refresh(context.Background(), "R1")
		assert.NoError(t, err)
		assert.Equal(t, "R2", res.RefreshToken)
	})

	t.Run("rejection means the session is gone", func(t *testing.T) {
		for _, code := range []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound} {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, code, map[string]string{"detail": "invalid refresh token"})
			}))

			svc := NewAuthService(&Options{BaseURL: srv.URL})
			_, err := svc.Refresh(context.Background(), "R1")
			assert.Equal(t, session.ErrSessionExpired, errors.Cause(err))
			srv.Close()
		}
	})
}
