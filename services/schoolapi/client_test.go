package schoolapi

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type tokenSourceMock struct {
	mu           sync.Mutex
	token        string
	refreshFunc  func(ctx context.Context) (string, error)
	refreshCalls int
}

func (ts *tokenSourceMock) AccessToken() string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.token
}

func (ts *tokenSourceMock) RefreshAccessToken(ctx context.Context) (string, error) {
	ts.mu.Lock()
	ts.refreshCalls++
	ts.mu.Unlock()
	tok, err := ts.refreshFunc(ctx)
	if err == nil {
		ts.mu.Lock()
		ts.token = tok
		ts.mu.Unlock()
	}
	return tok, err
}

func newTestClient(srvURL string, tokens TokenSource) *Client {
	return NewClient(&Options{BaseURL: srvURL}, tokens)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_bearerInjection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer T1", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, []User{})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, &tokenSourceMock{token: "T1"})
	_, err := c.Users(context.Background(), 5)
	assert.NoError(t, err)
}

func TestClient_retriesOnceAfterRefresh(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if r.Header.Get("Authorization") != "Bearer T2" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
			return
		}
		writeJSON(w, http.StatusOK, []User{{ID: 1, Email: "jane@school.test"}})
	}))
	defer srv.Close()

	tokens := &tokenSourceMock{
		token:       "T1",
		refreshFunc: func(context.Context) (string, error) { return "T2", nil },
	}
	c := newTestClient(srv.URL, tokens)

	users, err := c.Users(context.Background(), 5)
	assert.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 1, tokens.refreshCalls)
}

func TestClient_secondUnauthorizedIsFinal(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
	}))
	defer srv.Close()

	tokens := &tokenSourceMock{
		token:       "T1",
		refreshFunc: func(context.Context) (string, error) { return "T2", nil },
	}
	c := newTestClient(srv.URL, tokens)

	_, err := c.Users(context.Background(), 5)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.Equal(t, 2, attempts) // never a third attempt
	assert.Equal(t, 1, tokens.refreshCalls)
}

func TestClient_failedRefreshAbortsRetry(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
	}))
	defer srv.Close()

	wantErr := errors.New("session expired")
	tokens := &tokenSourceMock{
		token:       "T1",
		refreshFunc: func(context.Context) (string, error) { return "", wantErr },
	}
	c := newTestClient(srv.URL, tokens)

	_, err := c.Users(context.Background(), 5)
	assert.Equal(t, wantErr, errors.Cause(err))
	assert.Equal(t, 1, attempts)
}

func TestClient_unauthenticatedRequestNotRetried(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
	}))
	defer srv.Close()

	tokens := &tokenSourceMock{
		refreshFunc: func(context.Context) (string, error) { return "T2", nil },
	}
	c := newTestClient(srv.URL, tokens)

	_, err := c.Users(context.Background(), 5)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.Equal(t, 1, attempts)
	assert.Zero(t, tokens.refreshCalls)
}

func TestClient_replaysBodyOnRetry(t *testing.T) {
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := ioutil.ReadAll(r.Body)
		bodies = append(bodies, string(data))
		if r.Header.Get("Authorization") != "Bearer T2" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
			return
		}
		writeJSON(w, http.StatusOK, User{ID: 2, Email: "jane@school.test"})
	}))
	defer srv.Close()

	tokens := &tokenSourceMock{
		token:       "T1",
		refreshFunc: func(context.Context) (string, error) { return "T2", nil },
	}
	c := newTestClient(srv.URL, tokens)

	_, err := c.CreateUser(context.Background(), 5, NewUser{
		Email:     "jane@school.test",
		Password:  "secret1234",
		FirstName: "Jane",
		LastName:  "Doe",
		Role:      "teacher",
	})
	assert.NoError(t, err)
	assert.Len(t, bodies, 2)
	assert.JSONEq(t, bodies[0], bodies[1]) // identical payload on the replay
}

func TestClient_apiErrorDetail(t *testing.T) {
	tests := []struct {
		name string
		code int
		body string
		want string
	}{
		{"detail key", http.StatusNotFound, `{"detail": "User not found"}`, "User not found"},
		{"message key", http.StatusConflict, `{"message": "Email already registered"}`, "Email already registered"},
		{"error key", http.StatusBadRequest, `{"error": "invalid payload"}`, "invalid payload"},
		{"unparseable body", http.StatusInternalServerError, "<html>boom</html>", "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := newTestClient(srv.URL, &tokenSourceMock{token: "T1"})
			_, err := c.Users(context.Background(), 5)

			assert.True(t, IsStatus(err, tt.code))
			apiErr := errors.Cause(err).(*APIError)
			assert.Equal(t, tt.want, apiErr.Detail)
		})
	}
}

func TestClient_connectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens anymore

	c := newTestClient(srv.URL, &tokenSourceMock{token: "T1"})
	_, err := c.Users(context.Background(), 5)
	assert.Equal(t, ErrUnavailable, errors.Cause(err))
}
