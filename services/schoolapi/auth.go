package schoolapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/session"
)

// AuthService calls the unauthenticated auth endpoints. It deliberately holds
// no TokenSource: login and refresh never carry a bearer token and must not
// enter the 401 retry cycle.
type AuthService struct {
	base string
	http *http.Client
}

var _ session.Authenticator = (*AuthService)(nil)

func NewAuthService(opts *Options) *AuthService {
	return &AuthService{
		base: strings.TrimRight(opts.BaseURL, "/"),
		http: newHTTPClient(opts),
	}
}

// Login submits credentials form-encoded, the OAuth2-style contract of the
// backend: the email travels in the "username" field.
func (s *AuthService) Login(ctx context.Context, email, password string) (session.LoginResult, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.base+"/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return session.LoginResult{}, errors.Wrap(err, "building login request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.http.Do(req)
	if err != nil {
		return session.LoginResult{}, normalizeNetErr(err)
	}
	defer drainClose(resp)

	switch resp.StatusCode {
	case http.StatusOK:
		var res session.LoginResult
		if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
			return session.LoginResult{}, errors.Wrap(err, "decoding login response")
		}
		return res, nil
	case http.StatusUnauthorized:
		return session.LoginResult{}, session.ErrInvalidCredentials
	case http.StatusNotFound:
		return session.LoginResult{}, session.ErrAccountNotFound
	case http.StatusForbidden:
		return session.LoginResult{}, session.ErrAccountSuspended
	default:
		return session.LoginResult{}, newAPIError(resp)
	}
}

// Refresh exchanges the refresh token for a new access token. The backend may
// rotate the refresh token; the result carries it only when it did.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (session.RefreshResult, error) {
	body, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return session.RefreshResult{}, errors.Wrap(err, "encoding refresh request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.base+"/auth/refresh", strings.NewReader(string(body)))
	if err != nil {
		return session.RefreshResult{}, errors.Wrap(err, "building refresh request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return session.RefreshResult{}, normalizeNetErr(err)
	}
	defer drainClose(resp)

	switch resp.StatusCode {
	case http.StatusOK:
		var res session.RefreshResult
		if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
			return session.RefreshResult{}, errors.Wrap(err, "decoding refresh response")
		}
		return res, nil
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return session.RefreshResult{}, session.ErrSessionExpired
	default:
		return session.RefreshResult{}, newAPIError(resp)
	}
}
