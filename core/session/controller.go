package session

import (
	"context"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
)

type (
	// LoginResult mirrors the backend's /auth/login response.
	LoginResult struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		TokenType    string `json:"token_type"`
		Role         string `json:"role"`
		SchoolID     int    `json:"school_id"`
		UserID       int    `json:"user_id"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		Email        string `json:"email"`
	}

	// RefreshResult mirrors the backend's /auth/refresh response.
	// RefreshToken is empty unless the backend rotated it.
	RefreshResult struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}

	// Authenticator calls the backend auth endpoints. Implemented by
	// services/schoolapi; swapped for a mock in tests.
	Authenticator interface {
		Login(ctx context.Context, email, password string) (LoginResult, error)
		Refresh(ctx context.Context, refreshToken string) (RefreshResult, error)
	}

	// Controller mediates login, logout and token refresh for one principal.
	// It is the only writer of its Store; everything else reads through it.
	Controller struct {
		auth   Authenticator
		store  Store
		logger core.Logger

		interval time.Duration
		skew     time.Duration

		mu        sync.Mutex
		sess      Session
		inflight  *refreshCall
		onExpired []func()
	}

	// refreshCall is the shared result of one in-flight refresh; concurrent
	// callers wait on it instead of triggering their own (single flight).
	refreshCall struct {
		done  chan struct{}
		token string
		err   error
	}
)

var errBadLoginResponse = errors.New("invalid login response from server")

func NewController(conf *core.Config, auth Authenticator, store Store, logger core.Logger) *Controller {
	return &Controller{
		auth:     auth,
		store:    store,
		logger:   logger,
		interval: conf.API.RefreshInterval,
		skew:     conf.API.RefreshSkew,
		sess:     Session{Status: StatusUnauthenticated},
	}
}

// Current returns a snapshot of the session.
func (c *Controller) Current() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess
}

// OnExpired registers a hook run whenever the session definitively expires
// (failed refresh). Hooks run outside the controller lock.
func (c *Controller) OnExpired(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onExpired = append(c.onExpired, fn)
}

// Restore loads a previously persisted session. An incomplete or missing
// entry reads as no session and purges whatever was stored.
func (c *Controller) Restore() bool {
	sess, ok := c.store.Load()
	if !ok || sess.AccessToken == "" || sess.RefreshToken == "" || sess.User.ID == 0 {
		_ = c.store.Clear()
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	sess.Status = StatusAuthenticated
	c.sess = sess
	return true
}

// Login authenticates against the backend and, on success, persists the new
// session. Failures are returned as typed errors (see errors.go) and leave no
// partial state behind.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	c.mu.Lock()
	c.sess.Status = StatusAuthenticating
	c.mu.Unlock()

	res, err := c.auth.Login(ctx, core.CleanString(email, true /* lower */), password)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.sess = Session{Status: StatusUnauthenticated}
		if errors.Cause(err) == ErrInvalidCredentials {
			_ = c.store.Clear() // purge possibly stale local state
		}
		return err
	}
	if res.AccessToken == "" || res.UserID == 0 {
		c.sess = Session{Status: StatusUnauthenticated}
		return errBadLoginResponse
	}

	c.sess = Session{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		User:         newUserRecord(res, email),
		Status:       StatusAuthenticated,
	}
	if err := c.store.Save(c.sess); err != nil {
		// not fatal: the session just will not survive a restart
		c.logger.Warn("session not persisted", err)
	}
	return nil
}

// newUserRecord extracts the user identity from a login response, filling the
// gaps the backend is known to leave.
func newUserRecord(res LoginResult, loginEmail string) UserRecord {
	usr := UserRecord{
		ID:        res.UserID,
		SchoolID:  res.SchoolID,
		FirstName: res.FirstName,
		LastName:  res.LastName,
		Email:     res.Email,
		Role:      res.Role,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	if usr.SchoolID == 0 {
		usr.SchoolID = 1
	}
	if usr.Email == "" {
		usr.Email = core.CleanString(loginEmail, true /* lower */)
	}
	if usr.Role == "" {
		usr.Role = RoleAdmin
	}
	return usr
}

// Refresh exchanges the held refresh token for a new access token and returns
// it. At most one refresh is in flight at a time; concurrent callers share
// its outcome. Without a refresh token it fails fast, making no network call.
// A definitive rejection expires the session, clears the store and runs the
// expiry hooks; a transient failure leaves the session untouched.
func (c *Controller) Refresh(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.sess.RefreshToken == "" {
		c.mu.Unlock()
		return "", ErrNoRefreshToken
	}
	if call := c.inflight; call != nil {
		c.mu.Unlock()
		select {
		case <-call.done:
			return call.token, call.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	call := &refreshCall{done: make(chan struct{})}
	c.inflight = call
	refreshToken := c.sess.RefreshToken
	c.sess.Status = StatusRefreshing
	c.mu.Unlock()

	res, err := c.auth.Refresh(ctx, refreshToken)

	c.mu.Lock()
	c.inflight = nil
	var hooks []func()
	switch {
	case err != nil && Definitive(errors.Cause(err)):
		c.sess = Session{Status: StatusExpired}
		_ = c.store.Clear()
		call.err = ErrSessionExpired
		hooks = append(hooks, c.onExpired...)
	case err != nil:
		// transient: keep the session; the reactive 401 path recovers later
		c.sess.Status = StatusAuthenticated
		call.err = err
	case res.AccessToken == "":
		c.sess.Status = StatusAuthenticated
		call.err = errors.New("refresh response missing access token")
	default:
		c.sess.AccessToken = res.AccessToken
		if res.RefreshToken != "" {
			c.sess.RefreshToken = res.RefreshToken
		}
		c.sess.Status = StatusAuthenticated
		call.token = res.AccessToken
		if serr := c.store.Save(c.sess); serr != nil {
			c.logger.Warn("session not persisted", serr)
		}
	}
	close(call.done)
	c.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	return call.token, call.err
}

// Logout clears the session and its persisted copy. It works from any state
// and is idempotent.
func (c *Controller) Logout() {
	c.mu.Lock()
	c.sess = Session{Status: StatusUnauthenticated}
	c.mu.Unlock()
	_ = c.store.Clear()
}

// AccessToken returns the current access token, if any.
func (c *Controller) AccessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.AccessToken
}

// RefreshAccessToken lets the HTTP client recover from a 401 (schoolapi.TokenSource).
func (c *Controller) RefreshAccessToken(ctx context.Context) (string, error) {
	return c.Refresh(ctx)
}

// StartAutoRefresh proactively refreshes the access token for as long as the
// session stays authenticated, to avoid user-visible expiry during active
// use. Best effort: failures are left to the reactive 401 path. Returns once
// the goroutine is started; stops when ctx is done.
func (c *Controller) StartAutoRefresh(ctx context.Context) {
	go func() {
		timer := time.NewTimer(c.nextRefreshIn())
		defer timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
				if c.Current().Authenticated() {
					if _, err := c.Refresh(ctx); err != nil && !Definitive(errors.Cause(err)) {
						c.logger.Warn("proactive token refresh failed", err)
					}
				}
				timer.Reset(c.nextRefreshIn())
			}
		}
	}()
}

// nextRefreshIn schedules off the token's exp claim when the access token is
// a readable JWT; opaque tokens fall back to the fixed interval.
func (c *Controller) nextRefreshIn() time.Duration {
	if exp, ok := tokenExpiry(c.AccessToken()); ok {
		if d := time.Until(exp) - c.skew; d > time.Minute {
			return d
		}
		return time.Minute
	}
	return c.interval
}

// tokenExpiry extracts the exp claim without verifying the signature; the
// backend owns verification, we only need a scheduling hint.
func tokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(int64(exp), 0), true
}
