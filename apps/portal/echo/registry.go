package echoportal

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/session"
	"github.com/darasahq/darasa/services/schoolapi"
	memstore "github.com/darasahq/darasa/storage/session/inmem"
)

type (
	// Registry maps browser cookies to their backend sessions. One signed-in
	// browser gets one session controller and one API client.
	Registry struct {
		conf   *core.Config
		auth   session.Authenticator
		logger core.Logger

		mu       sync.Mutex
		sessions map[string]*portalSession
	}

	portalSession struct {
		ctrl      *session.Controller
		api       *schoolapi.Client
		createdAt time.Time
		cancel    context.CancelFunc
	}
)

func NewRegistry(conf *core.Config, auth session.Authenticator, logger core.Logger) *Registry {
	return &Registry{
		conf:     conf,
		auth:     auth,
		logger:   logger,
		sessions: make(map[string]*portalSession),
	}
}

// Login authenticates against the backend and registers the resulting session
// under a fresh opaque id for the browser cookie.
func (r *Registry) Login(ctx context.Context, email, password string) (string, *portalSession, error) {
	ctrl := session.NewController(r.conf, r.auth, memstore.New(), r.logger)
	if err := ctrl.Login(ctx, email, password); err != nil {
		return "", nil, err
	}

	api := schoolapi.NewClient(&schoolapi.Options{
		BaseURL: r.conf.API.BaseURL,
		Timeout: r.conf.API.Timeout,
	}, ctrl)

	id := uuid.New().String()
	refreshCtx, cancel := context.WithCancel(context.Background())
	ctrl.StartAutoRefresh(refreshCtx)
	ctrl.OnExpired(func() { r.Remove(id) }) // an expired backend session drops the cookie too

	ps := &portalSession{ctrl: ctrl, api: api, createdAt: time.Now(), cancel: cancel}
	r.mu.Lock()
	r.sessions[id] = ps
	r.mu.Unlock()
	return id, ps, nil
}

// Get resolves a cookie id; sessions past their max age read as gone.
func (r *Registry) Get(id string) (*portalSession, bool) {
	r.mu.Lock()
	ps, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return nil, false
	}
	if age := time.Since(ps.createdAt); age > r.conf.Server.SessionMaxAge {
		r.Remove(id)
		return nil, false
	}
	return ps, true
}

// Remove logs the session out and forgets it. Safe to call for unknown ids
// and safe to call twice.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	ps, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		ps.cancel()
		ps.ctrl.Logout()
	}
}
