// Package memstore is the in-memory session store: the degraded mode when no
// persistent path is usable, and the default for tests and portal sessions.
// Nothing survives a restart.
package memstore

import (
	"sync"

	"github.com/darasahq/darasa/core/session"
)

type Store struct {
	mu   sync.RWMutex
	sess session.Session
	set  bool
}

var _ session.Store = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) Save(sess session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = sess
	s.set = true
	return nil
}

func (s *Store) Load() (session.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return session.Session{}, false
	}
	return s.sess, true
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = session.Session{}
	s.set = false
	return nil
}
