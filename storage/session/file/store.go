// Package filestore persists the session token pair and user record to a
// JSON file under the user config dir, the desktop analogue of browser local
// storage. A missing or unreadable file reads as "no session".
package filestore

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/session"
)

// Persisted layout: three flat string values under fixed keys.
type envelope struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	User         json.RawMessage `json:"user"`
}

type Store struct {
	path string
	mu   sync.Mutex
}

var _ session.Store = (*Store)(nil)

// Open prepares a store at path. It fails when the directory cannot be
// created or written; callers degrade to the in-memory store in that case.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("no session file path configured")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "creating session dir")
	}
	probe, err := ioutil.TempFile(dir, ".probe*")
	if err != nil {
		return nil, errors.Wrap(err, "probing session dir")
	}
	_ = probe.Close()
	_ = os.Remove(probe.Name())
	return &Store{path: path}, nil
}

func (s *Store) Save(sess session.Session) error {
	usr, err := json.Marshal(sess.User)
	if err != nil {
		return errors.Wrap(err, "serializing user record")
	}
	data, err := json.Marshal(envelope{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		User:         usr,
	})
	if err != nil {
		return errors.Wrap(err, "serializing session")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// write-then-rename so a crash never leaves a torn file behind
	tmp, err := ioutil.TempFile(filepath.Dir(s.path), ".session*")
	if err != nil {
		return errors.Wrap(err, "creating temp session file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "writing session file")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing session file")
	}
	if err = os.Chmod(tmp.Name(), 0o600); err != nil {
		return errors.Wrap(err, "restricting session file")
	}
	return errors.Wrap(os.Rename(tmp.Name(), s.path), "saving session file")
}

func (s *Store) Load() (session.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := ioutil.ReadFile(s.path)
	if err != nil {
		return session.Session{}, false
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return session.Session{}, false
	}
	if env.AccessToken == "" || env.RefreshToken == "" || len(env.User) == 0 {
		return session.Session{}, false
	}
	var usr session.UserRecord
	if err := json.Unmarshal(env.User, &usr); err != nil {
		return session.Session{}, false
	}
	return session.Session{
		AccessToken:  env.AccessToken,
		RefreshToken: env.RefreshToken,
		User:         usr,
	}, true
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "clearing session file")
	}
	return nil
}
