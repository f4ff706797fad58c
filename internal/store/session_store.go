package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"palmpay/internal/domain"
)

const sessionFilename = "session.enc"

// SessionFileStore persists the authenticated session encrypted at rest.
type SessionFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewSessionFileStore returns a SessionFileStore rooted at dir.
func NewSessionFileStore(dir string) *SessionFileStore {
	return &SessionFileStore{dir: dir}
}

// SaveSession seals the session under passphrase and writes it to disk.
func (s *SessionFileStore) SaveSession(passphrase string, session domain.SessionContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	sealed, err := seal(passphrase, raw)
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(s.dir, sessionFilename), sealed, 0o600)
}

// LoadSession decrypts the stored session. A missing file reports
// (zero, false, nil): the user simply has not logged in.
func (s *SessionFileStore) LoadSession(passphrase string) (domain.SessionContext, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := readFile(filepath.Join(s.dir, sessionFilename))
	if err != nil {
		return domain.SessionContext{}, false, err
	}
	if b == nil {
		return domain.SessionContext{}, false, nil
	}
	raw, err := open(passphrase, b)
	if err != nil {
		return domain.SessionContext{}, false, err
	}
	var session domain.SessionContext
	if err := json.Unmarshal(raw, &session); err != nil {
		return domain.SessionContext{}, false, err
	}
	return session, true, nil
}

// ClearSession removes the stored session, if any.
func (s *SessionFileStore) ClearSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(filepath.Join(s.dir, sessionFilename))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Compile-time assertion that SessionFileStore implements domain.SessionStore.
var _ domain.SessionStore = (*SessionFileStore)(nil)
