package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/peteski22/offersync/internal/sync"
)

// FileSessionStore stores the session in a local JSON file.
type FileSessionStore struct {
	path string
}

// NewFileSessionStore creates a new FileSessionStore that reads/writes to the given path.
func NewFileSessionStore(path string) (*FileSessionStore, error) {
	if path == "" {
		return nil, fmt.Errorf("session file path is required")
	}
	return &FileSessionStore{path: path}, nil
}

// AccountIdentity returns the identity stored in the session file.
func (s *FileSessionStore) AccountIdentity(_ context.Context) (sync.Identity, error) {
	session, err := s.Load()
	if err != nil {
		return sync.Identity{}, err
	}
	return session.Identity(), nil
}

// AuthToken returns the stored token. A missing file yields an empty token.
func (s *FileSessionStore) AuthToken(_ context.Context) (string, time.Time, error) {
	session, err := s.Load()
	if err != nil {
		return "", time.Time{}, err
	}
	return session.Token, session.ExpiresAt, nil
}

// Invalidate removes the session file.
func (s *FileSessionStore) Invalidate(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}

// Load reads the session file. A missing file yields an empty session.
func (s *FileSessionStore) Load() (Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, nil
		}
		return Session{}, fmt.Errorf("reading session file: %w", err)
	}

	return decodeSession(data)
}

// Save writes the session to the file, creating its directory if needed.
func (s *FileSessionStore) Save(session Session) error {
	if err := session.validate(); err != nil {
		return fmt.Errorf("invalid session: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	if err := os.WriteFile(s.path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}

	return nil
}
