// Package session persists the single client-side session slot. The slot
// holds a signed snapshot of the authenticated identity; anything unreadable
// or tampered reads as empty, failing safe to logged-out.
package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/riaziiii/pos-system/internal/repository"
	"github.com/riaziiii/pos-system/pkg/sessiontoken"
)

// FileStore keeps the session slot in a token file on disk.
type FileStore struct {
	path   string
	signer *sessiontoken.Signer
	log    zerolog.Logger
}

// NewFileStore creates a file-backed session store.
func NewFileStore(path string, signer *sessiontoken.Signer, log zerolog.Logger) *FileStore {
	return &FileStore{path: path, signer: signer, log: log}
}

// Get reads the cached identity. A missing file is an empty slot; a corrupt
// or tampered token is dropped and also reads as empty.
func (s *FileStore) Get() (*repository.User, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session slot: %w", err)
	}

	snapshot, err := s.signer.Unwrap(string(bytes.TrimSpace(data)))
	if err != nil {
		s.log.Warn().Msg("discarding unreadable session slot")
		_ = os.Remove(s.path)
		return nil, nil
	}

	user := &repository.User{}
	if err := json.Unmarshal(snapshot, user); err != nil || user.ID == "" {
		s.log.Warn().Msg("discarding malformed session snapshot")
		_ = os.Remove(s.path)
		return nil, nil
	}
	return user, nil
}

// Set replaces the slot with a signed snapshot of the identity.
func (s *FileStore) Set(u *repository.User) error {
	snapshot, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to encode session snapshot: %w", err)
	}

	token, err := s.signer.Wrap(snapshot)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("failed to write session slot: %w", err)
	}
	return nil
}

// Clear empties the slot. Clearing an empty slot is not an error.
func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear session slot: %w", err)
	}
	return nil
}

// MemoryStore is a volatile session slot for tests and ephemeral terminals.
type MemoryStore struct {
	user *repository.User
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get() (*repository.User, error) {
	if s.user == nil {
		return nil, nil
	}
	c := *s.user
	return &c, nil
}

func (s *MemoryStore) Set(u *repository.User) error {
	c := *u
	s.user = &c
	return nil
}

func (s *MemoryStore) Clear() error {
	s.user = nil
	return nil
}
