package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/zalando/go-keyring"
)

const (
	keyringService = "pos-system"
	keyringUser    = "session-signing-key"
	keyLength      = 32
)

// LoadSigningKey returns the session signing key, preferring the OS keyring
// and falling back to a key file when no keyring is available (headless
// terminals, CI). The key is generated on first use.
func LoadSigningKey(fallbackPath string, log zerolog.Logger) ([]byte, error) {
	stored, err := keyring.Get(keyringService, keyringUser)
	if err == nil {
		key, decErr := base64.StdEncoding.DecodeString(stored)
		if decErr == nil && len(key) == keyLength {
			return key, nil
		}
		log.Warn().Msg("keyring held a malformed session key, regenerating")
	} else if !errors.Is(err, keyring.ErrNotFound) {
		log.Debug().Err(err).Msg("system keyring unavailable, using key file")
		return keyFromFile(fallbackPath)
	}

	key, err := newKey()
	if err != nil {
		return nil, err
	}
	if err := keyring.Set(keyringService, keyringUser, base64.StdEncoding.EncodeToString(key)); err != nil {
		log.Debug().Err(err).Msg("failed to store key in keyring, using key file")
		return keyFromFile(fallbackPath)
	}
	return key, nil
}

func newKey() ([]byte, error) {
	key := make([]byte, keyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate session key: %w", err)
	}
	return key, nil
}

func keyFromFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		key, decErr := base64.StdEncoding.DecodeString(string(data))
		if decErr == nil && len(key) == keyLength {
			return key, nil
		}
		// Malformed key file invalidates any existing slot; regenerate.
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read session key file: %w", err)
	}

	key, err := newKey()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(base64.StdEncoding.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write session key file: %w", err)
	}
	return key, nil
}
