package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// CredentialStore persists the narration provider credential across
// sessions as a single opaque string in one well-known file. It is read
// once at startup and rewritten on every edit.
type CredentialStore struct {
	path string

	mu    sync.RWMutex
	value string
}

// OpenCredentialStore loads the credential at path. A missing file is not
// an error; the store starts empty.
func OpenCredentialStore(path string) (*CredentialStore, error) {
	s := &CredentialStore{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read credential %s: %w", path, err)
	}
	s.value = strings.TrimSpace(string(data))
	return s, nil
}

// Get returns the current credential, or "" if none is configured.
func (s *CredentialStore) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set stores the credential and rewrites the backing file.
func (s *CredentialStore) Set(value string) error {
	value = strings.TrimSpace(value)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create credential dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(value+"\n"), 0o600); err != nil {
		return fmt.Errorf("write credential %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.value = value
	s.mu.Unlock()
	return nil
}
