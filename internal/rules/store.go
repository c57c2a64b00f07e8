// Package rules persists the optional project rules document uploaded by the
// user; its verbatim text is attached to query responses on request.
package rules

import (
	"fmt"
	"os"
	"path/filepath"
)

// Filename is the canonical on-disk name of the active rules document.
const Filename = "project_rules.md"

// Store keeps the rules document in a local uploads directory.
type Store struct {
	dir string
}

// NewStore creates a rules store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path() string {
	return filepath.Join(s.dir, Filename)
}

// Save replaces the active rules document with content.
func (s *Store) Save(content []byte) error {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}
	if err := os.WriteFile(s.path(), content, 0o600); err != nil {
		return fmt.Errorf("write rules file: %w", err)
	}
	return nil
}

// Load returns the rules text. Callers should gate on Exists first; a missing
// file is an error here, not an empty document.
func (s *Store) Load() (string, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		return "", fmt.Errorf("read rules file: %w", err)
	}
	return string(data), nil
}

// Exists reports whether a rules document has been uploaded.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path())
	return err == nil
}
