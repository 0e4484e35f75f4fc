package kv

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore keeps each key in its own file under dir, the closest server-side
// analogue to a browser's local storage. Writes go through a temp file and
// rename so a crashed write never leaves a half-written value behind.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path(key))

	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrKeyNotFound
		}
		return "", err
	}

	return string(b), nil
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := s.path(key) + ".tmp"

	if err := os.WriteFile(tmp, []byte(value), 0o600); err != nil {
		return err
	}

	return os.Rename(tmp, s.path(key))
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(key))

	if err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

func (s *FileStore) path(key string) string {
	// keys are fixed identifiers, but keep path traversal out anyway
	safe := strings.ReplaceAll(key, string(os.PathSeparator), "_")

	return filepath.Join(s.dir, safe)
}
