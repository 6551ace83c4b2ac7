package kv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore keeps one JSON document per key under a root directory.
// Writes are atomic: temp file in the same directory, then rename.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore opens (creating if needed) a file-backed store at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Get returns the value stored under key.
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return data, nil
}

// Set writes value under key atomically.
func (s *FileStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(key, value)
}

// Update applies fn as one read-modify-write unit. The in-process mutex
// serializes updates within this process; cross-process callers still race
// with last-write-wins semantics.
func (s *FileStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := os.ReadFile(s.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read key %s: %w", key, err)
		}
		current = nil
	}

	next, err := fn(current)
	if err != nil {
		return err
	}
	return s.write(key, next)
}

func (s *FileStore) write(key string, value []byte) error {
	path := s.path(key)
	tmp, err := os.CreateTemp(s.dir, sanitizeKey(key)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for key %s: %w", key, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file for key %s: %w", key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace key %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, sanitizeKey(key)+".json")
}

// sanitizeKey maps a key to a safe flat filename. Keys use ':' and '/' as
// namespace separators; both become '_'.
func sanitizeKey(key string) string {
	replacer := strings.NewReplacer(":", "_", "/", "_", string(filepath.Separator), "_")
	return replacer.Replace(key)
}
