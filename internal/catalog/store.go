package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/crofthq/croft/internal/logging"
)

// AliasSuffix marks documents that are aliases of another context. Alias
// files are skipped during listing so the same project never matches twice.
const AliasSuffix = ".alias.json"

// documentSuffix is the extension of regular context documents.
const documentSuffix = ".json"

// Store provides access to the context catalog, independent of the storage
// medium.
type Store interface {
	// List returns all contexts, sorted lexically by ID.
	List(ctx context.Context) ([]*Context, error)

	// Load retrieves one context by ID.
	Load(ctx context.Context, id string) (*Context, error)

	// Save writes a context document in full, atomically.
	Save(ctx context.Context, c *Context) error
}

// FSStore keeps one JSON document per context in a flat directory.
type FSStore struct {
	dir string
	log *logging.Logger

	mu      sync.Mutex
	cache   []*Context
	watcher *fsnotify.Watcher
}

// NewFSStore opens (creating if needed) a filesystem catalog at dir.
func NewFSStore(dir string, log *logging.Logger) (*FSStore, error) {
	if log == nil {
		log = logging.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory: %w", err)
	}
	return &FSStore{dir: dir, log: log}, nil
}

// Watch starts invalidating the listing cache on any filesystem event in
// the catalog directory, so externally edited documents are picked up
// without restarting. Call Close to release the watcher.
func (s *FSStore) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create catalog watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch catalog directory: %w", err)
	}

	s.mu.Lock()
	s.watcher = watcher
	s.mu.Unlock()

	go func() {
		for {
			select {
			case _, ok := <-watcher.Events:
				if !ok {
					return
				}
				s.invalidate()
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return nil
}

// Close releases the watcher if one was started.
func (s *FSStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watcher == nil {
		return nil
	}
	err := s.watcher.Close()
	s.watcher = nil
	return err
}

func (s *FSStore) invalidate() {
	s.mu.Lock()
	s.cache = nil
	s.mu.Unlock()
}

// List returns all contexts sorted lexically by ID. Alias documents and
// corrupted documents are skipped; corruption is logged, not fatal.
func (s *FSStore) List(ctx context.Context) ([]*Context, error) {
	s.mu.Lock()
	if s.cache != nil && s.watcher != nil {
		cached := s.cache
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog directory: %w", err)
	}

	contexts := []*Context{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, documentSuffix) {
			continue
		}
		if strings.HasSuffix(name, AliasSuffix) {
			continue
		}

		c, err := s.readDocument(filepath.Join(s.dir, name))
		if err != nil {
			s.log.Warn(ctx, "skipping unreadable context document",
				zap.String("file", name), zap.Error(err))
			continue
		}
		contexts = append(contexts, c)
	}

	sort.Slice(contexts, func(i, j int) bool { return contexts[i].ID < contexts[j].ID })

	s.mu.Lock()
	if s.watcher != nil {
		s.cache = contexts
	}
	s.mu.Unlock()

	return contexts, nil
}

// Load retrieves one context by ID. A corrupted document is an error here,
// unlike during listing.
func (s *FSStore) Load(ctx context.Context, id string) (*Context, error) {
	if id == "" {
		return nil, ErrEmptyContextID
	}
	c, err := s.readDocument(s.path(id))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrContextNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Save writes the full document atomically: temp file in the same
// directory, then rename. A reader never observes a half-written context.
func (s *FSStore) Save(ctx context.Context, c *Context) error {
	if err := c.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode context %s: %w", c.ID, err)
	}

	tmp, err := os.CreateTemp(s.dir, c.ID+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp document: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write context %s: %w", c.ID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp document: %w", err)
	}
	if err := os.Rename(tmpName, s.path(c.ID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace context %s: %w", c.ID, err)
	}

	s.invalidate()
	return nil
}

func (s *FSStore) path(id string) string {
	return filepath.Join(s.dir, id+documentSuffix)
}

func (s *FSStore) readDocument(path string) (*Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Context
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptDocument, filepath.Base(path), err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptDocument, filepath.Base(path), err)
	}
	return &c, nil
}
