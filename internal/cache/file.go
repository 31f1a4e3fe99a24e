package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/tkilaker/magazine/internal/logger"
	"github.com/tkilaker/magazine/internal/magazine"
)

// DefaultDir is where file records live when no directory is configured
func DefaultDir() string {
	return filepath.Join(xdg.CacheHome, "magazine")
}

// FileStore keeps the record as a JSON file named after the key
type FileStore struct {
	mu    sync.Mutex
	path  string
	clock Clock
}

// NewFileStore creates a store for key under dir, creating dir if needed
func NewFileStore(dir, key string, clock Clock) (*FileStore, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	if key == "" {
		key = DefaultKey
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	if clock == nil {
		clock = time.Now
	}
	return &FileStore{
		path:  filepath.Join(dir, key+".json"),
		clock: clock,
	}, nil
}

// Path returns the file backing the slot
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(ctx context.Context) *Record {
	s.mu.Lock()
	data, err := os.ReadFile(s.path)
	s.mu.Unlock()

	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Log.WithField("path", s.path).Warnf("Failed to read cache file: %v", err)
		}
		return nil
	}
	return decodeOrNil(data, "file", s.path)
}

// Save writes through a temp file and rename so readers never see a
// partial record.
func (s *FileStore) Save(ctx context.Context, p *magazine.Payload) error {
	data, err := Encode(NewRecord(p, s.clock()))
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".record-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing cache file: %w", err)
	}
	return nil
}
