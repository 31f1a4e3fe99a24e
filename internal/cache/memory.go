package cache

import (
	"context"
	"sync"
	"time"

	"github.com/tkilaker/magazine/internal/magazine"
)

// MemoryStore keeps the serialized record in process memory
type MemoryStore struct {
	mu    sync.Mutex
	raw   []byte
	clock Clock
}

// NewMemoryStore creates an empty store. A nil clock uses time.Now.
func NewMemoryStore(clock Clock) *MemoryStore {
	if clock == nil {
		clock = time.Now
	}
	return &MemoryStore{clock: clock}
}

func (s *MemoryStore) Load(ctx context.Context) *Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.raw == nil {
		return nil
	}
	return decodeOrNil(s.raw, "memory", DefaultKey)
}

func (s *MemoryStore) Save(ctx context.Context, p *magazine.Payload) error {
	data, err := Encode(NewRecord(p, s.clock()))
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.raw = data
	s.mu.Unlock()
	return nil
}

// Put stores raw text as-is. Tests use it to seed records and corrupt slots.
func (s *MemoryStore) Put(raw []byte) {
	s.mu.Lock()
	s.raw = append([]byte(nil), raw...)
	s.mu.Unlock()
}

// Raw returns the stored text, or nil when empty
func (s *MemoryStore) Raw() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.raw == nil {
		return nil
	}
	return append([]byte(nil), s.raw...)
}
