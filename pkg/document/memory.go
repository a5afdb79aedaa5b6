package document

import (
	"context"
	"sync"

	errs "github.com/matzehuels/jsongraph/pkg/errors"
)

// MemoryStore keeps the document text in memory.
type MemoryStore struct {
	mu     sync.RWMutex
	text   string
	meta   Meta
	exists bool
	writes int
}

// NewMemoryStore returns a store holding text. An empty text means the store
// starts out empty.
func NewMemoryStore(text string) *MemoryStore {
	return &MemoryStore{text: text, exists: text != ""}
}

// Text returns the stored text.
func (s *MemoryStore) Text(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.exists {
		return "", errs.New(errs.ErrCodeNotFound, "no document in memory")
	}
	return s.text, nil
}

// SetText replaces the stored text.
func (s *MemoryStore) SetText(ctx context.Context, text string, meta Meta) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text, s.meta, s.exists = text, meta, true
	s.writes++
	return nil
}

// Meta returns the metadata of the last write.
func (s *MemoryStore) Meta(ctx context.Context) (Meta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meta, nil
}

// Writes returns how many times SetText was called.
func (s *MemoryStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// Backend returns "memory".
func (s *MemoryStore) Backend() string { return "memory" }

// Close does nothing.
func (s *MemoryStore) Close() error { return nil }

var (
	_ Store     = (*MemoryStore)(nil)
	_ MetaStore = (*MemoryStore)(nil)
)
