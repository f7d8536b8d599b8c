// Package memstore is an in-memory port.VectorStore for tests. It ranks with
// the same distance and tie rules as the bbolt store and can be told to fail
// writes or queries.
package memstore

import (
	"fmt"
	"strings"
	"sync"

	"librarian/internal/adapter/store"
	"librarian/internal/domain"
	"librarian/internal/port"
)

// MemoryStore keeps every collection in memory.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*Collection
}

var _ port.VectorStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]*Collection),
	}
}

func (s *MemoryStore) EnsureCollection(name, space string) (port.Collection, bool, error) {
	if strings.TrimSpace(name) == "" {
		return nil, false, domain.InvalidArgument("collection name must be non-empty")
	}
	if _, err := store.DistanceFunc(space); err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.collections[name]; ok {
		return c, false, nil
	}
	c := &Collection{
		name:    name,
		space:   space,
		entries: make(map[string]domain.IndexEntry),
	}
	s.collections[name] = c
	return c, true, nil
}

// Collection is an in-memory port.Collection.
type Collection struct {
	mu      sync.RWMutex
	name    string
	space   string
	dim     int
	model   string
	entries map[string]domain.IndexEntry

	// FailWrites and FailQueries make the matching calls return the error.
	FailWrites  error
	FailQueries error
}

var _ port.Collection = (*Collection)(nil)

func (c *Collection) Name() string  { return c.name }
func (c *Collection) Space() string { return c.space }

func (c *Collection) Upsert(entries []domain.IndexEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.put(entries)
}

func (c *Collection) Sync(entries []domain.IndexEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.put(entries); err != nil {
		return err
	}
	keep := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		keep[e.ID] = struct{}{}
	}
	for id := range c.entries {
		if _, ok := keep[id]; !ok {
			delete(c.entries, id)
		}
	}
	return nil
}

// put validates the whole batch before storing any of it.
func (c *Collection) put(entries []domain.IndexEntry) error {
	if c.FailWrites != nil {
		return c.FailWrites
	}

	dim := c.dim
	for _, e := range entries {
		if e.ID == "" {
			return domain.InvalidArgument("entry id must be non-empty")
		}
		if len(e.Vector) == 0 {
			return domain.InvalidArgument("entry %s has no vector", e.ID)
		}
		if dim == 0 {
			dim = len(e.Vector)
		}
		if len(e.Vector) != dim {
			return fmt.Errorf("vector dimension mismatch for entry %s: expected %d, got %d", e.ID, dim, len(e.Vector))
		}
	}

	c.dim = dim
	for _, e := range entries {
		e.Vector = append([]float32(nil), e.Vector...)
		c.entries[e.ID] = e
	}
	return nil
}

func (c *Collection) Query(vector []float32, k int) ([]domain.Neighbor, error) {
	if k <= 0 {
		return nil, domain.InvalidArgument("k must be positive, got %d", k)
	}
	distance, err := store.DistanceFunc(c.space)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.FailQueries != nil {
		return nil, c.FailQueries
	}
	if c.dim != 0 && c.dim != len(vector) {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", c.dim, len(vector))
	}

	neighbors := make([]domain.Neighbor, 0, len(c.entries))
	for _, e := range c.entries {
		neighbors = append(neighbors, domain.Neighbor{
			ID:       e.ID,
			Document: e.Document,
			Metadata: e.Metadata,
			Distance: distance(vector, e.Vector),
		})
	}
	return store.RankNeighbors(neighbors, k), nil
}

func (c *Collection) Count() (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries), nil
}

func (c *Collection) SetEmbeddingModel(model string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.FailWrites != nil {
		return c.FailWrites
	}
	c.model = model
	return nil
}

// EmbeddingModel returns the model recorded by SetEmbeddingModel.
func (c *Collection) EmbeddingModel() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}
