package cache

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"time"

	"librarian/internal/domain"
	"librarian/internal/port"
)

const (
	DefaultSize = 100
	DefaultTTL  = 30 * time.Minute
)

type queryKey struct {
	query string
	k     int
}

type cached struct {
	key        queryKey
	candidates []domain.Candidate
	storedAt   time.Time
}

// QueryCache remembers semantic search results for one interactive session.
// It holds at most size result sets and drops the least recently used one
// when full; a result set older than ttl is treated as missing.
type QueryCache struct {
	mu    sync.Mutex
	size  int
	ttl   time.Duration
	lru   *list.List
	items map[queryKey]*list.Element
	now   func() time.Time
}

func NewQueryCache(size int, ttl time.Duration) *QueryCache {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &QueryCache{
		size:  size,
		ttl:   ttl,
		lru:   list.New(),
		items: make(map[queryKey]*list.Element),
		now:   time.Now,
	}
}

// keyFor folds case and surrounding space so "Dune" and " dune " share results.
func keyFor(query string, k int) queryKey {
	return queryKey{query: strings.ToLower(strings.TrimSpace(query)), k: k}
}

// Get returns a copy of the candidates stored for query and k.
func (c *QueryCache) Get(query string, k int) ([]domain.Candidate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[keyFor(query, k)]
	if !ok {
		return nil, false
	}
	item := el.Value.(*cached)
	if c.now().Sub(item.storedAt) > c.ttl {
		c.lru.Remove(el)
		delete(c.items, item.key)
		return nil, false
	}
	c.lru.MoveToFront(el)
	return copyCandidates(item.candidates), true
}

// Put stores a copy of candidates for query and k.
func (c *QueryCache) Put(query string, k int, candidates []domain.Candidate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := keyFor(query, k)
	item := &cached{key: key, candidates: copyCandidates(candidates), storedAt: c.now()}
	if el, ok := c.items[key]; ok {
		el.Value = item
		c.lru.MoveToFront(el)
		return
	}

	c.items[key] = c.lru.PushFront(item)
	for c.lru.Len() > c.size {
		last := c.lru.Back()
		c.lru.Remove(last)
		delete(c.items, last.Value.(*cached).key)
	}
}

// Len reports how many result sets are held, expired ones included.
func (c *QueryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

func copyCandidates(in []domain.Candidate) []domain.Candidate {
	if in == nil {
		return nil
	}
	out := make([]domain.Candidate, len(in))
	for i, cand := range in {
		cand.Themes = append([]string(nil), cand.Themes...)
		out[i] = cand
	}
	return out
}

// CachedRetriever answers repeated searches from a QueryCache. Failed
// searches are not remembered.
type CachedRetriever struct {
	next  port.Retriever
	cache *QueryCache
}

var _ port.Retriever = (*CachedRetriever)(nil)

func NewCachedRetriever(next port.Retriever, cache *QueryCache) *CachedRetriever {
	return &CachedRetriever{next: next, cache: cache}
}

func (r *CachedRetriever) Search(ctx context.Context, query string, k int) ([]domain.Candidate, error) {
	if candidates, ok := r.cache.Get(query, k); ok {
		return candidates, nil
	}
	candidates, err := r.next.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}
	r.cache.Put(query, k, candidates)
	return candidates, nil
}
