package cache

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"librarian/internal/domain"
)

type countingRetriever struct {
	calls int
	err   error
}

func (r *countingRetriever) Search(ctx context.Context, query string, k int) ([]domain.Candidate, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return []domain.Candidate{{Title: query, Score: 0.9, Themes: []string{"x"}}}, nil
}

func TestQueryCache_GetPut(t *testing.T) {
	c := NewQueryCache(10, time.Minute)

	_, ok := c.Get("dune", 3)
	assert.False(t, ok)

	c.Put("dune", 3, []domain.Candidate{{Title: "Dune", Score: 1}})
	got, ok := c.Get("  DUNE ", 3)
	require.True(t, ok)
	assert.Equal(t, "Dune", got[0].Title)

	_, ok = c.Get("dune", 4)
	assert.False(t, ok, "k is part of the key")
}

func TestQueryCache_EvictsOldest(t *testing.T) {
	c := NewQueryCache(2, time.Minute)
	c.Put("a", 1, nil)
	c.Put("b", 1, nil)
	c.Get("a", 1)
	c.Put("c", 1, nil)

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("b", 1)
	assert.False(t, ok, "least recently used entry is evicted")
	_, ok = c.Get("a", 1)
	assert.True(t, ok)
}

func TestQueryCache_Expires(t *testing.T) {
	c := NewQueryCache(10, time.Minute)
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	c.Put("a", 1, nil)
	clock = clock.Add(59 * time.Second)
	_, ok := c.Get("a", 1)
	assert.True(t, ok)

	clock = clock.Add(2 * time.Second)
	_, ok = c.Get("a", 1)
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestQueryCache_PutReplaces(t *testing.T) {
	c := NewQueryCache(10, time.Minute)
	c.Put("dune", 3, []domain.Candidate{{Title: "Dune"}})
	c.Put("Dune", 3, []domain.Candidate{{Title: "Dune Messiah"}})

	got, ok := c.Get("dune", 3)
	require.True(t, ok)
	assert.Equal(t, "Dune Messiah", got[0].Title)
	assert.Equal(t, 1, c.Len())
}

func TestNewQueryCache_Defaults(t *testing.T) {
	c := NewQueryCache(0, 0)
	assert.Equal(t, DefaultSize, c.size)
	assert.Equal(t, DefaultTTL, c.ttl)
}

func TestQueryCache_ResultsAreCopied(t *testing.T) {
	c := NewQueryCache(10, time.Minute)
	in := []domain.Candidate{{Title: "Dune", Themes: []string{"sci-fi"}}}
	c.Put("dune", 1, in)
	in[0].Themes[0] = "changed"

	got, _ := c.Get("dune", 1)
	assert.Equal(t, "sci-fi", got[0].Themes[0])
}

func TestCachedRetriever(t *testing.T) {
	inner := &countingRetriever{}
	r := NewCachedRetriever(inner, NewQueryCache(10, time.Minute))

	for i := 0; i < 3; i++ {
		got, err := r.Search(context.Background(), "dune", 3)
		require.NoError(t, err)
		assert.Equal(t, "dune", got[0].Title)
	}
	assert.Equal(t, 1, inner.calls)

	for i := 0; i < 3; i++ {
		_, err := r.Search(context.Background(), fmt.Sprint("q", i), 3)
		require.NoError(t, err)
	}
	assert.Equal(t, 4, inner.calls)
}

func TestCachedRetriever_ErrorsNotCached(t *testing.T) {
	inner := &countingRetriever{err: errors.New("down")}
	r := NewCachedRetriever(inner, NewQueryCache(10, time.Minute))

	_, err := r.Search(context.Background(), "dune", 3)
	require.Error(t, err)
	_, err = r.Search(context.Background(), "dune", 3)
	require.Error(t, err)
	assert.Equal(t, 2, inner.calls)
}
