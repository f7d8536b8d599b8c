package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"librarian/internal/domain"
)

type staticCatalog struct {
	records []domain.BookRecord
	err     error
	loads   int
}

func (c *staticCatalog) Load() ([]domain.BookRecord, error) {
	c.loads++
	return c.records, c.err
}

func titles(names ...string) *staticCatalog {
	c := &staticCatalog{}
	for _, n := range names {
		c.records = append(c.records, domain.BookRecord{Title: n, Summary: "summary of " + n})
	}
	return c
}

func TestResolveTitle_Exact(t *testing.T) {
	r := NewTitleResolver(titles("Dune", "The Hobbit", "1984"), DefaultCutoff)

	got, err := r.ResolveTitle("  The Hobbit ", false)
	require.NoError(t, err)
	assert.Equal(t, "The Hobbit", got)

	got, err = r.ResolveTitle("DUNE", false)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got)
}

func TestResolveTitle_DuplicateFirstWins(t *testing.T) {
	c := titles("Dune", "dune")
	r := NewTitleResolver(c, DefaultCutoff)

	got, err := r.ResolveTitle("dune", false)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got)
}

func TestResolveTitle_ExactMissWithoutFuzzy(t *testing.T) {
	r := NewTitleResolver(titles("The Hobbit"), DefaultCutoff)

	_, err := r.ResolveTitle("The Hobit", false)
	assert.ErrorIs(t, err, domain.ErrTitleNotFound)
}

func TestResolveTitle_Fuzzy(t *testing.T) {
	r := NewTitleResolver(titles("Dune", "The Hobbit", "1984"), DefaultCutoff)

	got, err := r.ResolveTitle("the hobit", true)
	require.NoError(t, err)
	assert.Equal(t, "The Hobbit", got)
}

func TestResolveTitle_FuzzyCutoffInclusive(t *testing.T) {
	// "abc" vs "abcdefg": 2*3/10 == 0.6 exactly
	require.Equal(t, 0.6, Similarity("abcdefg", "abc"))

	r := NewTitleResolver(titles("Abcdefg"), DefaultCutoff)
	got, err := r.ResolveTitle("abc", true)
	require.NoError(t, err)
	assert.Equal(t, "Abcdefg", got)

	// "ab" vs "abcdefg": 2*2/9 < 0.6
	_, err = r.ResolveTitle("ab", true)
	assert.ErrorIs(t, err, domain.ErrTitleNotFound)
}

func TestResolveTitle_FuzzyPicksBest(t *testing.T) {
	r := NewTitleResolver(titles("Brave New World", "Brave New Worlds Apart"), DefaultCutoff)

	got, err := r.ResolveTitle("brave new wrld", true)
	require.NoError(t, err)
	assert.Equal(t, "Brave New World", got)
}

func TestResolveTitle_EmptyCatalog(t *testing.T) {
	r := NewTitleResolver(titles(), DefaultCutoff)

	_, err := r.ResolveTitle("anything", true)
	assert.ErrorIs(t, err, domain.ErrTitleNotFound)
}

func TestResolveTitle_EmptyQuery(t *testing.T) {
	c := titles("Dune")
	r := NewTitleResolver(c, DefaultCutoff)

	_, err := r.ResolveTitle("   ", true)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Zero(t, c.loads)
}

func TestResolveTitle_RereadsCatalog(t *testing.T) {
	c := titles("Dune")
	r := NewTitleResolver(c, DefaultCutoff)

	_, _ = r.ResolveTitle("Dune", false)
	_, _ = r.ResolveTitle("Dune", false)
	assert.Equal(t, 2, c.loads)
}

func TestResolveTitle_CatalogError(t *testing.T) {
	c := &staticCatalog{err: domain.ErrDatasetNotFound}
	r := NewTitleResolver(c, DefaultCutoff)

	_, err := r.ResolveTitle("Dune", true)
	assert.ErrorIs(t, err, domain.ErrDatasetNotFound)
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("dune", "dune"))
	assert.Equal(t, 0.0, Similarity("abc", "xyz"))
}
