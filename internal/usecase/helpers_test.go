package usecase

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"librarian/internal/adapter/store"
	"librarian/internal/domain"
)

type staticCatalog struct {
	mu      sync.Mutex
	records []domain.BookRecord
	err     error
	loads   int
}

func (c *staticCatalog) Load() ([]domain.BookRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loads++
	if c.err != nil {
		return nil, c.err
	}
	return append([]domain.BookRecord(nil), c.records...), nil
}

func openStore(t *testing.T) *store.BoltStore {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

var library = []domain.BookRecord{
	{Title: "Dune", Summary: "S1", Themes: []string{"sci-fi", "politics"}},
	{Title: "1984", Summary: "a surveillance state crushes individual freedom", Themes: []string{"dystopia", "politics"}},
	{Title: "The Hobbit", Summary: "a hobbit goes on an adventure with dwarves to face a dragon", Themes: []string{"fantasy", "adventure"}},
	{Title: "Pride and Prejudice", Summary: "manners marriage and misjudgement in the english gentry", Themes: []string{"romance"}},
}
