package port

import (
	"context"

	"librarian/internal/domain"
)

// Retriever defines the interface for semantic search over the catalog.
type Retriever interface {
	// Search returns at most k candidates ordered by descending score.
	Search(ctx context.Context, query string, k int) ([]domain.Candidate, error)
}
