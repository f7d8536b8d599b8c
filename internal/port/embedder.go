package port

import (
	"context"

	"librarian/internal/domain"
)

// Embedder generates vector embeddings for text.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// ModelName returns the name of the embedding model.
	ModelName() string
}

// Distance spaces a collection can be declared with.
const (
	SpaceCosine = "cosine"
	SpaceL2     = "l2"
	SpaceIP     = "ip"
)

// VectorStore hands out named collections of index entries.
type VectorStore interface {
	// EnsureCollection returns the named collection, creating it with the
	// given space when absent. An existing collection keeps the space it was
	// created with. created reports which branch was taken.
	EnsureCollection(name, space string) (coll Collection, created bool, err error)
}

// Collection stores index entries and answers nearest-neighbor queries.
type Collection interface {
	Name() string

	// Space returns the distance space fixed at creation.
	Space() string

	// Upsert adds or overwrites entries by ID.
	Upsert(entries []domain.IndexEntry) error

	// Sync upserts entries and removes every entry whose ID is not among
	// them, atomically.
	Sync(entries []domain.IndexEntry) error

	// Query returns at most k entries ordered by ascending distance.
	Query(vector []float32, k int) ([]domain.Neighbor, error)

	// Count returns the number of entries in the collection.
	Count() (int, error)

	// SetEmbeddingModel records which model produced the stored vectors.
	SetEmbeddingModel(model string) error
}
