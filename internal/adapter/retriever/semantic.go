package retriever

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"librarian/internal/domain"
	"librarian/internal/port"
)

// SemanticRetriever embeds the query and ranks catalog entries by cosine
// distance in the named collection.
type SemanticRetriever struct {
	vectorStore port.VectorStore
	embedder    port.Embedder
	collection  string
	logger      *slog.Logger
}

var _ port.Retriever = (*SemanticRetriever)(nil)

func NewSemanticRetriever(
	vectorStore port.VectorStore,
	embedder port.Embedder,
	collection string,
) *SemanticRetriever {
	return &SemanticRetriever{
		vectorStore: vectorStore,
		embedder:    embedder,
		collection:  collection,
		logger:      slog.Default().With("component", "semantic-retriever"),
	}
}

func (r *SemanticRetriever) Search(ctx context.Context, query string, k int) ([]domain.Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.InvalidArgument("non-empty query required")
	}
	if k <= 0 {
		return nil, domain.InvalidArgument("k must be positive, got %d", k)
	}

	embeddings, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, domain.NewProviderError("embed query", err)
	}
	if len(embeddings) != 1 {
		return nil, domain.NewProviderError("embed query", errors.New("embedding returned empty result"))
	}

	coll, _, err := r.vectorStore.EnsureCollection(r.collection, port.SpaceCosine)
	if err != nil {
		return nil, domain.NewProviderError("open collection", err)
	}
	count, err := coll.Count()
	if err != nil {
		return nil, domain.NewProviderError("count collection", err)
	}
	if count == 0 {
		return []domain.Candidate{}, nil
	}

	results, err := coll.Query(embeddings[0], k)
	if err != nil {
		return nil, domain.NewProviderError("vector search", err)
	}

	candidates := make([]domain.Candidate, 0, len(results))
	for _, result := range results {
		title := strings.TrimSpace(result.Metadata[domain.MetaTitle])
		if title == "" {
			r.logger.Warn("skipping entry without title", "id", result.ID)
			continue
		}
		themes, err := domain.DecodeThemes(result.Metadata[domain.MetaThemes])
		if err != nil {
			r.logger.Warn("malformed themes metadata", "id", result.ID, "error", err)
		}
		candidates = append(candidates, domain.Candidate{
			Title:  title,
			Score:  NormalizeScore(result.Distance),
			Themes: themes,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	return candidates, nil
}
