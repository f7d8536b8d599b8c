package embedding

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"
	"librarian/internal/adapter/provider"
	"librarian/internal/domain"
	"librarian/internal/port"
)

// OpenAIEmbedder calls the embeddings endpoint once per Embed call. Batching
// is the caller's business.
type OpenAIEmbedder struct {
	client *provider.Client
	model  string
	logger *slog.Logger
}

var _ port.Embedder = (*OpenAIEmbedder)(nil)

func NewOpenAIEmbedder(client *provider.Client) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		client: client,
		model:  client.Settings().EmbeddingModel,
		logger: slog.Default().With("component", "openai-embedder"),
	}
}

// Embed returns one vector per text, in input order.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	api, err := e.client.API()
	if err != nil {
		return nil, err
	}

	ctx, cancel := e.client.WithTimeout(ctx)
	defer cancel()

	e.logger.Debug("embedding texts", "count", len(texts), "model", e.model)
	resp, err := api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model:          e.model,
		Input:          openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	})
	if err != nil {
		return nil, domain.NewProviderError("embed", err)
	}

	vecs := make([][]float32, len(texts))
	for _, item := range resp.Data {
		idx := item.Index
		if idx < 0 || idx >= int64(len(texts)) {
			return nil, domain.NewProviderError("embed", fmt.Errorf("unexpected embedding index %d for batch size %d", idx, len(texts)))
		}
		vecs[idx] = toFloat32(item.Embedding)
	}
	for i, v := range vecs {
		if v == nil {
			return nil, domain.NewProviderError("embed", fmt.Errorf("missing embedding for index %d", i))
		}
	}
	return vecs, nil
}

func (e *OpenAIEmbedder) ModelName() string {
	return e.model
}

func toFloat32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}
