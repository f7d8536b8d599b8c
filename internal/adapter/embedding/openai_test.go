package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"librarian/internal/adapter/provider"
	"librarian/internal/domain"
)

func newTestEmbedder(t *testing.T, handler http.HandlerFunc) *OpenAIEmbedder {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewOpenAIEmbedder(provider.NewClient(provider.Settings{
		APIKey:          "sk-test-key-123456",
		EmbeddingModel:  "text-embedding-3-small",
		GenerativeModel: "gpt-4o-mini",
		BaseURL:         srv.URL + "/v1/",
		Timeout:         5 * time.Second,
	}))
}

func TestOpenAIEmbedder_NoInput(t *testing.T) {
	var e OpenAIEmbedder
	vecs, err := e.Embed(context.Background(), nil)
	assert.NoError(t, err)
	assert.Nil(t, vecs)
}

func TestOpenAIEmbedder_OrdersByIndex(t *testing.T) {
	var req struct {
		Model string   `json:"model"`
		Input []string `json:"input"`
	}
	e := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
  "object": "list",
  "model": "text-embedding-3-small",
  "data": [
    {"object": "embedding", "index": 1, "embedding": [0.0, 1.0]},
    {"object": "embedding", "index": 0, "embedding": [1.0, 0.0]}
  ],
  "usage": {"prompt_tokens": 2, "total_tokens": 2}
}`))
	})

	vecs, err := e.Embed(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, vecs)
	assert.Equal(t, "text-embedding-3-small", req.Model)
	assert.Equal(t, []string{"first", "second"}, req.Input)
	assert.Equal(t, "text-embedding-3-small", e.ModelName())
}

func TestOpenAIEmbedder_MissingVector(t *testing.T) {
	e := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object": "list", "model": "m", "data": [{"object": "embedding", "index": 0, "embedding": [1.0]}], "usage": {"prompt_tokens": 1, "total_tokens": 1}}`))
	})

	_, err := e.Embed(context.Background(), []string{"a", "b"})
	assert.ErrorIs(t, err, domain.ErrProvider)
	assert.ErrorContains(t, err, "missing embedding for index 1")
}

func TestOpenAIEmbedder_HTTPError(t *testing.T) {
	e := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "bad key", "type": "invalid_request_error"}}`))
	})

	_, err := e.Embed(context.Background(), []string{"a"})
	assert.ErrorIs(t, err, domain.ErrProvider)
}
