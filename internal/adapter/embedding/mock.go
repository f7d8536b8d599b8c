package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"sync"
	"unicode"

	"librarian/internal/port"
)

// MockEmbedder hashes words into a fixed number of buckets, so texts that
// share words land close together. It never touches the network.
type MockEmbedder struct {
	dimension int

	// EmbedFunc replaces the default behavior when set.
	EmbedFunc func(ctx context.Context, texts []string) ([][]float32, error)

	mu     sync.Mutex
	calls  int
	inputs [][]string
}

var _ port.Embedder = (*MockEmbedder)(nil)

func NewMockEmbedder(dimension int) *MockEmbedder {
	if dimension <= 0 {
		dimension = 64
	}
	return &MockEmbedder{dimension: dimension}
}

func (e *MockEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.calls++
	e.inputs = append(e.inputs, append([]string(nil), texts...))
	e.mu.Unlock()

	if e.EmbedFunc != nil {
		return e.EmbedFunc(ctx, texts)
	}

	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = e.vector(text)
	}
	return embeddings, nil
}

func (e *MockEmbedder) vector(text string) []float32 {
	vec := make([]float32, e.dimension)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		h := fnv.New32a()
		h.Write([]byte(w))
		vec[h.Sum32()%uint32(e.dimension)]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}
	return vec
}

func (e *MockEmbedder) ModelName() string {
	return "mock"
}

// CallCount returns how many times Embed was called.
func (e *MockEmbedder) CallCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// Inputs returns the texts passed to each Embed call.
func (e *MockEmbedder) Inputs() [][]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([][]string(nil), e.inputs...)
}

// Reset clears the recorded calls.
func (e *MockEmbedder) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = 0
	e.inputs = nil
}
