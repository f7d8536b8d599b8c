package port

import (
	"context"

	"librarian/internal/domain"
)

// LLM represents a language model for text generation.
type LLM interface {
	// Generate generates text based on the prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// GenerateWithSystem generates text with a system prompt.
	GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// ModelName returns the name of the model.
	ModelName() string
}

// Selector picks one title out of a fixed candidate set.
type Selector interface {
	// Select never returns a title outside titles. An empty titles slice
	// yields an empty SelectionResult without calling the model.
	Select(ctx context.Context, query string, titles []string) (domain.SelectionResult, error)
}
