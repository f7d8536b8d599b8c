package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"
	"librarian/internal/adapter/provider"
	"librarian/internal/domain"
	"librarian/internal/port"
)

// OpenAILLM is a single-turn chat completion client.
type OpenAILLM struct {
	client      *provider.Client
	model       string
	temperature float64
	logger      *slog.Logger
}

var _ port.LLM = (*OpenAILLM)(nil)

func NewOpenAILLM(client *provider.Client) *OpenAILLM {
	s := client.Settings()
	return &OpenAILLM{
		client:      client,
		model:       s.GenerativeModel,
		temperature: s.Temperature,
		logger:      slog.Default().With("component", "openai-llm"),
	}
}

// Generate implements single-turn generation.
func (l *OpenAILLM) Generate(ctx context.Context, prompt string) (string, error) {
	return l.complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage(prompt),
	})
}

// GenerateWithSystem implements generation with a system prompt.
func (l *OpenAILLM) GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return l.complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt),
		openai.UserMessage(userPrompt),
	})
}

func (l *OpenAILLM) complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	api, err := l.client.API()
	if err != nil {
		return "", err
	}

	ctx, cancel := l.client.WithTimeout(ctx)
	defer cancel()

	l.logger.Debug("chat completion", "model", l.model, "messages", len(messages))
	resp, err := api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       l.model,
		Messages:    messages,
		Temperature: openai.Float(l.temperature),
	})
	if err != nil {
		return "", domain.NewProviderError("chat completion", err)
	}
	if len(resp.Choices) == 0 {
		return "", domain.NewProviderError("chat completion", fmt.Errorf("no choices in response"))
	}

	if u := resp.Usage; u.TotalTokens > 0 {
		l.logger.Debug("chat usage", "prompt_tokens", u.PromptTokens, "completion_tokens", u.CompletionTokens)
	}
	return resp.Choices[0].Message.Content, nil
}

func (l *OpenAILLM) ModelName() string {
	return l.model
}
