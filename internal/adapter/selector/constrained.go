package selector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"librarian/internal/domain"
	"librarian/internal/port"
)

const systemPrompt = `You are a librarian. Choose exactly one title from the provided list that best matches the user's request.
Reply with the chosen title exactly as written in the list, followed by one short sentence explaining why.
Do not invent titles and do not choose anything outside the list.`

// TitleMatcher picks the candidate title named by a free-text reply.
type TitleMatcher func(reply string, titles []string) (string, bool)

// ContainedTitle returns the first title, in candidate order, that occurs in
// the reply ignoring case.
func ContainedTitle(reply string, titles []string) (string, bool) {
	lower := strings.ToLower(reply)
	for _, t := range titles {
		if t == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(t)) {
			return t, true
		}
	}
	return "", false
}

// ConstrainedSelector asks the model to choose among retrieved titles and
// never returns a title outside that set.
type ConstrainedSelector struct {
	llm     port.LLM
	matcher TitleMatcher
	logger  *slog.Logger
}

var _ port.Selector = (*ConstrainedSelector)(nil)

type Option func(*ConstrainedSelector)

// WithMatcher replaces the reply-to-title matching rule.
func WithMatcher(m TitleMatcher) Option {
	return func(s *ConstrainedSelector) {
		if m != nil {
			s.matcher = m
		}
	}
}

func NewConstrainedSelector(llm port.LLM, opts ...Option) *ConstrainedSelector {
	s := &ConstrainedSelector{
		llm:     llm,
		matcher: ContainedTitle,
		logger:  slog.Default().With("component", "selector"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select returns the title the model named, or titles[0] when the reply names
// none of them. Provider failures are returned as is; the caller decides the
// fallback.
func (s *ConstrainedSelector) Select(ctx context.Context, query string, titles []string) (domain.SelectionResult, error) {
	if len(titles) == 0 {
		return domain.SelectionResult{}, nil
	}

	userPrompt, err := buildUserPrompt(query, titles)
	if err != nil {
		return domain.SelectionResult{}, err
	}

	reply, err := s.llm.GenerateWithSystem(ctx, systemPrompt, userPrompt)
	if err != nil {
		return domain.SelectionResult{}, domain.NewProviderError("select title", err)
	}

	rationale := strings.TrimSpace(reply)
	chosen, ok := s.matcher(reply, titles)
	if ok && !slices.Contains(titles, chosen) {
		s.logger.Warn("matcher returned a title outside the candidates", "title", chosen)
		ok = false
	}
	if !ok {
		s.logger.Debug("reply named no candidate, using top-ranked", "reply", rationale)
		chosen = titles[0]
	}

	return domain.SelectionResult{ChosenTitle: chosen, Rationale: rationale}, nil
}

func buildUserPrompt(query string, titles []string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(titles); err != nil {
		return "", err
	}
	return fmt.Sprintf("User request: %s\nTitles: %s", query, bytes.TrimSpace(buf.Bytes())), nil
}
