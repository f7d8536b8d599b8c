package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"librarian/internal/adapter/store"
	"librarian/internal/domain"
)

func TestRenderResolution_NoSummary(t *testing.T) {
	var buf bytes.Buffer
	renderResolution(&buf, domain.Resolution{
		Path:       domain.PathSemantic,
		Outcome:    domain.OutcomeNoSummary,
		Title:      "Lost Book",
		Candidates: []domain.Candidate{{Title: "Lost Book", Score: 0.9}},
	})

	out := buf.String()
	assert.Contains(t, out, "1. Lost Book (score: 0.900)")
	assert.Contains(t, out, "Summary not found for the chosen title")
	assert.NotContains(t, out, "Summary (verbatim)")
}

func TestRenderResolution_SelectionFallback(t *testing.T) {
	var buf bytes.Buffer
	renderResolution(&buf, domain.Resolution{
		Path:         domain.PathSemantic,
		Outcome:      domain.OutcomeResolved,
		Title:        "Dune",
		Summary:      "S1",
		Candidates:   []domain.Candidate{{Title: "Dune", Score: 0.8, Themes: []string{"sci-fi"}}},
		SelectionErr: domain.NewProviderError("select title", errors.New("boom")),
	})

	out := buf.String()
	assert.Contains(t, out, "themes: sci-fi")
	assert.Contains(t, out, "model unavailable")
	assert.Contains(t, out, "S1")
}

func TestRenderResolutionJSON_SelectionError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderResolutionJSON(&buf, domain.Resolution{
		Query:        "q",
		SelectionErr: errors.New("boom"),
	}))
	assert.Contains(t, buf.String(), `"selection_error": "boom"`)
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		err    error
		prefix string
	}{
		{domain.InvalidArgument("non-empty query required"), "Invalid input"},
		{fmt.Errorf("load: %w", domain.ErrDatasetNotFound), "Catalog problem"},
		{domain.ErrEmptyCatalog, "Catalog problem"},
		{store.ErrCollectionNotFound, "No index found"},
		{domain.NewProviderError("embed", errors.New("401")), "Remote dependency failed"},
		{domain.NewProviderError("embed", fmt.Errorf("post: %w", context.DeadlineExceeded)), "Remote dependency timed out"},
		{errors.New("disk full"), "Error"},
	}
	for _, tt := range tests {
		got := describeError(tt.err)
		assert.True(t, strings.HasPrefix(got, tt.prefix), "%v -> %q", tt.err, got)
	}
}

func TestPromptModel(t *testing.T) {
	m := newPromptModel()
	for _, r := range "dune " {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(promptModel)
	}
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(promptModel)

	assert.True(t, m.done)
	assert.Equal(t, "dune", m.value)
	assert.NotNil(t, cmd)
	assert.Empty(t, m.View())

	next, _ = newPromptModel().Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, next.(promptModel).aborted)
}

func TestPrompter_ReadsLines(t *testing.T) {
	var out bytes.Buffer
	p := newPrompter(strings.NewReader("  first \nsecond\n"), &out)

	for _, want := range []string{"first", "second", ""} {
		got, err := p.Ask()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 3, strings.Count(out.String(), promptLabel))
}

