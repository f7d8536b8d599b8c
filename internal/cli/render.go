package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"librarian/internal/domain"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func heading(s string) string {
	return headingStyle.Render("=== " + s + " ===")
}

// renderResolution prints the path taken, the chosen title and the verbatim
// summary.
func renderResolution(w io.Writer, res domain.Resolution) {
	if res.Path.Direct() {
		label := "Title Match"
		if res.Path == domain.PathFuzzyTitle {
			label = "Title Match (approximate)"
		}
		fmt.Fprintln(w, heading(label))
		fmt.Fprintln(w, titleStyle.Render(res.Title))
	} else {
		fmt.Fprintln(w, dimStyle.Render("No direct title match. Ran semantic search."))
		if res.Outcome == domain.OutcomeNoResults {
			fmt.Fprintln(w, "No results found in your local library.")
			return
		}

		fmt.Fprintln(w)
		fmt.Fprintln(w, heading("Candidates"))
		renderCandidates(w, res.Candidates)

		fmt.Fprintln(w)
		fmt.Fprintln(w, heading("Recommendation"))
		fmt.Fprintln(w, titleStyle.Render(res.Title))
		if res.SelectionErr != nil {
			fmt.Fprintln(w, warnStyle.Render("(model unavailable, showing the top-ranked candidate)"))
		}
		if res.Rationale != "" {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Reasoning:")
			fmt.Fprintln(w, res.Rationale)
		}
	}

	fmt.Fprintln(w)
	if res.Outcome == domain.OutcomeNoSummary {
		fmt.Fprintln(w, "Summary not found for the chosen title in your catalog.")
		return
	}
	fmt.Fprintln(w, heading("Summary (verbatim)"))
	fmt.Fprintln(w, res.Summary)
}

func renderCandidates(w io.Writer, candidates []domain.Candidate) {
	for i, c := range candidates {
		line := fmt.Sprintf("%d. %s (score: %.3f)", i+1, c.Title, c.Score)
		if len(c.Themes) > 0 {
			line += dimStyle.Render("  themes: " + strings.Join(c.Themes, ", "))
		}
		fmt.Fprintln(w, line)
	}
}

type resolutionOutput struct {
	domain.Resolution
	SelectionError string `json:"selection_error,omitempty"`
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func renderResolutionJSON(w io.Writer, res domain.Resolution) error {
	out := resolutionOutput{Resolution: res}
	if res.SelectionErr != nil {
		out.SelectionError = res.SelectionErr.Error()
	}
	return renderJSON(w, out)
}
