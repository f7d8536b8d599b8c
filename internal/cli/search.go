package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"librarian/internal/domain"
)

var (
	searchText string
	searchTopK int
	searchJSON bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Show semantic search candidates",
	Long: `Run semantic search only and print the ranked candidates with their
normalized scores (1.0 is a perfect match) and themes.

Examples:
  librarian search -q "friendship and courage"
  librarian search -q "totalitarian regimes" --top-k 10 --json`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchText, "query", "q", "", "search query (required)")
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "number of results (default from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")
	searchCmd.MarkFlagRequired("query")
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	topK := a.cfg.Retrieve.TopK
	if searchTopK > 0 {
		topK = searchTopK
	}

	results, err := a.retriever().Search(cmd.Context(), searchText, topK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if results == nil {
		results = []domain.Candidate{}
	}

	out := cmd.OutOrStdout()
	if searchJSON {
		return renderJSON(out, results)
	}

	if len(results) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}
	fmt.Fprintf(out, "Found %d results for: %s\n\n", len(results), searchText)
	renderCandidates(out, results)
	return nil
}
