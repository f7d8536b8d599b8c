package cli

import (
	"fmt"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"librarian/config"
	"librarian/internal/adapter/catalog"
	"librarian/internal/usecase"
)

var (
	indexCatalog    string
	indexCollection string
	indexRebuild    bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed the catalog into the search index",
	Long: `Embed every catalog summary and store the vectors in the index directory.
Re-running replaces entries by catalog position, so the index always holds
exactly one entry per book.

Examples:
  librarian index
  librarian index --catalog "data/**/*.json" --collection classics
  librarian index --rebuild`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().StringVar(&indexCatalog, "catalog", "", "catalog file, directory or glob (default from config)")
	indexCmd.Flags().StringVar(&indexCollection, "collection", "", "collection name (default from config)")
	indexCmd.Flags().BoolVar(&indexRebuild, "rebuild", false, "drop the collection before building")
}

func runIndex(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	cat := a.catalog
	if indexCatalog != "" {
		cat = catalog.NewJSONCatalog(config.ResolvePath(GetRootDir(), indexCatalog))
	}
	collection := a.cfg.Index.Collection
	if indexCollection != "" {
		collection = indexCollection
	}

	out := cmd.OutOrStdout()

	if indexRebuild {
		fmt.Fprintf(out, "Dropping collection %q...\n", collection)
		if err := a.store.DropCollection(collection); err != nil {
			return fmt.Errorf("failed to drop collection: %w", err)
		}
	}

	var (
		bar       *progressbar.ProgressBar
		barMu     sync.Mutex
		startTime time.Time
	)

	progressCallback := func(done, total int) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Embedding[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(cmd.ErrOrStderr())
				}),
			)
		}

		bar.Set(done)

		if done > 0 && done < total {
			elapsed := time.Since(startTime)
			rate := float64(done) / elapsed.Seconds()
			if rate > 0 {
				eta := time.Duration(float64(total-done)/rate) * time.Second
				bar.Describe(fmt.Sprintf("[cyan]Embedding[reset] ETA: %s", formatDuration(eta)))
			}
		}
	}

	indexUC := usecase.NewIndexUseCase(cat, a.embedder(), a.store,
		usecase.WithBatchSize(a.cfg.Index.BatchSize),
		usecase.WithConcurrency(a.cfg.Index.Concurrency),
		usecase.WithProgress(progressCallback),
	)

	fmt.Fprintf(out, "Indexing catalog into %q...\n", collection)
	result, err := indexUC.Build(cmd.Context(), collection)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Fprintf(out, "\nIndexing complete:\n")
	fmt.Fprintf(out, "  Books indexed:   %d\n", result.Entries)
	fmt.Fprintf(out, "  Batches:         %d\n", result.Batches)
	fmt.Fprintf(out, "  Embedding model: %s\n", result.EmbeddingModel)
	fmt.Fprintf(out, "  Duration:        %s\n", formatDuration(result.Duration))
	fmt.Fprintf(out, "\nIndex stored at: %s\n", config.IndexDBPath(a.indexDir))
	return nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
