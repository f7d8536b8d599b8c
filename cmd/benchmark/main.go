package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"librarian/config"
	"librarian/internal/adapter/catalog"
	"librarian/internal/adapter/embedding"
	"librarian/internal/adapter/provider"
	"librarian/internal/adapter/retriever"
	"librarian/internal/adapter/store"
	"librarian/internal/domain"
)

func main() {
	rootPath := flag.String("dir", ".", "Project directory holding librarian.yaml and data/")
	query := flag.String("q", "", "Query to test")
	topK := flag.Int("k", 3, "Number of results")
	themes := flag.Bool("themes", false, "Query with each book's themes and report recall@k")
	flag.Parse()

	if *query == "" && !*themes {
		fmt.Println("Usage: go run ./cmd/benchmark -dir . -q \"query\" [-k 5]")
		fmt.Println("       go run ./cmd/benchmark -dir . -themes [-k 3]")
		fmt.Println("\nTests:")
		fmt.Println("  1. Embedding infrastructure (provider connection, index)")
		fmt.Println("  2. Semantic similarity (query vs results)")
		fmt.Println("  3. Theme recall (each book found by its own themes)")
		os.Exit(1)
	}

	cfg, err := config.LoadFromDir(*rootPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	settings, err := provider.LoadSettings(cfg, *rootPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading provider settings: %v\n", err)
		os.Exit(1)
	}

	dbPath := config.IndexDBPath(config.ResolvePath(*rootPath, cfg.Index.Dir))
	st, err := store.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening index: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	coll, err := st.OpenCollection(cfg.Index.Collection)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Semantic search not available: %v - run 'librarian index' first\n", err)
		os.Exit(1)
	}
	info, err := coll.Info()
	if err != nil || info.Count == 0 {
		fmt.Fprintln(os.Stderr, "No embeddings - run 'librarian index' first")
		os.Exit(1)
	}

	embedder := embedding.NewOpenAIEmbedder(provider.NewClient(settings))
	r := retriever.NewSemanticRetriever(st, embedder, cfg.Index.Collection)

	fmt.Println("SEMANTIC SEARCH BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Books indexed: %d\n", info.Count)
	fmt.Printf("Model: %s (index built with %s)\n", embedder.ModelName(), info.EmbeddingModel)
	fmt.Printf("Dimension: %d\n", info.Dimension)
	fmt.Println()

	ctx := context.Background()
	if *themes {
		records, err := catalog.NewJSONCatalog(config.ResolvePath(*rootPath, cfg.Catalog.Path)).Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading catalog: %v\n", err)
			os.Exit(1)
		}
		themeRecall(ctx, r, records, *topK)
		return
	}

	fmt.Printf("Query: \"%s\"\n", *query)
	fmt.Println(strings.Repeat("-", 70))

	start := time.Now()
	results, err := r.Search(ctx, *query, *topK)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Search took %s\n\n", time.Since(start).Round(time.Millisecond))

	if len(results) == 0 {
		fmt.Println("No results.")
		return
	}

	fmt.Printf("Top %d semantic matches:\n\n", len(results))

	totalScore := 0.0
	for i, c := range results {
		totalScore += c.Score
		fmt.Printf("%d. [%s %.3f] %s\n", i+1, rating(c.Score), c.Score, c.Title)
		if len(c.Themes) > 0 {
			fmt.Printf("   themes: %s\n", strings.Join(c.Themes, ", "))
		}
		fmt.Println()
	}

	avgScore := totalScore / float64(len(results))
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("QUALITY METRICS:\n")
	fmt.Printf("  Average score: %.3f\n", avgScore)
	fmt.Printf("  Top-1 score:   %.3f\n", results[0].Score)

	// Normalized scores sit around 0.5 for unrelated text.
	if avgScore > 0.75 {
		fmt.Println("  Status: GOOD - semantic search working well")
	} else if avgScore > 0.6 {
		fmt.Println("  Status: OK - results are somewhat related")
	} else {
		fmt.Println("  Status: POOR - may need better embeddings or re-indexing")
	}
}

func rating(score float64) string {
	switch {
	case score > 0.85:
		return "HIGH"
	case score > 0.75:
		return "GOOD"
	case score > 0.6:
		return "OK"
	default:
		return "LOW"
	}
}

func themeRecall(ctx context.Context, r *retriever.SemanticRetriever, records []domain.BookRecord, k int) {
	hits, tested := 0, 0
	for _, rec := range records {
		if len(rec.Themes) == 0 {
			continue
		}
		tested++
		query := strings.Join(rec.Themes, ", ")
		results, err := r.Search(ctx, query, k)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search error for %q: %v\n", rec.Title, err)
			os.Exit(1)
		}

		found := false
		for _, c := range results {
			if catalog.Normalize(c.Title) == catalog.Normalize(rec.Title) {
				found = true
				break
			}
		}
		mark := "miss"
		if found {
			hits++
			mark = "hit "
		}
		fmt.Printf("  [%s] %s  (%s)\n", mark, rec.Title, query)
	}

	fmt.Println(strings.Repeat("=", 70))
	if tested == 0 {
		fmt.Println("No books with themes to test.")
		return
	}
	fmt.Printf("Recall@%d: %d/%d (%.1f%%)\n", k, hits, tested, 100*float64(hits)/float64(tested))
}
