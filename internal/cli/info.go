package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"librarian/config"
	"librarian/internal/adapter/store"
)

var infoJSON bool

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe the search index",
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "output as JSON")
}

type indexInfo struct {
	Path          string                `json:"path"`
	SchemaVersion int                   `json:"schema_version"`
	Collections   []string              `json:"collections"`
	Collection    *store.CollectionInfo `json:"collection,omitempty"`
}

func runInfo(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	info := indexInfo{Path: config.IndexDBPath(a.indexDir)}
	if info.SchemaVersion, err = a.store.SchemaVersion(); err != nil {
		return err
	}
	if info.Collections, err = a.store.CollectionNames(); err != nil {
		return err
	}

	coll, err := a.store.OpenCollection(a.cfg.Index.Collection)
	switch {
	case errors.Is(err, store.ErrCollectionNotFound):
	case err != nil:
		return err
	default:
		ci, err := coll.Info()
		if err != nil {
			return err
		}
		info.Collection = &ci
	}

	out := cmd.OutOrStdout()
	if infoJSON {
		return renderJSON(out, info)
	}

	fmt.Fprintf(out, "Index:           %s (schema v%d)\n", info.Path, info.SchemaVersion)
	fmt.Fprintf(out, "Collections:     %d\n", len(info.Collections))
	if info.Collection == nil {
		fmt.Fprintf(out, "\nCollection %q not found. Run 'librarian index' first.\n", a.cfg.Index.Collection)
		return nil
	}

	ci := info.Collection
	fmt.Fprintf(out, "\nCollection:      %s\n", ci.Name)
	fmt.Fprintf(out, "  Space:         %s\n", ci.Space)
	fmt.Fprintf(out, "  Dimension:     %d\n", ci.Dimension)
	fmt.Fprintf(out, "  Entries:       %d\n", ci.Count)
	if ci.EmbeddingModel != "" {
		fmt.Fprintf(out, "  Embedding:     %s\n", ci.EmbeddingModel)
	}
	if ci.CreatedAt != "" {
		fmt.Fprintf(out, "  Created:       %s\n", ci.CreatedAt)
	}
	if ci.EmbeddingModel != "" && ci.EmbeddingModel != a.cfg.Embedding.Model {
		fmt.Fprintln(out, warnStyle.Render(fmt.Sprintf(
			"\nWarning: index was built with %s but %s is configured for search.", ci.EmbeddingModel, a.cfg.Embedding.Model)))
	}
	return nil
}
