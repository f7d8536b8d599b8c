package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"librarian/internal/domain"
)

// JSONCatalog reads book records from one JSON file or from every file a
// doublestar pattern matches. Each file holds a JSON array of
// {title, summary, themes} objects; files are concatenated in sorted path
// order so ordinals are stable.
type JSONCatalog struct {
	pattern string
	logger  *slog.Logger
}

func NewJSONCatalog(pattern string) *JSONCatalog {
	return &JSONCatalog{
		pattern: pattern,
		logger:  slog.Default().With("component", "catalog"),
	}
}

// Load reads the dataset afresh on every call.
func (c *JSONCatalog) Load() ([]domain.BookRecord, error) {
	files, err := c.files()
	if err != nil {
		return nil, err
	}

	var records []domain.BookRecord
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}

		var batch []domain.BookRecord
		if err := json.Unmarshal(data, &batch); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}

		for _, rec := range batch {
			ordinal := len(records)
			rec.Title = strings.TrimSpace(rec.Title)
			if rec.Title == "" {
				rec.Title = fmt.Sprintf("Untitled #%d", ordinal)
				c.logger.Warn("record without title", "file", path, "ordinal", ordinal)
			}
			if rec.Themes == nil {
				rec.Themes = []string{}
			}
			records = append(records, rec)
		}
	}

	c.logger.Debug("catalog loaded", "files", len(files), "records", len(records))
	return records, nil
}

func (c *JSONCatalog) files() ([]string, error) {
	pattern := strings.TrimSpace(c.pattern)
	if pattern == "" {
		return nil, domain.InvalidArgument("catalog path must be non-empty")
	}

	if !hasMeta(pattern) {
		info, err := os.Stat(pattern)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w at: %s", domain.ErrDatasetNotFound, pattern)
			}
			return nil, err
		}
		if !info.IsDir() {
			return []string{pattern}, nil
		}
		pattern = filepath.Join(pattern, "**", "*.json")
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, domain.InvalidArgument("catalog pattern %q: %v", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w at: %s", domain.ErrDatasetNotFound, pattern)
	}
	sort.Strings(matches)
	return matches, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// Lookup returns the first record whose title equals title after trimming
// and case folding.
func Lookup(records []domain.BookRecord, title string) (domain.BookRecord, bool) {
	want := Normalize(title)
	if want == "" {
		return domain.BookRecord{}, false
	}
	for _, rec := range records {
		if Normalize(rec.Title) == want {
			return rec, true
		}
	}
	return domain.BookRecord{}, false
}

// Normalize trims and case-folds a title for comparison.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
