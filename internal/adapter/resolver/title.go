package resolver

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
	"librarian/internal/adapter/catalog"
	"librarian/internal/domain"
	"librarian/internal/port"
)

// DefaultCutoff is the minimum similarity ratio a fuzzy match must reach.
const DefaultCutoff = 0.6

// TitleResolver matches free text against catalog titles. It keeps no state
// between calls; the catalog is re-read every time.
type TitleResolver struct {
	catalog port.Catalog
	cutoff  float64
}

func NewTitleResolver(c port.Catalog, cutoff float64) *TitleResolver {
	if cutoff <= 0 || cutoff > 1 {
		cutoff = DefaultCutoff
	}
	return &TitleResolver{catalog: c, cutoff: cutoff}
}

// ResolveTitle returns the catalog title matching query. The exact pass
// compares trimmed, case-folded strings and returns the first hit in catalog
// order. When approximate is set and the exact pass fails, the title with the
// highest similarity ratio is returned if the ratio reaches the cutoff.
func (r *TitleResolver) ResolveTitle(query string, approximate bool) (string, error) {
	want := catalog.Normalize(query)
	if want == "" {
		return "", domain.InvalidArgument("non-empty query required")
	}

	records, err := r.catalog.Load()
	if err != nil {
		return "", err
	}

	for _, rec := range records {
		if catalog.Normalize(rec.Title) == want {
			return rec.Title, nil
		}
	}

	if !approximate || len(records) == 0 {
		return "", fmt.Errorf("%w: %q", domain.ErrTitleNotFound, query)
	}

	best, bestRatio := -1, 0.0
	for i, rec := range records {
		ratio := Similarity(catalog.Normalize(rec.Title), want)
		if ratio >= r.cutoff && ratio > bestRatio {
			best, bestRatio = i, ratio
		}
	}
	if best < 0 {
		return "", fmt.Errorf("%w: %q", domain.ErrTitleNotFound, query)
	}
	return records[best].Title, nil
}

// Similarity returns the sequence-alignment ratio 2*M/T between a and b,
// where M is the number of characters in matching blocks and T the total
// length of both strings.
func Similarity(a, b string) float64 {
	return difflib.NewMatcher(runes(a), runes(b)).Ratio()
}

func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
