package port

import "librarian/internal/domain"

// Catalog supplies the ordered book records. Every call reads the dataset
// afresh.
type Catalog interface {
	Load() ([]domain.BookRecord, error)
}

// TitleResolver maps free text onto a catalog title.
type TitleResolver interface {
	// ResolveTitle returns the matching catalog title or
	// domain.ErrTitleNotFound. approximate enables fuzzy matching after the
	// exact pass fails.
	ResolveTitle(query string, approximate bool) (string, error)
}
