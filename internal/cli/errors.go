package cli

import (
	"errors"
	"fmt"

	"librarian/internal/adapter/store"
	"librarian/internal/domain"
)

// describeError turns an error into a one-line diagnostic that says whether
// the input was bad, the catalog or index is unusable, or a remote call
// failed.
func describeError(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return fmt.Sprintf("Invalid input: %v", err)
	case errors.Is(err, domain.ErrDatasetNotFound), errors.Is(err, domain.ErrEmptyCatalog):
		return fmt.Sprintf("Catalog problem: %v", err)
	case errors.Is(err, store.ErrCollectionNotFound):
		return "No index found. Run 'librarian index' first."
	case errors.Is(err, domain.ErrProvider) && domain.IsTransient(err):
		return fmt.Sprintf("Remote dependency timed out, try again: %v", err)
	case errors.Is(err, domain.ErrProvider):
		return fmt.Sprintf("Remote dependency failed: %v", err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
