package cli

import (
	"fmt"

	"github.com/go-faster/errors"

	"github.com/xenking/catalog-feed/internal/catalog"
	"github.com/xenking/catalog-feed/internal/domain/product"
	"github.com/xenking/catalog-feed/internal/syncedlist"
)

// ValidationError indicates an invalid argument or flag.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

// FormatError returns a user-facing message prefixed with "error: ".
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var statusErr *catalog.HTTPStatusError
	switch {
	case errors.Is(err, product.ErrNotFound):
		return "error: product not found"
	case errors.As(err, &statusErr):
		return fmt.Sprintf("error: catalog returned HTTP %d", statusErr.StatusCode)
	case errors.Is(err, syncedlist.ErrCorrupt):
		return "error: stored data is unreadable and was ignored: " + err.Error()
	default:
		return "error: " + err.Error()
	}
}
