package engine

import (
	"errors"
	"fmt"

	"github.com/searchforge/cardfuse/internal/names"
)

var (
	// ErrConfig indicates a degenerate configuration (all-zero weights,
	// unknown signal or aggregator). Fatal: rejected at construction,
	// before any query is served.
	ErrConfig = errors.New("invalid engine configuration")
	// ErrNoSignals indicates every configured signal failed to load.
	ErrNoSignals = errors.New("no signals available")
)

// UnresolvedQueryError reports a query whose canonical key is absent from
// every active signal vocabulary. It is always surfaced explicitly so
// callers can tell "no similar cards" apart from "query unmatched".
type UnresolvedQueryError struct {
	Raw      string
	Resolved names.Key
}

func (e *UnresolvedQueryError) Error() string {
	return fmt.Sprintf("query %q (resolved %q) matches no signal vocabulary", e.Raw, e.Resolved)
}

// IsUnresolved reports whether err is an UnresolvedQueryError.
func IsUnresolved(err error) bool {
	var target *UnresolvedQueryError
	return errors.As(err, &target)
}
