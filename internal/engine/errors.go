package engine

import (
	"errors"
	"fmt"
)

// ErrIndexBuildFailed wraps a failure building the base index from a
// corpus (vocabulary/TF-IDF construction), per spec.md §7.
var ErrIndexBuildFailed = errors.New("engine: index build failed")

// ErrSvdDegenerate reports that Truncate() returned no significant
// singular values for a requested rank ("SvdDegenerate" in spec.md
// §7) — logged as a warning, not treated as fatal to the whole
// engine, since other ranks or plain TF-IDF search remain usable.
var ErrSvdDegenerate = errors.New("engine: svd degenerate, no significant singular values")

// QueryError reports an unknown query mode, satisfying error per
// spec.md §7's "Unknown modes yield a client-error response".
type QueryError struct {
	Mode string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("engine: unknown query mode %q", e.Mode)
}
