package cli

// silentError wraps an error that has already been printed to stderr,
// so Run's top-level handler does not print it a second time —
// grounded on the teacher's NewSilentError/IsSilentError pair
// (referenced throughout cmd/rekal/cli but not present in the
// retrieved pack subset; this is the same pattern rebuilt for this
// domain, per DESIGN.md).
type silentError struct {
	err error
}

func (e *silentError) Error() string { return e.err.Error() }
func (e *silentError) Unwrap() error { return e.err }

// newSilentError wraps err so Run() does not print it again.
func newSilentError(err error) error {
	return &silentError{err: err}
}

// isSilentError reports whether err has already been printed.
func isSilentError(err error) bool {
	_, ok := err.(*silentError)
	return ok
}
