package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcjwsn/semindex/internal/engine"
	"github.com/mcjwsn/semindex/internal/persist"
)

// loadEngine loads the cached index at base, printing a precondition
// error and returning a silentError if no cache exists yet — the
// closest analogue to the teacher's EnsureGitRoot/EnsureInitDone
// precondition checks for a domain with no git-root concept (per
// DESIGN.md).
func loadEngine(cmd *cobra.Command, base string) (*engine.Engine, error) {
	e, err := engine.Load(base)
	if err != nil {
		var pe *persist.PersistenceError
		if errors.As(err, &pe) && pe.Kind == persist.KindCacheMissing {
			fmt.Fprintf(cmd.ErrOrStderr(), "no index found at %q; run 'semindex build' first\n", base)
			return nil, newSilentError(err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return nil, newSilentError(err)
	}
	return e, nil
}
