// Package cli implements the `semindex` cobra command tree per
// SPEC_FULL.md §1.1: build, svd, query, stats, serve, doc. Grounded on
// the teacher's root.go/RunE→run* delegation and group-based command
// organisation.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mcjwsn/semindex/internal/xlog"
)

// Version is overridden at build time via -ldflags.
var Version = "dev"

// NewRootCmd returns the root command for the semindex CLI.
func NewRootCmd() *cobra.Command {
	var (
		cacheBase string
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:           "semindex",
		Short:         "semindex — latent-semantic search over a document corpus",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if verbose {
				xlog.SetLevel(zerolog.DebugLevel)
			}
		},
	}
	cmd.PersistentFlags().StringVar(&cacheBase, "cache", "semindex_cache", "On-disk cache base path (<base>.idx plus component files)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug-level logging")
	cmd.SetVersionTemplate("semindex {{.Version}}\n")
	cmd.Version = Version

	coreGroup := &cobra.Group{ID: "core", Title: "Core Commands:"}
	queryGroup := &cobra.Group{ID: "query", Title: "Query Commands:"}
	cmd.AddGroup(coreGroup, queryGroup)

	buildCmd := newBuildCmd(&cacheBase)
	buildCmd.GroupID = "core"
	svdCmd := newSVDCmd(&cacheBase)
	svdCmd.GroupID = "core"
	statsCmd := newStatsCmd(&cacheBase)
	statsCmd.GroupID = "core"

	queryCmd := newQueryCmd(&cacheBase)
	queryCmd.GroupID = "query"
	docCmd := newDocCmd(&cacheBase)
	docCmd.GroupID = "query"
	serveCmd := newServeCmd(&cacheBase)
	serveCmd.GroupID = "query"

	cmd.AddCommand(buildCmd, svdCmd, statsCmd)
	cmd.AddCommand(queryCmd, docCmd, serveCmd)

	return cmd
}

// Run executes the root command and exits with the appropriate code.
func Run() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if !isSilentError(err) {
			fmt.Fprintln(rootCmd.ErrOrStderr(), err)
		}
		os.Exit(1)
	}
}
