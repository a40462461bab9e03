package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcjwsn/semindex/internal/corpus"
	"github.com/mcjwsn/semindex/internal/engine"
)

func newBuildCmd(cacheBase *string) *cobra.Command {
	var (
		stopWordsPath string
		noStem        bool
		query         string
		dump          bool
	)

	cmd := &cobra.Command{
		Use:   "build <corpus-path-or-dsn>",
		Short: "Build (or rebuild) the index from a corpus",
		Long: `Build the TF-IDF index from a corpus, then persist it to the
configured cache path (--cache).

The corpus argument is either a DuckDB DSN pointing at a
{id, title, url, text} table (the default), or, with --dump, a path to
a structured .I/.T/.A/.W text dump (spec.md §6).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runBuild(cmd, args[0], *cacheBase, stopWordsPath, !noStem, query, dump)
		},
	}

	cmd.Flags().StringVar(&stopWordsPath, "stopwords", "", "Path to a stop-word file (one word per line); defaults to the built-in list")
	cmd.Flags().BoolVar(&noStem, "no-stem", false, "Disable Porter stemming")
	cmd.Flags().StringVar(&query, "query", "", "Override the default SELECT when ingesting a relational table")
	cmd.Flags().BoolVar(&dump, "dump", false, "Treat the corpus argument as a .I/.T/.A/.W text dump file instead of a DSN")

	return cmd
}

func runBuild(cmd *cobra.Command, source, cacheBase, stopWordsPath string, stem bool, query string, dump bool) error {
	docs, err := loadCorpus(cmd.Context(), source, query, dump)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return newSilentError(err)
	}

	opts := []engine.Option{engine.WithStemming(stem)}
	if stopWordsPath != "" {
		opts = append(opts, engine.WithStopWordsPath(stopWordsPath))
	}

	e, err := engine.Build(docs, opts...)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	if err := e.Save(cacheBase); err != nil {
		return fmt.Errorf("save index: %w", err)
	}

	docCount, vocabSize := e.Stats()
	fmt.Fprintf(cmd.OutOrStdout(), "indexed %d documents, %d vocabulary terms, cache at %s\n", docCount, vocabSize, cacheBase)
	return nil
}

func loadCorpus(ctx context.Context, source, query string, dump bool) ([]corpus.Document, error) {
	if dump {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open dump %s: %w", source, err)
		}
		defer f.Close() //nolint:errcheck
		return corpus.LoadDump(f)
	}

	dsn := source
	if !strings.Contains(dsn, ".") && !strings.Contains(dsn, "/") {
		dsn = dsn + ".duckdb"
	}
	return corpus.LoadTable(ctx, dsn, query)
}
