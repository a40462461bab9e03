package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcjwsn/semindex/internal/query"
)

func newQueryCmd(cacheBase *string) *cobra.Command {
	var (
		mode  string
		rank  int
		limit int
	)

	cmd := &cobra.Command{
		Use:   "query <text>...",
		Short: "Search the index and print the top matching documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runQuery(cmd, *cacheBase, strings.Join(args, " "), mode, rank, limit)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "tfidf", "Scoring mode: tfidf, lsi, lowrank")
	cmd.Flags().IntVar(&rank, "k", 50, "SVD rank to use for lsi/lowrank modes")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of results")
	return cmd
}

func runQuery(cmd *cobra.Command, cacheBase, text, mode string, rank, limit int) error {
	e, err := loadEngine(cmd, cacheBase)
	if err != nil {
		return err
	}

	results, err := e.Search(cmd.Context(), text, query.Mode(mode), rank, limit)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return newSilentError(err)
	}

	type row struct {
		ID    int     `json:"id"`
		Score float64 `json:"score"`
		Title string  `json:"title"`
		URL   string  `json:"url,omitempty"`
	}
	rows := make([]row, 0, len(results))
	for _, r := range results {
		doc, ok := e.DocAt(r.DocIndex)
		if !ok {
			continue
		}
		rows = append(rows, row{ID: doc.ID, Score: r.Score, Title: doc.Title, URL: doc.URL})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
