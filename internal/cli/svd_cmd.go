package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSVDCmd(cacheBase *string) *cobra.Command {
	var rank int

	cmd := &cobra.Command{
		Use:   "svd",
		Short: "Compute (or reuse the cached) truncated SVD at a given rank",
		Long: `Compute the truncated SVD of the TF-IDF matrix at the requested rank
via Lanczos bidiagonalization, persisting it alongside the index so
later lsi/lowrank queries at the same rank are served from cache.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return runSVD(cmd, *cacheBase, rank)
		},
	}
	cmd.Flags().IntVar(&rank, "rank", 50, "Truncation rank k")
	return cmd
}

func runSVD(cmd *cobra.Command, cacheBase string, rank int) error {
	e, err := loadEngine(cmd, cacheBase)
	if err != nil {
		return err
	}

	triplet, err := e.EnsureRank(cmd.Context(), rank)
	if err != nil {
		return fmt.Errorf("compute svd rank %d: %w", rank, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "rank %d ready, top singular value %.6g\n", rank, triplet.Sigma[0])
	return nil
}
