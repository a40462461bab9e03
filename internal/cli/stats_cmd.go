package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newStatsCmd(cacheBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print document and vocabulary counts for the cached index",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return runStats(cmd, *cacheBase)
		},
	}
}

func runStats(cmd *cobra.Command, cacheBase string) error {
	e, err := loadEngine(cmd, cacheBase)
	if err != nil {
		return err
	}

	docCount, vocabSize := e.Stats()
	out := struct {
		DocumentCount  int `json:"document_count"`
		VocabularySize int `json:"vocabulary_size"`
	}{DocumentCount: docCount, VocabularySize: vocabSize}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
