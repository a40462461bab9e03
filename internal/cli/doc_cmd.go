package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newDocCmd(cacheBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "doc <id>",
		Short: "Print a document by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runDoc(cmd, *cacheBase, args[0])
		},
	}
}

func runDoc(cmd *cobra.Command, cacheBase, idArg string) error {
	id, err := strconv.Atoi(idArg)
	if err != nil {
		err = fmt.Errorf("invalid document id %q: %w", idArg, err)
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return newSilentError(err)
	}

	e, err := loadEngine(cmd, cacheBase)
	if err != nil {
		return err
	}

	doc, ok := e.Doc(id)
	if !ok {
		err := fmt.Errorf("no document with id %d", id)
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return newSilentError(err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
