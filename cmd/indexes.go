package cmd

import (
	"github.com/spf13/cobra"

	"github.com/linkvault/linkvault/internal/server"
)

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the MongoDB indexes and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		return server.EnsureIndexes(cmd.Context(), cfg, log)
	},
}

func init() {
	rootCmd.AddCommand(indexesCmd)
}
