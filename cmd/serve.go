package cmd

import (
	"github.com/spf13/cobra"

	"github.com/linkvault/linkvault/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Runs the HTTP API until SIGINT or SIGTERM. Usage:

	linkvault serve
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup(cmd.Context())
		if err != nil {
			return err
		}

		srv, err := server.New(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		return srv.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
