package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/linkvault/linkvault/internal/pkg/config"
	"github.com/linkvault/linkvault/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:           "linkvault",
	Short:         "LinkVault bookmark API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with a context cancelled on SIGINT/SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		reportFailure(os.Stderr, err)
		os.Exit(1)
	}
}

// reportFailure logs a command error. setup may not have run, so the logger
// is initialised here if needed.
func reportFailure(out io.Writer, err error) {
	log := logger.Init(logger.Options{Output: out})
	log.Error().Err(err).Msg("command failed")
}

// setup loads configuration and initialises the process logger.
func setup(ctx context.Context) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "linkvault",
	})
	return cfg, log, nil
}
