package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/hitksoup/internal/config"
	"github.com/spf13/cobra"
)

// NewFetchCmd creates the fetch command.
func NewFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch ROLL [ROLL...]",
		Short: "Fetch the results of one or more roll numbers",
		Long: `Fetch submits the result form once per roll number and prints the results
in the order the rolls were given.

Examples:
  # Fetch a single roll in a headless browser
  hitksoup fetch -s 5 -y 2019 10001

  # Fetch several rolls without a browser and save them as CSV
  hitksoup fetch -s 6 -y 2019 --engine form -o results.csv 10001 10002

  # Print JSON
  hitksoup fetch -s 5 -y 2019 --json 10001`,
		Args: cobra.MinimumNArgs(1),
		RunE: runFetchCmd,
	}

	addRunFlags(cmd, true)

	return cmd
}

// runFetchCmd executes the fetch command.
func runFetchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Rolls = args

	return runNonInteractive(cmd, cfg, modeIndividual)
}

// runNonInteractive fetches, prints and records one run for fetch and batch.
func runNonInteractive(cmd *cobra.Command, cfg *config.Config, mode string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stderr := cmd.ErrOrStderr()
	logger := newLogger(stderr, cfg)

	progress := progressPrinter(stderr)
	if mode == modeIndividual && len(cfg.Rolls) == 1 {
		progress = nil
	}

	run, err := fetchResults(ctx, cfg, mode, logger, progress)
	if err != nil {
		return err
	}

	return emitResults(ctx, cfg, run, cmd.OutOrStdout(), stderr, logger)
}
