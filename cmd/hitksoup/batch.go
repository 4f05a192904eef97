package main

import (
	"github.com/spf13/cobra"
)

// NewBatchCmd creates the batch command.
func NewBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Fetch the results of every roll listed in a CSV file",
		Long: `Batch reads roll numbers from a CSV file and fetches them one after
another over a single browser session. Every non-empty cell is a roll, read
row by row. Progress is printed to stderr.

A roll the portal does not know is reported as missing and the batch goes on.
A portal that cannot be reached, or a profile that no longer matches the
page, aborts the batch without printing partial results.

Examples:
  # Fetch every roll in rolls.csv
  hitksoup batch -s 5 -y 2019 rolls.csv

  # Pace submissions and save the results
  hitksoup batch -s 5 -y 2019 --submit-interval 2s -o results.csv rolls.csv`,
		Args: cobra.ExactArgs(1),
		RunE: runBatchCmd,
	}

	addRunFlags(cmd, true)

	return cmd
}

// runBatchCmd executes the batch command.
func runBatchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	cfg.RollFile = args[0]

	return runNonInteractive(cmd, cfg, modeBatch)
}
