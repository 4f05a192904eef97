package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nao1215/hitksoup/internal/pipeline"
	"github.com/nao1215/hitksoup/internal/profile"
	"github.com/nao1215/hitksoup/internal/rolls"
	"github.com/spf13/cobra"
)

// Process exit codes.
const (
	exitOK       = 0
	exitFailure  = 1
	exitConfig   = 2
	exitPipeline = 3
)

// errConfiguration marks invalid flags and settings.
var errConfiguration = errors.New("configuration error")

// NewRootCmd creates the root command for hitksoup.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hitksoup",
		Short: "Fetch semester results from a university result portal",
		Long: `hitksoup fetches semester results from a university result portal.

For every roll number it opens the portal's result form, fills in the roll
and semester, submits it and reads the student's name, registration number
and GPAs. How to drive the form is described by an extraction profile, one
file per year and semester parity, e.g. configs/2019_ODD.json.

Rolls the portal does not know are reported as missing and never stop a
batch. A profile that no longer matches the page, or a portal that cannot
be reached, aborts the run.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewFetchCmd())
	cmd.AddCommand(NewBatchCmd())
	cmd.AddCommand(NewInteractiveCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command and exits with the code for its error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "hitksoup:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the process exit status: 2 for profile and
// configuration problems, 3 for pipeline failures, 1 for anything else.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, pipeline.ErrUnreachablePortal),
		errors.Is(err, pipeline.ErrInvalidProfile):
		return exitPipeline
	case errors.Is(err, errConfiguration),
		errors.Is(err, profile.ErrInvalidDescriptor),
		errors.Is(err, profile.ErrProfileMissing),
		errors.Is(err, profile.ErrInvalidProfile),
		errors.Is(err, rolls.ErrFileNotFound):
		return exitConfig
	default:
		return exitFailure
	}
}
