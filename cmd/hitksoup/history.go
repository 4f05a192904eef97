package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nao1215/hitksoup/internal/config"
	"github.com/nao1215/hitksoup/internal/database"
	"github.com/nao1215/hitksoup/internal/report"
	"github.com/spf13/cobra"
)

// shortIDLength is the run id prefix shown in listings.
const shortIDLength = 8

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [RUN-ID]",
		Short: "Show previously fetched runs",
		Long: `History lists the runs recorded in the history database, newest first.
Given a run id, or any unique prefix of one, it prints that run's results.

Runs are recorded by fetch, batch and interactive unless --no-history is set.

Examples:
  # List the last 20 runs
  hitksoup history

  # Show the results of one run
  hitksoup history 3f2a9c1e

  # Show a run as Markdown
  hitksoup history --markdown 3f2a9c1e`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to list")
	cmd.Flags().String("dir", config.XDGDataDir(), "Directory of the history database")
	cmd.Flags().BoolP("json", "j", false, "Print the run's results as JSON")
	cmd.Flags().BoolP("markdown", "m", false, "Print the run's results as Markdown")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	limit, err := flags.GetInt("limit")
	if err != nil {
		return err
	}
	dir, err := flags.GetString("dir")
	if err != nil {
		return err
	}
	cfg := config.NewConfig()
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return err
	}
	if cfg.JSONReport && cfg.MarkdownReport {
		return fmt.Errorf("%w: %w", errConfiguration, config.ErrConflictingReportFormats)
	}

	out := cmd.OutOrStdout()

	// Do not create an empty database just to report that it is empty.
	if _, err := os.Stat(filepath.Join(dir, database.FileName)); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}

	db, err := database.Open(dir, database.Options{EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()

	if len(args) == 0 {
		runs, err := db.ListRuns(ctx, limit)
		if err != nil {
			return err
		}
		return listRuns(out, runs)
	}

	run, err := db.GetRun(ctx, args[0])
	if err != nil {
		return err
	}
	results, err := db.GetRunResults(ctx, run.ID)
	if err != nil {
		return err
	}

	set := report.NewResultSet(run.Semester, results)
	set.FetchedAt = run.FinishedAt

	_, err = newReportWriter(cfg, out).Write(set)
	return err
}

// listRuns prints one table row per run.
func listRuns(w io.Writer, runs []database.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded yet.")
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"ID", "Profile", "Semester", "Mode", "Started", "Found"})
	for _, run := range runs {
		id := run.ID
		if len(id) > shortIDLength {
			id = id[:shortIDLength]
		}
		t.AppendRow(table.Row{
			id,
			run.ProfileKey,
			run.Semester.String(),
			run.Mode,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d/%d", run.Successful, run.Total),
		})
	}
	t.Render()

	_, err := fmt.Fprintln(w, "\nUse 'hitksoup history <id>' to show the results of a run.")
	return err
}
