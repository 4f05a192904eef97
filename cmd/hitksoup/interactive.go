package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/nao1215/hitksoup/internal/model"
	"github.com/nao1215/hitksoup/internal/report"
	"github.com/spf13/cobra"
)

var (
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// answers holds what the user chose in the prompts.
type answers struct {
	mode     string
	rolls    string
	rollFile string
	semester string
	year     string
}

// NewInteractiveCmd creates the interactive command.
func NewInteractiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Fetch results by answering prompts",
		Long: `Interactive asks for the fetch mode, the rolls or the roll file, the
semester and the year, fetches the results and offers to save them as CSV.
Every other setting comes from the flags and the settings file.

Examples:
  hitksoup interactive
  hitksoup interactive --engine form`,
		Args: cobra.NoArgs,
		RunE: runInteractiveCmd,
	}

	addRunFlags(cmd, false)

	return cmd
}

// runInteractiveCmd executes the interactive command.
func runInteractiveCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	var a answers
	if err := askRunDetails(&a); err != nil {
		return err
	}
	cfg.Semester = a.semester
	cfg.Year = a.year
	if a.mode == modeBatch {
		cfg.RollFile = strings.TrimSpace(a.rollFile)
	} else {
		cfg.Rolls = splitRolls(a.rolls)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	logger := newLogger(cmd.ErrOrStderr(), cfg)

	run, err := fetchWithSpinner(ctx, runSpinner, func(ctx context.Context) (*fetchRun, error) {
		return fetchResults(ctx, cfg, a.mode, logger, nil)
	})
	if err != nil {
		return err
	}

	if _, err := report.NewTableWriter(out).Write(run.set); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	if missing := run.set.Missing(); len(missing) > 0 {
		fmt.Fprintln(out, accentStyle.Render("No result exists for: "+strings.Join(missing, ", ")))
	}

	recordHistory(ctx, cfg, run, logger)

	return offerSave(out, run.set)
}

// spinnerRunner shows progress while action runs and returns when the
// action finishes or the user interrupts.
type spinnerRunner func(ctx context.Context, action func(context.Context) error) error

func runSpinner(ctx context.Context, action func(context.Context) error) error {
	return spinner.New().
		Title("Fetching results...").
		Context(ctx).
		ActionWithErr(action).
		Run()
}

type fetchOutcome struct {
	run *fetchRun
	err error
}

// fetchWithSpinner runs fetch under spin. The spinner may return before
// fetch does when the user interrupts it; fetch is then cancelled and
// waited for so its result is never read concurrently.
func fetchWithSpinner(ctx context.Context, spin spinnerRunner, fetch func(context.Context) (*fetchRun, error)) (*fetchRun, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	started := make(chan struct{})
	done := make(chan fetchOutcome, 1)
	spinErr := spin(ctx, func(ctx context.Context) error {
		close(started)
		run, err := fetch(ctx)
		done <- fetchOutcome{run: run, err: err}
		return err
	})

	select {
	case <-started:
	default:
		if spinErr == nil {
			spinErr = errors.New("fetch did not start")
		}
		return nil, spinErr
	}

	if spinErr != nil {
		// Interrupted, or fetch failed. Either way wait for fetch to return.
		cancel()
		if outcome := <-done; outcome.err != nil {
			return nil, outcome.err
		}
		return nil, spinErr
	}

	outcome := <-done
	if outcome.err == nil && outcome.run == nil {
		return nil, errors.New("fetch returned no results")
	}
	return outcome.run, outcome.err
}

// askRunDetails prompts for the fetch mode, the rolls and the semester.
func askRunDetails(a *answers) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("What would you like to fetch?").
				Options(
					huh.NewOption("Individual rolls", modeIndividual),
					huh.NewOption("Every roll in a CSV file", modeBatch),
				).
				Value(&a.mode),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Roll numbers").
				Description("Separate several rolls with spaces or commas.").
				Value(&a.rolls).
				Validate(func(v string) error {
					if len(splitRolls(v)) == 0 {
						return errors.New("enter at least one roll number")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return a.mode != modeIndividual }),
		huh.NewGroup(
			huh.NewInput().
				Title("CSV file with roll numbers").
				Placeholder("rolls.csv").
				Value(&a.rollFile).
				Validate(func(v string) error {
					if strings.TrimSpace(v) == "" {
						return errors.New("enter a file path")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return a.mode != modeBatch }),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Semester").
				Options(semesterOptions()...).
				Value(&a.semester),
			huh.NewInput().
				Title("Year the semester was attended").
				Placeholder("2019").
				Value(&a.year).
				Validate(validateYear),
		),
	).WithTheme(huh.ThemeCharm())

	return form.Run()
}

// offerSave asks for a directory and file name until the results are
// saved or the user declines.
func offerSave(out io.Writer, set *report.ResultSet) error {
	dir := "."
	for {
		var save bool
		confirm := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Save these results to a CSV file?").
					Value(&save).
					Affirmative("Save").
					Negative("Skip"),
			),
		).WithTheme(huh.ThemeCharm())
		if err := confirm.Run(); err != nil {
			return err
		}
		if !save {
			return nil
		}

		var name string
		where := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Directory").
					Value(&dir),
				huh.NewInput().
					Title("File name").
					Description("The .csv extension is added when missing.").
					Placeholder("results.csv").
					Value(&name),
			),
		).WithTheme(huh.ThemeCharm())
		if err := where.Run(); err != nil {
			return err
		}

		path, err := report.SaveCSV(dir, name, set)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render(saveProblem(err)))
			continue
		}
		fmt.Fprintln(out, successStyle.Render("Saved results to "+path))
		return nil
	}
}

// saveProblem explains a SaveCSV failure to the user.
func saveProblem(err error) string {
	switch {
	case errors.Is(err, report.ErrDirectoryNotFound):
		return "That directory does not exist."
	case errors.Is(err, report.ErrFileExists):
		return "That file already exists. Choose another name."
	case errors.Is(err, report.ErrInvalidFileName):
		return "That is not a valid file name."
	default:
		return fmt.Sprintf("Failed to save results: %v", err)
	}
}

// semesterOptions lists semesters 1 to 8.
func semesterOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, model.MaxSemester)
	for n := model.MinSemester; n <= model.MaxSemester; n++ {
		s := strconv.Itoa(n)
		opts = append(opts, huh.NewOption(s, s))
	}
	return opts
}

// validateYear accepts a 4-digit year.
func validateYear(v string) error {
	if _, err := model.ParseSemester(strconv.Itoa(model.MinSemester), v); err != nil {
		return model.ErrInvalidYear
	}
	return nil
}

// splitRolls splits user input on commas and whitespace.
func splitRolls(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n'
	})
}

