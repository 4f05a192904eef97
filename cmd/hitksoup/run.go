package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/nao1215/hitksoup/internal/browser"
	"github.com/nao1215/hitksoup/internal/config"
	"github.com/nao1215/hitksoup/internal/database"
	applog "github.com/nao1215/hitksoup/internal/log"
	"github.com/nao1215/hitksoup/internal/pipeline"
	"github.com/nao1215/hitksoup/internal/profile"
	"github.com/nao1215/hitksoup/internal/report"
	"github.com/nao1215/hitksoup/internal/rolls"
	"github.com/spf13/cobra"
)

// Run modes recorded in the history.
const (
	modeIndividual = "individual"
	modeBatch      = "batch"
)

// addRunFlags registers the flags shared by the fetching commands. The
// semester and year flags are left out for commands that prompt for them.
func addRunFlags(cmd *cobra.Command, withDescriptor bool) {
	if withDescriptor {
		cmd.Flags().StringP("semester", "s", "", "Semester number, 1 to 8 (required)")
		cmd.Flags().StringP("year", "y", "", "Year the semester was attended, e.g. 2019 (required)")
		_ = cmd.MarkFlagRequired("semester") //nolint:errcheck // flag defined above
		_ = cmd.MarkFlagRequired("year")     //nolint:errcheck // flag defined above
	}

	// Profile and engine flags
	cmd.Flags().StringP("profiles", "p", "",
		"Profile directory (default: ./configs, then "+config.XDGProfileDir()+")")
	cmd.Flags().StringP("engine", "e", string(config.EngineRod),
		"Session backend: rod (headless Chromium) or form (plain HTTP)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each page load and element lookup")
	cmd.Flags().Duration("submit-interval", 0,
		"Minimum time between two form submissions")
	cmd.Flags().String("marker", config.DefaultMissingMarker,
		"Text the portal prints when no student matches a roll")
	cmd.Flags().String("user-agent", "",
		"User-Agent sent by the form engine")

	// Browser flags
	cmd.Flags().String("browser-bin", "", "Chromium binary (default: found or downloaded by rod)")
	cmd.Flags().Bool("show-browser", false, "Show the browser window instead of running headless")
	cmd.Flags().Bool("no-sandbox", false, "Disable the Chromium sandbox (needed in most containers)")
	cmd.Flags().Bool("stealth", false, "Hide common automation fingerprints from the portal")

	// Output flags
	cmd.Flags().StringP("output", "o", "",
		"Also save the results to this CSV file (never overwrites)")
	cmd.Flags().BoolP("json", "j", false,
		"Print JSON instead of a table (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Print Markdown instead of a table (mutually exclusive with --json)")
	cmd.Flags().Bool("no-history", false, "Do not record this run in the history database")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Settings file path (default: .hitksoup in current or home directory)")
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from defaults, the settings file and the
// flags the user set, in that order.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// If the user explicitly specified a settings file, it must exist.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to load settings file %s: %w", errConfiguration, configPath, err)
		}
		file.Apply(cfg)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: settings file not found: %s", errConfiguration, cfg.ConfigFilePath)
	}

	if flags.Lookup("semester") != nil {
		if cfg.Semester, err = flags.GetString("semester"); err != nil {
			return nil, err
		}
		if cfg.Year, err = flags.GetString("year"); err != nil {
			return nil, err
		}
	}

	var engine string
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"profiles", &cfg.ProfileDir},
		{"engine", &engine},
		{"marker", &cfg.MissingMarker},
		{"user-agent", &cfg.UserAgent},
		{"browser-bin", &cfg.BrowserBin},
		{"output", &cfg.OutputFile},
	} {
		if err := changedString(cmd, f.name, f.dst); err != nil {
			return nil, err
		}
	}
	if engine != "" {
		cfg.Engine = config.Engine(engine)
	}

	for _, f := range []struct {
		name string
		dst  *time.Duration
	}{
		{"timeout", &cfg.Timeout},
		{"submit-interval", &cfg.SubmitInterval},
	} {
		if flags.Changed(f.name) {
			if *f.dst, err = flags.GetDuration(f.name); err != nil {
				return nil, err
			}
		}
	}

	for _, f := range []struct {
		name string
		dst  *bool
	}{
		{"show-browser", &cfg.ShowBrowser},
		{"no-sandbox", &cfg.NoSandbox},
		{"stealth", &cfg.Stealth},
		{"json", &cfg.JSONReport},
		{"markdown", &cfg.MarkdownReport},
	} {
		if flags.Changed(f.name) {
			if *f.dst, err = flags.GetBool(f.name); err != nil {
				return nil, err
			}
		}
	}

	noHistory, err := flags.GetBool("no-history")
	if err != nil {
		return nil, err
	}
	if noHistory {
		cfg.SaveHistory = false
	}

	cfg.Verbose = getVerboseFlag(cmd)
	return cfg, nil
}

func changedString(cmd *cobra.Command, name string, dst *string) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// newLogger creates the redacting logger used by every component.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	return applog.NewLogger(w, cfg.Verbose)
}

// newOpener returns the session factory for the configured engine.
func newOpener(cfg *config.Config, logger *slog.Logger) pipeline.Opener {
	return func(context.Context) (browser.Session, error) {
		if cfg.Engine == config.EngineForm {
			s, err := browser.NewFormSession(
				browser.WithFormTimeout(cfg.Timeout),
				browser.WithUserAgent(cfg.UserAgent),
				browser.WithFormLogger(logger),
			)
			if err != nil {
				return nil, err
			}
			return s, nil
		}

		s, err := browser.NewRodSession(browser.RodConfig{
			Headless:  !cfg.ShowBrowser,
			NoSandbox: cfg.NoSandbox,
			Bin:       cfg.BrowserBin,
			Stealth:   cfg.Stealth,
			Timeout:   cfg.Timeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// fetchRun is one completed fetch.
type fetchRun struct {
	profileKey string
	mode       string
	started    time.Time
	set        *report.ResultSet
}

// fetchResults validates cfg, resolves the rolls and the profile, and runs
// the batch. progress may be nil.
func fetchResults(ctx context.Context, cfg *config.Config, mode string, logger *slog.Logger, progress func(pipeline.Progress)) (*fetchRun, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errConfiguration, err)
	}

	targets := cfg.Rolls
	if cfg.RollFile != "" {
		var err error
		if targets, err = rolls.ReadFile(cfg.RollFile); err != nil {
			return nil, err
		}
		if len(targets) == 0 {
			return nil, fmt.Errorf("%w: no rolls in %s", errConfiguration, cfg.RollFile)
		}
	}

	profileDir := config.ResolveProfileDir(cfg.ProfileDir)
	loader := profile.NewLoader(profile.NewDirStore(profileDir), profile.WithLogger(logger))
	prof, err := loader.Resolve(cfg.Semester, cfg.Year)
	if err != nil {
		return nil, err
	}

	logger.Info("starting fetch",
		"profile", prof.Key,
		"profile_dir", profileDir,
		"engine", string(cfg.Engine),
		"rolls", len(targets),
	)

	opts := []pipeline.BatchOption{
		pipeline.WithBatchLogger(logger),
		pipeline.WithPipelineOptions(pipeline.WithMissingMarker(cfg.MissingMarker)),
		pipeline.WithSubmitInterval(cfg.SubmitInterval),
	}
	if progress != nil {
		opts = append(opts, pipeline.WithProgress(progress))
	}

	started := time.Now()
	results, err := pipeline.NewBatchRunner(newOpener(cfg, logger), opts...).RunAll(ctx, prof, targets)
	if err != nil {
		return nil, err
	}

	return &fetchRun{
		profileKey: prof.Key,
		mode:       mode,
		started:    started,
		set:        report.NewResultSet(prof.Semester, results),
	}, nil
}

// progressPrinter writes one "[i/n] roll status" line per roll.
func progressPrinter(w io.Writer) func(pipeline.Progress) {
	return func(p pipeline.Progress) {
		status := "ok"
		if !p.Success {
			status = "not found"
		}
		fmt.Fprintf(w, "[%d/%d] %s %s\n", p.Index, p.Total, p.Roll, status)
	}
}

// newReportWriter returns the stdout writer selected by cfg.
func newReportWriter(cfg *config.Config, w io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(w, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(w)
	default:
		return report.NewTableWriter(w)
	}
}

// emitResults prints the run, saves the CSV file when requested and
// records the history. Saving problems are reported on stderr and do not
// fail the command.
func emitResults(ctx context.Context, cfg *config.Config, run *fetchRun, stdout, stderr io.Writer, logger *slog.Logger) error {
	if _, err := newReportWriter(cfg, stdout).Write(run.set); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	if cfg.OutputFile != "" {
		path, err := report.SaveCSV(filepath.Dir(cfg.OutputFile), filepath.Base(cfg.OutputFile), run.set)
		if err != nil {
			fmt.Fprintf(stderr, "results not saved: %v\n", err)
		} else {
			fmt.Fprintf(stderr, "results saved to %s\n", path)
		}
	}

	recordHistory(ctx, cfg, run, logger)
	return nil
}

// recordHistory stores run in the history database when enabled. Failures
// are logged only.
func recordHistory(ctx context.Context, cfg *config.Config, run *fetchRun, logger *slog.Logger) {
	if !cfg.SaveHistory {
		return
	}

	db, err := database.Open(cfg.HistoryDir, database.DefaultOptions())
	if err != nil {
		logger.Warn("failed to open history database", "dir", cfg.HistoryDir, "error", err)
		return
	}
	defer db.Close()

	id, err := db.SaveRun(ctx, database.Run{
		ProfileKey: run.profileKey,
		Semester:   run.set.Semester,
		Mode:       run.mode,
		StartedAt:  run.started,
		FinishedAt: run.set.FetchedAt,
	}, run.set.Results)
	if err != nil {
		logger.Warn("failed to record run", "error", err)
		return
	}
	logger.Info("run recorded", "id", id, "db", db.Path())
}
