package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/hitksoup/internal/model"
)

// FileName is the database file created inside the history directory.
const FileName = "hitksoup.db"

var (
	// ErrRunNotFound is returned when no run matches an id.
	ErrRunNotFound = errors.New("run not found")

	// ErrAmbiguousRunID is returned when an id prefix matches several runs.
	ErrAmbiguousRunID = errors.New("run id prefix matches several runs")
)

// HistoryDB stores past fetch runs.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("history database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	h := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := h.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return h, nil
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

func (h *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		profile_key TEXT NOT NULL,
		semester INTEGER NOT NULL,
		year TEXT NOT NULL,
		mode TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		total INTEGER NOT NULL,
		successful INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- Results keep the input order of their run through position
	CREATE TABLE IF NOT EXISTS results (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		roll TEXT NOT NULL,
		name TEXT NOT NULL,
		registration TEXT NOT NULL,
		sgpa_odd TEXT NOT NULL,
		sgpa_even TEXT NOT NULL,
		ygpa TEXT NOT NULL,
		success INTEGER NOT NULL,
		PRIMARY KEY (run_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_results_roll ON results(roll);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// Run is the metadata of one stored fetch run.
type Run struct {
	// ID is a UUID assigned by SaveRun.
	ID string

	// ProfileKey is the profile the run used, e.g. "2019_EVEN".
	ProfileKey string

	// Semester is the semester that was fetched.
	Semester model.Semester

	// Mode is "individual" or "batch".
	Mode string

	StartedAt  time.Time
	FinishedAt time.Time

	// Total and Successful count the run's results.
	Total      int
	Successful int
}

// SaveRun stores run and its results in one transaction and returns the
// new run id. ID, Total and Successful are filled in from results.
func (h *HistoryDB) SaveRun(ctx context.Context, run Run, results []model.StudentResult) (string, error) {
	run.ID = uuid.NewString()
	run.Total = len(results)
	run.Successful = model.CountSuccessful(results)

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (id, profile_key, semester, year, mode, started_at, finished_at, total, successful)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.ProfileKey,
		run.Semester.Number,
		run.Semester.Year,
		run.Mode,
		formatTimestamp(run.StartedAt),
		formatTimestamp(run.FinishedAt),
		run.Total,
		run.Successful,
	)
	if err != nil {
		return "", fmt.Errorf("failed to save run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO results (run_id, position, roll, name, registration, sgpa_odd, sgpa_even, ygpa, success)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare result insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range results {
		if _, err := stmt.ExecContext(ctx,
			run.ID, i, r.Roll, r.Name, r.RegistrationNumber, r.OddGPA, r.EvenGPA, r.YearGPA, r.Success,
		); err != nil {
			return "", fmt.Errorf("failed to save result %s: %w", r.Roll, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return run.ID, nil
}

// ListRuns returns the most recent runs first. A limit of zero or less
// returns every run.
func (h *HistoryDB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
	SELECT id, profile_key, semester, year, mode, started_at, finished_at, total, successful
	FROM runs
	ORDER BY started_at DESC, id
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns the run whose id starts with idPrefix.
func (h *HistoryDB) GetRun(ctx context.Context, idPrefix string) (Run, error) {
	if idPrefix == "" {
		return Run{}, ErrRunNotFound
	}

	rows, err := h.db.QueryContext(ctx, `
	SELECT id, profile_key, semester, year, mode, started_at, finished_at, total, successful
	FROM runs
	WHERE substr(id, 1, ?) = ?
	LIMIT 2
	`, len(idPrefix), idPrefix)
	if err != nil {
		return Run{}, fmt.Errorf("failed to get run: %w", err)
	}
	defer rows.Close()

	var found []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return Run{}, err
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return Run{}, fmt.Errorf("failed to get run: %w", err)
	}

	switch len(found) {
	case 0:
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, idPrefix)
	case 1:
		return found[0], nil
	default:
		return Run{}, fmt.Errorf("%w: %s", ErrAmbiguousRunID, idPrefix)
	}
}

// GetRunResults returns the results of run id in their original order.
func (h *HistoryDB) GetRunResults(ctx context.Context, id string) ([]model.StudentResult, error) {
	rows, err := h.db.QueryContext(ctx, `
	SELECT roll, name, registration, sgpa_odd, sgpa_even, ygpa, success
	FROM results
	WHERE run_id = ?
	ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get results: %w", err)
	}
	defer rows.Close()

	results := make([]model.StudentResult, 0)
	for rows.Next() {
		var r model.StudentResult
		if err := rows.Scan(&r.Roll, &r.Name, &r.RegistrationNumber, &r.OddGPA, &r.EvenGPA, &r.YearGPA, &r.Success); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run               Run
		started, finished string
	)
	if err := row.Scan(
		&run.ID,
		&run.ProfileKey,
		&run.Semester.Number,
		&run.Semester.Year,
		&run.Mode,
		&started,
		&finished,
		&run.Total,
		&run.Successful,
	); err != nil {
		return Run{}, fmt.Errorf("failed to scan run: %w", err)
	}
	run.StartedAt = parseTimestamp(started)
	run.FinishedAt = parseTimestamp(finished)
	return run, nil
}

// timestampFormat sorts lexically in time order for UTC values.
const timestampFormat = "2006-01-02T15:04:05.000000000Z"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampFormat)
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timestampFormat,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

// parseTimestamp returns the zero time when no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
