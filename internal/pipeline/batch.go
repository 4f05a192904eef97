package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/hitksoup/internal/browser"
	"github.com/nao1215/hitksoup/internal/model"
	"golang.org/x/time/rate"
)

// Opener creates the session a batch runs on.
type Opener func(ctx context.Context) (browser.Session, error)

// Progress is reported after each roll of a batch.
type Progress struct {
	// Index is the 1-based position of Roll in the batch.
	Index int

	// Total is the number of rolls in the batch.
	Total int

	// Roll is the roll just processed.
	Roll string

	// Success is false when the portal had no result for Roll.
	Success bool
}

// BatchRunner fetches many rolls over one session, one at a time.
type BatchRunner struct {
	open Opener

	// logger is used for batch-level logging.
	logger *slog.Logger

	// pipelineOpts are passed to every Pipeline.
	pipelineOpts []Option

	// interval is the minimum time between two submissions.
	interval time.Duration

	progress func(Progress)
}

// BatchOption configures a BatchRunner.
type BatchOption func(*BatchRunner)

// WithBatchLogger sets a custom logger for batch processing. Pipelines
// inherit it unless WithPipelineOptions sets their own.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchRunner) {
		b.logger = logger
	}
}

// WithPipelineOptions appends options used for every Pipeline.
func WithPipelineOptions(opts ...Option) BatchOption {
	return func(b *BatchRunner) {
		b.pipelineOpts = append(b.pipelineOpts, opts...)
	}
}

// WithSubmitInterval spaces submissions at least d apart. Zero or negative
// disables pacing.
func WithSubmitInterval(d time.Duration) BatchOption {
	return func(b *BatchRunner) {
		b.interval = d
	}
}

// WithProgress registers fn to be called after each roll.
func WithProgress(fn func(Progress)) BatchOption {
	return func(b *BatchRunner) {
		b.progress = fn
	}
}

// NewBatchRunner creates a BatchRunner that gets its session from open.
func NewBatchRunner(open Opener, opts ...BatchOption) *BatchRunner {
	b := &BatchRunner{open: open}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// RunOne fetches a single roll on a fresh session.
func (b *BatchRunner) RunOne(ctx context.Context, profile model.Profile, roll string) (model.StudentResult, error) {
	results, err := b.RunAll(ctx, profile, []string{roll})
	if err != nil {
		return model.StudentResult{}, err
	}
	return results[0], nil
}

// RunAll fetches every roll in order and returns one result per roll, in
// the same order. Rolls the portal does not know yield unsuccessful
// results. The first Failure, or a cancelled ctx, aborts the batch and
// RunAll returns nil results with the error.
func (b *BatchRunner) RunAll(ctx context.Context, profile model.Profile, rolls []string) ([]model.StudentResult, error) {
	b.logger.Info("starting batch",
		"profile", profile.Key,
		"total_rolls", len(rolls),
	)
	startTime := time.Now()

	session, err := b.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open browser session: %w", err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			b.logger.Warn("failed to close browser session", "error", cerr)
		}
	}()

	opts := append([]Option{WithLogger(b.logger)}, b.pipelineOpts...)
	p := New(session, opts...)

	var limiter *rate.Limiter
	if b.interval > 0 {
		limiter = rate.NewLimiter(rate.Every(b.interval), 1)
	}

	results := make([]model.StudentResult, 0, len(rolls))
	for i, roll := range rolls {
		if err := ctx.Err(); err != nil {
			b.logger.Warn("batch cancelled", "index", i+1, "reason", err)
			return nil, err
		}
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		result, err := p.Run(ctx, profile, roll)
		if err != nil {
			b.logger.Error("batch aborted",
				"roll", roll,
				"index", i+1,
				"total", len(rolls),
				"error", err,
			)
			return nil, err
		}
		results = append(results, result)

		if b.progress != nil {
			b.progress(Progress{Index: i + 1, Total: len(rolls), Roll: roll, Success: result.Success})
		}
	}

	b.logger.Info("batch complete",
		"total_rolls", len(rolls),
		"successful", model.CountSuccessful(results),
		"elapsed", time.Since(startTime),
	)
	return results, nil
}
