package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/hitksoup/internal/report"
)

func TestSplitRolls(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single", "10001", []string{"10001"}},
		{"spaces", " 10001  10002 ", []string{"10001", "10002"}},
		{"commas", "10001,10002, 10003", []string{"10001", "10002", "10003"}},
		{"blank", "  , ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tt.want, splitRolls(tt.input)); diff != "" {
				t.Errorf("splitRolls(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestValidateYear(t *testing.T) {
	t.Parallel()

	for _, year := range []string{"2019", " 2020 "} {
		if err := validateYear(year); err != nil {
			t.Errorf("validateYear(%q) = %v, want nil", year, err)
		}
	}
	for _, year := range []string{"", "19", "20195", "20x9"} {
		if err := validateYear(year); err == nil {
			t.Errorf("validateYear(%q) = nil, want error", year)
		}
	}
}

func TestSemesterOptions(t *testing.T) {
	t.Parallel()

	opts := semesterOptions()
	if len(opts) != 8 {
		t.Fatalf("got %d options, want 8", len(opts))
	}
	if opts[0].Value != "1" || opts[7].Value != "8" {
		t.Errorf("unexpected option values %q..%q", opts[0].Value, opts[7].Value)
	}
}

func TestSaveProblem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("%w: /nope", report.ErrDirectoryNotFound), "That directory does not exist."},
		{fmt.Errorf("%w: a.csv", report.ErrFileExists), "That file already exists. Choose another name."},
		{report.ErrInvalidFileName, "That is not a valid file name."},
		{errors.New("disk full"), "Failed to save results: disk full"},
	}

	for _, tt := range tests {
		if got := saveProblem(tt.err); got != tt.want {
			t.Errorf("saveProblem(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestFetchWithSpinner(t *testing.T) {
	t.Parallel()

	interrupted := errors.New("program was interrupted")
	fetched := &fetchRun{mode: modeIndividual}

	t.Run("returns the fetched run", func(t *testing.T) {
		t.Parallel()

		spin := func(ctx context.Context, action func(context.Context) error) error {
			return action(ctx)
		}
		run, err := fetchWithSpinner(context.Background(), spin, func(context.Context) (*fetchRun, error) {
			return fetched, nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run != fetched {
			t.Errorf("got run %p, want %p", run, fetched)
		}
	})

	t.Run("returns the fetch error", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("portal down")
		spin := func(ctx context.Context, action func(context.Context) error) error {
			return action(ctx)
		}
		run, err := fetchWithSpinner(context.Background(), spin, func(context.Context) (*fetchRun, error) {
			return nil, boom
		})
		if !errors.Is(err, boom) || run != nil {
			t.Errorf("got %v, %v; want nil, %v", run, err, boom)
		}
	})

	t.Run("interrupted before the fetch starts", func(t *testing.T) {
		t.Parallel()

		spin := func(context.Context, func(context.Context) error) error {
			return interrupted
		}
		run, err := fetchWithSpinner(context.Background(), spin, func(context.Context) (*fetchRun, error) {
			t.Error("fetch should not run")
			return fetched, nil
		})
		if !errors.Is(err, interrupted) || run != nil {
			t.Errorf("got %v, %v; want nil, %v", run, err, interrupted)
		}
	})

	t.Run("interrupted while fetching cancels and waits", func(t *testing.T) {
		t.Parallel()

		running := make(chan struct{})
		finished := make(chan struct{})
		spin := func(ctx context.Context, action func(context.Context) error) error {
			go func() { _ = action(ctx) }()
			<-running
			return interrupted
		}
		run, err := fetchWithSpinner(context.Background(), spin, func(ctx context.Context) (*fetchRun, error) {
			close(running)
			<-ctx.Done()
			close(finished)
			return nil, ctx.Err()
		})
		select {
		case <-finished:
		default:
			t.Error("fetchWithSpinner returned before the fetch finished")
		}
		if run != nil {
			t.Errorf("expected no run, got %v", run)
		}
		if !errors.Is(err, context.Canceled) && !errors.Is(err, interrupted) {
			t.Errorf("unexpected error %v", err)
		}
	})
}
