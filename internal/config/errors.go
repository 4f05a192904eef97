package config

import "errors"

// Configuration validation errors, returned by Config.Validate.
var (
	// ErrNoRoll is returned when neither a roll nor a roll file is given.
	ErrNoRoll = errors.New("no roll specified: provide a roll number or a CSV file")

	// ErrNoSemester is returned when the semester or year is missing.
	ErrNoSemester = errors.New("semester and year are required")

	// ErrUnknownEngine is returned for engines other than rod and form.
	ErrUnknownEngine = errors.New("unknown engine: must be rod or form")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidSubmitInterval is returned when the submit interval is negative.
	ErrInvalidSubmitInterval = errors.New("invalid submit interval: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
