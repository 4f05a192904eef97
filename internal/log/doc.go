// Package log builds the slog loggers used by hitksoup.
//
// Result pages carry personal data. RedactingHandler masks student names,
// registration numbers and grades, as well as portal session cookies and
// view state blobs, before records reach the underlying handler. Roll
// numbers are kept so failures can be traced to an input row.
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Debug("result fetched", "roll", "101", "name", "ADA") // name=***REDACTED***
//	slog.SetDefault(logger)
package log
