// Package database provides SQLite-based run history for hitksoup.
//
// Every fetch run can be recorded with its profile key, semester, timing and
// the ordered results it produced. The history is only ever read by the
// history command; fetches always go to the portal.
//
// The store uses modernc.org/sqlite, a CGO-free driver, with WAL enabled by
// default.
package database
