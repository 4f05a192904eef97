package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrDirectoryNotFound is returned when the save directory does not exist.
	ErrDirectoryNotFound = errors.New("directory does not exist")

	// ErrFileExists is returned instead of overwriting a saved file.
	ErrFileExists = errors.New("file already exists")

	// ErrInvalidFileName is returned for empty names or names with a path.
	ErrInvalidFileName = errors.New("invalid file name")
)

// CSVWriter renders results as CSV with a header row.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write implements Writer.
func (w *CSVWriter) Write(set *ResultSet) (int, error) {
	cw := &countingWriter{w: w.output}
	enc := csv.NewWriter(cw)

	if err := enc.Write(set.Header.Columns()); err != nil {
		return cw.n, err
	}
	if err := enc.WriteAll(set.rows()); err != nil {
		return cw.n, err
	}
	return cw.n, enc.Error()
}

// SaveCSV writes set to dir/name and returns the path written. A ".csv"
// extension is added when name has none. SaveCSV never overwrites: an
// existing file yields ErrFileExists and a missing directory yields
// ErrDirectoryNotFound.
func SaveCSV(dir, name string, set *ResultSet) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidFileName, name)
	}
	if filepath.Ext(name) == "" {
		name += ".csv"
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
	}

	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600) //nolint:gosec // path is provided by the user
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrFileExists, path)
		}
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}

	if _, err := NewCSVWriter(f).Write(set); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}

type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
