package rolls

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// ErrFileNotFound is returned by ReadFile when the batch file does not exist.
var ErrFileNotFound = errors.New("roll file not found")

// Read returns the rolls in r in row-major order. Rows may hold any number
// of comma-separated rolls; cells are trimmed and empty cells are skipped.
func Read(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	rolls := make([]string, 0)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rolls, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse roll list: %w", err)
		}
		for _, cell := range record {
			if roll := strings.TrimSpace(cell); roll != "" {
				rolls = append(rolls, roll)
			}
		}
	}
}

// ReadFile reads the rolls stored in the CSV file at path.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by the user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to open roll file: %w", err)
	}
	defer f.Close()

	rolls, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rolls, nil
}
