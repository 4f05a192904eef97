package report

import (
	"io"
	"time"

	"github.com/nao1215/hitksoup/internal/model"
)

// ResultSet is the output of one fetch run.
type ResultSet struct {
	// Semester is the semester the results belong to.
	Semester model.Semester `json:"semester"`

	// Header labels the GPA columns for Semester.
	Header model.Header `json:"header"`

	// Results are in roll input order.
	Results []model.StudentResult `json:"results"`

	// FetchedAt is when the run finished.
	FetchedAt time.Time `json:"fetched_at"`
}

// NewResultSet creates a ResultSet for results of sem fetched now.
func NewResultSet(sem model.Semester, results []model.StudentResult) *ResultSet {
	return &ResultSet{
		Semester:  sem,
		Header:    sem.Header(),
		Results:   results,
		FetchedAt: time.Now(),
	}
}

// Missing returns the rolls the portal had no result for.
func (s *ResultSet) Missing() []string {
	var rolls []string
	for _, r := range s.Results {
		if !r.Success {
			rolls = append(rolls, r.Roll)
		}
	}
	return rolls
}

// rows returns the display cells of every result.
func (s *ResultSet) rows() [][]string {
	rows := make([][]string, 0, len(s.Results))
	for _, r := range s.Results {
		rows = append(rows, r.Row())
	}
	return rows
}

// Writer defines the interface for result output.
type Writer interface {
	// Write renders set to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(set *ResultSet) (int, error)
}

// MultiWriter writes to multiple Writers in order.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write renders set with every Writer and stops on the first error.
func (m *MultiWriter) Write(set *ResultSet) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(set)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
