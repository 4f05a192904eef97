package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// TableWriter renders results as a console table. The name column is left
// aligned and every other column is centered.
type TableWriter struct {
	baseWriter
	style table.Style
}

// TableOption configures a TableWriter.
type TableOption func(*TableWriter)

// WithTableStyle replaces the default rounded style.
func WithTableStyle(style table.Style) TableOption {
	return func(w *TableWriter) {
		w.style = style
	}
}

// NewTableWriter creates a TableWriter that outputs to the given writer.
func NewTableWriter(output io.Writer, opts ...TableOption) *TableWriter {
	w := &TableWriter{
		baseWriter: newBaseWriter(output),
		style:      table.StyleRounded,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write implements Writer.
func (w *TableWriter) Write(set *ResultSet) (int, error) {
	t := table.NewWriter()
	t.SetStyle(w.style)

	columns := set.Header.Columns()
	header := make(table.Row, 0, len(columns))
	for _, c := range columns {
		header = append(header, c)
	}
	t.AppendHeader(header)

	for _, cells := range set.rows() {
		row := make(table.Row, 0, len(cells))
		for _, c := range cells {
			row = append(row, c)
		}
		t.AppendRow(row)
	}

	configs := make([]table.ColumnConfig, 0, len(columns))
	for i := range columns {
		align := text.AlignCenter
		if i == 1 {
			align = text.AlignLeft
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignCenter,
		})
	}
	t.SetColumnConfigs(configs)
	t.SetCaption("%s: %d of %d results fetched", set.Semester, countFetched(set), len(set.Results))

	return fmt.Fprintln(w.output, t.Render())
}

func countFetched(set *ResultSet) int {
	return len(set.Results) - len(set.Missing())
}
