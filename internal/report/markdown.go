package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/markdown"
)

// MarkdownWriter renders results as a Markdown document.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write implements Writer.
func (w *MarkdownWriter) Write(set *ResultSet) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1(fmt.Sprintf("Results for semester %d (%s)", set.Semester.Number, set.Semester.Year))
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Profile", "`" + set.Semester.Key() + "`"},
			{"Fetched", set.FetchedAt.Format("2006-01-02 15:04:05 MST")},
			{"Rolls", fmt.Sprintf("%d", len(set.Results))},
			{"Results found", fmt.Sprintf("%d", countFetched(set))},
		},
	})
	md.PlainText("")

	md.H2("Results")
	md.PlainText("")
	if len(set.Results) == 0 {
		md.PlainText("No rolls were fetched.")
	} else {
		md.Table(markdown.TableSet{
			Header: set.Header.Columns(),
			Rows:   set.rows(),
		})
	}
	md.PlainText("")

	if missing := set.Missing(); len(missing) > 0 {
		md.Note("No result exists for roll " + strings.Join(missing, ", ") + ".")
		md.PlainText("")
	}

	return len(md.String()), md.Build()
}
