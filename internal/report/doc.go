// Package report renders fetched results.
//
// Writers take a ResultSet (the semester, its column header and the ordered
// results) and render it as:
//   - TableWriter: an aligned console table
//   - MarkdownWriter: a Markdown document with a result table
//   - JSONWriter: structured JSON for other tools
//   - CSVWriter: a header row followed by one row per roll
//
// SaveCSV stores a ResultSet in a new CSV file and never overwrites.
package report
