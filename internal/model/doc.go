// Package model defines the data structures shared across hitksoup.
//
// This package contains the following main types:
//   - Semester: a validated semester number and year, with its parity
//   - Profile: the extraction profile that drives one portal result page
//   - StudentResult: the fixed-shape record produced for each roll number
//   - Header: the display labels derived from a Semester
//
// Every StudentResult field always holds a value. Fields that do not apply
// to the semester, or that were never read, hold Placeholder.
package model
