package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Semester bounds accepted by ParseSemester.
const (
	MinSemester = 1
	MaxSemester = 8
)

var (
	// ErrInvalidSemester is returned when the semester is not an integer in 1..8.
	ErrInvalidSemester = errors.New("invalid semester: must be an integer between 1 and 8")

	// ErrInvalidYear is returned when the year is not a 4-digit numeral.
	ErrInvalidYear = errors.New("invalid year: must be a 4-digit number")
)

// Parity classifies a semester as odd or even.
// Even semesters carry the even-semester and yearly GPA.
type Parity int

const (
	// ParityOdd is the parity of semesters 1, 3, 5 and 7.
	ParityOdd Parity = iota
	// ParityEven is the parity of semesters 2, 4, 6 and 8.
	ParityEven
)

// String returns the upper-case form used in profile keys.
func (p Parity) String() string {
	switch p {
	case ParityOdd:
		return "ODD"
	case ParityEven:
		return "EVEN"
	default:
		return "INVALID"
	}
}

// Semester identifies one semester of one academic year.
// The zero value is not valid; use ParseSemester.
type Semester struct {
	// Number is the semester number, 1..8.
	Number int `json:"semester"`

	// Year is the 4-digit year in which the semester was attended.
	Year string `json:"year"`
}

// ParseSemester validates raw user input and returns the Semester it names.
// Surrounding whitespace is ignored.
func ParseSemester(semester, year string) (Semester, error) {
	semester = strings.TrimSpace(semester)
	year = strings.TrimSpace(year)

	if !isDigits(semester) {
		return Semester{}, fmt.Errorf("%w: %q", ErrInvalidSemester, semester)
	}
	n, err := strconv.Atoi(semester)
	if err != nil || n < MinSemester || n > MaxSemester {
		return Semester{}, fmt.Errorf("%w: %q", ErrInvalidSemester, semester)
	}

	if len(year) != 4 || !isDigits(year) {
		return Semester{}, fmt.Errorf("%w: %q", ErrInvalidYear, year)
	}

	return Semester{Number: n, Year: year}, nil
}

// Parity returns ParityEven for even semester numbers and ParityOdd otherwise.
func (s Semester) Parity() Parity {
	if s.Number%2 == 0 {
		return ParityEven
	}
	return ParityOdd
}

// Key returns the profile storage key, e.g. "2020_ODD".
func (s Semester) Key() string {
	return s.Year + "_" + s.Parity().String()
}

// Label returns the visible text of the portal's semester dropdown option.
func (s Semester) Label() string {
	return strconv.Itoa(s.Number)
}

// String implements fmt.Stringer.
func (s Semester) String() string {
	return fmt.Sprintf("semester %d (%s)", s.Number, s.Year)
}

// Header returns the display labels for this semester.
// Even semesters round down to their odd counterpart, so semesters 5 and 6
// produce the same header.
func (s Semester) Header() Header {
	odd := s.Number
	if odd%2 == 0 {
		odd--
	}
	return Header{
		OddSemester:  odd,
		EvenSemester: odd + 1,
		AcademicYear: (s.Number + 1) / 2,
	}
}

// Header holds the semester and year numbers shown above result columns.
type Header struct {
	OddSemester  int `json:"odd_semester"`
	EvenSemester int `json:"even_semester"`
	AcademicYear int `json:"academic_year"`
}

// Columns returns the six column labels in StudentResult.Row order.
func (h Header) Columns() []string {
	return []string{
		"Roll Number",
		"Name",
		"Registration Number",
		fmt.Sprintf("SGPA Odd (Sem %d)", h.OddSemester),
		fmt.Sprintf("SGPA Even (Sem %d)", h.EvenSemester),
		fmt.Sprintf("YGPA (Year %d)", h.AcademicYear),
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
