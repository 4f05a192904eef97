package model

// Placeholder fills every StudentResult field that does not apply to the
// semester or was not read from the portal.
const Placeholder = "-"

// StudentResult is the record produced for one roll number.
type StudentResult struct {
	Roll               string `json:"roll"`
	Name               string `json:"name"`
	RegistrationNumber string `json:"registration_number"`
	OddGPA             string `json:"sgpa_odd"`
	EvenGPA            string `json:"sgpa_even"`
	YearGPA            string `json:"ygpa"`

	// Success is true only when every configured field was extracted.
	Success bool `json:"success"`
}

// NewPendingResult returns an unsuccessful result for roll with every other
// field set to Placeholder.
func NewPendingResult(roll string) StudentResult {
	return StudentResult{
		Roll:               roll,
		Name:               Placeholder,
		RegistrationNumber: Placeholder,
		OddGPA:             Placeholder,
		EvenGPA:            Placeholder,
		YearGPA:            Placeholder,
	}
}

// Row returns the display cells in Header.Columns order.
func (r StudentResult) Row() []string {
	return []string{
		r.Roll,
		r.Name,
		r.RegistrationNumber,
		r.OddGPA,
		r.EvenGPA,
		r.YearGPA,
	}
}

// CountSuccessful returns how many results were fetched successfully.
func CountSuccessful(results []StudentResult) int {
	n := 0
	for _, r := range results {
		if r.Success {
			n++
		}
	}
	return n
}
