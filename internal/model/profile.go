package model

// Labels are the text prefixes the portal prints in front of each value,
// e.g. "Name" in "Name JOHN DOE". An empty label disables prefix stripping
// for that field.
type Labels struct {
	Name               string `json:"name,omitempty"`
	Roll               string `json:"roll,omitempty"`
	RegistrationNumber string `json:"registration_number,omitempty"`
	OddGPA             string `json:"sgpa_odd,omitempty"`
	EvenGPA            string `json:"sgpa_even,omitempty"`
	YearGPA            string `json:"ygpa,omitempty"`
}

// DefaultLabels returns the labels printed by the result portal.
func DefaultLabels() Labels {
	return Labels{
		Name:               "Name",
		Roll:               "Roll No.",
		RegistrationNumber: "Registration No.",
		OddGPA:             "SGPA ODD",
		EvenGPA:            "SGPA EVEN",
		YearGPA:            "YGPA",
	}
}

// Profile describes how to drive and read the result page of one semester
// parity of one year. Profiles are built by the profile package, which
// guarantees that every base field is set, that SourceURL uses an http or
// https scheme, and that EvenGPAID and YearGPAID are either both set or both
// empty. A Profile is passed by value and never modified after loading.
type Profile struct {
	// Key is the storage key the profile was loaded from, e.g. "2020_EVEN".
	Key string `json:"key"`

	// Semester is the semester the profile was resolved for.
	Semester Semester `json:"semester"`

	// SourceURL is the page holding the result form.
	SourceURL string `json:"url"`

	// Form control names.
	RollField     string `json:"roll_tb_name"`
	SemesterField string `json:"sem_dd_name"`
	SubmitField   string `json:"submit_bt_name"`

	// Output element ids.
	NameID   string `json:"name_id"`
	RollID   string `json:"roll_id"`
	RegID    string `json:"reg_id"`
	OddGPAID string `json:"sgpao_id"`

	// Optional even-semester element ids.
	EvenGPAID string `json:"sgpae_id,omitempty"`
	YearGPAID string `json:"ygpa_id,omitempty"`

	// MissingMarker overrides the "no such student" text when non-empty.
	MissingMarker string `json:"missing_marker,omitempty"`

	// Labels are stripped from extracted values.
	Labels Labels `json:"labels"`
}

// HasEvenFields reports whether the profile reads the even-semester and
// yearly GPA.
func (p Profile) HasEvenFields() bool {
	return p.EvenGPAID != "" && p.YearGPAID != ""
}
