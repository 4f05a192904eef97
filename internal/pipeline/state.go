package pipeline

// State is a step of the fetch protocol for one roll.
type State int

const (
	// StateStart is the state before anything touched the session.
	StateStart State = iota
	// StateNavigated means the form page is loaded.
	StateNavigated
	// StateFormFilled means the roll and semester controls are set.
	StateFormFilled
	// StateSubmitted means the form was submitted and the reply loaded.
	StateSubmitted
	// StateMissingStudent means the portal reported no matching student.
	StateMissingStudent
	// StateFieldsExtracted means every configured field was read.
	StateFieldsExtracted
	// StateDone is terminal for both successful and missing-student runs.
	StateDone
	// StateFatal is terminal for runs that returned a Failure.
	StateFatal
)

var stateNames = [...]string{
	StateStart:           "start",
	StateNavigated:       "navigated",
	StateFormFilled:      "form-filled",
	StateSubmitted:       "submitted",
	StateMissingStudent:  "missing-student",
	StateFieldsExtracted: "fields-extracted",
	StateDone:            "done",
	StateFatal:           "fatal",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFatal
}
