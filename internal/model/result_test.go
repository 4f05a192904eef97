package model

import "testing"

func TestNewPendingResult(t *testing.T) {
	t.Parallel()

	r := NewPendingResult("101")

	if r.Roll != "101" {
		t.Errorf("expected roll 101, got %q", r.Roll)
	}
	if r.Success {
		t.Error("expected pending result to be unsuccessful")
	}
	for i, cell := range r.Row()[1:] {
		if cell != Placeholder {
			t.Errorf("cell %d: expected placeholder, got %q", i+1, cell)
		}
	}
}

func TestCountSuccessful(t *testing.T) {
	t.Parallel()

	results := []StudentResult{
		{Roll: "1", Success: true},
		NewPendingResult("2"),
		{Roll: "3", Success: true},
	}
	if got := CountSuccessful(results); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	if got := CountSuccessful(nil); got != 0 {
		t.Errorf("expected 0 for nil, got %d", got)
	}
}

func TestProfileHasEvenFields(t *testing.T) {
	t.Parallel()

	if (Profile{}).HasEvenFields() {
		t.Error("expected empty profile to have no even fields")
	}
	if (Profile{EvenGPAID: "e"}).HasEvenFields() {
		t.Error("expected half-configured pair to report false")
	}
	if !(Profile{EvenGPAID: "e", YearGPAID: "y"}).HasEvenFields() {
		t.Error("expected configured pair to report true")
	}
}
