package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/nao1215/hitksoup/internal/browser"
	"github.com/nao1215/hitksoup/internal/model"
	"github.com/nao1215/hitksoup/internal/portaltest"
)

func portalProfile(url string, even bool) model.Profile {
	p := testProfile(even)
	p.SourceURL = url
	p.RollField = portaltest.RollField
	p.SemesterField = portaltest.SemesterField
	p.SubmitField = portaltest.SubmitField
	p.NameID = portaltest.NameID
	p.RollID = portaltest.RollID
	p.RegID = portaltest.RegID
	p.OddGPAID = portaltest.OddGPAID
	if even {
		p.EvenGPAID = portaltest.EvenGPAID
		p.YearGPAID = portaltest.YearGPAID
	}
	return p
}

func formOpener(t *testing.T) Opener {
	t.Helper()
	return func(context.Context) (browser.Session, error) {
		return browser.NewFormSession(browser.WithFormLogger(quietLogger()))
	}
}

func TestBatchRunnerAgainstPortal(t *testing.T) {
	t.Parallel()

	t.Run("even semester batch", func(t *testing.T) {
		t.Parallel()

		portal := &portaltest.Portal{
			Students: map[string]portaltest.Student{
				"101": {Name: "ADA LOVELACE", Registration: "201510001", OddGPA: "8.50", EvenGPA: "8.70", YearGPA: "8.60"},
				"103": {Name: "GRACE HOPPER", Registration: "201510003", OddGPA: "9.00", EvenGPA: "9.10", YearGPA: "9.05"},
			},
			Even: true,
		}
		srv := portal.Start()
		t.Cleanup(srv.Close)

		b := NewBatchRunner(formOpener(t), WithBatchLogger(quietLogger()))
		results, err := b.RunAll(context.Background(), portalProfile(srv.URL+"/result.aspx", true), []string{"101", "102", "103"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []model.StudentResult{
			{Roll: "101", Name: "ADA LOVELACE", RegistrationNumber: "201510001", OddGPA: "8.50", EvenGPA: "8.70", YearGPA: "8.60", Success: true},
			model.NewPendingResult("102"),
			{Roll: "103", Name: "GRACE HOPPER", RegistrationNumber: "201510003", OddGPA: "9.00", EvenGPA: "9.10", YearGPA: "9.05", Success: true},
		}
		if len(results) != len(want) {
			t.Fatalf("expected %d results, got %d", len(want), len(results))
		}
		for i := range want {
			if results[i] != want[i] {
				t.Errorf("index %d: expected %+v, got %+v", i, want[i], results[i])
			}
		}

		subs := portal.Submissions()
		if len(subs) != 3 || subs[0].Semester != "6" {
			t.Errorf("unexpected submissions %+v", subs)
		}
	})

	t.Run("layout change aborts the batch", func(t *testing.T) {
		t.Parallel()

		portal := &portaltest.Portal{
			Students: map[string]portaltest.Student{
				"101": {Name: "ADA", Registration: "1", OddGPA: "8"},
			},
			Omit: map[string]bool{portaltest.RegID: true},
		}
		srv := portal.Start()
		t.Cleanup(srv.Close)

		results, err := NewBatchRunner(formOpener(t), WithBatchLogger(quietLogger())).
			RunAll(context.Background(), portalProfile(srv.URL+"/result.aspx", false), []string{"101", "102"})
		if !errors.Is(err, ErrInvalidProfile) {
			t.Fatalf("expected ErrInvalidProfile, got %v", err)
		}
		if results != nil {
			t.Errorf("expected nil results, got %v", results)
		}
		if n := len(portal.Submissions()); n != 1 {
			t.Errorf("expected the batch to stop after 1 submission, got %d", n)
		}
	})

	t.Run("wrong roll field aborts the batch", func(t *testing.T) {
		t.Parallel()

		portal := &portaltest.Portal{}
		srv := portal.Start()
		t.Cleanup(srv.Close)

		prof := portalProfile(srv.URL+"/result.aspx", false)
		prof.RollField = "txtRollNo"

		_, err := NewBatchRunner(formOpener(t), WithBatchLogger(quietLogger())).
			RunAll(context.Background(), prof, []string{"101"})
		var f *Failure
		if !errors.As(err, &f) || f.Kind != ErrInvalidProfile || f.State != StateNavigated {
			t.Errorf("expected invalid profile failure after navigation, got %v", err)
		}
	})

	t.Run("stopped portal is unreachable", func(t *testing.T) {
		t.Parallel()

		portal := &portaltest.Portal{}
		srv := portal.Start()
		url := srv.URL + "/result.aspx"
		srv.Close()

		_, err := NewBatchRunner(formOpener(t), WithBatchLogger(quietLogger())).
			RunAll(context.Background(), portalProfile(url, false), []string{"101"})
		if !errors.Is(err, ErrUnreachablePortal) {
			t.Errorf("expected ErrUnreachablePortal, got %v", err)
		}
	})
}
