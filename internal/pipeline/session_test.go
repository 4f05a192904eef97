package pipeline

import (
	"context"
	"strings"

	"github.com/nao1215/hitksoup/internal/browser"
	"github.com/nao1215/hitksoup/internal/model"
)

// fakeSession is a scripted browser.Session. Result pages come from
// records; rolls without a record get the missing-student page.
type fakeSession struct {
	records map[string]map[string]string

	// errs maps an operation ("open", "fill", "select", "click", "contains")
	// or "read:<id>" to the error it returns.
	errs map[string]error

	roll   string
	page   map[string]string
	source string

	calls  []string
	closed int
}

var _ browser.Session = (*fakeSession)(nil)

func (s *fakeSession) fail(op string) error {
	s.calls = append(s.calls, op)
	return s.errs[op]
}

func (s *fakeSession) Open(_ context.Context, _ string) error {
	return s.fail("open")
}

func (s *fakeSession) FillText(_ context.Context, _, value string) error {
	if err := s.fail("fill"); err != nil {
		return err
	}
	s.roll = value
	return nil
}

func (s *fakeSession) SelectOption(_ context.Context, _, _ string) error {
	return s.fail("select")
}

func (s *fakeSession) Click(_ context.Context, _ string) error {
	if err := s.fail("click"); err != nil {
		return err
	}
	page, ok := s.records[s.roll]
	if !ok {
		s.page = nil
		s.source = DefaultMissingMarker
		return nil
	}
	s.page = page
	s.source = "result"
	return nil
}

func (s *fakeSession) ReadText(_ context.Context, id string) (string, error) {
	if err := s.fail("read:" + id); err != nil {
		return "", err
	}
	text, ok := s.page[id]
	if !ok {
		return "", &browser.SessionError{Op: "read", Target: id, Err: browser.ErrElementNotFound}
	}
	return text, nil
}

func (s *fakeSession) PageContains(_ context.Context, substr string) (bool, error) {
	if err := s.fail("contains"); err != nil {
		return false, err
	}
	return strings.Contains(s.source, substr), nil
}

func (s *fakeSession) Close() error {
	s.closed++
	return nil
}

func testProfile(even bool) model.Profile {
	sem := model.Semester{Number: 5, Year: "2019"}
	p := model.Profile{
		Key:           sem.Key(),
		Semester:      sem,
		SourceURL:     "http://portal.test/result.aspx",
		RollField:     "txtroll",
		SemesterField: "ddlSem",
		SubmitField:   "btnSubmit",
		NameID:        "lblname",
		RollID:        "lblroll",
		RegID:         "lblreg",
		OddGPAID:      "lblbottom1",
		Labels:        model.DefaultLabels(),
	}
	if even {
		p.Semester = model.Semester{Number: 6, Year: "2019"}
		p.Key = p.Semester.Key()
		p.EvenGPAID = "lblbottom2"
		p.YearGPAID = "lblbottom3"
	}
	return p
}

func record(roll, name string) map[string]string {
	return map[string]string{
		"lblname":    "Name  " + name,
		"lblroll":    "Roll No. " + roll,
		"lblreg":     " Registration No. 2015" + roll + " ",
		"lblbottom1": "SGPA ODD: 8.10",
		"lblbottom2": "SGPA EVEN: 8.30",
		"lblbottom3": "YGPA: 8.20",
	}
}
