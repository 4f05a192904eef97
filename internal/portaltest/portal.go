// Package portaltest provides an in-process result portal for tests.
//
// The portal mimics the real one: a GET returns an ASP.NET style form with
// a hidden view state field, a roll text box, a semester dropdown and a
// submit button; a POST returns either the "No such student exists" page or
// a result page with one labelled element per field.
package portaltest

import (
	"fmt"
	"html/template"
	"net/http"
	"net/http/httptest"
	"sync"
)

// Form control names and element ids used by the portal.
const (
	RollField     = "txtroll"
	SemesterField = "ddlSem"
	SubmitField   = "btnSubmit"
	NameID        = "lblname"
	RollID        = "lblroll"
	RegID         = "lblreg"
	OddGPAID      = "lblbottom1"
	EvenGPAID     = "lblbottom2"
	YearGPAID     = "lblbottom3"

	// MissingMarker is printed when no student matches the roll.
	MissingMarker = "No such student exists"

	viewState = "dDwtMTM3NjQ2NjQ2Nzs7Pg=="
)

// Student is one record served by the portal.
type Student struct {
	Name         string
	Registration string
	OddGPA       string
	EvenGPA      string
	YearGPA      string
}

// Portal is a configurable fake result portal.
type Portal struct {
	// Students maps roll numbers to records.
	Students map[string]Student

	// Even renders the even-semester and yearly GPA elements.
	Even bool

	// Omit lists element ids left out of result pages.
	Omit map[string]bool

	mu          sync.Mutex
	submissions []Submission
}

// Submission records one POST received by the portal.
type Submission struct {
	Roll     string
	Semester string
}

// Start serves the portal on a local listener. The result form lives at
// the returned server's URL + "/result.aspx".
func (p *Portal) Start() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/result.aspx", p.handle)
	return httptest.NewServer(mux)
}

// Submissions returns the POSTs received so far, in order.
func (p *Portal) Submissions() []Submission {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Submission(nil), p.submissions...)
}

func (p *Portal) handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	switch r.Method {
	case http.MethodGet:
		_ = formPage.Execute(w, viewState) //nolint:errcheck // test server
	case http.MethodPost:
		if err := r.ParseForm(); err != nil || r.PostForm.Get("__VIEWSTATE") != viewState {
			http.Error(w, "invalid view state", http.StatusBadRequest)
			return
		}
		if r.PostForm.Get(SubmitField) == "" {
			http.Error(w, "form not submitted", http.StatusBadRequest)
			return
		}

		roll := r.PostForm.Get(RollField)
		sem := r.PostForm.Get(SemesterField)

		p.mu.Lock()
		p.submissions = append(p.submissions, Submission{Roll: roll, Semester: sem})
		p.mu.Unlock()

		student, ok := p.Students[roll]
		if !ok {
			fmt.Fprintf(w, "<html><body><form><span id=%q>%s</span></form></body></html>", "lblmsg", MissingMarker)
			return
		}
		_ = resultPage.Execute(w, resultData{ //nolint:errcheck // test server
			Roll:    roll,
			Student: student,
			Even:    p.Even,
			Omit:    p.Omit,
		})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type resultData struct {
	Roll    string
	Student Student
	Even    bool
	Omit    map[string]bool
}

var formPage = template.Must(template.New("form").Parse(`<!DOCTYPE html>
<html><head><title>Semester Result</title></head><body>
<form method="post" action="result.aspx" id="form1">
<input type="hidden" name="__VIEWSTATE" value="{{.}}">
<input type="text" name="txtroll" value="">
<select name="ddlSem">
<option value="0">--Select--</option>
<option value="1">1</option><option value="2">2</option>
<option value="3">3</option><option value="4">4</option>
<option value="5">5</option><option value="6">6</option>
<option value="7">7</option><option value="8">8</option>
</select>
<input type="submit" name="btnSubmit" value="Show Result">
</form></body></html>`))

var resultPage = template.Must(template.New("result").Parse(`<!DOCTYPE html>
<html><head><title>Semester Result</title></head><body><table>
{{if not (index .Omit "lblname")}}<tr><td id="lblname">Name  {{.Student.Name}}</td></tr>{{end}}
{{if not (index .Omit "lblroll")}}<tr><td id="lblroll">Roll No. {{.Roll}}</td></tr>{{end}}
{{if not (index .Omit "lblreg")}}<tr><td id="lblreg">Registration No. {{.Student.Registration}} </td></tr>{{end}}
{{if not (index .Omit "lblbottom1")}}<tr><td id="lblbottom1">SGPA ODD: {{.Student.OddGPA}}</td></tr>{{end}}
{{if .Even}}
{{if not (index .Omit "lblbottom2")}}<tr><td id="lblbottom2">SGPA EVEN: {{.Student.EvenGPA}}</td></tr>{{end}}
{{if not (index .Omit "lblbottom3")}}<tr><td id="lblbottom3">YGPA: {{.Student.YearGPA}}</td></tr>{{end}}
{{end}}
</table></body></html>`))
