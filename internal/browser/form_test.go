package browser

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nao1215/hitksoup/internal/portaltest"
)

func newPortal(t *testing.T, even bool) (*portaltest.Portal, string) {
	t.Helper()

	p := &portaltest.Portal{
		Students: map[string]portaltest.Student{
			"101": {Name: "ADA LOVELACE", Registration: "201510001", OddGPA: "8.50", EvenGPA: "8.70", YearGPA: "8.60"},
		},
		Even: even,
	}
	srv := p.Start()
	t.Cleanup(srv.Close)
	return p, srv.URL + "/result.aspx"
}

func newFormSession(t *testing.T) *FormSession {
	t.Helper()

	s, err := NewFormSession()
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestFormSessionSubmitsForm(t *testing.T) {
	t.Parallel()

	portal, url := newPortal(t, true)
	s := newFormSession(t)
	ctx := context.Background()

	if err := s.Open(ctx, url); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.FillText(ctx, portaltest.RollField, "101"); err != nil {
		t.Fatalf("fill: %v", err)
	}
	if err := s.SelectOption(ctx, portaltest.SemesterField, "6"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.Click(ctx, portaltest.SubmitField); err != nil {
		t.Fatalf("click: %v", err)
	}

	subs := portal.Submissions()
	if len(subs) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(subs))
	}
	if subs[0].Roll != "101" || subs[0].Semester != "6" {
		t.Errorf("unexpected submission %+v", subs[0])
	}

	text, err := s.ReadText(ctx, portaltest.NameID)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(text, "ADA LOVELACE") {
		t.Errorf("expected name in %q", text)
	}

	missing, err := s.PageContains(ctx, portaltest.MissingMarker)
	if err != nil {
		t.Fatalf("contains: %v", err)
	}
	if missing {
		t.Error("expected result page, got missing-student page")
	}
}

func TestFormSessionMissingStudentPage(t *testing.T) {
	t.Parallel()

	_, url := newPortal(t, false)
	s := newFormSession(t)
	ctx := context.Background()

	if err := s.Open(ctx, url); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.FillText(ctx, portaltest.RollField, "999"); err != nil {
		t.Fatalf("fill: %v", err)
	}
	if err := s.Click(ctx, portaltest.SubmitField); err != nil {
		t.Fatalf("click: %v", err)
	}

	missing, err := s.PageContains(ctx, portaltest.MissingMarker)
	if err != nil {
		t.Fatalf("contains: %v", err)
	}
	if !missing {
		t.Error("expected missing-student marker")
	}
}

func TestFormSessionElementNotFound(t *testing.T) {
	t.Parallel()

	_, url := newPortal(t, false)
	s := newFormSession(t)
	ctx := context.Background()

	if err := s.Open(ctx, url); err != nil {
		t.Fatalf("open: %v", err)
	}

	tests := []struct {
		name string
		call func() error
	}{
		{"unknown text control", func() error { return s.FillText(ctx, "txtnope", "1") }},
		{"unknown dropdown", func() error { return s.SelectOption(ctx, "ddlnope", "1") }},
		{"unknown dropdown option", func() error { return s.SelectOption(ctx, portaltest.SemesterField, "9") }},
		{"unknown button", func() error { return s.Click(ctx, "btnnope") }},
		{"unknown element id", func() error { _, err := s.ReadText(ctx, "lblnope"); return err }},
	}

	for _, tt := range tests {
		err := tt.call()
		if !errors.Is(err, ErrElementNotFound) {
			t.Errorf("%s: expected ErrElementNotFound, got %v", tt.name, err)
		}
		var se *SessionError
		if !errors.As(err, &se) {
			t.Errorf("%s: expected *SessionError, got %T", tt.name, err)
		}
	}
}

func TestFormSessionGetForm(t *testing.T) {
	t.Parallel()

	type request struct {
		method, query, referer, agent string
	}
	got := make(chan request, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search" {
			got <- request{r.Method, r.URL.RawQuery, r.Header.Get("Referer"), r.Header.Get("User-Agent")}
			_, _ = w.Write([]byte(`<html><body><span id="out">done</span></body></html>`))
			return
		}
		_, _ = w.Write([]byte(`<html><body><form action="/search?stale=1">
<input type="hidden" name="token" value="abc">
<input type="text" name="roll">
<input type="submit" name="go" value="Go">
</form></body></html>`))
	}))
	t.Cleanup(srv.Close)

	s, err := NewFormSession(WithUserAgent("hitksoup-test"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	if err := s.Open(ctx, srv.URL+"/form"); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.FillText(ctx, "roll", "101"); err != nil {
		t.Fatalf("fill: %v", err)
	}
	if err := s.Click(ctx, "go"); err != nil {
		t.Fatalf("click: %v", err)
	}

	req := <-got
	if req.method != http.MethodGet {
		t.Errorf("method = %s, want GET", req.method)
	}
	if req.query != "go=Go&roll=101&token=abc" {
		t.Errorf("query = %q", req.query)
	}
	if req.referer != srv.URL+"/form" {
		t.Errorf("referer = %q", req.referer)
	}
	if req.agent != "hitksoup-test" {
		t.Errorf("user agent = %q", req.agent)
	}
	if text, err := s.ReadText(ctx, "out"); err != nil || text != "done" {
		t.Errorf("ReadText = %q, %v", text, err)
	}
}

func TestFormSessionUnreachable(t *testing.T) {
	t.Parallel()

	t.Run("closed server", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		s := newFormSession(t)
		err := s.Open(context.Background(), url)
		if !errors.Is(err, ErrUnreachable) {
			t.Errorf("expected ErrUnreachable, got %v", err)
		}
	})

	t.Run("error status", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "down", http.StatusServiceUnavailable)
		}))
		t.Cleanup(srv.Close)

		s := newFormSession(t)
		err := s.Open(context.Background(), srv.URL)
		if !errors.Is(err, ErrUnreachable) {
			t.Errorf("expected ErrUnreachable, got %v", err)
		}
	})

	t.Run("primitives before open report element not found", func(t *testing.T) {
		t.Parallel()
		s := newFormSession(t)
		if err := s.FillText(context.Background(), "x", "y"); !errors.Is(err, ErrElementNotFound) {
			t.Errorf("expected ErrElementNotFound, got %v", err)
		}
	})
}

func TestFormValues(t *testing.T) {
	t.Parallel()

	s := newFormSession(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<form method="get" action="/next">
<input type="hidden" name="h" value="1">
<input type="checkbox" name="c1" value="a" checked>
<input type="checkbox" name="c2" value="b">
<input type="text" name="t" value="x" disabled>
<select name="s"><option value="p">P</option><option value="q" selected>Q</option></select>
<textarea name="ta">note</textarea>
<input type="submit" name="go" value="Go">
</form>`))
	}))
	t.Cleanup(srv.Close)

	if err := s.Open(context.Background(), srv.URL); err != nil {
		t.Fatalf("open: %v", err)
	}

	values := formValues(s.doc.Find("form"))
	want := map[string]string{"h": "1", "c1": "a", "s": "q", "ta": "note"}
	for k, v := range want {
		if got := values.Get(k); got != v {
			t.Errorf("%s: expected %q, got %q", k, v, got)
		}
	}
	for _, k := range []string{"c2", "t", "go"} {
		if values.Has(k) {
			t.Errorf("expected %s to be excluded", k)
		}
	}
}
