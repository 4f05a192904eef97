package browser

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/publicsuffix"
)

const (
	// DefaultTimeout bounds each page load.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent is sent by FormSession requests.
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// FormSession submits the portal's HTML form over plain HTTP.
// It works for portals whose form posts back without JavaScript, including
// ASP.NET pages that round-trip hidden view state fields.
type FormSession struct {
	client *resty.Client
	logger *slog.Logger

	httpClient *http.Client
	timeout    time.Duration
	userAgent  string

	page   *url.URL
	doc    *goquery.Document
	source string

	// pending holds values set by FillText and SelectOption until the next
	// submission.
	pending url.Values
}

// FormOption configures a FormSession.
type FormOption func(*FormSession)

// WithHTTPClient sets the HTTP client resty sends requests with. A cookie
// jar is added when client has none.
func WithHTTPClient(client *http.Client) FormOption {
	return func(s *FormSession) {
		s.httpClient = client
	}
}

// WithFormTimeout sets the per-request timeout.
func WithFormTimeout(d time.Duration) FormOption {
	return func(s *FormSession) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) FormOption {
	return func(s *FormSession) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithFormLogger sets the logger.
func WithFormLogger(logger *slog.Logger) FormOption {
	return func(s *FormSession) {
		s.logger = logger
	}
}

// NewFormSession creates a FormSession with a cookie-carrying client.
func NewFormSession(opts ...FormOption) (*FormSession, error) {
	s := &FormSession{
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
		pending:   url.Values{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	client := resty.New()
	if s.httpClient != nil {
		client = resty.NewWithClient(s.httpClient)
	}
	if client.GetClient().Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		client.SetCookieJar(jar)
	}
	client.SetLogger(restyLogger{s.logger})
	client.SetTimeout(s.timeout)
	client.SetHeader("User-Agent", s.userAgent)
	s.client = client

	return s, nil
}

// Open implements Session.
func (s *FormSession) Open(ctx context.Context, rawURL string) error {
	if err := s.load(s.client.R().SetContext(ctx), http.MethodGet, rawURL); err != nil {
		return unreachable("open", rawURL, err)
	}
	return nil
}

// FillText implements Session.
func (s *FormSession) FillText(_ context.Context, name, value string) error {
	if s.doc == nil {
		return notFound("fill", name)
	}
	sel := s.doc.Find("input" + nameSelector(name) + ", textarea" + nameSelector(name))
	if sel.Length() == 0 {
		return notFound("fill", name)
	}
	s.pending.Set(name, value)
	return nil
}

// SelectOption implements Session.
func (s *FormSession) SelectOption(_ context.Context, name, visibleText string) error {
	if s.doc == nil {
		return notFound("select", name)
	}
	dropdown := s.doc.Find("select" + nameSelector(name)).First()
	if dropdown.Length() == 0 {
		return notFound("select", name)
	}

	var (
		value string
		found bool
	)
	dropdown.Find("option").EachWithBreak(func(_ int, opt *goquery.Selection) bool {
		if strings.TrimSpace(opt.Text()) != visibleText {
			return true
		}
		value = optionValue(opt)
		found = true
		return false
	})
	if !found {
		return notFound("select", name+" option "+visibleText)
	}

	s.pending.Set(name, value)
	return nil
}

// Click implements Session. Clicking a submit control submits its form.
func (s *FormSession) Click(ctx context.Context, name string) error {
	if s.doc == nil {
		return notFound("click", name)
	}
	control := s.doc.Find(nameSelector(name)).First()
	if control.Length() == 0 {
		return notFound("click", name)
	}

	form := control.Closest("form")
	if form.Length() == 0 {
		form = s.doc.Find("form").First()
	}
	if form.Length() == 0 {
		return notFound("click", name+" form")
	}

	values := formValues(form)
	for k, v := range s.pending {
		values[k] = v
	}
	values.Set(name, control.AttrOr("value", ""))

	action, err := s.page.Parse(strings.TrimSpace(form.AttrOr("action", "")))
	if err != nil {
		return unreachable("click", name, err)
	}

	method := strings.ToUpper(strings.TrimSpace(form.AttrOr("method", http.MethodGet)))
	req := s.client.R().
		SetContext(ctx).
		SetHeader("Referer", s.page.String())
	if method == http.MethodPost {
		req.SetFormDataFromValues(values)
	} else {
		method = http.MethodGet
		action.RawQuery = ""
		req.SetQueryParamsFromValues(values)
	}

	s.logger.Debug("submitting form", "method", method, "action", action.String(), "fields", len(values))

	if err := s.load(req, method, action.String()); err != nil {
		return unreachable("click", name, err)
	}
	s.pending = url.Values{}
	return nil
}

// ReadText implements Session.
func (s *FormSession) ReadText(_ context.Context, id string) (string, error) {
	if s.doc == nil {
		return "", notFound("read", id)
	}
	sel := s.doc.Find(idSelector(id)).First()
	if sel.Length() == 0 {
		return "", notFound("read", id)
	}
	return sel.Text(), nil
}

// PageContains implements Session.
func (s *FormSession) PageContains(_ context.Context, substr string) (bool, error) {
	return strings.Contains(s.source, substr), nil
}

// Close implements Session.
func (s *FormSession) Close() error {
	s.client.GetClient().CloseIdleConnections()
	s.doc = nil
	s.source = ""
	return nil
}

// load sends req and replaces the current page with the response.
func (s *FormSession) load(req *resty.Request, method, target string) error {
	resp, err := req.Execute(method, target)
	if err != nil {
		return err
	}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return fmt.Errorf("unexpected status %s", resp.Status())
	}

	body := resp.Body()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to parse page: %w", err)
	}

	s.page = resp.RawResponse.Request.URL
	s.doc = doc
	s.source = string(body)

	s.logger.Debug("page loaded", "url", s.page.String(), "status", resp.StatusCode(), "bytes", len(body))
	return nil
}

// restyLogger routes resty's own diagnostics to slog. Request errors are
// also returned to the caller, so they are logged at debug.
type restyLogger struct {
	logger *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "resty")
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "resty")
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "resty")
}

// formValues collects the values a browser would submit for form, excluding
// buttons, which are added only when clicked.
func formValues(form *goquery.Selection) url.Values {
	values := url.Values{}

	form.Find("input[name]").Each(func(_ int, in *goquery.Selection) {
		name, _ := in.Attr("name")
		if _, disabled := in.Attr("disabled"); disabled {
			return
		}
		switch strings.ToLower(in.AttrOr("type", "text")) {
		case "submit", "button", "image", "reset", "file":
			return
		case "checkbox", "radio":
			if _, checked := in.Attr("checked"); !checked {
				return
			}
			values.Add(name, in.AttrOr("value", "on"))
		default:
			values.Add(name, in.AttrOr("value", ""))
		}
	})

	form.Find("select[name]").Each(func(_ int, sel *goquery.Selection) {
		name, _ := sel.Attr("name")
		if _, disabled := sel.Attr("disabled"); disabled {
			return
		}
		opt := sel.Find("option[selected]").First()
		if opt.Length() == 0 {
			opt = sel.Find("option").First()
		}
		if opt.Length() > 0 {
			values.Add(name, optionValue(opt))
		}
	})

	form.Find("textarea[name]").Each(func(_ int, ta *goquery.Selection) {
		name, _ := ta.Attr("name")
		values.Add(name, ta.Text())
	})

	return values
}

// optionValue returns the submitted value of an option element, which
// defaults to its text.
func optionValue(opt *goquery.Selection) string {
	if v, ok := opt.Attr("value"); ok {
		return v
	}
	return strings.TrimSpace(opt.Text())
}
