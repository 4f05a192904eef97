package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// RodConfig controls the Chromium instance behind a RodSession.
type RodConfig struct {
	// Headless runs the browser without a window.
	Headless bool

	// NoSandbox disables Chrome's sandbox (needed in most containers).
	NoSandbox bool

	// Bin overrides the Chromium binary. When empty, rod locates or
	// downloads one.
	Bin string

	// Stealth masks common automation fingerprints on the page.
	Stealth bool

	// Timeout bounds each primitive.
	Timeout time.Duration
}

// DefaultRodConfig returns a headless configuration with DefaultTimeout.
func DefaultRodConfig() RodConfig {
	return RodConfig{
		Headless: true,
		Timeout:  DefaultTimeout,
	}
}

// RodSession controls one page of a dedicated headless Chromium.
type RodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	timeout  time.Duration
	logger   *slog.Logger
	closed   bool
}

// NewRodSession launches Chromium and opens a blank page.
func NewRodSession(cfg RodConfig, logger *slog.Logger) (*RodSession, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	logger.Debug("browser launched", "controlURL", controlURL)

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	var page *rod.Page
	if cfg.Stealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		_ = b.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &RodSession{
		launcher: l,
		browser:  b,
		page:     page,
		timeout:  cfg.Timeout,
		logger:   logger,
	}, nil
}

// bound returns the page bound to ctx with the per-primitive timeout.
func (s *RodSession) bound(ctx context.Context) (*rod.Page, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return s.page.Context(ctx), cancel
}

// Open implements Session.
func (s *RodSession) Open(ctx context.Context, url string) error {
	p, cancel := s.bound(ctx)
	defer cancel()

	if err := p.Navigate(url); err != nil {
		return unreachable("open", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return unreachable("open", url, err)
	}
	s.logger.Debug("page loaded", "url", url)
	return nil
}

// lookup finds the first element matching selector without waiting for it
// to appear. A lookup that cannot talk to the page is reported as
// unreachable.
func (s *RodSession) lookup(p *rod.Page, op, target, selector string) (*rod.Element, error) {
	has, el, err := p.Has(selector)
	if err != nil {
		return nil, unreachable(op, target, err)
	}
	if !has {
		return nil, notFound(op, target)
	}
	return el, nil
}

// FillText implements Session.
func (s *RodSession) FillText(ctx context.Context, name, value string) error {
	p, cancel := s.bound(ctx)
	defer cancel()

	el, err := s.lookup(p, "fill", name, nameSelector(name))
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return unreachable("fill", name, err)
	}
	if err := el.Input(value); err != nil {
		return unreachable("fill", name, err)
	}
	return nil
}

// SelectOption implements Session.
func (s *RodSession) SelectOption(ctx context.Context, name, visibleText string) error {
	p, cancel := s.bound(ctx)
	defer cancel()

	el, err := s.lookup(p, "select", name, "select"+nameSelector(name))
	if err != nil {
		return err
	}
	// SelectorTypeText matches substrings, so "1" would also pick "10".
	exact := `^\s*` + regexp.QuoteMeta(visibleText) + `\s*$`
	if err := el.Select([]string{exact}, true, rod.SelectorTypeRegex); err != nil {
		var missing *rod.ElementNotFoundError
		if errors.As(err, &missing) {
			return notFound("select", name+" option "+visibleText)
		}
		return unreachable("select", name, err)
	}
	return nil
}

// Click implements Session. It waits for the navigation the click triggers.
func (s *RodSession) Click(ctx context.Context, name string) error {
	p, cancel := s.bound(ctx)
	defer cancel()

	el, err := s.lookup(p, "click", name, nameSelector(name))
	if err != nil {
		return err
	}

	wait := p.WaitNavigation(proto.PageLifecycleEventNameLoad)
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return unreachable("click", name, err)
	}
	wait()

	if err := p.WaitLoad(); err != nil {
		return unreachable("click", name, err)
	}
	return nil
}

// ReadText implements Session.
func (s *RodSession) ReadText(ctx context.Context, id string) (string, error) {
	p, cancel := s.bound(ctx)
	defer cancel()

	el, err := s.lookup(p, "read", id, idSelector(id))
	if err != nil {
		return "", err
	}
	text, err := el.Text()
	if err != nil {
		return "", unreachable("read", id, err)
	}
	return text, nil
}

// PageContains implements Session.
func (s *RodSession) PageContains(ctx context.Context, substr string) (bool, error) {
	p, cancel := s.bound(ctx)
	defer cancel()

	html, err := p.HTML()
	if err != nil {
		return false, unreachable("source", substr, err)
	}
	return strings.Contains(html, substr), nil
}

// Close implements Session. It closes the browser and kills its process.
func (s *RodSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	err := s.browser.Close()
	s.launcher.Kill()
	s.launcher.Cleanup()
	if err != nil {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return nil
}
