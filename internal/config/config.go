package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultTimeout bounds each page load and element lookup. Result
	// portals are slow on result day, so this is generous.
	DefaultTimeout = 30 * time.Second

	// DefaultMissingMarker is the text the portal prints for unknown rolls.
	DefaultMissingMarker = "No such student exists"

	// DefaultProfileDir is the profile directory the tool has always used,
	// relative to the working directory.
	DefaultProfileDir = "configs"

	// AppName is the application name used for XDG directory paths.
	AppName = "hitksoup"
)

// Engine selects the browser.Session backend.
type Engine string

const (
	// EngineRod drives a real Chromium through go-rod.
	EngineRod Engine = "rod"

	// EngineForm submits the form over plain HTTP.
	EngineForm Engine = "form"
)

// Valid reports whether e names a known backend.
func (e Engine) Valid() bool {
	return e == EngineRod || e == EngineForm
}

// Config holds all options of one fetch run. It is populated from defaults,
// the settings file and CLI flags, in that order.
type Config struct {
	// Semester and Year are the raw descriptor input.
	Semester string
	Year     string

	// Rolls are fetched in order. RollFile, when set, is read by the
	// command and its rolls replace Rolls.
	Rolls    []string
	RollFile string

	// ProfileDir holds the {year}_{ODD|EVEN} profile files. Empty means
	// ResolveProfileDir decides.
	ProfileDir string

	// Engine selects the session backend.
	Engine Engine

	// Timeout bounds each session operation.
	Timeout time.Duration

	// SubmitInterval is the minimum time between two submissions in a
	// batch. Zero disables pacing.
	SubmitInterval time.Duration

	// BrowserBin is the Chromium binary used by the rod engine. Empty
	// lets rod find or download one.
	BrowserBin string

	// ShowBrowser runs Chromium with a visible window.
	ShowBrowser bool

	// NoSandbox disables the Chromium sandbox, needed in most containers.
	NoSandbox bool

	// Stealth opens pages with go-rod/stealth evasions.
	Stealth bool

	// MissingMarker is used for profiles without their own marker.
	MissingMarker string

	// UserAgent overrides the form engine's User-Agent.
	UserAgent string

	// OutputFile, when set, receives the results as CSV.
	OutputFile string

	// JSONReport and MarkdownReport select the stdout format. The default
	// is a console table. They are mutually exclusive.
	JSONReport     bool
	MarkdownReport bool

	// SaveHistory records the run in the history database in HistoryDir.
	SaveHistory bool
	HistoryDir  string

	// ConfigFilePath is the settings file. Empty means FindConfigFile
	// searches the default locations.
	ConfigFilePath string

	// Verbose enables debug logging.
	Verbose bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Engine:        EngineRod,
		Timeout:       DefaultTimeout,
		MissingMarker: DefaultMissingMarker,
		SaveHistory:   true,
		HistoryDir:    XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for hitksoup.
// On Linux: ~/.local/share/hitksoup
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for hitksoup.
// On Linux: ~/.config/hitksoup
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGProfileDir returns the profile directory under XDGConfigDir.
func XDGProfileDir() string {
	return filepath.Join(XDGConfigDir(), "profiles")
}

// ResolveProfileDir returns the directory profiles are read from: explicit
// when set, otherwise ./configs when it exists, otherwise XDGProfileDir.
func ResolveProfileDir(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if info, err := os.Stat(DefaultProfileDir); err == nil && info.IsDir() {
		return DefaultProfileDir
	}
	return XDGProfileDir()
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Rolls) == 0 && c.RollFile == "" {
		return ErrNoRoll
	}
	if c.Semester == "" || c.Year == "" {
		return ErrNoSemester
	}
	if !c.Engine.Valid() {
		return ErrUnknownEngine
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.SubmitInterval < 0 {
		return ErrInvalidSubmitInterval
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
