package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the settings file name looked up in the working and
// home directories.
const DefaultConfigFile = ".hitksoup"

// xdgConfigFile is the settings file name inside XDGConfigDir.
const xdgConfigFile = "config.yaml"

// ErrConfigNotFound is returned when the settings file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the structure of the settings file. Every field is optional;
// zero values leave the Config untouched.
type File struct {
	ProfileDir     string        `yaml:"profileDir,omitempty"`
	Engine         Engine        `yaml:"engine,omitempty"`
	Timeout        time.Duration `yaml:"timeout,omitempty"`
	SubmitInterval time.Duration `yaml:"submitInterval,omitempty"`
	MissingMarker  string        `yaml:"missingMarker,omitempty"`
	UserAgent      string        `yaml:"userAgent,omitempty"`
	HistoryDir     string        `yaml:"historyDir,omitempty"`

	// SaveHistory is a pointer so an explicit false can be told apart from
	// an absent key.
	SaveHistory *bool `yaml:"saveHistory,omitempty"`

	Browser BrowserFile `yaml:"browser,omitempty"`
}

// BrowserFile holds the rod engine settings.
type BrowserFile struct {
	Bin       string `yaml:"bin,omitempty"`
	Show      bool   `yaml:"show,omitempty"`
	NoSandbox bool   `yaml:"noSandbox,omitempty"`
	Stealth   bool   `yaml:"stealth,omitempty"`
}

// Apply copies every set field of f into c.
func (f *File) Apply(c *Config) {
	if f.ProfileDir != "" {
		c.ProfileDir = f.ProfileDir
	}
	if f.Engine != "" {
		c.Engine = f.Engine
	}
	if f.Timeout != 0 {
		c.Timeout = f.Timeout
	}
	if f.SubmitInterval != 0 {
		c.SubmitInterval = f.SubmitInterval
	}
	if f.MissingMarker != "" {
		c.MissingMarker = f.MissingMarker
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.HistoryDir != "" {
		c.HistoryDir = f.HistoryDir
	}
	if f.SaveHistory != nil {
		c.SaveHistory = *f.SaveHistory
	}
	if f.Browser.Bin != "" {
		c.BrowserBin = f.Browser.Bin
	}
	c.ShowBrowser = c.ShowBrowser || f.Browser.Show
	c.NoSandbox = c.NoSandbox || f.Browser.NoSandbox
	c.Stealth = c.Stealth || f.Browser.Stealth
}

// LoadConfigFile loads settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cf, nil
}

// FindConfigFile searches for the settings file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .hitksoup in the current directory
// 3. Look for .hitksoup in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the settings file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), xdgConfigFile))

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
