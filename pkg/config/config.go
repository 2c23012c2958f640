// Package config loads instagrab's defaults file. The file is optional:
// a missing ~/.instagrab/config.yaml simply yields the built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// BrowserKind selects the Playwright browser engine.
type BrowserKind string

const (
	BrowserChromium BrowserKind = "chromium"
	BrowserFirefox  BrowserKind = "firefox"
	BrowserWebkit   BrowserKind = "webkit"
)

// Config holds user-tunable defaults for the CLI and client.
type Config struct {
	// Browser engine to drive.
	Browser BrowserKind `yaml:"browser" json:"browser"`

	// Headless runs the browser without a window. Manual login always
	// forces a headed browser regardless of this setting.
	Headless bool `yaml:"headless" json:"headless"`

	// SessionDir overrides the session directory when set.
	SessionDir string `yaml:"session_dir" json:"session_dir"`

	// UseProjectDir stores sessions under ./sessions.
	UseProjectDir bool `yaml:"use_project_dir" json:"use_project_dir"`

	// TimeoutMs is the default timeout for page operations.
	TimeoutMs float64 `yaml:"timeout_ms" json:"timeout_ms"`

	// LoginWaitMs bounds the wait for a manual login to finish.
	LoginWaitMs float64 `yaml:"login_wait_ms" json:"login_wait_ms"`

	// MaxLoginRetries bounds retries after transient browser failures.
	MaxLoginRetries int `yaml:"max_login_retries" json:"max_login_retries"`
}

// DefaultConfig returns the built-in defaults. The manage CLI has
// always defaulted to Firefox for manual logins.
func DefaultConfig() *Config {
	return &Config{
		Browser:         BrowserFirefox,
		TimeoutMs:       60000,
		LoginWaitMs:     300000, // five minutes for a human to log in
		MaxLoginRetries: 3,
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".instagrab", "config.yaml"), nil
}

// Load reads the config file at path, filling unset fields with
// defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Browser == "" {
		c.Browser = defaults.Browser
	}
	if c.TimeoutMs == 0 {
		c.TimeoutMs = defaults.TimeoutMs
	}
	if c.LoginWaitMs == 0 {
		c.LoginWaitMs = defaults.LoginWaitMs
	}
	if c.MaxLoginRetries == 0 {
		c.MaxLoginRetries = defaults.MaxLoginRetries
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Browser {
	case BrowserChromium, BrowserFirefox, BrowserWebkit:
	default:
		return fmt.Errorf("invalid browser: %s (must be 'chromium', 'firefox', or 'webkit')", c.Browser)
	}

	if c.TimeoutMs < 0 {
		return fmt.Errorf("timeout_ms cannot be negative")
	}
	if c.LoginWaitMs < 0 {
		return fmt.Errorf("login_wait_ms cannot be negative")
	}
	if c.MaxLoginRetries < 0 {
		return fmt.Errorf("max_login_retries cannot be negative")
	}

	return nil
}

// ParseBrowserKind validates a browser name from a flag value.
func ParseBrowserKind(name string) (BrowserKind, error) {
	kind := BrowserKind(name)
	switch kind {
	case BrowserChromium, BrowserFirefox, BrowserWebkit:
		return kind, nil
	default:
		return "", fmt.Errorf("invalid browser: %s (must be 'chromium', 'firefox', or 'webkit')", name)
	}
}
