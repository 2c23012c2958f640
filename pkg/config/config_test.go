package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Browser != BrowserFirefox {
		t.Errorf("Expected default browser firefox, got %s", cfg.Browser)
	}
	if cfg.TimeoutMs != 60000 {
		t.Errorf("Expected default timeout 60000, got %v", cfg.TimeoutMs)
	}
	if cfg.LoginWaitMs != 300000 {
		t.Errorf("Expected default login wait 300000, got %v", cfg.LoginWaitMs)
	}
	if cfg.MaxLoginRetries != 3 {
		t.Errorf("Expected default retries 3, got %d", cfg.MaxLoginRetries)
	}
}

func TestLoadValidFile(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "config.yaml")

	content := `
browser: chromium
headless: true
session_dir: /data/sessions
timeout_ms: 30000
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Browser != BrowserChromium {
		t.Errorf("Expected browser chromium, got %s", cfg.Browser)
	}
	if !cfg.Headless {
		t.Error("Expected headless true")
	}
	if cfg.SessionDir != "/data/sessions" {
		t.Errorf("Expected session_dir /data/sessions, got %s", cfg.SessionDir)
	}
	if cfg.TimeoutMs != 30000 {
		t.Errorf("Expected timeout 30000, got %v", cfg.TimeoutMs)
	}

	// Unset fields still get defaults.
	if cfg.MaxLoginRetries != 3 {
		t.Errorf("Expected default retries 3, got %d", cfg.MaxLoginRetries)
	}
}

func TestLoadRejectsInvalidBrowser(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "config.yaml")

	if err := os.WriteFile(path, []byte("browser: netscape\n"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected error for invalid browser")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "config.yaml")

	if err := os.WriteFile(path, []byte("browser: [unclosed"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}

func TestParseBrowserKind(t *testing.T) {
	for _, name := range []string{"chromium", "firefox", "webkit"} {
		kind, err := ParseBrowserKind(name)
		if err != nil {
			t.Errorf("ParseBrowserKind(%q) failed: %v", name, err)
		}
		if string(kind) != name {
			t.Errorf("Expected %s, got %s", name, kind)
		}
	}

	if _, err := ParseBrowserKind("safari"); err == nil {
		t.Error("Expected error for unsupported browser")
	}
}
