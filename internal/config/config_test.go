package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Store.Driver != "sqlite" {
		t.Errorf("default store driver = %q, want sqlite", cfg.Store.Driver)
	}
	if cfg.Data.ZoneDir != "data/zones" {
		t.Errorf("default zone dir = %q", cfg.Data.ZoneDir)
	}
	if cfg.Preview.Listen == "" {
		t.Error("default preview listen address empty")
	}
	if cfg.Logging.Level != "INFO" {
		t.Errorf("default log level = %q, want INFO", cfg.Logging.Level)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig returned error for missing file: %v", err)
	}
	if cfg.Store.Driver != "sqlite" {
		t.Errorf("missing file should yield defaults, got driver %q", cfg.Store.Driver)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "delve.yaml")
	data := `
data:
  zone_dir: /srv/delve/zones
store:
  driver: postgres
  host: db.internal
  port: 5432
  user: delve
  name: delve
preview:
  listen: ":9000"
  allowed_origins: ["https://tools.example.com"]
logging:
  level: DEBUG
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Data.ZoneDir != "/srv/delve/zones" {
		t.Errorf("zone dir = %q", cfg.Data.ZoneDir)
	}
	if cfg.Store.Driver != "postgres" || cfg.Store.Host != "db.internal" {
		t.Errorf("store config not loaded: %+v", cfg.Store)
	}
	if cfg.Preview.Listen != ":9000" {
		t.Errorf("preview listen = %q", cfg.Preview.Listen)
	}
	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("log level = %q", cfg.Logging.Level)
	}
	// Unset fields keep their defaults.
	if cfg.Data.PatternDir != "data/patterns" {
		t.Errorf("pattern dir default lost: %q", cfg.Data.PatternDir)
	}
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("store: [not a map"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err == nil {
		t.Error("expected error for malformed yaml")
	}
	if cfg == nil || cfg.Store.Driver != "sqlite" {
		t.Error("malformed yaml should fall back to defaults")
	}
}

func TestIsOriginAllowed(t *testing.T) {
	tests := []struct {
		name        string
		origins     []string
		origin      string
		requestHost string
		want        bool
	}{
		{"empty list same origin", nil, "http://localhost:8420", "localhost:8420", true},
		{"empty list no origin header", nil, "", "localhost:8420", true},
		{"empty list cross origin", nil, "http://evil.example.com", "localhost:8420", false},
		{"wildcard", []string{"*"}, "http://anywhere.example.com", "localhost:8420", true},
		{"exact match", []string{"https://tools.example.com"}, "https://tools.example.com", "localhost:8420", true},
		{"no match", []string{"https://tools.example.com"}, "https://other.example.com", "localhost:8420", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &PreviewConfig{AllowedOrigins: tt.origins}
			if got := c.IsOriginAllowed(tt.origin, tt.requestHost); got != tt.want {
				t.Errorf("IsOriginAllowed(%q, %q) = %v, want %v", tt.origin, tt.requestHost, got, tt.want)
			}
		})
	}
}
