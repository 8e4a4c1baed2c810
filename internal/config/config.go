// Package config loads generator-wide configuration from YAML.
package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/greyhollow/delve/internal/logger"
)

// Config holds generator-wide configuration settings.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Store   StoreConfig   `yaml:"store"`
	Preview PreviewConfig `yaml:"preview"`
	Logging logger.Config `yaml:"logging"`
}

// DataConfig points at the authored content directories.
type DataConfig struct {
	// ZoneDir holds zone definition files.
	ZoneDir string `yaml:"zone_dir"`

	// PatternDir holds named pattern files for placement steps.
	PatternDir string `yaml:"pattern_dir"`
}

// StoreConfig holds generation-result store settings.
type StoreConfig struct {
	// Driver selects the backend: "sqlite" or "postgres".
	Driver string `yaml:"driver"`

	// Path is the database file location for the sqlite driver.
	Path string `yaml:"path"`

	// Host, Port, User, Password, and Name configure the postgres driver.
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`

	// SSLMode is passed through to the postgres connection string.
	SSLMode string `yaml:"ssl_mode"`
}

// PreviewConfig holds settings for the floor preview server.
type PreviewConfig struct {
	// Listen is the address the preview server binds to.
	Listen string `yaml:"listen"`

	// AllowedOrigins is a list of origins allowed to connect via WebSocket.
	// Empty list enforces same-origin policy. Use "*" to allow all origins.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the maximum WebSocket message size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`
}

// DefaultConfig returns a Config with working defaults.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			ZoneDir:    "data/zones",
			PatternDir: "data/patterns",
		},
		Store: StoreConfig{
			Driver:  "sqlite",
			Path:    "delve.db",
			SSLMode: "disable",
		},
		Preview: PreviewConfig{
			Listen:         ":8420",
			AllowedOrigins: []string{},
			MaxMessageSize: 4096,
		},
		Logging: logger.DefaultConfig(),
	}
}

// LoadConfig loads configuration from a YAML file. If the file doesn't
// exist, returns default config.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), err
	}

	return config, nil
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
// Returns true if:
// - AllowedOrigins contains "*" (allow all)
// - AllowedOrigins contains the exact origin
// - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *PreviewConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" {
			return true
		}
		if allowed == origin {
			return true
		}
	}

	return false
}

// isSameOrigin checks if the origin matches the request host (same-origin policy).
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // No origin header means same-origin (e.g., non-browser client)
	}

	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}
