// Package config loads runtime settings from an optional YAML file, a .env
// file and PAYFORM_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix maps nested keys such as backend.base_url to
// PAYFORM_BACKEND_BASE_URL.
const envPrefix = "PAYFORM"

// Config is the full runtime configuration.
type Config struct {
	Backend  BackendConfig  `mapstructure:"backend"`
	UI       UIConfig       `mapstructure:"ui"`
	Web      WebConfig      `mapstructure:"web"`
	Log      LogConfig      `mapstructure:"log"`
	Download DownloadConfig `mapstructure:"download"`
	Pricing  PricingConfig  `mapstructure:"pricing"`
	Schema   SchemaConfig   `mapstructure:"schema"`
}

// BackendConfig locates the payment backend. A zero RequestTimeout means no
// timeout.
type BackendConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// UIConfig selects the presentation variant.
type UIConfig struct {
	Theme string `mapstructure:"theme"`
}

// WebConfig configures the web shell listener.
type WebConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig configures zap.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DownloadConfig sets where downloaded PDFs are written.
type DownloadConfig struct {
	Dir string `mapstructure:"dir"`
}

// PricingConfig optionally replaces the built-in rate table.
type PricingConfig struct {
	TableFile string `mapstructure:"table_file"`
}

// SchemaConfig optionally points at a directory of label overlays.
type SchemaConfig struct {
	OverlayDir string `mapstructure:"overlay_dir"`
}

var defaults = map[string]any{
	"backend.base_url":        "http://localhost:8080",
	"backend.request_timeout": time.Duration(0),
	"ui.theme":                "light",
	"web.addr":                ":3000",
	"log.level":               "info",
	"log.format":              "console",
	"download.dir":            ".",
	"pricing.table_file":      "",
	"schema.overlay_dir":      "",
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}

// Load reads configPath when non-empty, then applies environment overrides
// and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %q: %w", configPath, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files without overriding
// variables already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: load %s: %w", path, err)
		}
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend.base_url %q is not an absolute URL", c.Backend.BaseURL)
	}
	if c.Backend.RequestTimeout < 0 {
		return fmt.Errorf("backend.request_timeout must not be negative")
	}
	switch c.UI.Theme {
	case "light", "dark":
	default:
		return fmt.Errorf("ui.theme %q must be light or dark", c.UI.Theme)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format %q must be console or json", c.Log.Format)
	}
	if strings.TrimSpace(c.Web.Addr) == "" {
		return fmt.Errorf("web.addr is required")
	}
	return nil
}
