// Package config loads the host configuration from a TOML file.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Window contains the webview window geometry.
type Window struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// Server contains the loopback bridge listener settings.
type Server struct {
	// Bind is the loopback address the UI connects to. Port 0 picks a
	// free port at startup.
	Bind string `toml:"bind"`
}

// Paths contains filesystem locations used by the handlers.
type Paths struct {
	// DatabaseDir anchors relative load_database paths. Empty means the
	// executable's directory.
	DatabaseDir string `toml:"database_dir"`
	// UIDir is the static asset directory served to the webview.
	UIDir string `toml:"ui_dir"`
}

// Update contains auto-update settings.
type Update struct {
	ManifestURL    string `toml:"manifest_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Capture contains capture worker settings.
type Capture struct {
	PollIntervalMs int `toml:"poll_interval_ms"`
	QueueSize      int `toml:"queue_size"`
}

// Logging contains log output settings.
type Logging struct {
	Level string `toml:"level"`
}

// Config is the full host configuration.
type Config struct {
	Window  Window  `toml:"window"`
	Server  Server  `toml:"server"`
	Paths   Paths   `toml:"paths"`
	Update  Update  `toml:"update"`
	Capture Capture `toml:"capture"`
	Logging Logging `toml:"logging"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window:  Window{Title: "Save Editor", Width: 1000, Height: 700},
		Server:  Server{Bind: "127.0.0.1:0"},
		Update:  Update{TimeoutSeconds: 30},
		Capture: Capture{PollIntervalMs: 1000, QueueSize: 16},
		Logging: Logging{Level: "info"},
	}
}

// Load reads the configuration at path layered over the defaults. An
// empty path returns the defaults untouched.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Server.Bind == "" {
		return fmt.Errorf("server bind address is required")
	}
	if c.Capture.PollIntervalMs <= 0 {
		return fmt.Errorf("capture poll interval must be positive, got %d", c.Capture.PollIntervalMs)
	}
	if c.Capture.QueueSize <= 0 {
		return fmt.Errorf("capture queue size must be positive, got %d", c.Capture.QueueSize)
	}
	if c.Update.TimeoutSeconds <= 0 {
		return fmt.Errorf("update timeout must be positive, got %d", c.Update.TimeoutSeconds)
	}
	return nil
}
