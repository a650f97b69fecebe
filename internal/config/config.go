// Package config provides configuration loading and management for taskdeck.
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// DefaultPath is the config file read when --config is not given.
const DefaultPath = "taskdeck.yaml"

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Log formats.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

var themes = []string{"auto", "dark", "light", "notty"}

// Config is the root configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Store  StoreConfig  `mapstructure:"store"  yaml:"store"`
	Client ClientConfig `mapstructure:"client" yaml:"client"`
	UI     UIConfig     `mapstructure:"ui"     yaml:"ui"`
	Log    LogConfig    `mapstructure:"log"    yaml:"log"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"             yaml:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"     yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"    yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// StoreConfig selects the task repository backend.
type StoreConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	DSN    string `mapstructure:"dsn"    yaml:"dsn,omitempty"`
	Seed   bool   `mapstructure:"seed"   yaml:"seed"`
}

// ClientConfig configures API clients (tui, task commands, mcp).
type ClientConfig struct {
	BaseURL string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"  yaml:"timeout"`
}

// UIConfig configures the terminal UI and list output.
type UIConfig struct {
	PageSize  int    `mapstructure:"page_size"  yaml:"page_size"`
	MatchTags bool   `mapstructure:"match_tags" yaml:"match_tags"`
	Theme     string `mapstructure:"theme"      yaml:"theme"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
	File   string `mapstructure:"file"   yaml:"file,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Store: StoreConfig{
			Driver: DriverMemory,
			Seed:   true,
		},
		Client: ClientConfig{
			BaseURL: "http://127.0.0.1:8080",
			Timeout: 10 * time.Second,
		},
		UI: UIConfig{
			PageSize: 5,
			Theme:    "auto",
		},
		Log: LogConfig{
			Format: LogFormatConsole,
		},
	}
}

// Validate checks semantic constraints the schema cannot express.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server timeouts must be >= 0")
	}
	switch c.Store.Driver {
	case DriverMemory, DriverSQLite:
	default:
		return fmt.Errorf("store.driver %q is not supported (memory|sqlite)", c.Store.Driver)
	}
	if c.Client.Timeout <= 0 {
		return fmt.Errorf("client.timeout must be > 0")
	}
	if c.UI.PageSize <= 0 {
		return fmt.Errorf("ui.page_size must be > 0")
	}
	if !slices.Contains(themes, c.UI.Theme) {
		return fmt.Errorf("ui.theme %q is not supported (%s)", c.UI.Theme, strings.Join(themes, "|"))
	}
	switch c.Log.Format {
	case LogFormatConsole, LogFormatJSON:
	default:
		return fmt.Errorf("log.format %q is not supported (console|json)", c.Log.Format)
	}
	return nil
}
