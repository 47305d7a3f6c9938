// Package config handles TOML-based configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	ytaperrors "ytap/internal/errors"
)

// Fixed well-known paths shared with the player and the extractor.
const (
	CookieFile = "/tmp/ytda.cookie.jar"
	SocketPath = "/tmp/mpv.sock"
	StdoutSink = "/tmp/mpv.out"
	StderrSink = "/tmp/mpv.err"
)

// Config holds all application configuration.
type Config struct {
	Player       string   `toml:"player"`
	Video        bool     `toml:"video"`
	Notify       string   `toml:"notify"`
	SearchCount  int      `toml:"search_count"`
	Picker       string   `toml:"picker"`
	PollInterval Duration `toml:"poll_interval"`
	IPCTimeout   Duration `toml:"ipc_timeout"`
	AutoAdvance  bool     `toml:"auto_advance"`
	AdvanceGrace Duration `toml:"advance_grace"`
	History      bool     `toml:"history"`
	Log          bool     `toml:"log"`
	LogLevel     string   `toml:"log_level"`
	Debug        bool     `toml:"debug"`
}

// Duration is a time.Duration read from a TOML string such as "100ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Player:       "mpv",
		Video:        false,
		SearchCount:  3,
		Picker:       "prompt",
		PollInterval: Duration{100 * time.Millisecond},
		IPCTimeout:   Duration{250 * time.Millisecond},
		AutoAdvance:  false,
		AdvanceGrace: Duration{5 * time.Second},
		History:      true,
		Log:          false,
		LogLevel:     "info",
		Debug:        false,
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ytap"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "ytap"), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file and merges with defaults.
// If the config file doesn't exist, defaults are returned.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Player) == "" {
		return fmt.Errorf("%w: player cannot be empty", ytaperrors.ErrInvalidConfig)
	}

	if c.SearchCount < 1 || c.SearchCount > 50 {
		return fmt.Errorf("%w: search_count %d out of range (1-50)", ytaperrors.ErrInvalidConfig, c.SearchCount)
	}

	validPickers := map[string]bool{
		"prompt": true, "fzf": true,
	}
	if !validPickers[strings.ToLower(c.Picker)] {
		return fmt.Errorf("%w: unsupported picker %q (valid: prompt, fzf)", ytaperrors.ErrInvalidConfig, c.Picker)
	}

	if c.PollInterval.Duration < 0 || c.PollInterval.Duration > 5*time.Second {
		return fmt.Errorf("%w: poll_interval %s out of range (0-5s)", ytaperrors.ErrInvalidConfig, c.PollInterval)
	}

	if c.IPCTimeout.Duration <= 0 {
		return fmt.Errorf("%w: ipc_timeout must be positive", ytaperrors.ErrInvalidConfig)
	}

	if c.AdvanceGrace.Duration < 0 {
		return fmt.Errorf("%w: advance_grace cannot be negative", ytaperrors.ErrInvalidConfig)
	}

	if c.Notify != "" && !strings.Contains(c.Notify, "{message}") {
		return fmt.Errorf("%w: notify template %q has no {message} placeholder", ytaperrors.ErrInvalidConfig, c.Notify)
	}

	return nil
}

// HistoryPath returns the path to the play journal.
func HistoryPath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "ytap", "history.tsv"), nil
}

// LogPath returns the path to the diagnostics log.
func LogPath() (string, error) {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "ytap", "ytap.log"), nil
}
