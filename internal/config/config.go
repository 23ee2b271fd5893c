// Package config loads and validates the daemon configuration from
// ~/.config/slidebar/config.yaml. Unknown keys are rejected so typos surface
// immediately instead of silently falling back to defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ValidationError reports which config path failed validation.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Geometry tunes the sidebar footprint.
type Geometry struct {
	// WidthRatio is the sidebar width as a fraction of the monitor width.
	WidthRatio float64 `yaml:"width_ratio"`
	// NavHeight is the navigation strip height in pixels.
	NavHeight int `yaml:"nav_height"`
	// NavExpandedHeight is the strip height with the settings panel open.
	NavExpandedHeight int `yaml:"nav_expanded_height"`
	// ParkMarginPx is how far beyond the monitor edge hidden windows park.
	ParkMarginPx int `yaml:"park_margin_px"`
}

// Triggers tunes the show/hide behavior.
type Triggers struct {
	// EdgePx is the depth of the edge strip that summons the sidebar.
	EdgePx int `yaml:"edge_px"`
	// AdjacencyPx is the max gap between monitors treated as adjacent.
	AdjacencyPx int `yaml:"adjacency_px"`
	// HideSlackPx is the retreat distance before an auto-hide fires.
	HideSlackPx int `yaml:"hide_slack_px"`
	// PollInterval is the cursor sampling period.
	PollInterval Duration `yaml:"poll_interval"`
}

// Enforcement tunes the window drift corrector.
type Enforcement struct {
	ActiveInterval Duration `yaml:"active_interval"`
	IdleInterval   Duration `yaml:"idle_interval"`
	TolerancePx    int      `yaml:"tolerance_px"`
}

// Windows names the managed windows and the host that creates them.
type Windows struct {
	// NavTitle and BodyTitle must match the titles the webview host sets;
	// the daemon discovers the windows by exact title.
	NavTitle  string `yaml:"nav_title"`
	BodyTitle string `yaml:"body_title"`
	// HostCommand launches the webview host process.
	HostCommand []string `yaml:"host_command"`
}

// Config is the effective daemon configuration.
type Config struct {
	Geometry    Geometry    `yaml:"geometry"`
	Triggers    Triggers    `yaml:"triggers"`
	Enforcement Enforcement `yaml:"enforcement"`
	Windows     Windows     `yaml:"windows"`

	// PinHotkey toggles the pin in the format the X11 keybind grammar
	// accepts, e.g. "Mod4-shift-s". Empty disables the hotkey.
	PinHotkey string `yaml:"pin_hotkey"`

	// StateDir overrides where settings and prompts are stored. Empty means
	// ~/.local/share/slidebar.
	StateDir string `yaml:"state_dir"`

	// SettingsDebounce delays settings writes so bursts collapse into one.
	SettingsDebounce Duration `yaml:"settings_debounce"`

	// LogLevel is one of debug, info, warning, error.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Geometry: Geometry{
			WidthRatio:        0.30,
			NavHeight:         150,
			NavExpandedHeight: 520,
			ParkMarginPx:      500,
		},
		Triggers: Triggers{
			EdgePx:       5,
			AdjacencyPx:  5,
			HideSlackPx:  50,
			PollInterval: Duration(50 * time.Millisecond),
		},
		Enforcement: Enforcement{
			ActiveInterval: Duration(16 * time.Millisecond),
			IdleInterval:   Duration(100 * time.Millisecond),
			TolerancePx:    2,
		},
		Windows: Windows{
			NavTitle:    "slidebar-nav",
			BodyTitle:   "slidebar-body",
			HostCommand: []string{"slidebar-webview"},
		},
		PinHotkey:        "Mod4-shift-s",
		SettingsDebounce: Duration(time.Second),
		LogLevel:         "info",
	}
}

// DefaultConfigPath returns ~/.config/slidebar/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "slidebar", "config.yaml"), nil
}

// DefaultStateDir returns ~/.local/share/slidebar.
func DefaultStateDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "slidebar"), nil
}

// Load reads the configuration from the standard location. A missing file
// yields the defaults.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads and validates the configuration at path. A missing file
// yields the defaults; a present but invalid file is an error.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the standard location.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.Geometry.WidthRatio <= 0 || c.Geometry.WidthRatio >= 1 {
		return &ValidationError{Path: "geometry.width_ratio", Err: fmt.Errorf("must be between 0 and 1 exclusive")}
	}
	if c.Geometry.NavHeight <= 0 {
		return &ValidationError{Path: "geometry.nav_height", Err: fmt.Errorf("must be > 0")}
	}
	if c.Geometry.NavExpandedHeight < c.Geometry.NavHeight {
		return &ValidationError{Path: "geometry.nav_expanded_height", Err: fmt.Errorf("must be >= nav_height")}
	}
	if c.Geometry.ParkMarginPx < 0 {
		return &ValidationError{Path: "geometry.park_margin_px", Err: fmt.Errorf("must be >= 0")}
	}
	if c.Triggers.EdgePx <= 0 {
		return &ValidationError{Path: "triggers.edge_px", Err: fmt.Errorf("must be > 0")}
	}
	if c.Triggers.AdjacencyPx < 0 {
		return &ValidationError{Path: "triggers.adjacency_px", Err: fmt.Errorf("must be >= 0")}
	}
	if c.Triggers.HideSlackPx < 0 {
		return &ValidationError{Path: "triggers.hide_slack_px", Err: fmt.Errorf("must be >= 0")}
	}
	if c.Triggers.PollInterval <= 0 {
		return &ValidationError{Path: "triggers.poll_interval", Err: fmt.Errorf("must be > 0")}
	}
	if c.Enforcement.ActiveInterval <= 0 || c.Enforcement.IdleInterval <= 0 {
		return &ValidationError{Path: "enforcement", Err: fmt.Errorf("intervals must be > 0")}
	}
	if c.Enforcement.TolerancePx < 0 {
		return &ValidationError{Path: "enforcement.tolerance_px", Err: fmt.Errorf("must be >= 0")}
	}
	if c.Windows.NavTitle == "" || c.Windows.BodyTitle == "" {
		return &ValidationError{Path: "windows", Err: fmt.Errorf("nav_title and body_title are required")}
	}
	if c.Windows.NavTitle == c.Windows.BodyTitle {
		return &ValidationError{Path: "windows", Err: fmt.Errorf("nav_title and body_title must differ")}
	}
	if len(c.Windows.HostCommand) == 0 {
		return &ValidationError{Path: "windows.host_command", Err: fmt.Errorf("host_command is required")}
	}
	if c.SettingsDebounce <= 0 {
		return &ValidationError{Path: "settings_debounce", Err: fmt.Errorf("must be > 0")}
	}
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("must be one of: debug, info, warning, error")}
	}
	return nil
}

// ResolveStateDir returns the effective state directory, creating it.
func (c *Config) ResolveStateDir() (string, error) {
	dir := c.StateDir
	if dir == "" {
		var err error
		dir, err = DefaultStateDir()
		if err != nil {
			return "", err
		}
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create state directory: %w", err)
	}
	return dir, nil
}
