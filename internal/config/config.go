// Package config reads the project file .deadend.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"deadend/internal/oracle"
)

// FileName is looked up from the working directory upwards.
const FileName = ".deadend.toml"

// Config mirrors .deadend.toml.
type Config struct {
	Oracle  OracleConfig  `toml:"oracle"`
	Display DisplayConfig `toml:"display"`
	Source  SourceConfig  `toml:"source"`
	Cache   CacheConfig   `toml:"cache"`
}

type OracleConfig struct {
	Kind    string   `toml:"kind"`
	Command []string `toml:"command"`
	Timeout string   `toml:"timeout"`
}

type DisplayConfig struct {
	Color  string `toml:"color"` // auto|on|off
	Elide  bool   `toml:"elide"`
	Width  int    `toml:"width"`
	Marker string `toml:"marker"`
}

type SourceConfig struct {
	NormalizeNFC bool     `toml:"normalize_nfc"`
	Include      []string `toml:"include"`
	Exclude      []string `toml:"exclude"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Default returns the settings used without a project file.
func Default() Config {
	return Config{
		Oracle:  OracleConfig{Kind: string(oracle.KindAuto), Timeout: "10s"},
		Display: DisplayConfig{Color: "auto"},
	}
}

// Find walks up from startDir to locate .deadend.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes path over Default. Unknown keys are errors.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("oracle", "command") && len(cfg.Oracle.Command) == 0 {
		return Config{}, fmt.Errorf("%s: [oracle].command must not be empty", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover finds and loads the project file; without one it returns Default
// and an empty path.
func Discover(startDir string) (Config, string, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, "", err
	}
	if !ok {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// Validate checks enumerations and durations.
func (c Config) Validate() error {
	kind, err := oracle.ParseKind(c.Oracle.Kind)
	if err != nil {
		return err
	}
	if kind == oracle.KindCommand && len(c.Oracle.Command) == 0 {
		return errors.New("[oracle].kind = \"command\" requires [oracle].command")
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	switch c.Display.Color {
	case "", "auto", "on", "off":
	default:
		return fmt.Errorf("[display].color must be auto, on or off, got %q", c.Display.Color)
	}
	if c.Display.Width < 0 {
		return fmt.Errorf("[display].width must not be negative")
	}
	return nil
}

// Timeout parses [oracle].timeout; empty means no limit.
func (c Config) Timeout() (time.Duration, error) {
	if strings.TrimSpace(c.Oracle.Timeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Oracle.Timeout)
	if err != nil {
		return 0, fmt.Errorf("[oracle].timeout: %w", err)
	}
	return d, nil
}

// OracleSettings converts the [oracle] table.
func (c Config) OracleSettings() (oracle.Settings, error) {
	kind, err := oracle.ParseKind(c.Oracle.Kind)
	if err != nil {
		return oracle.Settings{}, err
	}
	timeout, err := c.Timeout()
	if err != nil {
		return oracle.Settings{}, err
	}
	return oracle.Settings{Kind: kind, Command: c.Oracle.Command, Timeout: timeout}, nil
}
