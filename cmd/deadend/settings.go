package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"deadend/internal/config"
	"deadend/internal/driver"
	"deadend/internal/observ"
	"deadend/internal/oracle"
	"deadend/internal/source"
)

// settings merges .deadend.toml with command-line flags; flags win.
type settings struct {
	cfg        config.Config
	configPath string
	color      bool
	quiet      bool
	timer      *observ.Timer
	options    driver.Options
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	flags := cmd.Root().PersistentFlags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg config.Config
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, configPath, err = config.Discover(".")
	}
	if err != nil {
		return nil, err
	}

	if flags.Changed("oracle") {
		if cfg.Oracle.Kind, err = flags.GetString("oracle"); err != nil {
			return nil, fmt.Errorf("failed to get oracle flag: %w", err)
		}
	}
	if flags.Changed("oracle-cmd") {
		if cfg.Oracle.Command, err = flags.GetStringSlice("oracle-cmd"); err != nil {
			return nil, fmt.Errorf("failed to get oracle-cmd flag: %w", err)
		}
		// одна только команда подразумевает командный оракул
		if !flags.Changed("oracle") {
			cfg.Oracle.Kind = string(oracle.KindCommand)
		}
	}
	if flags.Changed("oracle-timeout") {
		timeout, err := flags.GetDuration("oracle-timeout")
		if err != nil {
			return nil, fmt.Errorf("failed to get oracle-timeout flag: %w", err)
		}
		cfg.Oracle.Timeout = timeout.String()
	}
	if flags.Changed("color") {
		if cfg.Display.Color, err = flags.GetString("color"); err != nil {
			return nil, fmt.Errorf("failed to get color flag: %w", err)
		}
	}
	if flags.Changed("nfc") {
		if cfg.Source.NormalizeNFC, err = flags.GetBool("nfc"); err != nil {
			return nil, fmt.Errorf("failed to get nfc flag: %w", err)
		}
	}
	if flags.Changed("cache") {
		if cfg.Cache.Enabled, err = flags.GetBool("cache"); err != nil {
			return nil, fmt.Errorf("failed to get cache flag: %w", err)
		}
	}
	if flags.Changed("cache-dir") {
		if cfg.Cache.Dir, err = flags.GetString("cache-dir"); err != nil {
			return nil, fmt.Errorf("failed to get cache-dir flag: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	st := &settings{cfg: cfg, configPath: configPath}
	if st.quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if timings {
		st.timer = observ.NewTimer()
	}
	maxDiagnostics, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	st.color, err = resolveColor(cfg.Display.Color)
	if err != nil {
		return nil, err
	}
	color.NoColor = !st.color

	oracleSettings, err := cfg.OracleSettings()
	if err != nil {
		return nil, err
	}
	st.options = driver.Options{
		Oracle:         oracleSettings,
		Load:           source.LoadOptions{NormalizeNFC: cfg.Source.NormalizeNFC},
		MaxDiagnostics: maxDiagnostics,
		Timer:          st.timer,
	}
	if cfg.Cache.Enabled {
		if st.options.Cache, err = driver.OpenDiskCache(cfg.Cache.Dir); err != nil {
			return nil, fmt.Errorf("failed to open cache: %w", err)
		}
	}
	return st, nil
}

func resolveColor(mode string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return os.Getenv("NO_COLOR") == "" && isTerminal(os.Stdout), nil
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
}

// printTimings пишет сводку таймера в w.
func (st *settings) printTimings(w io.Writer) {
	if st.timer == nil {
		return
	}
	fmt.Fprint(w, st.timer.Summary())
}
