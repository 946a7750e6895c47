// Package config loads and saves claimtrack's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/theirongolddev/claimtrack/internal/period"
)

// Environment variables that override the config file.
const (
	EnvDB           = "CLAIMTRACK_DB"
	EnvPreset       = "CLAIMTRACK_PRESET"
	EnvClaimsFile   = "CLAIMTRACK_CLAIMS_FILE"
	EnvPaymentsFile = "CLAIMTRACK_PAYMENTS_FILE"
	EnvTheme        = "CLAIMTRACK_THEME"
)

// Themes lists the theme names the dashboard knows.
var Themes = []string{"flexoki-dark", "catppuccin-mocha", "terminal"}

// Config holds all claimtrack configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Sources    SourcesConfig    `toml:"sources"`
	Report     ReportConfig     `toml:"report"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DefaultPreset string `toml:"default_preset"`
	DBPath        string `toml:"db_path,omitempty"`
}

// SourcesConfig names the export files read when no database is used.
type SourcesConfig struct {
	ClaimsFile   string `toml:"claims_file,omitempty"`
	PaymentsFile string `toml:"payments_file,omitempty"`
	ImportDir    string `toml:"import_dir,omitempty"`
}

// ReportConfig holds report rendering preferences.
type ReportConfig struct {
	FillGaps  bool `toml:"fill_gaps"`
	TopMonths int  `toml:"top_months"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultPreset: string(period.CurrentMonth),
		},
		Report: ReportConfig{
			FillGaps:  true,
			TopMonths: 3,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "claimtrack")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "claimtrack")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// LoadDotEnv reads a .env file from the working directory into the
// environment if one exists. Variables already set win.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// Load reads the config file, returning defaults if it doesn't exist, then
// applies environment overrides.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	ApplyEnv(&cfg)
	return cfg, nil
}

// ApplyEnv overrides cfg with any CLAIMTRACK_* variables that are set.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvDB); v != "" {
		cfg.General.DBPath = v
	}
	if v := os.Getenv(EnvPreset); v != "" {
		cfg.General.DefaultPreset = v
	}
	if v := os.Getenv(EnvClaimsFile); v != "" {
		cfg.Sources.ClaimsFile = v
	}
	if v := os.Getenv(EnvPaymentsFile); v != "" {
		cfg.Sources.PaymentsFile = v
	}
	if v := os.Getenv(EnvTheme); v != "" {
		cfg.Appearance.Theme = v
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// Validate checks every setting and reports all problems at once.
func (c Config) Validate() error {
	var problems []string

	if c.General.DefaultPreset != "" {
		if _, err := period.ParsePreset(c.General.DefaultPreset); err != nil {
			problems = append(problems, fmt.Sprintf("general.default_preset: %v", err))
		}
	}

	if c.Report.TopMonths < 0 {
		problems = append(problems, fmt.Sprintf("report.top_months: %d must not be negative", c.Report.TopMonths))
	}

	if c.Appearance.Theme != "" && !slices.Contains(Themes, c.Appearance.Theme) {
		problems = append(problems, fmt.Sprintf("appearance.theme: unknown theme %q (want one of %s)",
			c.Appearance.Theme, strings.Join(Themes, ", ")))
	}

	for key, path := range map[string]string{
		"sources.claims_file":   c.Sources.ClaimsFile,
		"sources.payments_file": c.Sources.PaymentsFile,
	} {
		if path == "" {
			continue
		}
		if info, err := os.Stat(path); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", key, err))
		} else if info.IsDir() {
			problems = append(problems, fmt.Sprintf("%s: %s is a directory", key, path))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	slices.Sort(problems)
	return errors.New("invalid configuration:\n  " + strings.Join(problems, "\n  "))
}
