package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{EnvDB, EnvPreset, EnvClaimsFile, EnvPaymentsFile, EnvTheme} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
	if Exists() {
		t.Error("Exists() = true with no file")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvPreset, "")
	t.Setenv(EnvDB, "")

	cfg := DefaultConfig()
	cfg.General.DefaultPreset = "last-12-months"
	cfg.General.DBPath = "/var/lib/claimtrack.db"
	cfg.Report.FillGaps = false
	if err := Save(cfg); err != nil {
		t.Fatal(err)
	}
	if !Exists() {
		t.Fatal("config file not written")
	}

	got, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.General != cfg.General || got.Report != cfg.Report {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "claimtrack"), 0o755); err != nil {
		t.Fatal(err)
	}
	toml := "[general]\ndefault_preset = \"year\"\n\n[appearance]\ntheme = \"terminal\"\n"
	if err := os.WriteFile(filepath.Join(dir, "claimtrack", "config.toml"), []byte(toml), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvPreset, "last-month")
	t.Setenv(EnvDB, "/tmp/env.db")
	t.Setenv(EnvTheme, "")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.General.DefaultPreset != "last-month" {
		t.Errorf("preset = %q, env should win", cfg.General.DefaultPreset)
	}
	if cfg.General.DBPath != "/tmp/env.db" {
		t.Errorf("db = %q", cfg.General.DBPath)
	}
	if cfg.Appearance.Theme != "terminal" {
		t.Errorf("theme = %q, file value should survive", cfg.Appearance.Theme)
	}
}

func TestLoad_BadTOML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	_ = os.MkdirAll(filepath.Join(dir, "claimtrack"), 0o755)
	_ = os.WriteFile(filepath.Join(dir, "claimtrack", "config.toml"), []byte("[general\n"), 0o600)

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Errorf("err = %v, want parse error", err)
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}

	cfg.General.DefaultPreset = "fortnight"
	cfg.Appearance.Theme = "neon"
	cfg.Report.TopMonths = -1
	cfg.Sources.ClaimsFile = filepath.Join(t.TempDir(), "missing.jsonl")

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"general.default_preset", "appearance.theme", "report.top_months", "sources.claims_file"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %s:\n%v", want, err)
		}
	}
}
