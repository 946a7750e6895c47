package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/claimtrack/internal/config"
	"github.com/theirongolddev/claimtrack/internal/period"
	"github.com/theirongolddev/claimtrack/internal/tui/theme"
)

// SetupValues holds the answers collected by the setup form.
type SetupValues struct {
	Preset       string
	DBPath       string
	ClaimsFile   string
	PaymentsFile string
	Theme        string
}

// SetupValuesFrom seeds the form with the current configuration.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		Preset:       cfg.General.DefaultPreset,
		DBPath:       cfg.General.DBPath,
		ClaimsFile:   cfg.Sources.ClaimsFile,
		PaymentsFile: cfg.Sources.PaymentsFile,
		Theme:        cfg.Appearance.Theme,
	}
}

// Apply copies the answers into cfg.
func (v SetupValues) Apply(cfg *config.Config) {
	cfg.General.DefaultPreset = v.Preset
	cfg.General.DBPath = strings.TrimSpace(v.DBPath)
	cfg.Sources.ClaimsFile = strings.TrimSpace(v.ClaimsFile)
	cfg.Sources.PaymentsFile = strings.TrimSpace(v.PaymentsFile)
	cfg.Appearance.Theme = v.Theme
}

// NewSetupForm builds the first-run form. Answers are written to v as the
// user moves through it.
func NewSetupForm(v *SetupValues) *huh.Form {
	presets := make([]huh.Option[string], len(period.All))
	for i, p := range period.All {
		presets[i] = huh.NewOption(p.Title(), string(p))
	}
	themes := make([]huh.Option[string], len(theme.All))
	for i, t := range theme.All {
		themes[i] = huh.NewOption(t.Name, t.Name)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to claimtrack").
				Description("A few settings, saved to "+config.ConfigPath()+".\nRun `claimtrack setup` anytime to change them."),
			huh.NewSelect[string]().
				Title("Default period").
				Options(presets...).
				Value(&v.Preset),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&v.Theme),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Database path").
				Description("Where `claimtrack import` stores events. Blank uses the default.").
				Value(&v.DBPath),
			huh.NewInput().
				Title("Claims file").
				Description("Read directly instead of the database. Blank to skip.").
				Value(&v.ClaimsFile).
				Validate(validateOptionalFile),
			huh.NewInput().
				Title("Payments file").
				Description("Read directly instead of the database. Blank to skip.").
				Value(&v.PaymentsFile).
				Validate(validateOptionalFile),
		),
	).WithShowHelp(true)
}

func validateOptionalFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot read %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}
