package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/claimtrack/internal/config"
	"github.com/theirongolddev/claimtrack/internal/log"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and check the current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appCfg

	if flagJSON {
		if err := printJSON(cfg); err != nil {
			return err
		}
		return cfg.Validate()
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Default preset: %s\n", cfg.General.DefaultPreset)
	fmt.Printf("    Database:       %s\n", orDefault(cfg.General.DBPath, dbPath()+" (default)"))
	fmt.Println()

	fmt.Println("  [Sources]")
	fmt.Printf("    Claims file:    %s\n", orDefault(cfg.Sources.ClaimsFile, "not set"))
	fmt.Printf("    Payments file:  %s\n", orDefault(cfg.Sources.PaymentsFile, "not set"))
	fmt.Printf("    Import dir:     %s\n", orDefault(cfg.Sources.ImportDir, "not set"))
	fmt.Println()

	fmt.Println("  [Report]")
	fmt.Printf("    Fill gaps:      %v\n", cfg.Report.FillGaps)
	fmt.Printf("    Top months:     %d\n", cfg.Report.TopMonths)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme:          %s\n", cfg.Appearance.Theme)
	fmt.Println()

	if err := cfg.Validate(); err != nil {
		logger.WithComponent(log.ComponentConfig).Debug("validation failed", log.FieldOperation, log.OpValidate)
		return err
	}
	fmt.Println("  Configuration OK")
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
