// Package cmd implements the claimtrack CLI commands.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/claimtrack/internal/calendar"
	"github.com/theirongolddev/claimtrack/internal/config"
	"github.com/theirongolddev/claimtrack/internal/log"
	"github.com/theirongolddev/claimtrack/internal/period"
	"github.com/theirongolddev/claimtrack/internal/pipeline"
	"github.com/theirongolddev/claimtrack/internal/source"
	"github.com/theirongolddev/claimtrack/internal/store"
)

var (
	flagPreset   string
	flagYear     int
	flagMonth    int
	flagFrom     string
	flagTo       string
	flagDB       string
	flagClaims   string
	flagPayments string
	flagQuiet    bool
	flagVerbose  bool
	flagJSON     bool
)

// Set up in PersistentPreRunE, before any command runs.
var (
	appCfg config.Config
	logger = log.Discard()
)

var rootCmd = &cobra.Command{
	Use:   "claimtrack",
	Short: "Claims and payments over reporting periods",
	Long: "Resolve reporting periods, list the months they cover, and merge\n" +
		"claims and payments into one date-sorted series.",
	SilenceUsage:      true,
	PersistentPreRunE: initApp,
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagPreset, "preset", "p", "", "Period preset ("+strings.Join(period.Names(), ", ")+")")
	pf.IntVar(&flagYear, "year", 0, "Year for the year and month-select presets")
	pf.IntVar(&flagMonth, "month", 0, "Month (1-12) for the month-select preset")
	pf.StringVar(&flagFrom, "from", "", "Custom range start (YYYY-MM-DD)")
	pf.StringVar(&flagTo, "to", "", "Custom range end (YYYY-MM-DD)")
	pf.StringVar(&flagDB, "db", "", "SQLite database path")
	pf.StringVar(&flagClaims, "claims", "", "Read claims from this JSON/JSONL file instead of the database")
	pf.StringVar(&flagPayments, "payments", "", "Read payments from this JSON/JSONL file instead of the database")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output and warnings")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
	pf.BoolVar(&flagJSON, "json", false, "Write JSON to stdout")
}

func initApp(_ *cobra.Command, _ []string) error {
	config.LoadDotEnv()

	logger = log.New(log.Config{
		Level:     log.Level(flagVerbose, flagQuiet),
		Component: log.ComponentApp,
		Output:    os.Stderr,
	})
	log.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("using default configuration", log.FieldPath, config.ConfigPath(), log.FieldError, err)
	}
	appCfg = cfg
	return nil
}

// periodSelection is the preset and options the flags and config ask for.
func periodSelection() (period.Preset, period.Options, error) {
	name := flagPreset
	if name == "" {
		name = appCfg.General.DefaultPreset
	}
	if name == "" {
		name = string(period.CurrentMonth)
	}
	p := period.Preset(strings.ToLower(strings.TrimSpace(name)))

	opts := period.Options{Year: flagYear, Month: flagMonth}
	var err error
	if flagFrom != "" {
		if opts.Start, err = calendar.Parse(flagFrom); err != nil {
			return p, opts, fmt.Errorf("--from: %w", err)
		}
	}
	if flagTo != "" {
		if opts.End, err = calendar.Parse(flagTo); err != nil {
			return p, opts, fmt.Errorf("--to: %w", err)
		}
	}
	return p, opts, nil
}

// resolveWindow resolves the selected period. Inputs that Resolve silently
// degrades on are logged as warnings.
func resolveWindow() (period.Preset, period.Window, error) {
	p, opts, err := periodSelection()
	if err != nil {
		return p, period.Window{}, err
	}
	w := period.Resolve(p, opts)

	l := logger.WithComponent(log.ComponentPeriod)
	if err := period.Validate(p, opts); err != nil {
		l.Warn("period input degraded", log.FieldPreset, p, log.FieldWindow, w.String(), log.FieldError, err)
	}
	l.Debug("resolved", log.FieldOperation, log.OpResolve, log.FieldPreset, p, log.FieldWindow, w.String())
	return p, w, nil
}

func dbPath() string {
	switch {
	case flagDB != "":
		return flagDB
	case appCfg.General.DBPath != "":
		return appCfg.General.DBPath
	default:
		return pipeline.DefaultDBPath()
	}
}

// openSource returns the file source when any export file is named by flag
// or config, otherwise the database. The returned close func is never nil.
func openSource() (pipeline.Source, string, func(), error) {
	claims, payments := flagClaims, flagPayments
	if claims == "" && payments == "" {
		claims, payments = appCfg.Sources.ClaimsFile, appCfg.Sources.PaymentsFile
	}
	if claims != "" || payments != "" {
		logger.Debug("reading export files", "claims", claims, "payments", payments)
		return source.FileSource{ClaimsPath: claims, PaymentsPath: payments}, "files", func() {}, nil
	}

	path := dbPath()
	st, err := store.Open(path)
	if err != nil {
		return nil, "", func() {}, fmt.Errorf("opening database: %w", err)
	}
	logger.Debug("reading database", log.FieldPath, path)
	return st, "db", func() { _ = st.Close() }, nil
}

// loadReport resolves the window and loads the merged series for it.
func loadReport(ctx context.Context) (period.Preset, period.Window, pipeline.Report, error) {
	p, w, err := resolveWindow()
	if err != nil {
		return p, w, pipeline.Report{}, err
	}

	src, _, closeSrc, err := openSource()
	if err != nil {
		return p, w, pipeline.Report{}, err
	}
	defer closeSrc()

	start := time.Now()
	r, err := pipeline.LoadReport(ctx, src, w)
	if err != nil {
		logLoadError(err)
		return p, w, r, err
	}
	logger.WithComponent(log.ComponentPipeline).Debug("report loaded",
		log.FieldOperation, log.OpLoad,
		log.FieldWindow, w.String(),
		log.FieldCount, len(r.Points),
		log.FieldDuration, time.Since(start).Milliseconds())
	warnDropped(r)
	return p, w, r, nil
}

// logLoadError names the failing stream when aggregation rejected a record.
func logLoadError(err error) {
	l := logger.WithComponent(log.ComponentPipeline)
	var pe *pipeline.ParseError
	if errors.As(err, &pe) {
		l.Debug("record rejected",
			log.FieldOperation, log.OpAggregate,
			log.FieldStream, pe.Stream,
			"index", pe.Index,
			log.FieldError, pe.Err)
		return
	}
	l.Debug("load failed", log.FieldOperation, log.OpLoad, log.FieldError, err)
}

func warnDropped(r pipeline.Report) {
	if len(r.Dropped) == 0 {
		return
	}
	logger.WithComponent(log.ComponentPipeline).Warn("payments without a usable date were skipped",
		log.FieldCount, len(r.Dropped), "indexes", r.Dropped)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
