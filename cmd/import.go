package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/claimtrack/internal/cli"
	"github.com/theirongolddev/claimtrack/internal/log"
	"github.com/theirongolddev/claimtrack/internal/pipeline"
	"github.com/theirongolddev/claimtrack/internal/source"
	"github.com/theirongolddev/claimtrack/internal/store"
)

var (
	flagForce bool
	flagKind  string
)

var importCmd = &cobra.Command{
	Use:   "import [dir|file]...",
	Short: "Load claims and payments export files into the database",
	Long: "Import scans directories for files whose names contain \"claim\" or\n" +
		"\"payment\" (.json, .jsonl, .ndjson). Files unchanged since the last\n" +
		"import are skipped; a changed file replaces everything it imported before,\n" +
		"and a tracked file that no longer exists is removed with its events.",
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&flagForce, "force", false, "Re-import files even if unchanged")
	importCmd.Flags().StringVar(&flagKind, "kind", "", "Treat named files as claims or payments regardless of their names")
	rootCmd.AddCommand(importCmd)
}

type importOutput struct {
	DB          string   `json:"db"`
	TotalFiles  int      `json:"total_files"`
	Imported    int      `json:"imported"`
	Unchanged   int      `json:"unchanged"`
	Removed     int      `json:"removed"`
	FileErrors  int      `json:"file_errors"`
	ParseErrors int      `json:"parse_errors"`
	Claims      int      `json:"claims"`
	Payments    int      `json:"payments"`
	Errors      []string `json:"errors,omitempty"`
}

// collectImportFiles expands args into export files. Directories are
// scanned; files are taken as given.
func collectImportFiles(args []string) ([]source.DiscoveredFile, error) {
	var files []source.DiscoveredFile
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			found, err := source.ScanDir(arg)
			if err != nil {
				return nil, fmt.Errorf("scanning %s: %w", arg, err)
			}
			files = append(files, found...)
			continue
		}

		kind := source.Kind(flagKind)
		if kind == "" {
			k, ok := source.KindFor(arg)
			if !ok {
				return nil, fmt.Errorf("%s: cannot tell claims from payments by name; use --kind", arg)
			}
			kind = k
		}
		if kind != source.KindClaims && kind != source.KindPayments {
			return nil, fmt.Errorf("--kind %q: want %s or %s", flagKind, source.KindClaims, source.KindPayments)
		}
		format, _ := source.FormatFor(arg) // unknown extensions are sniffed
		files = append(files, source.DiscoveredFile{Path: arg, Kind: kind, Format: format})
	}
	return files, nil
}

func runImport(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && appCfg.Sources.ImportDir != "" {
		args = []string{appCfg.Sources.ImportDir}
	}
	if len(args) == 0 {
		return errors.New("nothing to import: pass directories or files, or set sources.import_dir")
	}

	files, err := collectImportFiles(args)
	if err != nil {
		return err
	}
	claimFiles, paymentFiles := source.CountKinds(files)
	if !flagQuiet && !flagJSON {
		fmt.Fprintf(os.Stderr, "  Found %d claims files, %d payments files\n", claimFiles, paymentFiles)
	}

	path := dbPath()
	st, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = st.Close() }()

	progressFn := func(current, total int) {
		if flagQuiet || flagJSON {
			return
		}
		fmt.Fprintf(os.Stderr, "\r  Parsing [%d/%d]", current, total)
	}

	start := time.Now()
	res, err := pipeline.Import(cmd.Context(), files, st, flagForce, progressFn)
	if err != nil {
		return err
	}
	if !flagQuiet && !flagJSON && res.TotalFiles > 0 {
		fmt.Fprintln(os.Stderr)
	}

	l := logger.WithComponent(log.ComponentImport)
	for _, e := range res.Errors {
		l.Warn("file skipped", log.FieldError, e)
	}
	l.Debug("import finished",
		log.FieldOperation, log.OpImport,
		log.FieldCount, res.Imported,
		log.FieldDuration, time.Since(start).Milliseconds())

	if flagJSON {
		out := importOutput{
			DB:          path,
			TotalFiles:  res.TotalFiles,
			Imported:    res.Imported,
			Unchanged:   res.Unchanged,
			Removed:     res.Removed,
			FileErrors:  res.FileErrors,
			ParseErrors: res.ParseErrors,
			Claims:      res.Claims,
			Payments:    res.Payments,
		}
		for _, e := range res.Errors {
			out.Errors = append(out.Errors, e.Error())
		}
		return printJSON(out)
	}

	counts, err := st.Counts(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title: "Import",
		Rows: [][]string{
			{"Files", cli.FormatNumber(int64(res.TotalFiles))},
			{"Imported", cli.FormatNumber(int64(res.Imported))},
			{"Unchanged", cli.FormatNumber(int64(res.Unchanged))},
			{"Removed", cli.FormatNumber(int64(res.Removed))},
			{"Failed", cli.FormatNumber(int64(res.FileErrors))},
			{"Malformed lines", cli.FormatNumber(int64(res.ParseErrors))},
			{cli.SeparatorRow},
			{"Claims stored", cli.FormatNumber(int64(counts.Claims))},
			{"Payments stored", cli.FormatNumber(int64(counts.Payments))},
		},
	}))
	fmt.Println(cli.RenderMuted("  " + path))
	return nil
}
