package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/claimtrack/internal/cli"
	"github.com/theirongolddev/claimtrack/internal/daemon"
	"github.com/theirongolddev/claimtrack/internal/log"
	"github.com/theirongolddev/claimtrack/internal/store"
)

var flagInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Re-import a directory on an interval and report changes",
	Long: "Watch imports changed export files from dir (default sources.import_dir)\n" +
		"every --interval and prints a line whenever the selected period's totals\n" +
		"change. With --json each event is written as one JSON object per line.",
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&flagInterval, "interval", 30*time.Second, "Poll interval (minimum 2s)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := appCfg.Sources.ImportDir
	if len(args) == 1 {
		dir = args[0]
	}
	if dir == "" {
		return errors.New("nothing to watch: pass a directory or set sources.import_dir")
	}

	p, opts, err := periodSelection()
	if err != nil {
		return err
	}

	path := dbPath()
	st, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = st.Close() }()

	svc := daemon.New(daemon.Config{
		ImportDir: dir,
		Preset:    p,
		Period:    opts,
		Interval:  flagInterval,
		Logger:    logger,
	}, st)

	events, unsubscribe := svc.Subscribe(16)
	defer unsubscribe()

	done := make(chan error, 1)
	go func() { done <- svc.Run(cmd.Context()) }()

	logger.WithComponent(log.ComponentWatch).Info("watching",
		log.FieldPath, dir, log.FieldPreset, p, "interval", flagInterval.String())

	enc := json.NewEncoder(os.Stdout)
	for {
		select {
		case err := <-done:
			return err
		case ev := <-events:
			if flagJSON {
				if err := enc.Encode(ev); err != nil {
					return err
				}
				continue
			}
			fmt.Println(formatWatchEvent(ev))
		}
	}
}

func formatWatchEvent(ev daemon.Event) string {
	s := ev.Snapshot
	line := fmt.Sprintf("%s  %s  claimed %s  paid %s  outstanding %s",
		ev.Timestamp.Format("15:04:05"),
		s.Window.String(),
		cli.FormatAmount(s.ClaimsTotal),
		cli.FormatAmount(s.PaidTotal),
		cli.FormatAmount(s.Outstanding))

	if ev.Type != daemon.EventDelta {
		return line
	}
	d := ev.Delta
	line += fmt.Sprintf("  (%s claimed, %s paid",
		cli.FormatDelta(d.ClaimsTotal, decimal.Zero),
		cli.FormatDelta(d.PaidTotal, decimal.Zero))
	if ev.Imported > 0 {
		line += fmt.Sprintf(", %d files imported", ev.Imported)
	}
	if d.WindowMoved {
		line += ", new window"
	}
	return line + ")"
}
