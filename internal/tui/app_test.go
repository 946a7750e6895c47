package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/claimtrack/internal/calendar"
	"github.com/theirongolddev/claimtrack/internal/config"
	"github.com/theirongolddev/claimtrack/internal/model"
	"github.com/theirongolddev/claimtrack/internal/period"
	"github.com/theirongolddev/claimtrack/internal/tui/components"
)

type fakeSource struct {
	claims   []model.ClaimEvent
	payments []model.PaymentEvent
	err      error
}

func (f fakeSource) Claims(context.Context, period.Window) ([]model.ClaimEvent, error) {
	return f.claims, f.err
}

func (f fakeSource) Payments(context.Context, period.Window) ([]model.PaymentEvent, error) {
	return f.payments, f.err
}

func newTestApp(t *testing.T, src fakeSource) App {
	t.Helper()
	a := NewApp(Options{
		Source:    src,
		Preset:    period.CurrentMonth,
		Config:    config.DefaultConfig(),
		Today:     calendar.MustParse("2024-03-15"),
		Period:    period.Options{},
		Logger:    nil,
		NeedSetup: false,
	})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 140, Height: 50})
	return m.(App)
}

// deliver runs the app's pending load and feeds the result back in.
func deliver(t *testing.T, a App) App {
	t.Helper()
	msg, ok := a.loadCmd()().(ReportLoadedMsg)
	if !ok {
		t.Fatal("loadCmd did not return a ReportLoadedMsg")
	}
	m, _ := a.Update(msg)
	return m.(App)
}

func press(t *testing.T, a App, key string) App {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	m, _ := a.Update(msg)
	return m.(App)
}

func assertWindow(t *testing.T, a App, from, to string) {
	t.Helper()
	w := a.Window()
	if w.From.String() != from || w.To.String() != to {
		t.Errorf("window = %s, want %s .. %s", w, from, to)
	}
}

var marchData = fakeSource{
	claims: []model.ClaimEvent{
		{PeriodStart: "2024-03-01", ClaimedAmount: "100"},
		{PeriodStart: "2024-03-05T09:00:00Z", ClaimedAmount: "50.25"},
	},
	payments: []model.PaymentEvent{
		{PaymentDate: model.StringPtr("2024-03-05"), Amount: "40"},
		{CreatedAt: model.StringPtr("2024-03-06T12:00:00Z"), Amount: "10"},
	},
}

func TestNewAppResolvesInitialPreset(t *testing.T) {
	a := newTestApp(t, marchData)
	if a.Preset() != period.CurrentMonth {
		t.Fatalf("preset = %s", a.Preset())
	}
	assertWindow(t, a, "2024-03-01", "2024-03-31")
}

func TestSwitchingTabsReresolvesWindow(t *testing.T) {
	a := newTestApp(t, marchData)

	a = press(t, a, "2")
	assertWindow(t, a, "2024-02-01", "2024-02-29")
	if !a.loading {
		t.Error("switching tabs should start a reload")
	}

	a = press(t, a, "right")
	if a.Preset() != period.Last3Months {
		t.Fatalf("preset = %s, want %s", a.Preset(), period.Last3Months)
	}
	assertWindow(t, a, "2024-01-01", "2024-03-31")

	a = press(t, a, "5")
	assertWindow(t, a, "2024-01-01", "2024-12-31")

	a = press(t, a, "left")
	if a.Preset() != period.Last12Months {
		t.Errorf("preset = %s, want %s", a.Preset(), period.Last12Months)
	}
}

func TestLeftWrapsToLastTab(t *testing.T) {
	a := press(t, newTestApp(t, marchData), "left")
	if a.Preset() != period.Custom {
		t.Errorf("preset = %s, want %s", a.Preset(), period.Custom)
	}
}

func TestMonthSelectShift(t *testing.T) {
	a := press(t, newTestApp(t, marchData), "6")
	if a.Preset() != period.MonthSelect {
		t.Fatalf("preset = %s", a.Preset())
	}
	// No year or month given: today only.
	assertWindow(t, a, "2024-03-15", "2024-03-15")

	a = press(t, a, "]")
	assertWindow(t, a, "2024-04-01", "2024-04-30")

	a = press(t, a, "[")
	a = press(t, a, "[")
	assertWindow(t, a, "2024-02-01", "2024-02-29")
}

func TestShiftIgnoredOutsideMonthSelect(t *testing.T) {
	a := newTestApp(t, marchData)
	seq := a.seq
	a = press(t, a, "]")
	assertWindow(t, a, "2024-03-01", "2024-03-31")
	if a.seq != seq {
		t.Error("shift outside month-select should not reload")
	}
}

func TestReportLoadedUpdatesStats(t *testing.T) {
	a := deliver(t, newTestApp(t, marchData))

	if !a.loaded || a.loading {
		t.Fatalf("loaded=%v loading=%v", a.loaded, a.loading)
	}
	if got := a.stats.ClaimsTotal.String(); got != "150.25" {
		t.Errorf("claims total = %s, want 150.25", got)
	}
	if got := a.stats.PaymentsTotal.String(); got != "50" {
		t.Errorf("payments total = %s, want 50", got)
	}
	if len(a.series) != 31 {
		t.Errorf("series has %d days, want 31 with gaps filled", len(a.series))
	}
	if len(a.months) != 1 || a.months[0].Days != 3 {
		t.Errorf("months = %+v", a.months)
	}

	view := a.View()
	for _, want := range []string{"Claims", "Payments", "Outstanding", "150.25", "Months (1)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestStaleLoadIsDropped(t *testing.T) {
	a := newTestApp(t, marchData)
	stale, _ := a.loadCmd()().(ReportLoadedMsg)

	a = press(t, a, "2")
	m, _ := a.Update(stale)
	a = m.(App)
	if a.loaded {
		t.Error("result for a superseded window was applied")
	}

	a = deliver(t, a)
	if !a.loaded {
		t.Error("current load was not applied")
	}
}

func TestLoadErrorShown(t *testing.T) {
	a := deliver(t, newTestApp(t, fakeSource{err: errors.New("disk on fire")}))
	if a.loadErr == nil {
		t.Fatal("expected load error")
	}
	if view := a.View(); !strings.Contains(view, "disk on fire") {
		t.Error("error not shown in view")
	}
}

func TestMouseClickSelectsTab(t *testing.T) {
	a := deliver(t, newTestApp(t, marchData))

	x := 0
	for i := 0; i < 3; i++ {
		x += components.TabVisualWidth(i, a.activeTab) + 1
	}
	m, _ := a.Update(tea.MouseMsg{X: x + 1, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	a = m.(App)
	if a.Preset() != period.Last12Months {
		t.Errorf("preset = %s, want %s", a.Preset(), period.Last12Months)
	}
}

func TestHelpToggle(t *testing.T) {
	a := deliver(t, newTestApp(t, marchData))
	a = press(t, a, "?")
	if !a.showHelp || !strings.Contains(a.View(), "Keyboard Shortcuts") {
		t.Fatal("help not shown")
	}
	a = press(t, a, "2")
	if a.showHelp {
		t.Error("any key should close help")
	}
	if a.Preset() != period.CurrentMonth {
		t.Error("key that closed help should not switch tabs")
	}
}

func TestSetupValuesRoundTrip(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Sources.ClaimsFile = "claims.jsonl"

	v := SetupValuesFrom(cfg)
	v.Preset = string(period.Year)
	v.Theme = "terminal"
	v.DBPath = "  /tmp/x.db  "

	v.Apply(&cfg)
	if cfg.General.DefaultPreset != "year" || cfg.Appearance.Theme != "terminal" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.General.DBPath != "/tmp/x.db" {
		t.Errorf("db path = %q, want trimmed", cfg.General.DBPath)
	}
	if cfg.Sources.ClaimsFile != "claims.jsonl" {
		t.Errorf("claims file lost: %q", cfg.Sources.ClaimsFile)
	}
}

func TestValidateOptionalFile(t *testing.T) {
	dir := t.TempDir()
	if err := validateOptionalFile(""); err != nil {
		t.Errorf("blank: %v", err)
	}
	if err := validateOptionalFile(dir); err == nil {
		t.Error("directory accepted")
	}
	if err := validateOptionalFile(dir + "/missing.json"); err == nil {
		t.Error("missing file accepted")
	}
}
