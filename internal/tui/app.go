// Package tui provides the interactive Bubble Tea dashboard for claimtrack.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/claimtrack/internal/calendar"
	"github.com/theirongolddev/claimtrack/internal/config"
	"github.com/theirongolddev/claimtrack/internal/log"
	"github.com/theirongolddev/claimtrack/internal/model"
	"github.com/theirongolddev/claimtrack/internal/period"
	"github.com/theirongolddev/claimtrack/internal/pipeline"
	"github.com/theirongolddev/claimtrack/internal/tui/components"
	"github.com/theirongolddev/claimtrack/internal/tui/theme"
)

// ReportLoadedMsg carries the result of loading one window.
type ReportLoadedMsg struct {
	Seq      int
	Window   period.Window
	Report   pipeline.Report
	Err      error
	LoadTime time.Duration
}

// Options configures a new App.
type Options struct {
	Source     pipeline.Source
	SourceName string // shown in the status bar
	Preset     period.Preset
	Period     period.Options
	Config     config.Config
	Logger     *log.Logger
	Today      calendar.Date // zero means the local date at startup
	NeedSetup  bool
}

// App is the root Bubble Tea model.
type App struct {
	src     pipeline.Source
	srcName string
	cfg     config.Config
	log     *log.Logger

	// Period selection
	activeTab int
	opts      period.Options
	today     calendar.Date
	window    period.Window

	// Data for the last completed load
	report     pipeline.Report
	stats      model.SummaryStats
	series     []model.Point
	months     []model.MonthStats
	loaded     bool
	loading    bool
	loadErr    error
	loadTime   time.Duration
	lastLoaded time.Time
	seq        int // identifies the newest load; older results are dropped

	// UI state
	width    int
	height   int
	showHelp bool
	spinner  spinner.Model

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues
	needSetup bool
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180
	minContentHeight = 5
	loadTimeout      = 30 * time.Second
)

// NewApp creates a new TUI app model.
func NewApp(o Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	today := o.Today
	if today.IsZero() {
		today = calendar.Today()
	}
	logger := o.Logger
	if logger == nil {
		logger = log.Discard()
	}

	a := App{
		src:       o.Source,
		srcName:   o.SourceName,
		cfg:       o.Config,
		log:       logger.WithComponent(log.ComponentTUI),
		activeTab: components.TabIdxByPreset(o.Preset),
		opts:      o.Period,
		today:     today,
		spinner:   sp,
		needSetup: o.NeedSetup,
	}
	a.resolve()
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		a.loadCmd(),
		a.spinner.Tick,
	)
}

// Preset returns the preset of the active tab.
func (a App) Preset() period.Preset {
	return components.Tabs[a.activeTab].Preset
}

// Window returns the window the dashboard currently shows.
func (a App) Window() period.Window {
	return a.window
}

func (a *App) resolve() {
	p := a.Preset()
	a.window = period.ResolveAt(p, a.opts, a.today)
	if err := period.ValidateAt(p, a.opts, a.today); err != nil {
		a.log.Debug("preset fell back", log.FieldPreset, p, log.FieldError, err, log.FieldWindow, a.window.String())
	}
}

// selectTab switches preset, re-resolves the window and starts a reload.
func (a App) selectTab(idx int) (App, tea.Cmd) {
	if idx < 0 || idx >= len(components.Tabs) {
		return a, nil
	}
	a.activeTab = idx
	a.resolve()
	return a.reload()
}

// shiftMonth moves a month-select window by delta months.
func (a App) shiftMonth(delta int) (App, tea.Cmd) {
	if a.Preset() != period.MonthSelect {
		return a, nil
	}
	anchor := a.window.From.AddMonths(delta)
	a.opts.Year = anchor.Year
	a.opts.Month = anchor.Month
	a.resolve()
	return a.reload()
}

func (a App) reload() (App, tea.Cmd) {
	a.seq++
	a.loading = true
	a.loadErr = nil
	return a, tea.Batch(a.loadCmd(), a.spinner.Tick)
}

func (a App) loadCmd() tea.Cmd {
	src, w, seq := a.src, a.window, a.seq
	return func() tea.Msg {
		if src == nil {
			return ReportLoadedMsg{Seq: seq, Window: w, Err: fmt.Errorf("no data source configured")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		start := time.Now()
		r, err := pipeline.LoadReport(ctx, src, w)
		return ReportLoadedMsg{Seq: seq, Window: w, Report: r, Err: err, LoadTime: time.Since(start)}
	}
}

func (a *App) recompute() {
	w := a.window
	a.stats = pipeline.Summarize(a.report, w)
	a.series = pipeline.FilterWindow(a.report.Points, w)
	if a.cfg.Report.FillGaps {
		a.series = pipeline.FillGaps(a.report.Points, w)
	}
	a.months = pipeline.MonthlyTotals(a.report.Points, w.Months())
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil {
			return a, nil
		}
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && msg.Y == 0 {
			if tab := components.TabAtX(msg.X, a.activeTab); tab >= 0 && tab != a.activeTab {
				return a.selectTab(tab)
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return a, tea.Quit
		}
		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}
		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "r":
			return a.reload()
		case "left", "h":
			return a.selectTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
		case "right", "l", "tab":
			return a.selectTab((a.activeTab + 1) % len(components.Tabs))
		case "[":
			return a.shiftMonth(-1)
		case "]":
			return a.shiftMonth(1)
		}
		if len(key) == 1 {
			if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
				return a.selectTab(idx)
			}
		}
		return a, nil

	case ReportLoadedMsg:
		if msg.Seq != a.seq {
			return a, nil
		}
		a.loading = false
		a.loadTime = msg.LoadTime
		if msg.Err != nil {
			a.loadErr = msg.Err
			a.log.Error("load failed", log.FieldOperation, log.OpLoad, log.FieldWindow, msg.Window.String(), log.FieldError, msg.Err)
			a.loaded = true
			return a, nil
		}
		a.report = msg.Report
		a.loaded = true
		a.lastLoaded = time.Now()
		a.recompute()
		a.log.Debug("window loaded",
			log.FieldOperation, log.OpLoad,
			log.FieldWindow, msg.Window.String(),
			log.FieldCount, len(msg.Report.Points),
			log.FieldDuration, msg.LoadTime.Milliseconds())

		if a.needSetup && a.setupForm == nil {
			vals := SetupValuesFrom(a.cfg)
			a.setupVals = &vals
			a.setupForm = NewSetupForm(a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loading && a.loaded {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.setupForm = nil
		a.needSetup = false
		a.setupVals.Apply(&a.cfg)
		theme.SetActive(a.cfg.Appearance.Theme)
		if err := config.Save(a.cfg); err != nil {
			a.log.Warn("saving config", log.FieldError, err)
		}
		if idx := components.TabIdxByPreset(period.Preset(a.cfg.General.DefaultPreset)); idx != a.activeTab {
			return a.selectTab(idx)
		}
		a.recompute()
		return a, nil
	case huh.StateAborted:
		a.setupForm = nil
		a.needSetup = false
		return a, nil
	}
	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  claimtrack needs at least %d columns.\n",
		a.width, minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ claimtrack"))
	b.WriteString(mutedStyle.Render(" · claims and payments"))
	b.WriteString("\n\n")
	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	b.WriteString(mutedStyle.Render(fmt.Sprintf(" Loading %s (%s)", a.Preset().Title(), a.window)))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	bindings := []struct{ key, desc string }{
		{fmt.Sprintf("1-%d", len(components.Tabs)), "Jump to period"},
		{"← → h l", "Previous / next period"},
		{"[ ]", "Previous / next month (Month tab)"},
		{"r", "Reload data"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
	for _, bind := range bindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
			descStyle.Render(bind.desc))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	pillStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	info := pillStyle.Render(" ") +
		accentStyle.Render(a.Preset().Title()) +
		pillStyle.Render(" │ "+a.window.String()+" │ "+fmt.Sprintf("%d days", a.window.Days()))
	if a.loading {
		info += pillStyle.Render(" ") + accentStyle.Render(a.spinner.View())
	}
	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		lipgloss.NewStyle().Background(t.Surface).Width(w).Render(info)

	status := components.StatusInfo{
		Window:  a.window.String(),
		Source:  a.srcName,
		Loading: a.loading,
		Err:     a.loadErr,
	}
	if !a.lastLoaded.IsZero() {
		status.DataAge = fmt.Sprintf("in %.1fs", a.loadTime.Seconds())
	}
	statusBar := components.RenderStatusBar(w, status)

	contentH := max(a.height-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	content := a.renderOverview(cw)
	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, a.height, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
