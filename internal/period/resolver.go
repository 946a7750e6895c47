package period

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/claimtrack/internal/calendar"
)

// Conditions that Resolve tolerates silently. Validate reports them.
var (
	ErrUnknownPreset         = errors.New("unknown period preset")
	ErrIncompleteMonthSelect = errors.New("month-select needs both year and month")
	ErrInvalidMonth          = errors.New("month must be between 1 and 12")
	ErrInvertedRange         = errors.New("custom range start is after end")
)

// Options carries the optional parameters a preset may use.
// Zero values mean "not provided".
type Options struct {
	Year  int
	Month int
	Start calendar.Date
	End   calendar.Date
}

// Window is an inclusive range of calendar dates. From is never after To.
type Window struct {
	From calendar.Date `json:"from"`
	To   calendar.Date `json:"to"`
}

// Days returns the number of calendar days in the window, both ends included.
func (w Window) Days() int {
	return w.From.DaysUntil(w.To) + 1
}

// Contains reports whether d falls inside the window.
func (w Window) Contains(d calendar.Date) bool {
	return !d.Before(w.From) && !d.After(w.To)
}

// Months enumerates the (year, month) pairs the window covers.
func (w Window) Months() []MonthPair {
	return Months(w.From, w.To)
}

func (w Window) String() string {
	return w.From.String() + " .. " + w.To.String()
}

// Resolve turns a preset into a concrete window relative to today's local date.
// It never fails; see ResolveAt for the exact rules.
func Resolve(p Preset, opts Options) Window {
	return ResolveAt(p, opts, calendar.Today())
}

// ResolveAt resolves p relative to today.
//
// month-select without a usable year and month, and any unknown preset, take
// the custom branch: Start (or today) to End (or today). A custom window whose
// start is after its end is swapped so From <= To always holds.
func ResolveAt(p Preset, opts Options, today calendar.Date) Window {
	thisMonth := today.FirstOfMonth()

	switch p {
	case CurrentMonth:
		return Window{From: thisMonth, To: thisMonth.LastOfMonth()}

	case LastMonth:
		prev := thisMonth.AddMonths(-1)
		return Window{From: prev, To: prev.LastOfMonth()}

	case Last3Months:
		return Window{From: thisMonth.AddMonths(-2), To: thisMonth.LastOfMonth()}

	case Last12Months:
		return Window{From: thisMonth.AddMonths(-11), To: thisMonth.LastOfMonth()}

	case Year:
		y := opts.Year
		if y == 0 {
			y = today.Year
		}
		return Window{From: calendar.New(y, 1, 1), To: calendar.New(y, 12, 31)}

	case MonthSelect:
		if opts.Year != 0 && validMonth(opts.Month) {
			first := calendar.New(opts.Year, opts.Month, 1)
			return Window{From: first, To: first.LastOfMonth()}
		}
	}

	return customWindow(opts, today)
}

func customWindow(opts Options, today calendar.Date) Window {
	from, to := today, today
	if !opts.Start.IsZero() {
		from = opts.Start
	}
	if !opts.End.IsZero() {
		to = opts.End
	}
	if from.After(to) {
		from, to = to, from
	}
	return Window{From: from, To: to}
}

func validMonth(m int) bool {
	return m >= 1 && m <= 12
}

// Validate reports the conditions Resolve degrades on. A nil result means the
// window returned by Resolve is exactly what the caller asked for.
func Validate(p Preset, opts Options) error {
	return ValidateAt(p, opts, calendar.Today())
}

// ValidateAt is Validate relative to today, matching ResolveAt.
func ValidateAt(p Preset, opts Options, today calendar.Date) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownPreset, string(p))
	}

	switch p {
	case MonthSelect:
		if opts.Year == 0 || opts.Month == 0 {
			return ErrIncompleteMonthSelect
		}
		if !validMonth(opts.Month) {
			return fmt.Errorf("%w: got %d", ErrInvalidMonth, opts.Month)
		}
	case Custom:
		// Open ends default to today, so a lone future start inverts too.
		from, to := today, today
		if !opts.Start.IsZero() {
			from = opts.Start
		}
		if !opts.End.IsZero() {
			to = opts.End
		}
		if from.After(to) {
			return fmt.Errorf("%w: %s > %s", ErrInvertedRange, from, to)
		}
	}
	return nil
}
