// Package calendar provides a timezone-free calendar date value.
package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrInvalidDate is returned when a string does not start with a valid yyyy-mm-dd date.
var ErrInvalidDate = errors.New("invalid calendar date")

var monthAbbrevs = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Date is a calendar date with no time-of-day and no location.
// The zero value is not a valid date; use IsZero to test for it.
type Date struct {
	Year  int
	Month int // 1-12
	Day   int // 1-31
}

// New returns a normalized date. Out-of-range months and days roll over
// the same way time.Date does, so New(2024, 3, 0) is 2024-02-29.
func New(year, month, day int) Date {
	y, m := normalizeMonth(year, month)
	for day < 1 {
		y, m = normalizeMonth(y, m-1)
		day += DaysIn(y, m)
	}
	for day > DaysIn(y, m) {
		day -= DaysIn(y, m)
		y, m = normalizeMonth(y, m+1)
	}
	return Date{Year: y, Month: m, Day: day}
}

// FromTime returns the calendar date of t in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: int(m), Day: d}
}

// Today returns the current local calendar date.
func Today() Date {
	return FromTime(time.Now())
}

// Parse reads a date from the first ten characters of s ("2006-01-02").
// Anything after the date must start with 'T' or ' ', so full ISO timestamps
// are accepted and their time-of-day and offset are ignored.
func Parse(s string) (Date, error) {
	if len(s) < 10 {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	if len(s) > 10 && s[10] != 'T' && s[10] != 't' && s[10] != ' ' {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	if s[4] != '-' || s[7] != '-' {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	y, err1 := atoiDigits(s[0:4])
	m, err2 := atoiDigits(s[5:7])
	d, err3 := atoiDigits(s[8:10])
	if err1 != nil || err2 != nil || err3 != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	if m < 1 || m > 12 || d < 1 || d > DaysIn(y, m) {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Year: y, Month: m, Day: d}, nil
}

// MustParse is Parse for constants and tests; it panics on error.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func atoiDigits(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(s)
}

// IsLeap reports whether year is a Gregorian leap year.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year, month int) int {
	switch month {
	case 2:
		if IsLeap(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

func normalizeMonth(year, month int) (int, int) {
	idx := year*12 + month - 1
	y := floorDiv(idx, 12)
	return y, idx - y*12 + 1
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// FirstOfMonth returns day 1 of d's month.
func (d Date) FirstOfMonth() Date {
	return Date{Year: d.Year, Month: d.Month, Day: 1}
}

// LastOfMonth returns the last day of d's month (day 0 of the following month).
func (d Date) LastOfMonth() Date {
	return New(d.Year, d.Month+1, 0)
}

// AddMonths moves d by n months, clamping the day to the target month's length.
func (d Date) AddMonths(n int) Date {
	y, m := normalizeMonth(d.Year, d.Month+n)
	day := d.Day
	if last := DaysIn(y, m); day > last {
		day = last
	}
	return Date{Year: y, Month: m, Day: day}
}

// AddDays moves d by n days.
func (d Date) AddDays(n int) Date {
	return New(d.Year, d.Month, d.Day+n)
}

// MonthIndex is a monotonic month counter (year*12 + month-1).
func (d Date) MonthIndex() int {
	return d.Year*12 + d.Month - 1
}

// Compare returns -1, 0 or +1 as d is before, equal to or after o.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(d.Month - o.Month)
	default:
		return sign(d.Day - o.Day)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// Before reports whether d is strictly before o.
func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }

// After reports whether d is strictly after o.
func (d Date) After(o Date) bool { return d.Compare(o) > 0 }

// DaysUntil returns the number of days from d to o (negative if o is earlier).
func (d Date) DaysUntil(o Date) int {
	return o.dayNumber() - d.dayNumber()
}

// dayNumber counts days since 1970-01-01 in the proleptic Gregorian calendar.
func (d Date) dayNumber() int {
	y, m := d.Year, d.Month
	if m <= 2 {
		y--
	}
	era := floorDiv(y, 400)
	yoe := y - era*400
	mp := (m + 9) % 12
	doy := (153*mp+2)/5 + d.Day - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

// Time returns midnight UTC of d for interop with time-based APIs.
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// Weekday returns the day of the week.
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// String formats d as yyyy-mm-dd.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Label formats d as "Jan 05" for chart axes.
func (d Date) Label() string {
	return fmt.Sprintf("%s %02d", MonthAbbrev(d.Month), d.Day)
}

// MonthAbbrev returns the 3-letter English abbreviation for month 1-12.
func MonthAbbrev(month int) string {
	if month < 1 || month > 12 {
		return "???"
	}
	return monthAbbrevs[month-1]
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return []byte{}, nil
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty input yields the zero Date.
func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
