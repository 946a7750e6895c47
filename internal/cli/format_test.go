package cli

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"5", "5.00"},
		{"999.999", "1,000.00"},
		{"1234567.5", "1,234,567.50"},
		{"-3", "-3.00"},
		{"-1234.567", "-1,234.57"},
		{"-0.001", "0.00"},
	}
	for _, tt := range tests {
		if got := FormatAmount(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("FormatAmount(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"950", "950"},
		{"1234", "1.2K"},
		{"1234567", "1.2M"},
		{"-2500", "-2.5K"},
		{"3000000000", "3.0B"},
	}
	for _, tt := range tests {
		if got := FormatCompact(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("FormatCompact(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[int64]string{0: "0", 999: "999", 1000: "1,000", 1234567: "1,234,567", -4200: "-4,200"}
	for in, want := range tests {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatDelta(t *testing.T) {
	if got := FormatDelta(decimal.NewFromInt(150), decimal.NewFromInt(100)); got != "+50.00" {
		t.Errorf("positive delta = %q", got)
	}
	if got := FormatDelta(decimal.NewFromInt(100), decimal.NewFromInt(1150)); got != "-1,050.00" {
		t.Errorf("negative delta = %q", got)
	}
}

func TestFormatDays(t *testing.T) {
	if FormatDays(1) != "1 day" || FormatDays(31) != "31 days" {
		t.Errorf("FormatDays = %q, %q", FormatDays(1), FormatDays(31))
	}
}
