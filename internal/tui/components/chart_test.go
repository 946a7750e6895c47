package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestChartTickStep(t *testing.T) {
	tests := []struct {
		max  float64
		want float64
	}{
		{0, 1},
		{5, 1},
		{12, 2},
		{100, 20},
		{480, 50},
		{2500, 500},
	}
	for _, tt := range tests {
		if got := chartTickStep(tt.max); got != tt.want {
			t.Errorf("chartTickStep(%v) = %v, want %v", tt.max, got, tt.want)
		}
	}
}

func TestFormatChartLabel(t *testing.T) {
	tests := map[float64]string{
		0.5:     "0.50",
		40:      "40",
		1000:    "1k",
		1500:    "1.5k",
		2000000: "2M",
		3.5e9:   "3.5B",
	}
	for v, want := range tests {
		if got := formatChartLabel(v); got != want {
			t.Errorf("formatChartLabel(%v) = %q, want %q", v, got, want)
		}
	}
}

func TestBucketSumKeepsTotals(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5, 6, 7}
	b := []float64{7, 6, 5, 4, 3, 2, 1}
	labels := []string{"a", "b", "c", "d", "e", "f", "g"}

	ga, gb, gl := bucketSum(a, b, labels, 3)
	if len(ga) != 3 || len(gb) != 3 || len(gl) != 3 {
		t.Fatalf("got %d/%d/%d buckets, want 3", len(ga), len(gb), len(gl))
	}
	var sa, sb float64
	for i := range ga {
		sa += ga[i]
		sb += gb[i]
	}
	if sa != 28 || sb != 28 {
		t.Errorf("totals = %v/%v, want 28/28", sa, sb)
	}
	if gl[0] != "a" || gl[1] != "d" || gl[2] != "g" {
		t.Errorf("labels = %v, want [a d g]", gl)
	}
}

func TestPairedBarChartFitsWidth(t *testing.T) {
	claims := make([]float64, 365)
	payments := make([]float64, 365)
	labels := make([]string, 365)
	for i := range claims {
		claims[i] = float64(i % 30)
		payments[i] = float64(i % 17)
		labels[i] = "Jan 01"
	}

	out := PairedBarChart(Series{Values: claims}, Series{Values: payments}, labels, 80, 10)
	for i, line := range strings.Split(out, "\n") {
		if w := lipgloss.Width(line); w > 80 {
			t.Errorf("line %d width %d exceeds 80", i, w)
		}
	}
}

func TestPairedBarChartEmpty(t *testing.T) {
	if got := PairedBarChart(Series{}, Series{}, nil, 80, 10); got != "" {
		t.Errorf("empty chart = %q", got)
	}
}

func TestPaidBarClampsRatio(t *testing.T) {
	out := PaidBar("Paid", 1.25, 6, 20)
	if !strings.Contains(out, "125%") {
		t.Errorf("PaidBar should show the real ratio, got %q", out)
	}
	if w := lipgloss.Width(out); w != 6+1+20+1+4 {
		t.Errorf("PaidBar width = %d, want %d", w, 32)
	}
}
