package pipeline

import (
	"testing"

	"github.com/theirongolddev/claimtrack/internal/model"
	"github.com/theirongolddev/claimtrack/internal/period"
)

func TestMonthlyTotals_ZeroFillsAndOrders(t *testing.T) {
	points, err := Aggregate(
		[]model.ClaimEvent{
			{PeriodStart: "2023-12-05", ClaimedAmount: "10"},
			{PeriodStart: "2023-12-20", ClaimedAmount: "5"},
			{PeriodStart: "2024-02-01", ClaimedAmount: "7"},
			{PeriodStart: "2024-06-01", ClaimedAmount: "1000"},
		},
		[]model.PaymentEvent{{PaymentDate: model.StringPtr("2023-12-21"), Amount: "12"}},
	)
	if err != nil {
		t.Fatal(err)
	}

	w := window(t, "2023-12-01", "2024-02-29")
	rows := MonthlyTotals(points, w.Months())
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	if rows[0].Label != "Dec" || !rows[0].Claims.Equal(dec("15")) || !rows[0].Payments.Equal(dec("12")) || rows[0].Days != 3 {
		t.Errorf("Dec = %+v", rows[0])
	}
	if rows[1].Month != 1 || !rows[1].Claims.IsZero() || rows[1].Days != 0 {
		t.Errorf("Jan = %+v, want zero row", rows[1])
	}
	if rows[2].Year != 2024 || !rows[2].Claims.Equal(dec("7")) {
		t.Errorf("Feb = %+v", rows[2])
	}
	if !rows[0].Outstanding().Equal(dec("3")) {
		t.Errorf("Dec outstanding = %s", rows[0].Outstanding())
	}
}

func TestMonthlyTotals_NoMonths(t *testing.T) {
	points, _ := Aggregate([]model.ClaimEvent{{PeriodStart: "2024-01-01", ClaimedAmount: "1"}}, nil)
	if rows := MonthlyTotals(points, []period.MonthPair{}); len(rows) != 0 {
		t.Errorf("rows = %+v, want none", rows)
	}
}

func TestTopOutstanding(t *testing.T) {
	rows := []model.MonthStats{
		{Month: 1, Claims: dec("10"), Payments: dec("10")},
		{Month: 2, Claims: dec("50"), Payments: dec("0")},
		{Month: 3, Claims: dec("20"), Payments: dec("5")},
		{Month: 4, Claims: dec("15"), Payments: dec("0")},
	}

	top := TopOutstanding(rows, 2)
	if len(top) != 2 || top[0].Month != 2 || top[1].Month != 3 {
		t.Errorf("top = %+v", top)
	}
	// ties keep calendar order
	if all := TopOutstanding(rows, -1); all[2].Month != 4 || all[3].Month != 1 {
		t.Errorf("all = %+v", all)
	}
	if rows[0].Month != 1 {
		t.Error("TopOutstanding reordered its input")
	}
}
