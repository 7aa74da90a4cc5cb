package analysis

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/avollmer/moneylens/internal/model"
)

func TestComputeCashflow_Monthly(t *testing.T) {
	today := civil.Date{Year: 2026, Month: 3, Day: 15}
	txs := []model.Transaction{
		{BookingDate: civil.Date{Year: 2025, Month: 12, Day: 31}, Amount: decimal.NewFromInt(-999)},
		{BookingDate: civil.Date{Year: 2026, Month: 1, Day: 5}, Amount: decimal.NewFromInt(3000)},
		{BookingDate: civil.Date{Year: 2026, Month: 1, Day: 20}, Amount: decimal.NewFromInt(-100)},
		{BookingDate: civil.Date{Year: 2026, Month: 2, Day: 10}, Amount: decimal.NewFromInt(-200)},
		{BookingDate: civil.Date{Year: 2026, Month: 3, Day: 1}, Amount: decimal.NewFromInt(50)},
	}

	periods := ComputeCashflow(txs, today, 2, Monthly)

	if len(periods) != 3 {
		t.Fatalf("Got %d periods, want 3", len(periods))
	}

	jan := periods[0]
	if jan.Label != "2026-01" {
		t.Errorf("First label = %q, want 2026-01", jan.Label)
	}
	if got := jan.Income.StringFixed(2); got != "3000.00" {
		t.Errorf("January income = %s, want 3000.00", got)
	}
	if got := jan.Expenses.StringFixed(2); got != "-100.00" {
		t.Errorf("January expenses = %s, want -100.00", got)
	}
	if got := jan.Net.StringFixed(2); got != "2900.00" {
		t.Errorf("January net = %s, want 2900.00", got)
	}
	if jan.TransactionCount != 2 {
		t.Errorf("January count = %d, want 2", jan.TransactionCount)
	}

	if periods[1].Label != "2026-02" || periods[2].Label != "2026-03" {
		t.Errorf("Labels not chronological: %q, %q", periods[1].Label, periods[2].Label)
	}
}

func TestComputeCashflow_Quarterly(t *testing.T) {
	today := civil.Date{Year: 2026, Month: 3, Day: 15}
	txs := []model.Transaction{
		{BookingDate: civil.Date{Year: 2026, Month: 1, Day: 5}, Amount: decimal.NewFromInt(100)},
		{BookingDate: civil.Date{Year: 2026, Month: 3, Day: 5}, Amount: decimal.NewFromInt(-40)},
	}

	periods := ComputeCashflow(txs, today, 2, Quarterly)

	if len(periods) != 1 {
		t.Fatalf("Got %d periods, want 1", len(periods))
	}
	if periods[0].Label != "2026-Q1" {
		t.Errorf("Label = %q, want 2026-Q1", periods[0].Label)
	}
	if got := periods[0].Net.StringFixed(2); got != "60.00" {
		t.Errorf("Net = %s, want 60.00", got)
	}
}
