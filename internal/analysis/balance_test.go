package analysis

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/avollmer/moneylens/internal/model"
)

func TestComputeBalanceHistory(t *testing.T) {
	today := civil.Date{Year: 2026, Month: 3, Day: 15}
	accounts := []model.Account{
		{ID: "a1", Name: "Checking", Balance: decimal.NewFromInt(1000)},
	}
	txs := []model.Transaction{
		{AccountID: "a1", BookingDate: civil.Date{Year: 2026, Month: 1, Day: 10}, Amount: decimal.NewFromInt(50)},
		{AccountID: "a1", BookingDate: civil.Date{Year: 2026, Month: 2, Day: 5}, Amount: decimal.NewFromInt(-200)},
		{AccountID: "a1", BookingDate: civil.Date{Year: 2026, Month: 3, Day: 1}, Amount: decimal.NewFromInt(100)},
	}

	snapshots := ComputeBalanceHistory(accounts, txs, today, 3)

	if len(snapshots) != 3 {
		t.Fatalf("Got %d snapshots, want 3", len(snapshots))
	}

	want := []struct {
		label   string
		balance string
		change  string
	}{
		{"2026-01", "1150.00", "50.00"},
		{"2026-02", "1200.00", "-200.00"},
		{"2026-03", "1000.00", "100.00"},
	}
	for i, w := range want {
		s := snapshots[i]
		if s.PeriodLabel != w.label {
			t.Errorf("Snapshot %d label = %q, want %q", i, s.PeriodLabel, w.label)
		}
		if got := s.Balance.StringFixed(2); got != w.balance {
			t.Errorf("Snapshot %s balance = %s, want %s", w.label, got, w.balance)
		}
		if got := s.Change.StringFixed(2); got != w.change {
			t.Errorf("Snapshot %s change = %s, want %s", w.label, got, w.change)
		}
	}

	// The newest snapshot always mirrors the account's current balance.
	if !snapshots[2].Balance.Equal(accounts[0].Balance) {
		t.Error("Newest snapshot must equal the current balance")
	}
}

func TestComputeBalanceHistory_InactiveAccount(t *testing.T) {
	today := civil.Date{Year: 2026, Month: 3, Day: 15}
	accounts := []model.Account{
		{ID: "a1", Name: "Depot", Balance: decimal.NewFromInt(5000)},
	}

	snapshots := ComputeBalanceHistory(accounts, nil, today, 4)

	if len(snapshots) != 4 {
		t.Fatalf("Got %d snapshots, want 4", len(snapshots))
	}
	for _, s := range snapshots {
		if got := s.Balance.StringFixed(2); got != "5000.00" {
			t.Errorf("Snapshot %s balance = %s, want 5000.00", s.PeriodLabel, got)
		}
		if !s.Change.IsZero() {
			t.Errorf("Snapshot %s change = %s, want 0", s.PeriodLabel, s.Change)
		}
	}
	if snapshots[0].PeriodLabel != "2025-12" {
		t.Errorf("Oldest label = %q, want 2025-12", snapshots[0].PeriodLabel)
	}
}

func TestComputeBalanceHistory_AccountsInInputOrder(t *testing.T) {
	today := civil.Date{Year: 2026, Month: 3, Day: 15}
	accounts := []model.Account{
		{ID: "a1", Name: "Checking", Balance: decimal.NewFromInt(100)},
		{ID: "a2", Name: "Savings", Balance: decimal.NewFromInt(200)},
	}

	snapshots := ComputeBalanceHistory(accounts, nil, today, 2)

	if len(snapshots) != 4 {
		t.Fatalf("Got %d snapshots, want 4", len(snapshots))
	}
	if snapshots[0].AccountName != "Checking" || snapshots[2].AccountName != "Savings" {
		t.Errorf("Snapshots not grouped by account in input order: %q, %q",
			snapshots[0].AccountName, snapshots[2].AccountName)
	}
}
