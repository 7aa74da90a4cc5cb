package analysis

import (
	"github.com/shopspring/decimal"

	"cloud.google.com/go/civil"

	"github.com/avollmer/moneylens/internal/model"
)

// BalanceSnapshot is one reconstructed month-end balance.
type BalanceSnapshot struct {
	PeriodLabel string          `json:"period"`
	AccountName string          `json:"account_name"`
	Balance     decimal.Decimal `json:"balance"`
	// Change is the net transaction sum recorded in the snapshot's own
	// month.
	Change decimal.Decimal `json:"change"`
}

// ComputeBalanceHistory approximates month-end balances for the
// trailing months-month window by replaying transaction sums backward
// from each account's current balance. An account with no activity in
// the window shows its current balance in every snapshot. Snapshots
// come back chronologically, grouped by account in input order.
//
// The replay subtracts each older month's own net sum from the running
// balance, mirroring the finance application's export semantics; the
// result is an approximation, not a statement-accurate balance.
func ComputeBalanceHistory(
	accounts []model.Account,
	transactions []model.Transaction,
	today civil.Date,
	months int,
) []BalanceSnapshot {
	monthly := make(map[string]map[string]decimal.Decimal)
	for _, tx := range transactions {
		key := monthKey(tx.BookingDate)
		if monthly[tx.AccountID] == nil {
			monthly[tx.AccountID] = make(map[string]decimal.Decimal)
		}
		monthly[tx.AccountID][key] = monthly[tx.AccountID][key].Add(tx.Amount)
	}

	// Month labels newest first, current month included.
	newestFirst := make([]string, 0, months)
	d := firstOfMonth(today)
	for i := 0; i < months; i++ {
		newestFirst = append(newestFirst, monthKey(d))
		d = firstOfMonth(d.AddDays(-1))
	}

	var results []BalanceSnapshot
	for _, acc := range accounts {
		balance := acc.Balance

		snapshots := make([]BalanceSnapshot, 0, months)
		for i, month := range newestFirst {
			monthSum := monthly[acc.ID][month]
			if i > 0 {
				balance = balance.Sub(monthSum)
			}
			snapshots = append(snapshots, BalanceSnapshot{
				PeriodLabel: month,
				AccountName: acc.Name,
				Balance:     balance,
				Change:      monthSum,
			})
		}

		// Emit chronologically.
		for i := len(snapshots) - 1; i >= 0; i-- {
			results = append(results, snapshots[i])
		}
	}
	return results
}
