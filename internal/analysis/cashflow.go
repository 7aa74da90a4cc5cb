package analysis

import (
	"fmt"
	"sort"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/avollmer/moneylens/internal/model"
)

// Granularity selects the cashflow bucket size.
type Granularity string

const (
	Monthly   Granularity = "monthly"
	Quarterly Granularity = "quarterly"
)

// CashflowPeriod is one income/expense bucket.
type CashflowPeriod struct {
	Label            string          `json:"period"`
	Income           decimal.Decimal `json:"income"`
	Expenses         decimal.Decimal `json:"expenses"`
	Net              decimal.Decimal `json:"net"`
	TransactionCount int             `json:"transaction_count"`
}

type cashflowBucket struct {
	income   decimal.Decimal
	expenses decimal.Decimal
	count    int
}

// ComputeCashflow buckets transactions from the trailing months-month
// window into monthly ("YYYY-MM") or quarterly ("YYYY-Qn") totals.
// Positive amounts sum into income, negative into expenses. Buckets
// come back in label order, which is chronological for both
// granularities.
func ComputeCashflow(
	transactions []model.Transaction,
	today civil.Date,
	months int,
	granularity Granularity,
) []CashflowPeriod {
	cutoff := firstOfMonth(firstOfMonth(today).AddDays(-(months - 1) * 30))

	label := monthKey
	if granularity == Quarterly {
		label = quarterKey
	}

	buckets := make(map[string]*cashflowBucket)
	for _, tx := range transactions {
		if tx.BookingDate.Before(cutoff) {
			continue
		}
		key := label(tx.BookingDate)
		b, ok := buckets[key]
		if !ok {
			b = &cashflowBucket{}
			buckets[key] = b
		}
		if tx.Amount.IsPositive() {
			b.income = b.income.Add(tx.Amount)
		} else {
			b.expenses = b.expenses.Add(tx.Amount)
		}
		b.count++
	}

	labels := make([]string, 0, len(buckets))
	for key := range buckets {
		labels = append(labels, key)
	}
	sort.Strings(labels)

	results := make([]CashflowPeriod, 0, len(labels))
	for _, key := range labels {
		b := buckets[key]
		results = append(results, CashflowPeriod{
			Label:            key,
			Income:           b.income,
			Expenses:         b.expenses,
			Net:              b.income.Add(b.expenses),
			TransactionCount: b.count,
		})
	}
	return results
}

// monthKey returns the "YYYY-MM" bucket label for a date.
func monthKey(d civil.Date) string {
	return fmt.Sprintf("%04d-%02d", d.Year, int(d.Month))
}

// quarterKey returns the "YYYY-Qn" bucket label for a date.
func quarterKey(d civil.Date) string {
	return fmt.Sprintf("%04d-Q%d", d.Year, (int(d.Month)-1)/3+1)
}
