package analysis

import (
	"sort"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/avollmer/moneylens/internal/merchant"
	"github.com/avollmer/moneylens/internal/model"
)

// TypeFilter optionally restricts transactions by amount sign before
// grouping.
type TypeFilter string

const (
	TypeAll     TypeFilter = ""
	TypeIncome  TypeFilter = "income"
	TypeExpense TypeFilter = "expense"
)

// MerchantSummary aggregates all bookings that share a merchant key.
// PctOfTotal is only populated by ComputeTopCustomers.
type MerchantSummary struct {
	MerchantName     string              `json:"merchant_name"`
	TransactionCount int                 `json:"transaction_count"`
	TotalAmount      decimal.Decimal     `json:"total_amount"`
	AvgAmount        decimal.Decimal     `json:"avg_amount"`
	Categories       []string            `json:"categories"`
	FirstDate        civil.Date          `json:"first_date"`
	LastDate         civil.Date          `json:"last_date"`
	PctOfTotal       decimal.NullDecimal `json:"pct_of_total,omitempty"`
}

// ComputeMerchantSummary groups transactions by merchant key and
// summarizes each group: count, signed total, average, distinct
// categories and the covered date range. The display name is the most
// frequent raw payee string in the group. Results are sorted by
// absolute total descending and truncated to limit when positive.
func ComputeMerchantSummary(
	transactions []model.Transaction,
	limit int,
	typeFilter TypeFilter,
) []MerchantSummary {
	switch typeFilter {
	case TypeIncome:
		transactions = filterBySign(transactions, true)
	case TypeExpense:
		transactions = filterBySign(transactions, false)
	}

	groups := make(map[string][]model.Transaction)
	var order []string
	for _, tx := range transactions {
		key := merchant.Key(tx.Name)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], tx)
	}

	results := make([]MerchantSummary, 0, len(order))
	for _, key := range order {
		txs := groups[key]

		var total decimal.Decimal
		catSet := make(map[string]struct{})
		first := txs[0].BookingDate
		last := txs[0].BookingDate
		for _, tx := range txs {
			total = total.Add(tx.Amount)
			name := tx.CategoryName
			if name == "" {
				name = model.Uncategorized
			}
			catSet[name] = struct{}{}
			if tx.BookingDate.Before(first) {
				first = tx.BookingDate
			}
			if last.Before(tx.BookingDate) {
				last = tx.BookingDate
			}
		}

		categories := make([]string, 0, len(catSet))
		for name := range catSet {
			categories = append(categories, name)
		}
		sort.Strings(categories)

		results = append(results, MerchantSummary{
			MerchantName:     mostCommonName(txs),
			TransactionCount: len(txs),
			TotalAmount:      total,
			AvgAmount:        total.Div(decimal.NewFromInt(int64(len(txs)))).Round(2),
			Categories:       categories,
			FirstDate:        first,
			LastDate:         last,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalAmount.Abs().GreaterThan(results[j].TotalAmount.Abs())
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// ComputeTopCustomers is the income specialization of the merchant
// summary: only strictly positive amounts are considered and every
// result carries its share of total income as a percentage.
func ComputeTopCustomers(transactions []model.Transaction, limit int) []MerchantSummary {
	income := filterBySign(transactions, true)

	var totalIncome decimal.Decimal
	for _, tx := range income {
		totalIncome = totalIncome.Add(tx.Amount)
	}

	results := ComputeMerchantSummary(income, limit, TypeAll)

	if totalIncome.IsPositive() {
		for i := range results {
			results[i].PctOfTotal = decimal.NullDecimal{
				Decimal: results[i].TotalAmount.Div(totalIncome).Mul(oneHundred).Round(1),
				Valid:   true,
			}
		}
	}
	return results
}

// mostCommonName returns the most frequent raw payee string in the
// group, the first-seen one winning ties.
func mostCommonName(txs []model.Transaction) string {
	counts := make(map[string]int)
	var order []string
	for _, tx := range txs {
		if _, ok := counts[tx.Name]; !ok {
			order = append(order, tx.Name)
		}
		counts[tx.Name]++
	}

	best := ""
	bestCount := 0
	for _, name := range order {
		if counts[name] > bestCount {
			best = name
			bestCount = counts[name]
		}
	}
	return best
}

func filterBySign(txs []model.Transaction, positive bool) []model.Transaction {
	var result []model.Transaction
	for _, tx := range txs {
		if positive == tx.Amount.IsPositive() && !tx.Amount.IsZero() {
			result = append(result, tx)
		}
	}
	return result
}
