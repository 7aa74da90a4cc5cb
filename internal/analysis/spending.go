package analysis

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/avollmer/moneylens/internal/model"
)

// SpendingEntry is the per-category result of ComputeSpending.
// Optional fields are invalid NullDecimals when the underlying data
// (budget, prior period) is absent.
type SpendingEntry struct {
	CategoryName     string              `json:"category_name"`
	CategoryPath     string              `json:"category_path"`
	CategoryType     model.CategoryType  `json:"category_type"`
	Actual           decimal.Decimal     `json:"actual"`
	Budget           decimal.NullDecimal `json:"budget,omitempty"`
	BudgetPeriod     string              `json:"budget_period,omitempty"`
	Remaining        decimal.NullDecimal `json:"remaining,omitempty"`
	PercentUsed      decimal.NullDecimal `json:"percent_used,omitempty"`
	TransactionCount int                 `json:"transaction_count"`
	CompareActual    decimal.NullDecimal `json:"compare_actual,omitempty"`
	CompareChange    decimal.NullDecimal `json:"compare_change,omitempty"`
}

type spendingGroup struct {
	actual decimal.Decimal
	count  int
	cat    model.Category
	hasCat bool
}

var oneHundred = decimal.NewFromInt(100)

// ComputeSpending groups the period's transactions by resolved
// category name, attaches budget data from the category snapshot and,
// when compareTxs is supplied, computes the period-over-period change.
// Results are sorted by absolute actual amount descending, ties kept
// in encounter order.
func ComputeSpending(
	transactions []model.Transaction,
	categories []model.Category,
	compareTxs []model.Transaction,
) []SpendingEntry {
	idx := model.NewCategoryIndex(categories)

	groups := make(map[string]*spendingGroup)
	var order []string

	for _, tx := range transactions {
		key := tx.CategoryName
		if key == "" {
			key = model.Uncategorized
		}
		g, ok := groups[key]
		if !ok {
			g = &spendingGroup{}
			groups[key] = g
			order = append(order, key)
		}
		g.actual = g.actual.Add(tx.Amount)
		g.count++

		// Resolve the Category record by ID first, by leaf name second.
		if tx.CategoryID != "" {
			if cat, found := idx.ByID(tx.CategoryID); found {
				g.cat = cat
				g.hasCat = true
				continue
			}
		}
		if !g.hasCat {
			if cat, found := idx.ByName(key); found {
				g.cat = cat
				g.hasCat = true
			}
		}
	}

	compare := make(map[string]decimal.Decimal)
	for _, tx := range compareTxs {
		key := tx.CategoryName
		if key == "" {
			key = model.Uncategorized
		}
		compare[key] = compare[key].Add(tx.Amount)
	}

	results := make([]SpendingEntry, 0, len(order))
	for _, name := range order {
		g := groups[name]
		entry := SpendingEntry{
			CategoryName:     name,
			CategoryPath:     name,
			CategoryType:     model.CategoryExpense,
			Actual:           g.actual,
			TransactionCount: g.count,
		}

		if g.hasCat {
			if g.cat.Path != "" {
				entry.CategoryPath = g.cat.Path
			} else {
				entry.CategoryPath = g.cat.Name
			}
			entry.CategoryType = g.cat.Type
			if g.cat.Budget.Valid && g.cat.Budget.Decimal.IsPositive() {
				entry.Budget = g.cat.Budget
				entry.BudgetPeriod = g.cat.BudgetPeriod
			}
		}

		if entry.Budget.Valid {
			budget := entry.Budget.Decimal
			entry.Remaining = decimal.NullDecimal{
				Decimal: budget.Sub(g.actual.Abs()),
				Valid:   true,
			}
			entry.PercentUsed = decimal.NullDecimal{
				Decimal: g.actual.Abs().Div(budget).Mul(oneHundred).Round(1),
				Valid:   true,
			}
		}

		if prior, ok := compare[name]; ok {
			entry.CompareActual = decimal.NullDecimal{Decimal: prior, Valid: true}
			if !prior.IsZero() {
				change := g.actual.Abs().Sub(prior.Abs()).Div(prior.Abs()).Mul(oneHundred).Round(1)
				entry.CompareChange = decimal.NullDecimal{Decimal: change, Valid: true}
			}
		}

		results = append(results, entry)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Actual.Abs().GreaterThan(results[j].Actual.Abs())
	})

	return results
}
