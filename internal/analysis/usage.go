package analysis

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/avollmer/moneylens/internal/model"
)

// CategoryUsage counts how often a category was assigned.
type CategoryUsage struct {
	CategoryID       string             `json:"category_id"`
	CategoryName     string             `json:"category_name"`
	TransactionCount int                `json:"transaction_count"`
	TotalAmount      decimal.Decimal    `json:"total_amount"`
	CategoryType     model.CategoryType `json:"category_type"`
}

// ComputeCategoryUsage aggregates categorized transactions by category
// ID, sorted by transaction count descending and truncated to limit
// when positive. Uncategorized transactions are ignored.
func ComputeCategoryUsage(
	transactions []model.Transaction,
	categories []model.Category,
	limit int,
) []CategoryUsage {
	idx := model.NewCategoryIndex(categories)

	usage := make(map[string]*CategoryUsage)
	var order []string
	for _, tx := range transactions {
		if tx.CategoryID == "" {
			continue
		}
		u, ok := usage[tx.CategoryID]
		if !ok {
			name := tx.CategoryName
			if name == "" {
				name = "Unknown"
			}
			catType := model.CategoryExpense
			if cat, found := idx.ByID(tx.CategoryID); found {
				catType = cat.Type
			}
			u = &CategoryUsage{
				CategoryID:   tx.CategoryID,
				CategoryName: name,
				CategoryType: catType,
			}
			usage[tx.CategoryID] = u
			order = append(order, tx.CategoryID)
		}
		u.TransactionCount++
		u.TotalAmount = u.TotalAmount.Add(tx.Amount)
	}

	results := make([]CategoryUsage, 0, len(order))
	for _, id := range order {
		results = append(results, *usage[id])
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TransactionCount > results[j].TransactionCount
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
