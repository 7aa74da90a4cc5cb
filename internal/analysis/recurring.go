package analysis

import (
	"sort"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/avollmer/moneylens/internal/merchant"
	"github.com/avollmer/moneylens/internal/model"
)

// Cadence thresholds in days. An average gap up to 45 days counts as
// monthly and up to 120 as quarterly; everything slower is annual.
const (
	monthlyGapMax   = 45
	quarterlyGapMax = 120
)

// RecurringPayment is one detected subscription or standing order.
type RecurringPayment struct {
	MerchantName     string          `json:"merchant_name"`
	CategoryName     string          `json:"category_name"`
	AvgAmount        decimal.Decimal `json:"avg_amount"`
	Frequency        string          `json:"frequency"`
	OccurrenceCount  int             `json:"occurrence_count"`
	TotalAnnualCost  decimal.Decimal `json:"total_annual_cost"`
	LastDate         civil.Date      `json:"last_date"`
	// AmountVariance is max minus min absolute amount across the
	// group, a coarse regularity signal.
	AmountVariance   decimal.Decimal `json:"amount_variance"`
}

// DetectRecurring groups transactions by merchant key and classifies
// the cadence of every group with at least minOccurrences bookings
// from the average gap between consecutive dates. Results are sorted
// by annualized cost descending. The displayed merchant name is the
// most recent raw payee string, not the normalized key.
func DetectRecurring(transactions []model.Transaction, minOccurrences int) []RecurringPayment {
	groups := make(map[string][]model.Transaction)
	var order []string
	for _, tx := range transactions {
		key := merchant.Key(tx.Name)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], tx)
	}

	var results []RecurringPayment
	for _, key := range order {
		txs := groups[key]
		if len(txs) < minOccurrences {
			continue
		}

		sort.SliceStable(txs, func(i, j int) bool {
			return txs[i].BookingDate.Before(txs[j].BookingDate)
		})

		var gaps []int
		for i := 1; i < len(txs); i++ {
			if delta := txs[i].BookingDate.DaysSince(txs[i-1].BookingDate); delta > 0 {
				gaps = append(gaps, delta)
			}
		}
		if len(gaps) == 0 {
			continue
		}
		gapSum := 0
		for _, g := range gaps {
			gapSum += g
		}
		avgGap := float64(gapSum) / float64(len(gaps))

		frequency := "annual"
		multiplier := int64(1)
		switch {
		case avgGap <= monthlyGapMax:
			frequency = "monthly"
			multiplier = 12
		case avgGap <= quarterlyGapMax:
			frequency = "quarterly"
			multiplier = 4
		}

		var sum decimal.Decimal
		minAbs := txs[0].Amount.Abs()
		maxAbs := minAbs
		for _, tx := range txs {
			sum = sum.Add(tx.Amount)
			abs := tx.Amount.Abs()
			if abs.LessThan(minAbs) {
				minAbs = abs
			}
			if abs.GreaterThan(maxAbs) {
				maxAbs = abs
			}
		}
		avgAmount := sum.Div(decimal.NewFromInt(int64(len(txs)))).Round(2)

		results = append(results, RecurringPayment{
			MerchantName:    txs[len(txs)-1].Name,
			CategoryName:    mostCommonCategory(txs),
			AvgAmount:       avgAmount,
			Frequency:       frequency,
			OccurrenceCount: len(txs),
			TotalAnnualCost: avgAmount.Abs().Mul(decimal.NewFromInt(multiplier)).Round(2),
			LastDate:        txs[len(txs)-1].BookingDate,
			AmountVariance:  maxAbs.Sub(minAbs),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalAnnualCost.GreaterThan(results[j].TotalAnnualCost)
	})
	return results
}

// mostCommonCategory returns the most frequent resolved category name
// in the group, the first-seen one winning ties.
func mostCommonCategory(txs []model.Transaction) string {
	counts := make(map[string]int)
	var order []string
	for _, tx := range txs {
		name := tx.CategoryName
		if name == "" {
			name = model.Uncategorized
		}
		if _, ok := counts[name]; !ok {
			order = append(order, name)
		}
		counts[name]++
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
