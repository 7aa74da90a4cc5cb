// Package rules proposes auto-categorization rules for uncategorized
// transactions by matching their merchant keys against historical
// categorized activity and grading each proposal with a confidence
// level.
package rules

import (
	"sort"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/avollmer/moneylens/internal/merchant"
	"github.com/avollmer/moneylens/internal/model"
)

// Confidence grades how reliable a suggestion is.
type Confidence string

const (
	High   Confidence = "high"
	Medium Confidence = "medium"
	Low    Confidence = "low"
)

// Prefix matching bounds: historical keys must share at least
// minPrefixLen characters with the new key, compared over a window of
// at most prefixWindow characters.
const (
	minPrefixLen = 6
	prefixWindow = 8
)

// ManualAssignment is the placeholder category when no historical
// match exists and the user has to decide.
const ManualAssignment = "(needs manual assignment)"

// SampleTransaction is one example booking attached to a suggestion.
type SampleTransaction struct {
	Date    civil.Date      `json:"date"`
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
	Purpose string          `json:"purpose,omitempty"`
}

// Suggestion is one proposed categorization rule.
type Suggestion struct {
	Pattern           string              `json:"pattern"`
	SuggestedCategory string              `json:"suggested_category"`
	CategoryPath      string              `json:"category_path"`
	MatchCount        int                 `json:"match_count"`
	TotalAmount       decimal.Decimal     `json:"total_amount"`
	Confidence        Confidence          `json:"confidence"`
	// ExistingRule and ExistingCategory flag patterns the finance
	// application's own rules already appear to cover.
	ExistingRule      string              `json:"existing_rule,omitempty"`
	ExistingCategory  string              `json:"existing_category,omitempty"`
	Samples           []SampleTransaction `json:"sample_transactions,omitempty"`
}

// catEntry is one historical (category name, category path) sighting
// for a merchant key.
type catEntry struct {
	name string
	path string
}

var titleCaser = cases.Title(language.Und)

// Suggest derives rule suggestions for uncategorized transactions.
// Groups deduplicate by merchant key across the whole run. Each group
// is matched against the categorized history: an exact key match gives
// high (>=3 sightings of the winning category) or medium confidence; a
// shared prefix gives medium (>=2) or low; no match leaves the
// category unresolved at low confidence. Results are ordered by
// confidence, then match count descending, then total amount
// ascending.
func Suggest(
	uncategorized []model.Transaction,
	categorized []model.Transaction,
	categories []model.Category,
) []Suggestion {
	idx := model.NewCategoryIndex(categories)

	history := make(map[string][]catEntry)
	var historyOrder []string
	for _, tx := range categorized {
		key := merchant.Key(tx.Name)
		path := tx.CategoryName
		if cat, ok := idx.ByID(tx.CategoryID); ok {
			path = cat.Path
		}
		if _, ok := history[key]; !ok {
			historyOrder = append(historyOrder, key)
		}
		history[key] = append(history[key], catEntry{name: tx.CategoryName, path: path})
	}

	groups := make(map[string][]model.Transaction)
	var order []string
	for _, tx := range uncategorized {
		key := merchant.Key(tx.Name)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], tx)
	}

	suggestions := make([]Suggestion, 0, len(order))
	for _, key := range order {
		txs := groups[key]

		suggestedCat, suggestedPath, confidence := matchHistory(key, history, historyOrder)

		pattern := derivePattern(key, txs)

		existingCat, existingRule := checkExistingRules(strings.Trim(pattern, `"`), categories)

		var total decimal.Decimal
		for _, tx := range txs {
			total = total.Add(tx.Amount)
		}

		s := Suggestion{
			Pattern:           pattern,
			SuggestedCategory: suggestedCat,
			CategoryPath:      suggestedPath,
			MatchCount:        len(txs),
			TotalAmount:       total,
			Confidence:        confidence,
			ExistingRule:      existingRule,
			ExistingCategory:  existingCat,
			Samples:           sampleTransactions(txs),
		}
		if s.SuggestedCategory == "" {
			s.SuggestedCategory = ManualAssignment
			s.Confidence = Low
		}
		suggestions = append(suggestions, s)
	}

	sortSuggestions(suggestions)
	return suggestions
}

// matchHistory looks the merchant key up in the categorized history:
// exact match first, shared-prefix scan second.
func matchHistory(
	key string,
	history map[string][]catEntry,
	historyOrder []string,
) (category, path string, confidence Confidence) {
	if entries, ok := history[key]; ok {
		name, count := mostCommonEntry(entries)
		confidence = Medium
		if count >= 3 {
			confidence = High
		}
		return name, pathOf(entries, name), confidence
	}

	for _, histKey := range historyOrder {
		if !sharedPrefix(key, histKey) {
			continue
		}
		entries := history[histKey]
		name, count := mostCommonEntry(entries)
		confidence = Low
		if count >= 2 {
			confidence = Medium
		}
		return name, pathOf(entries, name), confidence
	}

	return "", "", Low
}

// sharedPrefix reports whether two keys agree on their first
// prefixWindow characters, requiring at least minPrefixLen of overlap.
func sharedPrefix(a, b string) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n < minPrefixLen {
		return false
	}
	if n > prefixWindow {
		n = prefixWindow
	}
	return a[:n] == b[:n]
}

// mostCommonEntry returns the most frequent category name among the
// entries and its count, the first-seen name winning ties.
func mostCommonEntry(entries []catEntry) (string, int) {
	counts := make(map[string]int)
	var order []string
	for _, e := range entries {
		if _, ok := counts[e.name]; !ok {
			order = append(order, e.name)
		}
		counts[e.name]++
	}
	best := ""
	bestCount := 0
	for _, name := range order {
		if counts[name] > bestCount {
			best = name
			bestCount = counts[name]
		}
	}
	return best, bestCount
}

func pathOf(entries []catEntry, name string) string {
	for _, e := range entries {
		if e.name == name {
			return e.path
		}
	}
	return ""
}

// derivePattern builds the human-readable match pattern: a title-cased
// envelope pattern for card-network keys, otherwise the longest common
// prefix across the group's raw names, falling back to the first
// transaction's full name when no common prefix longer than three
// characters exists.
func derivePattern(key string, txs []model.Transaction) string {
	if rest, ok := strings.CutPrefix(key, merchant.EnvelopePrefix); ok {
		return `"PayPal *` + titleCaser.String(rest) + `"`
	}

	firstName := strings.TrimSpace(txs[0].Name)
	if len(txs) == 1 {
		return `"` + firstName + `"`
	}

	names := make([]string, len(txs))
	for i, tx := range txs {
		names[i] = strings.TrimSpace(tx.Name)
	}

	prefix := []rune(names[0])
	for _, name := range names[1:] {
		lower := strings.ToLower(name)
		for len(prefix) > 3 && !strings.HasPrefix(lower, strings.ToLower(string(prefix))) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	if len(prefix) > 3 {
		return `"` + strings.TrimSpace(string(prefix)) + `"`
	}
	return `"` + firstName + `"`
}

// checkExistingRules scans every category's raw rule text for a
// case-insensitive occurrence of the pattern.
func checkExistingRules(pattern string, categories []model.Category) (catName, ruleText string) {
	needle := strings.ToLower(pattern)
	for _, cat := range categories {
		if cat.Rules == "" {
			continue
		}
		if strings.Contains(strings.ToLower(cat.Rules), needle) {
			return cat.Name, cat.Rules
		}
	}
	return "", ""
}

// sampleTransactions keeps up to three example bookings, purposes
// truncated to 60 characters.
func sampleTransactions(txs []model.Transaction) []SampleTransaction {
	n := len(txs)
	if n > 3 {
		n = 3
	}
	samples := make([]SampleTransaction, 0, n)
	for _, tx := range txs[:n] {
		purpose := tx.Purpose
		if runes := []rune(purpose); len(runes) > 60 {
			purpose = string(runes[:60])
		}
		samples = append(samples, SampleTransaction{
			Date:    tx.BookingDate,
			Name:    tx.Name,
			Amount:  tx.Amount,
			Purpose: purpose,
		})
	}
	return samples
}

var confidenceOrder = map[Confidence]int{High: 0, Medium: 1, Low: 2}

// sortSuggestions orders by confidence, then match count descending,
// then total amount ascending.
func sortSuggestions(suggestions []Suggestion) {
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		ca, cb := confidenceOrder[a.Confidence], confidenceOrder[b.Confidence]
		if ca != cb {
			return ca < cb
		}
		if a.MatchCount != b.MatchCount {
			return a.MatchCount > b.MatchCount
		}
		return a.TotalAmount.LessThan(b.TotalAmount)
	})
}
