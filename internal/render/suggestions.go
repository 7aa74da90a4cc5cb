package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/avollmer/moneylens/internal/rules"
)

// Suggestions writes proposed categorization rules grouped by
// confidence, with sample bookings under each pattern.
func Suggestions(w io.Writer, f Format, suggestions []rules.Suggestion) error {
	switch f {
	case JSON:
		return writeJSON(w, suggestions)
	case CSV:
		rows := make([][]string, 0, len(suggestions))
		for _, s := range suggestions {
			rows = append(rows, []string{
				s.Pattern, s.SuggestedCategory, s.CategoryPath,
				string(s.Confidence), strconv.Itoa(s.MatchCount),
				money(s.TotalAmount), s.ExistingCategory,
			})
		}
		return writeCSV(w, []string{
			"pattern", "suggested_category", "category_path",
			"confidence", "matches", "total", "existing_category",
		}, rows)
	}

	if len(suggestions) == 0 {
		fmt.Fprintln(w, "No uncategorized transactions found.")
		return nil
	}

	prevConfidence := rules.Confidence("")
	for _, s := range suggestions {
		if s.Confidence != prevConfidence {
			prevConfidence = s.Confidence
			fmt.Fprintf(w, "\n%s\n", bold(confidenceHeading(s.Confidence)))
		}

		fmt.Fprintf(w, "  %s -> %s  (%d transactions, %s total)\n",
			s.Pattern, s.SuggestedCategory, s.MatchCount, money(s.TotalAmount))
		if s.CategoryPath != "" && s.CategoryPath != s.SuggestedCategory {
			fmt.Fprintf(w, "    path: %s\n", s.CategoryPath)
		}
		if s.ExistingCategory != "" {
			fmt.Fprintf(w, "    note: a rule on %q may already cover this pattern\n", s.ExistingCategory)
		}
		for _, sample := range s.Samples {
			fmt.Fprintf(w, "    %s  %s  %s\n",
				sample.Date, clip(sample.Name, 40), signedMoney(sample.Amount))
		}
	}
	return nil
}

func confidenceHeading(c rules.Confidence) string {
	switch c {
	case rules.High:
		return "High confidence"
	case rules.Medium:
		return "Medium confidence"
	default:
		return "Low confidence / manual review"
	}
}
