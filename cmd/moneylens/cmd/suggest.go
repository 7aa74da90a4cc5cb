package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/avollmer/moneylens/internal/assist"
	"github.com/avollmer/moneylens/internal/model"
	"github.com/avollmer/moneylens/internal/render"
	"github.com/avollmer/moneylens/internal/rules"
	"github.com/avollmer/moneylens/internal/source"
)

var (
	suggestFrom    string
	suggestTo      string
	suggestHistory int
	suggestAssist  bool
)

// suggestRulesCmd proposes categorization rules for uncategorized
// transactions.
var suggestRulesCmd = &cobra.Command{
	Use:   "suggest-rules",
	Short: "Suggest categorization rules for uncategorized transactions",
	Long: `Group uncategorized transactions by merchant and match each group
against your categorized history. The history window reaches back
--history months before the earliest uncategorized booking. With
--assist, groups that history cannot resolve are sent to Gemini
together with your category taxonomy.

Example:
  moneylens suggest-rules
  moneylens suggest-rules --assist --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		period, err := resolveRange("", suggestFrom, suggestTo, "")
		if err != nil {
			return err
		}

		l, err := fetchLedger(cmd.Context(), rangeFilter(period, ""))
		if err != nil {
			return err
		}

		txs := dropTransfers(l, l.transactions, nil)

		var uncategorized []model.Transaction
		for _, tx := range txs {
			if tx.CategoryID == "" {
				uncategorized = append(uncategorized, tx)
			}
		}
		if len(uncategorized) == 0 {
			return render.Suggestions(os.Stdout, outFormat, nil)
		}

		hl, err := fetchLedger(cmd.Context(), source.Filter{
			From: historyStart(uncategorized, suggestHistory),
			To:   period.End,
		})
		if err != nil {
			return err
		}

		var categorized []model.Transaction
		for _, tx := range dropTransfers(hl, hl.transactions, nil) {
			if tx.CategoryID != "" {
				categorized = append(categorized, tx)
			}
		}

		suggestions := rules.Suggest(uncategorized, categorized, l.categories)

		if suggestAssist {
			if err := assist.AnnotateSuggestions(cmd.Context(), cfg.Assist.Model, suggestions, l.categories); err != nil {
				log.Warn().Err(err).Msg("assist unavailable, keeping manual assignments")
			}
		}

		return render.Suggestions(os.Stdout, outFormat, suggestions)
	},
}

func init() {
	suggestRulesCmd.Flags().StringVar(&suggestFrom, "from", "", "start date for the uncategorized scan (YYYY-MM-DD)")
	suggestRulesCmd.Flags().StringVar(&suggestTo, "to", "", "end date for the uncategorized scan (YYYY-MM-DD)")
	suggestRulesCmd.Flags().IntVar(&suggestHistory, "history", 6, "months of categorized history to match against")
	suggestRulesCmd.Flags().BoolVar(&suggestAssist, "assist", false, "ask Gemini to categorize unresolved groups")
}
