package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avollmer/moneylens/internal/analysis"
	"github.com/avollmer/moneylens/internal/render"
	"github.com/avollmer/moneylens/internal/source"
)

var (
	accountsActive bool
	accountsGroups []string
)

// dissolvedGroup holds closed accounts kept around for history.
const dissolvedGroup = "aufgelöst"

// accountsCmd lists accounts with balances.
var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List accounts and balances",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := fetchLedger(cmd.Context(), source.Filter{})
		if err != nil {
			return err
		}

		accounts := l.accounts
		if accountsActive {
			kept := accounts[:0]
			for _, acc := range accounts {
				if strings.ToLower(acc.Group) != dissolvedGroup {
					kept = append(kept, acc)
				}
			}
			accounts = kept
		}
		if len(accountsGroups) > 0 {
			want := make(map[string]bool, len(accountsGroups))
			for _, g := range accountsGroups {
				want[strings.ToLower(g)] = true
			}
			kept := accounts[:0]
			for _, acc := range accounts {
				if want[strings.ToLower(acc.Group)] {
					kept = append(kept, acc)
				}
			}
			accounts = kept
		}

		return render.Accounts(os.Stdout, outFormat, accounts)
	},
}

// categoriesCmd prints the category tree.
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the category tree with budgets and rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := fetchLedger(cmd.Context(), source.Filter{})
		if err != nil {
			return err
		}
		return render.Categories(os.Stdout, outFormat, l.categories)
	},
}

var (
	txAccount       string
	txPeriod        string
	txFrom          string
	txTo            string
	txCategory      string
	txUncategorized bool
)

// transactionsCmd lists bookings matching the filter flags.
var transactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "List transactions",
	Long: `List transactions, optionally filtered by account, date range,
category or missing categorization.

Example:
  moneylens transactions --period last-month
  moneylens transactions --account "Joint Checking" --uncategorized`,
	RunE: func(cmd *cobra.Command, args []string) error {
		period, err := resolveRange(txPeriod, txFrom, txTo, "")
		if err != nil {
			return err
		}

		filter := rangeFilter(period, txAccount)
		filter.CategoryName = txCategory
		filter.OnlyUncategorized = txUncategorized

		l, err := fetchLedger(cmd.Context(), filter)
		if err != nil {
			return err
		}
		return render.Transactions(os.Stdout, outFormat, l.transactions)
	},
}

var usageLimit int

// categoryUsageCmd shows which categories actually receive bookings.
var categoryUsageCmd = &cobra.Command{
	Use:   "category-usage",
	Short: "Show how often each category is used",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := fetchLedger(cmd.Context(), source.Filter{})
		if err != nil {
			return err
		}
		usage := analysis.ComputeCategoryUsage(l.transactions, l.categories, usageLimit)
		return render.CategoryUsage(os.Stdout, outFormat, usage)
	},
}

var (
	transfersPeriod string
	transfersFrom   string
	transfersTo     string
)

// transfersCmd lists internal transfers, the complement of every
// analysis view.
var transfersCmd = &cobra.Command{
	Use:   "transfers",
	Short: "List internal transfers between own accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		period, err := resolveRange(transfersPeriod, transfersFrom, transfersTo, "")
		if err != nil {
			return err
		}

		l, err := fetchLedger(cmd.Context(), rangeFilter(period, ""))
		if err != nil {
			return err
		}

		transferIDs := analysis.TransferCategoryIDs(l.categories, cfg.TransferRoot())
		transfers := analysis.ExtractTransfers(l.transactions, transferIDs, l.accounts)
		return render.Transactions(os.Stdout, outFormat, transfers)
	},
}

func init() {
	accountsCmd.Flags().BoolVar(&accountsActive, "active", false, "only active accounts, hiding the dissolved group")
	accountsCmd.Flags().StringSliceVarP(&accountsGroups, "group", "g", nil, "filter by account group (repeatable)")

	transactionsCmd.Flags().StringVar(&txAccount, "account", "", "account ID, IBAN, number or name")
	transactionsCmd.Flags().StringVar(&txPeriod, "period", "", "named period: this-month, last-month, this-quarter, last-quarter, this-year")
	transactionsCmd.Flags().StringVar(&txFrom, "from", "", "start date (YYYY-MM-DD)")
	transactionsCmd.Flags().StringVar(&txTo, "to", "", "end date (YYYY-MM-DD)")
	transactionsCmd.Flags().StringVar(&txCategory, "category", "", "filter by category name")
	transactionsCmd.Flags().BoolVar(&txUncategorized, "uncategorized", false, "only transactions without a category")

	categoryUsageCmd.Flags().IntVar(&usageLimit, "limit", 20, "limit output to the N most used categories")

	transfersCmd.Flags().StringVar(&transfersPeriod, "period", "", "named period")
	transfersCmd.Flags().StringVar(&transfersFrom, "from", "", "start date (YYYY-MM-DD)")
	transfersCmd.Flags().StringVar(&transfersTo, "to", "", "end date (YYYY-MM-DD)")
}
