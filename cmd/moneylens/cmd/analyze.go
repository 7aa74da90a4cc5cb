package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"

	"github.com/avollmer/moneylens/internal/analysis"
	"github.com/avollmer/moneylens/internal/model"
	"github.com/avollmer/moneylens/internal/render"
	"github.com/avollmer/moneylens/internal/source"
)

// analyzeCmd groups the analysis subcommands.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run analyses over the ledger",
	Long: `Run analyses over the ledger: spending per category, cashflow,
recurring payments, merchant and customer rankings and balance history.

Example:
  moneylens analyze spending --period last-month --compare previous
  moneylens analyze cashflow --months 12
  moneylens analyze recurring`,
}

var (
	spendingPeriod           string
	spendingFrom             string
	spendingTo               string
	spendingCompare          string
	spendingAccount          string
	spendingGroups           []string
	spendingType             string
	spendingIncludeTransfers bool
)

var spendingCmd = &cobra.Command{
	Use:   "spending",
	Short: "Spending per category with budgets",
	RunE: func(cmd *cobra.Command, args []string) error {
		period, err := resolveRange(spendingPeriod, spendingFrom, spendingTo, analysis.PeriodThisMonth)
		if err != nil {
			return err
		}

		l, err := fetchLedger(cmd.Context(), rangeFilter(period, spendingAccount))
		if err != nil {
			return err
		}

		txs := filterGroups(l.accounts, l.transactions, spendingGroups)
		if !spendingIncludeTransfers {
			txs = dropTransfers(l, txs, spendingGroups)
		}

		var compareTxs []model.Transaction
		compareLabel := ""
		if spendingCompare != "" {
			comparePeriod, err := resolveComparePeriod(spendingCompare, period)
			if err != nil {
				return err
			}
			compareLabel = comparePeriod.Label

			src, closeSource, err := openSource(cmd.Context())
			if err != nil {
				return err
			}
			defer closeSource()
			compareTxs, err = src.Transactions(cmd.Context(), rangeFilter(comparePeriod, spendingAccount))
			if err != nil {
				return err
			}
			_, compareTxs = dropExcludedGroups(l.accounts, compareTxs)
			compareTxs = filterGroups(l.accounts, compareTxs, spendingGroups)
			if !spendingIncludeTransfers {
				compareTxs = dropTransfers(l, compareTxs, spendingGroups)
			}
		}

		entries := analysis.ComputeSpending(txs, l.categories, compareTxs)
		entries, err = filterSpendingType(entries, spendingType)
		if err != nil {
			return err
		}
		return render.Spending(os.Stdout, outFormat, period.Label, compareLabel, entries)
	},
}

// resolveComparePeriod maps the --compare flag onto a period: the
// keyword "previous" shifts the main period back by its own length, any
// other value is a named period.
func resolveComparePeriod(value string, period analysis.Period) (analysis.Period, error) {
	if value == "previous" {
		return analysis.PreviousPeriod(period.Start, period.End), nil
	}
	return analysis.ResolvePeriod(value, today())
}

func filterSpendingType(entries []analysis.SpendingEntry, typeFlag string) ([]analysis.SpendingEntry, error) {
	switch typeFlag {
	case "":
		return entries, nil
	case "income", "expense":
	default:
		return nil, fmt.Errorf("unknown --type %q: use income or expense", typeFlag)
	}

	var filtered []analysis.SpendingEntry
	for _, e := range entries {
		if string(e.CategoryType) == typeFlag {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

var (
	cashflowMonths    int
	cashflowQuarterly bool
	cashflowGroups    []string
)

var cashflowCmd = &cobra.Command{
	Use:   "cashflow",
	Short: "Income versus expenses over time",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := fetchLedger(cmd.Context(), source.Filter{From: monthsBack(cashflowMonths)})
		if err != nil {
			return err
		}

		txs := filterGroups(l.accounts, l.transactions, cashflowGroups)
		txs = dropTransfers(l, txs, cashflowGroups)

		granularity := analysis.Monthly
		if cashflowQuarterly {
			granularity = analysis.Quarterly
		}
		periods := analysis.ComputeCashflow(txs, today(), cashflowMonths, granularity)
		return render.Cashflow(os.Stdout, outFormat, periods)
	},
}

var (
	recurringMonths           int
	recurringMin              int
	recurringGroups           []string
	recurringIncludeTransfers bool
)

var recurringCmd = &cobra.Command{
	Use:   "recurring",
	Short: "Detect recurring payments and subscriptions",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := fetchLedger(cmd.Context(), source.Filter{From: monthsBack(recurringMonths)})
		if err != nil {
			return err
		}

		txs := filterGroups(l.accounts, l.transactions, recurringGroups)
		if !recurringIncludeTransfers {
			txs = dropTransfers(l, txs, recurringGroups)
		}

		payments := analysis.DetectRecurring(txs, recurringMin)
		return render.Recurring(os.Stdout, outFormat, payments)
	},
}

var (
	merchantsPeriod           string
	merchantsFrom             string
	merchantsTo               string
	merchantsLimit            int
	merchantsType             string
	merchantsGroups           []string
	merchantsIncludeTransfers bool
)

var merchantsCmd = &cobra.Command{
	Use:   "merchants",
	Short: "Rank merchants by total volume",
	RunE: func(cmd *cobra.Command, args []string) error {
		period, err := resolveRange(merchantsPeriod, merchantsFrom, merchantsTo, "")
		if err != nil {
			return err
		}

		typeFilter := analysis.TypeFilter(merchantsType)
		switch typeFilter {
		case analysis.TypeAll, analysis.TypeIncome, analysis.TypeExpense:
		default:
			return fmt.Errorf("unknown --type %q: use income or expense", merchantsType)
		}

		l, err := fetchLedger(cmd.Context(), rangeFilter(period, ""))
		if err != nil {
			return err
		}

		txs := filterGroups(l.accounts, l.transactions, merchantsGroups)
		if !merchantsIncludeTransfers {
			txs = dropTransfers(l, txs, merchantsGroups)
		}
		summaries := analysis.ComputeMerchantSummary(txs, merchantsLimit, typeFilter)
		return render.Merchants(os.Stdout, outFormat, summaries)
	},
}

var (
	customersPeriod           string
	customersFrom             string
	customersTo               string
	customersLimit            int
	customersGroups           []string
	customersIncludeTransfers bool
)

var customersCmd = &cobra.Command{
	Use:   "customers",
	Short: "Rank income sources by share of total income",
	RunE: func(cmd *cobra.Command, args []string) error {
		period, err := resolveRange(customersPeriod, customersFrom, customersTo, "")
		if err != nil {
			return err
		}

		l, err := fetchLedger(cmd.Context(), rangeFilter(period, ""))
		if err != nil {
			return err
		}

		txs := filterGroups(l.accounts, l.transactions, customersGroups)
		if !customersIncludeTransfers {
			txs = dropTransfers(l, txs, customersGroups)
		}
		summaries := analysis.ComputeTopCustomers(txs, customersLimit)
		return render.Merchants(os.Stdout, outFormat, summaries)
	},
}

var (
	balanceMonths  int
	balanceAccount string
	balanceGroups  []string
)

var balanceHistoryCmd = &cobra.Command{
	Use:   "balance-history",
	Short: "Reconstruct month-end balances per account",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := fetchLedger(cmd.Context(), source.Filter{AccountRef: balanceAccount, From: monthsBack(balanceMonths)})
		if err != nil {
			return err
		}

		accounts := l.accounts
		if len(balanceGroups) > 0 {
			wanted := make(map[string]bool, len(balanceGroups))
			for _, g := range balanceGroups {
				wanted[strings.ToLower(g)] = true
			}
			var matched []model.Account
			for _, a := range accounts {
				if wanted[strings.ToLower(a.Group)] {
					matched = append(matched, a)
				}
			}
			accounts = matched
		}
		if balanceAccount != "" {
			var matched []model.Account
			for _, a := range accounts {
				if a.ID == balanceAccount || a.IBAN == balanceAccount ||
					a.AccountNumber == balanceAccount || strings.EqualFold(a.Name, balanceAccount) {
					matched = append(matched, a)
				}
			}
			accounts = matched
		}

		snapshots := analysis.ComputeBalanceHistory(accounts, l.transactions, today(), balanceMonths)
		return render.BalanceHistory(os.Stdout, outFormat, snapshots)
	},
}

// monthsBack returns the first day of the month n-1 months before the
// current one, so a 6 month window includes the current month.
func monthsBack(n int) civil.Date {
	if n <= 0 {
		return civil.Date{}
	}
	t := today().In(time.UTC).AddDate(0, -(n - 1), 0)
	d := civil.DateOf(t)
	d.Day = 1
	return d
}

func init() {
	spendingCmd.Flags().StringVar(&spendingPeriod, "period", "", "named period (default this-month)")
	spendingCmd.Flags().StringVar(&spendingFrom, "from", "", "start date (YYYY-MM-DD)")
	spendingCmd.Flags().StringVar(&spendingTo, "to", "", "end date (YYYY-MM-DD)")
	spendingCmd.Flags().StringVar(&spendingCompare, "compare", "", "comparison period: previous or a named period")
	spendingCmd.Flags().StringVar(&spendingAccount, "account", "", "restrict to one account")
	spendingCmd.Flags().StringSliceVar(&spendingGroups, "group", nil, "restrict to account groups")
	spendingCmd.Flags().StringVar(&spendingType, "type", "", "restrict to income or expense categories")
	spendingCmd.Flags().BoolVar(&spendingIncludeTransfers, "include-transfers", false, "keep internal transfers in the result")

	cashflowCmd.Flags().IntVar(&cashflowMonths, "months", 6, "number of months to cover")
	cashflowCmd.Flags().BoolVar(&cashflowQuarterly, "quarterly", false, "bucket by quarter instead of month")
	cashflowCmd.Flags().StringSliceVar(&cashflowGroups, "group", nil, "restrict to account groups")

	recurringCmd.Flags().IntVar(&recurringMonths, "months", 12, "lookback window in months")
	recurringCmd.Flags().IntVar(&recurringMin, "min-occurrences", 3, "minimum bookings per merchant")
	recurringCmd.Flags().StringSliceVar(&recurringGroups, "group", nil, "restrict to account groups")
	recurringCmd.Flags().BoolVar(&recurringIncludeTransfers, "include-transfers", false, "keep internal transfers in the result")

	merchantsCmd.Flags().StringVar(&merchantsPeriod, "period", "", "named period")
	merchantsCmd.Flags().StringVar(&merchantsFrom, "from", "", "start date (YYYY-MM-DD)")
	merchantsCmd.Flags().StringVar(&merchantsTo, "to", "", "end date (YYYY-MM-DD)")
	merchantsCmd.Flags().IntVar(&merchantsLimit, "limit", 20, "number of merchants to show")
	merchantsCmd.Flags().StringVar(&merchantsType, "type", "", "restrict to income or expense")
	merchantsCmd.Flags().StringSliceVar(&merchantsGroups, "group", nil, "restrict to account groups")
	merchantsCmd.Flags().BoolVar(&merchantsIncludeTransfers, "include-transfers", false, "keep internal transfers in the result")

	customersCmd.Flags().StringVar(&customersPeriod, "period", "", "named period")
	customersCmd.Flags().StringVar(&customersFrom, "from", "", "start date (YYYY-MM-DD)")
	customersCmd.Flags().StringVar(&customersTo, "to", "", "end date (YYYY-MM-DD)")
	customersCmd.Flags().IntVar(&customersLimit, "limit", 10, "number of customers to show")
	customersCmd.Flags().StringSliceVar(&customersGroups, "group", nil, "restrict to account groups")
	customersCmd.Flags().BoolVar(&customersIncludeTransfers, "include-transfers", false, "keep internal transfers in the result")

	balanceHistoryCmd.Flags().IntVar(&balanceMonths, "months", 12, "number of months to reconstruct")
	balanceHistoryCmd.Flags().StringVar(&balanceAccount, "account", "", "restrict to one account")
	balanceHistoryCmd.Flags().StringSliceVar(&balanceGroups, "group", nil, "restrict to account groups")

	analyzeCmd.AddCommand(spendingCmd)
	analyzeCmd.AddCommand(cashflowCmd)
	analyzeCmd.AddCommand(recurringCmd)
	analyzeCmd.AddCommand(merchantsCmd)
	analyzeCmd.AddCommand(customersCmd)
	analyzeCmd.AddCommand(balanceHistoryCmd)
}
