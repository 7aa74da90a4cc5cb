package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/avollmer/moneylens/internal/analysis"
)

// Spending writes the per-category spending report. compareLabel is
// empty unless a comparison period was requested.
func Spending(w io.Writer, f Format, periodLabel, compareLabel string, entries []analysis.SpendingEntry) error {
	switch f {
	case JSON:
		return writeJSON(w, entries)
	case CSV:
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{
				e.CategoryPath, string(e.CategoryType), money(e.Actual),
				nullMoney(e.Budget), nullMoney(e.Remaining), nullMoney(e.PercentUsed),
				strconv.Itoa(e.TransactionCount),
				nullMoney(e.CompareActual), nullMoney(e.CompareChange),
			})
		}
		return writeCSV(w, []string{
			"category", "type", "actual", "budget", "remaining",
			"percent_used", "transactions", "compare_actual", "compare_change_pct",
		}, rows)
	}

	fmt.Fprintf(w, "Spending by category, %s\n\n", bold(periodLabel))

	tw := newTable(w)
	header := bold("CATEGORY") + "\tTYPE\tACTUAL\tBUDGET\tREMAINING\tUSED\tTX"
	if compareLabel != "" {
		header += "\tVS " + strings.ToUpper(compareLabel)
	}
	fmt.Fprintln(tw, header)

	for _, e := range entries {
		used := nullMoney(e.PercentUsed)
		if used != "" {
			used += "%"
		}
		line := fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%s\t%d",
			e.CategoryPath, e.CategoryType, signedMoney(e.Actual),
			nullMoney(e.Budget), nullMoney(e.Remaining), used, e.TransactionCount)
		if compareLabel != "" {
			change := nullMoney(e.CompareChange)
			if change != "" {
				change += "%"
			}
			line += "\t" + change
		}
		fmt.Fprintln(tw, line)
	}
	return tw.Flush()
}

// Cashflow writes the income versus expenses series.
func Cashflow(w io.Writer, f Format, periods []analysis.CashflowPeriod) error {
	switch f {
	case JSON:
		return writeJSON(w, periods)
	case CSV:
		rows := make([][]string, 0, len(periods))
		for _, p := range periods {
			rows = append(rows, []string{
				p.Label, money(p.Income), money(p.Expenses), money(p.Net),
				strconv.Itoa(p.TransactionCount),
			})
		}
		return writeCSV(w, []string{"period", "income", "expenses", "net", "transactions"}, rows)
	}

	tw := newTable(w)
	fmt.Fprintln(tw, bold("PERIOD")+"\tINCOME\tEXPENSES\tNET\tTX")
	for _, p := range periods {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
			p.Label, green(money(p.Income)), red(money(p.Expenses)),
			signedMoney(p.Net), p.TransactionCount)
	}
	return tw.Flush()
}

// Recurring writes detected subscriptions and standing orders.
func Recurring(w io.Writer, f Format, payments []analysis.RecurringPayment) error {
	switch f {
	case JSON:
		return writeJSON(w, payments)
	case CSV:
		rows := make([][]string, 0, len(payments))
		for _, p := range payments {
			rows = append(rows, []string{
				p.MerchantName, p.CategoryName, p.Frequency, money(p.AvgAmount),
				strconv.Itoa(p.OccurrenceCount), money(p.TotalAnnualCost),
				p.LastDate.String(), money(p.AmountVariance),
			})
		}
		return writeCSV(w, []string{
			"merchant", "category", "frequency", "avg_amount",
			"occurrences", "annual_cost", "last_date", "variance",
		}, rows)
	}

	tw := newTable(w)
	fmt.Fprintln(tw, bold("MERCHANT")+"\tCATEGORY\tFREQ\tAVG\tCOUNT\tANNUAL\tLAST SEEN")
	for _, p := range payments {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			clip(p.MerchantName, 40), p.CategoryName, p.Frequency,
			signedMoney(p.AvgAmount), p.OccurrenceCount,
			money(p.TotalAnnualCost), p.LastDate)
	}
	return tw.Flush()
}

// Merchants writes the merchant or customer summary. Customer output
// carries the percent-of-income column.
func Merchants(w io.Writer, f Format, summaries []analysis.MerchantSummary) error {
	switch f {
	case JSON:
		return writeJSON(w, summaries)
	case CSV:
		rows := make([][]string, 0, len(summaries))
		for _, m := range summaries {
			rows = append(rows, []string{
				m.MerchantName, strconv.Itoa(m.TransactionCount),
				money(m.TotalAmount), money(m.AvgAmount),
				strings.Join(m.Categories, "; "),
				m.FirstDate.String(), m.LastDate.String(), nullMoney(m.PctOfTotal),
			})
		}
		return writeCSV(w, []string{
			"merchant", "transactions", "total", "avg",
			"categories", "first_date", "last_date", "pct_of_total",
		}, rows)
	}

	withPct := false
	for _, m := range summaries {
		if m.PctOfTotal.Valid {
			withPct = true
			break
		}
	}

	tw := newTable(w)
	header := bold("MERCHANT") + "\tTX\tTOTAL\tAVG\tCATEGORIES\tFIRST\tLAST"
	if withPct {
		header += "\tSHARE"
	}
	fmt.Fprintln(tw, header)
	for _, m := range summaries {
		line := fmt.Sprintf("%s\t%d\t%s\t%s\t%s\t%s\t%s",
			clip(m.MerchantName, 40), m.TransactionCount,
			signedMoney(m.TotalAmount), money(m.AvgAmount),
			clip(strings.Join(m.Categories, ", "), 40), m.FirstDate, m.LastDate)
		if withPct {
			pct := nullMoney(m.PctOfTotal)
			if pct != "" {
				pct += "%"
			}
			line += "\t" + pct
		}
		fmt.Fprintln(tw, line)
	}
	return tw.Flush()
}

// BalanceHistory writes reconstructed month-end balances per account in
// chronological order.
func BalanceHistory(w io.Writer, f Format, snapshots []analysis.BalanceSnapshot) error {
	switch f {
	case JSON:
		return writeJSON(w, snapshots)
	case CSV:
		rows := make([][]string, 0, len(snapshots))
		for _, s := range snapshots {
			rows = append(rows, []string{
				s.AccountName, s.PeriodLabel, money(s.Balance), money(s.Change),
			})
		}
		return writeCSV(w, []string{"account", "period", "balance", "change"}, rows)
	}

	tw := newTable(w)
	fmt.Fprintln(tw, bold("ACCOUNT")+"\tPERIOD\tBALANCE\tCHANGE")
	prevAccount := ""
	for _, s := range snapshots {
		name := s.AccountName
		if name == prevAccount {
			name = ""
		} else {
			prevAccount = s.AccountName
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			name, s.PeriodLabel, money(s.Balance), signedMoney(s.Change))
	}
	return tw.Flush()
}

// CategoryUsage writes how often each category received transactions.
func CategoryUsage(w io.Writer, f Format, usage []analysis.CategoryUsage) error {
	switch f {
	case JSON:
		return writeJSON(w, usage)
	case CSV:
		rows := make([][]string, 0, len(usage))
		for _, u := range usage {
			rows = append(rows, []string{
				u.CategoryName, string(u.CategoryType),
				strconv.Itoa(u.TransactionCount), money(u.TotalAmount),
			})
		}
		return writeCSV(w, []string{"category", "type", "transactions", "total"}, rows)
	}

	tw := newTable(w)
	fmt.Fprintln(tw, bold("CATEGORY")+"\tTYPE\tTX\tTOTAL")
	for _, u := range usage {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n",
			u.CategoryName, u.CategoryType, u.TransactionCount, signedMoney(u.TotalAmount))
	}
	return tw.Flush()
}
