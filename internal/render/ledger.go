package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/avollmer/moneylens/internal/model"
)

// Accounts writes the account list with balances.
func Accounts(w io.Writer, f Format, accounts []model.Account) error {
	switch f {
	case JSON:
		return writeJSON(w, accounts)
	case CSV:
		rows := make([][]string, 0, len(accounts))
		for _, a := range accounts {
			rows = append(rows, []string{
				a.Name, string(a.Type), a.Group, a.BankName, a.IBAN,
				a.Currency, money(a.Balance),
			})
		}
		return writeCSV(w, []string{"name", "type", "group", "bank", "iban", "currency", "balance"}, rows)
	}

	tw := newTable(w)
	fmt.Fprintln(tw, bold("ACCOUNT")+"\tTYPE\tGROUP\tBANK\tCURRENCY\tBALANCE")
	for _, a := range accounts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.Name, a.Type, a.Group, a.BankName, a.Currency, signedMoney(a.Balance))
	}
	return tw.Flush()
}

// Categories writes the category tree, indented by depth.
func Categories(w io.Writer, f Format, categories []model.Category) error {
	switch f {
	case JSON:
		return writeJSON(w, categories)
	case CSV:
		rows := make([][]string, 0, len(categories))
		for _, c := range categories {
			rows = append(rows, []string{
				c.Path, string(c.Type), strconv.FormatBool(c.Group),
				nullMoney(c.Budget), c.BudgetPeriod, c.Rules,
			})
		}
		return writeCSV(w, []string{"path", "type", "group", "budget", "budget_period", "rules"}, rows)
	}

	tw := newTable(w)
	fmt.Fprintln(tw, bold("CATEGORY")+"\tTYPE\tBUDGET\tRULES")
	for _, c := range categories {
		name := strings.Repeat("  ", c.Indentation) + c.Name
		if c.Group {
			name = bold(name)
		}
		budget := nullMoney(c.Budget)
		if budget != "" && c.BudgetPeriod != "" {
			budget += " / " + c.BudgetPeriod
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, c.Type, budget, c.Rules)
	}
	return tw.Flush()
}

// Transactions writes a transaction listing, one booking per line.
func Transactions(w io.Writer, f Format, txs []model.Transaction) error {
	switch f {
	case JSON:
		return writeJSON(w, txs)
	case CSV:
		rows := make([][]string, 0, len(txs))
		for _, tx := range txs {
			rows = append(rows, []string{
				tx.BookingDate.String(), tx.AccountName, tx.Name,
				tx.Purpose, categoryLabel(tx), tx.Currency, money(tx.Amount),
			})
		}
		return writeCSV(w, []string{"date", "account", "name", "purpose", "category", "currency", "amount"}, rows)
	}

	tw := newTable(w)
	fmt.Fprintln(tw, bold("DATE")+"\tACCOUNT\tNAME\tCATEGORY\tAMOUNT")
	for _, tx := range txs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			tx.BookingDate, tx.AccountName, clip(tx.Name, 40),
			categoryLabel(tx), signedMoney(tx.Amount))
	}
	return tw.Flush()
}

func categoryLabel(tx model.Transaction) string {
	if tx.CategoryName == "" {
		return model.Uncategorized
	}
	return tx.CategoryName
}

// clip truncates long display strings for table output.
func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
