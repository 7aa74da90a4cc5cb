// Package bigquery serves ledger snapshots mirrored into a BigQuery
// dataset through the source.Source interface. The schema follows the
// finance application's export: one table each for accounts,
// categories and transactions.
package bigquery

import (
	"math/big"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/avollmer/moneylens/internal/model"
)

// AccountRow mirrors the accounts table.
type AccountRow struct {
	AccountID     string              `bigquery:"account_id"`
	Name          string              `bigquery:"account_name"`
	AccountNumber bigquery.NullString `bigquery:"account_number"`
	BankName      bigquery.NullString `bigquery:"bank_name"`
	IBAN          bigquery.NullString `bigquery:"iban"`
	Currency      string              `bigquery:"currency"`
	Balance       *big.Rat            `bigquery:"balance"` // NUMERIC
	AccountType   bigquery.NullString `bigquery:"account_type"`
	GroupLabel    bigquery.NullString `bigquery:"group_label"`
	IsPortfolio   bigquery.NullBool   `bigquery:"is_portfolio"`
}

// CategoryRow mirrors the categories table.
type CategoryRow struct {
	CategoryID      string              `bigquery:"category_id"`
	Name            string              `bigquery:"category_name"`
	CategoryType    bigquery.NullString `bigquery:"category_type"`
	ParentID        bigquery.NullString `bigquery:"parent_category_id"`
	ParentName      bigquery.NullString `bigquery:"parent_category_name"`
	Depth           int64               `bigquery:"depth"`
	IsGroup         bigquery.NullBool   `bigquery:"is_group"`
	Path            string              `bigquery:"path"`
	Budget          *big.Rat            `bigquery:"budget"` // NULLABLE NUMERIC
	BudgetPeriod    bigquery.NullString `bigquery:"budget_period"`
	BudgetAvailable *big.Rat            `bigquery:"budget_available"` // NULLABLE NUMERIC
	Rules           bigquery.NullString `bigquery:"rules"`
}

// TransactionRow mirrors the transactions table.
type TransactionRow struct {
	TransactionID    string              `bigquery:"transaction_id"`
	AccountID        string              `bigquery:"account_id"`
	AccountName      bigquery.NullString `bigquery:"account_name"`
	BookingDate      civil.Date          `bigquery:"booking_date"`
	ValueDate        bigquery.NullDate   `bigquery:"value_date"`
	Amount           *big.Rat            `bigquery:"amount"` // REQUIRED NUMERIC
	Currency         string              `bigquery:"currency"`
	Payee            string              `bigquery:"payee"`
	Purpose          bigquery.NullString `bigquery:"purpose"`
	CategoryID       bigquery.NullString `bigquery:"category_id"`
	CategoryName     bigquery.NullString `bigquery:"category_name"`
	Checkmark        bigquery.NullBool   `bigquery:"checkmark"`
	Comment          bigquery.NullString `bigquery:"comment"`
	Booked           bigquery.NullBool   `bigquery:"booked"`
	CounterpartyIBAN bigquery.NullString `bigquery:"counterparty_iban"`
}

func (r *AccountRow) toModel() model.Account {
	acc := model.Account{
		ID:            r.AccountID,
		Name:          r.Name,
		AccountNumber: nullStr(r.AccountNumber),
		BankName:      nullStr(r.BankName),
		IBAN:          nullStr(r.IBAN),
		Currency:      r.Currency,
		Balance:       ratDecimal(r.Balance),
		Type:          model.AccountOther,
		Group:         nullStr(r.GroupLabel),
		Portfolio:     r.IsPortfolio.Valid && r.IsPortfolio.Bool,
	}
	if t := nullStr(r.AccountType); t != "" {
		acc.Type = model.AccountType(t)
	}
	return acc
}

func (r *CategoryRow) toModel() model.Category {
	cat := model.Category{
		ID:           r.CategoryID,
		Name:         r.Name,
		Type:         model.CategoryExpense,
		ParentID:     nullStr(r.ParentID),
		ParentName:   nullStr(r.ParentName),
		Indentation:  int(r.Depth),
		Group:        r.IsGroup.Valid && r.IsGroup.Bool,
		Path:         r.Path,
		BudgetPeriod: nullStr(r.BudgetPeriod),
		Rules:        nullStr(r.Rules),
	}
	if t := nullStr(r.CategoryType); t != "" {
		cat.Type = model.CategoryType(t)
	}
	if r.Budget != nil {
		cat.Budget = decimal.NullDecimal{Decimal: ratDecimal(r.Budget), Valid: true}
	}
	if r.BudgetAvailable != nil {
		cat.BudgetAvailable = decimal.NullDecimal{Decimal: ratDecimal(r.BudgetAvailable), Valid: true}
	}
	return cat
}

func (r *TransactionRow) toModel() model.Transaction {
	tx := model.Transaction{
		ID:               r.TransactionID,
		AccountID:        r.AccountID,
		AccountName:      nullStr(r.AccountName),
		BookingDate:      r.BookingDate,
		ValueDate:        r.BookingDate,
		Amount:           ratDecimal(r.Amount),
		Currency:         r.Currency,
		Name:             r.Payee,
		Purpose:          nullStr(r.Purpose),
		CategoryID:       nullStr(r.CategoryID),
		CategoryName:     nullStr(r.CategoryName),
		Checkmark:        r.Checkmark.Valid && r.Checkmark.Bool,
		Comment:          nullStr(r.Comment),
		Booked:           !r.Booked.Valid || r.Booked.Bool,
		CounterpartyIBAN: nullStr(r.CounterpartyIBAN),
	}
	if r.ValueDate.Valid {
		tx.ValueDate = r.ValueDate.Date
	}
	return tx
}

func nullStr(s bigquery.NullString) string {
	if s.Valid {
		return s.StringVal
	}
	return ""
}

// ratDecimal converts a BigQuery NUMERIC value to a two-place decimal.
func ratDecimal(r *big.Rat) decimal.Decimal {
	if r == nil {
		return decimal.Decimal{}
	}
	return decimal.NewFromBigRat(r, 2)
}
