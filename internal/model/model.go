// Package model defines the ledger entities consumed by the analysis
// engine. All values are immutable snapshots fetched fresh from the
// finance application on every invocation; nothing here is persisted.
package model

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// AccountType classifies an account.
type AccountType string

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountCreditCard AccountType = "credit card"
	AccountCash       AccountType = "cash"
	AccountInvestment AccountType = "investment"
	AccountLoan       AccountType = "loan"
	AccountOther      AccountType = "other"
)

// CategoryType classifies a category.
type CategoryType string

const (
	CategoryIncome   CategoryType = "income"
	CategoryExpense  CategoryType = "expense"
	CategoryTransfer CategoryType = "transfer"
)

// Account is one account in the user's ledger snapshot.
type Account struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	AccountNumber string          `json:"account_number"`
	BankName      string          `json:"bank_name"`
	IBAN          string          `json:"iban"`
	Currency      string          `json:"currency"`
	Balance       decimal.Decimal `json:"balance"`
	Type          AccountType     `json:"account_type"`
	// Group is the user-defined section the account sits in. Free
	// text; always compared case-insensitively.
	Group     string `json:"group"`
	Portfolio bool   `json:"portfolio"`
}

// Category is one node of the category tree. Path is the names of all
// ancestors plus the category itself, root first, joined with "/".
type Category struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Type        CategoryType `json:"category_type"`
	ParentID    string       `json:"parent_id,omitempty"`
	ParentName  string       `json:"parent_name,omitempty"`
	Indentation int          `json:"indentation"`
	// Group marks folder nodes that only structure the tree and never
	// receive transactions directly.
	Group           bool                `json:"group"`
	Path            string              `json:"path"`
	Budget          decimal.NullDecimal `json:"budget,omitempty"`
	BudgetPeriod    string              `json:"budget_period,omitempty"`
	BudgetAvailable decimal.NullDecimal `json:"budget_available,omitempty"`
	// Rules is the raw auto-categorization rule text configured in the
	// finance application, if any.
	Rules string `json:"rules,omitempty"`
}

// Transaction is one booked or pending ledger entry. Amount is signed:
// positive for money in, negative for money out.
type Transaction struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"account_id"`
	AccountName string          `json:"account_name,omitempty"`
	BookingDate civil.Date      `json:"booking_date"`
	ValueDate   civil.Date      `json:"value_date"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	// Name is the raw payee / counterparty display string as delivered
	// by the bank, including card-terminal and location noise.
	Name         string `json:"name"`
	Purpose      string `json:"purpose"`
	CategoryID   string `json:"category_id,omitempty"`
	CategoryName string `json:"category_name,omitempty"`
	Checkmark    bool   `json:"checkmark"`
	Comment      string `json:"comment,omitempty"`
	Booked       bool   `json:"booked"`
	// CounterpartyIBAN is the other side's IBAN or account number,
	// empty when the bank did not deliver one.
	CounterpartyIBAN string `json:"counterparty_iban,omitempty"`
}

// Uncategorized is the bucket label used wherever a transaction has no
// resolved category.
const Uncategorized = "(Uncategorized)"

// PathSeparator joins category names into a Category.Path.
const PathSeparator = "/"
