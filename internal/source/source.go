// Package source defines the boundary to the external ledger data:
// the engine only ever sees the Account/Category/Transaction snapshots
// a Source returns and never performs I/O itself.
package source

import (
	"context"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/avollmer/moneylens/internal/model"
)

// Filter narrows a transaction listing. Zero values mean "no filter";
// dates are inclusive and compared against the booking date.
type Filter struct {
	// AccountRef matches an account by ID, IBAN, account number or
	// display name (case-insensitive).
	AccountRef        string
	From              civil.Date
	To                civil.Date
	CategoryName      string
	OnlyUncategorized bool
}

// Source retrieves ledger snapshots from the external finance
// application or a mirror of its data.
type Source interface {
	Accounts(ctx context.Context) ([]model.Account, error)
	Categories(ctx context.Context) ([]model.Category, error)
	Transactions(ctx context.Context, filter Filter) ([]model.Transaction, error)
}

// MatchesAccount reports whether a transaction belongs to the account
// identified by ref within the given account snapshot.
func MatchesAccount(tx model.Transaction, ref string, accounts []model.Account) bool {
	if ref == "" {
		return true
	}
	if tx.AccountID == ref {
		return true
	}
	for _, acc := range accounts {
		if acc.ID != tx.AccountID {
			continue
		}
		return acc.IBAN == ref || acc.AccountNumber == ref || strings.EqualFold(acc.Name, ref)
	}
	return false
}

// InRange reports whether a booking date falls inside the filter's
// inclusive date range; unset bounds always match.
func InRange(d civil.Date, f Filter) bool {
	if f.From.IsValid() && d.Before(f.From) {
		return false
	}
	if f.To.IsValid() && f.To.Before(d) {
		return false
	}
	return true
}
