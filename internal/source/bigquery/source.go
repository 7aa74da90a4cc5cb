package bigquery

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/avollmer/moneylens/internal/model"
	"github.com/avollmer/moneylens/internal/source"
)

const (
	accountsTable     = "accounts"
	categoriesTable   = "categories"
	transactionsTable = "transactions"
)

// Source reads ledger data from a BigQuery dataset.
type Source struct {
	client  *bigquery.Client
	dataset string
}

// New opens a BigQuery-backed source for the given project and dataset.
// The caller owns the returned Source and must Close it.
func New(ctx context.Context, projectID, dataset string) (*Source, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("New: creating BigQuery client: %w", err)
	}
	return &Source{client: client, dataset: dataset}, nil
}

// Close releases the underlying client.
func (s *Source) Close() error {
	return s.client.Close()
}

func (s *Source) table(name string) string {
	return fmt.Sprintf("`%s.%s.%s`", s.client.Project(), s.dataset, name)
}

// Accounts returns all accounts in snapshot order.
func (s *Source) Accounts(ctx context.Context) ([]model.Account, error) {
	q := s.client.Query(fmt.Sprintf(
		"SELECT * FROM %s ORDER BY row_order", s.table(accountsTable)))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("Accounts: running query: %w", err)
	}

	var accounts []model.Account
	for {
		var row AccountRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("Accounts: iterating rows: %w", err)
		}
		accounts = append(accounts, row.toModel())
	}
	return accounts, nil
}

// Categories returns the category tree in snapshot order, which is the
// depth-first order the ledger application exports.
func (s *Source) Categories(ctx context.Context) ([]model.Category, error) {
	q := s.client.Query(fmt.Sprintf(
		"SELECT * FROM %s ORDER BY row_order", s.table(categoriesTable)))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("Categories: running query: %w", err)
	}

	var categories []model.Category
	for {
		var row CategoryRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("Categories: iterating rows: %w", err)
		}
		categories = append(categories, row.toModel())
	}
	return categories, nil
}

// Transactions returns booked transactions matching the filter, oldest
// booking date first.
func (s *Source) Transactions(ctx context.Context, f source.Filter) ([]model.Transaction, error) {
	var (
		where  []string
		params []bigquery.QueryParameter
	)

	if f.AccountRef != "" {
		ids, err := s.resolveAccountIDs(ctx, f.AccountRef)
		if err != nil {
			return nil, fmt.Errorf("Transactions: resolving account %q: %w", f.AccountRef, err)
		}
		where = append(where, "account_id IN UNNEST(@account_ids)")
		params = append(params, bigquery.QueryParameter{Name: "account_ids", Value: ids})
	}
	if f.From.IsValid() {
		where = append(where, "booking_date >= @from_date")
		params = append(params, bigquery.QueryParameter{Name: "from_date", Value: f.From})
	}
	if f.To.IsValid() {
		where = append(where, "booking_date <= @to_date")
		params = append(params, bigquery.QueryParameter{Name: "to_date", Value: f.To})
	}
	if f.CategoryName != "" {
		where = append(where, "LOWER(category_name) = LOWER(@category)")
		params = append(params, bigquery.QueryParameter{Name: "category", Value: f.CategoryName})
	}
	if f.OnlyUncategorized {
		where = append(where, "(category_id IS NULL OR category_id = '')")
	}

	sql := "SELECT * FROM " + s.table(transactionsTable)
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	sql += " ORDER BY booking_date, transaction_id"

	q := s.client.Query(sql)
	q.Parameters = params

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("Transactions: running query: %w", err)
	}

	var txs []model.Transaction
	for {
		var row TransactionRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("Transactions: iterating rows: %w", err)
		}
		txs = append(txs, row.toModel())
	}
	return txs, nil
}

// resolveAccountIDs maps an account reference (ID, IBAN, account number
// or case-insensitive name) onto matching account IDs. Unknown
// references resolve to no IDs, so the query returns nothing rather
// than everything.
func (s *Source) resolveAccountIDs(ctx context.Context, ref string) ([]string, error) {
	accounts, err := s.Accounts(ctx)
	if err != nil {
		return nil, err
	}

	ids := []string{}
	for _, acc := range accounts {
		if acc.ID == ref || acc.IBAN == ref || acc.AccountNumber == ref ||
			strings.EqualFold(acc.Name, ref) {
			ids = append(ids, acc.ID)
		}
	}
	return ids, nil
}
