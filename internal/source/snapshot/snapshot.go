// Package snapshot reads a JSON ledger export (accounts, categories,
// transactions) produced by the finance application, from a local file
// or a gs:// object, and serves it through the source.Source
// interface. Loading is lenient: missing record identifiers are
// synthesized and category paths are rebuilt from indentation levels
// when the export does not carry them.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/avollmer/moneylens/internal/model"
	"github.com/avollmer/moneylens/internal/source"
)

// Export is the on-disk shape of a ledger snapshot.
type Export struct {
	Accounts     []model.Account     `json:"accounts"`
	Categories   []model.Category    `json:"categories"`
	Transactions []model.Transaction `json:"transactions"`
}

// Snapshot is an in-memory ledger snapshot implementing source.Source.
type Snapshot struct {
	accounts     []model.Account
	categories   []model.Category
	transactions []model.Transaction
}

// Load reads a snapshot from ref, which is either a local file path or
// a "gs://bucket/object" URI.
func Load(ctx context.Context, ref string) (*Snapshot, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(ref, "gs://") {
		data, err = fetchGCS(ctx, ref)
	} else {
		data, err = os.ReadFile(ref)
	}
	if err != nil {
		return nil, fmt.Errorf("Load: reading snapshot %q: %w", ref, err)
	}
	return Parse(data)
}

// Parse decodes and normalizes a snapshot export.
func Parse(data []byte) (*Snapshot, error) {
	var export Export
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("Parse: decoding snapshot: %w", err)
	}

	for i := range export.Accounts {
		if export.Accounts[i].ID == "" {
			export.Accounts[i].ID = uuid.NewString()
		}
		if export.Accounts[i].Type == "" {
			export.Accounts[i].Type = model.AccountOther
		}
	}

	rebuildCategoryTree(export.Categories)

	for i := range export.Transactions {
		if export.Transactions[i].ID == "" {
			export.Transactions[i].ID = uuid.NewString()
		}
	}

	return &Snapshot{
		accounts:     export.Accounts,
		categories:   export.Categories,
		transactions: export.Transactions,
	}, nil
}

// rebuildCategoryTree fills parent links and paths from the flat
// indentation-ordered category list. Exports that already carry paths
// keep them.
func rebuildCategoryTree(categories []model.Category) {
	type node struct {
		id   string
		name string
	}
	var stack []node

	for i := range categories {
		cat := &categories[i]
		if cat.ID == "" {
			cat.ID = uuid.NewString()
		}
		if cat.Type == "" {
			cat.Type = model.CategoryExpense
		}

		depth := cat.Indentation
		if depth > len(stack) {
			depth = len(stack)
		}
		stack = stack[:depth]

		if len(stack) > 0 {
			parent := stack[len(stack)-1]
			if cat.ParentID == "" {
				cat.ParentID = parent.id
			}
			if cat.ParentName == "" {
				cat.ParentName = parent.name
			}
		}

		if cat.Path == "" {
			parts := make([]string, 0, len(stack)+1)
			for _, n := range stack {
				parts = append(parts, n.name)
			}
			parts = append(parts, cat.Name)
			cat.Path = strings.Join(parts, model.PathSeparator)
		}

		stack = append(stack, node{id: cat.ID, name: cat.Name})
	}
}

// Accounts returns the snapshot's accounts.
func (s *Snapshot) Accounts(ctx context.Context) ([]model.Account, error) {
	return s.accounts, nil
}

// Categories returns the snapshot's categories.
func (s *Snapshot) Categories(ctx context.Context) ([]model.Category, error) {
	return s.categories, nil
}

// Transactions returns the snapshot's transactions narrowed by the
// filter, in export order.
func (s *Snapshot) Transactions(ctx context.Context, filter source.Filter) ([]model.Transaction, error) {
	var result []model.Transaction
	for _, tx := range s.transactions {
		if !source.MatchesAccount(tx, filter.AccountRef, s.accounts) {
			continue
		}
		if !source.InRange(tx.BookingDate, filter) {
			continue
		}
		if filter.CategoryName != "" && !strings.EqualFold(tx.CategoryName, filter.CategoryName) {
			continue
		}
		if filter.OnlyUncategorized && tx.CategoryID != "" {
			continue
		}
		result = append(result, tx)
	}
	return result, nil
}
