package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/avollmer/moneylens/internal/analysis"
	"github.com/avollmer/moneylens/internal/config"
	"github.com/avollmer/moneylens/internal/model"
	"github.com/avollmer/moneylens/internal/source"
	"github.com/avollmer/moneylens/internal/source/bigquery"
	"github.com/avollmer/moneylens/internal/source/snapshot"
)

func today() civil.Date {
	return civil.DateOf(time.Now())
}

// openSource builds the configured data backend. The returned closer is
// never nil.
func openSource(ctx context.Context) (source.Source, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Source.Type {
	case config.SourceSnapshot:
		if cfg.Source.Snapshot == "" {
			return nil, noop, fmt.Errorf("no snapshot configured: set source.snapshot in the config or pass --snapshot")
		}
		snap, err := snapshot.Load(ctx, cfg.Source.Snapshot)
		if err != nil {
			return nil, noop, err
		}
		return snap, noop, nil

	case config.SourceBigQuery:
		if cfg.Source.Project == "" || cfg.Source.Dataset == "" {
			return nil, noop, fmt.Errorf("bigquery source needs source.project and source.dataset in the config")
		}
		src, err := bigquery.New(ctx, cfg.Source.Project, cfg.Source.Dataset)
		if err != nil {
			return nil, noop, err
		}
		return src, src.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown source type %q: use snapshot or bigquery", cfg.Source.Type)
	}
}

// ledger is everything a command needs from one source round trip.
type ledger struct {
	accounts     []model.Account
	categories   []model.Category
	transactions []model.Transaction
}

// fetchLedger loads accounts, categories and filtered transactions,
// with the configured excluded groups already removed.
func fetchLedger(ctx context.Context, filter source.Filter) (*ledger, error) {
	src, closeSource, err := openSource(ctx)
	if err != nil {
		return nil, err
	}
	defer closeSource()

	accounts, err := src.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := src.Categories(ctx)
	if err != nil {
		return nil, err
	}
	txs, err := src.Transactions(ctx, filter)
	if err != nil {
		return nil, err
	}

	accounts, txs = dropExcludedGroups(accounts, txs)
	log.Debug().
		Int("accounts", len(accounts)).
		Int("categories", len(categories)).
		Int("transactions", len(txs)).
		Msg("loaded ledger")

	return &ledger{accounts: accounts, categories: categories, transactions: txs}, nil
}

// dropExcludedGroups removes accounts in config excluded_groups and
// their transactions.
func dropExcludedGroups(accounts []model.Account, txs []model.Transaction) ([]model.Account, []model.Transaction) {
	if len(cfg.ExcludedGroups) == 0 {
		return accounts, txs
	}

	excluded := make(map[string]struct{}, len(cfg.ExcludedGroups))
	for _, g := range cfg.ExcludedGroups {
		excluded[strings.ToLower(g)] = struct{}{}
	}

	var kept []model.Account
	keptIDs := make(map[string]struct{})
	for _, a := range accounts {
		if _, drop := excluded[strings.ToLower(a.Group)]; drop {
			continue
		}
		kept = append(kept, a)
		keptIDs[a.ID] = struct{}{}
	}

	var keptTxs []model.Transaction
	for _, tx := range txs {
		if _, ok := keptIDs[tx.AccountID]; ok {
			keptTxs = append(keptTxs, tx)
		}
	}
	return kept, keptTxs
}

// filterGroups keeps only transactions of accounts in the requested
// groups, compared case-insensitively. No groups means no filtering.
func filterGroups(accounts []model.Account, txs []model.Transaction, groups []string) []model.Transaction {
	if len(groups) == 0 {
		return txs
	}

	wanted := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		wanted[strings.ToLower(g)] = struct{}{}
	}

	allowed := make(map[string]struct{})
	for _, a := range accounts {
		if _, ok := wanted[strings.ToLower(a.Group)]; ok {
			allowed[a.ID] = struct{}{}
		}
	}

	var result []model.Transaction
	for _, tx := range txs {
		if _, ok := allowed[tx.AccountID]; ok {
			result = append(result, tx)
		}
	}
	return result
}

// dropTransfers removes internal transfers, honoring the cross-group
// exception when group filtering is active.
func dropTransfers(l *ledger, txs []model.Transaction, activeGroups []string) []model.Transaction {
	transferIDs := analysis.TransferCategoryIDs(l.categories, cfg.TransferRoot())
	return analysis.FilterTransfers(txs, transferIDs, l.accounts, activeGroups)
}

// resolveRange turns the --period / --from / --to flags into a Period.
// Explicit dates win over the period keyword; defaultPeriod applies
// when neither is given and may be empty for an unbounded range.
func resolveRange(periodStr, fromStr, toStr, defaultPeriod string) (analysis.Period, error) {
	if fromStr != "" || toStr != "" {
		var p analysis.Period
		var err error
		if fromStr != "" {
			if p.Start, err = civil.ParseDate(fromStr); err != nil {
				return analysis.Period{}, fmt.Errorf("invalid --from date %q: %w", fromStr, err)
			}
		}
		if toStr != "" {
			if p.End, err = civil.ParseDate(toStr); err != nil {
				return analysis.Period{}, fmt.Errorf("invalid --to date %q: %w", toStr, err)
			}
		}
		switch {
		case fromStr != "" && toStr != "":
			p.Label = fmt.Sprintf("%s - %s", p.Start, p.End)
		case fromStr != "":
			p.Label = fmt.Sprintf("since %s", p.Start)
		default:
			p.Label = fmt.Sprintf("until %s", p.End)
		}
		return p, nil
	}

	if periodStr == "" {
		periodStr = defaultPeriod
	}
	if periodStr == "" {
		return analysis.Period{Label: "all time"}, nil
	}
	return analysis.ResolvePeriod(periodStr, today())
}

// historyStart is the lower bound of the categorized-history window:
// months of 30 days before the earliest booking in txs. txs must not
// be empty.
func historyStart(txs []model.Transaction, months int) civil.Date {
	earliest := txs[0].BookingDate
	for _, tx := range txs[1:] {
		if tx.BookingDate.Before(earliest) {
			earliest = tx.BookingDate
		}
	}
	return earliest.AddDays(-months * 30)
}

// rangeFilter builds a transaction filter from a resolved period.
func rangeFilter(p analysis.Period, accountRef string) source.Filter {
	return source.Filter{AccountRef: accountRef, From: p.Start, To: p.End}
}
