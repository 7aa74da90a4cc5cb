package analysis

import (
	"strings"

	"github.com/avollmer/moneylens/internal/model"
)

// DefaultTransferRoot is the top-level category group that holds
// internal-transfer categories ("Umbuchungen" in a stock German
// MoneyMoney setup). Overridable through user configuration.
const DefaultTransferRoot = "Umbuchungen"

// TransferCategoryIDs returns the IDs of every category whose path
// starts with the internal-transfer root label. Transactions booked
// into these categories move money between own accounts and would
// distort spending and cashflow views.
func TransferCategoryIDs(categories []model.Category, root string) map[string]struct{} {
	ids := make(map[string]struct{})
	if root == "" {
		return ids
	}
	for _, cat := range categories {
		if cat.Path != "" && strings.HasPrefix(cat.Path, root) {
			ids[cat.ID] = struct{}{}
		}
	}
	return ids
}

// FilterTransfers drops internal transfers and keeps external
// activity. Two signals are combined:
//
//  1. IBAN-based (takes priority when accounts are supplied): a
//     counterparty IBAN matching one of the user's own accounts marks
//     an own-account movement. When activeGroups are supplied, a
//     movement between accounts in *different* groups is kept as real
//     cashflow (salary from a business group into a personal group);
//     same-group movements, or movements with no active-group filter,
//     are dropped.
//  2. Category fallback: a category in transferIDs marks a transfer.
//
// Transactions matching neither signal are always kept.
func FilterTransfers(
	transactions []model.Transaction,
	transferIDs map[string]struct{},
	accounts []model.Account,
	activeGroups []string,
) []model.Transaction {
	var idx *model.AccountIndex
	var groupsActive bool
	if accounts != nil {
		idx = model.NewAccountIndex(accounts)
		groupsActive = len(activeGroups) > 0
	}

	var result []model.Transaction
	for _, tx := range transactions {
		if idx != nil && tx.CounterpartyIBAN != "" && idx.IsOwn(tx.CounterpartyIBAN) {
			if groupsActive {
				txGroup := idx.GroupOfAccount(tx.AccountID)
				counterpartyGroup := idx.GroupOfNumber(tx.CounterpartyIBAN)
				if txGroup != counterpartyGroup {
					result = append(result, tx)
				}
			}
			continue
		}

		if _, ok := transferIDs[tx.CategoryID]; ok && tx.CategoryID != "" {
			continue
		}

		result = append(result, tx)
	}
	return result
}

// ExtractTransfers is the complement of FilterTransfers: it keeps only
// internal transfers, using the same two signals but without the
// cross-group exception. Called with no active-group filter, the two
// functions partition the input with no overlap.
func ExtractTransfers(
	transactions []model.Transaction,
	transferIDs map[string]struct{},
	accounts []model.Account,
) []model.Transaction {
	var idx *model.AccountIndex
	if accounts != nil {
		idx = model.NewAccountIndex(accounts)
	}

	var result []model.Transaction
	for _, tx := range transactions {
		if idx != nil && tx.CounterpartyIBAN != "" && idx.IsOwn(tx.CounterpartyIBAN) {
			result = append(result, tx)
			continue
		}
		if _, ok := transferIDs[tx.CategoryID]; ok && tx.CategoryID != "" {
			result = append(result, tx)
		}
	}
	return result
}
