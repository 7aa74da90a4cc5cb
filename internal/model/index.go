package model

import "strings"

// CategoryIndex is a read-only lookup table over a category snapshot.
// Build it once per invocation and pass it to the computation steps
// instead of rebuilding ad hoc maps inside each of them.
type CategoryIndex struct {
	byID   map[string]Category
	byName map[string]Category
}

// NewCategoryIndex indexes categories by ID and, for leaf categories,
// by name. When two leaves share a name the later one wins, matching
// the snapshot's encounter order.
func NewCategoryIndex(categories []Category) *CategoryIndex {
	idx := &CategoryIndex{
		byID:   make(map[string]Category, len(categories)),
		byName: make(map[string]Category),
	}
	for _, cat := range categories {
		idx.byID[cat.ID] = cat
		if !cat.Group {
			idx.byName[cat.Name] = cat
		}
	}
	return idx
}

// ByID returns the category with the given ID.
func (idx *CategoryIndex) ByID(id string) (Category, bool) {
	cat, ok := idx.byID[id]
	return cat, ok
}

// ByName returns the leaf category with the given name.
func (idx *CategoryIndex) ByName(name string) (Category, bool) {
	cat, ok := idx.byName[name]
	return cat, ok
}

// AccountIndex is a read-only lookup table over an account snapshot.
type AccountIndex struct {
	accounts    []Account
	ownNumbers  map[string]struct{}
	numberGroup map[string]string
	idGroup     map[string]string
}

// NewAccountIndex indexes accounts by their IBAN and account-number
// identifiers and records each one's group label, lower-cased.
func NewAccountIndex(accounts []Account) *AccountIndex {
	idx := &AccountIndex{
		accounts:    accounts,
		ownNumbers:  make(map[string]struct{}),
		numberGroup: make(map[string]string),
		idGroup:     make(map[string]string, len(accounts)),
	}
	for _, acc := range accounts {
		group := strings.ToLower(acc.Group)
		idx.idGroup[acc.ID] = group
		if acc.IBAN != "" {
			idx.ownNumbers[acc.IBAN] = struct{}{}
			idx.numberGroup[acc.IBAN] = group
		}
		if acc.AccountNumber != "" {
			idx.ownNumbers[acc.AccountNumber] = struct{}{}
			idx.numberGroup[acc.AccountNumber] = group
		}
	}
	return idx
}

// IsOwn reports whether the given IBAN or account number belongs to
// one of the user's own accounts.
func (idx *AccountIndex) IsOwn(number string) bool {
	if number == "" {
		return false
	}
	_, ok := idx.ownNumbers[number]
	return ok
}

// GroupOfNumber returns the lower-cased group label of the account
// holding the given IBAN or account number, or "" if unknown.
func (idx *AccountIndex) GroupOfNumber(number string) string {
	return idx.numberGroup[number]
}

// GroupOfAccount returns the lower-cased group label of the account
// with the given ID, or "" if unknown.
func (idx *AccountIndex) GroupOfAccount(accountID string) string {
	return idx.idGroup[accountID]
}
