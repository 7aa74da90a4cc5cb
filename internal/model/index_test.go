package model

import "testing"

func TestCategoryIndex(t *testing.T) {
	categories := []Category{
		{ID: "c1", Name: "Haushalt", Group: true},
		{ID: "c2", Name: "Lebensmittel", ParentID: "c1"},
		{ID: "c3", Name: "Lebensmittel", ParentID: "c4"},
	}
	idx := NewCategoryIndex(categories)

	if cat, ok := idx.ByID("c2"); !ok || cat.ParentID != "c1" {
		t.Errorf("ByID(c2) = %+v, %v", cat, ok)
	}
	if _, ok := idx.ByID("missing"); ok {
		t.Error("ByID must miss unknown IDs")
	}

	// Group nodes never resolve by name; duplicate leaf names resolve
	// to the later snapshot entry.
	if _, ok := idx.ByName("Haushalt"); ok {
		t.Error("Group categories must not be indexed by name")
	}
	if cat, ok := idx.ByName("Lebensmittel"); !ok || cat.ID != "c3" {
		t.Errorf("ByName(Lebensmittel) = %+v, want the later leaf", cat)
	}
}

func TestAccountIndex(t *testing.T) {
	accounts := []Account{
		{ID: "a1", Name: "Checking", IBAN: "DE11", AccountNumber: "111", Group: "Personal"},
		{ID: "a2", Name: "Business", IBAN: "DE22", Group: "BUSINESS"},
	}
	idx := NewAccountIndex(accounts)

	if !idx.IsOwn("DE11") || !idx.IsOwn("111") || !idx.IsOwn("DE22") {
		t.Error("Expected all own identifiers to be recognized")
	}
	if idx.IsOwn("DE99") {
		t.Error("Unknown IBAN must not count as own")
	}
	if idx.IsOwn("") {
		t.Error("Empty identifier must not count as own")
	}

	if got := idx.GroupOfNumber("DE22"); got != "business" {
		t.Errorf("GroupOfNumber(DE22) = %q, want lower-cased group", got)
	}
	if got := idx.GroupOfAccount("a1"); got != "personal" {
		t.Errorf("GroupOfAccount(a1) = %q, want personal", got)
	}
	if got := idx.GroupOfAccount("missing"); got != "" {
		t.Errorf("GroupOfAccount(missing) = %q, want empty", got)
	}
}
