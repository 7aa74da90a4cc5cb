package analysis

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/avollmer/moneylens/internal/model"
)

func testAccounts() []model.Account {
	return []model.Account{
		{ID: "a1", Name: "Checking", IBAN: "DE11", Group: "Personal"},
		{ID: "a2", Name: "Savings", IBAN: "DE22", Group: "Personal"},
		{ID: "a3", Name: "Business Checking", IBAN: "DE33", Group: "Business"},
	}
}

func testTransferCategories() []model.Category {
	return []model.Category{
		{ID: "c-root", Name: "Umbuchungen", Group: true, Path: "Umbuchungen"},
		{ID: "c-save", Name: "Sparen", Path: "Umbuchungen/Sparen", ParentID: "c-root"},
		{ID: "c-food", Name: "Lebensmittel", Path: "Lebensmittel"},
	}
}

func TestTransferCategoryIDs(t *testing.T) {
	ids := TransferCategoryIDs(testTransferCategories(), DefaultTransferRoot)

	if _, ok := ids["c-root"]; !ok {
		t.Error("Expected transfer root category in the ID set")
	}
	if _, ok := ids["c-save"]; !ok {
		t.Error("Expected transfer child category in the ID set")
	}
	if _, ok := ids["c-food"]; ok {
		t.Error("Expected external category outside the ID set")
	}

	if got := TransferCategoryIDs(testTransferCategories(), ""); len(got) != 0 {
		t.Errorf("Empty root should disable category matching, got %d IDs", len(got))
	}
}

func TestFilterTransfers(t *testing.T) {
	accounts := testAccounts()
	transferIDs := TransferCategoryIDs(testTransferCategories(), DefaultTransferRoot)

	txs := []model.Transaction{
		{ID: "t1", AccountID: "a1", Name: "REWE", Amount: decimal.NewFromFloat(-54.30)},
		{ID: "t2", AccountID: "a1", Name: "Own transfer", CounterpartyIBAN: "DE22", Amount: decimal.NewFromInt(-500)},
		{ID: "t3", AccountID: "a2", Name: "Sparplan", CategoryID: "c-save", CategoryName: "Sparen", Amount: decimal.NewFromInt(500)},
		{ID: "t4", AccountID: "a1", Name: "Salary", CounterpartyIBAN: "DE33", Amount: decimal.NewFromInt(3000)},
		{ID: "t5", AccountID: "a1", Name: "Unknown IBAN", CounterpartyIBAN: "DE99", Amount: decimal.NewFromInt(-20)},
	}

	t.Run("no group filter", func(t *testing.T) {
		got := FilterTransfers(txs, transferIDs, accounts, nil)
		assertTxIDs(t, got, []string{"t1", "t5"})
	})

	t.Run("cross-group movement kept when groups active", func(t *testing.T) {
		got := FilterTransfers(txs, transferIDs, accounts, []string{"Personal"})
		assertTxIDs(t, got, []string{"t1", "t4", "t5"})
	})

	t.Run("no accounts falls back to category signal only", func(t *testing.T) {
		got := FilterTransfers(txs, transferIDs, nil, nil)
		assertTxIDs(t, got, []string{"t1", "t2", "t4", "t5"})
	})
}

func TestFilterExtractPartition(t *testing.T) {
	accounts := testAccounts()
	transferIDs := TransferCategoryIDs(testTransferCategories(), DefaultTransferRoot)

	txs := []model.Transaction{
		{ID: "t1", AccountID: "a1", Name: "REWE", BookingDate: civil.Date{Year: 2026, Month: 1, Day: 3}},
		{ID: "t2", AccountID: "a1", Name: "Own transfer", CounterpartyIBAN: "DE22"},
		{ID: "t3", AccountID: "a2", Name: "Sparplan", CategoryID: "c-save"},
		{ID: "t4", AccountID: "a1", Name: "Rent", CategoryID: "c-food"},
	}

	kept := FilterTransfers(txs, transferIDs, accounts, nil)
	extracted := ExtractTransfers(txs, transferIDs, accounts)

	if len(kept)+len(extracted) != len(txs) {
		t.Fatalf("Partition lost transactions: %d kept + %d extracted != %d",
			len(kept), len(extracted), len(txs))
	}
	seen := make(map[string]bool)
	for _, tx := range kept {
		seen[tx.ID] = true
	}
	for _, tx := range extracted {
		if seen[tx.ID] {
			t.Errorf("Transaction %s appears in both partitions", tx.ID)
		}
	}
}

func assertTxIDs(t *testing.T, got []model.Transaction, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Got %d transactions, want %d", len(got), len(want))
	}
	for i, tx := range got {
		if tx.ID != want[i] {
			t.Errorf("Transaction %d = %s, want %s", i, tx.ID, want[i])
		}
	}
}
