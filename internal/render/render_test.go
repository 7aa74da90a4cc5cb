package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"github.com/avollmer/moneylens/internal/analysis"
	"github.com/avollmer/moneylens/internal/model"
)

func init() {
	color.NoColor = true
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"table", Table, false},
		{"json", JSON, false},
		{"csv", CSV, false},
		{"", Table, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAccountsTable(t *testing.T) {
	buf := &bytes.Buffer{}
	accounts := []model.Account{
		{Name: "Checking", Type: model.AccountChecking, Group: "Personal",
			BankName: "Testbank", Currency: "EUR", Balance: decimal.NewFromFloat(1250.75)},
	}

	if err := Accounts(buf, Table, accounts); err != nil {
		t.Fatalf("Accounts returned error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Checking", "Testbank", "1250.75"} {
		if !strings.Contains(out, want) {
			t.Errorf("Table output missing %q:\n%s", want, out)
		}
	}
}

func TestCashflowJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	periods := []analysis.CashflowPeriod{
		{Label: "2026-01", Income: decimal.NewFromInt(3000),
			Expenses: decimal.NewFromInt(-100), Net: decimal.NewFromInt(2900), TransactionCount: 2},
	}

	if err := Cashflow(buf, JSON, periods); err != nil {
		t.Fatalf("Cashflow returned error: %v", err)
	}

	var decoded []analysis.CashflowPeriod
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("JSON output does not round-trip: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Label != "2026-01" {
		t.Errorf("Decoded %+v", decoded)
	}
}

func TestTransactionsCSV(t *testing.T) {
	buf := &bytes.Buffer{}
	txs := []model.Transaction{
		{BookingDate: civil.Date{Year: 2026, Month: 1, Day: 3}, AccountName: "Checking",
			Name: "REWE", Currency: "EUR", Amount: decimal.NewFromFloat(-54.30)},
	}

	if err := Transactions(buf, CSV, txs); err != nil {
		t.Fatalf("Transactions returned error: %v", err)
	}

	records, err := csv.NewReader(buf).ReadAll()
	if err != nil {
		t.Fatalf("CSV output does not parse: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Got %d CSV rows, want header plus one", len(records))
	}
	if records[0][0] != "date" {
		t.Errorf("Header = %v", records[0])
	}
	row := records[1]
	if row[0] != "2026-01-03" || row[2] != "REWE" || row[6] != "-54.30" {
		t.Errorf("Row = %v", row)
	}
	if row[4] != model.Uncategorized {
		t.Errorf("Category column = %q, want %q", row[4], model.Uncategorized)
	}
}

func TestSuggestionsTable_Empty(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := Suggestions(buf, Table, nil); err != nil {
		t.Fatalf("Suggestions returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "No uncategorized transactions") {
		t.Errorf("Empty output = %q", buf.String())
	}
}
