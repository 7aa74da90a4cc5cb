package source

import (
	"testing"

	"cloud.google.com/go/civil"

	"github.com/avollmer/moneylens/internal/model"
)

func TestMatchesAccount(t *testing.T) {
	accounts := []model.Account{
		{ID: "a1", Name: "Joint Checking", IBAN: "DE11", AccountNumber: "111"},
	}
	tx := model.Transaction{AccountID: "a1"}

	tests := []struct {
		name string
		ref  string
		want bool
	}{
		{"empty ref matches everything", "", true},
		{"by account ID", "a1", true},
		{"by IBAN", "DE11", true},
		{"by account number", "111", true},
		{"by name, case-insensitive", "joint checking", true},
		{"unknown ref", "DE99", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesAccount(tx, tt.ref, accounts); got != tt.want {
				t.Errorf("MatchesAccount(%q) = %v, want %v", tt.ref, got, tt.want)
			}
		})
	}

	orphan := model.Transaction{AccountID: "gone"}
	if MatchesAccount(orphan, "DE11", accounts) {
		t.Error("Transaction of an unknown account must not match by IBAN")
	}
}

func TestInRange(t *testing.T) {
	d := civil.Date{Year: 2026, Month: 1, Day: 15}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"no bounds", Filter{}, true},
		{"inside range", Filter{
			From: civil.Date{Year: 2026, Month: 1, Day: 1},
			To:   civil.Date{Year: 2026, Month: 1, Day: 31},
		}, true},
		{"on the bounds", Filter{
			From: civil.Date{Year: 2026, Month: 1, Day: 15},
			To:   civil.Date{Year: 2026, Month: 1, Day: 15},
		}, true},
		{"before from", Filter{From: civil.Date{Year: 2026, Month: 2, Day: 1}}, false},
		{"after to", Filter{To: civil.Date{Year: 2026, Month: 1, Day: 14}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InRange(d, tt.filter); got != tt.want {
				t.Errorf("InRange = %v, want %v", got, tt.want)
			}
		})
	}
}
