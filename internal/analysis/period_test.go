package analysis

import (
	"strings"
	"testing"

	"cloud.google.com/go/civil"
)

func TestResolvePeriod(t *testing.T) {
	tests := []struct {
		name      string
		period    string
		today     civil.Date
		wantStart civil.Date
		wantEnd   civil.Date
		wantLabel string
	}{
		{
			name:      "this month mid-month",
			period:    PeriodThisMonth,
			today:     civil.Date{Year: 2026, Month: 1, Day: 15},
			wantStart: civil.Date{Year: 2026, Month: 1, Day: 1},
			wantEnd:   civil.Date{Year: 2026, Month: 1, Day: 31},
			wantLabel: "January 2026",
		},
		{
			name:      "this month on the first",
			period:    PeriodThisMonth,
			today:     civil.Date{Year: 2026, Month: 2, Day: 1},
			wantStart: civil.Date{Year: 2026, Month: 2, Day: 1},
			wantEnd:   civil.Date{Year: 2026, Month: 2, Day: 28},
			wantLabel: "February 2026",
		},
		{
			name:      "last month across year boundary",
			period:    PeriodLastMonth,
			today:     civil.Date{Year: 2026, Month: 1, Day: 15},
			wantStart: civil.Date{Year: 2025, Month: 12, Day: 1},
			wantEnd:   civil.Date{Year: 2025, Month: 12, Day: 31},
			wantLabel: "December 2025",
		},
		{
			name:      "this quarter",
			period:    PeriodThisQuarter,
			today:     civil.Date{Year: 2026, Month: 8, Day: 31},
			wantStart: civil.Date{Year: 2026, Month: 7, Day: 1},
			wantEnd:   civil.Date{Year: 2026, Month: 9, Day: 30},
			wantLabel: "Q3 2026",
		},
		{
			name:      "last quarter across year boundary",
			period:    PeriodLastQuarter,
			today:     civil.Date{Year: 2026, Month: 1, Day: 15},
			wantStart: civil.Date{Year: 2025, Month: 10, Day: 1},
			wantEnd:   civil.Date{Year: 2025, Month: 12, Day: 31},
			wantLabel: "Q4 2025",
		},
		{
			name:      "this year",
			period:    PeriodThisYear,
			today:     civil.Date{Year: 2026, Month: 8, Day: 31},
			wantStart: civil.Date{Year: 2026, Month: 1, Day: 1},
			wantEnd:   civil.Date{Year: 2026, Month: 12, Day: 31},
			wantLabel: "2026",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePeriod(tt.period, tt.today)
			if err != nil {
				t.Fatalf("ResolvePeriod(%q) returned error: %v", tt.period, err)
			}
			if got.Start != tt.wantStart {
				t.Errorf("Start = %v, want %v", got.Start, tt.wantStart)
			}
			if got.End != tt.wantEnd {
				t.Errorf("End = %v, want %v", got.End, tt.wantEnd)
			}
			if got.Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", got.Label, tt.wantLabel)
			}
		})
	}
}

func TestResolvePeriod_Unknown(t *testing.T) {
	_, err := ResolvePeriod("next-week", civil.Date{Year: 2026, Month: 1, Day: 15})
	if err == nil {
		t.Fatal("Expected error for unknown period keyword")
	}
	if !strings.Contains(err.Error(), "next-week") {
		t.Errorf("Error should name the bad keyword, got: %v", err)
	}
}

func TestPreviousPeriod(t *testing.T) {
	tests := []struct {
		name      string
		start     civil.Date
		end       civil.Date
		wantStart civil.Date
		wantEnd   civil.Date
		wantLabel string
	}{
		{
			name:      "calendar month to shorter month",
			start:     civil.Date{Year: 2026, Month: 3, Day: 1},
			end:       civil.Date{Year: 2026, Month: 3, Day: 31},
			wantStart: civil.Date{Year: 2026, Month: 2, Day: 1},
			wantEnd:   civil.Date{Year: 2026, Month: 2, Day: 28},
			wantLabel: "February 2026",
		},
		{
			name:      "january to december",
			start:     civil.Date{Year: 2026, Month: 1, Day: 1},
			end:       civil.Date{Year: 2026, Month: 1, Day: 31},
			wantStart: civil.Date{Year: 2025, Month: 12, Day: 1},
			wantEnd:   civil.Date{Year: 2025, Month: 12, Day: 31},
			wantLabel: "December 2025",
		},
		{
			name:      "arbitrary range shifts by its length",
			start:     civil.Date{Year: 2026, Month: 3, Day: 11},
			end:       civil.Date{Year: 2026, Month: 3, Day: 20},
			wantStart: civil.Date{Year: 2026, Month: 3, Day: 1},
			wantEnd:   civil.Date{Year: 2026, Month: 3, Day: 10},
			wantLabel: "2026-03-01 - 2026-03-10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PreviousPeriod(tt.start, tt.end)
			if got.Start != tt.wantStart {
				t.Errorf("Start = %v, want %v", got.Start, tt.wantStart)
			}
			if got.End != tt.wantEnd {
				t.Errorf("End = %v, want %v", got.End, tt.wantEnd)
			}
			if got.Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", got.Label, tt.wantLabel)
			}
		})
	}
}
