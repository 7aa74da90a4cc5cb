// Package analysis derives reports from ledger snapshots: period
// resolution, transfer classification, spending and cashflow
// aggregation, recurring-payment detection, merchant summaries and
// balance history. Every function is pure: inputs are read-only
// snapshots, "today" is always an explicit parameter, and the same
// inputs always produce the same records.
package analysis

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Period is a resolved inclusive date range with a display label.
type Period struct {
	Start civil.Date
	End   civil.Date
	Label string
}

// Period keywords accepted by ResolvePeriod.
const (
	PeriodThisMonth   = "this-month"
	PeriodLastMonth   = "last-month"
	PeriodThisQuarter = "this-quarter"
	PeriodLastQuarter = "last-quarter"
	PeriodThisYear    = "this-year"
)

// ResolvePeriod converts a named period into a concrete date range.
// Quarters are fixed calendar blocks (Q1 = Jan-Mar). An unknown
// keyword is the engine's only user-facing error.
func ResolvePeriod(name string, today civil.Date) (Period, error) {
	switch name {
	case PeriodThisMonth:
		start := firstOfMonth(today)
		return Period{Start: start, End: endOfMonth(today), Label: monthLabel(start)}, nil

	case PeriodLastMonth:
		end := firstOfMonth(today).AddDays(-1)
		start := firstOfMonth(end)
		return Period{Start: start, End: end, Label: monthLabel(start)}, nil

	case PeriodThisQuarter:
		q := (int(today.Month) - 1) / 3
		return quarterPeriod(today.Year, q), nil

	case PeriodLastQuarter:
		q := (int(today.Month) - 1) / 3
		if q == 0 {
			return quarterPeriod(today.Year-1, 3), nil
		}
		return quarterPeriod(today.Year, q-1), nil

	case PeriodThisYear:
		return Period{
			Start: civil.Date{Year: today.Year, Month: 1, Day: 1},
			End:   civil.Date{Year: today.Year, Month: 12, Day: 31},
			Label: fmt.Sprintf("%d", today.Year),
		}, nil
	}

	return Period{}, fmt.Errorf(
		"unknown period %q: use %s, %s, %s, %s, %s",
		name, PeriodThisMonth, PeriodLastMonth, PeriodThisQuarter, PeriodLastQuarter, PeriodThisYear,
	)
}

// PreviousPeriod returns the period immediately before [start, end].
// A range that starts on the first of a month and spans 27-31 days is
// treated as a calendar month and the previous full month is returned;
// anything else shifts back by its exact day count.
func PreviousPeriod(start, end civil.Date) Period {
	duration := end.DaysSince(start)

	if start.Day == 1 && duration >= 27 && duration <= 31 {
		var prevStart civil.Date
		if start.Month == 1 {
			prevStart = civil.Date{Year: start.Year - 1, Month: 12, Day: 1}
		} else {
			prevStart = civil.Date{Year: start.Year, Month: start.Month - 1, Day: 1}
		}
		return Period{Start: prevStart, End: start.AddDays(-1), Label: monthLabel(prevStart)}
	}

	prevEnd := start.AddDays(-1)
	prevStart := prevEnd.AddDays(-duration)
	return Period{
		Start: prevStart,
		End:   prevEnd,
		Label: fmt.Sprintf("%s - %s", prevStart, prevEnd),
	}
}

func quarterPeriod(year, q int) Period {
	start := civil.Date{Year: year, Month: time.Month(q*3 + 1), Day: 1}
	end := endOfMonth(civil.Date{Year: year, Month: time.Month(q*3 + 3), Day: 1})
	return Period{Start: start, End: end, Label: fmt.Sprintf("Q%d %d", q+1, year)}
}

func firstOfMonth(d civil.Date) civil.Date {
	return civil.Date{Year: d.Year, Month: d.Month, Day: 1}
}

func endOfMonth(d civil.Date) civil.Date {
	if d.Month == 12 {
		return civil.Date{Year: d.Year, Month: 12, Day: 31}
	}
	next := civil.Date{Year: d.Year, Month: d.Month + 1, Day: 1}
	return next.AddDays(-1)
}

func monthLabel(d civil.Date) string {
	return fmt.Sprintf("%s %d", d.Month.String(), d.Year)
}
