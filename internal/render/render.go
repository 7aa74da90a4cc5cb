// Package render writes analysis results to a stream as an aligned
// text table, JSON or CSV.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
)

// Format selects the output encoding.
type Format string

const (
	Table Format = "table"
	JSON  Format = "json"
	CSV   Format = "csv"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case Table, JSON, CSV:
		return Format(s), nil
	case "":
		return Table, nil
	default:
		return "", fmt.Errorf("unknown output format %q: use table, json or csv", s)
	}
}

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

// money renders a decimal with two places.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// signedMoney renders a decimal with two places, green when positive
// and red when negative.
func signedMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	switch d.Sign() {
	case 1:
		return green(s)
	case -1:
		return red(s)
	}
	return s
}

// nullMoney renders an optional decimal, empty when unset.
func nullMoney(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("writeJSON: encoding: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writeCSV: writing header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writeCSV: writing row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writeCSV: flushing: %w", err)
	}
	return nil
}
