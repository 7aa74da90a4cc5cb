// Package merchant derives stable grouping keys from raw payee names.
// Bank feeds decorate payees with card-terminal locations, transaction
// codes and country suffixes that vary between bookings of the same
// merchant; the key collapses that noise so that recurring detection,
// merchant summaries and rule suggestions group correctly.
//
// The key is produced by a fixed pipeline of normalization steps, each
// one a small deterministic rule of its own:
//
//	normalize      -> trim and case-fold
//	envelopeKey    -> "PayPal *Merchant 123" -> "paypal:merchant"
//	trimLocation   -> "Sehne.Backwaren.Fil./Holzgerlingen" -> "sehne.backwaren.fil."
//	dropTrailCodes -> "amazon.de ql0te44a5 lux luxembourg" -> "amazon.de"
package merchant

import (
	"strings"
	"unicode"
)

// EnvelopePrefix marks keys extracted from a card-network envelope.
const EnvelopePrefix = "paypal:"

// Country and city tokens that trail card payee names; hitting one
// ends the merchant part of the name.
var locationStopwords = map[string]struct{}{
	"lux":        {},
	"luxembourg": {},
	"deu":        {},
	"che":        {},
	"esp":        {},
	"gbr":        {},
}

// Key returns the grouping key for a raw payee name.
func Key(name string) string {
	normalized := normalize(name)

	if strings.HasPrefix(normalized, EnvelopePrefix) {
		return normalized
	}

	normalized = trimLocation(normalized)
	return dropTrailCodes(normalized)
}

// normalize trims and lower-cases the name and resolves the PayPal
// envelope: "PayPal *Spotify 4029357733" becomes "paypal:spotify". If
// nothing usable remains after the marker, the whole lowered name is
// returned unchanged.
func normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))

	if strings.HasPrefix(name, "paypal *") || strings.HasPrefix(name, "paypal*") {
		_, rest, _ := strings.Cut(name, "*")
		tokens := strings.Fields(strings.TrimSpace(rest))
		var clean []string
		for _, tok := range tokens {
			if allDigits(tok) || mostlyDigits(tok) {
				break
			}
			clean = append(clean, tok)
		}
		if len(clean) == 0 {
			return name
		}
		return EnvelopePrefix + strings.Join(clean, " ")
	}

	return name
}

// trimLocation cuts the card-terminal location suffix: everything from
// the first path separator on is dropped.
func trimLocation(name string) string {
	if before, _, found := strings.Cut(name, "/"); found {
		return strings.TrimSpace(before)
	}
	return name
}

// dropTrailCodes scans space-separated tokens after the first one and
// drops everything from the first token that looks like a transaction
// code (5+ chars mixing letters and digits) or a location stopword.
func dropTrailCodes(name string) string {
	tokens := strings.Fields(name)
	if len(tokens) <= 1 {
		return name
	}

	clean := tokens[:1]
	for _, tok := range tokens[1:] {
		if isShortCode(tok) {
			break
		}
		if _, stop := locationStopwords[tok]; stop {
			break
		}
		clean = append(clean, tok)
	}
	return strings.Join(clean, " ")
}

// isShortCode reports whether a token looks like a bank-generated
// code: at least five characters mixing letters and digits.
func isShortCode(tok string) bool {
	runes := []rune(tok)
	if len(runes) < 5 {
		return false
	}
	var hasDigit, hasLetter bool
	for _, r := range runes {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLetter(r):
			hasLetter = true
		}
	}
	return hasDigit && hasLetter
}

func allDigits(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// mostlyDigits reports whether a token of three or more characters is
// more than half digits, the shape of trailing card references.
func mostlyDigits(tok string) bool {
	runes := []rune(tok)
	if len(runes) < 3 {
		return false
	}
	digits := 0
	for _, r := range runes {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return float64(digits) > float64(len(runes))/2
}
