// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package metadata implements per-boundary (bank, account_last4,
// closing_date) extraction, with a model-assisted path and a
// deterministic pattern-based fallback.
package metadata

import (
	"regexp"
	"strings"
)

const (
	SentinelBank = "unknown"
	SentinelLast4 = "0000"
	SentinelDate  = "unknown-date"
)

// Metadata is the per-boundary descriptor.
type Metadata struct {
	Bank         string
	AccountLast4 string
	ClosingDate  string
	Confidence   float64
	Notes        string
}

var accountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:account|card)\s*(?:number|no\.?)?\s*[:]\s*(\d[\d\s]{8,})`),
	regexp.MustCompile(`(?i)account\s*[:]\s*(\d+(?:\s+\d+)*)`),
	regexp.MustCompile(`(?i)card\s*number\s*[:]\s*(\d+(?:\s+\d+)*)`),
}

var periodRangeRe = regexp.MustCompile(`(?i)statement\s+period[:\s]+.*?(\d{1,2}\s+[A-Za-z]{3}\s+\d{4})\s*(?:to|–|-)\s*(\d{1,2}\s+[A-Za-z]{3}\s+\d{4})`)

var isoDateRe = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
var localeDateRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
var monthNameDateRe = regexp.MustCompile(`(?i)\b(\d{1,2})\s+([A-Za-z]{3,9})\s+(\d{4})\b`)

var monthIndex = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// KnownBankSet builds the lowercase known-bank lookup set from the
// configured bank list.
func KnownBankSet(banks []string) map[string]bool {
	set := make(map[string]bool, len(banks))
	for _, b := range banks {
		set[strings.ToLower(b)] = true
	}
	return set
}

// ExtractPattern applies the deterministic bank/account/date patterns to
// a boundary's text and normalizes the result.
func ExtractPattern(text string, knownBanks map[string]bool) Metadata {
	bank := extractBank(text, knownBanks)
	last4 := extractAccountLast4(text)
	date := extractClosingDate(text)

	notes := ""
	if bank == SentinelBank {
		notes += "bank not found; "
	}
	if last4 == SentinelLast4 {
		notes += "account number not found; "
	}
	if date == SentinelDate {
		notes += "closing date not found; "
	}

	return Metadata{
		Bank:         bank,
		AccountLast4: last4,
		ClosingDate:  date,
		Confidence:   0.6,
		Notes:        strings.TrimSuffix(notes, "; "),
	}
}

// Normalize applies the bank/account/date normalization rules to model-provided raw values.
func Normalize(bankRaw, accountRaw, dateRaw string) Metadata {
	bank := normalizeBank(bankRaw)
	last4 := lastFourDigits(accountRaw)
	date := normalizeDate(dateRaw)
	return Metadata{Bank: bank, AccountLast4: last4, ClosingDate: date}
}

func extractBank(text string, knownBanks map[string]bool) string {
	lower := strings.ToLower(text)
	bestOffset := -1
	bestBank := ""
	for bank := range knownBanks {
		if idx := strings.Index(lower, bank); idx >= 0 {
			if bestOffset == -1 || idx < bestOffset {
				bestOffset = idx
				bestBank = bank
			}
		}
	}
	if bestBank == "" {
		return SentinelBank
	}
	return normalizeBank(bestBank)
}

func extractAccountLast4(text string) string {
	type hit struct {
		offset int
		digits string
	}
	var hits []hit
	for _, re := range accountPatterns {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			raw := text[m[2]:m[3]]
			digits := onlyDigits(raw)
			if len(digits) < 8 {
				continue
			}
			hits = append(hits, hit{offset: m[0], digits: digits})
		}
	}
	if len(hits) == 0 {
		return SentinelLast4
	}
	// Choose the occurrence closest to the start of the range (offset 0).
	best := hits[0]
	for _, h := range hits[1:] {
		if h.offset < best.offset {
			best = h
		}
	}
	return lastFourDigits(best.digits)
}

func extractClosingDate(text string) string {
	if m := periodRangeRe.FindStringSubmatch(text); m != nil {
		if d, ok := parseMonthNameDate(m[2]); ok {
			return d
		}
		if d, ok := parseMonthNameDate(m[1]); ok {
			return d
		}
	}
	if m := isoDateRe.FindStringSubmatch(text); m != nil {
		return m[1] + "-" + m[2] + "-" + m[3]
	}
	if m := monthNameDateRe.FindStringSubmatch(text); m != nil {
		if d, ok := parseMonthNameDate(m[0]); ok {
			return d
		}
	}
	if m := localeDateRe.FindStringSubmatch(text); m != nil {
		return normalizeLocaleDate(m[1], m[2], m[3])
	}
	return SentinelDate
}

func parseMonthNameDate(s string) (string, bool) {
	m := monthNameDateRe.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	day := m[1]
	if len(day) == 1 {
		day = "0" + day
	}
	mon, ok := monthIndex[strings.ToLower(m[2][:3])]
	if !ok {
		return "", false
	}
	return m[3] + "-" + twoDigit(mon) + "-" + day, true
}

func normalizeLocaleDate(a, b, year string) string {
	// Ambiguous dd/mm vs mm/dd; treat the first field as day, matching
	// the bank-statement convention most of the known-bank set uses.
	d := a
	mo := b
	if len(d) == 1 {
		d = "0" + d
	}
	if len(mo) == 1 {
		mo = "0" + mo
	}
	return year + "-" + mo + "-" + d
}

func twoDigit(n int) string {
	if n < 10 {
		return "0" + string(rune('0'+n))
	}
	return string(rune('0'+n/10)) + string(rune('0'+n%10))
}

func normalizeBank(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(raw) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" {
		return SentinelBank
	}
	if len(out) > 10 {
		out = out[:10]
	}
	return out
}

func lastFourDigits(raw string) string {
	digits := onlyDigits(raw)
	if len(digits) < 4 {
		return SentinelLast4
	}
	return digits[len(digits)-4:]
}

func normalizeDate(raw string) string {
	if isoDateRe.MatchString(raw) {
		m := isoDateRe.FindStringSubmatch(raw)
		return m[1] + "-" + m[2] + "-" + m[3]
	}
	if d, ok := parseMonthNameDate(raw); ok {
		return d
	}
	if m := localeDateRe.FindStringSubmatch(raw); m != nil {
		return normalizeLocaleDate(m[1], m[2], m[3])
	}
	if raw == "" {
		return SentinelDate
	}
	return SentinelDate
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
