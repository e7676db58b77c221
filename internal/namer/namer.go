// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package namer implements the output filename convention: a canonical
// name built from (bank, account_last4, closing_date), its inverse
// parser, and the post-write output validator.
package namer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Fields is the parsed form of a canonical output filename.
type Fields struct {
	Bank         string
	AccountLast4 string
	ClosingDate  string
	Sequence     int
}

var sanitizeRe = regexp.MustCompile(`[^a-z0-9]+`)

// Canonical builds "{bank}-{account_last4}-{closing_date}.pdf", or with a
// "-N" disambiguation suffix when sequence >= 2 (the first occurrence of
// a name carries no suffix; the first collision is "-2", matching
// westpac-2819-2015-05-21.pdf / unknown-0000-unknown-date.pdf).
func Canonical(f Fields) string {
	bank := sanitizeToken(f.Bank)
	if bank == "" {
		bank = "unknown"
	}
	last4 := f.AccountLast4
	if last4 == "" {
		last4 = "0000"
	}
	date := f.ClosingDate
	if date == "" {
		date = "unknown-date"
	}
	name := fmt.Sprintf("%s-%s-%s", bank, last4, date)
	if f.Sequence >= 2 {
		name = fmt.Sprintf("%s-%d", name, f.Sequence)
	}
	return name + ".pdf"
}

var parseRe = regexp.MustCompile(`^([a-z0-9]+)-(\d{4})-([0-9]{4}-[0-9]{2}-[0-9]{2}|unknown-date)(?:-(\d+))?\.pdf$`)

// Parse is the inverse of Canonical. Round trip: Parse(Canonical(f)) == f
// for any Fields produced by Canonical.
func Parse(filename string) (Fields, bool) {
	m := parseRe.FindStringSubmatch(filename)
	if m == nil {
		return Fields{}, false
	}
	seq := 0
	if m[4] != "" {
		seq, _ = strconv.Atoi(m[4])
	}
	return Fields{
		Bank:         m[1],
		AccountLast4: m[2],
		ClosingDate:  m[3],
		Sequence:     seq,
	}, true
}

// Disambiguate returns a canonical filename guaranteed not to collide
// with any name in existing, by incrementing the sequence suffix. The
// first collision is suffixed "-2", not "-1" — the unsuffixed name is
// itself the first occurrence.
func Disambiguate(f Fields, existing map[string]bool) string {
	candidate := Canonical(f)
	if !existing[candidate] {
		return candidate
	}
	for seq := 2; ; seq++ {
		f.Sequence = seq
		candidate = Canonical(f)
		if !existing[candidate] {
			return candidate
		}
	}
}

func sanitizeToken(s string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	lower = sanitizeRe.ReplaceAllString(lower, "")
	if len(lower) > 10 {
		lower = lower[:10]
	}
	return lower
}
