// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package boundary

import "sort"

// Consolidate merges overlapping boundary candidates into the final
// set. Candidates are sorted by start page, clipped/dropped for
// out-of-range pages, then walked pairwise against the last accepted
// boundary: strictly-later starts are accepted as new, separate
// boundaries (adjacency, b.start == a.end+1, is NOT an overlap — this
// is a hard invariant); true overlaps merge only when both sides agree
// on the account number (or both lack one, in which case the merged
// confidence is penalized by 0.8x).
func Consolidate(candidates []Boundary, totalPages int) []Boundary {
	filtered := make([]Boundary, 0, len(candidates))
	for _, b := range candidates {
		if b.StartPage > b.EndPage {
			continue
		}
		if b.StartPage > totalPages {
			continue
		}
		if b.EndPage > totalPages {
			b.EndPage = totalPages
		}
		filtered = append(filtered, b)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].StartPage < filtered[j].StartPage
	})

	var accepted []Boundary
	for _, b := range filtered {
		if len(accepted) == 0 {
			accepted = append(accepted, b)
			continue
		}
		last := &accepted[len(accepted)-1]
		if b.StartPage > last.EndPage {
			// Strictly later start: a new, separate boundary. Adjacent
			// ranges (b.StartPage == last.EndPage+1) land here too.
			accepted = append(accepted, b)
			continue
		}

		// True overlap: b.StartPage <= last.EndPage.
		lastAcct := NormalizedAccount(last.AccountNumberRaw)
		bAcct := NormalizedAccount(b.AccountNumberRaw)
		switch {
		case lastAcct != "" && lastAcct == bAcct:
			mergeInto(last, b, 1.0)
		case lastAcct == "" && bAcct == "":
			mergeInto(last, b, 0.8)
		default:
			// Accounts disagree: keep the earlier boundary, discard b.
		}
	}

	return accepted
}

// mergeInto merges b into a in place: the end page extends to cover b,
// and the confidence becomes min(a, b) scaled by penalty.
func mergeInto(a *Boundary, b Boundary, penalty float64) {
	if b.EndPage > a.EndPage {
		a.EndPage = b.EndPage
	}
	if b.AccountNumberRaw != "" && a.AccountNumberRaw == "" {
		a.AccountNumberRaw = b.AccountNumberRaw
	}
	if b.PeriodRaw != "" && a.PeriodRaw == "" {
		a.PeriodRaw = b.PeriodRaw
	}
	conf := a.Confidence
	if b.Confidence < conf {
		conf = b.Confidence
	}
	a.Confidence = conf * penalty
}

// SingleStatementDefault is the fallback of last resort: one boundary
// covering the whole document, confidence 0.5.
func SingleStatementDefault(totalPages int) Boundary {
	return Boundary{
		StartPage:  1,
		EndPage:    totalPages,
		Confidence: 0.5,
		Reasoning:  "no candidate boundaries detected; defaulting to single statement",
		Source:     SourceDefault,
	}
}
