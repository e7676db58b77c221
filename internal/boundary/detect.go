// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package boundary

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	pageMarkerRe = regexp.MustCompile(`(?i)page\s+(\d+)\s+of\s+(\d+)`)

	accountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:account|card)\s*(?:number|no\.?)?\s*[:]\s*(\d[\d\s]{8,})`),
		regexp.MustCompile(`(?i)account\s*[:]\s*(\d+(?:\s+\d+)*)`),
		regexp.MustCompile(`(?i)card\s*number\s*[:]\s*(\d+(?:\s+\d+)*)`),
	}

	headerPatternGroups = [][]*regexp.Regexp{
		{ // statement-period keywords
			regexp.MustCompile(`(?i)statement\s+period`),
			regexp.MustCompile(`(?i)billing\s+period`),
			regexp.MustCompile(`(?i)statement\s+date`),
		},
		{ // account-header keywords
			regexp.MustCompile(`(?i)account\s+(?:number|summary|holder)`),
			regexp.MustCompile(`(?i)card\s+number`),
		},
		{ // opening-balance keywords
			regexp.MustCompile(`(?i)opening\s+balance`),
			regexp.MustCompile(`(?i)previous\s+balance`),
		},
		{ // institution-specific header keywords
			regexp.MustCompile(`(?i)member\s+fdic`),
			regexp.MustCompile(`(?i)routing\s+number`),
			regexp.MustCompile(`(?i)bsb\s*[:]`),
		},
	}
)

// offsetToPage maps a character offset in the concatenated page text to
// a 1-based page number: floor(offset/total*pages)+1,
// clamped to at least 1.
func offsetToPage(offset, totalChars, totalPages int) int {
	if totalChars <= 0 || totalPages <= 0 {
		return 1
	}
	page := int(float64(offset)/float64(totalChars)*float64(totalPages)) + 1
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return page
}

// DetectPageMarkers finds "page N of M" markers and treats every N=1
// occurrence as the start of a statement. Confidence 0.9.
func DetectPageMarkers(text string, totalPages int) []Boundary {
	matches := pageMarkerRe.FindAllStringSubmatchIndex(text, -1)
	var starts []int
	for _, m := range matches {
		n := text[m[2]:m[3]]
		if v, err := strconv.Atoi(n); err == nil && v == 1 {
			starts = append(starts, offsetToPage(m[0], len(text), totalPages))
		}
	}
	return startsToBoundaries(starts, totalPages, 0.9, SourceContent, "page marker \"page 1 of N\" detected")
}

// DetectAccountChanges extracts candidate account numbers and treats the
// first-seen offset of each unique account as a statement start, when
// two or more unique accounts are present. Confidence 0.7.
func DetectAccountChanges(text string, totalPages int) []Boundary {
	type firstSeen struct {
		account string
		offset  int
	}
	seen := map[string]int{}
	var order []firstSeen

	for _, re := range accountPatterns {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			raw := text[m[2]:m[3]]
			norm := NormalizedAccount(raw)
			if len(norm) < 8 {
				continue
			}
			if _, ok := seen[norm]; ok {
				continue
			}
			seen[norm] = m[0]
			order = append(order, firstSeen{account: norm, offset: m[0]})
		}
	}

	if len(order) < 2 {
		return nil
	}

	// Sort by first-seen offset so statement starts are in document order.
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && order[j].offset < order[j-1].offset; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	boundaries := make([]Boundary, 0, len(order))
	for i, fs := range order {
		start := offsetToPage(fs.offset, len(text), totalPages)
		end := totalPages
		if i+1 < len(order) {
			nextStart := offsetToPage(order[i+1].offset, len(text), totalPages)
			end = nextStart - 1
			if end < start {
				end = start
			}
		}
		boundaries = append(boundaries, Boundary{
			StartPage:        start,
			EndPage:          end,
			AccountNumberRaw: fs.account,
			Confidence:       0.7,
			Reasoning:        "account number change detected",
			Source:           SourceContent,
		})
	}
	return boundaries
}

// DetectHeaders scores each line against four keyword groups (period,
// account, opening balance, institution-specific). A line matching at
// least two distinct groups is a candidate statement start; confidence
// is matches/total groups.
func DetectHeaders(text string, totalPages int) []Boundary {
	lines := strings.Split(text, "\n")
	offset := 0
	var starts []int
	var lastConfidence float64

	for _, line := range lines {
		matchedGroups := 0
		for _, group := range headerPatternGroups {
			for _, re := range group {
				if re.MatchString(line) {
					matchedGroups++
					break
				}
			}
		}
		if matchedGroups >= 2 {
			starts = append(starts, offsetToPage(offset, len(text), totalPages))
			lastConfidence = float64(matchedGroups) / float64(len(headerPatternGroups))
		}
		offset += len(line) + 1
	}

	return startsToBoundaries(starts, totalPages, lastConfidence, SourceContent, "header keyword cluster detected")
}

// startsToBoundaries turns a sorted list of start pages into boundaries
// whose end page is the page before the next start (or total_pages for
// the last one), matching the page-marker rule's "last extends to
// total_pages" behavior.
func startsToBoundaries(starts []int, totalPages int, confidence float64, src Source, reasoning string) []Boundary {
	if len(starts) == 0 {
		return nil
	}
	uniq := dedupSortedInts(starts)
	boundaries := make([]Boundary, 0, len(uniq))
	for i, s := range uniq {
		end := totalPages
		if i+1 < len(uniq) {
			e := uniq[i+1] - 1
			if e < s {
				e = s
			}
			end = e
		}
		boundaries = append(boundaries, Boundary{
			StartPage:  s,
			EndPage:    end,
			Confidence: confidence,
			Reasoning:  reasoning,
			Source:     src,
		})
	}
	return boundaries
}

func dedupSortedInts(in []int) []int {
	sorted := append([]int(nil), in...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j] < sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	out := sorted[:0]
	var last int
	for i, v := range sorted {
		if i == 0 || v != last {
			out = append(out, v)
			last = v
		}
	}
	return out
}

// DetectContentBased runs the three content detectors in order and
// accepts the first that produces at least two boundaries.
func DetectContentBased(text string, totalPages int) []Boundary {
	if b := DetectPageMarkers(text, totalPages); len(b) >= 2 {
		return b
	}
	if b := DetectAccountChanges(text, totalPages); len(b) >= 2 {
		return b
	}
	if b := DetectHeaders(text, totalPages); len(b) >= 2 {
		return b
	}
	return nil
}
