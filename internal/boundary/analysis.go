// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package boundary

import (
	"fmt"
	"strings"
)

const (
	analysisSoftCap   = 12000
	analysisHeadChars = 6000
	analysisTailChars = 4000
	analysisHardCap   = 15000
	truncationMarker  = "[... MIDDLE PAGES TRUNCATED ...]"
)

// BuildAnalysisText wraps each page with explicit `=== PAGE N ===` /
// `=== END PAGE N ===` markers, joins them with blank lines, and applies
// the head-and-tail retention rule above the soft cap so that model
// providers always see page boundaries and never more than the hard cap
// of characters.
func BuildAnalysisText(pageTexts []string, hardCap int) string {
	if hardCap <= 0 {
		hardCap = analysisHardCap
	}

	pages := make([]string, 0, len(pageTexts))
	for i := 1; i < len(pageTexts); i++ {
		pages = append(pages, fmt.Sprintf("=== PAGE %d ===\n%s\n=== END PAGE %d ===", i, pageTexts[i], i))
	}
	full := strings.Join(pages, "\n\n")

	if len(full) <= analysisSoftCap {
		return clamp(full, hardCap)
	}

	headPages := pages
	if len(headPages) > 3 {
		headPages = headPages[:3]
	}
	head := clamp(strings.Join(headPages, "\n\n"), analysisHeadChars)

	tailPages := pages
	if len(tailPages) > 3 {
		tailPages = tailPages[len(tailPages)-3:]
	}
	tail := clampTail(strings.Join(tailPages, "\n\n"), analysisTailChars)

	combined := head + "\n\n" + truncationMarker + "\n\n" + tail
	return clamp(combined, hardCap)
}

func clamp(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max]
}

func clampTail(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[len(s)-max:]
}
