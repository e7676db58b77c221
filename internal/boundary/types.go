// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package boundary implements the boundary-detection engine: the
// model-assisted / content-based / single-statement hierarchy, the
// content detectors, and the authoritative consolidation algorithm.
package boundary

// Source identifies which strategy produced a Boundary.
type Source string

const (
	SourceModel   Source = "model"
	SourceContent Source = "content"
	SourcePattern Source = "pattern"
	SourceDefault Source = "default"
)

// Boundary is a half-open-on-paper, inclusive page range within a
// document, plus optional analyzer context.
type Boundary struct {
	StartPage        int
	EndPage          int
	AccountNumberRaw string
	PeriodRaw        string
	Confidence       float64
	Reasoning        string
	Source           Source
}

// Set is an ordered, non-overlapping sequence of Boundary for one
// document, tagged with the detection method that produced it.
type Set struct {
	Boundaries       []Boundary
	DetectionMethod  Source
}

// NormalizedAccount strips whitespace and dashes from an account number
// for equality comparisons during consolidation and fragment detection.
func NormalizedAccount(raw string) string {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '-' {
			continue
		}
		out = append(out, c)
	}
	return string(out)
}
