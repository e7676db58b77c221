// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package validator implements rule-based rejection of implausible
// analyzer output.
package validator

import (
	"strings"
	"time"

	"github.com/sassoftware/viya-statement-splitter/internal/provider"
)

// Kind is one of the eight enumerated alert categories.
type Kind string

const (
	PhantomStatement   Kind = "PhantomStatement"
	InvalidPageRange   Kind = "InvalidPageRange"
	ImpossibleDate     Kind = "ImpossibleDate"
	NonsensicalAccount Kind = "NonsensicalAccount"
	FabricatedBank     Kind = "FabricatedBank"
	DuplicateBoundaries Kind = "DuplicateBoundaries"
	MissingContent     Kind = "MissingContent"
	InconsistentData   Kind = "InconsistentData"
)

// Severity ranks an Alert for the rejection rule.
type Severity string

const (
	Low      Severity = "low"
	Medium   Severity = "medium"
	High     Severity = "high"
	Critical Severity = "critical"
)

// Alert is the result of one violated rule. Alerts are attached to the
// response under review, never mutate it.
type Alert struct {
	Kind          Kind
	Severity      Severity
	DetectedValue string
	ExpectedValue string
	Description   string
}

var placeholderAccounts = map[string]bool{
	"123456789":   true,
	"000000000":   true,
	"111111111":   true,
	"***1234***": true,
}

var genericBankTokens = map[string]bool{
	"bank": true, "banking": true, "corporation": true, "the": true, "of": true,
}

// Context carries the document-level facts the rules need beyond the
// candidate list itself.
type Context struct {
	TotalPages   int
	DocumentText string
	CurrentYear  int
	KnownBanks   map[string]bool
	// RangeText, if non-nil, returns the concatenated text for a
	// candidate's page range, for MissingContent/InconsistentData.
	RangeText func(start, end int) string
}

// Evaluate runs the boundary-level rules (PhantomStatement,
// InvalidPageRange, ImpossibleDate, NonsensicalAccount,
// DuplicateBoundaries, MissingContent) against candidates and returns
// every violation found. MissingContent is only checked when
// ctx.RangeText is set. InconsistentData is not checked here, and
// FabricatedBank never fires here because BoundaryCandidate carries no
// bank; both are checked by EvaluateMetadata.
func Evaluate(candidates []provider.BoundaryCandidate, ctx Context) []Alert {
	var alerts []Alert

	if len(candidates) > ctx.TotalPages {
		alerts = append(alerts, Alert{
			Kind:        PhantomStatement,
			Severity:    Critical,
			Description: "candidate count exceeds total page count",
		})
	}

	seen := map[[2]int]bool{}
	for _, c := range candidates {
		if c.StartPage > ctx.TotalPages {
			alerts = append(alerts, Alert{
				Kind:        PhantomStatement,
				Severity:    High,
				DetectedValue: itoa(c.StartPage),
				Description: "start_page exceeds total page count",
			})
		}
		if c.StartPage > c.EndPage || c.StartPage < 1 || c.EndPage < 1 {
			alerts = append(alerts, Alert{
				Kind:        InvalidPageRange,
				Severity:    High,
				DetectedValue: rangeStr(c.StartPage, c.EndPage),
				Description: "start_page/end_page out of bounds or inverted",
			})
		}

		if year, ok := extractYear(c.PeriodRaw); ok {
			currentYear := ctx.CurrentYear
			switch {
			case year > currentYear+1:
				alerts = append(alerts, Alert{Kind: ImpossibleDate, Severity: High, DetectedValue: itoa(year), Description: "period year is in the future"})
			case year < 1950:
				alerts = append(alerts, Alert{Kind: ImpossibleDate, Severity: Medium, DetectedValue: itoa(year), Description: "period year predates 1950"})
			}
		}

		if a := nonsensicalAccountAlert(c.AccountNumberRaw); a != nil {
			alerts = append(alerts, *a)
		}

		key := [2]int{c.StartPage, c.EndPage}
		if seen[key] {
			alerts = append(alerts, Alert{Kind: DuplicateBoundaries, Severity: Medium, DetectedValue: rangeStr(c.StartPage, c.EndPage), Description: "duplicate boundary range"})
		}
		seen[key] = true

		if ctx.RangeText != nil {
			text := ctx.RangeText(c.StartPage, c.EndPage)
			if len(strings.TrimSpace(text)) < 50 {
				alerts = append(alerts, Alert{Kind: MissingContent, Severity: High, Description: "boundary text shorter than 50 characters"})
			}
		}
	}

	if bank := bankFromCandidates(candidates); bank != "" {
		if a := fabricatedBankAlert(bank, ctx); a != nil {
			alerts = append(alerts, *a)
		}
	}

	return alerts
}

// EvaluateMetadata runs the bank and account rules against a
// model-extracted MetadataCandidate, plus the InconsistentData check
// against the boundary's own text — the enforcement point for
// metadata extraction: pass the response through validation before
// normalizing it.
func EvaluateMetadata(candidate provider.MetadataCandidate, boundaryText string, ctx Context) []Alert {
	var alerts []Alert

	if a := nonsensicalAccountAlert(candidate.AccountRaw); a != nil {
		alerts = append(alerts, *a)
	}
	if a := fabricatedBankAlert(candidate.Bank, ctx); a != nil {
		alerts = append(alerts, *a)
	}
	if a := inconsistentDataAlert(candidate.Bank, boundaryText); a != nil {
		alerts = append(alerts, *a)
	}

	return alerts
}

// ShouldRejectMetadata is EvaluateMetadata's rejection rule. ShouldReject's
// "high_count >= 3" threshold is calibrated for a boundary response
// carrying many candidates, where isolated high-severity findings across
// a large list are tolerated; a single metadata candidate can trigger at
// most two high-severity rules (FabricatedBank, NonsensicalAccount), so
// that threshold would never fire here. Any critical or high alert on a
// single candidate's own bank or account is disqualifying on its own.
func ShouldRejectMetadata(alerts []Alert) bool {
	for _, a := range alerts {
		if a.Severity == Critical || a.Severity == High {
			return true
		}
	}
	return false
}

func nonsensicalAccountAlert(raw string) *Alert {
	acct := normalizeAccount(raw)
	if acct == "" {
		return nil
	}
	switch {
	case placeholderAccounts[acct]:
		return &Alert{Kind: NonsensicalAccount, Severity: High, DetectedValue: acct, Description: "account number matches a known placeholder"}
	case len(acct) < 4 || len(acct) > 20:
		return &Alert{Kind: NonsensicalAccount, Severity: Medium, DetectedValue: acct, Description: "account number length out of plausible range"}
	}
	return nil
}

func fabricatedBankAlert(bank string, ctx Context) *Alert {
	if bank == "" || bankIsPlausible(bank, ctx) {
		return nil
	}
	return &Alert{Kind: FabricatedBank, Severity: High, DetectedValue: bank, Description: "bank name not found in document text or known-bank set"}
}

// institutionCategory buckets a bank name into the coarse categories
// InconsistentData compares against the boundary text. Default is
// "bank" — the permissive bucket, since most institutions hold
// deposit accounts.
func institutionCategory(bank string) string {
	lower := strings.ToLower(bank)
	switch {
	case strings.Contains(lower, "credit union"):
		return "credit_union"
	case strings.Contains(lower, "card") && !strings.Contains(lower, "bank"):
		return "card_issuer"
	default:
		return "bank"
	}
}

// depositAccountTokens name account types a pure card issuer
// wouldn't plausibly hold.
var depositAccountTokens = []string{"checking account", "savings account", "money market account"}

// inconsistentDataAlert flags a card-issuer institution name (e.g.
// "Discover Card") whose boundary text talks about a deposit account
// type, a combination the institution category rules out.
func inconsistentDataAlert(bank, boundaryText string) *Alert {
	if institutionCategory(bank) != "card_issuer" {
		return nil
	}
	lower := strings.ToLower(boundaryText)
	for _, token := range depositAccountTokens {
		if strings.Contains(lower, token) {
			return &Alert{
				Kind:          InconsistentData,
				Severity:      Medium,
				DetectedValue: token,
				ExpectedValue: "card_issuer",
				Description:   "institution category 'card issuer' conflicts with deposit-account token in boundary text",
			}
		}
	}
	return nil
}

// ShouldReject implements the rejection rule: critical_count >= 1 or
// high_count >= 3.
func ShouldReject(alerts []Alert) bool {
	var critical, high int
	for _, a := range alerts {
		switch a.Severity {
		case Critical:
			critical++
		case High:
			high++
		}
	}
	return critical >= 1 || high >= 3
}

func normalizeAccount(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r == ' ' || r == '\t' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func extractYear(period string) (int, bool) {
	digits := ""
	for i := 0; i+3 < len(period); i++ {
		chunk := period[i : i+4]
		allDigits := true
		for _, c := range chunk {
			if c < '0' || c > '9' {
				allDigits = false
				break
			}
		}
		if allDigits {
			digits = chunk
			break
		}
	}
	if digits == "" {
		return 0, false
	}
	year := 0
	for _, c := range digits {
		year = year*10 + int(c-'0')
	}
	return year, true
}

// bankFromCandidates is a placeholder hook: BoundaryCandidate carries
// no bank field, so this stays dormant for boundary analysis. The real
// enforcement point for FabricatedBank is EvaluateMetadata, called
// against MetadataCandidate, which does carry one.
func bankFromCandidates(candidates []provider.BoundaryCandidate) string {
	return ""
}

// bankIsPlausible accepts a bank found in the document text even when
// it's absent from the known-bank dictionary — substring and
// substantial-word matching both count, not just an exact dictionary
// hit.
func bankIsPlausible(bank string, ctx Context) bool {
	lower := strings.ToLower(bank)
	if ctx.KnownBanks[lower] {
		return true
	}
	if strings.Contains(strings.ToLower(ctx.DocumentText), lower) {
		return true
	}
	for _, word := range strings.Fields(lower) {
		if len(word) <= 3 || genericBankTokens[word] {
			continue
		}
		if strings.Contains(strings.ToLower(ctx.DocumentText), word) {
			return true
		}
	}
	return false
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func rangeStr(start, end int) string {
	return itoa(start) + "-" + itoa(end)
}

// CurrentYear returns the present year, used to populate Context at call
// sites — isolated here so tests can pin a fixed year.
func CurrentYear() int { return time.Now().Year() }
