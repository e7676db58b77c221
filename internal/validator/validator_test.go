// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sassoftware/viya-statement-splitter/internal/provider"
)

func baseContext() Context {
	return Context{
		TotalPages:  10,
		DocumentText: "Chase Bank statement",
		CurrentYear: 2026,
		KnownBanks:  map[string]bool{"chase": true},
	}
}

func TestEvaluate_PhantomStatementWhenCandidateCountExceedsPages(t *testing.T) {
	candidates := make([]provider.BoundaryCandidate, 12)
	for i := range candidates {
		candidates[i] = provider.BoundaryCandidate{StartPage: 1, EndPage: 1, Confidence: 0.9}
	}
	alerts := Evaluate(candidates, baseContext())
	require.NotEmpty(t, alerts)
	assert.Equal(t, PhantomStatement, alerts[0].Kind)
	assert.Equal(t, Critical, alerts[0].Severity)
}

func TestEvaluate_InvalidPageRange(t *testing.T) {
	candidates := []provider.BoundaryCandidate{{StartPage: 5, EndPage: 2, Confidence: 0.9}}
	alerts := Evaluate(candidates, baseContext())
	require.NotEmpty(t, alerts)
	found := false
	for _, a := range alerts {
		if a.Kind == InvalidPageRange {
			found = true
		}
	}
	assert.True(t, found)
}

func TestEvaluate_ImpossibleDateFuture(t *testing.T) {
	candidates := []provider.BoundaryCandidate{{StartPage: 1, EndPage: 2, PeriodRaw: "March 2099", Confidence: 0.9}}
	alerts := Evaluate(candidates, baseContext())
	found := false
	for _, a := range alerts {
		if a.Kind == ImpossibleDate {
			found = true
		}
	}
	assert.True(t, found)
}

func TestEvaluate_NonsensicalPlaceholderAccount(t *testing.T) {
	candidates := []provider.BoundaryCandidate{{StartPage: 1, EndPage: 2, AccountNumberRaw: "123456789", Confidence: 0.9}}
	alerts := Evaluate(candidates, baseContext())
	found := false
	for _, a := range alerts {
		if a.Kind == NonsensicalAccount {
			found = true
		}
	}
	assert.True(t, found)
}

func TestEvaluate_DuplicateBoundaries(t *testing.T) {
	candidates := []provider.BoundaryCandidate{
		{StartPage: 1, EndPage: 3, Confidence: 0.9},
		{StartPage: 1, EndPage: 3, Confidence: 0.9},
	}
	alerts := Evaluate(candidates, baseContext())
	found := false
	for _, a := range alerts {
		if a.Kind == DuplicateBoundaries {
			found = true
		}
	}
	assert.True(t, found)
}

func TestEvaluate_MissingContentWhenRangeTextTooShort(t *testing.T) {
	ctx := baseContext()
	ctx.RangeText = func(start, end int) string { return "short" }
	candidates := []provider.BoundaryCandidate{{StartPage: 1, EndPage: 2, Confidence: 0.9}}
	alerts := Evaluate(candidates, ctx)
	found := false
	for _, a := range alerts {
		if a.Kind == MissingContent {
			found = true
		}
	}
	assert.True(t, found)
}

func TestShouldReject(t *testing.T) {
	tests := []struct {
		name   string
		alerts []Alert
		want   bool
	}{
		{"no alerts", nil, false},
		{"one critical", []Alert{{Severity: Critical}}, true},
		{"two high", []Alert{{Severity: High}, {Severity: High}}, false},
		{"three high", []Alert{{Severity: High}, {Severity: High}, {Severity: High}}, true},
		{"low severity only", []Alert{{Severity: Low}, {Severity: Low}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldReject(tt.alerts))
		})
	}
}

func TestEvaluateMetadata_FabricatedBank(t *testing.T) {
	candidate := provider.MetadataCandidate{Bank: "Totally Made Up Bank", AccountRaw: "5551234", Confidence: 0.9}
	alerts := EvaluateMetadata(candidate, "statement text", baseContext())
	found := false
	for _, a := range alerts {
		if a.Kind == FabricatedBank {
			found = true
		}
	}
	assert.True(t, found)
	assert.True(t, ShouldRejectMetadata(alerts))
}

func TestEvaluateMetadata_NonsensicalPlaceholderAccount(t *testing.T) {
	candidate := provider.MetadataCandidate{Bank: "Chase Bank", AccountRaw: "123456789", Confidence: 0.9}
	alerts := EvaluateMetadata(candidate, "statement text", baseContext())
	found := false
	for _, a := range alerts {
		if a.Kind == NonsensicalAccount {
			found = true
		}
	}
	assert.True(t, found)
	assert.True(t, ShouldRejectMetadata(alerts))
}

func TestEvaluateMetadata_InconsistentDataCardIssuerWithDepositAccount(t *testing.T) {
	candidate := provider.MetadataCandidate{Bank: "Discover Card", AccountRaw: "5551234", Confidence: 0.9}
	alerts := EvaluateMetadata(candidate, "Your checking account summary for this period", baseContext())
	found := false
	for _, a := range alerts {
		if a.Kind == InconsistentData {
			found = true
		}
	}
	assert.True(t, found)
}

func TestEvaluateMetadata_AcceptsPlausibleCandidate(t *testing.T) {
	candidate := provider.MetadataCandidate{Bank: "Chase Bank", AccountRaw: "55512340001", Confidence: 0.9}
	alerts := EvaluateMetadata(candidate, "Chase Bank checking account summary", baseContext())
	assert.Empty(t, alerts)
	assert.False(t, ShouldRejectMetadata(alerts))
}

func TestShouldRejectMetadata(t *testing.T) {
	tests := []struct {
		name   string
		alerts []Alert
		want   bool
	}{
		{"no alerts", nil, false},
		{"one critical", []Alert{{Severity: Critical}}, true},
		{"one high", []Alert{{Severity: High}}, true},
		{"medium only", []Alert{{Severity: Medium}}, false},
		{"low only", []Alert{{Severity: Low}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldRejectMetadata(tt.alerts))
		})
	}
}

func TestBankIsPlausible(t *testing.T) {
	ctx := baseContext()
	assert.True(t, bankIsPlausible("chase", ctx))
	assert.True(t, bankIsPlausible("Chase", ctx))
	assert.False(t, bankIsPlausible("totallymadeupbank", ctx))
}
