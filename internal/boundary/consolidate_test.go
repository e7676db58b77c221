// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package boundary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsolidate_AdjacentRangesStaySeparate(t *testing.T) {
	candidates := []Boundary{
		{StartPage: 1, EndPage: 5, Confidence: 0.9},
		{StartPage: 6, EndPage: 10, Confidence: 0.9},
	}
	got := Consolidate(candidates, 10)
	require.Len(t, got, 2)
	assert.Equal(t, 5, got[0].EndPage)
	assert.Equal(t, 6, got[1].StartPage)
}

func TestConsolidate_OverlapWithMatchingAccountMerges(t *testing.T) {
	candidates := []Boundary{
		{StartPage: 1, EndPage: 6, AccountNumberRaw: "1234 5678", Confidence: 0.9},
		{StartPage: 4, EndPage: 10, AccountNumberRaw: "12345678", Confidence: 0.8},
	}
	got := Consolidate(candidates, 10)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].StartPage)
	assert.Equal(t, 10, got[0].EndPage)
	assert.InDelta(t, 0.8, got[0].Confidence, 1e-9)
}

func TestConsolidate_OverlapWithDisagreeingAccountsDropsLater(t *testing.T) {
	candidates := []Boundary{
		{StartPage: 1, EndPage: 6, AccountNumberRaw: "111111111", Confidence: 0.9},
		{StartPage: 4, EndPage: 10, AccountNumberRaw: "222222222", Confidence: 0.9},
	}
	got := Consolidate(candidates, 10)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].StartPage)
	assert.Equal(t, 6, got[0].EndPage)
}

func TestConsolidate_OverlapWithNoAccountsMergesWithPenalty(t *testing.T) {
	candidates := []Boundary{
		{StartPage: 1, EndPage: 6, Confidence: 1.0},
		{StartPage: 3, EndPage: 8, Confidence: 0.5},
	}
	got := Consolidate(candidates, 10)
	require.Len(t, got, 1)
	assert.InDelta(t, 0.4, got[0].Confidence, 1e-9)
}

func TestConsolidate_DropsOutOfRangeAndClipsOverrun(t *testing.T) {
	candidates := []Boundary{
		{StartPage: 20, EndPage: 25, Confidence: 0.9},
		{StartPage: 1, EndPage: 15, Confidence: 0.9},
	}
	got := Consolidate(candidates, 10)
	require.Len(t, got, 1)
	assert.Equal(t, 10, got[0].EndPage)
}

func TestSingleStatementDefault(t *testing.T) {
	b := SingleStatementDefault(7)
	assert.Equal(t, 1, b.StartPage)
	assert.Equal(t, 7, b.EndPage)
	assert.Equal(t, 0.5, b.Confidence)
	assert.Equal(t, SourceDefault, b.Source)
}
