// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package resilience

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sassoftware/viya-statement-splitter/internal/provider"
)

func TestPolicy_Do_SucceedsWithoutRetryOnNilError(t *testing.T) {
	p := NewPolicy(1000, 10)
	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestPolicy_Do_RetriesTransientErrors(t *testing.T) {
	p := NewPolicy(1000, 10)
	p.Backoff.Base = 0
	p.Backoff.Cap = 0
	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return &provider.Error{Kind: provider.ErrRateLimited}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestPolicy_Do_DoesNotRetryNonTransientErrors(t *testing.T) {
	p := NewPolicy(1000, 10)
	calls := 0
	sentinel := &provider.Error{Kind: provider.ErrMalformed}
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, calls)
}

func TestPolicy_Do_GivesUpAfterMaxRetries(t *testing.T) {
	p := NewPolicy(1000, 10)
	p.MaxRetries = 2
	p.Backoff.Base = 0
	p.Backoff.Cap = 0
	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return &provider.Error{Kind: provider.ErrNetworkTimeout}
	})
	assert.Error(t, err)
	assert.Equal(t, 3, calls) // initial attempt + 2 retries
}

func TestPolicy_Do_NonProviderErrorIsNotRetried(t *testing.T) {
	p := NewPolicy(1000, 10)
	calls := 0
	plain := errors.New("boom")
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return plain
	})
	assert.ErrorIs(t, err, plain)
	assert.Equal(t, 1, calls)
}
