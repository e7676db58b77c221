// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/sassoftware/viya-statement-splitter/internal/provider"
	"github.com/sassoftware/viya-statement-splitter/logger"
)

// Policy composes a Limiter and a BackoffPolicy around a provider call:
// acquire a token, invoke, and on a transient provider.Error retry up to
// maxRetries times with backoff.
type Policy struct {
	Limiter     *Limiter
	Backoff     BackoffPolicy
	MaxRetries  int
}

// NewPolicy builds a Policy with the given rate limit and a default
// retry budget of 2 additional attempts.
func NewPolicy(requestsPerMinute, burstLimit int) *Policy {
	return &Policy{
		Limiter:    NewLimiter(requestsPerMinute, burstLimit),
		Backoff:    NewBackoffPolicy(),
		MaxRetries: 2,
	}
}

// Do runs fn under the rate limiter and retry policy. fn should perform
// exactly one provider call and return its error unwrapped.
func (p *Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if err := p.Limiter.Acquire(ctx); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		var provErr *provider.Error
		if !errors.As(err, &provErr) || !provErr.Transient() {
			return err
		}
		if attempt == p.MaxRetries {
			break
		}

		delay := p.Backoff.Delay(attempt)
		logger.Warn("provider call failed, retrying", "attempt", attempt, "delay", delay.String(), "err", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}

// Stats reports the underlying limiter's token level.
func (p *Policy) Stats() Stats {
	return p.Limiter.Stats()
}
