// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package resilience

import (
	"math"
	"math/rand"
	"time"
)

// BackoffPolicy computes retry delays under the law
// delay = min(base * 2^attempt * U(0.1, 1.0), cap).
type BackoffPolicy struct {
	Base time.Duration
	Cap  time.Duration
	Rand *rand.Rand
}

// NewBackoffPolicy builds a policy with a 500ms base delay and a 60s
// cap.
func NewBackoffPolicy() BackoffPolicy {
	return BackoffPolicy{
		Base: 500 * time.Millisecond,
		Cap:  60 * time.Second,
		Rand: rand.New(rand.NewSource(1)),
	}
}

// Delay returns the backoff duration for the given zero-based attempt
// number.
func (p BackoffPolicy) Delay(attempt int) time.Duration {
	jitter := 0.1 + p.jitterSource()*0.9
	raw := float64(p.Base) * math.Pow(2, float64(attempt)) * jitter
	if raw > float64(p.Cap) {
		raw = float64(p.Cap)
	}
	return time.Duration(raw)
}

func (p BackoffPolicy) jitterSource() float64 {
	if p.Rand == nil {
		return 0.5
	}
	return p.Rand.Float64()
}
