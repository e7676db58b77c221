// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package provider implements a uniform capability over remote-hosted,
// locally-hosted, and null model backends: a tagged-variant dispatch —
// no inheritance chain, one interface, one constructor per kind —
// rather than a polymorphic client hierarchy.
package provider

import (
	"context"
	"errors"
)

// Kind is the tagged variant selecting which Provider implementation is
// active. Selection is a single process-wide configuration choice; there
// is no implicit multiplexing.
type Kind string

const (
	KindRemote Kind = "remote"
	KindLocal  Kind = "local"
	KindNone   Kind = "none"
)

// ErrorKind classifies a ProviderError for the resilience layer and
// the error taxonomy.
type ErrorKind string

const (
	ErrUnavailable      ErrorKind = "ProviderUnavailable"
	ErrMalformed        ErrorKind = "MalformedResponse"
	ErrRateLimited      ErrorKind = "RateLimited"
	ErrNetworkTimeout   ErrorKind = "NetworkTimeout"
)

// Error is a structured provider failure. MalformedResponse is never
// transient; RateLimited and NetworkTimeout are.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Transient reports whether a ProviderError may succeed on retry.
func (e *Error) Transient() bool {
	return e.Kind == ErrRateLimited || e.Kind == ErrNetworkTimeout
}

// BoundaryCandidate is one analyzer-proposed statement boundary, the raw
// shape returned by analyze_boundaries before hallucination validation.
type BoundaryCandidate struct {
	StartPage        int     `json:"start_page" validate:"min=1"`
	EndPage          int     `json:"end_page" validate:"min=1"`
	AccountNumberRaw string  `json:"account_number,omitempty"`
	PeriodRaw        string  `json:"period,omitempty"`
	Confidence       float64 `json:"confidence" validate:"min=0,max=1"`
}

// MetadataCandidate is the raw shape returned by extract_metadata before
// hallucination validation.
type MetadataCandidate struct {
	Bank         string  `json:"bank"`
	AccountRaw   string  `json:"account_number"`
	PeriodStart  string  `json:"period_start,omitempty"`
	PeriodEnd    string  `json:"period_end,omitempty"`
	Confidence   float64 `json:"confidence" validate:"min=0,max=1"`
}

// Info identifies a provider for logging/diagnostics.
type Info struct {
	Kind     Kind
	Model    string
	Endpoint string
}

// Provider is the uniform capability exposed by every backend kind.
type Provider interface {
	IsAvailable(ctx context.Context) bool
	Info() Info
	AnalyzeBoundaries(ctx context.Context, text string, totalPages int) ([]BoundaryCandidate, error)
	ExtractMetadata(ctx context.Context, text string, startPage, endPage int) (MetadataCandidate, error)
}

// ErrNoProvider is returned by New for an unrecognized Kind.
var ErrNoProvider = errors.New("provider: unknown kind")

// New constructs the Provider for kind. Remote and local providers are
// thin net/http JSON clients (see http.go); None always reports
// unavailable (see none.go).
func New(kind Kind, endpoint, model, apiKey string) (Provider, error) {
	switch kind {
	case KindRemote:
		return NewRemote(endpoint, model, apiKey), nil
	case KindLocal:
		return NewLocal(endpoint, model), nil
	case KindNone, "":
		return NewNone(), nil
	default:
		return nil, ErrNoProvider
	}
}
