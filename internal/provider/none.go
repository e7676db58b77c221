// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package provider

import "context"

// None is the always-unavailable provider. Its analyze/extract methods are never expected to be
// called — IsAvailable always reports false so callers fall back before
// invoking them — but they return ErrUnavailable defensively.
type None struct{}

func NewNone() *None { return &None{} }

func (n *None) IsAvailable(ctx context.Context) bool { return false }

func (n *None) Info() Info { return Info{Kind: KindNone} }

func (n *None) AnalyzeBoundaries(ctx context.Context, text string, totalPages int) ([]BoundaryCandidate, error) {
	return nil, &Error{Kind: ErrUnavailable}
}

func (n *None) ExtractMetadata(ctx context.Context, text string, startPage, endPage int) (MetadataCandidate, error) {
	return MetadataCandidate{}, &Error{Kind: ErrUnavailable}
}
