// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package pdfbackend implements the core's PDF backend capability — the
// single point of contact with the PDF file format, kept behind a
// narrow interface so the rest of the pipeline never sees pdfcpu types
// directly. The default implementation wraps
// github.com/pdfcpu/pdfcpu, a complete, actively maintained PDF
// library, rather than a hand-maintained parser.
package pdfbackend

import (
	"context"
	"errors"
)

// ErrEncrypted is returned by Open when the source PDF is password
// protected. Ingestion rejects such documents outright.
var ErrEncrypted = errors.New("pdfbackend: document is encrypted")

// PageRange is a half-open-on-paper, inclusive page range: [Start, End].
type PageRange struct {
	Start int
	End   int
}

// Backend is the capability the workflow driver's ingest/generate stages
// depend on. It is intentionally narrow — text per page, page count, byte
// size, and "write this page range out as a new PDF" — everything the
// detection/extraction/generation stages need and nothing more.
type Backend interface {
	// Open validates the header/EOF/xref structure and reports page count,
	// encryption, and byte size without extracting any text.
	Open(ctx context.Context, path string) (Info, error)

	// PageText returns the best-effort plain text of a single 1-based page.
	PageText(ctx context.Context, path string, page int) (string, error)

	// WriteRange emits a new PDF file at outPath containing exactly the
	// pages in rng (1-based, inclusive on both ends).
	WriteRange(ctx context.Context, path string, rng PageRange, outPath string) error
}

// Info is the structural result of Open.
type Info struct {
	NumPages  int
	Encrypted bool
	ByteSize  int64
}
