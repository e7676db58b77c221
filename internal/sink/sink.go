// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package sink defines the output boundary: where split documents are
// delivered and where source documents come from. The workflow driver
// depends only on these interfaces so a deployment can swap the
// destination without touching pipeline logic.
package sink

import (
	"context"
	"io"
)

// DocumentSource supplies source PDFs to be split.
type DocumentSource interface {
	// List returns the identifiers of documents available to process.
	List(ctx context.Context) ([]string, error)
	// Open returns a reader for the document with the given id. The
	// caller must Close it.
	Open(ctx context.Context, id string) (io.ReadCloser, error)
}

// DocumentSink receives split output documents.
type DocumentSink interface {
	// Put writes a named output document, fully draining r.
	Put(ctx context.Context, name string, r io.Reader) error
}
