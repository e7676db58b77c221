// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package pdfdoc implements the Document data model: an
// ingested PDF's page count, page text (read for every page during
// Ingest), byte size, and a
// stable content fingerprint used to key the boundary-detection cache.
package pdfdoc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"runtime"
	"sync"

	"github.com/sassoftware/viya-statement-splitter/internal/pdfbackend"
	"github.com/sassoftware/viya-statement-splitter/logger"
)

// Document is the input PDF: immutable after Ingest, released by the
// caller once the workflow run terminates. Page text is read
// concurrently through a jobs/results channel worker pool with
// in-order reassembly, since it is the one ingestion cost worth
// parallelizing.
type Document struct {
	Path        string
	TotalPages  int
	ByteSize    int64
	PageTexts   []string // 1-based; PageTexts[0] is unused
	Fingerprint string
}

// Ingest opens path via the backend, reads every page's text with up to
// workers concurrent readers, and computes the content fingerprint.
func Ingest(ctx context.Context, backend pdfbackend.Backend, path string, workers int) (*Document, error) {
	logger.Debug(fmt.Sprintf("pdfdoc: ingesting %s", path), true)

	info, err := backend.Open(ctx, path)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Path:       path,
		TotalPages: info.NumPages,
		ByteSize:   info.ByteSize,
		PageTexts:  make([]string, info.NumPages+1),
	}
	if info.NumPages == 0 {
		doc.Fingerprint = fingerprint("")
		return doc, nil
	}

	if workers < 1 {
		workers = 1
	}
	if workers > runtime.NumCPU() {
		workers = runtime.NumCPU()
	}

	type pageResult struct {
		page int
		text string
		err  error
	}

	jobs := make(chan int, info.NumPages)
	results := make(chan pageResult, info.NumPages)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				text, err := backend.PageText(ctx, path, p)
				results <- pageResult{page: p, text: text, err: err}
			}
		}()
	}
	for p := 1; p <= info.NumPages; p++ {
		jobs <- p
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	var firstErr error
	for res := range results {
		if res.err != nil {
			logger.Warn(fmt.Sprintf("pdfdoc: page %d text extraction failed: %v", res.page, res.err))
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		doc.PageTexts[res.page] = res.text
	}

	doc.Fingerprint = fingerprint(doc.concatenatedText())
	logger.Debug(fmt.Sprintf("pdfdoc: ingested %s pages=%d fingerprint=%s", path, doc.TotalPages, doc.Fingerprint), true)

	// A handful of unreadable pages is a degraded-but-usable document;
	// total failure across every page is not.
	if firstErr != nil && doc.concatenatedText() == "" {
		return doc, firstErr
	}
	return doc, nil
}

// concatenatedText joins every page's text in page order.
func (d *Document) concatenatedText() string {
	var total string
	for i := 1; i <= d.TotalPages; i++ {
		total += d.PageTexts[i]
	}
	return total
}

// RangeText concatenates the text of pages [start, end] inclusive.
func (d *Document) RangeText(start, end int) string {
	if start < 1 {
		start = 1
	}
	if end > d.TotalPages {
		end = d.TotalPages
	}
	var text string
	for i := start; i <= end; i++ {
		if i >= 1 && i <= d.TotalPages {
			text += d.PageTexts[i]
		}
	}
	return text
}

// fingerprint computes a stable hash over concatenated page text, used
// to key the boundary-detection cache.
func fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
