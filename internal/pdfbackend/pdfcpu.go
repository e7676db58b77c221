// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package pdfbackend

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/sassoftware/viya-statement-splitter/logger"
)

// PDFCPUBackend is the default Backend, built on github.com/pdfcpu/pdfcpu.
// It never buffers a whole PDF in memory — every operation re-opens the
// file by path and streams through pdfcpu's file based API.
type PDFCPUBackend struct{}

// NewPDFCPUBackend constructs the default backend.
func NewPDFCPUBackend() *PDFCPUBackend {
	return &PDFCPUBackend{}
}

func (b *PDFCPUBackend) Open(ctx context.Context, path string) (Info, error) {
	logger.Debug(fmt.Sprintf("pdfbackend: opening %s", path), true)

	fi, err := os.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("pdfbackend: stat: %w", err)
	}

	encrypted, err := api.IsEncryptedFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("pdfbackend: encryption check: %w", err)
	}
	if encrypted {
		logger.Debug(fmt.Sprintf("pdfbackend: %s is encrypted", path), true)
		return Info{Encrypted: true, ByteSize: fi.Size()}, ErrEncrypted
	}

	n, err := api.PageCountFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("pdfbackend: page count: %w", err)
	}

	return Info{NumPages: n, Encrypted: false, ByteSize: fi.Size()}, nil
}

// PageText extracts a best-effort plain-text rendering of one page by
// dumping its raw content stream via pdfcpu and pulling the literal
// strings out of the Tj/TJ show-text operators. pdfcpu does not expose a
// layout-aware text accessor, so this trades perfect spacing for a
// dependency-light, always-available text signal — sufficient for the
// regex-driven boundary and metadata heuristics, which only need the
// substrings to be present somewhere in the page text.
func (b *PDFCPUBackend) PageText(ctx context.Context, path string, page int) (string, error) {
	tmpDir, err := os.MkdirTemp("", "statement-splitter-content-*")
	if err != nil {
		return "", fmt.Errorf("pdfbackend: tempdir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	sel := []string{fmt.Sprintf("%d", page)}
	if err := api.ExtractContentFile(path, tmpDir, sel, nil); err != nil {
		return "", fmt.Errorf("pdfbackend: extract content page %d: %w", page, err)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		return "", fmt.Errorf("pdfbackend: read content dir: %w", err)
	}

	var text strings.Builder
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(tmpDir, e.Name()))
		if err != nil {
			continue
		}
		text.WriteString(scrapeShowTextOperators(raw))
		text.WriteByte('\n')
	}

	return text.String(), nil
}

// WriteRange writes a new PDF containing exactly rng.Start..rng.End
// (inclusive, 1-based) by trimming the source document.
func (b *PDFCPUBackend) WriteRange(ctx context.Context, path string, rng PageRange, outPath string) error {
	if rng.Start < 1 || rng.End < rng.Start {
		return fmt.Errorf("pdfbackend: invalid page range [%d,%d]", rng.Start, rng.End)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("pdfbackend: mkdir output dir: %w", err)
	}

	sel := []string{fmt.Sprintf("%d-%d", rng.Start, rng.End)}
	logger.Debug(fmt.Sprintf("pdfbackend: trimming %s pages %v -> %s", path, sel, outPath), true)
	if err := api.TrimFile(path, outPath, sel, nil); err != nil {
		return fmt.Errorf("pdfbackend: trim pages %v: %w", sel, err)
	}
	return nil
}

var showTextRe = regexp.MustCompile(`\(((?:[^()\\]|\\.)*)\)\s*Tj|\[((?:[^\[\]]|\\.)*)\]\s*TJ`)
var parenRunRe = regexp.MustCompile(`\(((?:[^()\\]|\\.)*)\)`)

// scrapeShowTextOperators pulls the literal-string operands of the PDF
// content stream's Tj (show text) and TJ (show text with positioning
// array) operators, unescaping the minimal PDF string escapes.
func scrapeShowTextOperators(raw []byte) string {
	var out strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(string(raw)))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		for _, m := range showTextRe.FindAllStringSubmatch(line, -1) {
			if m[1] != "" {
				out.WriteString(unescapePDFString(m[1]))
				out.WriteByte(' ')
			}
			if m[2] != "" {
				for _, pm := range parenRunRe.FindAllStringSubmatch(m[2], -1) {
					out.WriteString(unescapePDFString(pm[1]))
				}
				out.WriteByte(' ')
			}
		}
	}
	return out.String()
}

func unescapePDFString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case '(', ')', '\\':
				b.WriteByte(s[i+1])
			default:
				b.WriteByte(s[i+1])
			}
			i++
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
