// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sassoftware/viya-statement-splitter/internal/pdfbackend"
	"github.com/sassoftware/viya-statement-splitter/internal/provider"
	"github.com/sassoftware/viya-statement-splitter/internal/resilience"
	"github.com/sassoftware/viya-statement-splitter/internal/sink"
)

// fakeMetadataProvider always returns a fixed MetadataCandidate from
// ExtractMetadata, for exercising the hallucination-validator gate in
// extractMetadata. AnalyzeBoundaries returns no candidates, so boundary
// detection falls through to the content-based detectors.
type fakeMetadataProvider struct {
	candidate provider.MetadataCandidate
}

func (f *fakeMetadataProvider) IsAvailable(ctx context.Context) bool { return true }
func (f *fakeMetadataProvider) Info() provider.Info                  { return provider.Info{Kind: provider.KindRemote} }
func (f *fakeMetadataProvider) AnalyzeBoundaries(ctx context.Context, text string, totalPages int) ([]provider.BoundaryCandidate, error) {
	return nil, nil
}
func (f *fakeMetadataProvider) ExtractMetadata(ctx context.Context, text string, startPage, endPage int) (provider.MetadataCandidate, error) {
	return f.candidate, nil
}

// fakeBackend simulates a two-statement document: pages 1-3 belong to
// Chase, pages 4-6 belong to Westpac, each carrying a "page 1 of 3"
// marker so the content-based detector finds both without a provider.
type fakeBackend struct {
	pageText map[string]map[int]string
	pageCount map[string]int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{pageText: map[string]map[int]string{}, pageCount: map[string]int{}}
}

func (b *fakeBackend) Open(ctx context.Context, path string) (pdfbackend.Info, error) {
	if n, ok := b.pageCount[path]; ok {
		fi, err := os.Stat(path)
		size := int64(0)
		if err == nil {
			size = fi.Size()
		}
		return pdfbackend.Info{NumPages: n, ByteSize: size}, nil
	}
	return pdfbackend.Info{}, fmt.Errorf("fakeBackend: unknown document %s", path)
}

func (b *fakeBackend) PageText(ctx context.Context, path string, page int) (string, error) {
	return b.pageText[path][page], nil
}

func (b *fakeBackend) WriteRange(ctx context.Context, path string, rng pdfbackend.PageRange, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	padded := "%PDF-1.4 fake output content" + fmt.Sprintf("%0300d", 0)
	if err := os.WriteFile(outPath, []byte(padded), 0o644); err != nil {
		return err
	}
	b.pageCount[outPath] = rng.End - rng.Start + 1
	texts := map[int]string{}
	for p := rng.Start; p <= rng.End; p++ {
		texts[p-rng.Start+1] = b.pageText[path][p]
	}
	b.pageText[outPath] = texts
	return nil
}

func twoStatementSource(t *testing.T) (string, *fakeBackend) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "source.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 source"), 0o644))

	backend := newFakeBackend()
	backend.pageCount[path] = 6
	backend.pageText[path] = map[int]string{
		1: "Page 1 of 3\nChase Bank\nAccount Number: 111122223333\nStatement Period: 01 Jan 2024 to 31 Jan 2024",
		2: "transactions page two",
		3: "transactions page three",
		4: "Page 1 of 3\nWestpac Bank\nAccount Number: 444455556666\nStatement Period: 01 Feb 2024 to 29 Feb 2024",
		5: "transactions page five",
		6: "transactions page six",
	}
	return path, backend
}

func defaultParams(t *testing.T, backend *fakeBackend) (Params, Dependencies) {
	t.Helper()
	p := Params{
		MaxFileSizeMB:               100,
		MaxTotalPages:               500,
		MaxPagesPerStatement:        50,
		MinPagesPerStatement:        1,
		FragmentConfidenceThreshold: 0.3,
		EnableFragmentFiltering:     true,
		TextAnalysisCharCap:         15000,
		OutputDir:                   t.TempDir(),
		QuarantineDir:               t.TempDir(),
		RequireTextContent:          true,
		MinTextContentRatio:         0.0,
		IngestWorkers:               2,
		RetriesRemaining:            2,
	}
	deps := Dependencies{
		Backend:    backend,
		KnownBanks: map[string]bool{"chase": true, "westpac": true},
	}
	return p, deps
}

func TestProcess_SplitsTwoStatementsByContentDetection(t *testing.T) {
	path, backend := twoStatementSource(t)
	p, deps := defaultParams(t, backend)

	res, err := Process(context.Background(), p, deps, path)
	require.NoError(t, err)
	require.False(t, res.Quarantined)
	require.Len(t, res.OutputPaths, 2)
	assert.Len(t, res.Metadata, 2)
	assert.Equal(t, "chase", res.Metadata[0].Bank)
	assert.Equal(t, "westpac", res.Metadata[1].Bank)

	for _, out := range res.OutputPaths {
		_, err := os.Stat(out)
		assert.NoError(t, err)
	}
}

func TestProcess_RejectsFabricatedBankFromProviderAndFallsBackToPatterns(t *testing.T) {
	path, backend := twoStatementSource(t)
	p, deps := defaultParams(t, backend)
	deps.Provider = &fakeMetadataProvider{candidate: provider.MetadataCandidate{
		Bank:       "Totally Made Up Bank",
		AccountRaw: "123456789",
		Confidence: 0.9,
	}}
	deps.Policy = resilience.NewPolicy(1000, 1000)

	res, err := Process(context.Background(), p, deps, path)
	require.NoError(t, err)
	require.False(t, res.Quarantined)
	require.Len(t, res.Metadata, 2)
	assert.Equal(t, "chase", res.Metadata[0].Bank)
	assert.Equal(t, "westpac", res.Metadata[1].Bank)
}

func TestProcess_QuarantinesEncryptedDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "locked.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))

	backend := &encryptedBackend{}
	p, deps := defaultParams(t, newFakeBackend())
	deps.Backend = backend

	res, err := Process(context.Background(), p, deps, path)
	require.NoError(t, err)
	assert.True(t, res.Quarantined)
	assert.Equal(t, "encrypted", string(res.Category))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "source should have been moved out")
}

type encryptedBackend struct{}

func (encryptedBackend) Open(ctx context.Context, path string) (pdfbackend.Info, error) {
	return pdfbackend.Info{Encrypted: true}, pdfbackend.ErrEncrypted
}
func (encryptedBackend) PageText(ctx context.Context, path string, page int) (string, error) {
	return "", nil
}
func (encryptedBackend) WriteRange(ctx context.Context, path string, rng pdfbackend.PageRange, outPath string) error {
	return nil
}

func TestProcess_DefaultsToSingleStatementWhenNoBoundariesDetected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))

	backend := newFakeBackend()
	backend.pageCount[path] = 3
	backend.pageText[path] = map[int]string{1: "plain text", 2: "more text", 3: "final text"}

	p, deps := defaultParams(t, backend)
	res, err := Process(context.Background(), p, deps, path)
	require.NoError(t, err)
	require.False(t, res.Quarantined)
	require.Len(t, res.OutputPaths, 1)
}

func TestBatchProcess_ProcessesAllDocuments(t *testing.T) {
	var paths []string
	var backend *fakeBackend
	path1, b := twoStatementSource(t)
	backend = b
	paths = append(paths, path1)

	path2, b2 := twoStatementSource(t)
	paths = append(paths, path2)

	p, deps := defaultParams(t, backend)
	deps.Backend = &multiBackend{first: backend, second: b2, firstPath: path1}

	results := workflowBatch(t, p, deps, paths)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.NoError(t, r.Err)
	}
}

// multiBackend routes calls to whichever fake backend owns a given path,
// since each twoStatementSource() call creates its own fakeBackend.
type multiBackend struct {
	first, second *fakeBackend
	firstPath     string
}

func (m *multiBackend) pick(path string) *fakeBackend {
	if _, ok := m.first.pageCount[path]; ok {
		return m.first
	}
	return m.second
}

func (m *multiBackend) Open(ctx context.Context, path string) (pdfbackend.Info, error) {
	return m.pick(path).Open(ctx, path)
}
func (m *multiBackend) PageText(ctx context.Context, path string, page int) (string, error) {
	return m.pick(path).PageText(ctx, path, page)
}
func (m *multiBackend) WriteRange(ctx context.Context, path string, rng pdfbackend.PageRange, outPath string) error {
	return m.pick(path).WriteRange(ctx, path, rng, outPath)
}

func workflowBatch(t *testing.T, p Params, deps Dependencies, paths []string) []BatchResult {
	t.Helper()
	return BatchProcess(context.Background(), p, deps, paths, 2)
}

func TestProcess_SinkReceivesOutputsWhenConfigured(t *testing.T) {
	path, backend := twoStatementSource(t)
	p, deps := defaultParams(t, backend)
	memSink := sink.NewInMemorySink()
	deps.Sink = memSink

	res, err := Process(context.Background(), p, deps, path)
	require.NoError(t, err)
	require.False(t, res.Quarantined)
	assert.Len(t, memSink.Names(), len(res.OutputPaths))
}
