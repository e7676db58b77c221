// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package workflow

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sassoftware/viya-statement-splitter/internal/boundary"
	"github.com/sassoftware/viya-statement-splitter/internal/metadata"
	"github.com/sassoftware/viya-statement-splitter/internal/namer"
	"github.com/sassoftware/viya-statement-splitter/internal/pdfbackend"
	"github.com/sassoftware/viya-statement-splitter/internal/pdfdoc"
	"github.com/sassoftware/viya-statement-splitter/internal/provider"
	"github.com/sassoftware/viya-statement-splitter/internal/quarantine"
	"github.com/sassoftware/viya-statement-splitter/internal/validator"
	"github.com/sassoftware/viya-statement-splitter/logger"
)

// Process runs one document through every stage of the pipeline
//, returning either a successful Result with output
// paths, or a Result describing where the document was quarantined.
func Process(ctx context.Context, p Params, deps Dependencies, sourcePath string) (Result, error) {
	st := &State{SourcePath: sourcePath, StartedAt: time.Now(), RetriesRemaining: p.RetriesRemaining}

	var doc *pdfdoc.Document
	var err error
	for {
		var tag ErrorTag
		doc, tag, err = ingest(ctx, p, deps, st)
		if err == nil {
			break
		}
		if tag != Transient || st.RetriesRemaining <= 0 {
			return quarantineFor(p, st, classifyIngestCategory(err)), nil
		}
		st.RetriesRemaining--
		logger.Warn("workflow: retrying ingest after transient failure", "source", sourcePath, "retries_remaining", st.RetriesRemaining)
	}

	analysisText := boundary.BuildAnalysisText(doc.PageTexts, p.TextAnalysisCharCap)

	boundaries, err := detect(ctx, p, deps, st, doc, analysisText)
	if err != nil {
		return quarantineFor(p, st, quarantine.CategoryValidation), nil
	}
	st.Boundaries = boundaries

	st.CurrentStage = StageExtract
	st.Metadata = extractMetadata(ctx, deps, doc, boundaries)

	st.CurrentStage = StageGenerate
	outputPaths, err := generate(ctx, p, deps, doc, boundaries, st.Metadata)
	if err != nil {
		st.recordError(StageGenerate, Fatal, err)
		return quarantineFor(p, st, quarantine.CategoryOutput), nil
	}
	st.OutputPaths = outputPaths

	st.CurrentStage = StageValidate
	failures := namer.ValidateOutputs(namer.OutputValidationContext{
		Paths:              outputPaths,
		ExpectedTotalPages: doc.TotalPages,
		MinByteSize:        256,
		Backend:            deps.Backend,
	})
	if len(failures) > 0 {
		for _, f := range failures {
			st.recordError(StageValidate, Validation, f)
		}
		return quarantineFor(p, st, quarantine.CategoryOutput), nil
	}

	if deps.Sink != nil {
		st.CurrentStage = StageSink
		if err := sinkOutputs(ctx, deps, outputPaths); err != nil {
			st.recordError(StageSink, Transient, err)
			if p.SinkMandatory {
				return quarantineFor(p, st, quarantine.CategorySink), nil
			}
			logger.Warn("workflow: sink failed, continuing without it", "err", err.Error())
		}
	}

	return Result{
		SourcePath:  sourcePath,
		Boundaries:  boundaries,
		Metadata:    st.Metadata,
		OutputPaths: outputPaths,
	}, nil
}

func ingest(ctx context.Context, p Params, deps Dependencies, st *State) (*pdfdoc.Document, ErrorTag, error) {
	st.CurrentStage = StageIngest

	fi, err := os.Stat(st.SourcePath)
	if err != nil {
		st.recordError(StageIngest, Fatal, err)
		return nil, Fatal, err
	}
	if maxBytes := int64(p.MaxFileSizeMB) * 1024 * 1024; maxBytes > 0 && fi.Size() > maxBytes {
		err := fmt.Errorf("workflow: file size %d exceeds max_file_size_mb limit", fi.Size())
		st.recordError(StageIngest, Fatal, err)
		return nil, Fatal, err
	}

	doc, err := pdfdoc.Ingest(ctx, deps.Backend, st.SourcePath, p.IngestWorkers)
	if err != nil {
		if errors.Is(err, pdfbackend.ErrEncrypted) {
			st.recordError(StageIngest, Fatal, err)
			return nil, Fatal, err
		}
		st.recordError(StageIngest, Transient, err)
		return nil, Transient, err
	}

	if p.MaxTotalPages > 0 && doc.TotalPages > p.MaxTotalPages {
		err := fmt.Errorf("workflow: %d pages exceeds max_total_pages limit", doc.TotalPages)
		st.recordError(StageIngest, Fatal, err)
		return nil, Fatal, err
	}

	if p.RequireTextContent {
		ratio := textContentRatio(doc)
		if ratio < p.MinTextContentRatio {
			err := fmt.Errorf("workflow: text content ratio %.2f below minimum %.2f", ratio, p.MinTextContentRatio)
			if p.Strict {
				st.recordError(StageIngest, Validation, err)
				return nil, Validation, err
			}
			logger.Warn("workflow: low text content, continuing in non-strict mode", "ratio", ratio)
		}
	}

	return doc, "", nil
}

func textContentRatio(doc *pdfdoc.Document) float64 {
	if doc.TotalPages == 0 {
		return 0
	}
	nonEmpty := 0
	for i := 1; i <= doc.TotalPages; i++ {
		if len(doc.PageTexts[i]) > 0 {
			nonEmpty++
		}
	}
	return float64(nonEmpty) / float64(doc.TotalPages)
}

func classifyIngestCategory(err error) quarantine.Category {
	if errors.Is(err, pdfbackend.ErrEncrypted) {
		return quarantine.CategoryEncrypted
	}
	return quarantine.CategoryCorrupted
}

// detect implements the model-assisted / content-based / single-statement
// hierarchy, consulting the boundary cache first.
func detect(ctx context.Context, p Params, deps Dependencies, st *State, doc *pdfdoc.Document, analysisText string) ([]boundary.Boundary, error) {
	st.CurrentStage = StageDetect

	key := boundary.CacheKey{Fingerprint: doc.Fingerprint, TotalPages: doc.TotalPages}
	if deps.Cache != nil {
		if cached, ok := deps.Cache.Get(key); ok {
			logger.Debug("workflow: boundary cache hit", "fingerprint", doc.Fingerprint, true)
			return cached, nil
		}
	}

	var candidates []boundary.Boundary

	if deps.Provider != nil && deps.Provider.IsAvailable(ctx) {
		modelCandidates, err := analyzeWithProvider(ctx, deps, analysisText, doc.TotalPages)
		if err == nil {
			candidates = modelCandidates
		} else {
			logger.Warn("workflow: provider boundary analysis failed, falling back", "err", err.Error())
		}
	}

	st.CurrentStage = StageAnalyze
	if len(candidates) == 0 {
		candidates = boundary.DetectContentBased(doc.RangeText(1, doc.TotalPages), doc.TotalPages)
	}
	if len(candidates) == 0 {
		candidates = []boundary.Boundary{boundary.SingleStatementDefault(doc.TotalPages)}
	}

	consolidated := boundary.Consolidate(candidates, doc.TotalPages)
	consolidated = filterFragments(p, consolidated)
	consolidated = enforcePageLimits(p, consolidated)

	if deps.Cache != nil {
		deps.Cache.Put(key, consolidated)
	}
	return consolidated, nil
}

func filterFragments(p Params, boundaries []boundary.Boundary) []boundary.Boundary {
	if !p.EnableFragmentFiltering {
		return boundaries
	}
	out := boundaries[:0]
	for _, b := range boundaries {
		if b.Confidence < p.FragmentConfidenceThreshold {
			continue
		}
		out = append(out, b)
	}
	return append([]boundary.Boundary(nil), out...)
}

func enforcePageLimits(p Params, boundaries []boundary.Boundary) []boundary.Boundary {
	out := make([]boundary.Boundary, 0, len(boundaries))
	for _, b := range boundaries {
		pages := b.EndPage - b.StartPage + 1
		if p.MinPagesPerStatement > 0 && pages < p.MinPagesPerStatement {
			continue
		}
		if p.MaxPagesPerStatement > 0 && pages > p.MaxPagesPerStatement {
			b.EndPage = b.StartPage + p.MaxPagesPerStatement - 1
		}
		out = append(out, b)
	}
	return out
}

func analyzeWithProvider(ctx context.Context, deps Dependencies, text string, totalPages int) ([]boundary.Boundary, error) {
	var candidates []provider.BoundaryCandidate
	err := deps.Policy.Do(ctx, func(ctx context.Context) error {
		var err error
		candidates, err = deps.Provider.AnalyzeBoundaries(ctx, text, totalPages)
		return err
	})
	if err != nil {
		return nil, err
	}

	alerts := validator.Evaluate(candidates, validator.Context{
		TotalPages:  totalPages,
		DocumentText: text,
		CurrentYear: validator.CurrentYear(),
		KnownBanks:  deps.KnownBanks,
	})
	if validator.ShouldReject(alerts) {
		return nil, fmt.Errorf("workflow: analyzer output rejected by hallucination validator (%d alerts)", len(alerts))
	}

	out := make([]boundary.Boundary, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, boundary.Boundary{
			StartPage:        c.StartPage,
			EndPage:          c.EndPage,
			AccountNumberRaw: c.AccountNumberRaw,
			PeriodRaw:        c.PeriodRaw,
			Confidence:       c.Confidence,
			Source:           boundary.SourceModel,
		})
	}
	return out, nil
}

func extractMetadata(ctx context.Context, deps Dependencies, doc *pdfdoc.Document, boundaries []boundary.Boundary) []metadata.Metadata {
	out := make([]metadata.Metadata, 0, len(boundaries))
	for _, b := range boundaries {
		text := doc.RangeText(b.StartPage, b.EndPage)

		if deps.Provider != nil && deps.Provider.IsAvailable(ctx) {
			var candidate provider.MetadataCandidate
			err := deps.Policy.Do(ctx, func(ctx context.Context) error {
				var err error
				candidate, err = deps.Provider.ExtractMetadata(ctx, text, b.StartPage, b.EndPage)
				return err
			})
			if err == nil {
				alerts := validator.EvaluateMetadata(candidate, text, validator.Context{
					DocumentText: text,
					KnownBanks:   deps.KnownBanks,
				})
				if !validator.ShouldRejectMetadata(alerts) {
					m := metadata.Normalize(candidate.Bank, candidate.AccountRaw, candidate.PeriodEnd)
					if m.Bank != metadata.SentinelBank {
						out = append(out, m)
						continue
					}
				} else {
					logger.Warn("workflow: metadata candidate rejected by hallucination validator, falling back to patterns", "alerts", len(alerts))
				}
			} else {
				logger.Warn("workflow: provider metadata extraction failed, falling back to patterns", "err", err.Error())
			}
		}

		out = append(out, metadata.ExtractPattern(text, deps.KnownBanks))
	}
	return out
}

func generate(ctx context.Context, p Params, deps Dependencies, doc *pdfdoc.Document, boundaries []boundary.Boundary, metas []metadata.Metadata) ([]string, error) {
	existing := map[string]bool{}
	paths := make([]string, 0, len(boundaries))

	for i, b := range boundaries {
		m := metadata.Metadata{Bank: metadata.SentinelBank, AccountLast4: metadata.SentinelLast4, ClosingDate: metadata.SentinelDate}
		if i < len(metas) {
			m = metas[i]
		}

		name := namer.Disambiguate(namer.Fields{Bank: m.Bank, AccountLast4: m.AccountLast4, ClosingDate: m.ClosingDate}, existing)
		existing[name] = true

		outPath := p.OutputDir + "/" + name
		if err := deps.Backend.WriteRange(ctx, doc.Path, pdfbackend.PageRange{Start: b.StartPage, End: b.EndPage}, outPath); err != nil {
			return nil, fmt.Errorf("workflow: writing %s: %w", name, err)
		}
		paths = append(paths, outPath)
	}

	return paths, nil
}

func sinkOutputs(ctx context.Context, deps Dependencies, paths []string) error {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		name := path[lastSlash(path)+1:]
		if err := deps.Sink.Put(ctx, name, bytes.NewReader(data)); err != nil {
			return err
		}
	}
	return nil
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}
	return -1
}

func quarantineFor(p Params, st *State, category quarantine.Category) Result {
	report := quarantine.NewErrorReport(st.SourcePath, category, st.Errors, time.Now())
	dest, err := quarantine.Move(st.SourcePath, p.QuarantineDir, report)
	if err != nil {
		logger.Error("workflow: quarantine move failed", "source", st.SourcePath, "err", err.Error())
	}
	return Result{
		SourcePath:     st.SourcePath,
		Quarantined:    true,
		QuarantinePath: dest,
		Category:       category,
	}
}
