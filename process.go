// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package splitter

import (
	"context"

	pkgprovider "github.com/sassoftware/viya-statement-splitter/internal/provider"

	"github.com/sassoftware/viya-statement-splitter/internal/boundary"
	"github.com/sassoftware/viya-statement-splitter/internal/metadata"
	"github.com/sassoftware/viya-statement-splitter/internal/pdfbackend"
	"github.com/sassoftware/viya-statement-splitter/internal/quarantine"
	"github.com/sassoftware/viya-statement-splitter/internal/resilience"
	"github.com/sassoftware/viya-statement-splitter/internal/sink"
	"github.com/sassoftware/viya-statement-splitter/internal/workflow"
)

// Result is the outcome of splitting one source document.
type Result = workflow.Result

// BatchResult pairs one document's path with its Result.
type BatchResult = workflow.BatchResult

// Core is the long-lived facade the CLI and any embedding host use: one
// Core per process, built from a validated Config, reused across every
// call.
type Core struct {
	cfg  *Config
	deps workflow.Dependencies
}

// New builds a Core. cfg must already pass Validate.
func New(cfg *Config) (*Core, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	provKind := pkgprovider.Kind(cfg.ProviderKind)
	prov, err := pkgprovider.New(provKind, cfg.Endpoint, cfg.ModelName, cfg.APIKey)
	if err != nil {
		return nil, err
	}

	policy := resilience.NewPolicy(cfg.RequestsPerMinute, cfg.BurstLimit)
	policy.MaxRetries = cfg.MaxAttempts - 1
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}

	var documentSink sink.DocumentSink = sink.NullSink{}
	if cfg.SinkEnabled {
		documentSink = sink.NewFilesystemSink(cfg.SinkStoragePath)
	}

	return &Core{
		cfg: cfg,
		deps: workflow.Dependencies{
			Backend:    pdfbackend.NewPDFCPUBackend(),
			Provider:   prov,
			Policy:     policy,
			Cache:      boundary.NewCache(100),
			Sink:       documentSink,
			KnownBanks: metadata.KnownBankSet(cfg.KnownBanks),
		},
	}, nil
}

func (c *Core) params() workflow.Params {
	cfg := c.cfg
	return workflow.Params{
		MaxFileSizeMB:               cfg.MaxFileSizeMB,
		MaxTotalPages:               cfg.MaxTotalPages,
		MaxPagesPerStatement:        cfg.MaxPagesPerStatement,
		MinPagesPerStatement:        cfg.MinPagesPerStatement,
		FragmentConfidenceThreshold: cfg.FragmentConfidenceThreshold,
		EnableFragmentFiltering:     cfg.EnableFragmentFiltering,
		TextAnalysisCharCap:         cfg.TextAnalysisCharCap,
		OutputDir:                   cfg.OutputDir,
		QuarantineDir:               cfg.QuarantineDir,
		RequireTextContent:          cfg.RequireTextContent,
		MinTextContentRatio:         cfg.MinTextContentRatio,
		Strict:                      cfg.Strictness == Strict,
		Lenient:                     cfg.Strictness == Lenient,
		IngestWorkers:               cfg.IngestWorkers,
		RetriesRemaining:            cfg.RetriesRemaining,
		SinkMandatory:               cfg.SinkMandatory,
	}
}

// Process splits one source document.
func (c *Core) Process(ctx context.Context, sourcePath string) (Result, error) {
	return workflow.Process(ctx, c.params(), c.deps, sourcePath)
}

// BatchProcess splits every document in sourcePaths, bounding
// concurrency to Config.MaxConcurrentDocuments.
func (c *Core) BatchProcess(ctx context.Context, sourcePaths []string) []BatchResult {
	return workflow.BatchProcess(ctx, c.params(), c.deps, sourcePaths, c.cfg.MaxConcurrentDocuments)
}

// QuarantineStatus lists every document currently quarantined.
func (c *Core) QuarantineStatus() ([]quarantine.Entry, error) {
	return quarantine.Status(c.cfg.QuarantineDir)
}

// QuarantineClean removes one quarantined document (by its quarantined
// file path) and its error report. With an empty path it removes every
// quarantined document.
func (c *Core) QuarantineClean(filePath string) (int, error) {
	if filePath == "" {
		return quarantine.CleanAll(c.cfg.QuarantineDir)
	}
	removed, err := quarantine.Clean(filePath)
	if err != nil {
		return 0, err
	}
	if removed {
		return 1, nil
	}
	return 0, nil
}
