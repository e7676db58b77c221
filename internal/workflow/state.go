// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package workflow implements the per-document pipeline driver: the
// stage sequence from ingest through sink or quarantine, and the
// batch-level worker pool that runs it concurrently across many
// documents.
package workflow

import (
	"time"

	"github.com/sassoftware/viya-statement-splitter/internal/boundary"
	"github.com/sassoftware/viya-statement-splitter/internal/metadata"
	"github.com/sassoftware/viya-statement-splitter/internal/quarantine"
)

// Stage names one step of the pipeline.
type Stage string

const (
	StageIngest   Stage = "ingest"
	StageAnalyze  Stage = "analyze"
	StageDetect   Stage = "detect"
	StageExtract  Stage = "extract"
	StageGenerate Stage = "generate"
	StageOrganize Stage = "organize"
	StageValidate Stage = "validate"
	StageSink     Stage = "sink"
)

// ErrorTag classifies a stage failure for the retry policy and the
// quarantine report.
type ErrorTag string

const (
	Transient  ErrorTag = "transient"
	Fatal      ErrorTag = "fatal"
	Validation ErrorTag = "validation"
)

// State tracks one document's progress through the pipeline. It is not
// shared across goroutines: the batch driver owns one State per
// in-flight document.
type State struct {
	SourcePath      string
	CurrentStage    Stage
	RetriesRemaining int
	Errors          []quarantine.StageError
	StartedAt       time.Time

	Boundaries []boundary.Boundary
	Metadata   []metadata.Metadata
	OutputPaths []string
}

// recordError appends a stage failure to the state's error trail.
func (s *State) recordError(stage Stage, tag ErrorTag, err error) {
	s.Errors = append(s.Errors, quarantine.StageError{
		Stage:   string(stage),
		Kind:    string(tag),
		Message: err.Error(),
		Time:    time.Now(),
	})
}

// Result is the outcome of running one document through Process.
type Result struct {
	SourcePath     string
	Boundaries     []boundary.Boundary
	Metadata       []metadata.Metadata
	OutputPaths    []string
	Quarantined    bool
	QuarantinePath string
	Category       quarantine.Category
}
