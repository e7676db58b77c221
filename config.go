// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package splitter

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sassoftware/viya-statement-splitter/logger"
)

// ProviderKind selects the model provider used by boundary detection and
// metadata extraction. There is no implicit multiplexing: exactly
// one kind is active per process.
type ProviderKind string

const (
	ProviderRemote ProviderKind = "remote"
	ProviderLocal  ProviderKind = "local"
	ProviderNone   ProviderKind = "none"
)

// Strictness controls whether a low text-content ratio at ingestion is a
// warning or a fatal error: only Strict makes it fatal. There is no
// document-age check.
type Strictness string

const (
	Strict  Strictness = "strict"
	Normal  Strictness = "normal"
	Lenient Strictness = "lenient"
)

// Config is the flat, keyed configuration surface for the core. It
// deliberately has no nested sub-structs beyond what validator tags
// need, keeping one flat struct instead of a tree of option types.
type Config struct {
	// Provider
	ProviderKind ProviderKind `validate:"oneof=remote local none"`
	ModelName    string
	Endpoint     string
	APIKey       string

	// Rate limiting / backoff
	RequestsPerMinute int           `validate:"min=1"`
	BurstLimit        int           `validate:"min=1"`
	BackoffMin        time.Duration `validate:"required"`
	BackoffMax        time.Duration `validate:"required"`
	BackoffMultiplier float64       `validate:"min=1"`
	MaxAttempts       int           `validate:"min=1,max=10"`
	ProviderTimeout   time.Duration `validate:"required"`

	// Limits
	MaxFileSizeMB        int `validate:"min=1"`
	MaxTotalPages        int `validate:"min=1"`
	MaxPagesPerStatement int `validate:"min=1"`
	MinPagesPerStatement int `validate:"min=1"`
	MaxFilenameLength    int `validate:"min=1"`

	// Detection
	FragmentConfidenceThreshold float64 `validate:"min=0,max=1"`
	EnableFragmentFiltering     bool
	TextAnalysisCharCap         int `validate:"min=1"`

	// Paths
	InputDir           string
	OutputDir          string `validate:"required"`
	ProcessedInputDir  string
	QuarantineDir      string `validate:"required"`
	ErrorReportDir     string
	AllowedInputRoots  []string
	AllowedOutputRoots []string

	// Validation
	Strictness            Strictness `validate:"oneof=strict normal lenient"`
	RequireTextContent    bool
	MinTextContentRatio   float64 `validate:"min=0,max=1"`

	// Batch concurrency: one knob for documents in flight, one for
	// pages in flight within a single document.
	MaxConcurrentDocuments int `validate:"min=1,max=64"`
	IngestWorkers          int `validate:"min=1,max=16"`
	RetriesRemaining       int `validate:"min=0,max=10"`

	// Sink, optional.
	SinkEnabled         bool
	SinkMandatory       bool
	SinkEndpoint        string
	SinkToken           string
	SinkTags            []string
	SinkCorrespondent   string
	SinkDocumentType    string
	SinkStoragePath     string
	SinkTagApplyWaitSec int `validate:"min=0,max=60"`
	SinkErrorTags       []string
	SinkErrorSeverity   string
	SinkQueryTimeoutSec int `validate:"min=1,max=300"`

	KnownBanks []string

	DebugOn bool
	Logger  logger.LogFunc
}

// NewDefaultConfig returns a Config populated with conservative
// production defaults.
func NewDefaultConfig() *Config {
	return &Config{
		ProviderKind: ProviderNone,

		RequestsPerMinute: 50,
		BurstLimit:        10,
		BackoffMin:        1 * time.Second,
		BackoffMax:        60 * time.Second,
		BackoffMultiplier: 2.0,
		MaxAttempts:       3,
		ProviderTimeout:   30 * time.Second,

		MaxFileSizeMB:        100,
		MaxTotalPages:        500,
		MaxPagesPerStatement: 50,
		MinPagesPerStatement: 1,
		MaxFilenameLength:    255,

		FragmentConfidenceThreshold: 0.3,
		EnableFragmentFiltering:     true,
		TextAnalysisCharCap:         15000,

		OutputDir:     "./output",
		QuarantineDir: "./quarantine",

		Strictness:          Normal,
		RequireTextContent:  true,
		MinTextContentRatio: 0.0,

		MaxConcurrentDocuments: 1,
		IngestWorkers:          1,
		RetriesRemaining:       2,

		SinkEnabled:         false,
		SinkMandatory:       false,
		SinkTagApplyWaitSec: 5,
		SinkQueryTimeoutSec: 30,

		KnownBanks: defaultKnownBanks(),

		DebugOn: false,
	}
}

// Validate checks the configuration's structural invariants.
func (cfg *Config) Validate() error {
	logger.Debug("Validating Config Object")
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return err
	}
	if cfg.BackoffMax < cfg.BackoffMin {
		return errInvalidConfig("backoff_max must be >= backoff_min")
	}
	if cfg.MinPagesPerStatement > cfg.MaxPagesPerStatement {
		return errInvalidConfig("min_pages_per_statement must be <= max_pages_per_statement")
	}
	return nil
}

type configError string

func (e configError) Error() string { return string(e) }

func errInvalidConfig(msg string) error { return configError("invalid config: " + msg) }

func defaultKnownBanks() []string {
	return []string{
		"westpac", "commonwealth", "anz", "nab", "bendigo", "suncorp",
		"chase", "wellsfargo", "bankofamerica", "citibank", "jpmorgan",
		"hsbc", "barclays", "lloyds", "tdbank",
	}
}
