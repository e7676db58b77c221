// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package quarantine moves a failed document aside with a structured
// error report, and implements the status/clean maintenance
// operations over the quarantine directory.
package quarantine

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sassoftware/viya-statement-splitter/logger"
)

// Category classifies the failure for the recovery_hints lookup.
type Category string

const (
	CategoryEncrypted   Category = "encrypted"
	CategoryCorrupted   Category = "corrupted"
	CategoryProvider    Category = "provider_unavailable"
	CategoryValidation  Category = "validation_failed"
	CategoryOutput      Category = "output_validation_failed"
	CategorySink        Category = "sink_failed"
	CategoryUnknown     Category = "unknown"
)

var recoveryHints = map[Category][]string{
	CategoryEncrypted:  {"supply the document password out of band", "re-run after decrypting the source PDF"},
	CategoryCorrupted:  {"verify the source PDF opens in a standard viewer", "re-scan or re-export the source document"},
	CategoryProvider:   {"check provider endpoint connectivity", "re-run once the provider is reachable; pattern fallback may also apply"},
	CategoryValidation: {"review the hallucination alerts in this report", "re-run with a stricter or looser validation profile"},
	CategoryOutput:     {"inspect the generated files manually", "re-run the split step after confirming page ranges"},
	CategorySink:       {"check sink connectivity and credentials", "re-run once the sink is reachable"},
	CategoryUnknown:    {"inspect the stage_errors list for detail"},
}

// StageError records one failed pipeline stage.
type StageError struct {
	Stage   string    `json:"stage"`
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// ErrorReport is the JSON document written alongside a quarantined file.
type ErrorReport struct {
	SourcePath     string       `json:"source_path"`
	Category       Category     `json:"category"`
	StageErrors    []StageError `json:"stage_errors"`
	RecoveryHints  []string     `json:"recovery_hints"`
	QuarantinedAt  time.Time    `json:"quarantined_at"`
}

// NewErrorReport builds a report with the category's canned recovery
// hints attached.
func NewErrorReport(sourcePath string, category Category, stageErrors []StageError, quarantinedAt time.Time) ErrorReport {
	hints, ok := recoveryHints[category]
	if !ok {
		hints = recoveryHints[CategoryUnknown]
	}
	return ErrorReport{
		SourcePath:    sourcePath,
		Category:      category,
		StageErrors:   stageErrors,
		RecoveryHints: hints,
		QuarantinedAt: quarantinedAt,
	}
}

// Move relocates sourcePath into quarantineDir, writing a "<name>.error.json"
// report beside it. It prefers os.Rename (atomic on the same filesystem)
// and falls back to copy+fsync+remove across filesystems.
func Move(sourcePath, quarantineDir string, report ErrorReport) (string, error) {
	if err := os.MkdirAll(quarantineDir, 0o755); err != nil {
		return "", fmt.Errorf("quarantine: creating directory: %w", err)
	}

	base := filepath.Base(sourcePath)
	dest := filepath.Join(quarantineDir, base)
	dest = uniquePath(dest)

	if err := os.Rename(sourcePath, dest); err != nil {
		if !errors.Is(err, os.ErrInvalid) && !isCrossDevice(err) {
			// Still try the copy fallback; rename can fail for reasons
			// other than cross-device linking (e.g. permission quirks
			// on some network filesystems).
			logger.Debug(fmt.Sprintf("quarantine: rename failed, falling back to copy: %v", err), true)
		}
		if err := copyAndFsync(sourcePath, dest); err != nil {
			return "", fmt.Errorf("quarantine: moving file: %w", err)
		}
		if err := os.Remove(sourcePath); err != nil {
			logger.Warn("quarantine: source file left in place after copy", "path", sourcePath, "err", err.Error())
		}
	}

	reportPath := strings.TrimSuffix(dest, filepath.Ext(dest)) + ".error.json"
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return dest, fmt.Errorf("quarantine: encoding report: %w", err)
	}
	if err := os.WriteFile(reportPath, data, 0o644); err != nil {
		return dest, fmt.Errorf("quarantine: writing report: %w", err)
	}

	return dest, nil
}

func isCrossDevice(err error) bool {
	return strings.Contains(err.Error(), "cross-device")
}

func copyAndFsync(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

func uniquePath(path string) string {
	if _, err := os.Stat(path); err != nil {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		if _, err := os.Stat(candidate); err != nil {
			return candidate
		}
	}
}
