// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package quarantine

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Entry summarizes one quarantined document for the status listing.
type Entry struct {
	FilePath     string   `json:"file_path"`
	ReportPath   string   `json:"report_path"`
	Category     Category `json:"category"`
	StageCount   int      `json:"stage_error_count"`
}

// Status lists every quarantined document in dir, paired with its
// error report.
func Status(dir string) ([]Entry, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []Entry
	for _, e := range entries {
		if e.IsDir() || strings.HasSuffix(e.Name(), ".error.json") {
			continue
		}
		reportPath := strings.TrimSuffix(filepath.Join(dir, e.Name()), filepath.Ext(e.Name())) + ".error.json"
		entry := Entry{FilePath: filepath.Join(dir, e.Name()), ReportPath: reportPath, Category: CategoryUnknown}

		if data, err := os.ReadFile(reportPath); err == nil {
			var report ErrorReport
			if json.Unmarshal(data, &report) == nil {
				entry.Category = report.Category
				entry.StageCount = len(report.StageErrors)
			}
		}
		out = append(out, entry)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].FilePath < out[j].FilePath })
	return out, nil
}

// Clean removes a quarantined document and its report by file path,
// returning whether anything was removed.
func Clean(filePath string) (bool, error) {
	reportPath := strings.TrimSuffix(filePath, filepath.Ext(filePath)) + ".error.json"

	removed := false
	if err := os.Remove(filePath); err == nil {
		removed = true
	} else if !os.IsNotExist(err) {
		return removed, err
	}

	if err := os.Remove(reportPath); err == nil {
		removed = true
	} else if !os.IsNotExist(err) {
		return removed, err
	}

	return removed, nil
}

// CleanAll removes every quarantined document under dir.
func CleanAll(dir string) (int, error) {
	entries, err := Status(dir)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, e := range entries {
		removed, err := Clean(e.FilePath)
		if err != nil {
			return count, err
		}
		if removed {
			count++
		}
	}
	return count, nil
}
