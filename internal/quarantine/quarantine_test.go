// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package quarantine

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMove_RelocatesFileAndWritesReport(t *testing.T) {
	srcDir := t.TempDir()
	qDir := t.TempDir()

	src := filepath.Join(srcDir, "statement.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF-1.4"), 0o644))

	report := NewErrorReport(src, CategoryEncrypted, nil, time.Now())
	dest, err := Move(src, qDir, report)
	require.NoError(t, err)

	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	reportPath := filepath.Join(qDir, "statement.error.json")
	reportData, err := os.ReadFile(reportPath)
	require.NoError(t, err)

	var got ErrorReport
	require.NoError(t, json.Unmarshal(reportData, &got))
	assert.Equal(t, CategoryEncrypted, got.Category)
	assert.NotEmpty(t, got.RecoveryHints)
}

func TestMove_DisambiguatesOnCollision(t *testing.T) {
	srcDir := t.TempDir()
	qDir := t.TempDir()

	existing := filepath.Join(qDir, "statement.pdf")
	require.NoError(t, os.WriteFile(existing, []byte("old"), 0o644))

	src := filepath.Join(srcDir, "statement.pdf")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0o644))

	dest, err := Move(src, qDir, NewErrorReport(src, CategoryCorrupted, nil, time.Now()))
	require.NoError(t, err)
	assert.NotEqual(t, existing, dest)
}

func TestStatusAndClean(t *testing.T) {
	qDir := t.TempDir()
	src := filepath.Join(t.TempDir(), "a.pdf")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	dest, err := Move(src, qDir, NewErrorReport(src, CategoryValidation, nil, time.Now()))
	require.NoError(t, err)

	entries, err := Status(qDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, CategoryValidation, entries[0].Category)

	removed, err := Clean(dest)
	require.NoError(t, err)
	assert.True(t, removed)

	entries, err = Status(qDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStatus_NonexistentDirReturnsEmpty(t *testing.T) {
	entries, err := Status(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
