// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package splitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.OutputDir = ""

	_, err := New(cfg)
	assert.Error(t, err)
}

func TestNew_BuildsCoreFromValidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.OutputDir = t.TempDir()
	cfg.QuarantineDir = t.TempDir()

	core, err := New(cfg)
	require.NoError(t, err)
	assert.NotNil(t, core)
}

func TestNew_RemoteProviderKindBuildsWithoutDialing(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.OutputDir = t.TempDir()
	cfg.QuarantineDir = t.TempDir()
	cfg.ProviderKind = "remote"
	cfg.Endpoint = "http://localhost:0"

	_, err := New(cfg)
	assert.NoError(t, err) // remote is a recognized kind; construction itself never dials out
}

func TestQuarantineStatus_EmptyWhenNoQuarantineDir(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.OutputDir = t.TempDir()
	cfg.QuarantineDir = t.TempDir() + "/does-not-exist"

	core, err := New(cfg)
	require.NoError(t, err)

	entries, err := core.QuarantineStatus()
	require.NoError(t, err)
	assert.Empty(t, entries)
}
