// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package sink

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesystemSink_PutWritesFile(t *testing.T) {
	dir := t.TempDir()
	s := NewFilesystemSink(dir)

	err := s.Put(context.Background(), "out.pdf", bytes.NewReader([]byte("content")))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestFilesystemSource_ListsOnlyPDFs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.pdf"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b"), 0o644))

	src := NewFilesystemSource(dir)
	ids, err := src.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf"}, ids)
}

func TestInMemorySink_StoresAndRetrieves(t *testing.T) {
	s := NewInMemorySink()
	require.NoError(t, s.Put(context.Background(), "x.pdf", bytes.NewReader([]byte("hi"))))

	data, ok := s.Get("x.pdf")
	require.True(t, ok)
	assert.Equal(t, "hi", string(data))
	assert.Equal(t, []string{"x.pdf"}, s.Names())
}

func TestNullSink_DiscardsInput(t *testing.T) {
	var s NullSink
	err := s.Put(context.Background(), "ignored.pdf", bytes.NewReader([]byte("discarded")))
	assert.NoError(t, err)
}

func TestInMemorySource_OpenUnknownErrors(t *testing.T) {
	src := NewInMemorySource(map[string][]byte{"known.pdf": []byte("x")})
	_, err := src.Open(context.Background(), "missing.pdf")
	assert.Error(t, err)

	r, err := src.Open(context.Background(), "known.pdf")
	require.NoError(t, err)
	defer r.Close()
}
