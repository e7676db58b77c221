// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package sink

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// FilesystemSource reads source PDFs from a local directory.
type FilesystemSource struct {
	Dir string
}

// NewFilesystemSource builds a FilesystemSource rooted at dir.
func NewFilesystemSource(dir string) *FilesystemSource {
	return &FilesystemSource{Dir: dir}
}

func (s *FilesystemSource) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if filepath.Ext(e.Name()) == ".pdf" {
			ids = append(ids, e.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *FilesystemSource) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.Dir, id))
}

// FilesystemSink writes output PDFs to a local directory.
type FilesystemSink struct {
	Dir string
}

// NewFilesystemSink builds a FilesystemSink rooted at dir.
func NewFilesystemSink(dir string) *FilesystemSink {
	return &FilesystemSink{Dir: dir}
}

func (s *FilesystemSink) Put(ctx context.Context, name string, r io.Reader) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("sink: creating directory: %w", err)
	}
	f, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return fmt.Errorf("sink: creating file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("sink: writing file: %w", err)
	}
	return f.Sync()
}
