// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package sink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
)

// InMemorySink is a test double that buffers every Put in memory.
type InMemorySink struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewInMemorySink builds an empty InMemorySink.
func NewInMemorySink() *InMemorySink {
	return &InMemorySink{files: make(map[string][]byte)}
}

func (s *InMemorySink) Put(ctx context.Context, name string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = data
	return nil
}

// Get returns the bytes written under name, if any.
func (s *InMemorySink) Get(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[name]
	return data, ok
}

// Names returns every name written so far, sorted.
func (s *InMemorySink) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.files))
	for n := range s.files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// InMemorySource is a test double serving documents from an in-memory map.
type InMemorySource struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewInMemorySource builds an InMemorySource from a fixed id->bytes map.
func NewInMemorySource(files map[string][]byte) *InMemorySource {
	copied := make(map[string][]byte, len(files))
	for k, v := range files {
		copied[k] = v
	}
	return &InMemorySource{files: copied}
}

func (s *InMemorySource) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.files))
	for id := range s.files {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *InMemorySource) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[id]
	if !ok {
		return nil, fmt.Errorf("sink: no such document %q", id)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
