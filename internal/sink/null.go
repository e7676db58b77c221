// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package sink

import (
	"context"
	"io"
)

// NullSink discards everything written to it.
type NullSink struct{}

func (NullSink) Put(ctx context.Context, name string, r io.Reader) error {
	_, err := io.Copy(io.Discard, r)
	return err
}

// NullSource always reports no documents available.
type NullSource struct{}

func (NullSource) List(ctx context.Context) ([]string, error) { return nil, nil }

func (NullSource) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	return nil, io.EOF
}
