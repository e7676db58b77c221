// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package workflow

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/sassoftware/viya-statement-splitter/logger"
)

// BatchResult pairs one document's path with its Process outcome.
type BatchResult struct {
	SourcePath string
	Result     Result
	Err        error
}

// BatchProcess runs Process over every path in sourcePaths, bounding
// concurrency to maxConcurrent documents at a time with a
// semaphore.Weighted created for this call.
func BatchProcess(ctx context.Context, p Params, deps Dependencies, sourcePaths []string, maxConcurrent int) []BatchResult {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	sem := semaphore.NewWeighted(int64(maxConcurrent))

	results := make([]BatchResult, len(sourcePaths))
	var wg sync.WaitGroup

	for i, path := range sourcePaths {
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = BatchResult{SourcePath: path, Err: err}
			continue
		}

		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			defer sem.Release(1)

			logger.Debug("workflow: processing document", "path", path, true)
			res, err := Process(ctx, p, deps, path)
			results[i] = BatchResult{SourcePath: path, Result: res, Err: err}
		}(i, path)
	}

	wg.Wait()
	return results
}
