// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package namer

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sassoftware/viya-statement-splitter/internal/pdfbackend"
)

// OutputCheck names one of the four post-write validations.
type OutputCheck string

const (
	CheckExistence OutputCheck = "existence"
	CheckPageSum   OutputCheck = "page_sum"
	CheckByteSize  OutputCheck = "byte_size"
	CheckContent   OutputCheck = "content_sample"
)

// OutputFailure describes one failed check against one output file.
type OutputFailure struct {
	Check OutputCheck
	Path  string
	Detail string
}

func (f OutputFailure) Error() string {
	return fmt.Sprintf("%s: %s: %s", f.Check, f.Path, f.Detail)
}

// ValidateOutputs runs the four checks against the written output
// files: every path must exist, page counts must sum to the source
// document's total, byte sizes must be non-trivial, and a content
// sample must be extractable from each file.
func ValidateOutputs(ctx OutputValidationContext) []OutputFailure {
	var failures []OutputFailure
	background := context.Background()

	pageSum := 0
	for _, path := range ctx.Paths {
		info, err := os.Stat(path)
		if err != nil {
			failures = append(failures, OutputFailure{Check: CheckExistence, Path: path, Detail: err.Error()})
			continue
		}
		if info.Size() < ctx.MinByteSize {
			failures = append(failures, OutputFailure{Check: CheckByteSize, Path: path, Detail: fmt.Sprintf("size %d below minimum %d", info.Size(), ctx.MinByteSize)})
		}

		pdfInfo, err := ctx.Backend.Open(background, path)
		if err != nil {
			failures = append(failures, OutputFailure{Check: CheckContent, Path: path, Detail: err.Error()})
			continue
		}
		pageSum += pdfInfo.NumPages

		sample, err := ctx.Backend.PageText(background, path, 1)
		if err != nil || len(strings.TrimSpace(sample)) == 0 {
			failures = append(failures, OutputFailure{Check: CheckContent, Path: path, Detail: "no extractable text on first page"})
		}
	}

	if pageSum != ctx.ExpectedTotalPages {
		failures = append(failures, OutputFailure{
			Check:  CheckPageSum,
			Detail: fmt.Sprintf("output pages sum to %d, want %d", pageSum, ctx.ExpectedTotalPages),
		})
	}

	return failures
}

// OutputValidationContext carries everything ValidateOutputs needs.
type OutputValidationContext struct {
	Paths              []string
	ExpectedTotalPages int
	MinByteSize        int64
	Backend            pdfbackend.Backend
}
