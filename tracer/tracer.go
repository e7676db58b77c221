// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package tracer

import (
	"fmt"
	"sync"
)

var (
	mu            sync.Mutex
	traceMessages []string
)

// Log just adds a message to the trace log. Batch processing runs one
// goroutine per document, so this is guarded the same way the rest of
// the package-level trace state needs to be.
func Log(msg string) {
	mu.Lock()
	defer mu.Unlock()
	traceMessages = append(traceMessages, msg)
}

// Flush prints the accumulated trace log and resets it.
func Flush() {
	mu.Lock()
	msgs := traceMessages
	traceMessages = nil
	mu.Unlock()

	for _, msg := range msgs {
		fmt.Println(msg)
	}
}
