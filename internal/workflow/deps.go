// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package workflow

import (
	"github.com/sassoftware/viya-statement-splitter/internal/boundary"
	"github.com/sassoftware/viya-statement-splitter/internal/pdfbackend"
	"github.com/sassoftware/viya-statement-splitter/internal/provider"
	"github.com/sassoftware/viya-statement-splitter/internal/resilience"
	"github.com/sassoftware/viya-statement-splitter/internal/sink"
)

// Dependencies collects every external collaborator the driver needs.
// Built once per process and shared (read-only after construction)
// across every concurrent Process call.
type Dependencies struct {
	Backend    pdfbackend.Backend
	Provider   provider.Provider
	Policy     *resilience.Policy
	Cache      *boundary.Cache
	Sink       sink.DocumentSink
	KnownBanks map[string]bool
}
