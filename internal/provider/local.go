// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package provider

// Local wraps a locally hosted model endpoint, e.g. a same-host inference server. No API key is
// required by convention.
type Local struct {
	*httpClient
}

// NewLocal constructs a Local provider.
func NewLocal(endpoint, model string) *Local {
	return &Local{httpClient: newHTTPClient(KindLocal, endpoint, model, "")}
}
