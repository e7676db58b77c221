// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package provider

// Remote wraps a remote hosted model endpoint, authenticated with an API
// key.
type Remote struct {
	*httpClient
}

// NewRemote constructs a Remote provider.
func NewRemote(endpoint, model, apiKey string) *Remote {
	return &Remote{httpClient: newHTTPClient(KindRemote, endpoint, model, apiKey)}
}
