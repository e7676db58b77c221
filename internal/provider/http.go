// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/sassoftware/viya-statement-splitter/logger"
)

// httpClient is the shared net/http based implementation for Remote and
// Local providers — the only difference between the two kinds is the
// endpoint/auth shape, not the transport. A plain HTTP JSON client,
// not a vendor SDK, since the provider contract intentionally does not
// name a vendor wire protocol.
type httpClient struct {
	kind     Kind
	endpoint string
	model    string
	apiKey   string
	hc       *http.Client
	validate *validator.Validate
}

func newHTTPClient(kind Kind, endpoint, model, apiKey string) *httpClient {
	return &httpClient{
		kind:     kind,
		endpoint: endpoint,
		model:    model,
		apiKey:   apiKey,
		hc:       &http.Client{},
		validate: validator.New(),
	}
}

func (c *httpClient) Info() Info {
	return Info{Kind: c.kind, Model: c.model, Endpoint: c.endpoint}
}

func (c *httpClient) IsAvailable(ctx context.Context) bool {
	if c.endpoint == "" {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return false
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		logger.Debug(fmt.Sprintf("provider[%s]: availability probe failed: %v", c.kind, err), true)
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < 500
}

type analyzeRequest struct {
	Model      string `json:"model,omitempty"`
	Text       string `json:"text"`
	TotalPages int    `json:"total_pages"`
}

type analyzeResponse struct {
	Boundaries []BoundaryCandidate `json:"boundaries"`
}

type extractRequest struct {
	Model     string `json:"model,omitempty"`
	Text      string `json:"text"`
	StartPage int    `json:"start_page"`
	EndPage   int    `json:"end_page"`
}

func (c *httpClient) AnalyzeBoundaries(ctx context.Context, text string, totalPages int) ([]BoundaryCandidate, error) {
	var out analyzeResponse
	if err := c.postJSON(ctx, "/analyze_boundaries", analyzeRequest{Model: c.model, Text: text, TotalPages: totalPages}, &out); err != nil {
		return nil, err
	}
	for i := range out.Boundaries {
		if err := c.validate.Struct(out.Boundaries[i]); err != nil {
			return nil, &Error{Kind: ErrMalformed, Err: err}
		}
	}
	return out.Boundaries, nil
}

func (c *httpClient) ExtractMetadata(ctx context.Context, text string, startPage, endPage int) (MetadataCandidate, error) {
	var out MetadataCandidate
	if err := c.postJSON(ctx, "/extract_metadata", extractRequest{Model: c.model, Text: text, StartPage: startPage, EndPage: endPage}, &out); err != nil {
		return MetadataCandidate{}, err
	}
	if err := c.validate.Struct(out); err != nil {
		return MetadataCandidate{}, &Error{Kind: ErrMalformed, Err: err}
	}
	return out, nil
}

func (c *httpClient) postJSON(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &Error{Kind: ErrMalformed, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(payload))
	if err != nil {
		return &Error{Kind: ErrNetworkTimeout, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &Error{Kind: ErrNetworkTimeout, Err: err}
		}
		return &Error{Kind: ErrNetworkTimeout, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return &Error{Kind: ErrRateLimited, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	if resp.StatusCode >= 500 {
		return &Error{Kind: ErrNetworkTimeout, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	if resp.StatusCode >= 400 {
		return &Error{Kind: ErrMalformed, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: ErrMalformed, Err: err}
	}
	return nil
}
