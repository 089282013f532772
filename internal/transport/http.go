// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/catalogsync/internal/logging"
)

// maxErrorBody bounds how much of a non-200 body ends up in an error.
const maxErrorBody = 4096

// requestConfig holds configuration for building HTTP requests
type requestConfig struct {
	method string
	path   string
	body   any
}

// httpWire carries operations as JSON POSTs:
//
//	register      POST /v1/clients/register
//	authenticate  POST /v1/auth
//	documents     POST /v1/config/documents
//	query         POST /v1/query/{name}
//
// Every answer is a Response envelope with HTTP 200.
type httpWire struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client

	mu        sync.Mutex
	token     string
	tokenType string
}

func newHTTPWire(cfg Config) *httpWire {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &httpWire{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (w *httpWire) roundTrip(ctx context.Context, op, name string, payload any) (*Response, error) {
	var path string
	switch op {
	case opRegister:
		path = "/v1/clients/register"
	case opAuthenticate:
		path = "/v1/auth"
	case opDocuments:
		path = "/v1/config/documents"
	case opQuery:
		path = "/v1/query/" + url.PathEscape(name)
	default:
		return nil, fmt.Errorf("unknown operation %q", op)
	}

	var resp Response
	if err := w.doRequest(ctx, requestConfig{method: http.MethodPost, path: path, body: payload}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// doRequest executes a request against the service and decodes the envelope.
func (w *httpWire) doRequest(ctx context.Context, cfg requestConfig, result interface{}) error {
	reqURL := w.baseURL + cfg.path

	var body io.Reader = http.NoBody
	if cfg.body != nil {
		data, err := json.Marshal(cfg.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cfg.method, reqURL, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if cfg.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if w.userAgent != "" {
		req.Header.Set("User-Agent", w.userAgent)
	}

	w.mu.Lock()
	if w.token != "" {
		req.Header.Set("Authorization", w.tokenType+" "+w.token)
	}
	w.mu.Unlock()

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", cfg.path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		logging.Debug().
			Str("path", cfg.path).
			Int("status", resp.StatusCode).
			Str("body", logging.SanitizeError(string(snippet))).
			Msg("Query service returned non-200 status")
		return fmt.Errorf("unexpected status: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

func (w *httpWire) setAuth(token, tokenType string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.token = token
	w.tokenType = tokenType
}

func (w *httpWire) close() error {
	w.httpClient.CloseIdleConnections()
	return nil
}
