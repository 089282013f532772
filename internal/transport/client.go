// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/catalogsync/internal/logging"
	"github.com/tomtom215/catalogsync/internal/metrics"
)

// Client is the request/response surface of the query service.
// Calls block until the service answers or ctx is done.
type Client interface {
	Register(ctx context.Context, reg Registration) error
	Authenticate(ctx context.Context, token, tokenType string) error
	GetDocument(ctx context.Context, name string) (*Document, error)
	GetDocuments(ctx context.Context, names []string) (map[string]*Document, error)
	Query(ctx context.Context, name string, payload any) (*Response, error)
	Close() error
}

// Registration identifies this client to the service.
type Registration struct {
	ClientID  string `json:"clientId"`
	DeviceID  string `json:"deviceId"`
	Platform  string `json:"platform,omitempty"`
	AccessKey string `json:"accessKey,omitempty"`
}

// Response is the envelope of every service answer. Error 0 means success.
type Response struct {
	Error   int             `json:"error"`
	Message string          `json:"message,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

// Document is a named configuration document made of content blocks.
type Document struct {
	ID     string           `json:"id"`
	Blocks map[string]Block `json:"blocks"`
}

// Block is one content block of a Document. Exactly one of ContentString and
// ContentBinary is normally populated.
type Block struct {
	ContentType   string `json:"contentType,omitempty"`
	ContentString string `json:"contentString,omitempty"`
	ContentBinary []byte `json:"contentBinary,omitempty"`
}

// Bytes returns the block payload, preferring the binary content.
func (b Block) Bytes() []byte {
	if len(b.ContentBinary) > 0 {
		return b.ContentBinary
	}
	return []byte(b.ContentString)
}

var (
	// ErrDocumentNotFound is returned when a requested document is absent from the answer.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrUnsupportedScheme is returned by Dial for URLs that select no wire.
	ErrUnsupportedScheme = errors.New("unsupported service URL scheme")
)

// StatusError reports a non-zero service code on an operation that has no
// use for partial answers (registration, authentication, document fetch).
type StatusError struct {
	Op      string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: service error %d: %s", e.Op, e.Code, e.Message)
}

// Config configures a transport.
type Config struct {
	// URL selects the wire: http/https for HTTP+JSON, ws/wss for WebSocket+JSON.
	URL       string
	Timeout   time.Duration
	UserAgent string
}

// Operation names shared by both wires.
const (
	opRegister     = "register"
	opAuthenticate = "authenticate"
	opDocuments    = "documents"
	opQuery        = "query"
)

// roundTripper carries one operation over a concrete wire.
type roundTripper interface {
	roundTrip(ctx context.Context, op, name string, payload any) (*Response, error)
	setAuth(token, tokenType string)
	close() error
}

// Dial returns a Client for cfg.URL. WebSocket transports connect immediately.
func Dial(ctx context.Context, cfg Config) (Client, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse service URL: %w", err)
	}

	var rt roundTripper
	switch u.Scheme {
	case "http", "https":
		rt = newHTTPWire(cfg)
	case "ws", "wss":
		rt, err = dialWebSocketWire(ctx, cfg)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	logging.Debug().Str("scheme", u.Scheme).Str("host", u.Host).Msg("Query service transport ready")
	return &client{rt: rt}, nil
}

// client implements Client on top of a wire.
type client struct {
	rt roundTripper
}

func (c *client) call(ctx context.Context, op, name string, payload any) (*Response, error) {
	label := op
	if name != "" && op == opQuery {
		label = op + ":" + name
	}

	start := time.Now()
	resp, err := c.rt.roundTrip(ctx, op, name, payload)
	if err != nil {
		return nil, err
	}
	metrics.RecordQuery(label, time.Since(start), resp.Error)

	resp.Result = unwrapResult(resp.Result)
	return resp, nil
}

// Register implements Client.
func (c *client) Register(ctx context.Context, reg Registration) error {
	resp, err := c.call(ctx, opRegister, "", reg)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	if resp.Error != 0 {
		return &StatusError{Op: opRegister, Code: resp.Error, Message: resp.Message}
	}
	return nil
}

// Authenticate implements Client. Subsequent calls carry the token.
func (c *client) Authenticate(ctx context.Context, token, tokenType string) error {
	resp, err := c.call(ctx, opAuthenticate, "", map[string]string{
		"token":     token,
		"tokenType": tokenType,
	})
	if err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}
	if resp.Error != 0 {
		return &StatusError{Op: opAuthenticate, Code: resp.Error, Message: resp.Message}
	}
	c.rt.setAuth(token, tokenType)
	return nil
}

// GetDocument implements Client.
func (c *client) GetDocument(ctx context.Context, name string) (*Document, error) {
	docs, err := c.GetDocuments(ctx, []string{name})
	if err != nil {
		return nil, err
	}
	return docs[name], nil
}

// GetDocuments implements Client. Every requested name must be present in the answer.
func (c *client) GetDocuments(ctx context.Context, names []string) (map[string]*Document, error) {
	resp, err := c.call(ctx, opDocuments, "", map[string][]string{"names": names})
	if err != nil {
		return nil, fmt.Errorf("get documents: %w", err)
	}
	if resp.Error != 0 {
		return nil, &StatusError{Op: opDocuments, Code: resp.Error, Message: resp.Message}
	}

	docs := make(map[string]*Document, len(names))
	if len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, &docs); err != nil {
			return nil, fmt.Errorf("decode documents: %w", err)
		}
	}
	for _, name := range names {
		doc, ok := docs[name]
		if !ok || doc == nil {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, name)
		}
		if doc.ID == "" {
			doc.ID = name
		}
	}
	return docs, nil
}

// Query implements Client. A non-zero service code is returned in the
// Response, not as an error; the caller decides what it means.
func (c *client) Query(ctx context.Context, name string, payload any) (*Response, error) {
	resp, err := c.call(ctx, opQuery, name, payload)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	return resp, nil
}

// Close implements Client.
func (c *client) Close() error {
	return c.rt.close()
}

// unwrapResult decodes a result delivered as a JSON string holding JSON text.
// Any other result is returned unchanged.
func unwrapResult(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return raw
	}
	var inner string
	if err := json.Unmarshal(trimmed, &inner); err != nil {
		return raw
	}
	innerTrimmed := bytes.TrimSpace([]byte(inner))
	if len(innerTrimmed) == 0 || !json.Valid(innerTrimmed) {
		return raw
	}
	return json.RawMessage(innerTrimmed)
}
