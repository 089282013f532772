// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/catalogsync/internal/logging"
)

// ErrConnectionBroken is returned after a WebSocket exchange was interrupted.
// The wire cannot resynchronize and must be re-dialed.
var ErrConnectionBroken = errors.New("websocket connection broken")

// wsRequest is one outbound frame.
type wsRequest struct {
	ID      uint64 `json:"id"`
	Op      string `json:"op"`
	Name    string `json:"name,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// wsResponse is one inbound frame: the Response envelope tagged with the request id.
type wsResponse struct {
	ID uint64 `json:"id"`
	Response
}

// webSocketWire carries operations as JSON text frames over one connection.
// Exchanges are strictly sequential: write a request, read until the frame
// with the same id arrives.
type webSocketWire struct {
	timeout time.Duration

	mu     sync.Mutex
	conn   *websocket.Conn
	nextID uint64
	broken bool
}

func dialWebSocketWire(ctx context.Context, cfg Config) (*webSocketWire, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	dialer := websocket.Dialer{
		HandshakeTimeout:  10 * time.Second,
		EnableCompression: true,
	}

	header := http.Header{}
	if cfg.UserAgent != "" {
		header.Set("User-Agent", cfg.UserAgent)
	}

	conn, resp, err := dialer.DialContext(ctx, cfg.URL, header)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket dial failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("websocket dial: %w", err)
	}

	logging.Debug().Msg("Query service WebSocket connected")
	return &webSocketWire{timeout: timeout, conn: conn}, nil
}

func (w *webSocketWire) roundTrip(ctx context.Context, op, name string, payload any) (*Response, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.conn == nil {
		return nil, errors.New("websocket connection closed")
	}
	if w.broken {
		return nil, ErrConnectionBroken
	}

	w.nextID++
	id := w.nextID

	deadline := time.Now().Add(w.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	// Unblock the read when ctx is canceled mid-exchange.
	stop := context.AfterFunc(ctx, func() {
		_ = w.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	data, err := json.Marshal(wsRequest{ID: id, Op: op, Name: name, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}

	_ = w.conn.SetWriteDeadline(deadline)
	if err := w.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		w.broken = true
		return nil, fmt.Errorf("write frame: %w", err)
	}

	_ = w.conn.SetReadDeadline(deadline)
	for {
		_, msg, err := w.conn.ReadMessage()
		if err != nil {
			w.broken = true
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("read frame: %w", err)
		}

		var frame wsResponse
		if err := json.Unmarshal(msg, &frame); err != nil {
			w.broken = true
			return nil, fmt.Errorf("decode frame: %w", err)
		}
		if frame.ID != id {
			logging.Debug().Uint64("want", id).Uint64("got", frame.ID).Msg("Discarding stale WebSocket frame")
			continue
		}

		resp := frame.Response
		return &resp, nil
	}
}

// setAuth is a no-op: the connection itself carries the authenticated session.
func (w *webSocketWire) setAuth(string, string) {}

func (w *webSocketWire) close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.conn == nil {
		return nil
	}

	_ = w.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	err := w.conn.Close()
	w.conn = nil
	return err
}
