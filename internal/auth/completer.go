// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package auth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/browser"

	"github.com/tomtom215/catalogsync/internal/logging"
)

// AuthorizationCompleter hands an authorization URL to whoever can complete
// the interactive login and returns the redirect URL the provider sent back,
// query string included.
type AuthorizationCompleter interface {
	Complete(ctx context.Context, authURL string) (string, error)
}

// StaticCompleter returns a callback URL obtained ahead of time, for
// automation. It never looks at the authorization URL.
type StaticCompleter struct {
	CallbackURL string
}

// Complete implements AuthorizationCompleter.
func (s StaticCompleter) Complete(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.CallbackURL == "" {
		return "", errors.New("no callback URL configured")
	}
	return s.CallbackURL, nil
}

// PromptCompleter prints the authorization URL, optionally opens it in the
// system browser, and reads the redirect URL as one line from In.
type PromptCompleter struct {
	In  io.Reader
	Out io.Writer

	// OpenBrowser launches the system browser on the authorization URL.
	OpenBrowser bool

	// openURL replaces browser.OpenURL in tests.
	openURL func(string) error
}

// NewPromptCompleter returns a PromptCompleter reading from in and writing to out.
func NewPromptCompleter(in io.Reader, out io.Writer, openBrowser bool) *PromptCompleter {
	return &PromptCompleter{In: in, Out: out, OpenBrowser: openBrowser}
}

// Complete implements AuthorizationCompleter. The read is abandoned when ctx
// is canceled; the reading goroutine then exits with the process.
func (p *PromptCompleter) Complete(ctx context.Context, authURL string) (string, error) {
	fmt.Fprintln(p.Out, "Log in with the following URL:")
	fmt.Fprintln(p.Out)
	fmt.Fprintln(p.Out, authURL)
	fmt.Fprintln(p.Out)
	fmt.Fprintln(p.Out, "After logging in, the browser is redirected to an address that does not load.")
	fmt.Fprintln(p.Out, "Copy that full address (it contains ?code=...) from the address bar or the")
	fmt.Fprintln(p.Out, "developer tools network tab, paste it here and press Enter:")

	if p.OpenBrowser {
		open := p.openURL
		if open == nil {
			open = browser.OpenURL
		}
		if err := open(authURL); err != nil {
			logging.Warn().Err(err).Msg("Could not open browser, open the URL manually")
		}
	}

	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := bufio.NewReader(p.In).ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			ch <- result{err: fmt.Errorf("read callback URL: %w", err)}
			return
		}
		ch <- result{line: strings.TrimSpace(line)}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return "", r.err
		}
		if r.line == "" {
			return "", errors.New("empty callback URL")
		}
		return r.line, nil
	}
}
