// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

/*
Package auth obtains an access token from the identity provider using the
OAuth2 authorization-code flow with PKCE (RFC 7636).

The identity provider only redirects to a custom application URI that no
browser can load, so the login cannot be completed by a local callback
listener. Instead an AuthorizationCompleter hands the authorization URL to the
operator and returns the redirect URL they copied back:

  - PromptCompleter: prints the URL, optionally opens the system browser, and
    reads one line from the terminal
  - StaticCompleter: returns a callback URL supplied through configuration,
    for scripted runs with a freshly obtained code

Flow:

 1. A 32-byte random verifier and its S256 challenge are generated.
 2. The authorization URL carries the challenge both as code_challenge and as
    the state parameter, plus audience and ui_locales.
 3. The callback is parsed locally; a URL without '?' or without a code
    fails before any network request.
 4. The code is exchanged at the token endpoint together with the verifier.

Every failure wraps ErrAuthenticationFailure and nothing is retried.

Usage Example:

	acq := auth.NewAcquirer(auth.ClientDescriptor{
	    AuthorizeURL: cfg.Identity.AuthorizeURL,
	    TokenURL:     cfg.Identity.TokenURL,
	    ClientID:     cfg.Identity.ClientID,
	    RedirectURI:  cfg.Identity.RedirectURI,
	    Scopes:       cfg.Identity.Scopes,
	}, auth.NewPromptCompleter(os.Stdin, os.Stderr, true), nil)

	cred, err := acq.Acquire(ctx)
	if err != nil {
	    return err // errors.Is(err, auth.ErrAuthenticationFailure)
	}

PeekIDToken decodes the ID token claims without verification, for logging.
*/
package auth
