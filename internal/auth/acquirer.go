// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/tomtom215/catalogsync/internal/logging"
)

// Acquirer runs the authorization-code + PKCE login once and returns the
// resulting Credential.
type Acquirer struct {
	desc      ClientDescriptor
	completer AuthorizationCompleter
	client    *http.Client
	oauth     *oauth2.Config
}

// NewAcquirer creates an Acquirer for desc. A nil httpClient uses
// http.DefaultClient's transport; the descriptor's UserAgent is set on every
// token request either way.
func NewAcquirer(desc ClientDescriptor, completer AuthorizationCompleter, httpClient *http.Client) *Acquirer {
	base := http.DefaultTransport
	var timeout = http.DefaultClient.Timeout
	if httpClient != nil {
		if httpClient.Transport != nil {
			base = httpClient.Transport
		}
		timeout = httpClient.Timeout
	}

	return &Acquirer{
		desc:      desc,
		completer: completer,
		client: &http.Client{
			Transport: &userAgentTransport{base: base, userAgent: desc.UserAgent},
			Timeout:   timeout,
		},
		oauth: &oauth2.Config{
			ClientID: desc.ClientID,
			Endpoint: oauth2.Endpoint{
				AuthURL:   desc.AuthorizeURL,
				TokenURL:  desc.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
			RedirectURL: desc.RedirectURI,
			Scopes:      desc.Scopes,
		},
	}
}

// AuthorizationURL builds the URL the operator must open. The PKCE challenge
// doubles as the state parameter, which the identity provider echoes back.
func (a *Acquirer) AuthorizationURL(challenge string) string {
	opts := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("code_challenge", challenge),
		oauth2.SetAuthURLParam("code_challenge_method", pkceMethod),
	}
	if a.desc.Audience != "" {
		opts = append(opts, oauth2.SetAuthURLParam("audience", a.desc.Audience))
	}
	if a.desc.Locale != "" {
		opts = append(opts, oauth2.SetAuthURLParam("ui_locales", a.desc.Locale))
	}
	return a.oauth.AuthCodeURL(challenge, opts...)
}

// Acquire performs the login. The callback URL is parsed before any network
// request is made, so a malformed paste costs nothing. Nothing is retried.
func (a *Acquirer) Acquire(ctx context.Context) (*Credential, error) {
	log := logging.Ctx(ctx).With().Str("component", "auth").Logger()

	verifier := GeneratePKCECodeVerifier()
	challenge := GeneratePKCECodeChallenge(verifier)

	authURL := a.AuthorizationURL(challenge)
	log.Debug().Str("authorize_url", logging.SanitizeURL(authURL)).Msg("Authorization URL built")

	callback, err := a.completer.Complete(ctx, authURL)
	if err != nil {
		return nil, fmt.Errorf("%w: complete authorization: %w", ErrAuthenticationFailure, err)
	}

	code, err := ParseCallback(callback)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthenticationFailure, err)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.client)
	token, err := a.oauth.Exchange(ctx, code,
		oauth2.VerifierOption(verifier),
		oauth2.SetAuthURLParam("state", challenge),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthenticationFailure, describeExchangeError(err))
	}

	cred := &Credential{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Expiry:       token.Expiry,
	}
	if idToken, ok := token.Extra("id_token").(string); ok {
		cred.IDToken = idToken
	}

	log.Info().
		Bool("id_token", cred.IDToken != "").
		Time("expiry", cred.Expiry).
		Msg("Access token acquired")
	return cred, nil
}

// describeExchangeError turns an identity provider error response into a
// readable error while keeping the original in the chain.
func describeExchangeError(err error) error {
	var rerr *oauth2.RetrieveError
	if !errors.As(err, &rerr) {
		return fmt.Errorf("token exchange: %w", err)
	}
	status := 0
	if rerr.Response != nil {
		status = rerr.Response.StatusCode
	}
	switch {
	case rerr.ErrorCode != "" && rerr.ErrorDescription != "":
		return fmt.Errorf("token exchange: status %d: %s: %s: %w", status, rerr.ErrorCode, rerr.ErrorDescription, err)
	case rerr.ErrorCode != "":
		return fmt.Errorf("token exchange: status %d: %s: %w", status, rerr.ErrorCode, err)
	default:
		return fmt.Errorf("token exchange: status %d: %w", status, err)
	}
}

// userAgentTransport sets the User-Agent header on outgoing requests.
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.userAgent == "" {
		return t.base.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(req)
}
