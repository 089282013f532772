// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tomtom215/catalogsync/internal/auth"
	"github.com/tomtom215/catalogsync/internal/logging"
	"github.com/tomtom215/catalogsync/internal/transport"
)

// ErrSessionEstablishment wraps every registration or authentication failure.
var ErrSessionEstablishment = errors.New("session establishment failed")

// TokenType is the token type the service expects for identity provider tokens.
const TokenType = "PJWT"

// Handle is an authenticated session. It lives as long as the process; the
// service has no logout.
type Handle struct {
	transport.Client

	DeviceID string
	ClientID string
}

// Establisher registers this client with the service and authenticates it.
type Establisher struct {
	client    transport.Client
	platform  string
	accessKey string
}

// NewEstablisher creates an Establisher over client.
func NewEstablisher(client transport.Client, platform, accessKey string) *Establisher {
	return &Establisher{client: client, platform: platform, accessKey: accessKey}
}

// Establish registers a fresh device identity and authenticates with cred.
// The client identity is the raw ID token when present, otherwise a random
// UUID. Nothing is retried.
func (e *Establisher) Establish(ctx context.Context, cred *auth.Credential) (*Handle, error) {
	if cred == nil || cred.AccessToken == "" {
		return nil, fmt.Errorf("%w: no access token", ErrSessionEstablishment)
	}
	log := logging.Ctx(ctx).With().Str("component", "session").Logger()

	h := &Handle{
		Client:   e.client,
		DeviceID: uuid.NewString(),
		ClientID: cred.IDToken,
	}
	if h.ClientID == "" {
		h.ClientID = uuid.NewString()
		log.Debug().Msg("No ID token, using random client identity")
	} else if claims, err := auth.PeekIDToken(cred.IDToken); err != nil {
		log.Debug().Err(err).Msg("ID token claims unreadable")
	} else {
		log.Debug().
			Str("subject", claims.Subject).
			Str("issuer", claims.Issuer).
			Time("expires_at", claims.ExpiresAt).
			Msg("ID token claims")
	}

	reg := transport.Registration{
		ClientID:  h.ClientID,
		DeviceID:  h.DeviceID,
		Platform:  e.platform,
		AccessKey: e.accessKey,
	}
	if err := e.client.Register(ctx, reg); err != nil {
		return nil, fmt.Errorf("%w: register: %w", ErrSessionEstablishment, err)
	}

	if err := e.client.Authenticate(ctx, cred.AccessToken, TokenType); err != nil {
		return nil, fmt.Errorf("%w: authenticate: %w", ErrSessionEstablishment, err)
	}

	log.Info().Str("device_id", h.DeviceID).Msg("Session established")
	return h, nil
}
