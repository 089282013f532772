// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package catalog

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultProbeDelay spaces single-key probes so that fallback probing does not
// trip the service's own rate limiting.
const DefaultProbeDelay = 350 * time.Millisecond

// Pacer is waited on before every single-key probe.
type Pacer interface {
	Wait(ctx context.Context) error
}

// ratePacer allows one probe per interval. The bucket starts empty, so the
// first probe waits a full interval too.
type ratePacer struct {
	limiter *rate.Limiter
}

// NewRatePacer returns a Pacer that lets at most one probe start per
// interval. A zero or negative interval never waits.
func NewRatePacer(interval time.Duration) Pacer {
	if interval <= 0 {
		return noWait{}
	}
	l := rate.NewLimiter(rate.Every(interval), 1)
	l.Allow()
	return &ratePacer{limiter: l}
}

func (p *ratePacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

type noWait struct{}

func (noWait) Wait(ctx context.Context) error {
	return ctx.Err()
}
