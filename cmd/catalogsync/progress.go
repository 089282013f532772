// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"golang.org/x/term"
	"golang.org/x/time/rate"

	"github.com/tomtom215/catalogsync/internal/catalog"
)

const (
	defaultBarWidth = 80
	redrawInterval  = 100 * time.Millisecond
)

// newProgress returns a progress bar on out when out is a terminal and quiet
// is off. Anything else gets no progress output.
func newProgress(out io.Writer, quiet bool) catalog.Progress {
	if quiet {
		return catalog.NopProgress{}
	}
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return catalog.NopProgress{}
	}
	width := defaultBarWidth
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
		width = w
	}
	return newTerminalProgress(out, width, time.Now)
}

// terminalProgress redraws a single status line with carriage returns.
type terminalProgress struct {
	out    io.Writer
	width  int
	now    func() time.Time
	redraw *rate.Limiter

	mu    sync.Mutex
	total int
	done  int
	desc  string
}

func newTerminalProgress(out io.Writer, width int, now func() time.Time) *terminalProgress {
	return &terminalProgress{
		out:    out,
		width:  width,
		now:    now,
		redraw: rate.NewLimiter(rate.Every(redrawInterval), 1),
	}
}

func (p *terminalProgress) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
	p.draw(true)
}

func (p *terminalProgress) Describe(desc string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.desc = desc
	p.draw(true)
}

func (p *terminalProgress) Add(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done += n
	p.draw(false)
}

func (p *terminalProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.draw(true)
	fmt.Fprintln(p.out)
}

// draw must be called with mu held. Forced draws still take a token so the
// next unforced one waits a full interval.
func (p *terminalProgress) draw(force bool) {
	if !p.redraw.AllowN(p.now(), 1) && !force {
		return
	}
	fmt.Fprint(p.out, "\r"+renderBar(p.desc, p.done, p.total, p.width))
}

// renderBar formats "label [=====     ] done/total" to width-1 visible
// columns. The counter keeps the room of "total/total" so the bar does not
// shrink as done grows.
func renderBar(desc string, done, total, width int) string {
	width = max(width, 20)
	done = min(done, total)
	counter := fmt.Sprintf(" %d/%d", done, total)
	counterWidth := len(fmt.Sprintf(" %d/%d", total, total))

	label := "Fetch card definitions"
	if desc != "" {
		label += " (" + desc + ")"
	}
	labelWidth := (width - 1) / 3
	if len(label) > labelWidth {
		label = label[:labelWidth]
	}

	barWidth := max(width-1-labelWidth-counterWidth-3, 1)
	percent := 0.0
	if total > 0 {
		percent = float64(done) / float64(total)
	}
	bar := progress.New(progress.WithWidth(barWidth), progress.WithoutPercentage())
	bar.Full = '='
	bar.Empty = ' '

	var b strings.Builder
	b.WriteString(label)
	b.WriteString(strings.Repeat(" ", labelWidth-len(label)))
	b.WriteString(" [")
	b.WriteString(bar.ViewAs(percent))
	b.WriteByte(']')
	b.WriteString(counter)
	b.WriteString(strings.Repeat(" ", counterWidth-len(counter)))
	return b.String()
}
