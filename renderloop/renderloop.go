// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package renderloop

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"

	"github.com/GermanBionicSystems/epaper/boundedfmt"
	"github.com/GermanBionicSystems/epaper/framebuf"
	"github.com/GermanBionicSystems/epaper/refresh"
	"github.com/GermanBionicSystems/epaper/textlayout"
)

// ErrCapacity is returned by New when the formatting buffer cannot hold the
// largest counter value.
var ErrCapacity = errors.New("renderloop: formatting capacity too small")

// Opts configures a Loop.
type Opts struct {
	// Template is formatted with the counter as argument {0}.
	Template string
	// Capacity is the size of the formatting buffer in bytes.
	Capacity int
	// Origin is the top left corner of the counter text.
	Origin image.Point
	// Banner is drawn once by Setup. Nothing is drawn when empty.
	Banner string
	// BannerRect defaults to the part of the frame above Origin, inset by one
	// pixel.
	BannerRect image.Rectangle
	Style      *textlayout.BoxOpts

	_ struct{}
}

// DefaultOpts draws "count: N" below a scrolling banner.
var DefaultOpts = Opts{
	Template: "count: {0}",
	Capacity: 64,
	Origin:   image.Pt(1, 50),
	Banner:   "Hello from Go on a Raspberry Pi, connected to an E-Ink display...",
	Style:    &textlayout.BoxOpts{Align: textlayout.Scrolling},
}

// Loop owns the frame, the refresh controller and the counter.
type Loop struct {
	frame    *framebuf.Frame
	ctrl     *refresh.Controller
	renderer textlayout.Renderer
	opts     Opts
	log      *slog.Logger

	// buf is handed to the formatter fresh on every iteration.
	buf     []byte
	last    image.Rectangle
	counter uint32
}

// New returns a Loop drawing into frame and refreshing through ctrl, which
// must have been created for the same frame.
//
// A nil renderer selects textlayout.Default(). A nil logger selects
// slog.Default().
func New(frame *framebuf.Frame, ctrl *refresh.Controller, renderer textlayout.Renderer, opts *Opts, logger *slog.Logger) (*Loop, error) {
	if frame == nil || ctrl == nil {
		return nil, errors.New("renderloop: frame and controller are required")
	}
	n, err := boundedfmt.Measure(opts.Template, boundedfmt.Uint(math.MaxUint32))
	if err != nil {
		return nil, fmt.Errorf("renderloop: %w", err)
	}
	if n > opts.Capacity {
		return nil, fmt.Errorf("%w: %q needs %d bytes, have %d", ErrCapacity, opts.Template, n, opts.Capacity)
	}
	if renderer == nil {
		renderer = textlayout.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		frame:    frame,
		ctrl:     ctrl,
		renderer: renderer,
		opts:     *opts,
		log:      logger,
		buf:      make([]byte, opts.Capacity),
	}, nil
}

// Counter returns the value the next Step formats.
func (l *Loop) Counter() uint32 {
	return l.counter
}

// SetCounter sets the value the next Step formats.
func (l *Loop) SetCounter(v uint32) {
	l.counter = v
}

// Setup clears the frame, shows it with a full refresh and then draws the
// banner with a partial refresh. Errors are logged and the loop goes on; Step
// retries the full refresh when it did not happen.
func (l *Loop) Setup() {
	l.frame.Clear(framebuf.Off)
	l.last = image.Rectangle{}
	if err := l.ctrl.Start(); err != nil {
		l.log.Error("initial refresh failed", "state", l.ctrl.State(), "err", err)
	}
	if l.opts.Banner == "" {
		return
	}
	r := l.opts.BannerRect
	if r.Empty() {
		r = l.bannerRect()
	}
	if err := textlayout.DrawBox(l.frame, r, l.opts.Banner, l.opts.Style); err != nil {
		l.log.Error("banner not drawn", "err", err)
		return
	}
	if err := l.ctrl.Update(); err != nil {
		l.log.Error("banner refresh failed", "state", l.ctrl.State(), "err", err)
	}
}

// bannerRect returns the area above the counter text so the counter box never
// erases the banner.
func (l *Loop) bannerRect() image.Rectangle {
	b := l.frame.Bounds()
	b.Max.Y = l.opts.Origin.Y
	return b.Inset(1)
}

// Step runs one iteration.
//
// Text that does not fit the formatting buffer is not drawn. The counter is
// incremented even when an error is returned.
func (l *Loop) Step() error {
	v, ferr := boundedfmt.Format(l.buf, l.opts.Template, boundedfmt.Uint(uint64(l.counter)))
	if ferr == nil {
		l.frame.Fill(l.last, framebuf.Off)
		l.last = l.renderer.DrawText(l.frame, l.opts.Origin, v.Bytes())
	}
	err := l.ctrl.Update()
	l.counter++
	if ferr != nil {
		return errors.Join(ferr, err)
	}
	return err
}

// Run calls Setup then Step forever. Failed iterations are logged.
func (l *Loop) Run() {
	l.Setup()
	for {
		c := l.counter
		if err := l.Step(); err != nil {
			l.log.Error("iteration failed", "counter", c, "state", l.ctrl.State(), "err", err)
			continue
		}
		l.log.Debug("refreshed", "counter", c)
	}
}
