// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package refresh

import (
	"fmt"
	"image"

	"github.com/GermanBionicSystems/epaper/framebuf"
)

// Panel is the display driver the Controller pushes frames to.
type Panel interface {
	// Bounds returns the panel geometry reported by the driver.
	Bounds() image.Rectangle
	// CommitReferenceFrame stores buf as the reference frame without a
	// visible update.
	CommitReferenceFrame(buf []byte) error
	// FullRefresh shows buf at full quality and makes it the reference frame.
	FullRefresh(buf []byte) error
	// PartialRefresh shows buf by redrawing the pixels that differ from the
	// reference frame, then makes it the reference frame.
	PartialRefresh(buf []byte) error
}

// State is the refresh state of the panel.
type State uint8

const (
	// Uninitialized means no reference frame was committed.
	Uninitialized State = iota
	// FullFramePending means the reference frame is committed and a full
	// refresh is due.
	FullFramePending
	// Steady means a full refresh was shown; only partial refreshes follow.
	Steady
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case FullFramePending:
		return "FullFramePending"
	case Steady:
		return "Steady"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Step names the panel operation a TransportError comes from.
type Step string

const (
	StepCommitReference Step = "commit reference frame"
	StepFull            Step = "full refresh"
	StepPartial         Step = "partial refresh"
)

// TransportError is returned when the panel fails to take a frame. The
// Controller state is left as it was before the call.
type TransportError struct {
	Step  Step
	State State
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("refresh: %s failed in state %s: %v", e.Step, e.State, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ConfigError is returned by New when the frame cannot be shown on the panel.
// It is not recoverable.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return "refresh: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Stats counts the successful and failed panel calls.
type Stats struct {
	ReferenceCommits int
	FullRefreshes    int
	PartialRefreshes int
	Failures         int
}

// Controller decides between full and partial refreshes.
type Controller struct {
	panel Panel
	frame *framebuf.Frame
	state State
	stats Stats
}

// New returns a Controller showing frame on panel.
//
// The frame must match the panel geometry exactly, otherwise a *ConfigError
// wrapping framebuf.ErrGeometryMismatch is returned.
func New(panel Panel, frame *framebuf.Frame) (*Controller, error) {
	if err := framebuf.CheckGeometry(frame, panel.Bounds()); err != nil {
		return nil, &ConfigError{Err: err}
	}
	return &Controller{
		panel: panel,
		frame: frame,
	}, nil
}

// State returns the current refresh state.
func (c *Controller) State() State {
	return c.state
}

// Stats returns the panel call counters.
func (c *Controller) Stats() Stats {
	return c.stats
}

// Start commits the reference frame and shows the frame with a full refresh,
// skipping the steps already done. It does nothing once Steady.
func (c *Controller) Start() error {
	if c.state == Uninitialized {
		if err := c.call(StepCommitReference, c.panel.CommitReferenceFrame); err != nil {
			return err
		}
		c.stats.ReferenceCommits++
		c.state = FullFramePending
	}
	if c.state == FullFramePending {
		if err := c.call(StepFull, c.panel.FullRefresh); err != nil {
			return err
		}
		c.stats.FullRefreshes++
		c.state = Steady
	}
	return nil
}

// Update shows the current frame. Before the first full refresh succeeded it
// behaves like Start, afterwards it issues a partial refresh.
func (c *Controller) Update() error {
	if c.state != Steady {
		return c.Start()
	}
	if err := c.call(StepPartial, c.panel.PartialRefresh); err != nil {
		return err
	}
	c.stats.PartialRefreshes++
	return nil
}

func (c *Controller) call(step Step, fn func([]byte) error) error {
	if err := fn(c.frame.Bytes()); err != nil {
		c.stats.Failures++
		return &TransportError{Step: step, State: c.state, Err: err}
	}
	return nil
}
