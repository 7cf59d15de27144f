// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sim

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"

	"github.com/GermanBionicSystems/epaper/framebuf"
)

// Opts represents the options available for this display.
type Opts struct {
	Width  int
	Height int
	// Scale keeps one pixel out of Scale in both directions; 1 when zero.
	Scale   int
	Palette *ansi256.Palette
	// W receives the output; colorable stdout when nil.
	W io.Writer

	_ struct{}
}

// Stats counts the calls the emulator received.
type Stats struct {
	ReferenceCommits int
	FullRefreshes    int
	PartialRefreshes int
	RowsPainted      int
}

// Dev is an e-paper panel emulator that outputs to the console.
type Dev struct {
	w      io.Writer
	bounds image.Rectangle
	scale  int
	stride int

	paper string
	ink   string

	// reference mirrors the panel reference RAM.
	reference []byte
	// frame backs Draw.
	frame *framebuf.Frame
	stats Stats

	buf bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) (*Dev, error) {
	frame, err := framebuf.New(opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	scale := opts.Scale
	if scale < 1 {
		scale = 1
	}
	d := &Dev{
		w:         w,
		bounds:    frame.Bounds(),
		scale:     scale,
		stride:    frame.Stride(),
		paper:     p.Block(color.NRGBA{255, 255, 255, 255}),
		ink:       p.Block(color.NRGBA{0, 0, 0, 255}),
		reference: make([]byte, len(frame.Bytes())),
		frame:     frame,
	}
	return d, nil
}

func (d *Dev) String() string {
	return "Sim"
}

// Halt implements conn.Resource.
//
// It resets the terminal colors so it is not corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return framebuf.ColorModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.bounds
}

// Draw implements display.Drawer. It does a full refresh.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	draw.Src.Draw(d.frame, r, src, sp)
	return d.FullRefresh(d.frame.Bytes())
}

// Stats returns the call counters.
func (d *Dev) Stats() Stats {
	return d.stats
}

// CommitReferenceFrame stores buf as reference without painting.
func (d *Dev) CommitReferenceFrame(buf []byte) error {
	if err := d.checkFrame(buf); err != nil {
		return err
	}
	copy(d.reference, buf)
	d.stats.ReferenceCommits++
	return nil
}

// FullRefresh repaints the whole panel.
func (d *Dev) FullRefresh(buf []byte) error {
	if err := d.checkFrame(buf); err != nil {
		return err
	}
	d.buf.Reset()
	_, _ = d.buf.WriteString("\033[0m\033[2J")
	for y := 0; y < d.bounds.Dy(); y += d.scale {
		d.paintRow(buf, y)
	}
	if err := d.flush(); err != nil {
		return err
	}
	copy(d.reference, buf)
	d.stats.FullRefreshes++
	return nil
}

// PartialRefresh repaints the rows that differ from the reference.
func (d *Dev) PartialRefresh(buf []byte) error {
	if err := d.checkFrame(buf); err != nil {
		return err
	}
	d.buf.Reset()
	for y := 0; y < d.bounds.Dy(); y += d.scale {
		row := buf[y*d.stride : (y+1)*d.stride]
		if !bytes.Equal(row, d.reference[y*d.stride:(y+1)*d.stride]) {
			d.paintRow(buf, y)
		}
	}
	if err := d.flush(); err != nil {
		return err
	}
	copy(d.reference, buf)
	d.stats.PartialRefreshes++
	return nil
}

// paintRow renders pixel row y on its terminal line.
func (d *Dev) paintRow(buf []byte, y int) {
	fmt.Fprintf(&d.buf, "\033[%d;1H", y/d.scale+1)
	row := buf[y*d.stride:]
	for x := 0; x < d.bounds.Dx(); x += d.scale {
		if row[x/8]&(0x80>>uint(x%8)) != 0 {
			_, _ = d.buf.WriteString(d.paper)
		} else {
			_, _ = d.buf.WriteString(d.ink)
		}
	}
	_, _ = d.buf.WriteString("\033[0m")
	d.stats.RowsPainted++
}

func (d *Dev) flush() error {
	// This code is designed to minimize the amount of memory allocated per call.
	_, err := d.buf.WriteTo(d.w)
	return err
}

func (d *Dev) checkFrame(buf []byte) error {
	if len(buf) != len(d.reference) {
		return fmt.Errorf("sim: frame of %d bytes, want %d", len(buf), len(d.reference))
	}
	return nil
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
