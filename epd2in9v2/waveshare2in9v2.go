// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd2in9v2

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/host/v3/rpi"

	"github.com/GermanBionicSystems/epaper/framebuf"
)

// Commands
const (
	driverOutputControl            byte = 0x01
	gateDrivingVoltageControl      byte = 0x03
	sourceDrivingVoltageControl    byte = 0x04
	deepSleepMode                  byte = 0x10
	dataEntryModeSetting           byte = 0x11
	swReset                        byte = 0x12
	masterActivation               byte = 0x20
	displayUpdateControl1          byte = 0x21
	displayUpdateControl2          byte = 0x22
	writeRAMBW                     byte = 0x24
	writeRAMRed                    byte = 0x26
	writeVcomRegister              byte = 0x2C
	writeLutRegister               byte = 0x32
	writeRegisterForDisplayOption  byte = 0x37
	borderWaveformControl          byte = 0x3C
	endOptionEOPT                  byte = 0x3F
	setRAMXAddressStartEndPosition byte = 0x44
	setRAMYAddressStartEndPosition byte = 0x45
	setRAMXAddressCounter          byte = 0x4E
	setRAMYAddressCounter          byte = 0x4F
)

// Flags for the displayUpdateControl2 command
const (
	displayUpdateDisableClock byte = 1 << iota
	displayUpdateDisableAnalog
	displayUpdateDisplay
	displayUpdateMode2
	displayUpdateLoadLUTFromOTP
	displayUpdateLoadTemperature
	displayUpdateEnableClock
	displayUpdateEnableAnalog
)

// lutWaveformSize is the number of waveform bytes sent with
// writeLutRegister. A LUT carries 6 voltage bytes after the waveform.
const lutWaveformSize = 153

// Dev defines the handler which is used to access the display.
type Dev struct {
	c conn.Conn

	dc   gpio.PinOut
	cs   gpio.PinOut
	rst  gpio.PinOut
	busy gpio.PinIn

	bounds image.Rectangle
	// frame backs Draw and Clear.
	frame *framebuf.Frame
	mode  PartialUpdate

	opts *Opts
}

// LUT contains the waveform that is used to program the display, followed by
// the EOPT, gate, source (3 bytes) and VCOM values.
type LUT []byte

// Opts definies the structure of the display configuration.
type Opts struct {
	Width         int
	Height        int
	FullUpdate    LUT
	PartialUpdate LUT
	// BusyTimeout bounds the wait for the busy pin. Zero waits forever.
	BusyTimeout time.Duration
}

// PartialUpdate defines if the display should do a full update or just a partial update.
type PartialUpdate bool

const (
	// Full should update the complete display.
	Full PartialUpdate = false
	// Partial should update only partial parts of the display.
	Partial PartialUpdate = true
)

// EPD2in9v2 cointains display configuration for the Waveshare 2in9v2.
var EPD2in9v2 = Opts{
	Width:  128,
	Height: 296,
	FullUpdate: LUT{
		0x80, 0x66, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x40, 0x00, 0x00, 0x00,
		0x10, 0x66, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x20, 0x00, 0x00, 0x00,
		0x80, 0x66, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x40, 0x00, 0x00, 0x00,
		0x10, 0x66, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x20, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,

		0x14, 0x08, 0x00, 0x00, 0x00, 0x00, 0x01,
		0x0A, 0x0A, 0x00, 0x0A, 0x0A, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x14, 0x08, 0x00, 0x01, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,

		0x44, 0x44, 0x44, 0x44, 0x44, 0x44, 0x00, 0x00, 0x00,

		0x22, 0x17, 0x41, 0x00, 0x32, 0x36,
	},
	PartialUpdate: LUT{
		0x00, 0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x80, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x40, 0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,

		0x0A, 0x00, 0x00, 0x00, 0x00, 0x00, 0x02,
		0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,

		0x22, 0x22, 0x22, 0x22, 0x22, 0x22, 0x00, 0x00, 0x00,

		0x22, 0x17, 0x41, 0xB0, 0x32, 0x36,
	},
}

// New creates new handler which is used to access the display.
func New(p spi.Port, dc, cs, rst gpio.PinOut, busy gpio.PinIn, opts *Opts) (*Dev, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("epd2in9v2: invalid size %dx%d", opts.Width, opts.Height)
	}

	for _, lut := range []LUT{opts.FullUpdate, opts.PartialUpdate} {
		if len(lut) < lutWaveformSize+6 {
			return nil, fmt.Errorf("epd2in9v2: LUT of %d bytes, want %d", len(lut), lutWaveformSize+6)
		}
	}

	c, err := p.Connect(4*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, err
	}

	if err := busy.In(gpio.Float, gpio.NoEdge); err != nil {
		return nil, err
	}

	frame, err := framebuf.New(opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}

	d := &Dev{
		c:      c,
		dc:     dc,
		cs:     cs,
		rst:    rst,
		busy:   busy,
		bounds: frame.Bounds(),
		frame:  frame,
		mode:   Full,
		opts:   opts,
	}

	return d, nil
}

// NewHat creates new handler which is used to access the display. Default Waveshare Hat configuration is used.
func NewHat(p spi.Port, opts *Opts) (*Dev, error) {
	dc := rpi.P1_22
	cs := rpi.P1_24
	rst := rpi.P1_11
	busy := rpi.P1_18
	return New(p, dc, cs, rst, busy, opts)
}

// Init resets the display and loads the full update waveform.
func (d *Dev) Init() error {
	if err := d.Reset(); err != nil {
		return err
	}

	eh := errorHandler{d: *d}

	initDisplay(&eh, d.opts)

	if eh.err == nil {
		d.mode = Full
	}

	return eh.err
}

// Reset the hardware.
func (d *Dev) Reset() error {
	eh := errorHandler{d: *d}

	eh.rstOut(gpio.High)
	time.Sleep(20 * time.Millisecond)
	eh.rstOut(gpio.Low)
	time.Sleep(2 * time.Millisecond)
	eh.rstOut(gpio.High)
	time.Sleep(20 * time.Millisecond)

	return eh.err
}

// Bounds returns the bounds for the configurated display.
func (d *Dev) Bounds() image.Rectangle {
	return d.bounds
}

// ColorModel returns the frame buffer color model.
func (d *Dev) ColorModel() color.Model {
	return framebuf.ColorModel
}

// CommitReferenceFrame writes buf as the reference frame used by partial
// refreshes. The display does not change.
func (d *Dev) CommitReferenceFrame(buf []byte) error {
	if err := d.checkFrame(buf); err != nil {
		return err
	}

	eh := errorHandler{d: *d}

	commitReference(&eh, buf)

	return eh.err
}

// FullRefresh shows buf with the full update waveform and makes it the
// reference frame. The display is re-initialized if it was in partial mode.
func (d *Dev) FullRefresh(buf []byte) error {
	if err := d.checkFrame(buf); err != nil {
		return err
	}

	if d.mode == Partial {
		if err := d.Init(); err != nil {
			return err
		}
	}

	eh := errorHandler{d: *d}

	fullRefresh(&eh, buf)

	return eh.err
}

// PartialRefresh shows buf by only driving the pixels that differ from the
// reference frame, then makes buf the reference frame.
func (d *Dev) PartialRefresh(buf []byte) error {
	if err := d.checkFrame(buf); err != nil {
		return err
	}

	eh := errorHandler{d: *d}

	if d.mode != Partial {
		configPartial(&eh, d.opts)
		if eh.err != nil {
			return eh.err
		}
		d.mode = Partial
	}

	partialRefresh(&eh, buf)

	return eh.err
}

// Clear fills the display with the given color using a full refresh.
func (d *Dev) Clear(c color.Color) error {
	return d.Draw(d.bounds, &image.Uniform{C: c}, image.Point{})
}

// Draw draws the given image to the display with a full refresh.
func (d *Dev) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	draw.Src.Draw(d.frame, dstRect, src, srcPts)
	return d.FullRefresh(d.frame.Bytes())
}

// DrawPartial draws the given image to the display. Display will update only changed pixel.
func (d *Dev) DrawPartial(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	draw.Src.Draw(d.frame, dstRect, src, srcPts)
	return d.PartialRefresh(d.frame.Bytes())
}

// Halt clears the display.
func (d *Dev) Halt() error {
	return d.Clear(framebuf.Off)
}

// Sleep makes the controller enter deep sleep mode. It can be woken up by
// calling Init again.
func (d *Dev) Sleep() error {
	eh := errorHandler{d: *d}

	deepSleep(&eh)

	return eh.err
}

// String returns a string containing configuration information.
func (d *Dev) String() string {
	return fmt.Sprintf("epd.Dev{%s, %s, Width: %d, Height: %d}", d.c, d.dc, d.bounds.Dx(), d.bounds.Dy())
}

func (d *Dev) checkFrame(buf []byte) error {
	if want := len(d.frame.Bytes()); len(buf) != want {
		return fmt.Errorf("epd2in9v2: frame of %d bytes, want %d", len(buf), want)
	}
	return nil
}

var _ display.Drawer = &Dev{}
