// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package framebuf

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// ErrGeometryMismatch is returned when a frame does not have the size of the
// panel it is shown on.
var ErrGeometryMismatch = errors.New("framebuf: frame geometry does not match panel")

// Frame is a fixed size 1 bit per pixel image.
type Frame struct {
	width  int
	height int
	stride int
	pix    []byte
}

// New returns a frame of the given size, cleared to Off.
func New(width, height int) (*Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("framebuf: invalid size %dx%d", width, height)
	}
	f := &Frame{
		width:  width,
		height: height,
		stride: (width + 7) / 8,
	}
	f.pix = make([]byte, f.stride*height)
	f.Clear(Off)
	return f, nil
}

// CheckGeometry returns ErrGeometryMismatch if f does not cover panel
// exactly.
func CheckGeometry(f *Frame, panel image.Rectangle) error {
	if f.Bounds() != panel {
		return fmt.Errorf("%w: frame %v, panel %v", ErrGeometryMismatch, f.Bounds(), panel)
	}
	return nil
}

// Bounds implements image.Image.
func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.width, f.height)
}

// ColorModel implements image.Image.
func (f *Frame) ColorModel() color.Model {
	return ColorModel
}

// Opaque reports that the frame has no transparent pixels.
func (f *Frame) Opaque() bool {
	return true
}

// At implements image.Image.
func (f *Frame) At(x, y int) color.Color {
	return f.BitAt(x, y)
}

// Set implements draw.Image.
func (f *Frame) Set(x, y int, c color.Color) {
	f.SetBit(x, y, toColor(c))
}

// Stride returns the number of bytes per row.
func (f *Frame) Stride() int {
	return f.stride
}

// Bytes returns the raw pixel data in panel layout. The slice is owned by the
// frame and stays valid for its lifetime.
func (f *Frame) Bytes() []byte {
	return f.pix
}

// BitAt returns the color of a pixel. Pixels outside the frame are Off.
func (f *Frame) BitAt(x, y int) Color {
	if !(image.Point{x, y}.In(f.Bounds())) {
		return Off
	}
	i, mask := f.offset(x, y)
	return f.pix[i]&mask == 0
}

// SetBit sets the color of a pixel. Pixels outside the frame are ignored.
func (f *Frame) SetBit(x, y int, c Color) {
	if !(image.Point{x, y}.In(f.Bounds())) {
		return
	}
	i, mask := f.offset(x, y)
	if c == On {
		f.pix[i] &^= mask
	} else {
		f.pix[i] |= mask
	}
}

// Clear sets every pixel to c.
func (f *Frame) Clear(c Color) {
	v := byte(0xff)
	if c == On {
		v = 0
	}
	for i := range f.pix {
		f.pix[i] = v
	}
}

// Fill sets the pixels of r to c. The rest of the frame is left untouched.
func (f *Frame) Fill(r image.Rectangle, c Color) {
	r = r.Intersect(f.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			f.SetBit(x, y, c)
		}
	}
}

func (f *Frame) offset(x, y int) (int, byte) {
	return y*f.stride + x/8, 0x80 >> uint(x%8)
}

var _ draw.Image = &Frame{}
