// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package framebuf

import (
	"image/color"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Color is the logical color of a pixel.
type Color bool

const (
	// Off is the paper color.
	Off Color = false
	// On is the ink color.
	On Color = true
)

// RGBA implements color.Color.
func (c Color) RGBA() (uint32, uint32, uint32, uint32) {
	if c {
		return 0, 0, 0, 0xffff
	}
	return 0xffff, 0xffff, 0xffff, 0xffff
}

func (c Color) String() string {
	if c {
		return "On"
	}
	return "Off"
}

// ColorModel converts any color to On (dark) or Off (bright).
var ColorModel = color.ModelFunc(convert)

func convert(c color.Color) color.Color {
	return toColor(c)
}

func toColor(c color.Color) Color {
	if b, ok := c.(Color); ok {
		return b
	}
	// image1bit turns bright colors on, which is paper here.
	return Color(image1bit.BitModel.Convert(c).(image1bit.Bit) == image1bit.Off)
}
