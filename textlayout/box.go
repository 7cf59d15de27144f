// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package textlayout

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/GermanBionicSystems/epaper/framebuf"
)

// VerticalAlignment positions wrapped text that does not fill its box.
type VerticalAlignment uint8

const (
	// Top aligns the first line with the top of the box; lines that do not
	// fit are cut.
	Top VerticalAlignment = iota
	// Scrolling behaves like Top while the text fits and otherwise shows the
	// last lines that fit.
	Scrolling
)

// BoxOpts configures DrawBox.
type BoxOpts struct {
	// Face overrides the TrueType face built from Size.
	Face font.Face
	// Size is the Go Regular font size in points, 12 when zero.
	Size float64
	// LineSpacing multiplies the font height, 1 when zero.
	LineSpacing float64
	Align       VerticalAlignment
	// Fg and Bg default to framebuf.On and framebuf.Off.
	Fg, Bg color.Color
}

// DrawBox draws text word wrapped to the width of r. Only r is painted.
func DrawBox(dst draw.Image, r image.Rectangle, text string, opts *BoxOpts) error {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return nil
	}

	o := BoxOpts{}
	if opts != nil {
		o = *opts
	}
	if o.Size == 0 {
		o.Size = 12
	}
	if o.LineSpacing == 0 {
		o.LineSpacing = 1
	}
	if o.Fg == nil {
		o.Fg = framebuf.On
	}
	if o.Bg == nil {
		o.Bg = framebuf.Off
	}
	if o.Face == nil {
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			return fmt.Errorf("textlayout: parsing font: %w", err)
		}
		o.Face = truetype.NewFace(f, &truetype.Options{
			Size:    o.Size,
			Hinting: font.HintingFull,
		})
	}

	dc := gg.NewContext(r.Dx(), r.Dy())
	dc.SetColor(o.Bg)
	dc.Clear()
	dc.SetColor(o.Fg)
	dc.SetFontFace(o.Face)

	lines := dc.WordWrap(text, float64(r.Dx()))
	lineHeight := dc.FontHeight() * o.LineSpacing
	fit := int(math.Floor(float64(r.Dy()) / lineHeight))
	if fit < 1 {
		fit = 1
	}
	if len(lines) > fit {
		if o.Align == Scrolling {
			lines = lines[len(lines)-fit:]
		} else {
			lines = lines[:fit]
		}
	}

	for i, line := range lines {
		dc.DrawStringAnchored(line, 0, float64(i)*lineHeight, 0, 1)
	}

	draw.Draw(dst, r, dc.Image(), image.Point{}, draw.Src)
	return nil
}
