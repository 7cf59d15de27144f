// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package textlayout

import (
	"image"
	"image/color"
	"image/draw"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"github.com/GermanBionicSystems/epaper/framebuf"
)

// displayer lets tinyfont draw onto a draw.Image.
type displayer struct {
	dst draw.Image
}

func (d displayer) Size() (x, y int16) {
	b := d.dst.Bounds()
	return int16(b.Max.X), int16(b.Max.Y)
}

func (d displayer) SetPixel(x, y int16, c color.RGBA) {
	d.dst.Set(int(x), int(y), c)
}

// Display is a no-op; refreshing the panel is done by the caller.
func (d displayer) Display() error {
	return nil
}

var _ drivers.Displayer = displayer{}

// TinyRenderer draws text using a tinyfont bitmap font.
//
// tinyfont works on strings, so every call copies the text once.
type TinyRenderer struct {
	font   tinyfont.Fonter
	fg     color.RGBA
	bg     *image.Uniform
	ascent int
}

// NewTinyRenderer returns a renderer drawing fg text on a bg background. A nil
// font selects proggy.TinySZ8pt7b.
func NewTinyRenderer(font tinyfont.Fonter, fg, bg color.Color) *TinyRenderer {
	if font == nil {
		font = &proggy.TinySZ8pt7b
	}
	ascent := 0
	for _, r := range "Mdfl|" {
		if a := -int(font.GetGlyph(r).Info().YOffset); a > ascent {
			ascent = a
		}
	}
	return &TinyRenderer{
		font:   font,
		fg:     color.RGBAModel.Convert(fg).(color.RGBA),
		bg:     image.NewUniform(bg),
		ascent: ascent,
	}
}

// LineHeight returns the height of the line box.
func (r *TinyRenderer) LineHeight() int {
	return int(r.font.GetYAdvance())
}

// DrawText implements Renderer.
func (r *TinyRenderer) DrawText(dst draw.Image, pt image.Point, text []byte) image.Rectangle {
	s := string(text)
	_, width := tinyfont.LineWidth(r.font, s)

	box := image.Rect(pt.X, pt.Y, pt.X+int(width), pt.Y+r.LineHeight())
	box = box.Intersect(dst.Bounds())

	draw.Draw(dst, box, r.bg, image.Point{}, draw.Src)
	tinyfont.WriteLine(displayer{dst: dst}, r.font, int16(pt.X), int16(pt.Y+r.ascent), s, r.fg)

	return box
}

var _ Renderer = &TinyRenderer{}

// DefaultTiny is the tinyfont counterpart of Default.
func DefaultTiny() *TinyRenderer {
	return NewTinyRenderer(nil, framebuf.On, framebuf.Off)
}
