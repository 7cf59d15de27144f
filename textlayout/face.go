// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package textlayout

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/GermanBionicSystems/epaper/framebuf"
)

// Renderer draws a single line of text.
type Renderer interface {
	// DrawText draws text with the top left corner of its line box at pt. It
	// returns the area it painted, clipped to dst.
	DrawText(dst draw.Image, pt image.Point, text []byte) image.Rectangle
}

// FaceRenderer draws text using a font.Face.
type FaceRenderer struct {
	face font.Face
	fg   *image.Uniform
	bg   *image.Uniform
}

// NewFaceRenderer returns a renderer drawing fg text on a bg background. A nil
// face selects basicfont.Face7x13.
func NewFaceRenderer(face font.Face, fg, bg color.Color) *FaceRenderer {
	if face == nil {
		face = basicfont.Face7x13
	}
	return &FaceRenderer{
		face: face,
		fg:   image.NewUniform(fg),
		bg:   image.NewUniform(bg),
	}
}

// LineHeight returns the height of the line box.
func (r *FaceRenderer) LineHeight() int {
	m := r.face.Metrics()
	return (m.Ascent + m.Descent).Ceil()
}

// DrawText implements Renderer.
func (r *FaceRenderer) DrawText(dst draw.Image, pt image.Point, text []byte) image.Rectangle {
	m := r.face.Metrics()
	d := font.Drawer{
		Dst:  dst,
		Src:  r.fg,
		Face: r.face,
		Dot:  fixed.P(pt.X, pt.Y+m.Ascent.Ceil()),
	}

	box := image.Rect(pt.X, pt.Y, pt.X+d.MeasureBytes(text).Ceil(), pt.Y+r.LineHeight())
	box = box.Intersect(dst.Bounds())

	draw.Draw(dst, box, r.bg, image.Point{}, draw.Src)
	d.DrawBytes(text)

	return box
}

// Default is the renderer used when none is configured: basicfont 7x13, ink
// on paper.
func Default() *FaceRenderer {
	return NewFaceRenderer(nil, framebuf.On, framebuf.Off)
}

var _ Renderer = &FaceRenderer{}
