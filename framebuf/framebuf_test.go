// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package framebuf

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

func TestNew(t *testing.T) {
	for _, tc := range []struct {
		name       string
		w, h       int
		wantStride int
		wantLen    int
	}{
		{name: "2in9", w: 128, h: 296, wantStride: 16, wantLen: 128 * 296 / 8},
		{name: "2in13", w: 122, h: 250, wantStride: 16, wantLen: 16 * 250},
		{name: "tiny", w: 1, h: 1, wantStride: 1, wantLen: 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f, err := New(tc.w, tc.h)
			if err != nil {
				t.Fatalf("New() failed: %v", err)
			}

			if diff := cmp.Diff(f.Bounds(), image.Rect(0, 0, tc.w, tc.h)); diff != "" {
				t.Errorf("Bounds() difference (-got +want):\n%s", diff)
			}

			if f.Stride() != tc.wantStride {
				t.Errorf("Stride() = %d, want %d", f.Stride(), tc.wantStride)
			}

			if diff := cmp.Diff(f.Bytes(), bytes.Repeat([]byte{0xff}, tc.wantLen)); diff != "" {
				t.Errorf("Bytes() difference (-got +want):\n%s", diff)
			}
		})
	}
}

func TestNewInvalid(t *testing.T) {
	for _, size := range []image.Point{{0, 10}, {10, 0}, {-1, 5}} {
		if _, err := New(size.X, size.Y); err == nil {
			t.Errorf("New(%d, %d) succeeded", size.X, size.Y)
		}
	}
}

func TestSetBit(t *testing.T) {
	f, err := New(16, 2)
	if err != nil {
		t.Fatal(err)
	}

	f.SetBit(0, 0, On)
	f.SetBit(9, 1, On)
	f.SetBit(-1, 0, On)
	f.SetBit(16, 0, On)

	want := []byte{0x7f, 0xff, 0xff, 0xbf}
	if diff := cmp.Diff(f.Bytes(), want); diff != "" {
		t.Errorf("Bytes() difference (-got +want):\n%s", diff)
	}

	for _, tc := range []struct {
		pt   image.Point
		want Color
	}{
		{image.Pt(0, 0), On},
		{image.Pt(1, 0), Off},
		{image.Pt(9, 1), On},
		{image.Pt(100, 100), Off},
	} {
		if got := f.BitAt(tc.pt.X, tc.pt.Y); got != tc.want {
			t.Errorf("BitAt(%v) = %v, want %v", tc.pt, got, tc.want)
		}
	}

	f.SetBit(0, 0, Off)
	if got := f.BitAt(0, 0); got != Off {
		t.Errorf("BitAt(0, 0) = %v after reset", got)
	}
}

func TestClear(t *testing.T) {
	f, err := New(12, 3)
	if err != nil {
		t.Fatal(err)
	}

	f.Clear(On)
	if diff := cmp.Diff(f.Bytes(), make([]byte, 6)); diff != "" {
		t.Errorf("Clear(On) difference (-got +want):\n%s", diff)
	}

	f.Clear(Off)
	if diff := cmp.Diff(f.Bytes(), bytes.Repeat([]byte{0xff}, 6)); diff != "" {
		t.Errorf("Clear(Off) difference (-got +want):\n%s", diff)
	}
}

func TestFillOnlyTouchesRect(t *testing.T) {
	f, err := New(32, 8)
	if err != nil {
		t.Fatal(err)
	}

	f.SetBit(0, 0, On)
	f.Fill(image.Rect(8, 2, 24, 4), On)
	f.Fill(image.Rect(30, 6, 40, 20), On)

	for y := 0; y < 8; y++ {
		for x := 0; x < 32; x++ {
			pt := image.Pt(x, y)
			want := pt.In(image.Rect(8, 2, 24, 4)) || pt.In(image.Rect(30, 6, 32, 8)) || pt == image.Point{}
			if got := f.BitAt(x, y); got != Color(want) {
				t.Errorf("BitAt(%v) = %v, want %v", pt, got, Color(want))
			}
		}
	}
}

func TestDrawImage(t *testing.T) {
	f, err := New(8, 1)
	if err != nil {
		t.Fatal(err)
	}

	draw.Draw(f, image.Rect(0, 0, 4, 1), &image.Uniform{color.Black}, image.Point{}, draw.Src)
	draw.Draw(f, image.Rect(2, 0, 3, 1), &image.Uniform{image1bit.On}, image.Point{}, draw.Src)

	if diff := cmp.Diff(f.Bytes(), []byte{0x2f}); diff != "" {
		t.Errorf("Bytes() difference (-got +want):\n%s", diff)
	}
}

func TestColorModel(t *testing.T) {
	for _, tc := range []struct {
		in   color.Color
		want Color
	}{
		{color.White, Off},
		{color.Black, On},
		{color.Gray{Y: 0x20}, On},
		{color.Gray{Y: 0xe0}, Off},
		{On, On},
		{Off, Off},
	} {
		if got := ColorModel.Convert(tc.in); got != tc.want {
			t.Errorf("Convert(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCheckGeometry(t *testing.T) {
	f, err := New(128, 296)
	if err != nil {
		t.Fatal(err)
	}

	if err := CheckGeometry(f, image.Rect(0, 0, 128, 296)); err != nil {
		t.Errorf("CheckGeometry() failed: %v", err)
	}

	for _, r := range []image.Rectangle{
		image.Rect(0, 0, 296, 128),
		image.Rect(0, 0, 122, 250),
		image.Rect(1, 1, 129, 297),
	} {
		if err := CheckGeometry(f, r); !errors.Is(err, ErrGeometryMismatch) {
			t.Errorf("CheckGeometry(%v) = %v, want %v", r, err, ErrGeometryMismatch)
		}
	}
}
