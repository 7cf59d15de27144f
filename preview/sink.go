// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"log/slog"
	"net/http"
	"sync"

	"github.com/GermanBionicSystems/epaper/refresh"
)

// Opts for preview sinks.
type Opts struct {
	// Width and height of the panel.
	Width, Height int

	// Format specifies the image format to send to clients.
	Format ImageFormat

	// PNGCompression is png.DefaultCompression when zero.
	PNGCompression png.CompressionLevel
	// JPEGQuality is jpeg.DefaultQuality when zero.
	JPEGQuality int

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Sink keeps the last frame shown on the panel and streams it to HTTP
// clients.
type Sink struct {
	defaultFormat ImageFormat
	jpegOpts      jpeg.Options
	log           *slog.Logger
	stride        int

	mu        sync.Mutex
	pngEnc    png.Encoder
	shown     *image.Gray
	reference []byte
	frames    int
	// encoded caches the current frame per format until the next refresh.
	encoded map[ImageFormat][]byte
	changed chan struct{}
	halted  chan struct{}
}

var _ refresh.Panel = (*Sink)(nil)
var _ http.Handler = (*Sink)(nil)

// New creates a new preview sink showing a blank panel.
func New(opts *Opts) (*Sink, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("preview: invalid size %dx%d", opts.Width, opts.Height)
	}

	q := opts.JPEGQuality
	if q == 0 {
		q = jpeg.DefaultQuality
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	shown := image.NewGray(image.Rect(0, 0, opts.Width, opts.Height))
	for i := range shown.Pix {
		shown.Pix[i] = 0xff
	}

	stride := (opts.Width + 7) / 8
	return &Sink{
		defaultFormat: opts.Format,
		jpegOpts:      jpeg.Options{Quality: q},
		log:           log,
		stride:        stride,
		pngEnc: png.Encoder{
			CompressionLevel: opts.PNGCompression,
			BufferPool:       &encoderBuffer{},
		},
		shown:     shown,
		reference: make([]byte, stride*opts.Height),
		encoded:   map[ImageFormat][]byte{},
		changed:   make(chan struct{}),
		halted:    make(chan struct{}),
	}, nil
}

// String returns the name of the device.
func (s *Sink) String() string {
	return "Preview"
}

// Halt implements conn.Resource and ends the streams of the connected
// clients. Clients connecting afterwards are served normally.
func (s *Sink) Halt() error {
	s.mu.Lock()
	close(s.halted)
	s.halted = make(chan struct{})
	s.mu.Unlock()
	return nil
}

// ColorModel returns the model of the streamed images.
func (s *Sink) ColorModel() color.Model {
	return color.GrayModel
}

// Bounds implements refresh.Panel.
func (s *Sink) Bounds() image.Rectangle {
	return s.shown.Bounds()
}

// Frames returns the number of frames shown so far.
func (s *Sink) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// CommitReferenceFrame stores buf as reference. Clients are not updated.
func (s *Sink) CommitReferenceFrame(buf []byte) error {
	if err := s.checkFrame(buf); err != nil {
		return err
	}
	s.mu.Lock()
	copy(s.reference, buf)
	s.mu.Unlock()
	return nil
}

// FullRefresh redraws every row.
func (s *Sink) FullRefresh(buf []byte) error {
	return s.show(buf, true)
}

// PartialRefresh redraws the rows that differ from the reference, like the
// panel only drives the pixels that changed.
func (s *Sink) PartialRefresh(buf []byte) error {
	return s.show(buf, false)
}

// show draws buf, makes it the reference and notifies the clients.
func (s *Sink) show(buf []byte, full bool) error {
	if err := s.checkFrame(buf); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.shown.Bounds()
	for y := 0; y < b.Dy(); y++ {
		row := buf[y*s.stride : (y+1)*s.stride]
		ref := s.reference[y*s.stride : (y+1)*s.stride]
		if !full && bytes.Equal(row, ref) {
			continue
		}
		pix := s.shown.Pix[y*s.shown.Stride:]
		for x := 0; x < b.Dx(); x++ {
			if row[x/8]&(0x80>>uint(x%8)) != 0 {
				pix[x] = 0xff
			} else {
				pix[x] = 0
			}
		}
	}
	copy(s.reference, buf)
	s.frames++
	s.refreshedLocked()

	return nil
}

func (s *Sink) checkFrame(buf []byte) error {
	if len(buf) != len(s.reference) {
		return fmt.Errorf("preview: frame of %d bytes, want %d", len(buf), len(s.reference))
	}
	return nil
}
