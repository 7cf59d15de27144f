// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd2in9v2

import (
	"bytes"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spitest"

	"github.com/GermanBionicSystems/epaper/framebuf"
)

func newDev(t *testing.T, p spi.Port, opts *Opts) (*Dev, *gpiotest.Pin) {
	t.Helper()

	busy := &gpiotest.Pin{N: "busy", L: gpio.Low}

	dev, err := New(p, &gpiotest.Pin{}, &gpiotest.Pin{}, &gpiotest.Pin{}, busy, opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	return dev, busy
}

// written concatenates everything written to the SPI bus.
func written(ops []conntest.IO) []byte {
	var all []byte
	for _, op := range ops {
		all = append(all, op.W...)
	}
	return all
}

func testFrame() []byte {
	buf := make([]byte, 128/8*296)
	for i := range buf {
		buf[i] = byte(i)
	}
	return buf
}

func frameStream(cmd byte, buf []byte) []byte {
	s := []byte{setRAMXAddressCounter, 0, setRAMYAddressCounter, 0, 0, cmd}
	return append(s, buf...)
}

func TestNew(t *testing.T) {
	for _, tc := range []struct {
		name       string
		opts       Opts
		wantString string
		wantBounds image.Rectangle
	}{
		{
			name:       "EPD2in9v2",
			opts:       EPD2in9v2,
			wantBounds: image.Rect(0, 0, 128, 296),
			wantString: "epd.Dev{playback, (0), Width: 128, Height: 296}",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			dev, _ := newDev(t, &spitest.Playback{}, &tc.opts)

			if diff := cmp.Diff(dev.String(), tc.wantString); diff != "" {
				t.Errorf("String() difference (-got +want):\n%s", diff)
			}

			if diff := cmp.Diff(dev.Bounds(), tc.wantBounds); diff != "" {
				t.Errorf("Bounds() difference (-got +want):\n%s", diff)
			}

			if diff := cmp.Diff(len(dev.frame.Bytes()), tc.wantBounds.Dx()/8*tc.wantBounds.Dy()); diff != "" {
				t.Errorf("frame size difference (-got +want):\n%s", diff)
			}
		})
	}
}

func TestNewInvalid(t *testing.T) {
	for _, tc := range []struct {
		name string
		opts Opts
	}{
		{name: "empty"},
		{
			name: "short LUT",
			opts: func() Opts {
				opts := EPD2in9v2
				opts.PartialUpdate = opts.PartialUpdate[:70]
				return opts
			}(),
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(&spitest.Playback{}, &gpiotest.Pin{}, &gpiotest.Pin{}, &gpiotest.Pin{}, &gpiotest.Pin{}, &tc.opts); err == nil {
				t.Errorf("New() succeeded")
			}
		})
	}
}

func TestRefreshOverSPI(t *testing.T) {
	record := &spitest.Record{}
	dev, _ := newDev(t, record, &EPD2in9v2)
	buf := testFrame()

	if err := dev.CommitReferenceFrame(buf); err != nil {
		t.Fatalf("CommitReferenceFrame() failed: %v", err)
	}

	if diff := cmp.Diff(written(record.Ops), frameStream(writeRAMRed, buf)); diff != "" {
		t.Errorf("CommitReferenceFrame() difference (-got +want):\n%s", diff)
	}

	record.Ops = nil

	if err := dev.FullRefresh(buf); err != nil {
		t.Fatalf("FullRefresh() failed: %v", err)
	}

	want := append(frameStream(writeRAMBW, buf), frameStream(writeRAMRed, buf)...)
	want = append(want, displayUpdateControl2, 0xc7, masterActivation)

	if diff := cmp.Diff(written(record.Ops), want); diff != "" {
		t.Errorf("FullRefresh() difference (-got +want):\n%s", diff)
	}

	for i, op := range record.Ops {
		if len(op.W) > defaultMaxTxSize {
			t.Errorf("op %d writes %d bytes", i, len(op.W))
		}
	}

	record.Ops = nil

	if err := dev.PartialRefresh(buf); err != nil {
		t.Fatalf("PartialRefresh() failed: %v", err)
	}

	if got := written(record.Ops); len(got) == 0 || got[0] != writeLutRegister {
		t.Errorf("first PartialRefresh() did not load the partial LUT")
	}

	if dev.mode != Partial {
		t.Errorf("mode = %v, want %v", dev.mode, Partial)
	}

	record.Ops = nil

	if err := dev.PartialRefresh(buf); err != nil {
		t.Fatalf("PartialRefresh() failed: %v", err)
	}

	want = append(frameStream(writeRAMBW, buf), displayUpdateControl2, 0x0f, masterActivation)
	want = append(want, frameStream(writeRAMRed, buf)...)

	if diff := cmp.Diff(written(record.Ops), want); diff != "" {
		t.Errorf("PartialRefresh() difference (-got +want):\n%s", diff)
	}

	record.Ops = nil

	if err := dev.FullRefresh(buf); err != nil {
		t.Fatalf("FullRefresh() failed: %v", err)
	}

	if got := written(record.Ops); !bytes.HasPrefix(got, []byte{swReset}) {
		t.Errorf("FullRefresh() after partial did not re-initialize the display")
	}

	if dev.mode != Full {
		t.Errorf("mode = %v, want %v", dev.mode, Full)
	}
}

func TestFrameSize(t *testing.T) {
	dev, _ := newDev(t, &spitest.Record{}, &EPD2in9v2)

	for name, fn := range map[string]func([]byte) error{
		"CommitReferenceFrame": dev.CommitReferenceFrame,
		"FullRefresh":          dev.FullRefresh,
		"PartialRefresh":       dev.PartialRefresh,
	} {
		if err := fn(make([]byte, 10)); err == nil {
			t.Errorf("%s() accepted a short frame", name)
		}
	}
}

func TestTransportError(t *testing.T) {
	pb := &spitest.Playback{Playback: conntest.Playback{DontPanic: true}}
	defer pb.Close()

	dev, _ := newDev(t, pb, &EPD2in9v2)
	buf := testFrame()

	if err := dev.PartialRefresh(buf); err == nil {
		t.Fatalf("PartialRefresh() succeeded")
	}

	if dev.mode != Full {
		t.Errorf("mode = %v after failed PartialRefresh, want %v", dev.mode, Full)
	}

	if err := dev.CommitReferenceFrame(buf); err == nil {
		t.Errorf("CommitReferenceFrame() succeeded")
	}
}

func TestBusyTimeout(t *testing.T) {
	opts := EPD2in9v2
	opts.BusyTimeout = time.Millisecond

	dev, busy := newDev(t, &spitest.Record{}, &opts)
	busy.L = gpio.High

	err := dev.Init()
	if !errors.Is(err, ErrBusyTimeout) {
		t.Errorf("Init() error = %v, want %v", err, ErrBusyTimeout)
	}
}

func TestDraw(t *testing.T) {
	record := &spitest.Record{}
	dev, _ := newDev(t, record, &EPD2in9v2)

	if err := dev.Draw(image.Rect(0, 0, 8, 1), &image.Uniform{framebuf.On}, image.Point{}); err != nil {
		t.Fatalf("Draw() failed: %v", err)
	}

	if got := dev.frame.Bytes()[0]; got != 0 {
		t.Errorf("frame byte 0 = %#x, want 0", got)
	}

	if err := dev.Halt(); err != nil {
		t.Fatalf("Halt() failed: %v", err)
	}

	if diff := cmp.Diff(dev.frame.Bytes(), bytes.Repeat([]byte{0xff}, 128/8*296)); diff != "" {
		t.Errorf("Halt() did not clear the frame")
	}
}
