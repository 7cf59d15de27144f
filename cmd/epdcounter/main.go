// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// epdcounter draws an ever increasing counter on a Waveshare 2.9" v2 e-paper
// HAT, using partial refreshes after the first full one.
//
// Use -sim to draw on the terminal instead and -http to watch the panel from a
// browser.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/epaper/epd2in9v2"
	"github.com/GermanBionicSystems/epaper/framebuf"
	"github.com/GermanBionicSystems/epaper/preview"
	"github.com/GermanBionicSystems/epaper/refresh"
	"github.com/GermanBionicSystems/epaper/renderloop"
	"github.com/GermanBionicSystems/epaper/sim"
	"github.com/GermanBionicSystems/epaper/textlayout"
)

// fontName selects the counter renderer.
type fontName string

// Set implements the flag.Value interface.
func (f *fontName) Set(s string) error {
	switch s {
	case "basic", "tiny":
		*f = fontName(s)
	default:
		return fmt.Errorf("unknown font %q: expected basic or tiny", s)
	}
	return nil
}

func (f *fontName) String() string {
	return string(*f)
}

func (f fontName) renderer() textlayout.Renderer {
	if f == "tiny" {
		return textlayout.DefaultTiny()
	}
	return textlayout.Default()
}

func mainImpl() error {
	spiID := flag.String("spi", "", "SPI port to use")
	useSim := flag.Bool("sim", false, "draw on the terminal instead of the panel")
	scale := flag.Int("scale", 3, "keep one pixel out of scale with -sim")
	busyTimeout := flag.Duration("busy-timeout", 0, "fail when the panel stays busy longer; 0 waits forever")
	httpAddr := flag.String("http", "", "serve a live preview of the panel on this address, e.g. :8080")
	previewFormat := preview.DefaultFormat
	flag.Var(&previewFormat, "preview-format", "preview image format: png or jpeg")
	verbose := flag.Bool("v", false, "verbose mode")
	fnt := fontName("basic")
	flag.Var(&fnt, "font", "counter font: basic or tiny")
	flag.Parse()
	if flag.NArg() != 0 {
		return fmt.Errorf("unexpected argument: %s", flag.Args())
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var panel refresh.Panel
	if *useSim {
		s, err := sim.New(&sim.Opts{
			Width:  epd2in9v2.EPD2in9v2.Width,
			Height: epd2in9v2.EPD2in9v2.Height,
			Scale:  *scale,
		})
		if err != nil {
			return err
		}
		defer s.Halt()
		panel = s
	} else {
		if _, err := host.Init(); err != nil {
			return err
		}
		b, err := spireg.Open(*spiID)
		if err != nil {
			return err
		}
		defer b.Close()

		opts := epd2in9v2.EPD2in9v2
		opts.BusyTimeout = *busyTimeout
		dev, err := epd2in9v2.NewHat(b, &opts)
		if err != nil {
			return err
		}
		if err := dev.Init(); err != nil {
			return err
		}
		logger.Info("panel ready", "dev", dev)
		panel = dev
	}

	if *httpAddr != "" {
		sink, err := preview.New(&preview.Opts{
			Width:  panel.Bounds().Dx(),
			Height: panel.Bounds().Dy(),
			Format: previewFormat,
			Logger: logger,
		})
		if err != nil {
			return err
		}
		defer sink.Halt()
		go func() {
			logger.Info("serving preview", "addr", *httpAddr)
			if err := http.ListenAndServe(*httpAddr, sink); err != nil {
				logger.Error("preview server stopped", "err", err)
			}
		}()
		panel = preview.Mirror(panel, sink)
	}

	frame, err := framebuf.New(panel.Bounds().Dx(), panel.Bounds().Dy())
	if err != nil {
		return err
	}
	ctrl, err := refresh.New(panel, frame)
	if err != nil {
		return err
	}
	loop, err := renderloop.New(frame, ctrl, fnt.renderer(), &renderloop.DefaultOpts, logger)
	if err != nil {
		return err
	}
	loop.Run()
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "epdcounter: %s.\n", err)
		os.Exit(1)
	}
}
