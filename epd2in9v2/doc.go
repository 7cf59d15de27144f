// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package epd2in9v2 controls the Waveshare 2.9 inch v2 e-paper display
// (SSD1680 controller, 128x296 pixels).
//
// The panel keeps two frames in RAM: the new frame (black/white RAM) and a
// reference frame (red RAM). A partial refresh only drives the pixels that
// differ between the two, so the reference must be committed before the first
// partial refresh and kept in sync afterwards.
//
// Datasheets
//
// https://www.waveshare.com/w/upload/7/79/2.9inch-e-paper-v2-specification.pdf
//
// Product page:
//
// 2.9 Inch version 2: https://www.waveshare.com/wiki/2.9inch_e-Paper_Module
//
package epd2in9v2
