// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package epaper is a container for the e-paper counter firmware.
//
// The firmware renders a static banner once, then keeps refreshing a counter
// on a Waveshare 2.9 inch v2 panel using one full refresh followed by partial
// refreshes. The components live in their own packages:
//
//   - boundedfmt: allocation free text formatting into a fixed buffer.
//   - framebuf: the 1 bit per pixel frame buffer.
//   - refresh: the full/partial refresh state machine.
//   - renderloop: the never ending render loop.
//   - textlayout: glyph drawing.
//   - epd2in9v2: the panel driver.
//   - sim: a terminal panel emulator.
//   - preview: an HTTP stream of the frames shown on the panel.
package epaper
