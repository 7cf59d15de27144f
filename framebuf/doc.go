// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package framebuf implements the in-memory monochrome frame shown on an
// e-paper panel.
//
// The pixels are stored in the layout the panel RAM expects: rows of
// (width+7)/8 bytes, most significant bit first, a set bit being paper and
// a cleared bit being ink. The raw bytes can thus be streamed to the panel
// without conversion.
package framebuf
