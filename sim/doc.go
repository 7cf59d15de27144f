// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sim implements an e-paper panel emulator that outputs to the
// terminal (stdout) using ANSI color codes.
//
// Useful while you are waiting for your e-paper display to come by mail. The
// emulator keeps a reference frame like the real panel does and only repaints
// the rows that changed on a partial refresh.
package sim
