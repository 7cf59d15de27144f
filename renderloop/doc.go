// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package renderloop draws a counter on an e-paper panel forever.
//
// Each iteration formats the counter into a fixed size buffer, draws the text
// at a fixed position in the frame, asks the refresh controller for an update
// and increments the counter. The counter wraps at math.MaxUint32.
package renderloop
