// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package refresh sequences full and partial refreshes of an e-paper panel.
//
// A panel compares the new frame against a reference frame it keeps in its
// own RAM to decide which pixels a partial refresh must drive. The Controller
// therefore first commits the frame buffer as reference, then issues one full
// refresh and from then on only partial refreshes:
//
//	Uninitialized --commit reference--> FullFramePending --full--> Steady
//	Steady --partial--> Steady
//
// A failed panel call never advances the state.
package refresh
