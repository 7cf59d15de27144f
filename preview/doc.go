// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package preview serves the frames shown on an e-paper panel over HTTP.
//
// A Sink is a panel of its own: it keeps the reference frame and the shown
// frame like the real controller does. Wrap the real panel with Mirror so
// every successful refresh is also sent to the Sink. Clients get the current
// frame and are updated on every refresh.
//
// The protocol used is "MJPEG" (https://en.wikipedia.org/wiki/Motion_JPEG)
// which is often used by IP cameras. PNG is used by default since it keeps
// the 1 bit frames sharp. JPEG can be selected via Opts.Format or using the
// "format" URL parameter.
package preview
