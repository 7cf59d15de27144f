// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package textlayout draws text onto monochrome frames.
//
// Single lines are drawn by a Renderer, which only touches the bounding box
// of the text so that a panel can refresh just that area. Two renderers are
// provided: FaceRenderer uses golang.org/x/image font faces, TinyRenderer uses
// tinyfont bitmap fonts. DrawBox lays out word wrapped text in a rectangle
// using a TrueType font.
package textlayout
