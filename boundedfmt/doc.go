// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package boundedfmt formats values into a caller supplied, fixed capacity
// byte buffer without allocating.
//
// A Writer keeps a cursor of the bytes written so far. When a write does not
// fit the cursor still advances by the full length of the write, so the
// cursor ends up beyond the capacity and the overflow is reported when the
// result is requested. A truncated prefix is never handed out.
//
// The Writer only accepts text: valid UTF-8 strings, runes and the decimal or
// hexadecimal rendering of numbers. Strings that are not valid UTF-8 are
// rejected with ErrInvalidText, so a View always holds valid UTF-8.
package boundedfmt
