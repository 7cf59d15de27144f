// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package boundedfmt

import (
	"bytes"
	"errors"
	"strconv"
	"unicode/utf8"
)

// ErrOverflow is returned when the formatted text does not fit the buffer.
var ErrOverflow = errors.New("boundedfmt: output exceeds buffer capacity")

// ErrInvalidText is returned for strings that are not valid UTF-8.
var ErrInvalidText = errors.New("boundedfmt: invalid UTF-8 text")

// Writer writes text into a fixed buffer.
//
// The zero value has no capacity; it can still be used to measure text since
// the cursor advances regardless.
type Writer struct {
	buf []byte
	// used grows beyond len(buf) once a write did not fit.
	used int
	// invalid is set once a string was rejected.
	invalid bool
}

// NewWriter returns a Writer filling buf from its start.
func NewWriter(buf []byte) Writer {
	return Writer{buf: buf}
}

// Len returns the number of bytes written, including the ones that did not
// fit.
func (w *Writer) Len() int {
	return w.used
}

// Cap returns the capacity of the underlying buffer.
func (w *Writer) Cap() int {
	return len(w.buf)
}

// Overflowed reports whether any write did not fit.
func (w *Writer) Overflowed() bool {
	return w.used > len(w.buf)
}

// WriteString implements io.StringWriter.
//
// Once the buffer is full the cursor keeps advancing without copying, so the
// total length of the text stays known. A string that is not valid UTF-8 is
// not written and makes View fail with ErrInvalidText.
func (w *Writer) WriteString(s string) (int, error) {
	if !utf8.ValidString(s) {
		w.invalid = true
		return 0, ErrInvalidText
	}
	if w.Overflowed() {
		w.used += len(s)
		return 0, ErrOverflow
	}
	n := copy(w.buf[w.used:], s)
	w.used += len(s)
	if n < len(s) {
		return n, ErrOverflow
	}
	return n, nil
}

// WriteRune writes the UTF-8 encoding of r. Invalid runes are written as
// utf8.RuneError.
func (w *Writer) WriteRune(r rune) (int, error) {
	var tmp [utf8.UTFMax]byte
	return w.write(utf8.AppendRune(tmp[:0], r))
}

// WriteUint writes v in decimal.
func (w *Writer) WriteUint(v uint64) (int, error) {
	var tmp [20]byte
	return w.write(strconv.AppendUint(tmp[:0], v, 10))
}

// WriteInt writes v in decimal.
func (w *Writer) WriteInt(v int64) (int, error) {
	var tmp [20]byte
	return w.write(strconv.AppendInt(tmp[:0], v, 10))
}

// WriteHex writes v in lower case hexadecimal, without prefix.
func (w *Writer) WriteHex(v uint64) (int, error) {
	var tmp [16]byte
	return w.write(strconv.AppendUint(tmp[:0], v, 16))
}

// WriteBool writes "true" or "false".
func (w *Writer) WriteBool(b bool) (int, error) {
	if b {
		return w.WriteString("true")
	}
	return w.WriteString("false")
}

// write copies text produced by this package. Callers must only pass valid
// UTF-8.
func (w *Writer) write(p []byte) (int, error) {
	if w.Overflowed() {
		w.used += len(p)
		return 0, ErrOverflow
	}
	n := copy(w.buf[w.used:], p)
	w.used += len(p)
	if n < len(p) {
		return n, ErrOverflow
	}
	return n, nil
}

// View returns the written text. It fails with ErrOverflow if any write did
// not fit, or with ErrInvalidText if a string was rejected. The buffer content
// must be ignored in both cases.
func (w *Writer) View() (View, error) {
	if w.invalid {
		return View{}, ErrInvalidText
	}
	if w.Overflowed() {
		return View{}, ErrOverflow
	}
	return View{b: w.buf[:w.used:w.used]}, nil
}

// View is a read-only view over formatted text. It aliases the buffer given
// to the Writer; the buffer must not be written to while the View is in use.
type View struct {
	b []byte
}

// Len returns the length of the text in bytes.
func (v View) Len() int {
	return len(v.b)
}

// Bytes returns the text. The returned slice must not be modified.
func (v View) Bytes() []byte {
	return v.b
}

// String returns a copy of the text.
func (v View) String() string {
	return string(v.b)
}

// Equal reports whether both views hold the same text.
func (v View) Equal(o View) bool {
	return bytes.Equal(v.b, o.b)
}
