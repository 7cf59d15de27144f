// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package boundedfmt

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrTemplate is returned for malformed templates.
var ErrTemplate = errors.New("boundedfmt: malformed template")

type argKind uint8

const (
	kindStr argKind = iota
	kindUint
	kindInt
	kindHex
	kindBool
)

// Arg is a typed value referenced by a template placeholder.
type Arg struct {
	kind argKind
	s    string
	u    uint64
}

// Str returns an Arg rendering s verbatim. s must be valid UTF-8.
func Str(s string) Arg {
	return Arg{kind: kindStr, s: s}
}

// Uint returns an Arg rendering v in decimal.
func Uint(v uint64) Arg {
	return Arg{kind: kindUint, u: v}
}

// Int returns an Arg rendering v in decimal.
func Int(v int64) Arg {
	return Arg{kind: kindInt, u: uint64(v)}
}

// Hex returns an Arg rendering v in lower case hexadecimal.
func Hex(v uint64) Arg {
	return Arg{kind: kindHex, u: v}
}

// Bool returns an Arg rendering "true" or "false".
func Bool(b bool) Arg {
	a := Arg{kind: kindBool}
	if b {
		a.u = 1
	}
	return a
}

// WriteArg writes a.
func (w *Writer) WriteArg(a Arg) (int, error) {
	switch a.kind {
	case kindUint:
		return w.WriteUint(a.u)
	case kindInt:
		return w.WriteInt(int64(a.u))
	case kindHex:
		return w.WriteHex(a.u)
	case kindBool:
		return w.WriteBool(a.u != 0)
	default:
		return w.WriteString(a.s)
	}
}

// Execute renders template into w.
//
// The template is literal text with {N} placeholders, N being the decimal
// index of the argument to render. "{{" and "}}" render a single brace.
//
// Template errors and a template that is not valid UTF-8 are returned. Overflow
// and rejected string arguments are sticky in the Writer and are reported by
// View.
func (w *Writer) Execute(template string, args ...Arg) error {
	if !utf8.ValidString(template) {
		w.invalid = true
		return ErrInvalidText
	}
	lit := 0
	for i := 0; i < len(template); i++ {
		switch template[i] {
		case '{':
			_, _ = w.WriteString(template[lit:i])
			if i+1 < len(template) && template[i+1] == '{' {
				i++
				lit = i
				continue
			}
			idx, end, err := parsePlaceholder(template, i)
			if err != nil {
				return err
			}
			if idx >= len(args) {
				return fmt.Errorf("%w: argument {%d} at offset %d, have %d arguments", ErrTemplate, idx, i, len(args))
			}
			_, _ = w.WriteArg(args[idx])
			i = end
			lit = end + 1
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				_, _ = w.WriteString(template[lit:i])
				i++
				lit = i
				continue
			}
			return fmt.Errorf("%w: unmatched '}' at offset %d", ErrTemplate, i)
		}
	}
	_, _ = w.WriteString(template[lit:])
	return nil
}

// parsePlaceholder parses the placeholder starting with the '{' at start. It
// returns the argument index and the offset of the closing '}'.
func parsePlaceholder(template string, start int) (int, int, error) {
	idx := 0
	digits := 0
	for i := start + 1; i < len(template); i++ {
		c := template[i]
		switch {
		case c >= '0' && c <= '9':
			if digits == 4 {
				return 0, 0, fmt.Errorf("%w: argument index too large at offset %d", ErrTemplate, start)
			}
			idx = idx*10 + int(c-'0')
			digits++
		case c == '}' && digits > 0:
			return idx, i, nil
		default:
			return 0, 0, fmt.Errorf("%w: invalid placeholder at offset %d", ErrTemplate, start)
		}
	}
	return 0, 0, fmt.Errorf("%w: unterminated placeholder at offset %d", ErrTemplate, start)
}

// Format renders template into buf and returns the resulting text.
//
// It returns ErrOverflow if the text does not fit buf. Nothing is allocated
// unless the template is malformed.
func Format(buf []byte, template string, args ...Arg) (View, error) {
	w := NewWriter(buf)
	if err := w.Execute(template, args...); err != nil {
		return View{}, err
	}
	return w.View()
}

// Measure returns the length of the text template renders to.
func Measure(template string, args ...Arg) (int, error) {
	var w Writer
	if err := w.Execute(template, args...); err != nil {
		return 0, err
	}
	if w.invalid {
		return 0, ErrInvalidText
	}
	return w.Len(), nil
}
