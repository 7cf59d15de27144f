// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"io"
	"net/textproto"
	"strconv"
)

// randomBoundary generates a MIME multipart boundary compatible with RFC 2046
// (section 5.1.1).
func randomBoundary() string {
	var buf [34]byte
	if _, err := io.ReadFull(rand.Reader, buf[:]); err != nil {
		panic(err)
	}
	return fmt.Sprintf("%x", buf[:])
}

// partWriter writes a never ending multipart stream. mime/multipart.Writer
// cannot flush the closing boundary line of each part.
type partWriter struct {
	u        io.Writer
	boundary string
	started  bool
	hdr      bytes.Buffer
}

func makePartWriter(u io.Writer) *partWriter {
	return &partWriter{
		u:        u,
		boundary: randomBoundary(),
	}
}

// writeFrame sends one part and its closing boundary. It sets the
// Content-Length of header.
func (w *partWriter) writeFrame(header textproto.MIMEHeader, body []byte) error {
	header.Set("Content-Length", strconv.Itoa(len(body)))

	w.hdr.Reset()
	if !w.started {
		fmt.Fprintf(&w.hdr, "--%s\r\n", w.boundary)
		w.started = true
	}
	for name, values := range header {
		for _, value := range values {
			fmt.Fprintf(&w.hdr, "%s: %s\r\n", name, value)
		}
	}
	w.hdr.WriteString("\r\n")

	if _, err := w.hdr.WriteTo(w.u); err != nil {
		return err
	}
	if _, err := w.u.Write(body); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w.u, "\r\n--%s\r\n", w.boundary)
	return err
}
