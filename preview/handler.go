// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"image/png"
	"mime"
	"net/http"
	"net/textproto"
)

// encoderBuffer is the PNG buffer pool of one sink. A single buffer is enough
// because encoding happens with the sink mutex held.
type encoderBuffer struct {
	b *png.EncoderBuffer
}

func (e *encoderBuffer) Get() *png.EncoderBuffer  { return e.b }
func (e *encoderBuffer) Put(b *png.EncoderBuffer) { e.b = b }

// update describes the frame a client has to send next.
type update struct {
	// data is the encoded frame. It is never modified once published.
	data []byte
	// changed is closed by the next refresh.
	changed <-chan struct{}
	// halted is closed by Halt.
	halted <-chan struct{}
}

// refreshedLocked drops the encoded frames and wakes up every client.
func (s *Sink) refreshedLocked() {
	clear(s.encoded)
	close(s.changed)
	s.changed = make(chan struct{})
}

func (s *Sink) encodeLocked(format ImageFormat) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case PNG:
		if err := s.pngEnc.Encode(&buf, s.shown); err != nil {
			return nil, err
		}
	case JPEG:
		if err := jpeg.Encode(&buf, s.shown, &s.jpegOpts); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("preview: unhandled image format %s", format)
	}
	return buf.Bytes(), nil
}

// next returns the current frame encoded in format. Each frame is encoded at
// most once per format and shared by all clients.
func (s *Sink) next(format ImageFormat) (update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.encoded[format]
	if !ok {
		var err error
		if data, err = s.encodeLocked(format); err != nil {
			return update{}, err
		}
		s.encoded[format] = data
	}
	return update{data: data, changed: s.changed, halted: s.halted}, nil
}

// ServeHTTP handles HTTP GET requests and sends a new image of the panel
// after every refresh. Clients can request PNG or JPEG images using the
// "format" parameter ("?format=png", "?format=jpeg").
func (s *Sink) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.Body.Close(); err != nil {
		s.log.Warn("closing request body failed", "err", err)
	}

	if r.Method != http.MethodGet {
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}

	format := s.defaultFormat
	if v := r.URL.Query().Get("format"); v != "" {
		f, err := ParseImageFormat(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		format = f
	}

	pw := makePartWriter(w)
	w.Header().Set("Content-Type",
		mime.FormatMediaType("multipart/x-mixed-replace", map[string]string{
			"boundary": pw.boundary,
		}))

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Type", format.mimeType())
	hdr.Set("Content-Transfer-Encoding", "binary")

	s.log.Debug("preview client connected", "remote", r.RemoteAddr, "format", format)
	defer s.log.Debug("preview client gone", "remote", r.RemoteAddr)

	flusher, _ := w.(http.Flusher)
	for {
		u, err := s.next(format)
		if err != nil {
			s.log.Error("encoding frame failed", "format", format, "err", err)
			return
		}
		if err := pw.writeFrame(hdr, u.data); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}

		select {
		case <-u.changed:
		case <-u.halted:
			return
		case <-r.Context().Done():
			return
		}
	}
}
