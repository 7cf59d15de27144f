// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd2in9v2

import (
	"errors"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

// ErrBusyTimeout is returned when the busy pin stays high for longer than
// Opts.BusyTimeout.
var ErrBusyTimeout = errors.New("epd2in9v2: timeout waiting for busy pin")

const (
	busyPollInterval = 10 * time.Millisecond
	defaultMaxTxSize = 4096
)

// errorHandler is a wrapper for error management.
type errorHandler struct {
	d   Dev
	err error
}

func (eh *errorHandler) rstOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.rst.Out(l)
}

func (eh *errorHandler) cTx(w []byte, r []byte) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.c.Tx(w, r)
}

func (eh *errorHandler) dcOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.dc.Out(l)
}

func (eh *errorHandler) csOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.cs.Out(l)
}

// waitUntilIdle blocks while the busy pin is high. Without a BusyTimeout it
// waits forever.
func (eh *errorHandler) waitUntilIdle() {
	if eh.err != nil {
		return
	}

	var deadline time.Time
	if eh.d.opts.BusyTimeout > 0 {
		deadline = time.Now().Add(eh.d.opts.BusyTimeout)
	}

	for eh.d.busy.Read() == gpio.High {
		if !deadline.IsZero() && time.Now().After(deadline) {
			eh.err = ErrBusyTimeout
			return
		}
		time.Sleep(busyPollInterval)
	}
}

func (eh *errorHandler) sendCommand(cmd byte) {
	if eh.err != nil {
		return
	}

	eh.dcOut(gpio.Low)
	eh.csOut(gpio.Low)
	eh.cTx([]byte{cmd}, nil)
	eh.csOut(gpio.High)
}

// sendData sends data in chunks the SPI port can handle.
func (eh *errorHandler) sendData(data []byte) {
	if eh.err != nil {
		return
	}

	max := maxTxSize(eh.d.c)

	eh.dcOut(gpio.High)
	for len(data) > 0 {
		n := len(data)
		if n > max {
			n = max
		}
		eh.csOut(gpio.Low)
		eh.cTx(data[:n], nil)
		eh.csOut(gpio.High)
		data = data[n:]
	}
}

func maxTxSize(c conn.Conn) int {
	if l, ok := c.(conn.Limits); ok {
		if n := l.MaxTxSize(); n > 0 {
			return n
		}
	}
	return defaultMaxTxSize
}
