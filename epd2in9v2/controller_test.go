// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd2in9v2

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

type record struct {
	cmd  byte
	data []byte
}

// idle marks a waitUntilIdle call in the recording.
const idle = 0xFF

type fakeController []record

func (r *fakeController) sendCommand(cmd byte) {
	*r = append(*r, record{
		cmd: cmd,
	})
}

func (r *fakeController) sendData(data []byte) {
	cur := &(*r)[len(*r)-1]
	cur.data = append(cur.data, data...)
}

func (r *fakeController) waitUntilIdle() {
	*r = append(*r, record{cmd: idle})
}

func cursorRecords() []record {
	return []record{
		{cmd: setRAMXAddressCounter, data: []byte{0}},
		{cmd: setRAMYAddressCounter, data: []byte{0, 0}},
	}
}

func concat(parts ...[]record) []record {
	var all []record
	for _, p := range parts {
		all = append(all, p...)
	}
	return all
}

func TestInitDisplay(t *testing.T) {
	var got fakeController

	initDisplay(&got, &EPD2in9v2)

	want := concat(
		[]record{
			{cmd: idle},
			{cmd: swReset},
			{cmd: idle},
			{cmd: driverOutputControl, data: []byte{0x27, 0x01, 0x00}},
			{cmd: dataEntryModeSetting, data: []byte{0x03}},
			{cmd: setRAMXAddressStartEndPosition, data: []byte{0, 15}},
			{cmd: setRAMYAddressStartEndPosition, data: []byte{0, 0, 0x27, 0x01}},
			{cmd: displayUpdateControl1, data: []byte{0x00, 0x80}},
		},
		cursorRecords(),
		[]record{
			{cmd: idle},
			{cmd: writeLutRegister, data: EPD2in9v2.FullUpdate[:153]},
			{cmd: idle},
			{cmd: endOptionEOPT, data: []byte{0x22}},
			{cmd: gateDrivingVoltageControl, data: []byte{0x17}},
			{cmd: sourceDrivingVoltageControl, data: []byte{0x41, 0x00, 0x32}},
			{cmd: writeVcomRegister, data: []byte{0x36}},
		},
	)

	if diff := cmp.Diff([]record(got), want, cmpopts.EquateEmpty(), cmp.AllowUnexported(record{})); diff != "" {
		t.Errorf("initDisplay() difference (-got +want):\n%s", diff)
	}
}

func TestConfigPartial(t *testing.T) {
	opts := Opts{
		Width:         16,
		Height:        8,
		PartialUpdate: bytes.Repeat([]byte{'P'}, 159),
	}

	var got fakeController

	configPartial(&got, &opts)

	want := concat(
		[]record{
			{cmd: writeLutRegister, data: bytes.Repeat([]byte{'P'}, 153)},
			{cmd: writeRegisterForDisplayOption, data: []byte{0, 0, 0, 0, 0, 0x40, 0, 0, 0, 0}},
			{cmd: borderWaveformControl, data: []byte{0x80}},
			{cmd: displayUpdateControl2, data: []byte{0xc0}},
			{cmd: masterActivation},
			{cmd: idle},
			{cmd: setRAMXAddressStartEndPosition, data: []byte{0, 1}},
			{cmd: setRAMYAddressStartEndPosition, data: []byte{0, 0, 7, 0}},
		},
		cursorRecords(),
	)

	if diff := cmp.Diff([]record(got), want, cmpopts.EquateEmpty(), cmp.AllowUnexported(record{})); diff != "" {
		t.Errorf("configPartial() difference (-got +want):\n%s", diff)
	}
}

func TestUpdateDisplay(t *testing.T) {
	for _, tc := range []struct {
		name string
		mode PartialUpdate
		want []record
	}{
		{
			name: "full",
			mode: Full,
			want: []record{
				{cmd: displayUpdateControl2, data: []byte{0xc7}},
				{cmd: masterActivation},
				{cmd: idle},
			},
		},
		{
			name: "partial",
			mode: Partial,
			want: []record{
				{cmd: displayUpdateControl2, data: []byte{0x0f}},
				{cmd: masterActivation},
				{cmd: idle},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var got fakeController

			updateDisplay(&got, tc.mode)

			if diff := cmp.Diff([]record(got), tc.want, cmpopts.EquateEmpty(), cmp.AllowUnexported(record{})); diff != "" {
				t.Errorf("updateDisplay() difference (-got +want):\n%s", diff)
			}
		})
	}
}

func TestRefreshSequences(t *testing.T) {
	buf := []byte{0xaa, 0x55}

	frame := func(cmd byte) []record {
		return concat(cursorRecords(), []record{{cmd: cmd, data: buf}})
	}

	for _, tc := range []struct {
		name string
		fn   func(controller, []byte)
		want []record
	}{
		{
			name: "commit reference",
			fn:   commitReference,
			want: frame(writeRAMRed),
		},
		{
			name: "full",
			fn:   fullRefresh,
			want: concat(
				frame(writeRAMBW),
				frame(writeRAMRed),
				[]record{
					{cmd: displayUpdateControl2, data: []byte{0xc7}},
					{cmd: masterActivation},
					{cmd: idle},
				},
			),
		},
		{
			name: "partial",
			fn:   partialRefresh,
			want: concat(
				frame(writeRAMBW),
				[]record{
					{cmd: displayUpdateControl2, data: []byte{0x0f}},
					{cmd: masterActivation},
					{cmd: idle},
				},
				frame(writeRAMRed),
			),
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var got fakeController

			tc.fn(&got, buf)

			if diff := cmp.Diff([]record(got), tc.want, cmpopts.EquateEmpty(), cmp.AllowUnexported(record{})); diff != "" {
				t.Errorf("difference (-got +want):\n%s", diff)
			}
		})
	}
}

func TestSetCursor(t *testing.T) {
	var got fakeController

	setCursor(&got, 17, 0x123)

	want := []record{
		{cmd: setRAMXAddressCounter, data: []byte{2}},
		{cmd: setRAMYAddressCounter, data: []byte{0x23, 0x01}},
	}

	if diff := cmp.Diff([]record(got), want, cmpopts.EquateEmpty(), cmp.AllowUnexported(record{})); diff != "" {
		t.Errorf("setCursor() difference (-got +want):\n%s", diff)
	}
}
