// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd2in9v2

type controller interface {
	sendCommand(byte)
	sendData([]byte)
	waitUntilIdle()
}

func initDisplay(ctrl controller, opts *Opts) {
	ctrl.waitUntilIdle()
	ctrl.sendCommand(swReset)
	ctrl.waitUntilIdle()

	ctrl.sendCommand(driverOutputControl)
	ctrl.sendData([]byte{
		byte((opts.Height - 1) & 0xFF),
		byte((opts.Height - 1) >> 8),
		0x00,
	})

	ctrl.sendCommand(dataEntryModeSetting)
	ctrl.sendData([]byte{
		// Y increment, X increment; update address counter in X direction
		0b011,
	})

	setWindow(ctrl, 0, 0, opts.Width-1, opts.Height-1)

	ctrl.sendCommand(displayUpdateControl1)
	ctrl.sendData([]byte{0x00, 0x80})

	setCursor(ctrl, 0, 0)
	ctrl.waitUntilIdle()

	setLut(ctrl, opts.FullUpdate)
}

// setLut loads the waveform and the voltages stored after it.
func setLut(ctrl controller, lut LUT) {
	ctrl.sendCommand(writeLutRegister)
	ctrl.sendData(lut[:lutWaveformSize])
	ctrl.waitUntilIdle()

	ctrl.sendCommand(endOptionEOPT)
	ctrl.sendData([]byte{lut[lutWaveformSize]})

	ctrl.sendCommand(gateDrivingVoltageControl)
	ctrl.sendData([]byte{lut[lutWaveformSize+1]})

	ctrl.sendCommand(sourceDrivingVoltageControl)
	ctrl.sendData(lut[lutWaveformSize+2 : lutWaveformSize+5])

	ctrl.sendCommand(writeVcomRegister)
	ctrl.sendData([]byte{lut[lutWaveformSize+5]})
}

// configPartial switches the controller to the partial update waveform.
func configPartial(ctrl controller, opts *Opts) {
	ctrl.sendCommand(writeLutRegister)
	ctrl.sendData(opts.PartialUpdate[:lutWaveformSize])

	// Enable "ping-pong" between the two RAM banks, as in the vendor code.
	ctrl.sendCommand(writeRegisterForDisplayOption)
	ctrl.sendData([]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x40, 0x00, 0x00, 0x00, 0x00})

	ctrl.sendCommand(borderWaveformControl)
	ctrl.sendData([]byte{0x80})

	ctrl.sendCommand(displayUpdateControl2)
	ctrl.sendData([]byte{displayUpdateEnableClock | displayUpdateEnableAnalog})

	ctrl.sendCommand(masterActivation)
	ctrl.waitUntilIdle()

	setWindow(ctrl, 0, 0, opts.Width-1, opts.Height-1)
	setCursor(ctrl, 0, 0)
}

// setWindow sets the RAM area (x in pixels, rounded to bytes).
func setWindow(ctrl controller, xStart, yStart, xEnd, yEnd int) {
	ctrl.sendCommand(setRAMXAddressStartEndPosition)
	ctrl.sendData([]byte{byte((xStart >> 3) & 0xFF), byte((xEnd >> 3) & 0xFF)})

	ctrl.sendCommand(setRAMYAddressStartEndPosition)
	ctrl.sendData([]byte{
		byte(yStart & 0xFF), byte((yStart >> 8) & 0xFF),
		byte(yEnd & 0xFF), byte((yEnd >> 8) & 0xFF),
	})
}

// setCursor positions the RAM address counter.
func setCursor(ctrl controller, x, y int) {
	ctrl.sendCommand(setRAMXAddressCounter)
	// x point must be the multiple of 8 or the last 3 bits will be ignored
	ctrl.sendData([]byte{byte((x >> 3) & 0xFF)})

	ctrl.sendCommand(setRAMYAddressCounter)
	ctrl.sendData([]byte{byte(y & 0xFF), byte((y >> 8) & 0xFF)})
}

func writeFrame(ctrl controller, cmd byte, buf []byte) {
	setCursor(ctrl, 0, 0)
	ctrl.sendCommand(cmd)
	ctrl.sendData(buf)
}

func updateDisplay(ctrl controller, mode PartialUpdate) {
	flags := displayUpdateEnableClock |
		displayUpdateEnableAnalog |
		displayUpdateDisplay |
		displayUpdateDisableAnalog |
		displayUpdateDisableClock

	if mode == Partial {
		// Clock and analog were enabled by configPartial.
		flags = displayUpdateDisplay |
			displayUpdateMode2 |
			displayUpdateDisableAnalog |
			displayUpdateDisableClock
	}

	ctrl.sendCommand(displayUpdateControl2)
	ctrl.sendData([]byte{flags})

	ctrl.sendCommand(masterActivation)
	ctrl.waitUntilIdle()
}

// commitReference writes buf to the reference RAM without updating the
// display.
func commitReference(ctrl controller, buf []byte) {
	writeFrame(ctrl, writeRAMRed, buf)
}

func fullRefresh(ctrl controller, buf []byte) {
	writeFrame(ctrl, writeRAMBW, buf)
	writeFrame(ctrl, writeRAMRed, buf)
	updateDisplay(ctrl, Full)
}

// partialRefresh shows buf and then makes it the new reference.
func partialRefresh(ctrl controller, buf []byte) {
	writeFrame(ctrl, writeRAMBW, buf)
	updateDisplay(ctrl, Partial)
	writeFrame(ctrl, writeRAMRed, buf)
}

func deepSleep(ctrl controller) {
	// Turn off DC/DC converter, clock, output load and MCU. RAM content is
	// retained.
	ctrl.sendCommand(deepSleepMode)
	ctrl.sendData([]byte{0x01})
}
