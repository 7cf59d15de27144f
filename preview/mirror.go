// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"github.com/GermanBionicSystems/epaper/refresh"
)

// Mirror returns a panel forwarding every call to panel and, when it
// succeeded, to s. Errors of s are returned as well.
func Mirror(panel refresh.Panel, s *Sink) refresh.Panel {
	return &mirror{Panel: panel, sink: s}
}

type mirror struct {
	refresh.Panel
	sink *Sink
}

func (m *mirror) CommitReferenceFrame(buf []byte) error {
	if err := m.Panel.CommitReferenceFrame(buf); err != nil {
		return err
	}
	return m.sink.CommitReferenceFrame(buf)
}

func (m *mirror) FullRefresh(buf []byte) error {
	if err := m.Panel.FullRefresh(buf); err != nil {
		return err
	}
	return m.sink.FullRefresh(buf)
}

func (m *mirror) PartialRefresh(buf []byte) error {
	if err := m.Panel.PartialRefresh(buf); err != nil {
		return err
	}
	return m.sink.PartialRefresh(buf)
}
