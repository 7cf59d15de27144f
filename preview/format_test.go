// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"flag"
	"fmt"
	"testing"
)

func TestImageFormat(t *testing.T) {
	for _, tc := range []struct {
		format       ImageFormat
		wantString   string
		wantMimeType string
	}{
		{
			format:       ImageFormat(-1),
			wantString:   "-1",
			wantMimeType: "application/octet-stream",
		},
		{
			format:       DefaultFormat,
			wantString:   "png",
			wantMimeType: "image/png",
		},
		{
			format:       JPEG,
			wantString:   "jpeg",
			wantMimeType: "image/jpeg",
		},
	} {
		t.Run(fmt.Sprint(tc), func(t *testing.T) {
			if got := tc.format.String(); got != tc.wantString {
				t.Errorf("String() returned %q, want %q", got, tc.wantString)
			}

			if got := tc.format.mimeType(); got != tc.wantMimeType {
				t.Errorf("mimeType() returned %q, want %q", got, tc.wantMimeType)
			}
		})
	}
}

func TestImageFormatFlag(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := DefaultFormat
	fs.Var(&f, "format", "")

	if err := fs.Parse([]string{"-format", "jpg"}); err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if f != JPEG {
		t.Errorf("format = %s, want %s", f, JPEG)
	}

	if err := f.Set("bmp"); err == nil {
		t.Error("Set(\"bmp\") succeeded")
	}
}
