// Copyright 2023 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package makeutil provides utilities for make.
package makeutil

import (
	"bytes"
	"io"
	"strings"
)

// WriteDeps writes deps file contents for output depending on inputs.
//
//	<output>: \
//	  <input> \
//	  <input>
//
// Names are escaped so make and ninja read them back as is.
func WriteDeps(w io.Writer, output string, inputs []string) error {
	var buf bytes.Buffer
	buf.WriteString(Escape(output))
	buf.WriteString(":")
	for _, in := range inputs {
		buf.WriteString(" \\\n  ")
		buf.WriteString(Escape(in))
	}
	buf.WriteString("\n")
	_, err := w.Write(buf.Bytes())
	return err
}

var escaper = strings.NewReplacer(
	" ", `\ `,
	"#", `\#`,
	"$", "$$",
)

// Escape escapes a file name for a deps file.
// ' ' and '#' are escaped by '\', and '$' by '$'.
func Escape(s string) string {
	return escaper.Replace(s)
}
