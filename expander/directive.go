// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package expander

import (
	"bytes"
)

// Directive is an #include directive.
type Directive struct {
	// Name is the filename between delimiters.
	Name string
	// Angle is true for `#include <name>`, false for `#include "name"`.
	Angle bool
}

// String returns the name with its delimiters.
func (d Directive) String() string {
	return delimit(d.Name, d.Angle)
}

func delimit(name string, angle bool) string {
	if angle {
		return "<" + name + ">"
	}
	return `"` + name + `"`
}

// ParseDirective checks whether line is an #include directive.
// line may have a trailing newline.
func ParseDirective(line []byte) (Directive, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 || line[0] != '#' {
		return Directive{}, false
	}
	// skip #
	line = bytes.TrimSpace(line[1:])
	if !bytes.HasPrefix(line, []byte("include")) {
		return Directive{}, false
	}
	line = bytes.TrimSpace(bytes.TrimPrefix(line, []byte("include")))
	// <name> or "name" up to the end of line.
	if len(line) < 2 {
		return Directive{}, false
	}
	var d Directive
	switch {
	case line[0] == '<' && line[len(line)-1] == '>':
		d.Angle = true
	case line[0] == '"' && line[len(line)-1] == '"':
	default:
		return Directive{}, false
	}
	name := bytes.TrimLeft(line[1:len(line)-1], " \t\v\f\r")
	if i := bytes.IndexAny(name, " \t\v\f\r>\""); i >= 0 {
		name = name[:i]
	}
	d.Name = string(name)
	return d, true
}

// nextLine returns the first line of buf, including its newline,
// and the rest of buf.
func nextLine(buf []byte) ([]byte, []byte) {
	i := bytes.IndexByte(buf, '\n')
	if i < 0 {
		return buf, nil
	}
	return buf[:i+1], buf[i+1:]
}
