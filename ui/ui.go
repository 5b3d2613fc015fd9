// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package ui reports messages to the user.
//
// Messages go to stderr, since stdout may carry the expanded output.
package ui

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// UI is a user interface.
type UI interface {
	// Infof reports an informational message.
	Infof(format string, args ...any)
	// Warningf reports a warning message.
	Warningf(format string, args ...any)
	// Errorf reports an error message.
	Errorf(format string, args ...any)
}

// Default holds the default UI interface, reporting to stderr.
// Making changes to this variable after init is undefined behavior.
var Default = New(os.Stderr)

// New returns TermUI if f is a terminal, or LogUI otherwise.
func New(f *os.File) UI {
	if IsTerminal(f) {
		return NewTermUI(f)
	}
	return NewLogUI(f)
}

// IsTerminal reports whether f is a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// https://en.wikipedia.org/wiki/ANSI_escape_code#SGR_(Select_Graphic_Rendition)_parameters
type SGRCode int

const (
	Red SGRCode = iota
	Green
	Yellow
	Reset
)

var sgrEscSeq = map[SGRCode]string{
	Red:    "\033[31;1m",
	Green:  "\033[32m",
	Yellow: "\033[33m",
	Reset:  "\033[0m",
}

func (s SGRCode) String() string {
	return sgrEscSeq[s]
}

// SGR formats s in SGR (select graphic rendition).
func SGR(n SGRCode, s string) string {
	return fmt.Sprintf("%s%s%s", n, s, Reset)
}
