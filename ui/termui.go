// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ui

import (
	"fmt"
	"io"
)

// TermUI is a terminal-based UI.
// Warnings and errors are colored.
type TermUI struct {
	w io.Writer
}

// NewTermUI returns TermUI writing to w.
func NewTermUI(w io.Writer) *TermUI {
	return &TermUI{w: w}
}

// Infof reports a message as is.
func (u *TermUI) Infof(format string, args ...any) {
	fmt.Fprintf(u.w, format+"\n", args...)
}

// Warningf reports a message in yellow.
func (u *TermUI) Warningf(format string, args ...any) {
	fmt.Fprintln(u.w, SGR(Yellow, fmt.Sprintf(format, args...)))
}

// Errorf reports a message in red.
func (u *TermUI) Errorf(format string, args ...any) {
	fmt.Fprintln(u.w, SGR(Red, fmt.Sprintf(format, args...)))
}
