// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ui

import (
	"io"

	"github.com/charmbracelet/log"
)

// LogUI is a log-based UI, used when the output is not a terminal.
type LogUI struct {
	logger *log.Logger
}

// NewLogUI returns LogUI logging to w.
func NewLogUI(w io.Writer) *LogUI {
	return &LogUI{
		logger: log.NewWithOptions(w, log.Options{
			Prefix: "singleinclude",
		}),
	}
}

// Infof logs at info level.
func (u *LogUI) Infof(format string, args ...any) {
	u.logger.Infof(format, args...)
}

// Warningf logs at warn level.
func (u *LogUI) Warningf(format string, args ...any) {
	u.logger.Warnf(format, args...)
}

// Errorf logs at error level.
func (u *LogUI) Errorf(format string, args ...any) {
	u.logger.Errorf(format, args...)
}
