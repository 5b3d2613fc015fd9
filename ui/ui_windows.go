// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ui

import (
	"os"

	log "github.com/golang/glog"
	"golang.org/x/sys/windows"
)

// console handle -> original console mode.
var consoleModes = make(map[windows.Handle]uint32)

// Init enables virtual terminal processing on stdout and stderr,
// to show the colored tree and colored messages.
func Init() {
	for _, f := range []*os.File{os.Stdout, os.Stderr} {
		h := windows.Handle(f.Fd())
		var mode uint32
		err := windows.GetConsoleMode(h, &mode)
		if err != nil {
			// not a console.
			log.V(1).Infof("GetConsoleMode %s: %v", f.Name(), err)
			continue
		}
		if mode&windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING != 0 {
			continue
		}
		err = windows.SetConsoleMode(h, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING)
		if err != nil {
			log.Warningf("SetConsoleMode %s: %v", f.Name(), err)
			continue
		}
		consoleModes[h] = mode
	}
}

// Restore restores the console modes changed by Init.
func Restore() {
	for h, mode := range consoleModes {
		err := windows.SetConsoleMode(h, mode)
		if err != nil {
			log.Warningf("SetConsoleMode 0x%x: %v", mode, err)
		}
		delete(consoleModes, h)
	}
}
