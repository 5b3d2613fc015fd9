// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ui

import (
	"fmt"
	"time"
)

// FormatDuration formats duration of a run in "Xms" under a second,
// "X.XXs" under a minute, or "XmXX.XXs".
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	d = d.Round(10 * time.Millisecond)
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	mins := d / time.Minute
	d -= mins * time.Minute
	return fmt.Sprintf("%dm%05.2fs", int64(mins), d.Seconds())
}
