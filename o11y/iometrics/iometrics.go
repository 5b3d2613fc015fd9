// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package iometrics manages I/O metrics.
package iometrics

import (
	"fmt"
	"sync"
)

// IOMetrics holds I/O metrics.
type IOMetrics struct {
	name string

	mu    sync.Mutex
	stats Stats
}

// New returns new iometrics for name.
func New(name string) *IOMetrics {
	return &IOMetrics{name: name}
}

// OpsDone counts when a non read/write I/O operation is done. err is an I/O operation error.
// e.g. stat, realpath.
func (m *IOMetrics) OpsDone(err error) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.Ops++
	if err != nil {
		m.stats.OpsErrs++
	}
}

// ReadDone counts when a read operation is done.
// n is the number of bytes, and err is a read error.
func (m *IOMetrics) ReadDone(n int, err error) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.ROps++
	m.stats.RBytes += int64(n)
	if err != nil {
		m.stats.RErrs++
	}
}

// WriteDone counts when a write operation is done.
// n is the number of bytes, and err is a write error.
func (m *IOMetrics) WriteDone(n int, err error) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.WOps++
	m.stats.WBytes += int64(n)
	if err != nil {
		m.stats.WErrs++
	}
}

// Name returns the name of the iometrics.
func (m *IOMetrics) Name() string {
	if m == nil {
		return "<nil>"
	}
	return m.name
}

// Stats holds iometrics.
type Stats struct {
	// Number of I/O operations other than reads and writes.
	Ops int64
	// Number of I/O operation errors other than read and write errors.
	// Stat of non-existing candidate headers is counted here.
	OpsErrs int64

	// Number of read operations.
	ROps int64
	// Number of read bytes.
	RBytes int64
	// Number of read errors.
	RErrs int64

	// Number of write operations.
	WOps int64
	// Number of write bytes.
	WBytes int64
	// Number of write errors.
	WErrs int64
}

func (s Stats) String() string {
	return fmt.Sprintf("ops=%d(err:%d) read=%d(err:%d) %dB write=%d(err:%d) %dB",
		s.Ops, s.OpsErrs, s.ROps, s.RErrs, s.RBytes, s.WOps, s.WErrs, s.WBytes)
}

// Stats returns the snapshot of the iometrics.
func (m *IOMetrics) Stats() Stats {
	if m == nil {
		return Stats{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}
