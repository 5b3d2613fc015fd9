// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package iometrics

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIOMetrics(t *testing.T) {
	m := New("test")
	m.OpsDone(nil)
	m.OpsDone(errors.New("stat failed"))
	m.ReadDone(10, nil)
	m.ReadDone(0, errors.New("read failed"))
	m.WriteDone(5, nil)

	want := Stats{
		Ops:     2,
		OpsErrs: 1,
		ROps:    2,
		RBytes:  10,
		RErrs:   1,
		WOps:    1,
		WBytes:  5,
	}
	if diff := cmp.Diff(want, m.Stats()); diff != "" {
		t.Errorf("Stats diff -want +got:\n%s", diff)
	}
	if got, want := m.Stats().String(), "ops=2(err:1) read=2(err:1) 10B write=1(err:0) 5B"; got != want {
		t.Errorf("Stats().String()=%q; want=%q", got, want)
	}
}

func TestNilIOMetrics(t *testing.T) {
	var m *IOMetrics
	m.OpsDone(nil)
	m.ReadDone(1, nil)
	m.WriteDone(1, nil)
	if got := m.Name(); got != "<nil>" {
		t.Errorf("Name()=%q; want=%q", got, "<nil>")
	}
	if diff := cmp.Diff(Stats{}, m.Stats()); diff != "" {
		t.Errorf("Stats diff -want +got:\n%s", diff)
	}
}
