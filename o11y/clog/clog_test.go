// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package clog_test is a test for clog package.
package clog_test

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/logging"

	"go.chromium.org/infra/build/singleinclude/o11y/clog"
)

func TestFromContext(t *testing.T) {
	ctx := context.Background()

	l := clog.FromContext(ctx)
	if l == nil {
		t.Fatal("clog.FromContext(ctx)=nil; want default logger")
	}

	// must not panic without logger in the context.
	clog.Infof(ctx, "Info")
	clog.Warningf(ctx, "Warning")
	clog.Errorf(ctx, "Error")

	logger := clog.New(ctx)
	cctx := clog.NewContext(ctx, logger)
	if got := clog.FromContext(cctx); got != logger {
		t.Errorf("clog.FromContext(cctx)=%p; want %p", got, logger)
	}
}

func TestSpan(t *testing.T) {
	ctx := clog.NewContext(context.Background(), clog.New(context.Background()))
	cctx := clog.NewSpan(ctx, "trace1", "span1", map[string]string{
		"root": "a.h",
	})
	e := clog.FromContext(cctx).Entry(logging.Info, "Child Info")
	if e.Trace != "trace1" || e.SpanID != "span1" || e.Labels["root"] != "a.h" {
		t.Errorf("Entry=%#v; want trace1/span1/root=a.h", e)
	}
	clog.Infof(cctx, "Child Info")
	if clog.FromContext(cctx).Trace() != "trace1" {
		t.Errorf("Trace()=%q; want %q", clog.FromContext(cctx).Trace(), "trace1")
	}
}

func TestLabelFormatter(t *testing.T) {
	e := logging.Entry{
		Timestamp: time.Now(),
		Severity:  logging.Info,
		Payload:   "expand a.h",
		Trace:     "run1",
		Labels: map[string]string{
			"root": "a.h",
			"all":  "false",
		},
	}
	got := clog.LabelFormatter(e)
	want := "[run1] all=false root=a.h expand a.h"
	if got != want {
		t.Errorf("clog.LabelFormatter(e)=%q; want=%q", got, want)
	}
}
