// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package osfs provides OS Filesystem access.
package osfs

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"go.chromium.org/infra/build/singleinclude/o11y/clog"
	"go.chromium.org/infra/build/singleinclude/o11y/iometrics"
)

// canonicalCacheSize is the number of canonical paths kept in OSFS.
const canonicalCacheSize = 4096

// OSFS provides OS Filesystem access.
// It counts metrics by iometrics.
type OSFS struct {
	*iometrics.IOMetrics

	// name -> canonical path.
	canonical *lru.Cache[string, string]
}

// New creates new OSFS.
func New(name string) *OSFS {
	cache, err := lru.New[string, string](canonicalCacheSize)
	if err != nil {
		panic(err)
	}
	return &OSFS{
		IOMetrics: iometrics.New(name),
		canonical: cache,
	}
}

func logSlow(ctx context.Context, name string, dur time.Duration, err error) {
	buf := make([]byte, 4*1024)
	n := runtime.Stack(buf, false)
	clog.Warningf(ctx, "slow op %s: %s %v\n%s", name, dur, err, buf[:n])
}

// Stat returns a FileInfo describing the named file, following symlinks.
func (fs *OSFS) Stat(ctx context.Context, fname string) (fs.FileInfo, error) {
	started := time.Now()
	fi, err := os.Stat(fname)
	fs.OpsDone(err)
	if dur := time.Since(started); dur > 1*time.Minute {
		logSlow(ctx, fname, dur, err)
	}
	return fi, err
}

// Canonical returns the absolute path of name with symlinks resolved.
// Resolved paths are cached, assuming symlinks don't change while
// OSFS is used.
func (fs *OSFS) Canonical(ctx context.Context, name string) (string, error) {
	if p, ok := fs.canonical.Get(name); ok {
		return p, nil
	}
	started := time.Now()
	p, err := filepath.Abs(name)
	if err == nil {
		p, err = filepath.EvalSymlinks(p)
	}
	fs.OpsDone(err)
	if err == nil {
		fs.canonical.Add(name, p)
	}
	if dur := time.Since(started); dur > 1*time.Minute {
		logSlow(ctx, name, dur, err)
	}
	return p, err
}

// ReadFile reads the named file.
func (fs *OSFS) ReadFile(ctx context.Context, name string) ([]byte, error) {
	started := time.Now()
	buf, err := os.ReadFile(name)
	fs.ReadDone(len(buf), err)
	if dur := time.Since(started); dur > 1*time.Minute {
		logSlow(ctx, name, dur, err)
	}
	return buf, err
}

// WriteFile writes data to the named file, creating it if necessary.
// data is compressed when name has a compression suffix
// (see Compression).
func (fs *OSFS) WriteFile(ctx context.Context, name string, data []byte, perm fs.FileMode) error {
	started := time.Now()
	data, err := compress(CompressionOf(name), data)
	if err == nil {
		err = os.WriteFile(name, data, perm)
	}
	fs.WriteDone(len(data), err)
	if dur := time.Since(started); dur > 1*time.Minute {
		logSlow(ctx, name, dur, err)
	}
	return err
}
