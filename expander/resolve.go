// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package expander

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
)

// FileSystem is a filesystem used by the expander.
type FileSystem interface {
	// Stat returns a FileInfo describing the named file.
	Stat(ctx context.Context, name string) (fs.FileInfo, error)
	// ReadFile reads the named file.
	ReadFile(ctx context.Context, name string) ([]byte, error)
	// Canonical returns the absolute path of name with symlinks resolved.
	Canonical(ctx context.Context, name string) (string, error)
}

// candidateDirs returns dirs to find d included from includer.
// `#include "..."` searches the dir of includer first.
func (e *expansion) candidateDirs(d Directive, includer string) []string {
	if d.Angle {
		return e.searchPaths
	}
	dirs := make([]string, 0, len(e.searchPaths)+1)
	dirs = append(dirs, filepath.Dir(includer))
	dirs = append(dirs, e.searchPaths...)
	return dirs
}

// resolve finds a regular file for d included from includer,
// and returns its canonical path.
// It returns "" if not found in any candidate dirs.
// The first match wins; the remaining dirs are not checked.
func (e *expansion) resolve(ctx context.Context, d Directive, includer string) (string, error) {
	if d.Name == "" {
		return "", nil
	}
	var candidates []string
	if filepath.IsAbs(d.Name) {
		candidates = []string{filepath.Clean(d.Name)}
	} else {
		for _, dir := range e.candidateDirs(d, includer) {
			candidates = append(candidates, filepath.Join(dir, d.Name))
		}
	}
	e.logf(ctx, "find %s in %q", d, candidates)
	for _, fname := range candidates {
		fi, err := e.fsys.Stat(ctx, fname)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				e.logf(ctx, "find %s: %v", fname, err)
			}
			continue
		}
		if !fi.Mode().IsRegular() {
			continue
		}
		p, err := e.fsys.Canonical(ctx, fname)
		if err != nil {
			return "", fmt.Errorf("%w %s: %w", ErrFileOpen, fname, err)
		}
		return p, nil
	}
	return "", nil
}
