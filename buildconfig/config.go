// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package buildconfig provides Starlark config for `singleinclude`.
//
// A config file defines `init(ctx)`, which returns module or struct.
//
//	def init(ctx):
//	    return module(
//	        "config",
//	        include_dirs = ["include", "third_party/fmt/include"],
//	        all = False,
//	        max_depth = 100,
//	        banner = "// generated. DO NOT EDIT.\n",
//	    )
//
// ctx has `flags` (dict of command line flags) and `config_dir`.
// include_dirs are relative to the dir of the config file.
// All fields are optional.
package buildconfig

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"
)

const configEntryPoint = "init"

// Config is a config loaded from a Starlark file.
type Config struct {
	// IncludeDirs are include directories, joined with the config dir.
	IncludeDirs []string

	// All enables include-all mode.
	All bool

	// MaxDepth is the limit of nested expansions. 0 means default.
	MaxDepth int

	// Banner replaces the default banner if not empty.
	Banner string
}

// Error is an error in the config file with Starlark backtrace.
type Error struct {
	fname string
	err   *starlark.EvalError
}

func (e Error) Error() string {
	return fmt.Sprintf("failed to run %s: %v", e.fname, e.err)
}

// Backtrace returns the Starlark backtrace.
func (e Error) Backtrace() string {
	return e.err.Backtrace()
}

func (e Error) Unwrap() error {
	return e.err
}

func builtinModule() starlark.StringDict {
	return starlark.StringDict{
		"module": starlark.NewBuiltin("module", starlarkstruct.MakeModule),
		"struct": starlark.NewBuiltin("struct", starlarkstruct.Make),
	}
}

// Load loads the config file fname, and runs `init` with flags.
func Load(ctx context.Context, fname string, flags map[string]string) (*Config, error) {
	src, err := os.ReadFile(fname)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	dir, err := filepath.Abs(filepath.Dir(fname))
	if err != nil {
		return nil, err
	}
	thread := &starlark.Thread{
		Name: "load",
		Print: func(thread *starlark.Thread, msg string) {
			log.Infof("thread:%s %s", thread.Name, msg)
		},
		Load: func(*starlark.Thread, string) (starlark.StringDict, error) {
			return nil, fmt.Errorf("load is not allowed in %s", fname)
		},
	}
	globals, err := starlark.ExecFileOptions(&syntax.FileOptions{}, thread, fname, src, builtinModule())
	if err != nil {
		return nil, evalError(fname, err)
	}
	fun, ok := globals[configEntryPoint]
	if !ok {
		return nil, fmt.Errorf("%s is not defined in %s", configEntryPoint, fname)
	}
	if _, ok := fun.(starlark.Callable); !ok {
		return nil, fmt.Errorf("%s %s is not callable in %s", configEntryPoint, fun.Type(), fname)
	}

	thread.Name = configEntryPoint
	hctx := starlarkstruct.FromStringDict(starlark.String("ctx"), starlark.StringDict{
		"flags":      packFlags(flags),
		"config_dir": starlark.String(dir),
	})
	ret, err := starlark.Call(thread, fun, starlark.Tuple{hctx}, nil)
	if err != nil {
		return nil, evalError(fname, err)
	}
	m, ok := ret.(starlark.HasAttrs)
	if !ok {
		return nil, fmt.Errorf("%s returned %s, want module or struct", configEntryPoint, ret.Type())
	}
	cfg, err := unpackConfig(m, dir)
	if err != nil {
		return nil, fmt.Errorf("bad config in %s: %w", fname, err)
	}
	log.Debugf("config %s: %+v", fname, cfg)
	return cfg, nil
}

func evalError(fname string, err error) error {
	log.Warnf("failed to exec file %s: %v", fname, err)
	var eerr *starlark.EvalError
	if errors.As(err, &eerr) {
		log.Warnf("stacktrace:\n%s", eerr.Backtrace())
		return Error{fname: fname, err: eerr}
	}
	return fmt.Errorf("failed to exec %s: %w", fname, err)
}

func packFlags(flags map[string]string) *starlark.Dict {
	dict := starlark.NewDict(len(flags))
	for k, v := range flags {
		// SetKey on string keys never fails.
		_ = dict.SetKey(starlark.String(k), starlark.String(v))
	}
	dict.Freeze()
	return dict
}

// attr returns the attribute name of m, or nil if it is not set.
func attr(m starlark.HasAttrs, name string) starlark.Value {
	v, err := m.Attr(name)
	if err != nil {
		return nil
	}
	return v
}

func unpackConfig(m starlark.HasAttrs, dir string) (*Config, error) {
	cfg := &Config{}
	if v := attr(m, "include_dirs"); v != nil && v != starlark.None {
		iter, ok := v.(starlark.Iterable)
		if !ok {
			return nil, fmt.Errorf("include_dirs %s, want list", v.Type())
		}
		it := iter.Iterate()
		defer it.Done()
		var elem starlark.Value
		for it.Next(&elem) {
			s, ok := starlark.AsString(elem)
			if !ok {
				return nil, fmt.Errorf("include_dirs element %s, want string", elem.Type())
			}
			if !filepath.IsAbs(s) {
				s = filepath.Join(dir, s)
			}
			cfg.IncludeDirs = append(cfg.IncludeDirs, s)
		}
	}
	if v := attr(m, "all"); v != nil && v != starlark.None {
		b, ok := v.(starlark.Bool)
		if !ok {
			return nil, fmt.Errorf("all %s, want bool", v.Type())
		}
		cfg.All = bool(b)
	}
	if v := attr(m, "max_depth"); v != nil && v != starlark.None {
		n, err := starlark.AsInt32(v)
		if err != nil {
			return nil, fmt.Errorf("max_depth: %w", err)
		}
		if n < 0 {
			return nil, fmt.Errorf("max_depth %d, want >= 0", n)
		}
		cfg.MaxDepth = n
	}
	if v := attr(m, "banner"); v != nil && v != starlark.None {
		s, ok := starlark.AsString(v)
		if !ok {
			return nil, fmt.Errorf("banner %s, want string", v.Type())
		}
		cfg.Banner = s
	}
	return cfg, nil
}
