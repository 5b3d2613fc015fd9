// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package expand

import (
	"context"
	"flag"
	"fmt"

	"go.chromium.org/luci/common/flag/stringlistflag"

	"go.chromium.org/infra/build/singleinclude/buildconfig"
	"go.chromium.org/infra/build/singleinclude/expander"
	"go.chromium.org/infra/build/singleinclude/osfs"
	"go.chromium.org/infra/build/singleinclude/ui"
)

// options are flags shared by expand and deps.
type options struct {
	includeDirs stringlistflag.Flag
	all         bool
	verbose     bool
	configFile  string
	maxDepth    int

	// ui reports messages to the user.
	ui ui.UI
}

func (o *options) register(fs *flag.FlagSet) {
	o.ui = ui.Default
	fs.Var(&o.includeDirs, "I", "add `dir` to include paths. can be specified multiple times")
	fs.BoolVar(&o.all, "a", false, "expand all files found, no matter whether it has been expanded before.\nthis may be helpful if macros choose which file to include, as macros are not evaluated")
	fs.BoolVar(&o.verbose, "v", false, "print more information to stderr (implies -t for expand)")
	fs.StringVar(&o.configFile, "config", "", "starlark config `file` that defines init(ctx)")
	fs.IntVar(&o.maxDepth, "max_depth", 0, fmt.Sprintf("limit of nested expansions with -a. %d if 0", expander.DefaultMaxDepth))
}

// flagValues returns string values of all flags in fs.
func flagValues(fs *flag.FlagSet) map[string]string {
	m := make(map[string]string)
	fs.VisitAll(func(f *flag.Flag) {
		m[f.Name] = f.Value.String()
	})
	return m
}

// setup validates args and flags, and returns the canonical root file
// and expander options.
func (o *options) setup(ctx context.Context, fsys *osfs.OSFS, fs *flag.FlagSet, args []string) (string, expander.Options, error) {
	var opts expander.Options
	if len(args) == 0 {
		return "", opts, fmt.Errorf("no input file: %w", flag.ErrHelp)
	}
	if len(args) > 1 {
		return "", opts, fmt.Errorf("too many input files %q: %w", args, flag.ErrHelp)
	}
	fi, err := fsys.Stat(ctx, args[0])
	if err != nil || !fi.Mode().IsRegular() {
		return "", opts, fmt.Errorf("%s: file doesn't exist", args[0])
	}
	root, err := fsys.Canonical(ctx, args[0])
	if err != nil {
		return "", opts, fmt.Errorf("%s: %w", args[0], err)
	}

	dirs := append([]string(nil), o.includeDirs...)
	opts.IncludeAll = o.all
	opts.Verbose = o.verbose
	opts.MaxDepth = o.maxDepth
	if o.configFile != "" {
		cfg, err := buildconfig.Load(ctx, o.configFile, flagValues(fs))
		if err != nil {
			return "", opts, err
		}
		dirs = append(dirs, cfg.IncludeDirs...)
		opts.IncludeAll = opts.IncludeAll || cfg.All
		if opts.MaxDepth == 0 {
			opts.MaxDepth = cfg.MaxDepth
		}
		opts.Banner = cfg.Banner
	}
	seen := make(map[string]bool)
	for _, dir := range dirs {
		fi, err := fsys.Stat(ctx, dir)
		if err != nil || !fi.IsDir() {
			return "", opts, fmt.Errorf("%s: directory doesn't exist", dir)
		}
		p, err := fsys.Canonical(ctx, dir)
		if err != nil {
			return "", opts, fmt.Errorf("%s: %w", dir, err)
		}
		if seen[p] {
			o.ui.Warningf("%s: duplicate include dir %s, ignored", dir, p)
			continue
		}
		seen[p] = true
		opts.SearchPaths = append(opts.SearchPaths, p)
	}
	return root, opts, nil
}
