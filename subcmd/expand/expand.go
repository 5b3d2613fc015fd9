// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package expand provides expand and deps subcommands.
package expand

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/golang/glog"
	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"

	"go.chromium.org/infra/build/singleinclude/expander"
	"go.chromium.org/infra/build/singleinclude/o11y/clog"
	"go.chromium.org/infra/build/singleinclude/osfs"
	"go.chromium.org/infra/build/singleinclude/toolsupport/makeutil"
	"go.chromium.org/infra/build/singleinclude/ui"
)

const usage = `generate a single include file

 $ singleinclude expand [-I <dir>]... [-o <file>] <file>

expands #include "..." and #include <...> of <file> that are found
in the dir of the including file (for "...") or in include paths
given by -I, and prints the result to stdout or to the -o file.
#include that is not found in any include path (e.g. system
headers) is kept as is.

By default, a file that has been expanded before is omitted later.
-o file ending with .gz or .zst is compressed.
`

// Cmd returns the Command for the `expand` subcommand provided by this package.
func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "expand [options...] <file>",
		ShortDesc: "generate a single include file",
		LongDesc:  usage,
		CommandRun: func() subcommands.CommandRun {
			c := &run{}
			c.init()
			return c
		},
	}
}

type run struct {
	subcommands.CommandRunBase
	options

	output  string
	depfile string
	dryRun  bool
	tree    bool

	// color colors the status in the tree.
	color bool
}

func (c *run) init() {
	c.options.register(&c.Flags)
	c.Flags.StringVar(&c.output, "o", "", "set the output `file` name. by default, the output is printed to stdout")
	c.Flags.StringVar(&c.depfile, "depfile", "", "write make deps `file` for the output. requires -o")
	c.Flags.BoolVar(&c.dryRun, "d", false, "dry run mode. do not output the expanded file")
	c.Flags.BoolVar(&c.tree, "t", false, "print dependency tree")
}

func (c *run) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	c.color = ui.IsTerminal(os.Stdout)
	err := c.run(ctx, args, a.GetOut())
	if err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			fmt.Fprintf(a.GetErr(), "%v\n%s\n", err, usage)
			return 2
		default:
			clog.Errorf(ctx, "expand %q: %v", args, err)
			c.ui.Errorf("Error: %v", err)
		}
		return 1
	}
	return 0
}

func (c *run) run(ctx context.Context, args []string, w io.Writer) error {
	started := time.Now()
	if c.depfile != "" && c.output == "" {
		return fmt.Errorf("-depfile requires -o: %w", flag.ErrHelp)
	}
	fsys := osfs.New("singleinclude")
	root, opts, err := c.setup(ctx, fsys, &c.Flags, args)
	if err != nil {
		return err
	}
	ctx = clog.NewSpan(ctx, clog.FromContext(ctx).Trace(), root, map[string]string{
		"all": fmt.Sprint(opts.IncludeAll),
	})
	result, err := expander.Expand(ctx, fsys, root, opts)
	if err != nil {
		return err
	}
	if !c.dryRun {
		err = c.writeOutput(ctx, fsys, w, result)
		if err != nil {
			return err
		}
	}
	if c.verbose {
		err = c.dump(w, root, opts, result)
		if err != nil {
			return err
		}
		stats := fsys.Stats()
		c.ui.Infof("%s: %d files expanded in %s: %s", root, len(result.Included), ui.FormatDuration(time.Since(started)), stats)
	} else if c.tree {
		err = c.printTree(w, result.Root)
		if err != nil {
			return err
		}
	}
	if log.V(1) {
		clog.Infof(ctx, "io %s: %s", fsys.Name(), fsys.Stats())
	}
	return nil
}

// writeOutput writes the expanded text to the output file or w,
// and the depfile.
func (c *run) writeOutput(ctx context.Context, fsys *osfs.OSFS, w io.Writer, result *expander.Result) error {
	if c.output == "" {
		_, err := w.Write(result.Text)
		return err
	}
	err := fsys.WriteFile(ctx, c.output, result.Text, 0644)
	if err != nil {
		return fmt.Errorf("file error: cannot open output file %s: %w", c.output, err)
	}
	if c.depfile == "" {
		return nil
	}
	var buf bytes.Buffer
	err = makeutil.WriteDeps(&buf, c.output, result.Included)
	if err != nil {
		return err
	}
	err = fsys.WriteFile(ctx, c.depfile, buf.Bytes(), 0644)
	if err != nil {
		return fmt.Errorf("file error: cannot write depfile %s: %w", c.depfile, err)
	}
	return nil
}
