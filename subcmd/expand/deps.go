// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package expand

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"

	"go.chromium.org/infra/build/singleinclude/expander"
	"go.chromium.org/infra/build/singleinclude/o11y/clog"
	"go.chromium.org/infra/build/singleinclude/osfs"
)

const depsUsage = `list files to be expanded

 $ singleinclude deps [-I <dir>]... <file>

prints canonical paths of <file> and the files expanded into it,
one per line, in the order they are first expanded.
`

// DepsCmd returns the Command for the `deps` subcommand provided by this package.
func DepsCmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "deps [options...] <file>",
		ShortDesc: "list files to be expanded",
		LongDesc:  depsUsage,
		CommandRun: func() subcommands.CommandRun {
			c := &depsRun{}
			c.options.register(&c.Flags)
			return c
		},
	}
}

type depsRun struct {
	subcommands.CommandRunBase
	options
}

func (c *depsRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	err := c.run(ctx, args, a.GetOut())
	if err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			fmt.Fprintf(a.GetErr(), "%v\n%s\n", err, depsUsage)
			return 2
		default:
			clog.Errorf(ctx, "deps %q: %v", args, err)
			c.ui.Errorf("Error: %v", err)
		}
		return 1
	}
	return 0
}

func (c *depsRun) run(ctx context.Context, args []string, w io.Writer) error {
	fsys := osfs.New("singleinclude")
	root, opts, err := c.setup(ctx, fsys, &c.Flags, args)
	if err != nil {
		return err
	}
	result, err := expander.Expand(ctx, fsys, root, opts)
	if err != nil {
		return err
	}
	for _, f := range result.Included {
		_, err := fmt.Fprintln(w, f)
		if err != nil {
			return err
		}
	}
	return nil
}
