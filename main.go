// Copyright 2023 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Singleinclude inlines local #include of C/C++ source into a single file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	log "github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"

	"go.chromium.org/infra/build/singleinclude/o11y/clog"
	"go.chromium.org/infra/build/singleinclude/subcmd/expand"
	"go.chromium.org/infra/build/singleinclude/subcmd/version"
	"go.chromium.org/infra/build/singleinclude/ui"
)

const versionID = "v0.1.0"

func getApplication() *cli.Application {
	return &cli.Application{
		Name:  "singleinclude",
		Title: "tool to generate a single self-contained C/C++ header",
		Context: func(ctx context.Context) context.Context {
			logger := clog.New(ctx)
			logger.Formatter = clog.LabelFormatter
			ctx = clog.NewContext(ctx, logger)
			return clog.NewSpan(ctx, uuid.New().String(), "", nil)
		},
		Commands: []*subcommands.Command{
			expand.Cmd(),
			expand.DepsCmd(),

			subcommands.CmdHelp,
			version.Cmd(versionID),
		},
	}
}

func main() {
	os.Exit(singleincludeMain())
}

func singleincludeMain() int {
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(out, "global flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	// Flush the log on exit to not lose any messages.
	defer log.Flush()

	// Print a stack trace when a panic occurs.
	defer func() {
		if r := recover(); r != nil {
			const size = 64 << 10
			buf := make([]byte, size)
			buf = buf[:runtime.Stack(buf, false)]
			log.Fatalf("panic: %v\n%s", r, buf)
		}
	}()

	ui.Init()
	defer ui.Restore()

	// Print build information to the log.
	buildinfo, ok := debug.ReadBuildInfo()
	if ok {
		log.Infof("main module: %s %s", moduleInfo(&buildinfo.Main), vcsInfo(buildinfo))
		if log.V(1) {
			for _, m := range buildinfo.Deps {
				log.Infof("deps module: %s", moduleInfo(m))
			}
		}
	}
	return subcommands.Run(getApplication(), flag.Args())
}

func moduleInfo(m *debug.Module) string {
	if m == nil {
		return "<nil>"
	}
	return fmt.Sprintf("path:%s version:%s sum:%s replace:%s", m.Path, m.Version, m.Sum, moduleInfo(m.Replace))
}

func vcsInfo(buildinfo *debug.BuildInfo) string {
	m := make(map[string]string)
	for _, bs := range buildinfo.Settings {
		if strings.HasPrefix(bs.Key, "vcs.") {
			m[bs.Key] = bs.Value
		}
	}
	return fmt.Sprintf("vcs[revision=%s time=%s modified=%s]", m["vcs.revision"], m["vcs.time"], m["vcs.modified"])
}
