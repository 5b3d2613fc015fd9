// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package expand

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"go.chromium.org/infra/build/singleinclude/expander"
	"go.chromium.org/infra/build/singleinclude/toolsupport/makeutil"
	"go.chromium.org/infra/build/singleinclude/ui"
)

func setupFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for fname, content := range files {
		fname := filepath.Join(dir, fname)
		err := os.MkdirAll(filepath.Dir(fname), 0755)
		if err != nil {
			t.Fatal(err)
		}
		err = os.WriteFile(fname, []byte(content), 0644)
		if err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func runExpand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runExpandUI(t, io.Discard, args...)
}

// runExpandUI runs expand with args, and returns its stdout.
// Messages to the user are written to msgs.
func runExpandUI(t *testing.T, msgs io.Writer, args ...string) (string, error) {
	t.Helper()
	c := &run{}
	c.init()
	c.ui = ui.NewTermUI(msgs)
	err := c.Flags.Parse(args)
	if err != nil {
		t.Fatalf("Flags.Parse(%q)=%v", args, err)
	}
	var buf bytes.Buffer
	err = c.run(context.Background(), c.Flags.Args(), &buf)
	return buf.String(), err
}

var testFiles = map[string]string{
	"src/a.h":       "#include \"b.h\"\n#include <lib.h>\n#include <stdio.h>\nint a;\n",
	"src/b.h":       "#include <lib.h>\nint b;\n",
	"include/lib.h": "int lib;\n",
}

func TestExpand_Stdout(t *testing.T) {
	dir := setupFiles(t, testFiles)
	got, err := runExpand(t, "-I", filepath.Join(dir, "include"), "-t", filepath.Join(dir, "src/a.h"))
	if err != nil {
		t.Fatalf("expand=%v; want nil err", err)
	}
	want := expander.DefaultBanner + `// #include "b.h"
// #include <lib.h>
int lib;
// End #include <lib.h>
int b;
// End #include "b.h"
// #include <lib.h> (omitted because it has been expanded)
#include <stdio.h>
int a;
` + `"` + dir + `/src/a.h" (expanded)
  "` + dir + `/src/b.h" (expanded)
    <` + dir + `/include/lib.h> (expanded)
  <` + dir + `/include/lib.h> (already included)
  <stdio.h> (not found)
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("expand diff -want +got:\n%s", diff)
	}
}

func TestExpand_IncludeAll(t *testing.T) {
	dir := setupFiles(t, testFiles)
	got, err := runExpand(t, "-a", "-I", filepath.Join(dir, "include"), filepath.Join(dir, "src/a.h"))
	if err != nil {
		t.Fatalf("expand=%v; want nil err", err)
	}
	if n := strings.Count(got, "int lib;"); n != 2 {
		t.Errorf("lib.h expanded %d times; want 2\n%s", n, got)
	}
}

func TestExpand_OutputAndDepfile(t *testing.T) {
	dir := setupFiles(t, testFiles)
	output := filepath.Join(dir, "out/all.h")
	depfile := filepath.Join(dir, "out/all.h.d")
	err := os.MkdirAll(filepath.Dir(output), 0755)
	if err != nil {
		t.Fatal(err)
	}
	got, err := runExpand(t, "-I", filepath.Join(dir, "include"), "-o", output, "-depfile", depfile, filepath.Join(dir, "src/a.h"))
	if err != nil {
		t.Fatalf("expand=%v; want nil err", err)
	}
	if got != "" {
		t.Errorf("expand printed %q; want empty", got)
	}
	buf, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(buf), expander.DefaultBanner) || !strings.Contains(string(buf), "int lib;\n") {
		t.Errorf("output=%q; want expanded content", buf)
	}
	buf, err = os.ReadFile(depfile)
	if err != nil {
		t.Fatal(err)
	}
	wantDeps := makeutil.Escape(output) + ": \\\n" +
		"  " + makeutil.Escape(filepath.Join(dir, "src/a.h")) + " \\\n" +
		"  " + makeutil.Escape(filepath.Join(dir, "src/b.h")) + " \\\n" +
		"  " + makeutil.Escape(filepath.Join(dir, "include/lib.h")) + "\n"
	if diff := cmp.Diff(wantDeps, string(buf)); diff != "" {
		t.Errorf("depfile diff -want +got:\n%s", diff)
	}
}

func TestExpand_CompressedOutput(t *testing.T) {
	dir := setupFiles(t, testFiles)
	want, err := runExpand(t, "-I", filepath.Join(dir, "include"), filepath.Join(dir, "src/a.h"))
	if err != nil {
		t.Fatalf("expand=%v; want nil err", err)
	}
	for _, tc := range []struct {
		ext        string
		decompress func(io.Reader) (io.Reader, error)
	}{
		{
			ext: ".gz",
			decompress: func(r io.Reader) (io.Reader, error) {
				return gzip.NewReader(r)
			},
		},
		{
			ext: ".zst",
			decompress: func(r io.Reader) (io.Reader, error) {
				return zstd.NewReader(r)
			},
		},
	} {
		t.Run(tc.ext, func(t *testing.T) {
			output := filepath.Join(dir, "all.h"+tc.ext)
			_, err := runExpand(t, "-I", filepath.Join(dir, "include"), "-o", output, filepath.Join(dir, "src/a.h"))
			if err != nil {
				t.Fatalf("expand=%v; want nil err", err)
			}
			f, err := os.Open(output)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			r, err := tc.decompress(f)
			if err != nil {
				t.Fatal(err)
			}
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(want, string(got)); diff != "" {
				t.Errorf("decompressed output diff -want +got:\n%s", diff)
			}
		})
	}
}

func TestExpand_DryRun(t *testing.T) {
	dir := setupFiles(t, testFiles)
	output := filepath.Join(dir, "all.h")
	got, err := runExpand(t, "-d", "-o", output, filepath.Join(dir, "src/a.h"))
	if err != nil {
		t.Fatalf("expand=%v; want nil err", err)
	}
	if got != "" {
		t.Errorf("expand printed %q; want empty", got)
	}
	if _, err := os.Stat(output); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("stat(%s)=%v; want %v", output, err, os.ErrNotExist)
	}
}

func TestExpand_Verbose(t *testing.T) {
	dir := setupFiles(t, testFiles)
	var msgs strings.Builder
	got, err := runExpandUI(t, &msgs, "-d", "-v", "-I", filepath.Join(dir, "include"), filepath.Join(dir, "src/a.h"))
	if err != nil {
		t.Fatalf("expand=%v; want nil err", err)
	}
	wantMsg := dir + "/src/a.h: 3 files expanded in "
	if !strings.HasPrefix(msgs.String(), wantMsg) {
		t.Errorf("expand messages=%q; want prefix %q", msgs.String(), wantMsg)
	}
	if strings.Contains(got, "files expanded in") {
		t.Errorf("expand printed stats to stdout: %q", got)
	}
	want := `Target name: ` + dir + `/src/a.h
Include paths:
	` + dir + `/include
All included files:
	` + dir + `/src/a.h
	` + dir + `/src/b.h
	` + dir + `/include/lib.h
Tree view:
"` + dir + `/src/a.h" (expanded)
  "` + dir + `/src/b.h" (expanded)
    <` + dir + `/include/lib.h> (expanded)
  <` + dir + `/include/lib.h> (already included)
  <stdio.h> (not found)
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("expand diff -want +got:\n%s", diff)
	}
}

func TestExpand_Config(t *testing.T) {
	dir := setupFiles(t, testFiles)
	config := filepath.Join(dir, "singleinclude.star")
	err := os.WriteFile(config, []byte(`
def init(ctx):
    return module(
        "config",
        include_dirs = ["include"],
        all = True,
        banner = "// all.h\n",
    )
`), 0644)
	if err != nil {
		t.Fatal(err)
	}
	got, err := runExpand(t, "-config", config, filepath.Join(dir, "src/a.h"))
	if err != nil {
		t.Fatalf("expand=%v; want nil err", err)
	}
	if !strings.HasPrefix(got, "// all.h\n// #include \"b.h\"\n") {
		t.Errorf("expand=%q; want custom banner", got)
	}
	if n := strings.Count(got, "int lib;"); n != 2 {
		t.Errorf("lib.h expanded %d times; want 2\n%s", n, got)
	}
}

func TestExpand_DuplicateIncludeDir(t *testing.T) {
	dir := setupFiles(t, testFiles)
	inc := filepath.Join(dir, "include")
	var msgs strings.Builder
	got, err := runExpandUI(t, &msgs, "-v", "-d", "-I", inc, "-I", filepath.Join(dir, "src/../include"), filepath.Join(dir, "src/a.h"))
	if err != nil {
		t.Fatalf("expand=%v; want nil err", err)
	}
	if !strings.Contains(got, "Include paths:\n\t"+inc+"\nAll included files:") {
		t.Errorf("expand=%q; want include paths only %s", got, inc)
	}
	if !strings.Contains(msgs.String(), "duplicate include dir "+inc) {
		t.Errorf("expand messages=%q; want duplicate include dir warning", msgs.String())
	}
}

func TestExpand_Errors(t *testing.T) {
	dir := setupFiles(t, testFiles)
	for _, tc := range []struct {
		name     string
		args     []string
		wantHelp bool
	}{
		{
			name:     "no-input",
			wantHelp: true,
		},
		{
			name:     "too-many-inputs",
			args:     []string{filepath.Join(dir, "src/a.h"), filepath.Join(dir, "src/b.h")},
			wantHelp: true,
		},
		{
			name:     "depfile-without-output",
			args:     []string{"-depfile", filepath.Join(dir, "a.d"), filepath.Join(dir, "src/a.h")},
			wantHelp: true,
		},
		{
			name: "input-not-exist",
			args: []string{filepath.Join(dir, "src/nonexistent.h")},
		},
		{
			name: "input-is-dir",
			args: []string{filepath.Join(dir, "src")},
		},
		{
			name: "include-dir-not-exist",
			args: []string{"-I", filepath.Join(dir, "nonexistent"), filepath.Join(dir, "src/a.h")},
		},
		{
			name: "include-dir-is-file",
			args: []string{"-I", filepath.Join(dir, "src/b.h"), filepath.Join(dir, "src/a.h")},
		},
		{
			name: "config-not-exist",
			args: []string{"-config", filepath.Join(dir, "nonexistent.star"), filepath.Join(dir, "src/a.h")},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := runExpand(t, tc.args...)
			if err == nil {
				t.Fatalf("expand=%q, nil; want err", got)
			}
			if errors.Is(err, flag.ErrHelp) != tc.wantHelp {
				t.Errorf("expand=%v; want ErrHelp=%t", err, tc.wantHelp)
			}
		})
	}
}

func TestExpand_RecursionLimit(t *testing.T) {
	dir := setupFiles(t, map[string]string{
		"a.h": "#include \"b.h\"\n",
		"b.h": "#include \"a.h\"\n",
	})
	got, err := runExpand(t, "-a", "-max_depth", "8", filepath.Join(dir, "a.h"))
	if !errors.Is(err, expander.ErrRecursionLimit) {
		t.Errorf("expand=%q, %v; want %v", got, err, expander.ErrRecursionLimit)
	}
	if got != "" {
		t.Errorf("expand printed %q; want no partial output", got)
	}
}

func TestDeps(t *testing.T) {
	dir := setupFiles(t, testFiles)
	c := &depsRun{}
	c.options.register(&c.Flags)
	c.ui = ui.NewTermUI(io.Discard)
	err := c.Flags.Parse([]string{"-I", filepath.Join(dir, "include"), filepath.Join(dir, "src/a.h")})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	err = c.run(context.Background(), c.Flags.Args(), &buf)
	if err != nil {
		t.Fatalf("deps=%v; want nil err", err)
	}
	want := strings.Join([]string{
		filepath.Join(dir, "src/a.h"),
		filepath.Join(dir, "src/b.h"),
		filepath.Join(dir, "include/lib.h"),
	}, "\n") + "\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("deps diff -want +got:\n%s", diff)
	}
}

func TestPrintTreeColor(t *testing.T) {
	root := &expander.FileNode{Path: "/src/a.h", Children: []*expander.FileNode{
		{Path: "stdio.h", Status: expander.NotFound, Angle: true},
	}}
	c := &run{color: true}
	var buf bytes.Buffer
	err := c.printTree(&buf, root)
	if err != nil {
		t.Fatal(err)
	}
	want := "\"/src/a.h\" (\033[32mexpanded\033[0m)\n  <stdio.h> (\033[31;1mnot found\033[0m)\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("printTree diff -want +got:\n%s", diff)
	}
}
