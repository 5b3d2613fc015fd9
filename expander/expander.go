// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package expander

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"go.chromium.org/infra/build/singleinclude/o11y/clog"
)

// DefaultBanner is put at the top of the expanded output.
const DefaultBanner = `// This file is generated automatically by singleinclude.
// It's suggested not to edit anything below.
`

// DefaultMaxDepth is the default limit of nested expansions.
const DefaultMaxDepth = 200

var (
	// ErrFileOpen is returned when a file to expand can't be read.
	ErrFileOpen = errors.New("file error: cannot open")

	// ErrRecursionLimit is returned when nested expansions exceed
	// Options.MaxDepth in include-all mode, e.g. with cyclic includes.
	ErrRecursionLimit = errors.New("include recursion limit exceeded")
)

// Options are options of expansion.
type Options struct {
	// SearchPaths are canonical include directories, searched in order.
	SearchPaths []string

	// IncludeAll expands a file at every #include,
	// even if it was expanded before.
	IncludeAll bool

	// Verbose reports resolution decisions to stderr.
	Verbose bool

	// MaxDepth limits nested expansions in include-all mode.
	// DefaultMaxDepth if 0.
	// Once-only expansion always terminates since each nested file is
	// a new one, so it is not limited.
	MaxDepth int

	// Banner is put at the top of the output. DefaultBanner if empty.
	Banner string
}

// Result is a result of expansion.
type Result struct {
	// Text is the expanded output, starting with the banner.
	Text []byte

	// Root is the dependency tree rooted at the source file.
	Root *FileNode

	// Included are canonical paths of the expanded files,
	// in the order they were first expanded. It starts with the root.
	Included []string
}

// expansion holds the state of one Expand call.
type expansion struct {
	fsys        FileSystem
	searchPaths []string
	includeAll  bool
	verbose     bool
	maxDepth    int

	// canonical path -> expanded.
	// a path is added before its content is scanned, and never removed.
	included map[string]bool
	order    []string

	out bytes.Buffer
}

// Expand expands the source file root with opts.
// root is canonicalized before expansion.
// On error, no partial result is returned.
func Expand(ctx context.Context, fsys FileSystem, root string, opts Options) (*Result, error) {
	started := time.Now()
	e := &expansion{
		fsys:        fsys,
		searchPaths: opts.SearchPaths,
		includeAll:  opts.IncludeAll,
		verbose:     opts.Verbose,
		maxDepth:    opts.MaxDepth,
		included:    make(map[string]bool),
	}
	if e.maxDepth <= 0 {
		e.maxDepth = DefaultMaxDepth
	}
	banner := opts.Banner
	if banner == "" {
		banner = DefaultBanner
	}
	e.out.WriteString(banner)

	p, err := fsys.Canonical(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrFileOpen, root, err)
	}
	rootNode := &FileNode{Path: p, Status: Expanded}
	e.markIncluded(p)
	err = e.expandFile(ctx, rootNode, 0)
	if err != nil {
		return nil, err
	}
	if logger := clog.FromContext(ctx); logger.V(1) {
		logger.Infof("expand %s: %d files %d bytes in %s", p, len(e.order), e.out.Len(), time.Since(started))
	}
	return &Result{
		Text:     e.out.Bytes(),
		Root:     rootNode,
		Included: e.order,
	}, nil
}

func (e *expansion) logf(ctx context.Context, format string, args ...any) {
	if e.verbose {
		log.Infof(format, args...)
	}
	if logger := clog.FromContext(ctx); logger.V(1) {
		logger.Infof(format, args...)
	}
}

func (e *expansion) markIncluded(p string) {
	e.included[p] = true
	e.order = append(e.order, p)
}

// expandFile writes the expanded content of node into e.out,
// and adds includes of node to node.Children.
func (e *expansion) expandFile(ctx context.Context, node *FileNode, depth int) error {
	if e.includeAll && depth > e.maxDepth {
		return fmt.Errorf("%w: depth %d at %s", ErrRecursionLimit, depth, node.Path)
	}
	buf, err := e.fsys.ReadFile(ctx, node.Path)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrFileOpen, node.Path, err)
	}
	for len(buf) > 0 {
		var line []byte
		line, buf = nextLine(buf)
		d, ok := ParseDirective(line)
		if !ok {
			e.writeLine(line)
			continue
		}
		err := e.expandDirective(ctx, node, depth, d, line)
		if err != nil {
			return err
		}
	}
	return nil
}

// expandDirective expands the directive d found in line of parent.
// line is the raw line including its line terminator.
func (e *expansion) expandDirective(ctx context.Context, parent *FileNode, depth int, d Directive, line []byte) error {
	e.logf(ctx, "found include %s in %s", d, parent.Path)
	p, err := e.resolve(ctx, d, parent.Path)
	if err != nil {
		return err
	}
	if p == "" {
		e.logf(ctx, "ignore include %s: not found (may be system header)", d)
		parent.add(&FileNode{Path: d.Name, Status: NotFound, Angle: d.Angle})
		// copied as is, keeping its line terminator.
		e.writeLine(line)
		return nil
	}
	// comment markers don't carry the line terminator of line.
	marker := bytes.TrimRight(line, "\r\n")
	if !e.includeAll && e.included[p] {
		e.logf(ctx, "include %s -> %s: already included", d, p)
		parent.add(&FileNode{Path: p, Status: AlreadyIncluded, Angle: d.Angle})
		e.out.WriteString("// ")
		e.out.Write(marker)
		e.out.WriteString(" (omitted because it has been expanded)\n")
		return nil
	}
	e.logf(ctx, "include %s -> %s", d, p)
	if !e.included[p] {
		e.markIncluded(p)
	}
	child := parent.add(&FileNode{Path: p, Status: Expanded, Angle: d.Angle})
	e.out.WriteString("// ")
	e.writeLine(marker)
	err = e.expandFile(ctx, child, depth+1)
	if err != nil {
		return err
	}
	e.out.WriteString("// End ")
	e.writeLine(marker)
	return nil
}

// writeLine writes line to the output, terminated by a newline.
func (e *expansion) writeLine(line []byte) {
	e.out.Write(line)
	if len(line) == 0 || line[len(line)-1] != '\n' {
		e.out.WriteByte('\n')
	}
}
