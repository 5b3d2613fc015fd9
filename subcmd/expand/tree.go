// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package expand

import (
	"fmt"
	"io"
	"strings"

	"go.chromium.org/infra/build/singleinclude/expander"
	"go.chromium.org/infra/build/singleinclude/ui"
)

var statusColor = map[expander.Status]ui.SGRCode{
	expander.Expanded:        ui.Green,
	expander.AlreadyIncluded: ui.Yellow,
	expander.NotFound:        ui.Red,
}

// printTree prints the dependency tree, with colored status if c.color.
func (c *run) printTree(w io.Writer, root *expander.FileNode) error {
	if !c.color {
		return expander.FormatTree(w, root)
	}
	return root.Walk(func(n *expander.FileNode, depth int) error {
		status := ui.SGR(statusColor[n.Status], n.Status.String())
		_, err := fmt.Fprintf(w, "%s%s (%s)\n", strings.Repeat("  ", depth), n.Name(), status)
		return err
	})
}

// dump prints the details of the expansion.
func (c *run) dump(w io.Writer, root string, opts expander.Options, result *expander.Result) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Target name: %s\n", root)
	fmt.Fprintf(&sb, "Include paths:\n")
	for _, dir := range opts.SearchPaths {
		fmt.Fprintf(&sb, "\t%s\n", dir)
	}
	fmt.Fprintf(&sb, "All included files:\n")
	for _, f := range result.Included {
		fmt.Fprintf(&sb, "\t%s\n", f)
	}
	fmt.Fprintf(&sb, "Tree view:\n")
	_, err := io.WriteString(w, sb.String())
	if err != nil {
		return err
	}
	return c.printTree(w, result.Root)
}
