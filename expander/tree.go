// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package expander

import (
	"fmt"
	"io"
	"strings"
)

// Status is the status of a file in the dependency tree.
type Status int

const (
	// Expanded is a file inlined at the directive.
	Expanded Status = iota
	// AlreadyIncluded is a file omitted since it was expanded before.
	AlreadyIncluded
	// NotFound is an include not found in any search path.
	NotFound
)

func (s Status) String() string {
	switch s {
	case Expanded:
		return "expanded"
	case AlreadyIncluded:
		return "already included"
	case NotFound:
		return "not found"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// FileNode is a file visited during expansion.
type FileNode struct {
	// Path is the canonical path of the file.
	// For NotFound, it is the name in the directive.
	Path string

	// Children are files included by this file, in directive order.
	Children []*FileNode

	Status Status

	// Angle is true if the directive used `<...>`.
	Angle bool
}

// Name returns the path with the delimiters of its directive.
func (n *FileNode) Name() string {
	return delimit(n.Path, n.Angle)
}

func (n *FileNode) add(child *FileNode) *FileNode {
	n.Children = append(n.Children, child)
	return child
}

// Walk traverses the tree in depth-first pre-order.
// It stops at the first error returned by fn.
func (n *FileNode) Walk(fn func(n *FileNode, depth int) error) error {
	return n.walk(fn, 0)
}

func (n *FileNode) walk(fn func(*FileNode, int) error, depth int) error {
	err := fn(n, depth)
	if err != nil {
		return err
	}
	for _, c := range n.Children {
		err := c.walk(fn, depth+1)
		if err != nil {
			return err
		}
	}
	return nil
}

// FormatTree writes the tree of root to w, one node per line.
//
//	"/src/a.h" (expanded)
//	  "/src/b.h" (expanded)
//	    <stdio.h> (not found)
func FormatTree(w io.Writer, root *FileNode) error {
	return root.Walk(func(n *FileNode, depth int) error {
		_, err := fmt.Fprintf(w, "%s%s (%s)\n", strings.Repeat("  ", depth), n.Name(), n.Status)
		return err
	})
}
