// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package expander inlines local C/C++ headers into a single file.
//
// It only checks the following forms of #include
//
//	#include "foo.h"
//	#include <foo.h>
//
// A directive must be the only thing on its line. It doesn't allow
// comments nor multiline (\ at the end of line) for the directives,
// and since it doesn't process `#if` or `#ifdef`, every directive is
// considered regardless of conditional compilation.
// Directives inside string literals or comments are detected as
// directives too.
//
// Includes that are not found in any search path are kept as is,
// on the assumption that they are system headers resolved later by
// the compiler.
//
// By default, a file is expanded only at its first #include in the
// whole expansion. Later #include of the same file are replaced by
// a comment.
package expander
