// Copyright 2023 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package makeutil

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEscape(t *testing.T) {
	for _, tc := range []struct {
		name string
		want string
	}{
		{
			name: "/src/a.h",
			want: "/src/a.h",
		},
		{
			name: "/src/my headers/b.h",
			want: `/src/my\ headers/b.h`,
		},
		{
			name: "/src/c#/c.h",
			want: `/src/c\#/c.h`,
		},
		{
			name: "/src/$gen/d.h",
			want: "/src/$$gen/d.h",
		},
		{
			name: `C:\src\e.h`,
			want: `C:\src\e.h`,
		},
	} {
		got := Escape(tc.name)
		if got != tc.want {
			t.Errorf("Escape(%q)=%q; want %q", tc.name, got, tc.want)
		}
	}
}

func TestWriteDeps(t *testing.T) {
	for _, tc := range []struct {
		desc   string
		output string
		inputs []string
		want   string
	}{
		{
			desc:   "simple",
			output: "out/all.h",
			inputs: []string{"/src/a.h", "/src/b.h"},
			want:   "out/all.h: \\\n  /src/a.h \\\n  /src/b.h\n",
		},
		{
			desc:   "escaped",
			output: "out dir/all.h",
			inputs: []string{"/src/my headers/a.h", "/src/c#/b.h", "/src/$gen/c.h"},
			want:   "out\\ dir/all.h: \\\n  /src/my\\ headers/a.h \\\n  /src/c\\#/b.h \\\n  /src/$$gen/c.h\n",
		},
		{
			desc:   "noinputs",
			output: "out/all.h",
			want:   "out/all.h:\n",
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			var sb strings.Builder
			err := WriteDeps(&sb, tc.output, tc.inputs)
			if err != nil {
				t.Fatalf("WriteDeps()=%v; want nil err", err)
			}
			if diff := cmp.Diff(tc.want, sb.String()); diff != "" {
				t.Errorf("WriteDeps() -want +got:\n%s", diff)
			}
		})
	}
}
