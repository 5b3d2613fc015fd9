// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package osfs

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression is a compression format of output files.
type Compression int

const (
	// Identity is no compression.
	Identity Compression = iota
	// Gzip is gzip compression, for "*.gz".
	Gzip
	// Zstd is zstd compression, for "*.zst".
	Zstd
)

func (c Compression) String() string {
	switch c {
	case Identity:
		return "identity"
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	}
	return fmt.Sprintf("Compression(%d)", int(c))
}

// CompressionOf returns compression format for the filename.
func CompressionOf(fname string) Compression {
	switch {
	case strings.HasSuffix(fname, ".gz"):
		return Gzip
	case strings.HasSuffix(fname, ".zst"):
		return Zstd
	}
	return Identity
}

func compress(c Compression, data []byte) ([]byte, error) {
	switch c {
	case Gzip:
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		_, err := w.Write(data)
		if err != nil {
			return nil, err
		}
		err = w.Close()
		if err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case Zstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(data, nil), nil
	}
	return data, nil
}
