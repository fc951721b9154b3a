// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// computeEntry produces the manifest entry for one asset file in a
// single streamed pass: each chunk read from disk feeds both the
// CRC-32 fold and the gzip encoder, so the file is never held in
// memory whole and is never read twice.
//
// The CRC-32 state starts at the IEEE initial seed for every file.
// The gzip stream is written to a counter, not a buffer — only its
// length survives.
func computeEntry(filePath, name string) (Entry, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return Entry{}, fmt.Errorf("opening asset %s: %w", name, err)
	}
	defer file.Close()

	checksum := crc32.NewIEEE()
	var compressed countingWriter
	encoder := gzip.NewWriter(&compressed)

	size, err := io.Copy(io.MultiWriter(checksum, encoder), file)
	if err != nil {
		return Entry{}, fmt.Errorf("reading asset %s: %w", name, err)
	}

	// Close flushes the final deflate block and the gzip trailer;
	// the counter is not complete until it returns.
	if err := encoder.Close(); err != nil {
		return Entry{}, fmt.Errorf("compressing asset %s: %w", name, err)
	}

	return Entry{
		Name:           name,
		Checksum:       checksum.Sum32(),
		CompressedSize: compressed.n,
		Size:           size,
	}, nil
}

// countingWriter discards everything written to it, keeping only the
// byte count.
type countingWriter struct {
	n int64
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += int64(len(p))
	return len(p), nil
}
