// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

package assetcache

import (
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// errIncompressible is returned by compressBlock when the compressed
// output would not be smaller than the input. The caller stores the
// raw bytes instead.
var errIncompressible = fmt.Errorf("data is incompressible")

// compressBlock compresses data with block-mode LZ4. Game asset packs
// are mostly zip archives, so incompressibility is the common case,
// not the exception.
func compressBlock(data []byte) ([]byte, error) {
	bound := lz4.CompressBlockBound(len(data))
	destination := make([]byte, bound)

	written, err := lz4.CompressBlock(data, destination, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}

	// CompressBlock returns 0 when it determines the data is
	// incompressible. Also reject output that is technically smaller
	// but not by enough to be worth the decode cost on every hit.
	if written == 0 || written >= len(data) {
		return nil, errIncompressible
	}

	return destination[:written], nil
}

// decompressBlock reverses compressBlock. The rawSize must match the
// original data length exactly; a mismatch means the cached bytes are
// corrupt and the entry must be dropped.
func decompressBlock(compressed []byte, rawSize int) ([]byte, error) {
	destination := make([]byte, rawSize)
	read, err := lz4.UncompressBlock(compressed, destination)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	if read != rawSize {
		return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", read, rawSize)
	}
	return destination, nil
}
