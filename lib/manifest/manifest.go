// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/zeebo/blake3"
)

// Entry describes one distributable asset. The JSON field set is the
// wire contract with game clients; changing a key or its type breaks
// every deployed client.
type Entry struct {
	// Name is the asset's identity: its path relative to the content
	// root, always forward-slash separated regardless of host OS.
	Name string `json:"name"`

	// Checksum is the CRC-32 (IEEE polynomial) of the asset's raw
	// bytes, computed from the standard initial seed. Clients compare
	// it against their local copy to decide whether to re-download.
	Checksum uint32 `json:"checksum"`

	// CompressedSize is the byte length of the asset's complete gzip
	// stream. Clients use it for download progress estimation.
	CompressedSize int64 `json:"compressedSize"`

	// Size is the asset's raw byte length. Not part of the wire
	// manifest; kept for operator reporting and cache admission.
	Size int64 `json:"-"`
}

// RequestPath returns the URL path component clients use to download
// this asset: the directory prefix unchanged, with the final segment
// prefixed by the checksum in decimal and a dash. "maps/canyon.pk3"
// with checksum 711318 becomes "maps/711318-canyon.pk3".
func (e Entry) RequestPath() string {
	dir, base := path.Split(e.Name)
	return dir + strconv.FormatUint(uint64(e.Checksum), 10) + "-" + base
}

// ParseRequestPath splits a download request path into the asset name
// it claims and the checksum it asserts. The final path segment must
// be "<checksum>-<basename>" with the checksum in decimal. The split
// happens at the first dash, so basenames may themselves contain
// dashes.
func ParseRequestPath(requestPath string) (name string, checksum uint32, err error) {
	dir, last := path.Split(requestPath)
	dash := strings.IndexByte(last, '-')
	if dash <= 0 {
		return "", 0, fmt.Errorf("request path %q has no checksum prefix", requestPath)
	}
	value, err := strconv.ParseUint(last[:dash], 10, 32)
	if err != nil {
		return "", 0, fmt.Errorf("request path %q has invalid checksum: %w", requestPath, err)
	}
	base := last[dash+1:]
	if base == "" {
		return "", 0, fmt.Errorf("request path %q has empty asset name", requestPath)
	}
	return dir + base, uint32(value), nil
}

// Manifest is an immutable snapshot of the serveable asset set. All
// fields are computed once at construction; a published manifest is
// never mutated, so concurrent readers need no locking.
type Manifest struct {
	entries     []Entry
	index       map[string]int
	generatedAt time.Time
	encoded     []byte
	digest      string

	totalBytes      int64
	totalCompressed int64
}

// New builds a manifest from the given entries. The entries are
// copied and sorted by name, the JSON encoding is precomputed, and a
// BLAKE3 digest of that encoding is taken for change detection.
// Returns an error if two entries share a name.
func New(entries []Entry, generatedAt time.Time) (*Manifest, error) {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	slices.SortFunc(sorted, func(a, b Entry) int {
		return strings.Compare(a.Name, b.Name)
	})

	index := make(map[string]int, len(sorted))
	var totalBytes, totalCompressed int64
	for i, entry := range sorted {
		if _, exists := index[entry.Name]; exists {
			return nil, fmt.Errorf("duplicate asset name %q", entry.Name)
		}
		index[entry.Name] = i
		totalBytes += entry.Size
		totalCompressed += entry.CompressedSize
	}

	encoded, err := json.Marshal(sorted)
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}

	sum := blake3.Sum256(encoded)

	return &Manifest{
		entries:         sorted,
		index:           index,
		generatedAt:     generatedAt,
		encoded:         encoded,
		digest:          hex.EncodeToString(sum[:]),
		totalBytes:      totalBytes,
		totalCompressed: totalCompressed,
	}, nil
}

// Lookup returns the entry for name, but only if the given checksum
// matches the manifest's record. A name that is absent and a name
// whose checksum disagrees are the same result: not serveable.
func (m *Manifest) Lookup(name string, checksum uint32) (Entry, bool) {
	i, ok := m.index[name]
	if !ok {
		return Entry{}, false
	}
	entry := m.entries[i]
	if entry.Checksum != checksum {
		return Entry{}, false
	}
	return entry, true
}

// JSON returns the precomputed canonical JSON encoding: an array of
// entries sorted by name. Callers must not modify the returned slice.
func (m *Manifest) JSON() []byte {
	return m.encoded
}

// Digest returns the lowercase hex BLAKE3-256 digest of the JSON
// encoding. Two manifests with the same digest describe the same
// asset set.
func (m *Manifest) Digest() string {
	return m.digest
}

// GeneratedAt returns the time the manifest build started.
func (m *Manifest) GeneratedAt() time.Time {
	return m.generatedAt
}

// Len returns the number of assets in the manifest.
func (m *Manifest) Len() int {
	return len(m.entries)
}

// Entries returns a copy of the manifest's entries, sorted by name.
func (m *Manifest) Entries() []Entry {
	entries := make([]Entry, len(m.entries))
	copy(entries, m.entries)
	return entries
}

// TotalBytes returns the summed raw size of all assets.
func (m *Manifest) TotalBytes() int64 {
	return m.totalBytes
}

// TotalCompressed returns the summed gzip stream length of all
// assets.
func (m *Manifest) TotalCompressed() int64 {
	return m.totalCompressed
}
