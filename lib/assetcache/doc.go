// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

// Package assetcache provides a bounded in-memory cache for hot game
// assets, so that the most popular packs are served from RAM instead
// of hitting the content root on every download.
//
// # Admission and Storage
//
// Entries are keyed by (asset name, checksum). On admission the asset
// bytes are run through block-mode LZ4: if that shrinks them, the
// compressed form is stored; if not (the usual case for .pk3 content,
// which is already zip-compressed), the raw bytes are kept and the
// entry is flagged so reads skip decompression. Assets whose raw size
// exceeds the per-entry cap are never admitted — one 300 MB map pack
// would otherwise evict the entire working set.
//
// # Eviction
//
// The budget counts stored bytes, post-compression. When an admission
// would exceed it, least-recently-used entries are evicted until the
// newcomer fits. Because checksums are part of the key, a manifest
// rebuild needs no explicit invalidation: entries for changed assets
// stop being referenced and age out, while unchanged assets stay hot.
package assetcache
