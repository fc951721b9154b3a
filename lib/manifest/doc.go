// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

// Package manifest builds and holds the depot's asset manifest: the
// authoritative record of which asset files exist under the content
// root, what their raw bytes hash to, and how large their compressed
// form is.
//
// # Build Pipeline
//
// A build is three stages. [Discover] walks the content root and
// collects the relative names of every regular file matching the
// extension allow-list. [Builder.Build] then fans the names out to a
// bounded worker pool; each worker streams its file once through a
// combined CRC-32 fold and gzip length counter. Finally [New]
// assembles the entries into an immutable [Manifest]: sorted by name,
// JSON-encoded once, digested with BLAKE3.
//
// A build is all-or-nothing. Any unreadable file or failed directory
// listing aborts the whole build, because a manifest silently missing
// assets would cause clients to delete local files they actually
// need.
//
// # Publication
//
// [Store] decouples building from serving. The server builds a new
// manifest off to the side and publishes it with a single atomic
// pointer swap; requests in flight keep the manifest they started
// with. There is no partially-updated state to observe and no lock on
// the read path.
//
// # Wire Format
//
// The JSON encoding is the public contract with game clients: an
// array of {name, checksum, compressedSize} objects sorted by name.
// The checksum is CRC-32 with the IEEE polynomial, transmitted as an
// unsigned decimal number. Download URLs embed the same checksum via
// [Entry.RequestPath], and the server refuses any request whose
// embedded checksum disagrees with the manifest — a stale client URL
// yields an error, never wrong bytes.
package manifest
