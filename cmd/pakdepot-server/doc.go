// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

// Package main implements the Pakdepot depot server — the process
// that scans a game-asset content root, publishes an integrity
// manifest, and serves the assets to game clients over HTTP.
//
// The server has two network surfaces:
//
//   - A public HTTP listener (default :27970) serving the manifest at
//     /assets/manifest.json, individual assets at checksum-qualified
//     paths under /assets/, and an optional operator-configured
//     landing page at /.
//   - A Unix control socket for operator commands (status, rebuild,
//     builds, manifest), spoken by the pakdepot CLI using the CBOR
//     protocol from lib/service and the types from lib/control.
//
// # Startup and rebuilds
//
// The server builds its first manifest synchronously before either
// listener starts: a depot with nothing valid to serve should fail
// its deployment, not answer requests with an empty asset list. After
// startup, rebuilds are triggered over the control socket or by the
// optional periodic rescan. Rebuilds are serialized — at most one
// build is in flight — and a failed rebuild leaves the previously
// published manifest serving untouched.
//
// # Asset validation
//
// Every asset request names both a path and the checksum the client
// expects. The pair must match an entry in the currently published
// manifest or the request is rejected with a bodyless 400; the
// on-disk file path is always derived from the matched entry, never
// from request input.
package main
