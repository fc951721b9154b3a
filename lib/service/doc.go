// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

// Package service provides shared runtime infrastructure for the
// Pakdepot server binary.
//
// The depot server is a standalone Go binary with two network
// surfaces: a public HTTP listener for the asset manifest and asset
// downloads, and a Unix control socket for operator commands. This
// package extracts the scaffolding both surfaces need:
//
//   - Logger construction: the standard JSON slog handler on stderr.
//   - HTTP server: TCP listener lifecycle with readiness signaling
//     and graceful shutdown, tuned for long-running asset downloads.
//   - Socket server: CBOR request-response Unix socket server with
//     action dispatch, connection timeouts, and graceful shutdown.
//   - Socket client: the CLI side of the control protocol.
//
// The server composes these utilities in its own main() function
// rather than subclassing a framework. The package provides building
// blocks, not a runtime.
//
// # Access Control
//
// The control socket has no request-level authentication. Access is
// governed entirely by the socket file's permissions (mode 0660):
// anyone who can open the socket can issue control commands. Deploy
// the socket in a directory readable only by the operator group. The
// public HTTP surface is read-only by construction — there are no
// mutating endpoints to protect.
package service
