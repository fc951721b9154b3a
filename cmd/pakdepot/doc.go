// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

// The pakdepot command is the operator CLI for a running
// pakdepot-server. It talks to the server's control socket and is the
// intended way to inspect and poke a depot without touching the HTTP
// surface that game clients use.
//
// Commands:
//
//	pakdepot status     server health, current manifest, cache counters
//	pakdepot rebuild    rescan the content root and publish a new manifest
//	pakdepot builds     recent build history from the build ledger
//	pakdepot manifest   dump the published manifest entries
//	pakdepot version    print version information
//
// The control socket defaults to /run/pakdepot/control.sock. Override
// with --socket or the PAKDEPOT_SOCKET environment variable when the
// server runs with a non-standard state directory.
package main
