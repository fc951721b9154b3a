// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-tree framework for the pakdepot
// CLI: command dispatch with typo suggestions, pflag flag parsing,
// structured help output, and shared output helpers (JSON mode, the
// command logger).
//
// The framework is deliberately small. Commands declare a [Command]
// value with a Flags constructor and a Run function; Execute walks
// the tree, parses flags, and runs the match. There is no global
// registry and no init-time magic — the root command in package main
// lists its subcommands explicitly.
package cli
