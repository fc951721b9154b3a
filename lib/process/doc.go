// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides binary entrypoint helpers for the Pakdepot
// server binary. It centralizes the one legitimate raw I/O pattern
// that exists before the structured logger: fatal error reporting to
// stderr when the logger may not be initialized yet.
//
// All other output in the server goes through the slog logger; raw
// fmt output belongs to the CLI only.
package process
