// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for Pakdepot.
//
// Configuration is loaded from a single file specified by either the
// PAKDEPOT_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks, no ~/.config discovery,
// and no automatic file search. This ensures deterministic, auditable
// configuration with no hidden overrides.
//
// The configuration file supports environment-specific sections
// (development, staging, production) that override base values when
// [Config].Environment matches. Development has one implicit default:
// unless a socket path is configured explicitly, the control socket
// moves from /run/pakdepot into the state directory so an
// unprivileged server can create it.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${PAKDEPOT_STATE}, and ${VAR:-default} patterns are
// expanded. No other environment variables override config values.
//
// Key exports:
//
//   - [Config] -- master struct with Content, Server, Cache, Site,
//     BuildLog sections
//   - [Default] -- returns a Config with development defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on no other Pakdepot packages.
package config
