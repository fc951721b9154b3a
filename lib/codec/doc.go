// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides Pakdepot's standard CBOR encoding configuration.
//
// Pakdepot uses two serialization formats with a clear boundary:
//
//   - JSON for the public surface: the asset manifest served over
//     HTTP, site definition files, and CLI --json output.
//   - CBOR for the control protocol: the Unix socket the server
//     exposes for operator commands (status, rebuild, build history).
//
// This package provides the shared CBOR encoding and decoding modes so
// that the server and the CLI encode identically without duplicating
// configuration. The encoder uses Core Deterministic Encoding (RFC 8949
// §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. Same logical data always produces identical
// bytes.
//
// For buffer-oriented operations:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented operations (the control socket):
//
//	encoder := codec.NewEncoder(conn)
//	decoder := codec.NewDecoder(conn)
//
// # Struct Tag Rules
//
// The struct tag on a type documents its serialization format:
//
//   - `cbor` tag: this type is ONLY ever serialized as CBOR. It will
//     never be marshaled to JSON. Example: the control protocol
//     envelope (request and response frames).
//   - `json` tag: this type may be serialized as BOTH JSON and CBOR.
//     fxamacker/cbor v2 reads `json` tags as fallback when `cbor`
//     tags are absent, so a single `json` tag controls field naming
//     and omitempty for both formats. Examples: control payloads that
//     the CLI re-emits with --json, manifest entries.
//
// Never use both `cbor` and `json` tags on the same field. The tag
// choice documents the contract, and doubling up obscures whether a
// type participates in JSON serialization.
package codec
