// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

// Package control defines the wire types of the depot server's control
// protocol. The server (cmd/pakdepot-server) and the operator CLI
// (cmd/pakdepot) both import this package, so a field rename is a
// single change on both ends.
//
// Messages travel as CBOR over the control socket (lib/service). The
// codec honors the json struct tags, which also makes every response
// type directly usable for the CLI's --json output.
package control

// Action names accepted by the depot server's control socket.
const (
	// ActionStatus reports server health and the published manifest
	// summary.
	ActionStatus = "status"

	// ActionRebuild runs a manifest build now and publishes the
	// result on success.
	ActionRebuild = "rebuild"

	// ActionBuilds returns recent rows from the build ledger.
	ActionBuilds = "builds"

	// ActionManifest returns the full entry list of the published
	// manifest.
	ActionManifest = "manifest"
)

// ManifestSummary describes the published manifest without listing
// its entries.
type ManifestSummary struct {
	// Assets is the number of entries.
	Assets int `json:"assets"`

	// GeneratedAt is the manifest generation time as Unix seconds.
	GeneratedAt int64 `json:"generated_at"`

	// Digest is the hex digest of the manifest's canonical JSON.
	Digest string `json:"digest"`

	// TotalBytes is the sum of raw asset sizes.
	TotalBytes int64 `json:"total_bytes"`

	// TotalCompressed is the sum of compressed-size estimates.
	TotalCompressed int64 `json:"total_compressed"`
}

// CacheStats reports the in-memory asset cache counters. Only present
// in a StatusResponse when the cache is enabled.
type CacheStats struct {
	Entries     int    `json:"entries"`
	StoredBytes int64  `json:"stored_bytes"`
	Hits        uint64 `json:"hits"`
	Misses      uint64 `json:"misses"`
	Evictions   uint64 `json:"evictions"`
}

// StatusResponse is the reply to the status action.
type StatusResponse struct {
	// Version is the server's version string (lib/version Info).
	Version string `json:"version"`

	// StartedAt is the server start time as Unix seconds.
	StartedAt int64 `json:"started_at"`

	// UptimeSeconds is how long the server has been running.
	UptimeSeconds int64 `json:"uptime_seconds"`

	// ContentRoot is the asset tree the server scans and serves.
	ContentRoot string `json:"content_root"`

	// Manifest summarizes the currently published manifest.
	Manifest ManifestSummary `json:"manifest"`

	// Cache is nil when the asset cache is disabled.
	Cache *CacheStats `json:"cache,omitempty"`

	// RescanInterval is the periodic rescan interval as a duration
	// string ("15m"). Empty when periodic rescanning is disabled.
	RescanInterval string `json:"rescan_interval,omitempty"`
}

// RebuildResponse is the reply to a successful rebuild action. A
// failed build is reported through the protocol's error envelope
// instead.
type RebuildResponse struct {
	// Assets is the entry count of the newly published manifest.
	Assets int `json:"assets"`

	// DurationMS is the build duration in milliseconds.
	DurationMS int64 `json:"duration_ms"`

	// Digest is the new manifest's digest.
	Digest string `json:"digest"`
}

// BuildsRequest carries the optional parameters of the builds action.
type BuildsRequest struct {
	// Limit caps the number of returned records. Non-positive means
	// the server default.
	Limit int `json:"limit,omitempty"`
}

// BuildRecord is one build attempt from the ledger, newest first in a
// BuildsResponse.
type BuildRecord struct {
	// StartedAt is the build start time as Unix seconds.
	StartedAt int64 `json:"started_at"`

	// DurationMS is the build duration in milliseconds.
	DurationMS int64 `json:"duration_ms"`

	// Reason is what triggered the build: "startup", "control", or
	// "rescan".
	Reason string `json:"reason"`

	// Success reports whether the build published a manifest.
	Success bool `json:"success"`

	// Assets, TotalBytes, and TotalCompressed describe the built
	// manifest. Zero for failed builds.
	Assets          int   `json:"assets"`
	TotalBytes      int64 `json:"total_bytes"`
	TotalCompressed int64 `json:"total_compressed"`

	// Digest is the built manifest's digest. Empty for failed builds.
	Digest string `json:"digest,omitempty"`

	// Error is the failure text. Empty for successful builds.
	Error string `json:"error,omitempty"`
}

// BuildsResponse is the reply to the builds action.
type BuildsResponse struct {
	Builds []BuildRecord `json:"builds"`
}

// ManifestEntry is one asset in a ManifestResponse. Unlike the public
// HTTP manifest, it includes the raw on-disk size.
type ManifestEntry struct {
	Name           string `json:"name"`
	Checksum       uint32 `json:"checksum"`
	CompressedSize int64  `json:"compressed_size"`
	Size           int64  `json:"size"`
}

// ManifestResponse is the reply to the manifest action.
type ManifestResponse struct {
	// GeneratedAt is the manifest generation time as Unix seconds.
	GeneratedAt int64 `json:"generated_at"`

	// Digest is the manifest's digest.
	Digest string `json:"digest"`

	// Entries lists every asset, sorted by name.
	Entries []ManifestEntry `json:"entries"`
}
