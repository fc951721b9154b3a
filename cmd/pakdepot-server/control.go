// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/pakdepot/pakdepot/lib/buildlog"
	"github.com/pakdepot/pakdepot/lib/codec"
	"github.com/pakdepot/pakdepot/lib/control"
	"github.com/pakdepot/pakdepot/lib/service"
	"github.com/pakdepot/pakdepot/lib/version"
)

// registerActions wires the control protocol actions onto the socket
// server.
func (s *DepotServer) registerActions(server *service.SocketServer) {
	server.Handle(control.ActionStatus, s.handleStatus)
	server.Handle(control.ActionRebuild, s.handleRebuild)
	server.Handle(control.ActionBuilds, s.handleBuilds)
	server.Handle(control.ActionManifest, s.handleManifestAction)
}

// handleStatus reports server liveness, the published manifest
// summary, and cache counters.
func (s *DepotServer) handleStatus(ctx context.Context, raw []byte) (any, error) {
	now := s.clock.Now()

	response := control.StatusResponse{
		Version:       version.Info(),
		StartedAt:     s.startedAt.Unix(),
		UptimeSeconds: int64(now.Sub(s.startedAt).Seconds()),
		ContentRoot:   s.contentRoot,
	}

	if current := s.store.Current(); current != nil {
		response.Manifest = control.ManifestSummary{
			Assets:          current.Len(),
			GeneratedAt:     current.GeneratedAt().Unix(),
			Digest:          current.Digest(),
			TotalBytes:      current.TotalBytes(),
			TotalCompressed: current.TotalCompressed(),
		}
	}

	if s.cache != nil {
		stats := s.cache.Stats()
		response.Cache = &control.CacheStats{
			Entries:     stats.Entries,
			StoredBytes: stats.StoredBytes,
			Hits:        stats.Hits,
			Misses:      stats.Misses,
			Evictions:   stats.Evictions,
		}
	}

	if s.rescanInterval > 0 {
		response.RescanInterval = s.rescanInterval.String()
	}

	return response, nil
}

// handleRebuild runs a build immediately. The response carries the
// new manifest's summary; a failed or refused build surfaces as a
// protocol error and leaves the published manifest untouched.
func (s *DepotServer) handleRebuild(ctx context.Context, raw []byte) (any, error) {
	built, duration, err := s.rebuild(ctx, buildlog.ReasonControl)
	if err != nil {
		return nil, err
	}

	return control.RebuildResponse{
		Assets:     built.Len(),
		DurationMS: duration.Milliseconds(),
		Digest:     built.Digest(),
	}, nil
}

// handleBuilds returns recent build ledger rows, newest first.
func (s *DepotServer) handleBuilds(ctx context.Context, raw []byte) (any, error) {
	if s.ledger == nil {
		return nil, errors.New("build history is disabled (no buildlog path configured)")
	}

	var request control.BuildsRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("invalid builds request: %w", err)
	}

	records, err := s.ledger.Recent(ctx, request.Limit)
	if err != nil {
		return nil, fmt.Errorf("reading build history: %w", err)
	}

	response := control.BuildsResponse{
		Builds: make([]control.BuildRecord, 0, len(records)),
	}
	for _, record := range records {
		response.Builds = append(response.Builds, control.BuildRecord{
			StartedAt:       record.StartedAt.Unix(),
			DurationMS:      record.Duration.Milliseconds(),
			Reason:          record.Reason,
			Success:         record.Success,
			Assets:          record.AssetCount,
			TotalBytes:      record.TotalBytes,
			TotalCompressed: record.TotalCompressed,
			Digest:          record.Digest,
			Error:           record.Error,
		})
	}
	return response, nil
}

// handleManifestAction returns the full entry list of the published
// manifest, including the raw sizes the public JSON omits.
func (s *DepotServer) handleManifestAction(ctx context.Context, raw []byte) (any, error) {
	current := s.store.Current()
	if current == nil {
		return nil, errors.New("no manifest published")
	}

	entries := current.Entries()
	response := control.ManifestResponse{
		GeneratedAt: current.GeneratedAt().Unix(),
		Digest:      current.Digest(),
		Entries:     make([]control.ManifestEntry, 0, len(entries)),
	}
	for _, entry := range entries {
		response.Entries = append(response.Entries, control.ManifestEntry{
			Name:           entry.Name,
			Checksum:       entry.Checksum,
			CompressedSize: entry.CompressedSize,
			Size:           entry.Size,
		})
	}
	return response, nil
}
