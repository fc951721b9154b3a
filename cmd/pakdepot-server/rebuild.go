// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"time"

	"github.com/pakdepot/pakdepot/lib/buildlog"
	"github.com/pakdepot/pakdepot/lib/manifest"
)

// errRebuildInProgress is returned when a rebuild is requested while
// another build is still running. The caller gets a refusal, not a
// queued build.
var errRebuildInProgress = errors.New("rebuild already in progress")

// rebuild runs one manifest build and publishes the result. At most
// one build runs at a time; concurrent triggers get
// errRebuildInProgress. A failed build publishes nothing — the
// previous manifest keeps serving — and both outcomes are recorded in
// the build ledger when one is configured.
func (s *DepotServer) rebuild(ctx context.Context, reason string) (*manifest.Manifest, time.Duration, error) {
	if !s.rebuildMu.TryLock() {
		return nil, 0, errRebuildInProgress
	}
	defer s.rebuildMu.Unlock()

	start := s.clock.Now()
	built, err := s.builder.Build(ctx)
	duration := s.clock.Now().Sub(start)

	if err != nil {
		s.logger.Error("manifest build failed",
			"reason", reason,
			"duration", duration,
			"error", err,
		)
		s.recordBuild(ctx, buildlog.Record{
			StartedAt: start,
			Duration:  duration,
			Reason:    reason,
			Success:   false,
			Error:     err.Error(),
		})
		return nil, duration, err
	}

	s.store.Publish(built)
	s.logger.Info("manifest published",
		"reason", reason,
		"assets", built.Len(),
		"total_bytes", built.TotalBytes(),
		"digest", built.Digest(),
		"duration", duration,
	)
	s.recordBuild(ctx, buildlog.Record{
		StartedAt:       start,
		Duration:        duration,
		Reason:          reason,
		Success:         true,
		AssetCount:      built.Len(),
		TotalBytes:      built.TotalBytes(),
		TotalCompressed: built.TotalCompressed(),
		Digest:          built.Digest(),
	})
	return built, duration, nil
}

// recordBuild appends one row to the build ledger. Ledger failures
// are logged and swallowed: the ledger is informational, and a full
// disk under the database must not take down asset serving.
func (s *DepotServer) recordBuild(ctx context.Context, record buildlog.Record) {
	if s.ledger == nil {
		return
	}
	if err := s.ledger.Append(ctx, record); err != nil {
		s.logger.Error("recording build failed", "error", err)
	}
}

// rescanLoop rebuilds the manifest on a fixed interval until ctx is
// cancelled. Build failures keep the previous manifest serving and do
// not stop the loop; a tick that lands while a control-triggered
// build is running is skipped.
func (s *DepotServer) rescanLoop(ctx context.Context, interval time.Duration) {
	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("periodic rescan enabled", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _, err := s.rebuild(ctx, buildlog.ReasonRescan)
			if errors.Is(err, errRebuildInProgress) {
				s.logger.Debug("rescan skipped, build already running")
			}
			// Other errors are already logged by rebuild.
		}
	}
}
