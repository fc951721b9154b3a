// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/pakdepot/pakdepot/lib/clock"
)

// DefaultConcurrency is the number of assets hashed in parallel when
// a deployment does not configure its own limit. Asset hashing is
// I/O-bound with a CPU-bound compression component; four workers
// keeps a spinning disk busy without thrashing it.
const DefaultConcurrency = 4

// BuilderConfig configures a Builder.
type BuilderConfig struct {
	// Root is the content root directory the manifest describes.
	// Required.
	Root string

	// Extensions is the asset extension allow-list, each with its
	// leading dot. Defaults to [DefaultExtensions].
	Extensions []string

	// Concurrency caps the number of assets processed in parallel.
	// Defaults to [DefaultConcurrency].
	Concurrency int

	// Clock stamps manifests with their generation time. Defaults
	// to the real clock.
	Clock clock.Clock

	// Logger is the structured logger. If nil, build logging is
	// discarded.
	Logger *slog.Logger
}

// Builder produces manifests from the content root. A Builder is
// stateless between builds and safe for concurrent use, though
// callers normally serialize builds so that two full-tree scans do
// not compete for disk bandwidth.
type Builder struct {
	root        string
	extensions  []string
	concurrency int
	clock       clock.Clock
	logger      *slog.Logger
}

// NewBuilder creates a Builder for the given content root.
func NewBuilder(config BuilderConfig) *Builder {
	if config.Root == "" {
		panic("manifest.Builder: Root is required")
	}

	extensions := config.Extensions
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	concurrency := config.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Builder{
		root:        config.Root,
		extensions:  extensions,
		concurrency: concurrency,
		clock:       clk,
		logger:      logger,
	}
}

// Build discovers the current asset set and computes a fresh manifest
// for it. Each asset is read exactly once. On any error — a failed
// discovery, an unreadable file — no manifest is returned: a build is
// all-or-nothing, never a partial asset set.
//
// Cancelling ctx aborts the build; workers that have not started
// skip their asset and Build returns the cancellation error.
func (b *Builder) Build(ctx context.Context) (*Manifest, error) {
	start := b.clock.Now()

	names, err := Discover(b.root, b.extensions)
	if err != nil {
		return nil, fmt.Errorf("discovering assets: %w", err)
	}

	// Workers write into their own slot, so the slice needs no lock
	// and the result order is independent of completion order.
	entries := make([]Entry, len(names))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(b.concurrency)
	for i, name := range names {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			entry, err := computeEntry(filepath.Join(b.root, filepath.FromSlash(name)), name)
			if err != nil {
				return err
			}
			entries[i] = entry
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	built, err := New(entries, start)
	if err != nil {
		return nil, err
	}

	b.logger.Info("manifest built",
		"assets", built.Len(),
		"total_bytes", built.TotalBytes(),
		"total_compressed", built.TotalCompressed(),
		"digest", built.Digest(),
		"elapsed", b.clock.Now().Sub(start),
	)
	return built, nil
}
