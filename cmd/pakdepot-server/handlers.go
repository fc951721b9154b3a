// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/klauspost/compress/gzhttp"

	"github.com/pakdepot/pakdepot/lib/manifest"
	"github.com/pakdepot/pakdepot/lib/site"
)

// routes builds the public HTTP handler. Go 1.22 pattern routing:
// the method is part of the pattern, so non-GET requests on these
// routes get a 405 from the mux itself. GET patterns also match HEAD.
func (s *DepotServer) routes() http.Handler {
	mux := http.NewServeMux()

	// The manifest compresses well (JSON, repeated keys) and is
	// fetched by every client on every launch, so it gets transparent
	// gzip negotiation. Assets do not: .pk3 files are zip archives.
	mux.Handle("GET /assets/manifest.json", gzhttp.GzipHandler(http.HandlerFunc(s.handleManifest)))
	mux.HandleFunc("GET /assets/{asset...}", s.handleAsset)

	if s.page != nil {
		mux.HandleFunc("GET /{$}", s.handleSite)
	}

	return mux
}

// handleManifest serves the published manifest's canonical JSON with
// a short revalidation window. Clients poll this on launch; the ETag
// (the manifest digest) and Last-Modified let an unchanged manifest
// cost a 304 instead of a body.
func (s *DepotServer) handleManifest(w http.ResponseWriter, r *http.Request) {
	current := s.store.Current()
	if current == nil {
		http.Error(w, "manifest not ready", http.StatusServiceUnavailable)
		return
	}

	generatedAt := current.GeneratedAt().UTC()
	etag := `"` + current.Digest() + `"`

	w.Header().Set("ETag", etag)
	w.Header().Set("Last-Modified", generatedAt.Format(http.TimeFormat))
	w.Header().Set("Cache-Control", "public, max-age=60")

	// If-None-Match wins over If-Modified-Since (RFC 9110 §13.1.3).
	if match := r.Header.Get("If-None-Match"); match != "" {
		if match == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	} else if since := r.Header.Get("If-Modified-Since"); since != "" {
		if t, err := http.ParseTime(since); err == nil && !generatedAt.Truncate(time.Second).After(t) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(current.JSON())
}

// handleAsset validates and serves one asset download. The request
// path carries both the asset name and the checksum the client
// expects; the pair must match the published manifest exactly.
//
// Validation misses are a bodyless 400, and an unknown name is
// indistinguishable from a checksum mismatch — the response leaks
// nothing about which half was wrong, or whether the name exists.
func (s *DepotServer) handleAsset(w http.ResponseWriter, r *http.Request) {
	name, checksum, err := manifest.ParseRequestPath(r.PathValue("asset"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	current := s.store.Current()
	if current == nil {
		http.Error(w, "manifest not ready", http.StatusServiceUnavailable)
		return
	}

	entry, ok := current.Lookup(name, checksum)
	if !ok {
		s.logger.Debug("asset request rejected",
			"name", name,
			"checksum", checksum,
		)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.serveAsset(w, r, entry)
}

// serveAsset streams a manifest-matched asset. The on-disk path is
// derived from the matched entry's name — request input never touches
// the filesystem. Small assets go through the in-memory cache; large
// ones stream straight from disk.
func (s *DepotServer) serveAsset(w http.ResponseWriter, r *http.Request, entry manifest.Entry) {
	if s.cache != nil && entry.Size <= s.cacheEntryLimit {
		s.serveCached(w, r, entry)
		return
	}

	diskPath := filepath.Join(s.contentRoot, filepath.FromSlash(entry.Name))
	file, err := os.Open(diskPath)
	if err != nil {
		s.assetVanished(w, r, entry, err)
		return
	}
	defer file.Close()

	setAssetHeaders(w, entry.Size)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, file); err != nil {
		// The client hung up mid-download. Nothing to send them.
		s.logger.Debug("asset download aborted", "name", entry.Name, "error", err)
	}
}

// serveCached serves a small asset through the in-memory cache,
// populating it on miss.
func (s *DepotServer) serveCached(w http.ResponseWriter, r *http.Request, entry manifest.Entry) {
	data, ok := s.cache.Get(entry.Name, entry.Checksum)
	if !ok {
		diskPath := filepath.Join(s.contentRoot, filepath.FromSlash(entry.Name))
		var err error
		data, err = os.ReadFile(diskPath)
		if err != nil {
			s.assetVanished(w, r, entry, err)
			return
		}
		s.cache.Put(entry.Name, entry.Checksum, data)
	}

	setAssetHeaders(w, int64(len(data)))
	if r.Method == http.MethodHead {
		return
	}
	w.Write(data)
}

// assetVanished handles a manifest-matched asset whose file cannot be
// read. The manifest said it exists, so this is a server-side
// inconsistency (file deleted or replaced after the last build), not
// a client error: 404, and a log line the operator will want.
func (s *DepotServer) assetVanished(w http.ResponseWriter, r *http.Request, entry manifest.Entry, err error) {
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Error("manifest entry missing from disk; rebuild needed",
			"name", entry.Name,
		)
	} else {
		s.logger.Error("asset read failed", "name", entry.Name, "error", err)
	}
	http.NotFound(w, r)
}

// setAssetHeaders marks an asset response immutable. The checksum in
// the URL makes the URL content-addressed: if the asset changes, its
// URL changes, so clients and intermediaries may cache forever.
func setAssetHeaders(w http.ResponseWriter, size int64) {
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
}

// handleSite renders the landing page. Rendering goes to a buffer
// first so a template failure can still produce a clean 500 instead
// of a half-written page.
func (s *DepotServer) handleSite(w http.ResponseWriter, r *http.Request) {
	var stats site.Stats
	if current := s.store.Current(); current != nil {
		stats = site.Stats{
			AssetCount:      current.Len(),
			TotalBytes:      current.TotalBytes(),
			TotalCompressed: current.TotalCompressed(),
			GeneratedAt:     current.GeneratedAt(),
		}
	}

	var buf bytes.Buffer
	if err := s.page.Render(&buf, stats); err != nil {
		s.logger.Error("landing page render failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
