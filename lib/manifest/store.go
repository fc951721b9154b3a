// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import "sync/atomic"

// Store holds the manifest currently being served. Publication is a
// single pointer swap: a request observes either the complete old
// manifest or the complete new one, never a mix. In-flight requests
// that already loaded a manifest keep serving from it even after a
// newer one is published.
type Store struct {
	current atomic.Pointer[Manifest]
}

// NewStore creates an empty store. Current returns nil until the
// first Publish.
func NewStore() *Store {
	return &Store{}
}

// Current returns the manifest serving reads, or nil before the
// first Publish. Callers must hold the returned pointer for the
// duration of a request rather than calling Current repeatedly, so
// that one request sees one manifest.
func (s *Store) Current() *Manifest {
	return s.current.Load()
}

// Publish atomically replaces the serving manifest. Panics on nil:
// a store never moves backward from serving to not serving.
func (s *Store) Publish(m *Manifest) {
	if m == nil {
		panic("manifest.Store: Publish with nil manifest")
	}
	s.current.Store(m)
}
