// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"sync"
	"testing"
	"time"
)

func TestStoreCurrentNilBeforePublish(t *testing.T) {
	store := NewStore()
	if store.Current() != nil {
		t.Error("Current should be nil before the first Publish")
	}
}

func TestStorePublishSwaps(t *testing.T) {
	store := NewStore()

	first, err := New([]Entry{{Name: "base.pk3", Checksum: 1}}, time.Now())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	store.Publish(first)
	if store.Current() != first {
		t.Fatal("Current should return the published manifest")
	}

	second, err := New([]Entry{{Name: "base.pk3", Checksum: 2}}, time.Now())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	store.Publish(second)
	if store.Current() != second {
		t.Fatal("Current should return the latest published manifest")
	}
}

func TestStorePublishNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Publish(nil) should panic")
		}
	}()
	NewStore().Publish(nil)
}

func TestStoreConcurrentReadersSeeCompleteManifests(t *testing.T) {
	// Readers racing with Publish must always observe one complete
	// manifest or another, never a torn state. Each manifest here is
	// internally consistent, so any observed inconsistency means the
	// swap itself is broken.
	store := NewStore()
	initial, err := New([]Entry{{Name: "base.pk3", Checksum: 100}}, time.Now())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	store.Publish(initial)

	done := make(chan struct{})
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				m := store.Current()
				entry, ok := m.Lookup("base.pk3", m.Entries()[0].Checksum)
				if !ok || entry.Name != "base.pk3" {
					t.Error("observed inconsistent manifest")
					return
				}
			}
		}()
	}

	for i := uint32(0); i < 200; i++ {
		m, err := New([]Entry{{Name: "base.pk3", Checksum: i}}, time.Now())
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		store.Publish(m)
	}
	close(done)
	wg.Wait()
}
