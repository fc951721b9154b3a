// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

package assetcache

import (
	"bytes"
	"container/list"
	"strconv"
	"sync"
)

const (
	// DefaultMaxBytes bounds total stored bytes when Config.MaxBytes
	// is zero: 64 MiB.
	DefaultMaxBytes = 64 << 20

	// DefaultMaxEntryBytes is the per-asset admission cap when
	// Config.MaxEntryBytes is zero: 4 MiB of raw size. Larger assets
	// bypass the cache and stream from disk; caching them would churn
	// the whole budget for a single entry.
	DefaultMaxEntryBytes = 4 << 20
)

// Config configures an asset cache.
type Config struct {
	// MaxBytes is the total budget for stored (post-compression)
	// bytes. Defaults to DefaultMaxBytes.
	MaxBytes int64

	// MaxEntryBytes is the raw-size admission cap per asset.
	// Defaults to DefaultMaxEntryBytes.
	MaxEntryBytes int64
}

// entry is one cached asset. The data slice is written once at
// admission and never mutated, so readers may hold it outside the
// cache lock.
type entry struct {
	key        string
	data       []byte
	rawSize    int
	compressed bool
}

// Cache is a bounded in-memory cache for hot assets, keyed by asset
// name and checksum. Entries are LZ4-compressed at admission when that
// actually shrinks them; pre-compressed pack content is stored raw.
// When the stored-byte budget is exceeded, least-recently-used entries
// are evicted until the new entry fits.
//
// A checksum is part of every key, so after a manifest rebuild the
// entries for changed assets are simply never looked up again and age
// out through normal eviction. Unchanged assets keep their checksums
// and stay hot across rebuilds.
type Cache struct {
	maxBytes      int64
	maxEntryBytes int64

	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front is most recently used
	stored  int64

	hits      uint64
	misses    uint64
	evictions uint64
}

// New creates an asset cache. Panics if MaxBytes or MaxEntryBytes is
// negative.
func New(config Config) *Cache {
	if config.MaxBytes < 0 {
		panic("assetcache: MaxBytes must not be negative")
	}
	if config.MaxEntryBytes < 0 {
		panic("assetcache: MaxEntryBytes must not be negative")
	}
	if config.MaxBytes == 0 {
		config.MaxBytes = DefaultMaxBytes
	}
	if config.MaxEntryBytes == 0 {
		config.MaxEntryBytes = DefaultMaxEntryBytes
	}
	return &Cache{
		maxBytes:      config.MaxBytes,
		maxEntryBytes: config.MaxEntryBytes,
		entries:       make(map[string]*list.Element),
		order:         list.New(),
	}
}

// cacheKey joins name and checksum. The NUL separator cannot appear in
// an asset name, so distinct (name, checksum) pairs never collide.
func cacheKey(name string, checksum uint32) string {
	return name + "\x00" + strconv.FormatUint(uint64(checksum), 10)
}

// Get returns the raw bytes of a cached asset, or nil and false on
// miss. The returned slice is the caller's to keep; it never aliases
// cache-internal storage.
//
// Decompression happens outside the cache lock, so a hit on a large
// entry does not stall concurrent lookups. A corrupt entry is dropped
// and reported as a miss.
func (c *Cache) Get(name string, checksum uint32) ([]byte, bool) {
	key := cacheKey(name, checksum)

	c.mu.Lock()
	element, ok := c.entries[key]
	if !ok {
		c.misses++
		c.mu.Unlock()
		return nil, false
	}
	c.order.MoveToFront(element)
	cached := element.Value.(*entry)
	c.hits++
	c.mu.Unlock()

	if !cached.compressed {
		return bytes.Clone(cached.data), true
	}

	data, err := decompressBlock(cached.data, cached.rawSize)
	if err != nil {
		c.remove(key)
		return nil, false
	}
	return data, true
}

// Put admits an asset into the cache. Assets whose raw size exceeds
// the per-entry cap are silently skipped. Re-putting an existing key
// only refreshes its recency.
func (c *Cache) Put(name string, checksum uint32, data []byte) {
	if int64(len(data)) > c.maxEntryBytes {
		return
	}
	key := cacheKey(name, checksum)

	c.mu.Lock()
	if element, ok := c.entries[key]; ok {
		c.order.MoveToFront(element)
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	// Compress outside the lock. LZ4 on a few megabytes is fast, but
	// there is no reason to serialize it with lookups.
	stored, compressed := data, false
	if small, err := compressBlock(data); err == nil {
		stored, compressed = small, true
	} else {
		stored = bytes.Clone(data)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another goroutine may have admitted the same asset while we
	// were compressing.
	if element, ok := c.entries[key]; ok {
		c.order.MoveToFront(element)
		return
	}

	cost := int64(len(stored))
	if cost > c.maxBytes {
		// The entry alone exceeds the whole budget. Rejecting it up
		// front keeps an admission that can never succeed from
		// flushing every resident entry first.
		return
	}
	for c.stored+cost > c.maxBytes {
		oldest := c.order.Back()
		if oldest == nil {
			return
		}
		c.evictLocked(oldest)
	}

	c.entries[key] = c.order.PushFront(&entry{
		key:        key,
		data:       stored,
		rawSize:    len(data),
		compressed: compressed,
	})
	c.stored += cost
}

// remove drops a single entry, if present.
func (c *Cache) remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if element, ok := c.entries[key]; ok {
		c.evictLocked(element)
	}
}

func (c *Cache) evictLocked(element *list.Element) {
	cached := c.order.Remove(element).(*entry)
	delete(c.entries, cached.key)
	c.stored -= int64(len(cached.data))
	c.evictions++
}

// Len returns the number of cached assets.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats holds cache utilization counters.
type Stats struct {
	Entries     int
	StoredBytes int64
	Hits        uint64
	Misses      uint64
	Evictions   uint64
}

// Stats returns a snapshot of cache utilization.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Entries:     len(c.entries),
		StoredBytes: c.stored,
		Hits:        c.hits,
		Misses:      c.misses,
		Evictions:   c.evictions,
	}
}
