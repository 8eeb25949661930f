// Copyright 2025 ClipForge, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// This file holds the metadata response cache consulted before re-hitting a
// platform API. The cache is instance-owned and constructor-injected, with a
// pluggable clock so eviction is deterministic under test.

package platform

import (
	"fmt"
	"sync"
	"time"

	"github.com/clipforge/social-ingest/internal/core/model"
)

// Clock abstracts time for the cache. Production code uses SystemClock;
// tests inject a fake.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall-clock implementation of Clock.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }

type cacheEntry struct {
	metadata  *model.SourceMetadata
	expiresAt time.Time
}

// MetadataCache is a TTL cache of normalized metadata responses keyed by
// platform plus identifier. Expired entries are evicted lazily on access.
// Safe for concurrent use.
type MetadataCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	clock   Clock
}

// NewMetadataCache constructs a cache with the given entry lifetime. A nil
// clock defaults to the system clock.
func NewMetadataCache(ttl time.Duration, clock Clock) *MetadataCache {
	if clock == nil {
		clock = SystemClock{}
	}
	return &MetadataCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		clock:   clock,
	}
}

func cacheKey(p model.Platform, identifier string) string {
	return fmt.Sprintf("%s:%s", p, identifier)
}

// Get returns the cached metadata for a video, or nil when the entry is
// absent or expired. Expired entries are removed on the way out.
func (c *MetadataCache) Get(p model.Platform, identifier string) *model.SourceMetadata {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(p, identifier)
	entry, ok := c.entries[key]
	if !ok {
		return nil
	}
	if c.clock.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil
	}
	return entry.metadata
}

// Put stores a metadata response with the cache's TTL.
func (c *MetadataCache) Put(p model.Platform, identifier string, metadata *model.SourceMetadata) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[cacheKey(p, identifier)] = cacheEntry{
		metadata:  metadata,
		expiresAt: c.clock.Now().Add(c.ttl),
	}
}

// Len returns the number of entries currently held, expired or not.
func (c *MetadataCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
