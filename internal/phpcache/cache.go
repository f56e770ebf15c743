// Package phpcache persists Analysis results per spec.md §6: records are
// self-describing (URI, symbol tree, reference list travel together),
// bucketed by a hash of the document URI, with collisions inside a bucket
// resolved by a linear scan rather than a secondary hash. Grounded on the
// teacher's point-ID derivation in cmd/index-all/main.go (fnv.New64a over a
// file path) and its storage.QdrantClient wrapper.
package phpcache

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/doITmagic/phpindex/internal/phpindex"
)

// Cache is the persistence collaborator spec.md §6 describes: a bucketed
// store keyed by a hash of the document URI, with Put overwriting whatever
// record previously lived at that URI.
type Cache interface {
	Get(ctx context.Context, uri string) (*phpindex.Analysis, bool, error)
	Put(ctx context.Context, analysis *phpindex.Analysis) error
	Delete(ctx context.Context, uri string) error
}

// bucketOf hashes uri with FNV-1a the same way the teacher's index-all CLI
// derives a stable point ID from a file path, truncated to bucketCount
// buckets.
func bucketOf(uri string, bucketCount uint32) uint32 {
	h := fnv.New64a()
	h.Write([]byte(uri))
	return uint32(h.Sum64() % uint64(bucketCount))
}

const defaultBucketCount = 256

// entry is one bucket slot: the full record, so a bucket scan never needs a
// second lookup to resolve a hit.
type entry struct {
	uri      string
	analysis *phpindex.Analysis
}

// MemoryCache is the in-process Cache: buckets keyed by hash, each holding
// a slice scanned linearly for the matching URI. This is the reference
// implementation of spec.md §6's storage shape; QdrantCache below adapts
// the same shape onto a remote collection for workspace-wide persistence
// across process restarts.
type MemoryCache struct {
	mu      sync.RWMutex
	buckets map[uint32][]entry
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{buckets: make(map[uint32][]entry)}
}

func (c *MemoryCache) Get(_ context.Context, uri string) (*phpindex.Analysis, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	bucket := c.buckets[bucketOf(uri, defaultBucketCount)]
	for _, e := range bucket {
		if e.uri == uri {
			return e.analysis, true, nil
		}
	}
	return nil, false, nil
}

func (c *MemoryCache) Put(_ context.Context, analysis *phpindex.Analysis) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := bucketOf(analysis.URI, defaultBucketCount)
	bucket := c.buckets[key]
	for i, e := range bucket {
		if e.uri == analysis.URI {
			bucket[i] = entry{uri: analysis.URI, analysis: analysis}
			return nil
		}
	}
	c.buckets[key] = append(bucket, entry{uri: analysis.URI, analysis: analysis})
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, uri string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := bucketOf(uri, defaultBucketCount)
	bucket := c.buckets[key]
	for i, e := range bucket {
		if e.uri == uri {
			c.buckets[key] = append(bucket[:i], bucket[i+1:]...)
			return nil
		}
	}
	return nil
}
