package phpcache

import (
	"context"
	"fmt"
	"time"

	"github.com/doITmagic/phpindex/internal/phpindex"
	"github.com/doITmagic/phpindex/internal/storage"
	"github.com/doITmagic/phpindex/internal/utils"
)

// QdrantCache adapts the bucket/linear-scan shape of Cache onto a Qdrant
// collection, so a workspace's symbol index survives process restarts
// instead of living only in a MemoryCache. Bucket assignment is computed
// client-side with the same FNV hash MemoryCache uses; Qdrant only needs to
// filter by the resulting integer and let the caller scan the (typically
// tiny) result set for the matching URI.
type QdrantCache struct {
	client *storage.QdrantClient
}

// NewQdrantCache wraps an already-connected storage.QdrantClient pointed at
// the collection that holds this workspace's symbol records.
func NewQdrantCache(client *storage.QdrantClient) *QdrantCache {
	return &QdrantCache{client: client}
}

func (c *QdrantCache) Get(ctx context.Context, uri string) (*phpindex.Analysis, bool, error) {
	bucket := bucketOf(uri, defaultBucketCount)
	var results []storage.SearchResult
	err := utils.RetryWithContext(3, 200*time.Millisecond, func() error {
		var scrollErr error
		results, scrollErr = c.client.ScrollBucket(ctx, bucket)
		return scrollErr
	}, func(error) bool {
		return ctx.Err() == nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", uri, err)
	}
	for _, r := range results {
		if r.Payload["uri"] != uri {
			continue
		}
		raw, _ := r.Payload["record"].(string)
		analysis, err := decodeRecord(raw)
		if err != nil {
			return nil, false, err
		}
		return analysis, true, nil
	}
	return nil, false, nil
}

func (c *QdrantCache) Put(ctx context.Context, analysis *phpindex.Analysis) error {
	raw, err := encodeRecord(analysis)
	if err != nil {
		return err
	}
	bucket := bucketOf(analysis.URI, defaultBucketCount)
	// A workspace-wide reindex upserts one record per file in quick
	// succession; retry transient upsert failures instead of aborting the
	// whole run over one flaky round-trip.
	return utils.Retry(3, 200*time.Millisecond, func() error {
		return c.client.UpsertRecord(ctx, bucket, analysis.URI, raw)
	})
}

func (c *QdrantCache) Delete(ctx context.Context, uri string) error {
	return c.client.DeleteRecord(ctx, uri)
}
