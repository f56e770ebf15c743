package storage

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/qdrant/go-client/qdrant"
)

// QdrantConfig contains Qdrant-specific configuration
type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

// QdrantClient provides access to Qdrant vector database
type QdrantClient struct {
	config QdrantConfig
	client *qdrant.Client
}

// NewQdrantClient creates a new Qdrant client
func NewQdrantClient(config QdrantConfig) (*QdrantClient, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("qdrant URL is required")
	}

	// Parse URL to extract host and determine if TLS is needed
	// Expected format: http://localhost:6333 or https://host:6333
	url := config.URL
	useTLS := false

	if len(url) > 8 && url[:8] == "https://" {
		url = url[8:]
		useTLS = true
	} else if len(url) > 7 && url[:7] == "http://" {
		url = url[7:]
	}

	// Extract host (without port)
	host := url
	port := 6334 // Default gRPC port

	// Check if port is specified in URL
	for i := len(url) - 1; i >= 0; i-- {
		if url[i] == ':' {
			host = url[:i]
			// Port is specified, but Qdrant SDK expects gRPC port (6334)
			// If REST port 6333 is given, use gRPC port 6334
			port = 6334
			break
		}
	}

	// Create Qdrant client configuration
	qdrantConfig := &qdrant.Config{
		Host:   host,
		Port:   port,
		UseTLS: useTLS,
	}

	// Only set API key if it's not empty
	if config.APIKey != "" {
		qdrantConfig.APIKey = config.APIKey
	}

	// Create Qdrant client - SDK uses gRPC by default
	client, err := qdrant.NewClient(qdrantConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &QdrantClient{
		config: config,
		client: client,
	}, nil
}

// CreateCollection creates a new collection
func (c *QdrantClient) CreateCollection(ctx context.Context, name string, dimension int) error {
	// Check if collection exists
	exists, err := c.client.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}

	if exists {
		return nil // Collection already exists
	}

	// Create collection with vector configuration and LOW indexing threshold
	err = c.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dimension),
			Distance: qdrant.Distance_Cosine,
		}),
		OptimizersConfig: &qdrant.OptimizersConfigDiff{
			IndexingThreshold: qdrant.PtrOf(uint64(100)), // Index immediately after 100 points (default: 10000)
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	return nil
}

// CollectionExists checks if a collection exists in Qdrant
func (c *QdrantClient) CollectionExists(ctx context.Context, name string) (bool, error) {
	return c.client.CollectionExists(ctx, name)
}

// DeleteCollection deletes an entire collection (DANGEROUS: removes all points)
func (c *QdrantClient) DeleteCollection(ctx context.Context, name string) error {
	if err := c.client.DeleteCollection(ctx, name); err != nil {
		return fmt.Errorf("failed to delete collection %s: %w", name, err)
	}
	return nil
}

// DeleteByFilter deletes vectors matching a filter
func (c *QdrantClient) DeleteByFilter(ctx context.Context, key, value string) error {
	_, err := c.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: c.config.Collection,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: &qdrant.Filter{
					Must: []*qdrant.Condition{
						{
							ConditionOneOf: &qdrant.Condition_Field{
								Field: &qdrant.FieldCondition{
									Key: key,
									Match: &qdrant.Match{
										MatchValue: &qdrant.Match_Keyword{
											Keyword: value,
										},
									},
								},
							},
						},
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete points by filter: %w", err)
	}

	return nil
}

// UpsertRecord stores a self-describing JSON record under a bucket/URI pair,
// used by internal/phpcache's Qdrant-backed Cache rather than the
// embedding-similarity search the rest of this client serves. The record
// carries no vector of its own (there is nothing to rank by similarity
// here), so it is upserted against a single-dimension placeholder vector —
// Qdrant requires every point to carry one.
func (c *QdrantClient) UpsertRecord(ctx context.Context, bucket uint32, uri, raw string) error {
	payload := map[string]*qdrant.Value{
		"bucket": qdrant.NewValueInt(int64(bucket)),
		"uri":    qdrant.NewValueString(uri),
		"record": qdrant.NewValueString(raw),
	}

	h := fnvID(uri)
	_, err := c.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: c.config.Collection,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewIDNum(h),
				Vectors: qdrant.NewVectors(0),
				Payload: payload,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert record for %s: %w", uri, err)
	}
	return nil
}

// ScrollBucket returns every record payload filed under bucket, for the
// Cache's linear in-bucket scan to search through.
func (c *QdrantClient) ScrollBucket(ctx context.Context, bucket uint32) ([]SearchResult, error) {
	scrollResult, err := c.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: c.config.Collection,
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{
				{
					ConditionOneOf: &qdrant.Condition_Field{
						Field: &qdrant.FieldCondition{
							Key: "bucket",
							Match: &qdrant.Match{
								MatchValue: &qdrant.Match_Integer{Integer: int64(bucket)},
							},
						},
					},
				},
			},
		},
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scroll bucket %d: %w", bucket, err)
	}

	results := make([]SearchResult, 0, len(scrollResult))
	for _, point := range scrollResult {
		payload := make(map[string]interface{})
		for key, val := range point.Payload {
			payload[key] = val.GetStringValue()
		}
		results = append(results, SearchResult{Payload: payload})
	}
	return results, nil
}

// DeleteRecord removes the record stored for uri, reusing DeleteByFilter's
// exact-match Filter shape against the "uri" payload field.
func (c *QdrantClient) DeleteRecord(ctx context.Context, uri string) error {
	return c.DeleteByFilter(ctx, "uri", uri)
}

// fnvID derives a stable numeric point ID from uri the same way
// cmd/index-all derives a chunk's point ID from its file path.
func fnvID(uri string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(uri))
	return h.Sum64()
}

// Close closes the Qdrant client connection
func (c *QdrantClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// SearchResult carries one record's payload back from ScrollBucket.
type SearchResult struct {
	Payload map[string]interface{}
}
