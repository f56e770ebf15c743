// Command phpindex-scan runs a one-shot symbol-extraction pass over a set of
// PHP paths and stores the results in a symbol cache, the way the teacher's
// index-all command drove its embedding pipeline over a set of directories.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/doITmagic/phpindex/internal/codetypes"
	"github.com/doITmagic/phpindex/internal/config"
	"github.com/doITmagic/phpindex/internal/phpcache"
	"github.com/doITmagic/phpindex/internal/phpindex"
	"github.com/doITmagic/phpindex/internal/storage"
)

func main() {
	var (
		pathsCSV   = flag.String("paths", "", "Comma-separated list of files/directories to scan (default: indexer.paths from config)")
		configPath = flag.String("config", "config.yaml", "Path to config.yaml")
		collection = flag.String("collection", "", "Qdrant collection to persist symbol records into (overrides config)")
		timeoutSec = flag.Int("timeout", 300, "Scan timeout in seconds")
		recreate   = flag.Bool("recreate-collection", false, "Delete and recreate the collection before scanning (DANGEROUS)")
		inMemory   = flag.Bool("in-memory", false, "Scan without persisting to Qdrant; print results only")
		format     = flag.String("format", "text", "Output summary format: text | json")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(*timeoutSec)*time.Second)
	defer cancel()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	coll := cfg.Indexer.Collection
	if *collection != "" {
		coll = *collection
	}

	paths := cfg.Indexer.Paths
	if *pathsCSV != "" {
		paths = splitCSV(*pathsCSV)
	}
	if len(paths) == 0 {
		paths = []string{"."}
	}

	var cache phpcache.Cache
	if *inMemory {
		cache = phpcache.NewMemoryCache()
	} else {
		if err := waitForQdrantGRPC(cfg.Storage.VectorDB.URL, 30*time.Second); err != nil {
			log.Fatalf("qdrant grpc port did not become available in time: %v", err)
		}

		client, err := storage.NewQdrantClient(storage.QdrantConfig{
			URL:        cfg.Storage.VectorDB.URL,
			APIKey:     cfg.Storage.VectorDB.APIKey,
			Collection: coll,
		})
		if err != nil {
			log.Fatalf("qdrant client: %v", err)
		}
		defer client.Close()

		if *recreate {
			log.Printf("recreating collection %q", coll)
			if err := client.DeleteCollection(ctx, coll); err != nil {
				log.Fatalf("delete collection: %v", err)
			}
		}
		if err := client.CreateCollection(ctx, coll, 1); err != nil {
			log.Fatalf("create collection: %v", err)
		}
		cache = phpcache.NewQdrantCache(client)
	}

	analyzer := phpindex.NewAnalyzer()
	analyzer.Workers = cfg.Indexer.Workers
	analyzer.OnWarning = func(uri, msg string) {
		fmt.Fprintf(os.Stderr, "warn: %s: %s\n", uri, msg)
	}

	fmt.Printf("scanning %s...\n", strings.Join(paths, ", "))
	analyses, err := analyzer.AnalyzePaths(ctx, paths)
	if err != nil {
		log.Fatalf("analyze: %v", err)
	}

	stored := 0
	for _, a := range analyses {
		if err := cache.Put(ctx, a); err != nil {
			log.Printf("store %s: %v", a.URI, err)
			continue
		}
		stored++
	}

	switch *format {
	case "json":
		printJSONSummary(analyses)
	default:
		printTextSummary(analyses, stored)
	}
}

func printTextSummary(analyses []*phpindex.Analysis, stored int) {
	symbolCount, refCount := 0, 0
	for _, a := range analyses {
		symbolCount += len(a.File.Children)
		refCount += len(a.References)
	}
	fmt.Printf("scanned %d file(s), %d top-level symbol(s), %d reference(s), %d record(s) stored\n",
		len(analyses), symbolCount, refCount, stored)
}

func printJSONSummary(analyses []*phpindex.Analysis) {
	var descriptors []codetypes.SymbolDescriptor
	for _, a := range analyses {
		for _, sym := range a.File.Children {
			descriptors = append(descriptors, codetypes.FromSymbol(sym))
		}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(descriptors); err != nil {
		log.Fatalf("encode summary: %v", err)
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// waitForQdrantGRPC pings Qdrant's gRPC port on the host inferred from the
// given REST URL, the same way the teacher's index-all command did before
// talking to Qdrant over gRPC.
func waitForQdrantGRPC(baseURL string, timeout time.Duration) error {
	if baseURL == "" {
		baseURL = "http://localhost:6333"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid qdrant url: %w", err)
	}
	host := u.Hostname()
	port := u.Port()
	var grpcHost string
	if port == "" || port == "6333" {
		grpcHost = net.JoinHostPort(host, "6334")
	} else {
		grpcHost = net.JoinHostPort(host, port)
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", grpcHost, 2*time.Second)
		if err == nil {
			conn.Close()
			return nil
		}
		time.Sleep(1 * time.Second)
	}
	return fmt.Errorf("timed out waiting for qdrant grpc at %s", grpcHost)
}
