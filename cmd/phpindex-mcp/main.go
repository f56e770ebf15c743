// Command phpindex-mcp exposes PHP symbol indexing and lookup as MCP tools
// over stdio, the way the teacher's rag-code-mcp server exposed its
// embedding-backed search tools.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/doITmagic/phpindex/internal/codetypes"
	"github.com/doITmagic/phpindex/internal/config"
	"github.com/doITmagic/phpindex/internal/healthcheck"
	"github.com/doITmagic/phpindex/internal/phpcache"
	"github.com/doITmagic/phpindex/internal/storage"
	"github.com/doITmagic/phpindex/internal/workspace"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// simpleLogger writes to stderr (and optionally a log file) so stdout stays
// reserved for the MCP stdio transport, the same split the teacher's server
// kept between protocol traffic and diagnostics.
type simpleLogger struct {
	logFile *os.File
}

func (l *simpleLogger) shouldLog(msgLevel string) bool {
	levels := map[string]int{"debug": 0, "info": 1, "warn": 2, "error": 3}
	logLevel := strings.ToLower(os.Getenv("MCP_LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "info"
	}
	return levels[msgLevel] >= levels[logLevel]
}

func (l *simpleLogger) Info(format string, args ...interface{}) {
	if l.shouldLog("info") {
		fmt.Fprintf(os.Stderr, "[INFO] "+format+"\n", args...)
		if l.logFile != nil {
			fmt.Fprintf(l.logFile, "[INFO] "+format+"\n", args...)
		}
	}
}

func (l *simpleLogger) Error(format string, args ...interface{}) {
	if l.shouldLog("error") {
		fmt.Fprintf(os.Stderr, "[ERROR] "+format+"\n", args...)
		if l.logFile != nil {
			fmt.Fprintf(l.logFile, "[ERROR] "+format+"\n", args...)
		}
	}
}

func (l *simpleLogger) Warn(format string, args ...interface{}) {
	if l.shouldLog("warn") {
		fmt.Fprintf(os.Stderr, "[WARN] "+format+"\n", args...)
	}
}

var logger = &simpleLogger{}

func initLoggerFromEnv() {
	log.SetOutput(os.Stderr)

	path := os.Getenv("MCP_LOG_FILE")
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] failed to open log file %s: %v\n", path, err)
		return
	}
	logger.logFile = f
}

// IndexWorkspaceInput is the typed input for the index_workspace tool.
type IndexWorkspaceInput struct {
	FilePath string `json:"file_path"`
}

// IndexWorkspaceOutput is the typed output for the index_workspace tool.
type IndexWorkspaceOutput struct {
	WorkspaceID string `json:"workspace_id"`
	FileCount   int    `json:"file_count"`
	SymbolCount int    `json:"symbol_count"`
	Status      string `json:"status"`
}

// LookupSymbolInput is the typed input for the lookup_symbol tool.
type LookupSymbolInput struct {
	Name     string `json:"name"`
	FilePath string `json:"file_path"`
}

// LookupSymbolOutput is the typed output for the lookup_symbol tool.
type LookupSymbolOutput struct {
	Matches []codetypes.SymbolDescriptor `json:"matches"`
}

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	qdrantURLFlag := flag.String("qdrant-url", "", "Qdrant URL (overrides config/env)")
	versionFlag := flag.Bool("version", false, "Print version information and exit")
	healthFlag := flag.Bool("health", false, "Run health check and exit")

	flag.Usage = printUsage
	flag.Parse()

	initLoggerFromEnv()

	if *versionFlag {
		fmt.Printf("phpindex MCP Server\n")
		fmt.Printf("Version:    %s\n", Version)
		fmt.Printf("Commit:     %s\n", Commit)
		fmt.Printf("Build Date: %s\n", Date)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Warn("failed to load config file %s, using defaults: %v", *configPath, err)
		cfg = config.DefaultConfig()
	}
	if *qdrantURLFlag != "" {
		cfg.Storage.VectorDB.URL = *qdrantURLFlag
	}
	if cfg.Storage.VectorDB.URL == "" {
		cfg.Storage.VectorDB.URL = "http://localhost:6333"
	}

	if *healthFlag {
		results := healthcheck.CheckAll(cfg.Storage.VectorDB.URL)
		fmt.Fprint(os.Stderr, healthcheck.FormatResults(results))
		if !allHealthy(results) {
			fmt.Fprintln(os.Stderr, healthcheck.GetRemediation(results))
			os.Exit(1)
		}
		os.Exit(0)
	}

	logger.Info("checking dependencies...")
	results := healthcheck.CheckAll(cfg.Storage.VectorDB.URL)
	hasErrors := false
	for _, result := range results {
		if result.Status == "ok" {
			logger.Info("%s: %s", result.Service, result.Message)
		} else {
			logger.Error("%s: %s", result.Service, result.Message)
			hasErrors = true
		}
	}
	if hasErrors {
		fmt.Fprintln(os.Stderr, healthcheck.GetRemediation(results))
		log.Fatal("dependency check failed, please fix the issues above and try again")
	}

	client, err := storage.NewQdrantClient(storage.QdrantConfig{
		URL:        cfg.Storage.VectorDB.URL,
		APIKey:     cfg.Storage.VectorDB.APIKey,
		Collection: cfg.Indexer.Collection,
	})
	if err != nil {
		log.Fatalf("qdrant client: %v", err)
	}
	defer client.Close()

	if err := client.CreateCollection(context.Background(), cfg.Indexer.Collection, 1); err != nil {
		log.Fatalf("create collection %s: %v", cfg.Indexer.Collection, err)
	}

	manager := workspace.NewManager(phpcache.NewQdrantCache(client), cfg)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "phpindex",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool[IndexWorkspaceInput, IndexWorkspaceOutput](server, &mcp.Tool{
		Name:        "index_workspace",
		Description: "Detects the PHP workspace containing file_path and (re)indexes its symbols if it has changed since the last run.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input IndexWorkspaceInput) (*mcp.CallToolResult, IndexWorkspaceOutput, error) {
		info, err := manager.DetectWorkspace(map[string]interface{}{"file_path": input.FilePath})
		if err != nil {
			return nil, IndexWorkspaceOutput{}, err
		}
		if err := manager.EnsureWorkspaceIndexed(ctx, info.Root); err != nil {
			return nil, IndexWorkspaceOutput{}, err
		}
		meta, _ := manager.Metadata(info.ID)
		out := IndexWorkspaceOutput{WorkspaceID: info.ID}
		if meta != nil {
			out.FileCount = meta.FileCount
			out.SymbolCount = meta.SymbolCount
			out.Status = meta.Status
		}
		manager.StartWatcher(info.Root)
		return nil, out, nil
	})

	mcp.AddTool[LookupSymbolInput, LookupSymbolOutput](server, &mcp.Tool{
		Name:        "lookup_symbol",
		Description: "Looks up every declaration recorded for a symbol name (class, interface, trait, function, method, property, or constant) in the workspace containing file_path.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input LookupSymbolInput) (*mcp.CallToolResult, LookupSymbolOutput, error) {
		info, err := manager.DetectWorkspace(map[string]interface{}{"file_path": input.FilePath})
		if err != nil {
			return nil, LookupSymbolOutput{}, err
		}
		if err := manager.EnsureWorkspaceIndexed(ctx, info.Root); err != nil {
			return nil, LookupSymbolOutput{}, err
		}
		matches := manager.LookupSymbol(info.ID, input.Name)
		out := LookupSymbolOutput{}
		for _, sym := range matches {
			out.Matches = append(out.Matches, codetypes.FromSymbol(sym))
		}
		return nil, out, nil
	})

	server.AddTool(&mcp.Tool{
		Name:        "get_file_symbols",
		Description: "Returns a summary descriptor of each top-level symbol last recorded for a single PHP file URI; nested members and references are not included.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"uri": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path of the PHP file to look up",
				},
			},
			"required": []string{"uri"},
		},
	}, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := map[string]interface{}{}
		if req.Params != nil && req.Params.Arguments != nil {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
		}
		uri, _ := args["uri"].(string)
		if uri == "" {
			return &mcp.CallToolResult{IsError: true, Content: []mcp.Content{&mcp.TextContent{Text: "uri is required"}}}, nil
		}

		analysis, found, err := manager.Index().Get(ctx, uri)
		if err != nil {
			return &mcp.CallToolResult{IsError: true, Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}}}, nil
		}
		if !found {
			return &mcp.CallToolResult{IsError: true, Content: []mcp.Content{&mcp.TextContent{Text: "no recorded analysis for " + uri}}}, nil
		}

		var descriptors []codetypes.SymbolDescriptor
		for _, sym := range analysis.File.Children {
			descriptors = append(descriptors, codetypes.FromSymbol(sym))
		}
		body, err := json.MarshalIndent(descriptors, "", "  ")
		if err != nil {
			return nil, err
		}
		return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: string(body)}}}, nil
	})

	logger.Info("phpindex MCP server started (stdio mode)")
	logger.Info("collection: %s", cfg.Indexer.Collection)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatalf("server terminated: %v", err)
	}
}

func allHealthy(results []healthcheck.CheckResult) bool {
	for _, r := range results {
		if r.Status != "ok" {
			return false
		}
	}
	return true
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `phpindex MCP Server - PHP symbol indexing and lookup over stdio

USAGE:
    phpindex-mcp [OPTIONS]

EXAMPLES:
    # Start with default configuration
    phpindex-mcp

    # Use a custom config file
    phpindex-mcp -config my-config.yaml

    # Override the Qdrant URL
    phpindex-mcp -qdrant-url http://remote:6333

    # Run health check only
    phpindex-mcp -health

OPTIONS:
`)
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
ENVIRONMENT VARIABLES:
    QDRANT_URL           Qdrant server URL (default: http://localhost:6333)
    QDRANT_API_KEY       Qdrant API key (optional)
    PHPINDEX_COLLECTION  Collection name for the symbol index
    MCP_LOG_LEVEL        Log level: debug, info, warn, error (default: info)
    MCP_LOG_FILE         Optional path to also append logs to
`)
}
