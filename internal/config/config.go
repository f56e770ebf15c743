package config

import (
	"time"
)

// Config represents the global application configuration
type Config struct {
	// Indexer configuration (startup / on-demand PHP scanning)
	Indexer IndexerConfig `yaml:"indexer"`

	// Storage configuration (symbol-index persistence backend)
	Storage StorageConfig `yaml:"storage"`

	// Server configuration (MCP transport)
	Server ServerConfig `yaml:"server"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging"`

	// Workspace configuration (multi-workspace support)
	Workspace WorkspaceConfig `yaml:"workspace"`
}

// StorageConfig contains storage backend settings for the symbol index.
type StorageConfig struct {
	VectorDB VectorDBConfig `yaml:"vector_db"`
}

// VectorDBConfig contains the Qdrant collection settings used by
// phpcache.QdrantCache. Provider is kept even though Qdrant is the only
// backend implemented, the same way the teacher's config leaves room for a
// provider switch without committing to one yet.
type VectorDBConfig struct {
	Provider   string `yaml:"provider"` // qdrant
	URL        string `yaml:"url"`
	APIKey     string `yaml:"api_key"`
	Collection string `yaml:"collection"`
}

// ServerConfig contains MCP server transport settings
type ServerConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	EnableWebSocket bool   `yaml:"enable_websocket"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
	Output string `yaml:"output"` // stdout, file
	Path   string `yaml:"path"`
}

// IndexerConfig contains configuration for PHP symbol indexing at startup
type IndexerConfig struct {
	Enabled        bool          `yaml:"enabled"`          // loaded and defaulted only; no command reads it
	IndexOnStartup bool          `yaml:"index_on_startup"` // loaded and defaulted only; no command reads it
	Paths          []string      `yaml:"paths"`            // directories to index
	Collection     string        `yaml:"collection"`       // Qdrant collection for the symbol index
	Include        []string      `yaml:"include"`          // loaded only; file selection is fixed to *.php
	Exclude        []string      `yaml:"exclude"`          // loaded only; skipped directories are fixed
	Workers        int           `yaml:"workers"`          // concurrent documents analyzed at once; 0 = GOMAXPROCS
	ParseTimeout   time.Duration `yaml:"parse_timeout"`    // loaded only; no per-document deadline is applied
}

// WorkspaceConfig contains configuration for multi-workspace support
type WorkspaceConfig struct {
	// Enabled selects the detector the workspace manager uses: when true it
	// is built from DetectionMarkers and ExcludePatterns below; when false
	// the detector's built-in markers are used
	Enabled bool `yaml:"enabled"`

	// AutoIndex is loaded and defaulted but not read by the workspace
	// manager; indexing runs when a tool or the watcher requests it
	AutoIndex bool `yaml:"auto_index"`

	// MaxWorkspaces is loaded and defaulted (default: 10) but not read by
	// the workspace manager; the number of workspaces is not limited
	MaxWorkspaces int `yaml:"max_workspaces"`

	// DetectionMarkers are files/directories used to identify workspace roots
	// Default: [".git", "composer.json", "artisan"]
	DetectionMarkers []string `yaml:"detection_markers"`

	// ExcludePatterns are path substrings that exclude a path from workspace detection
	// Default: ["node_modules", ".git", "vendor", "storage", "build", "dist"]
	ExcludePatterns []string `yaml:"exclude_patterns"`

	// CollectionPrefix is prepended to all workspace collection names
	// Format: {prefix}-{workspaceID}
	// Default: "phpindex"
	CollectionPrefix string `yaml:"collection_prefix"`

	// IndexInclude/IndexExclude are loaded but not read by the workspace
	// manager; every workspace is indexed with the same fixed file selection.
	IndexInclude []string `yaml:"index_include"`
	IndexExclude []string `yaml:"index_exclude"`
}
