package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	// Read configuration file
	data, err := os.ReadFile(path)
	if err != nil {
		// Return default config if file doesn't exist
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(&cfg)

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			VectorDB: VectorDBConfig{
				Provider:   "qdrant",
				URL:        "http://localhost:6333",
				Collection: "phpindex-symbols",
			},
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			EnableWebSocket: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
		Indexer: IndexerConfig{
			Enabled:        true,
			IndexOnStartup: false,
			Paths:          []string{"."},
			Collection:     "phpindex-symbols",
			Include:        []string{"**/*.php"},
			Exclude:        []string{"vendor/**", ".git/**", "node_modules/**"},
			Workers:        0,
			ParseTimeout:   30 * time.Second,
		},
		Workspace: WorkspaceConfig{
			Enabled:          true,
			AutoIndex:        true,
			MaxWorkspaces:    10,
			DetectionMarkers: []string{".git", "composer.json", "artisan"},
			ExcludePatterns:  []string{"node_modules", ".git", "vendor", "storage", "build", "dist"},
			CollectionPrefix: "phpindex",
			IndexInclude:     []string{}, // Empty means use global indexer.include
			IndexExclude:     []string{}, // Empty means use global indexer.exclude
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration
func applyEnvOverrides(cfg *Config) {
	// Vector DB (Qdrant) configuration overrides
	if url := os.Getenv("QDRANT_URL"); url != "" {
		cfg.Storage.VectorDB.URL = url
	}
	if apiKey := os.Getenv("QDRANT_API_KEY"); apiKey != "" {
		cfg.Storage.VectorDB.APIKey = apiKey
	}
	if coll := os.Getenv("QDRANT_COLLECTION"); coll != "" {
		cfg.Storage.VectorDB.Collection = coll
	}

	// Indexer configuration overrides
	if coll := os.Getenv("PHPINDEX_COLLECTION"); coll != "" {
		cfg.Indexer.Collection = coll
	}
	if enabled := os.Getenv("PHPINDEX_ENABLED"); enabled != "" {
		if v, err := strconv.ParseBool(enabled); err == nil {
			cfg.Indexer.Enabled = v
		}
	}
	if indexOnStartup := os.Getenv("PHPINDEX_INDEX_ON_STARTUP"); indexOnStartup != "" {
		if v, err := strconv.ParseBool(indexOnStartup); err == nil {
			cfg.Indexer.IndexOnStartup = v
		}
	}
	if workers := os.Getenv("PHPINDEX_WORKERS"); workers != "" {
		if v, err := strconv.Atoi(workers); err == nil {
			cfg.Indexer.Workers = v
		}
	}

	// Workspace configuration overrides
	if wsEnabled := os.Getenv("WORKSPACE_ENABLED"); wsEnabled != "" {
		if v, err := strconv.ParseBool(wsEnabled); err == nil {
			cfg.Workspace.Enabled = v
		}
	}
	if wsAutoIndex := os.Getenv("WORKSPACE_AUTO_INDEX"); wsAutoIndex != "" {
		if v, err := strconv.ParseBool(wsAutoIndex); err == nil {
			cfg.Workspace.AutoIndex = v
		}
	}
	if wsMax := os.Getenv("WORKSPACE_MAX_WORKSPACES"); wsMax != "" {
		if v, err := strconv.Atoi(wsMax); err == nil {
			cfg.Workspace.MaxWorkspaces = v
		}
	}
	if wsPrefix := os.Getenv("WORKSPACE_COLLECTION_PREFIX"); wsPrefix != "" {
		cfg.Workspace.CollectionPrefix = wsPrefix
	}
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Storage.VectorDB.Provider == "" {
		cfg.Storage.VectorDB.Provider = "qdrant"
	}
	if cfg.Storage.VectorDB.Provider != "qdrant" {
		return fmt.Errorf("storage.vector_db.provider must be 'qdrant'")
	}
	if cfg.Indexer.Collection == "" {
		return fmt.Errorf("indexer.collection is required")
	}
	return nil
}
