package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()
	if cfg == nil {
		t.Fatalf("DefaultConfig() returned nil")
	}

	if cfg.Storage.VectorDB.Provider != "qdrant" {
		t.Errorf("VectorDB.Provider = %q, want %q", cfg.Storage.VectorDB.Provider, "qdrant")
	}
	if cfg.Storage.VectorDB.URL != "http://localhost:6333" {
		t.Errorf("VectorDB.URL = %q, want %q", cfg.Storage.VectorDB.URL, "http://localhost:6333")
	}
	if !cfg.Workspace.Enabled {
		t.Errorf("Workspace.Enabled = false, want true")
	}
	if cfg.Workspace.CollectionPrefix != "phpindex" {
		t.Errorf("Workspace.CollectionPrefix = %q, want %q", cfg.Workspace.CollectionPrefix, "phpindex")
	}
	if cfg.Indexer.Collection != "phpindex-symbols" {
		t.Errorf("Indexer.Collection = %q, want %q", cfg.Indexer.Collection, "phpindex-symbols")
	}
	if len(cfg.Indexer.Include) != 1 || cfg.Indexer.Include[0] != "**/*.php" {
		t.Errorf("Indexer.Include = %#v, want [**/*.php]", cfg.Indexer.Include)
	}
}

func TestLoadMissingFileReturnsDefaultConfig(t *testing.T) {
	tempDir := t.TempDir()
	missing := filepath.Join(tempDir, "no-such-config.yaml")

	cfg, err := Load(missing)
	if err != nil {
		t.Fatalf("Load(%q) returned error: %v", missing, err)
	}
	if cfg == nil {
		t.Fatalf("Load(%q) returned nil config", missing)
	}

	if cfg.Storage.VectorDB.Provider != "qdrant" {
		t.Errorf("VectorDB.Provider = %q, want %q", cfg.Storage.VectorDB.Provider, "qdrant")
	}
}

func TestLoadParsesYAMLAndValidates(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "config.yaml")

	yamlContent := []byte(`
storage:
  vector_db:
    provider: qdrant
    url: http://qdrant:6333
    collection: custom-symbols
indexer:
  collection: custom-symbols
server:
  port: 9090
`)
	if err := os.WriteFile(path, yamlContent, 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) returned error: %v", path, err)
	}

	if cfg.Storage.VectorDB.URL != "http://qdrant:6333" {
		t.Errorf("VectorDB.URL = %q, want %q", cfg.Storage.VectorDB.URL, "http://qdrant:6333")
	}
	if cfg.Indexer.Collection != "custom-symbols" {
		t.Errorf("Indexer.Collection = %q, want %q", cfg.Indexer.Collection, "custom-symbols")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := DefaultConfig()

	t.Setenv("QDRANT_URL", "http://qdrant:7777")
	t.Setenv("QDRANT_COLLECTION", "my-symbols")
	t.Setenv("PHPINDEX_ENABLED", "false")
	t.Setenv("PHPINDEX_WORKERS", "4")
	t.Setenv("WORKSPACE_ENABLED", "false")
	t.Setenv("WORKSPACE_AUTO_INDEX", "false")
	t.Setenv("WORKSPACE_MAX_WORKSPACES", "42")
	t.Setenv("WORKSPACE_COLLECTION_PREFIX", "myphpindex")

	applyEnvOverrides(cfg)

	if cfg.Storage.VectorDB.URL != "http://qdrant:7777" {
		t.Errorf("VectorDB.URL = %q, want %q", cfg.Storage.VectorDB.URL, "http://qdrant:7777")
	}
	if cfg.Storage.VectorDB.Collection != "my-symbols" {
		t.Errorf("VectorDB.Collection = %q, want %q", cfg.Storage.VectorDB.Collection, "my-symbols")
	}
	if cfg.Indexer.Enabled {
		t.Errorf("Indexer.Enabled = true, want false")
	}
	if cfg.Indexer.Workers != 4 {
		t.Errorf("Indexer.Workers = %d, want %d", cfg.Indexer.Workers, 4)
	}
	if cfg.Workspace.Enabled {
		t.Errorf("Workspace.Enabled = true, want false")
	}
	if cfg.Workspace.AutoIndex {
		t.Errorf("Workspace.AutoIndex = true, want false")
	}
	if cfg.Workspace.MaxWorkspaces != 42 {
		t.Errorf("Workspace.MaxWorkspaces = %d, want %d", cfg.Workspace.MaxWorkspaces, 42)
	}
	if cfg.Workspace.CollectionPrefix != "myphpindex" {
		t.Errorf("Workspace.CollectionPrefix = %q, want %q", cfg.Workspace.CollectionPrefix, "myphpindex")
	}
}

func TestValidateRequiresQdrantProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.VectorDB.Provider = ""

	if err := validate(cfg); err != nil {
		t.Fatalf("validate(default cfg) returned error: %v", err)
	}
	if cfg.Storage.VectorDB.Provider != "qdrant" {
		t.Errorf("after validate, VectorDB.Provider = %q, want %q", cfg.Storage.VectorDB.Provider, "qdrant")
	}

	cfgBadProvider := DefaultConfig()
	cfgBadProvider.Storage.VectorDB.Provider = "chromadb"
	if err := validate(cfgBadProvider); err == nil {
		t.Fatalf("validate(cfg with bad provider) = nil error, want non-nil")
	}

	cfgNoCollection := DefaultConfig()
	cfgNoCollection.Indexer.Collection = ""
	if err := validate(cfgNoCollection); err == nil {
		t.Fatalf("validate(cfg without collection) = nil error, want non-nil")
	}
}

func TestValidateServerPort(t *testing.T) {
	cfg := DefaultConfig()
	// Server.Port is currently unused by the MCP runtime; validate should not
	// reject configurations based solely on the port value.
	cfg.Server.Port = 70000
	if err := validate(cfg); err != nil {
		t.Fatalf("validate(cfg with high port) returned unexpected error: %v", err)
	}
}
