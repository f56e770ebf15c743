package workspace

import "time"

// Info contains information about a detected workspace
type Info struct {
	// Root is the absolute path to the workspace root directory
	Root string `json:"root"`

	// ID is a stable, unique identifier for this workspace (hash of Root)
	ID string `json:"id"`

	// ProjectType indicates the detected project type (php, laravel, git, unknown)
	ProjectType string `json:"project_type,omitempty"`

	// Markers are the workspace markers found (e.g., ".git", "composer.json")
	Markers []string `json:"markers,omitempty"`

	// DetectedAt is when this workspace was first detected
	DetectedAt time.Time `json:"detected_at,omitempty"`

	// CollectionPrefix is the prefix used for this workspace's Qdrant collection
	// when the cache is backed by phpcache.QdrantCache
	CollectionPrefix string `json:"collection_prefix,omitempty"`
}

// CollectionName returns the Qdrant collection name for this workspace's
// symbol index.
func (w *Info) CollectionName() string {
	prefix := w.CollectionPrefix
	if prefix == "" {
		prefix = "phpindex" // Default prefix
	}
	return prefix + "-" + w.ID
}

// Metadata records the outcome of the last indexing run for a workspace.
type Metadata struct {
	WorkspaceID  string    `json:"workspace_id"`
	RootPath     string    `json:"root_path"`
	LastIndexed  time.Time `json:"last_indexed"`
	FileCount    int       `json:"file_count"`
	SymbolCount  int       `json:"symbol_count"`
	Status       string    `json:"status"` // "indexed", "indexing", "failed"
	ProjectType  string    `json:"project_type,omitempty"`
	Markers      []string  `json:"markers,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// IndexingStatus represents possible indexing states
const (
	StatusIndexed  = "indexed"
	StatusIndexing = "indexing"
	StatusFailed   = "failed"
	StatusPending  = "pending"
)
