package workspace

import (
	"context"
	"fmt"
	"hash/fnv"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/doITmagic/phpindex/internal/config"
	"github.com/doITmagic/phpindex/internal/phpcache"
	"github.com/doITmagic/phpindex/internal/phpindex"
	"github.com/doITmagic/phpindex/internal/phpsymbol"
)

// stateFileName is where IndexWorkspace persists per-file mtimes for a
// workspace, so EnsureWorkspaceIndexed can skip a full reindex across
// process restarts, not just within one running Manager's in-memory
// scanFingerprints.
const stateFileName = ".phpindex-state.json"

// Manager manages workspace detection, symbol-index caching, and on-disk
// watching for a set of PHP workspaces.
type Manager struct {
	detector *Detector
	cache    *Cache
	analyzer *phpindex.Analyzer
	index    phpcache.Cache
	config   *config.Config

	// Indexing state
	indexingMu sync.RWMutex
	indexing   map[string]bool // workspace ID -> is indexing

	// Per-workspace scan fingerprints, used to decide whether a rescan found
	// any changes worth re-analyzing.
	scanMu           sync.RWMutex
	scanFingerprints map[string]string

	metaMu   sync.RWMutex
	metadata map[string]*Metadata

	// symbolMu guards symbolIndex, a per-workspace name -> declaration-site
	// index rebuilt on every IndexWorkspace run. It exists so MCP tools can
	// answer "where is X declared" without the cache's bucket layout (keyed
	// by document URI, not symbol name) being queried document-by-document.
	symbolMu    sync.RWMutex
	symbolIndex map[string]map[string][]*phpsymbol.Symbol

	// File watchers
	watchersMu sync.Mutex
	watchers   map[string]*FileWatcher
}

type workspaceScan struct {
	PHPFiles    []string
	TotalFiles  int
	GeneratedAt time.Time
}

var defaultSkipDirs = map[string]struct{}{
	".git":         {},
	".idea":        {},
	".vscode":      {},
	"node_modules": {},
	"vendor":       {},
	"dist":         {},
	"build":        {},
	"storage":      {},
	"public":       {},
}

func (m *Manager) scanWorkspace(info *Info) (*workspaceScan, error) {
	scan := &workspaceScan{GeneratedAt: time.Now()}
	err := phpindex.WalkPHPFiles(info.Root, func(path string) {
		scan.TotalFiles++
		scan.PHPFiles = append(scan.PHPFiles, path)
	})
	if err != nil {
		return nil, err
	}
	return scan, nil
}

func (s *workspaceScan) fingerprint() string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d", s.TotalFiles)
	files := append([]string(nil), s.PHPFiles...)
	sort.Strings(files)
	for _, f := range files {
		h.Write([]byte(f))
		h.Write([]byte("|"))
	}
	return fmt.Sprintf("%x", h.Sum64())
}

// NeedsReindex rescans the workspace and reports whether the tracked PHP
// files changed since the last recorded fingerprint. It consults the
// in-memory fingerprint first (cheap, covers this process's lifetime) and
// falls back to the on-disk WorkspaceState (covers a fresh process that
// previously indexed this workspace).
func (m *Manager) NeedsReindex(info *Info) (bool, error) {
	scan, err := m.scanWorkspace(info)
	if err != nil {
		return false, err
	}
	fp := scan.fingerprint()
	m.scanMu.RLock()
	prev := m.scanFingerprints[info.ID]
	m.scanMu.RUnlock()
	if prev != "" {
		return prev != fp, nil
	}

	state, err := LoadState(filepath.Join(info.Root, stateFileName))
	if err != nil {
		return true, nil
	}
	for _, path := range scan.PHPFiles {
		fi, err := os.Stat(path)
		if err != nil {
			return true, nil
		}
		tracked, ok := state.GetFileState(path)
		if !ok || !tracked.ModTime.Equal(fi.ModTime()) || tracked.Size != fi.Size() {
			return true, nil
		}
	}
	return !(len(state.Files) == len(scan.PHPFiles) && len(scan.PHPFiles) > 0), nil
}

func (m *Manager) recordFingerprint(info *Info, scan *workspaceScan) {
	if scan == nil {
		return
	}
	m.scanMu.Lock()
	if m.scanFingerprints == nil {
		m.scanFingerprints = make(map[string]string)
	}
	m.scanFingerprints[info.ID] = scan.fingerprint()
	m.scanMu.Unlock()
}

// NewManager creates a workspace manager backed by the given symbol cache.
// index is typically a *phpcache.MemoryCache for ad-hoc use, or a
// *phpcache.QdrantCache when the index should survive process restarts.
func NewManager(index phpcache.Cache, cfg *config.Config) *Manager {
	var detector *Detector
	if cfg != nil && cfg.Workspace.Enabled {
		detector = NewDetectorWithConfig(
			cfg.Workspace.DetectionMarkers,
			cfg.Workspace.ExcludePatterns,
		)
	} else {
		detector = NewDetector()
	}

	return &Manager{
		detector: detector,
		cache:    NewCache(5 * time.Minute),
		analyzer: phpindex.NewAnalyzer(),
		index:    index,
		config:   cfg,
		indexing:    make(map[string]bool),
		metadata:    make(map[string]*Metadata),
		symbolIndex: make(map[string]map[string][]*phpsymbol.Symbol),
		watchers:    make(map[string]*FileWatcher),
	}
}

// Index returns the underlying symbol cache, for callers (such as an MCP
// tool) that need to fetch a single document's Analysis directly rather
// than through workspace-level detection.
func (m *Manager) Index() phpcache.Cache {
	return m.index
}

// DetectWorkspace detects workspace from tool parameters, consulting the
// detection cache first.
func (m *Manager) DetectWorkspace(params map[string]interface{}) (*Info, error) {
	var cacheKey string
	for _, param := range []string{"file_path", "filePath", "path", "file"} {
		if value, ok := params[param]; ok {
			if path, ok := value.(string); ok && path != "" {
				cacheKey = path
				break
			}
		}
	}

	if cacheKey != "" {
		if cached := m.cache.Get(cacheKey); cached != nil {
			return cached, nil
		}
	}

	info, err := m.detector.DetectFromParams(params)
	if err != nil {
		return nil, err
	}

	if m.config != nil && m.config.Workspace.CollectionPrefix != "" {
		info.CollectionPrefix = m.config.Workspace.CollectionPrefix
	}

	if cacheKey != "" {
		m.cache.Set(cacheKey, info)
	}

	return info, nil
}

// Metadata returns the last recorded indexing metadata for a workspace, if any.
func (m *Manager) Metadata(workspaceID string) (*Metadata, bool) {
	m.metaMu.RLock()
	defer m.metaMu.RUnlock()
	meta, ok := m.metadata[workspaceID]
	return meta, ok
}

func (m *Manager) setMetadata(meta *Metadata) {
	m.metaMu.Lock()
	m.metadata[meta.WorkspaceID] = meta
	m.metaMu.Unlock()
}

// IndexWorkspace walks the workspace root for PHP files, analyzes each one,
// and stores the resulting symbol tree and reference list in the index
// cache keyed by file URI. It mirrors the outcome-tracking shape of the
// teacher's per-language indexing pipeline, but drives it with
// phpindex.Analyzer instead of an embedding pipeline.
func (m *Manager) IndexWorkspace(ctx context.Context, info *Info) error {
	m.indexingMu.Lock()
	if m.indexing[info.ID] {
		m.indexingMu.Unlock()
		return fmt.Errorf("workspace %s is already indexing", info.Root)
	}
	m.indexing[info.ID] = true
	m.indexingMu.Unlock()
	defer func() {
		m.indexingMu.Lock()
		m.indexing[info.ID] = false
		m.indexingMu.Unlock()
	}()

	scan, err := m.scanWorkspace(info)
	if err != nil {
		m.setMetadata(&Metadata{WorkspaceID: info.ID, RootPath: info.Root, Status: StatusFailed, ErrorMessage: err.Error()})
		return err
	}

	analyses, err := m.analyzer.AnalyzePaths(ctx, scan.PHPFiles)
	if err != nil {
		m.setMetadata(&Metadata{WorkspaceID: info.ID, RootPath: info.Root, Status: StatusFailed, ErrorMessage: err.Error()})
		return err
	}

	symbolCount := 0
	state := NewWorkspaceState()
	byName := make(map[string][]*phpsymbol.Symbol)
	for _, analysis := range analyses {
		if err := m.index.Put(ctx, analysis); err != nil {
			return fmt.Errorf("store analysis for %s: %w", analysis.URI, err)
		}
		symbolCount += len(analysis.File.Children)
		indexSymbolNames(byName, analysis.File)
		if fi, err := os.Stat(analysis.URI); err == nil {
			state.UpdateFile(analysis.URI, fi)
		}
	}
	m.symbolMu.Lock()
	m.symbolIndex[info.ID] = byName
	m.symbolMu.Unlock()
	if err := state.Save(filepath.Join(info.Root, stateFileName)); err != nil {
		log.Printf("[WARN] failed to persist workspace state for %s: %v", info.Root, err)
	}

	m.recordFingerprint(info, scan)
	m.setMetadata(&Metadata{
		WorkspaceID: info.ID,
		RootPath:    info.Root,
		LastIndexed: time.Now(),
		FileCount:   len(analyses),
		SymbolCount: symbolCount,
		Status:      StatusIndexed,
		ProjectType: info.ProjectType,
		Markers:     info.Markers,
	})
	return nil
}

// IsIndexing reports whether a workspace is currently being indexed.
func (m *Manager) IsIndexing(workspaceID string) bool {
	m.indexingMu.RLock()
	defer m.indexingMu.RUnlock()
	return m.indexing[workspaceID]
}

// StartIndexing triggers background indexing for a workspace.
func (m *Manager) StartIndexing(info *Info) {
	go func() {
		if err := m.IndexWorkspace(context.Background(), info); err != nil {
			log.Printf("[ERROR] background indexing failed for %s: %v", info.Root, err)
		}
	}()
}

// EnsureWorkspaceIndexed detects the workspace containing rootPath and
// indexes it if it has never been indexed or has changed since.
func (m *Manager) EnsureWorkspaceIndexed(ctx context.Context, rootPath string) error {
	info, err := m.detector.DetectFromPath(rootPath)
	if err != nil {
		return err
	}
	if m.config != nil && m.config.Workspace.CollectionPrefix != "" {
		info.CollectionPrefix = m.config.Workspace.CollectionPrefix
	}

	needsIndex, err := m.NeedsReindex(info)
	if err != nil {
		return err
	}
	if !needsIndex {
		return nil
	}
	return m.IndexWorkspace(ctx, info)
}

// indexSymbolNames walks sym's subtree and records every declaration-kind
// descendant under both its bare name and, for namespaced top-level
// symbols, its leaf name — so a lookup for "Greeter" matches a declaration
// of "App\Greeter" the same way a developer would type it in a search box.
func indexSymbolNames(byName map[string][]*phpsymbol.Symbol, sym *phpsymbol.Symbol) {
	for _, child := range sym.Children {
		switch child.Kind {
		case phpsymbol.KindClass, phpsymbol.KindInterface, phpsymbol.KindTrait,
			phpsymbol.KindFunction, phpsymbol.KindMethod, phpsymbol.KindConstant,
			phpsymbol.KindClassConstant, phpsymbol.KindProperty:
			byName[child.Name] = append(byName[child.Name], child)
			if leaf := symbolLeaf(child.Name); leaf != child.Name {
				byName[leaf] = append(byName[leaf], child)
			}
		}
		indexSymbolNames(byName, child)
	}
}

func symbolLeaf(fqn string) string {
	last := 0
	for i := 0; i < len(fqn); i++ {
		if fqn[i] == '\\' {
			last = i + 1
		}
	}
	return fqn[last:]
}

// LookupSymbol returns every declaration recorded for name in the given
// workspace's most recent index, or nil if the workspace has not been
// indexed yet or the name is unknown.
func (m *Manager) LookupSymbol(workspaceID, name string) []*phpsymbol.Symbol {
	m.symbolMu.RLock()
	defer m.symbolMu.RUnlock()
	return m.symbolIndex[workspaceID][name]
}

// StartWatcher starts the file watcher for a workspace if not already running.
func (m *Manager) StartWatcher(root string) {
	m.watchersMu.Lock()
	defer m.watchersMu.Unlock()

	if _, exists := m.watchers[root]; exists {
		return
	}

	watcher, err := NewFileWatcher(root, m)
	if err != nil {
		log.Printf("[WARN] failed to create file watcher for %s: %v", root, err)
		return
	}

	m.watchers[root] = watcher
	watcher.Start()
}
