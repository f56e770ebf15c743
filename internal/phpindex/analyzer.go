package phpindex

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/VKCOM/php-parser/pkg/conf"
	"github.com/VKCOM/php-parser/pkg/errors"
	"github.com/VKCOM/php-parser/pkg/parser"
	"github.com/VKCOM/php-parser/pkg/version"

	"github.com/doITmagic/phpindex/internal/phpsymbol"
	"github.com/doITmagic/phpindex/internal/phpsymbol/resolve"
	"github.com/doITmagic/phpindex/internal/phpsymbol/transform"
)

// Analyzer parses PHP source and runs the Transformer Set over it, one
// Resolver/Walker per document, strictly single-threaded within a document
// per spec.md §5 — AnalyzePaths is what parallelizes across documents.
type Analyzer struct {
	// PHPVersion selects the parser's target dialect (SPEC_FULL.md §4.7);
	// zero value resolves to PHP 8.0, matching the teacher's hardcoded
	// version.Version{Major: 8, Minor: 0}.
	PHPVersion version.Version

	// Workers bounds how many documents AnalyzePaths analyzes concurrently.
	// Zero selects runtime.GOMAXPROCS(0), mirroring a CPU-bound worker pool
	// sized to available cores.
	Workers int

	// OnWarning receives non-fatal parser diagnostics, keeping the caller in
	// control of how (or whether) they're surfaced instead of Analyzer
	// writing to os.Stderr itself — see SPEC_FULL.md §4.11 on logging.
	OnWarning func(uri string, msg string)
}

// NewAnalyzer returns an Analyzer configured the way the teacher's
// CodeAnalyzer.parsePHPSource was: PHP 8.0, one worker per core.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		PHPVersion: version.Version{Major: 8, Minor: 0},
		Workers:    runtime.GOMAXPROCS(0),
	}
}

func (a *Analyzer) phpVersion() *version.Version {
	v := a.PHPVersion
	if v.Major == 0 {
		v = version.Version{Major: 8, Minor: 0}
	}
	return &v
}

// AnalyzeDocument parses and walks a single document, returning its symbol
// tree and reference list. A fresh Resolver/Walker is created per call —
// documents never share resolver state (spec.md §5's "strictly
// single-threaded per document" invariant, and the reason concurrent calls
// from AnalyzePaths are safe without external locking).
func (a *Analyzer) AnalyzeDocument(ctx context.Context, uri string, src []byte) (*Analysis, error) {
	var parseErrs []*errors.Error
	root, err := parser.Parse(src, conf.Config{
		Version: a.phpVersion(),
		ErrorHandlerFunc: func(e *errors.Error) {
			parseErrs = append(parseErrs, e)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", uri, err)
	}
	if len(parseErrs) > 0 && a.OnWarning != nil {
		for _, e := range parseErrs {
			a.OnWarning(uri, e.String())
		}
	}

	refs := make([]phpsymbol.Reference, 0)
	ctxState := &context{uri: uri, resolver: resolve.New(), references: &refs}

	treeRoot := transform.NewRoot(root, uri, src)
	w := &transform.Walker{New: newFactory(ctxState)}

	result, err := w.Walk(ctx, treeRoot)
	if err != nil {
		return nil, err
	}

	file := &phpsymbol.Symbol{Kind: phpsymbol.KindFile, Name: uri, Location: phpsymbol.Range{URI: uri}}
	if mt, ok := result.(multiDeclTransformer); ok {
		file.Children = mt.Symbols()
	}

	return &Analysis{URI: uri, File: file, References: refs}, nil
}

// skipDir mirrors the teacher's directory skip-list in AnalyzePaths.
func skipDir(name string) bool {
	switch name {
	case ".git", "vendor", "node_modules", "storage", "public":
		return true
	}
	return strings.HasPrefix(name, ".")
}

// WalkPHPFiles walks root, invoking visit for every *.php file found, and
// skips the same vendor/VCS/build directories AnalyzePaths does. It is
// shared with callers outside this package (such as a workspace manager)
// that need the file list without running a full analysis pass.
func WalkPHPFiles(root string, visit func(path string)) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("access %s: %w", root, err)
	}
	if !info.IsDir() {
		if strings.HasSuffix(root, ".php") {
			visit(root)
		}
		return nil
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".php") {
			visit(path)
		}
		return nil
	})
}

// AnalyzePaths walks each of paths (files or directories), analyzing every
// *.php file it finds, and parallelizes the per-document work across a
// worker pool sized by a.Workers — spec.md §5's "documents may be
// parallelized across a worker pool" — while every file is still walked by
// its own single-threaded Resolver/Walker pair.
func (a *Analyzer) AnalyzePaths(ctx context.Context, paths []string) ([]*Analysis, error) {
	var files []string
	for _, root := range paths {
		if err := WalkPHPFiles(root, func(path string) {
			files = append(files, path)
		}); err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	workers := a.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	type indexed struct {
		i   int
		out *Analysis
	}

	jobs := make(chan int)
	results := make(chan indexed, len(files))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				path := files[i]
				content, err := os.ReadFile(path)
				if err != nil {
					if a.OnWarning != nil {
						a.OnWarning(path, err.Error())
					}
					continue
				}
				analysis, err := a.AnalyzeDocument(ctx, path, content)
				if err != nil {
					if a.OnWarning != nil {
						a.OnWarning(path, err.Error())
					}
					continue
				}
				results <- indexed{i: i, out: analysis}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range files {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]*Analysis, len(files))
	for r := range results {
		out[r.i] = r.out
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	compact := out[:0]
	for _, a := range out {
		if a != nil {
			compact = append(compact, a)
		}
	}
	return compact, nil
}
