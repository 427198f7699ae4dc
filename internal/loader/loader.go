package loader

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/quill-lang/quilldoc/internal/pipeline"
	"github.com/quill-lang/quilldoc/internal/sexpr"
	"github.com/quill-lang/quilldoc/internal/symtab"
)

// ManifestExt is the file extension of module manifests.
const ManifestExt = ".qm"

// LoadError reports a failure to load a module or one of its dependencies
// for reasons belonging to the loader itself: unresolvable identifiers,
// unreadable files, malformed manifests. Errors produced by the expansion
// hook pass through unwrapped.
type LoadError struct {
	Module string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Module, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Options controls one Load call.
type Options struct {
	// ForceReload loads the module even when a previous Load already
	// brought it in.
	ForceReload bool
	// SuppressDiagnostics discards the loader's progress and warning
	// output.
	SuppressDiagnostics bool
}

// Loader resolves module identifiers against a search path and drives the
// load pass: dependencies depth-first, then each source file form by form
// through the pipeline's expansion hook, evaluating each expanded form's
// load-time effect.
type Loader struct {
	table *symtab.Table
	pipe  *pipeline.Pipeline

	searchPaths []string
	logger      *log.Logger
	loaded      map[string]bool
	loading     map[string]bool
}

// New creates a Loader. Diagnostics go to logger; nil means stderr, matching
// the convention that stdout stays reserved for protocol traffic.
func New(table *symtab.Table, pipe *pipeline.Pipeline, searchPaths []string, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	return &Loader{
		table:       table,
		pipe:        pipe,
		searchPaths: searchPaths,
		logger:      logger,
		loaded:      make(map[string]bool),
		loading:     make(map[string]bool),
	}
}

// Loaded reports whether identifier has been loaded in this process.
func (l *Loader) Loaded(identifier string) bool {
	return l.loaded[identifier]
}

// Load loads the named module and its dependency closure.
func (l *Loader) Load(ctx context.Context, identifier string, opts Options) error {
	if l.loaded[identifier] && !opts.ForceReload {
		return nil
	}
	if l.loading[identifier] {
		return &LoadError{Module: identifier, Err: fmt.Errorf("dependency cycle")}
	}
	l.loading[identifier] = true
	defer delete(l.loading, identifier)

	manifestPath, err := l.findManifest(identifier)
	if err != nil {
		return err
	}
	manifest, err := l.readManifest(identifier, manifestPath)
	if err != nil {
		return err
	}
	if manifest.Name != identifier && !opts.SuppressDiagnostics {
		l.logger.Printf("module %s: manifest declares name %q", identifier, manifest.Name)
	}

	for _, dep := range manifest.DependsOn {
		if err := l.Load(ctx, dep, opts); err != nil {
			return err
		}
	}

	if !opts.SuppressDiagnostics {
		l.logger.Printf("loading module %s (%d files)", identifier, len(manifest.Files))
	}
	baseDir := filepath.Dir(manifestPath)
	for _, file := range manifest.Files {
		if err := ctx.Err(); err != nil {
			return &LoadError{Module: identifier, Err: err}
		}
		if err := l.loadFile(identifier, filepath.Join(baseDir, file)); err != nil {
			return err
		}
	}

	l.loaded[identifier] = true
	return nil
}

// findManifest locates the module's manifest on the search path. Both
// <dir>/<name>.qm and <dir>/<name>/<name>.qm layouts are accepted.
func (l *Loader) findManifest(identifier string) (string, error) {
	for _, dir := range l.searchPaths {
		for _, candidate := range []string{
			filepath.Join(dir, identifier+ManifestExt),
			filepath.Join(dir, identifier, identifier+ManifestExt),
		} {
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}
	}
	return "", &LoadError{Module: identifier, Err: fmt.Errorf("no manifest on search path %v", l.searchPaths)}
}

// loadFile reads one source file form by form. Each form goes through the
// expansion hook before its load-time effect is applied; hook errors
// propagate unmodified so the caller sees handler failures as such.
func (l *Loader) loadFile(module, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &LoadError{Module: module, Err: err}
	}
	defer func() { _ = f.Close() }()

	r := sexpr.NewReader(f, filepath.Base(path))
	for {
		form, err := r.ReadForm()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &LoadError{Module: module, Err: err}
		}
		expanded, err := l.pipe.Expand(form)
		if err != nil {
			return err
		}
		l.evalForm(expanded)
	}
}
