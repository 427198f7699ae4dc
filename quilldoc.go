package quilldoc

import (
	"context"
	"log"

	"github.com/quill-lang/quilldoc/internal/extractor"
	"github.com/quill-lang/quilldoc/internal/loader"
	"github.com/quill-lang/quilldoc/internal/pipeline"
	"github.com/quill-lang/quilldoc/internal/symtab"
	"github.com/quill-lang/quilldoc/pkg/types"
)

// Options configures an Engine.
type Options struct {
	// SearchPaths are the directories module manifests are resolved
	// against, in order.
	SearchPaths []string
	// Logger receives loader diagnostics outside of Parse calls; nil means
	// stderr.
	Logger *log.Logger
}

// Engine ties the host environment together: one compilation pipeline, one
// symbol table, one loader, and the handler registry. An Engine supports one
// Parse call at a time; a concurrent call fails with
// extractor.ErrInterceptorActive rather than corrupting the hook slot.
type Engine struct {
	pipe     *pipeline.Pipeline
	table    *symtab.Table
	loader   *loader.Loader
	registry *extractor.Registry
}

// New creates an Engine with the built-in handler set registered.
func New(opts Options) *Engine {
	table := symtab.NewTable()
	pipe := pipeline.New()
	return &Engine{
		pipe:     pipe,
		table:    table,
		loader:   loader.New(table, pipe, opts.SearchPaths, opts.Logger),
		registry: extractor.DefaultRegistry(table),
	}
}

// Registry exposes the form handler registry so callers can register
// handlers for additional definition-form kinds; a later registration for a
// kind replaces the earlier one.
func (e *Engine) Registry() *extractor.Registry {
	return e.registry
}

// Parse extracts documentation nodes from the named module. It installs the
// interceptor, forces a full reload of the module's dependency closure with
// loader diagnostics suppressed, and uninstalls on every exit path. The
// returned nodes are in reverse encounter order: the node for the last form
// read appears first. On any failure the error surfaces unmodified and no
// partial sequence is returned.
func (e *Engine) Parse(ctx context.Context, module string) ([]types.Node, error) {
	ic := extractor.NewInterceptor(e.pipe, e.registry)
	if err := ic.Install(); err != nil {
		return nil, err
	}
	defer ic.Uninstall()

	err := e.loader.Load(ctx, module, loader.Options{
		ForceReload:         true,
		SuppressDiagnostics: true,
	})
	if err != nil {
		return nil, err
	}
	return ic.Nodes(), nil
}
