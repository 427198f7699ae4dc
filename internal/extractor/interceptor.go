package extractor

import (
	"errors"

	"github.com/quill-lang/quilldoc/internal/pipeline"
	"github.com/quill-lang/quilldoc/internal/sexpr"
	"github.com/quill-lang/quilldoc/pkg/types"
)

// ErrInterceptorActive is returned by Install when another interceptor
// already holds the pipeline's hook slot.
var ErrInterceptorActive = errors.New("an interceptor is already installed on this pipeline")

// Interceptor observes every form flowing through a pipeline's expansion
// hook during one load pass. Recognized forms are diverted to the registry's
// handler and replaced with an inert substitute so their real definition
// never executes; everything else forwards to the hook captured at install
// time.
//
// Install and Uninstall must pair exactly once, on every exit path:
//
//	if err := ic.Install(); err != nil {
//	    return err
//	}
//	defer ic.Uninstall()
type Interceptor struct {
	pipe     *pipeline.Pipeline
	registry *Registry

	lock  hookLock
	prior pipeline.Hook
	nodes []types.Node
}

// NewInterceptor creates an interceptor for pipe dispatching through
// registry.
func NewInterceptor(pipe *pipeline.Pipeline, registry *Registry) *Interceptor {
	return &Interceptor{pipe: pipe, registry: registry}
}

// Install captures the pipeline's current hook and swaps in the intercepting
// one. It fails with ErrInterceptorActive on reentrant installs.
func (ic *Interceptor) Install() error {
	if !ic.lock.TryAcquire() {
		return ErrInterceptorActive
	}
	ic.nodes = nil
	ic.prior = ic.pipe.SwapHook(ic.expand)
	return nil
}

// Uninstall restores the hook captured by Install. The pipeline is never
// left with a dangling hook as long as callers defer this.
func (ic *Interceptor) Uninstall() {
	ic.pipe.SwapHook(ic.prior)
	ic.prior = nil
	ic.lock.Release()
}

// Nodes returns the accumulated nodes, most recently extracted first.
func (ic *Interceptor) Nodes() []types.Node {
	return ic.nodes
}

// expand is the installed hook. Handler errors are not caught here: they
// propagate up through the load call, and the deferred Uninstall still
// restores the prior hook.
func (ic *Interceptor) expand(form sexpr.Value) (sexpr.Value, error) {
	head := form.Head()
	if head == "" {
		return ic.prior(form)
	}
	handler, ok := ic.registry.Lookup(FormKind(head))
	if !ok {
		return ic.prior(form)
	}
	node, err := handler(form.Args())
	if err != nil {
		return sexpr.Nil(), err
	}
	if node != nil {
		ic.nodes = append([]types.Node{node}, ic.nodes...)
	}
	return sexpr.Nil(), nil
}
