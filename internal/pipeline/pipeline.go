// Package pipeline models the host compilation pipeline's single expansion
// hook slot. Every form a load pass encounters flows through Expand, which
// runs whichever hook is installed at the time. The slot is a shared global
// resource: one holder at a time, swapped and restored via SwapHook.
package pipeline

import (
	"github.com/quill-lang/quilldoc/internal/sexpr"
)

// Hook is the expansion extension point invoked for every form during a
// load. It returns the form that the load pass should actually evaluate.
type Hook func(form sexpr.Value) (sexpr.Value, error)

// DefaultHook is the identity expansion: forms evaluate as written.
func DefaultHook(form sexpr.Value) (sexpr.Value, error) {
	return form, nil
}

// Pipeline owns the expansion hook slot.
type Pipeline struct {
	hook Hook
}

// New creates a pipeline with the default hook installed.
func New() *Pipeline {
	return &Pipeline{hook: DefaultHook}
}

// Hook returns the currently installed hook.
func (p *Pipeline) Hook() Hook {
	return p.hook
}

// SwapHook installs h and returns the hook it displaced. Callers that swap
// in a hook must swap the prior one back on every exit path.
func (p *Pipeline) SwapHook(h Hook) Hook {
	prior := p.hook
	p.hook = h
	return prior
}

// Expand runs the installed hook on form.
func (p *Pipeline) Expand(form sexpr.Value) (sexpr.Value, error) {
	return p.hook(form)
}
