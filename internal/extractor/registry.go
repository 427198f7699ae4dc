package extractor

import (
	"fmt"

	"github.com/quill-lang/quilldoc/internal/sexpr"
	"github.com/quill-lang/quilldoc/pkg/types"
)

// FormKind is the leading identifier of a recognized definition form.
type FormKind string

const (
	FormDefun        FormKind = "defun"
	FormDefmacro     FormKind = "defmacro"
	FormDefgeneric   FormKind = "defgeneric"
	FormDefmethod    FormKind = "defmethod"
	FormDeftype      FormKind = "deftype"
	FormDefvar       FormKind = "defvar"
	FormDefparameter FormKind = "defparameter"
	FormDefstruct    FormKind = "defstruct"
	FormDefclass     FormKind = "defclass"
)

// Handler turns the argument list of a recognized form into a documentation
// node. A nil node with a nil error means the form is recognized but not
// catalogued. Shape errors are reported as *HandlerError.
type Handler func(args []sexpr.Value) (types.Node, error)

// HandlerError reports a registered handler that failed while destructuring
// a recognized form. It aborts the whole parse; no partial node list is
// salvaged.
type HandlerError struct {
	Form FormKind
	Err  error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("%s handler: %v", e.Form, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

func handlerErrf(form FormKind, format string, args ...interface{}) *HandlerError {
	return &HandlerError{Form: form, Err: fmt.Errorf(format, args...)}
}

// Registry maps form kinds to extraction handlers. The last registration for
// a kind wins; there is no duplicate detection.
type Registry struct {
	handlers map[FormKind]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[FormKind]Handler)}
}

// Register inserts or overwrites the handler for kind.
func (r *Registry) Register(kind FormKind, h Handler) {
	r.handlers[kind] = h
}

// Lookup returns the handler for kind, if one is registered.
func (r *Registry) Lookup(kind FormKind) (Handler, bool) {
	h, ok := r.handlers[kind]
	return h, ok
}

// DefaultRegistry builds a registry with the built-in handler set, resolving
// names through res.
func DefaultRegistry(res types.Resolver) *Registry {
	r := NewRegistry()
	r.Register(FormDefun, operatorHandler(res, FormDefun, types.KindFunction))
	r.Register(FormDefmacro, operatorHandler(res, FormDefmacro, types.KindMacro))
	r.Register(FormDefmethod, operatorHandler(res, FormDefmethod, types.KindMethod))
	r.Register(FormDeftype, operatorHandler(res, FormDeftype, types.KindType))

	// Generic-function definitions are recognized so the pipeline never
	// executes them, but they are not catalogued: each attached method is
	// catalogued separately.
	r.Register(FormDefgeneric, func(args []sexpr.Value) (types.Node, error) {
		return nil, nil
	})

	r.Register(FormDefvar, variableHandler(res, FormDefvar))
	r.Register(FormDefparameter, variableHandler(res, FormDefparameter))
	r.Register(FormDefstruct, structHandler(res))
	r.Register(FormDefclass, classHandler(res))
	return r
}
