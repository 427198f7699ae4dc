// Package extractor turns recognized definition forms into documentation
// nodes by co-opting the compilation pipeline's expansion hook.
//
// The Registry maps a form's leading identifier (defun, defmacro, ...) to a
// Handler that destructures the form's arguments into a node. The
// Interceptor installs itself into the pipeline's single hook slot for the
// duration of one load pass: recognized forms are extracted and replaced
// with an inert substitute, unrecognized forms forward to the previously
// installed hook so the module's real load-time behavior is untouched.
//
// The accumulated sequence is in reverse encounter order: the handler result
// for the last form read appears first. Callers rely on that ordering.
//
// # Failure semantics
//
// A handler that fails aborts the whole pass; the error propagates out of
// the load call unmodified and no partial node list is kept. The one
// structural guarantee is hook restoration: Uninstall runs on every exit
// path, so the pipeline never retains a dangling hook.
package extractor
