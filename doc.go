// Package quilldoc extracts structured documentation metadata from Quill
// modules.
//
// An Engine observes a live load pass of a target module by temporarily
// holding the compilation pipeline's expansion hook: recognized definition
// forms (defun, defmacro, defmethod, defclass, ...) are diverted into
// extraction handlers that build documentation nodes, while every other form
// loads exactly as it normally would.
//
//	eng := quilldoc.New(quilldoc.Options{SearchPaths: []string{"./modules"}})
//	nodes, err := eng.Parse(ctx, "my-module")
//
// The returned sequence is in reverse encounter order and is complete or
// absent: a failed load or extraction yields an error and no nodes, with the
// pipeline's original hook always restored.
package quilldoc
