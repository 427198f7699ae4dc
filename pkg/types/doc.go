// Package types defines the documentation node model shared across quilldoc.
//
// A SymbolRef is a qualified reference to a named definition: the owning
// namespace, the bare name, whether the namespace exports it, and whether it
// is a (setf NAME) assignment reference.
//
// Node is the tagged hierarchy of extracted documentation records. Operator
// variants (function, macro, generic function, method, type) carry an
// ordered parameter list whose entries preserve the literal lambda-list
// tokens. Record variants (struct, class) carry slot descriptions with
// accessor, reader, and writer references. VariableNode adds nothing beyond
// the shared name/docstring pair.
//
// Nodes are produced exclusively by form handlers during an interception
// pass and are immutable afterwards; they live only as long as the caller
// keeps the sequence returned by a parse call.
package types
