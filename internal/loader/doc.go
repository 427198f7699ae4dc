// Package loader resolves and loads Quill modules from disk.
//
// A module identifier maps to a manifest file (<name>.qm) found on the
// configured search path. The manifest names the module's dependencies and
// source files; Load brings in the dependency closure depth-first and then
// reads each source file one top-level form at a time, running every form
// through the compilation pipeline's expansion hook before applying its
// load-time effect to the symbol table.
//
// The loader is the external collaborator the parse orchestrator drives: it
// owns no extraction logic and never inspects what hook is installed. An
// error raised by the hook (a failed extraction handler, an unresolvable
// name) propagates out of Load unmodified; the loader's own failures are
// reported as *LoadError.
package loader
