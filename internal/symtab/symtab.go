package symtab

import (
	"fmt"
	"strings"

	"github.com/quill-lang/quilldoc/pkg/types"
)

// ResolutionError reports an identifier that could not be resolved to a
// defining namespace.
type ResolutionError struct {
	Identifier string
	Reason     string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve %q: %s", e.Identifier, e.Reason)
}

// Package is one namespace: a set of interned names and the subset it
// exports.
type Package struct {
	Name     string
	symbols  map[string]bool
	exported map[string]bool
}

func newPackage(name string) *Package {
	return &Package{
		Name:     name,
		symbols:  make(map[string]bool),
		exported: make(map[string]bool),
	}
}

// Intern records name as belonging to the package.
func (p *Package) Intern(name string) {
	p.symbols[name] = true
}

// Export marks name as exported, interning it if needed.
func (p *Package) Export(name string) {
	p.symbols[name] = true
	p.exported[name] = true
}

// Exports returns whether the package exports name.
func (p *Package) Exports(name string) bool {
	return p.exported[name]
}

// Table is the process symbol table: all known packages plus the current
// package the load pass is reading in. Bare identifiers resolve against the
// current package, mirroring how a reader interns symbols during a load.
type Table struct {
	packages map[string]*Package
	current  *Package
}

// DefaultPackage is where forms land before any in-package form runs.
const DefaultPackage = "quill-user"

// NewTable creates a table with the default package selected.
func NewTable() *Table {
	t := &Table{packages: make(map[string]*Package)}
	t.current = t.EnsurePackage(DefaultPackage)
	return t
}

// EnsurePackage returns the named package, creating it on first use.
func (t *Table) EnsurePackage(name string) *Package {
	if p, ok := t.packages[name]; ok {
		return p
	}
	p := newPackage(name)
	t.packages[name] = p
	return p
}

// Lookup returns the named package or nil.
func (t *Table) Lookup(name string) *Package {
	return t.packages[name]
}

// Current returns the package bare identifiers currently resolve against.
func (t *Table) Current() *Package {
	return t.current
}

// SetCurrent switches the current package, creating it if needed.
func (t *Table) SetCurrent(name string) *Package {
	t.current = t.EnsurePackage(name)
	return t.current
}

// Intern records identifier in its home package: the qualifier package for
// "pkg:name" identifiers, the current package for bare ones.
func (t *Table) Intern(identifier string) {
	if pkg, name, ok := splitQualified(identifier); ok {
		t.EnsurePackage(pkg).Intern(name)
		return
	}
	t.current.Intern(identifier)
}

// Resolve implements types.Resolver. A qualified identifier resolves against
// its named package; a bare identifier resolves against the current package,
// interning on demand the way a reader would.
func (t *Table) Resolve(identifier string) (types.Resolution, error) {
	if identifier == "" {
		return types.Resolution{}, &ResolutionError{Identifier: identifier, Reason: "empty identifier"}
	}
	if pkg, name, ok := splitQualified(identifier); ok {
		p := t.packages[pkg]
		if p == nil {
			return types.Resolution{}, &ResolutionError{Identifier: identifier, Reason: "unknown package " + pkg}
		}
		if name == "" {
			return types.Resolution{}, &ResolutionError{Identifier: identifier, Reason: "empty name"}
		}
		p.Intern(name)
		return types.Resolution{Namespace: p.Name, Exported: p.Exports(name)}, nil
	}
	if t.current == nil {
		return types.Resolution{}, &ResolutionError{Identifier: identifier, Reason: "no current package"}
	}
	t.current.Intern(identifier)
	return types.Resolution{Namespace: t.current.Name, Exported: t.current.Exports(identifier)}, nil
}

var _ types.Resolver = (*Table)(nil)

func splitQualified(identifier string) (pkg, name string, ok bool) {
	i := strings.IndexByte(identifier, ':')
	if i < 0 {
		return "", "", false
	}
	return identifier[:i], identifier[i+1:], true
}
