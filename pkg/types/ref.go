package types

import (
	"errors"
	"strings"
)

// Resolution is the answer a symbol table gives for an identifier: the
// package that owns it and whether that package exports it.
type Resolution struct {
	Namespace string
	Exported  bool
}

// Resolver looks up an identifier's defining namespace and export status.
// The concrete implementation lives with the host symbol table.
type Resolver interface {
	Resolve(identifier string) (Resolution, error)
}

// SymbolRef is a qualified reference to a named definition. It is immutable
// once constructed.
type SymbolRef struct {
	Namespace string
	Name      string
	Exported  bool

	// IsSetf marks references written as (setf NAME), the assignment
	// counterpart of an accessor.
	IsSetf bool
}

// RefFromIdentifier resolves identifier through r and builds a SymbolRef.
// The bare name is the identifier with any package qualifier stripped.
func RefFromIdentifier(r Resolver, identifier string, isSetf bool) (SymbolRef, error) {
	res, err := r.Resolve(identifier)
	if err != nil {
		return SymbolRef{}, err
	}
	name := identifier
	if i := strings.IndexByte(identifier, ':'); i >= 0 {
		name = identifier[i+1:]
	}
	return SymbolRef{
		Namespace: res.Namespace,
		Name:      name,
		Exported:  res.Exported,
		IsSetf:    isSetf,
	}, nil
}

// RenderQualified renders the reference as "namespace:name".
func RenderQualified(ref SymbolRef) string {
	return ref.Namespace + ":" + ref.Name
}

// RenderHumanized renders the bare name lowercased, for human-facing display
// without namespace qualification.
func RenderHumanized(ref SymbolRef) string {
	return strings.ToLower(ref.Name)
}

// Validate checks that the reference names an actual definition. Anonymous
// identifiers never appear in a loaded module's top-level forms.
func (r SymbolRef) Validate() error {
	if r.Namespace == "" {
		return errors.New("symbol reference requires a namespace")
	}
	if r.Name == "" {
		return errors.New("symbol reference requires a name")
	}
	return nil
}
