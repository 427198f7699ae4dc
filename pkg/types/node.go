package types

// NodeKind tags the variant of a documentation node.
type NodeKind string

const (
	KindFunction        NodeKind = "function"
	KindMacro           NodeKind = "macro"
	KindGenericFunction NodeKind = "generic-function"
	KindMethod          NodeKind = "method"
	KindType            NodeKind = "type"
	KindVariable        NodeKind = "variable"
	KindStruct          NodeKind = "struct"
	KindClass           NodeKind = "class"
)

// Node is one extracted documentation record. Concrete variants share the
// name/docstring capability and add their own fields. Nodes are built by
// form handlers during interception and are immutable afterwards.
type Node interface {
	Ref() SymbolRef
	Doc() string
	Kind() NodeKind
}

// Operator is the capability shared by nodes that carry a parameter list:
// functions, macros, generic functions, methods, and types.
type Operator interface {
	Node
	Params() []string
}

// Record is the capability shared by nodes that carry slots: structs and
// classes.
type Record interface {
	Node
	RecordSlots() []SlotNode
}

// base carries the fields every node shares.
type base struct {
	Name      SymbolRef
	Docstring string
}

func (b base) Ref() SymbolRef { return b.Name }
func (b base) Doc() string    { return b.Docstring }

// operator extends base with an ordered parameter list. Each parameter is an
// opaque token preserving its literal lambda-list form (required, optional,
// rest, and keyword entries alike); classification is the renderer's job.
type operator struct {
	base
	Parameters []string
}

func (o operator) Params() []string { return o.Parameters }

// record extends base with slot descriptions.
type record struct {
	base
	Slots []SlotNode
}

func (r record) RecordSlots() []SlotNode { return r.Slots }

// FunctionNode documents a function definition.
type FunctionNode struct{ operator }

func (FunctionNode) Kind() NodeKind { return KindFunction }

// MacroNode documents a macro definition.
type MacroNode struct{ operator }

func (MacroNode) Kind() NodeKind { return KindMacro }

// GenericFunctionNode documents a generic-function definition.
type GenericFunctionNode struct{ operator }

func (GenericFunctionNode) Kind() NodeKind { return KindGenericFunction }

// MethodNode documents a method definition.
type MethodNode struct{ operator }

func (MethodNode) Kind() NodeKind { return KindMethod }

// TypeNode documents a type definition.
type TypeNode struct{ operator }

func (TypeNode) Kind() NodeKind { return KindType }

// VariableNode documents a variable definition.
type VariableNode struct{ base }

func (VariableNode) Kind() NodeKind { return KindVariable }

// SlotNode documents one slot of a record definition.
type SlotNode struct {
	base
	Accessors []SymbolRef
	Readers   []SymbolRef
	Writers   []SymbolRef
}

// Kind for a slot is reported through its owning record; slots still satisfy
// Node so renderers can treat them uniformly.
func (SlotNode) Kind() NodeKind { return "slot" }

// StructNode documents a structure definition.
type StructNode struct{ record }

func (StructNode) Kind() NodeKind { return KindStruct }

// ClassNode documents a class definition.
type ClassNode struct{ record }

func (ClassNode) Kind() NodeKind { return KindClass }

// NewOperatorNode builds the operator variant selected by kind. It panics on
// kinds that are not operator kinds; handlers only pass the enumerated set.
func NewOperatorNode(kind NodeKind, name SymbolRef, docstring string, params []string) Node {
	op := operator{
		base:       base{Name: name, Docstring: docstring},
		Parameters: params,
	}
	switch kind {
	case KindFunction:
		return FunctionNode{op}
	case KindMacro:
		return MacroNode{op}
	case KindGenericFunction:
		return GenericFunctionNode{op}
	case KindMethod:
		return MethodNode{op}
	case KindType:
		return TypeNode{op}
	default:
		panic("types: not an operator kind: " + string(kind))
	}
}

// NewVariableNode builds a variable node.
func NewVariableNode(name SymbolRef, docstring string) VariableNode {
	return VariableNode{base{Name: name, Docstring: docstring}}
}

// NewSlotNode builds a slot node.
func NewSlotNode(name SymbolRef, docstring string, accessors, readers, writers []SymbolRef) SlotNode {
	return SlotNode{
		base:      base{Name: name, Docstring: docstring},
		Accessors: accessors,
		Readers:   readers,
		Writers:   writers,
	}
}

// NewStructNode builds a struct node.
func NewStructNode(name SymbolRef, docstring string, slots []SlotNode) StructNode {
	return StructNode{record{base{Name: name, Docstring: docstring}, slots}}
}

// NewClassNode builds a class node.
func NewClassNode(name SymbolRef, docstring string, slots []SlotNode) ClassNode {
	return ClassNode{record{base{Name: name, Docstring: docstring}, slots}}
}

// ValidateNode checks the invariants every extracted node must satisfy.
func ValidateNode(n Node) error {
	if err := n.Ref().Validate(); err != nil {
		return err
	}
	if rec, ok := n.(Record); ok {
		for _, slot := range rec.RecordSlots() {
			if err := slot.Ref().Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}
