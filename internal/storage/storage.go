package storage

import (
	"context"
	"errors"
	"time"

	"github.com/quill-lang/quilldoc/pkg/types"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
)

// Storage persists extracted catalogues so they can be queried after the
// parse call that produced them. The extraction core itself never touches
// this layer; it is a downstream surface for the CLI and MCP server.
type Storage interface {
	// SaveCatalogue stores the node sequence for a module, replacing any
	// catalogue from an earlier extraction. Node order is preserved.
	SaveCatalogue(ctx context.Context, module string, nodes []types.Node) error

	// GetModule returns the stored module entry, or ErrNotFound.
	GetModule(ctx context.Context, name string) (*Module, error)

	// ListModules returns all stored modules, most recently extracted first.
	ListModules(ctx context.Context) ([]*Module, error)

	// ListNodes returns a module's nodes in stored order. kind narrows the
	// result when non-empty.
	ListNodes(ctx context.Context, module string, kind string) ([]*NodeRecord, error)

	// SearchNodes returns nodes whose bare name matches the query
	// case-insensitively, across all modules.
	SearchNodes(ctx context.Context, query string, limit int) ([]*NodeRecord, error)

	Close() error
}

// Module represents one extracted catalogue.
type Module struct {
	ID          int64
	Name        string
	NodeCount   int
	ExtractedAt time.Time
}

// NodeRecord is the stored shape of one documentation node.
type NodeRecord struct {
	ID        int64
	ModuleID  int64
	Seq       int // position within the catalogue's stored order
	Kind      string
	Namespace string
	Name      string
	Exported  bool
	IsSetf    bool
	Docstring string

	Parameters []string      // operator nodes only
	Slots      []*SlotRecord // record nodes only
}

// SlotRecord is the stored shape of one record slot.
type SlotRecord struct {
	ID        int64
	NodeID    int64
	Namespace string
	Name      string
	Docstring string
	Accessors []string // rendered "namespace:name" references
	Readers   []string
	Writers   []string
}

// FromNode converts a documentation node to its stored shape.
func FromNode(n types.Node, seq int) *NodeRecord {
	ref := n.Ref()
	rec := &NodeRecord{
		Seq:       seq,
		Kind:      string(n.Kind()),
		Namespace: ref.Namespace,
		Name:      ref.Name,
		Exported:  ref.Exported,
		IsSetf:    ref.IsSetf,
		Docstring: n.Doc(),
	}
	if op, ok := n.(types.Operator); ok {
		rec.Parameters = op.Params()
	}
	if r, ok := n.(types.Record); ok {
		for _, slot := range r.RecordSlots() {
			rec.Slots = append(rec.Slots, fromSlot(slot))
		}
	}
	return rec
}

func fromSlot(slot types.SlotNode) *SlotRecord {
	return &SlotRecord{
		Namespace: slot.Ref().Namespace,
		Name:      slot.Ref().Name,
		Docstring: slot.Doc(),
		Accessors: renderRefs(slot.Accessors),
		Readers:   renderRefs(slot.Readers),
		Writers:   renderRefs(slot.Writers),
	}
}

func renderRefs(refs []types.SymbolRef) []string {
	if len(refs) == 0 {
		return nil
	}
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, types.RenderQualified(r))
	}
	return out
}
