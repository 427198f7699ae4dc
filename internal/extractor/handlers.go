package extractor

import (
	"github.com/quill-lang/quilldoc/internal/sexpr"
	"github.com/quill-lang/quilldoc/pkg/types"
)

// nameRef resolves a definition's name position: either a bare symbol or the
// compound (setf NAME) form, which resolves the inner symbol with the setf
// flag raised.
func nameRef(res types.Resolver, form FormKind, v sexpr.Value) (types.SymbolRef, error) {
	if v.Type == sexpr.TSymbol {
		return types.RefFromIdentifier(res, v.Str, false)
	}
	if v.Head() == "setf" && len(v.Cells) == 2 && v.Cells[1].Type == sexpr.TSymbol {
		return types.RefFromIdentifier(res, v.Cells[1].Str, true)
	}
	return types.SymbolRef{}, handlerErrf(form, "bad name position: %s", v)
}

// paramTokens renders a lambda list into opaque tokens, preserving each
// entry's literal form.
func paramTokens(form FormKind, v sexpr.Value) ([]string, error) {
	if !v.IsList() {
		return nil, handlerErrf(form, "bad lambda list: %s", v)
	}
	params := make([]string, 0, len(v.Cells))
	for _, cell := range v.Cells {
		params = append(params, cell.String())
	}
	return params, nil
}

// leadingDocstring applies the docstring rule shared by the operator forms:
// the docstring is the first body expression when it is a literal string;
// anything after it is body, never concatenated.
func leadingDocstring(body []sexpr.Value) string {
	if len(body) > 0 && body[0].Type == sexpr.TString {
		return body[0].Str
	}
	return ""
}

// operatorHandler extracts (NAME LAMBDA-LIST . BODY) definition forms, the
// shape shared by defun, defmacro, defmethod, and deftype.
func operatorHandler(res types.Resolver, form FormKind, kind types.NodeKind) Handler {
	return func(args []sexpr.Value) (types.Node, error) {
		if len(args) < 2 {
			return nil, handlerErrf(form, "want name and lambda list, have %d args", len(args))
		}
		ref, err := nameRef(res, form, args[0])
		if err != nil {
			return nil, err
		}
		params, err := paramTokens(form, args[1])
		if err != nil {
			return nil, err
		}
		return types.NewOperatorNode(kind, ref, leadingDocstring(args[2:]), params), nil
	}
}

// variableHandler extracts (NAME [VALUE [DOCSTRING]]) definition forms. The
// docstring is only recognized when a value precedes it.
func variableHandler(res types.Resolver, form FormKind) Handler {
	return func(args []sexpr.Value) (types.Node, error) {
		if len(args) < 1 || args[0].Type != sexpr.TSymbol {
			return nil, handlerErrf(form, "missing variable name")
		}
		ref, err := types.RefFromIdentifier(res, args[0].Str, false)
		if err != nil {
			return nil, err
		}
		doc := ""
		if len(args) >= 3 && args[2].Type == sexpr.TString {
			doc = args[2].Str
		}
		return types.NewVariableNode(ref, doc), nil
	}
}

// structHandler extracts (NAME-AND-OPTIONS [DOCSTRING] SLOT...) forms. The
// name position is a bare symbol or (NAME OPTION...); slots are bare symbols
// or (SLOT-NAME INITFORM OPTION...).
func structHandler(res types.Resolver) Handler {
	return func(args []sexpr.Value) (types.Node, error) {
		if len(args) < 1 {
			return nil, handlerErrf(FormDefstruct, "missing struct name")
		}
		nameVal := args[0]
		if nameVal.IsList() {
			if len(nameVal.Cells) == 0 || nameVal.Cells[0].Type != sexpr.TSymbol {
				return nil, handlerErrf(FormDefstruct, "bad name position: %s", nameVal)
			}
			nameVal = nameVal.Cells[0]
		}
		if nameVal.Type != sexpr.TSymbol {
			return nil, handlerErrf(FormDefstruct, "bad name position: %s", args[0])
		}
		ref, err := types.RefFromIdentifier(res, nameVal.Str, false)
		if err != nil {
			return nil, err
		}

		rest := args[1:]
		doc := ""
		if len(rest) > 0 && rest[0].Type == sexpr.TString {
			doc = rest[0].Str
			rest = rest[1:]
		}

		slots := make([]types.SlotNode, 0, len(rest))
		for _, slotVal := range rest {
			slotName := slotVal
			if slotVal.IsList() {
				if len(slotVal.Cells) == 0 {
					return nil, handlerErrf(FormDefstruct, "empty slot description")
				}
				slotName = slotVal.Cells[0]
			}
			if slotName.Type != sexpr.TSymbol {
				return nil, handlerErrf(FormDefstruct, "bad slot description: %s", slotVal)
			}
			slotRef, err := types.RefFromIdentifier(res, slotName.Str, false)
			if err != nil {
				return nil, err
			}
			slots = append(slots, types.NewSlotNode(slotRef, "", nil, nil, nil))
		}
		return types.NewStructNode(ref, doc, slots), nil
	}
}

// classHandler extracts (NAME (SUPER...) (SLOT...) OPTION...) forms. Slot
// options :accessor, :reader, and :writer accumulate references;
// :documentation supplies the slot docstring. A class-level (:documentation
// "...") option supplies the class docstring.
func classHandler(res types.Resolver) Handler {
	return func(args []sexpr.Value) (types.Node, error) {
		if len(args) < 1 || args[0].Type != sexpr.TSymbol {
			return nil, handlerErrf(FormDefclass, "missing class name")
		}
		ref, err := types.RefFromIdentifier(res, args[0].Str, false)
		if err != nil {
			return nil, err
		}

		var slots []types.SlotNode
		if len(args) >= 3 {
			if !args[2].IsList() {
				return nil, handlerErrf(FormDefclass, "bad slot list: %s", args[2])
			}
			for _, slotVal := range args[2].Cells {
				slot, err := classSlot(res, slotVal)
				if err != nil {
					return nil, err
				}
				slots = append(slots, slot)
			}
		}

		doc := ""
		for _, opt := range args[3:] {
			if opt.IsList() && len(opt.Cells) >= 2 &&
				opt.Cells[0].Type == sexpr.TKeyword && opt.Cells[0].Str == ":documentation" &&
				opt.Cells[1].Type == sexpr.TString {
				doc = opt.Cells[1].Str
			}
		}
		return types.NewClassNode(ref, doc, slots), nil
	}
}

func classSlot(res types.Resolver, v sexpr.Value) (types.SlotNode, error) {
	nameVal := v
	var opts []sexpr.Value
	if v.IsList() {
		if len(v.Cells) == 0 {
			return types.SlotNode{}, handlerErrf(FormDefclass, "empty slot description")
		}
		nameVal = v.Cells[0]
		opts = v.Cells[1:]
	}
	if nameVal.Type != sexpr.TSymbol {
		return types.SlotNode{}, handlerErrf(FormDefclass, "bad slot description: %s", v)
	}
	ref, err := types.RefFromIdentifier(res, nameVal.Str, false)
	if err != nil {
		return types.SlotNode{}, err
	}

	var accessors, readers, writers []types.SymbolRef
	doc := ""
	for i := 0; i+1 < len(opts); i += 2 {
		if opts[i].Type != sexpr.TKeyword {
			continue
		}
		val := opts[i+1]
		switch opts[i].Str {
		case ":accessor", ":reader", ":writer":
			if val.Type != sexpr.TSymbol {
				return types.SlotNode{}, handlerErrf(FormDefclass, "bad %s option: %s", opts[i].Str, val)
			}
			optRef, err := types.RefFromIdentifier(res, val.Str, false)
			if err != nil {
				return types.SlotNode{}, err
			}
			switch opts[i].Str {
			case ":accessor":
				accessors = append(accessors, optRef)
			case ":reader":
				readers = append(readers, optRef)
			case ":writer":
				writers = append(writers, optRef)
			}
		case ":documentation":
			if val.Type == sexpr.TString {
				doc = val.Str
			}
		}
	}
	return types.NewSlotNode(ref, doc, accessors, readers, writers), nil
}
