package sexpr

import (
	"strings"
)

// Type identifies the concrete kind of a Value.
type Type int

const (
	TList Type = iota
	TSymbol
	TKeyword
	TString
	TNumber
)

// Value is a single s-expression: an atom or a list of values.
// Symbols, keywords, and numbers keep their literal source text in Str so a
// printed Value reproduces the original form.
type Value struct {
	Type  Type
	Str   string  // symbol/keyword text, string content, or number literal
	Cells []Value // list elements
}

// Symbol builds a symbol value.
func Symbol(name string) Value {
	return Value{Type: TSymbol, Str: name}
}

// Keyword builds a keyword value. The leading colon is part of Str.
func Keyword(name string) Value {
	return Value{Type: TKeyword, Str: name}
}

// String builds a string value.
func String(s string) Value {
	return Value{Type: TString, Str: s}
}

// Number builds a number value from its literal text.
func Number(lit string) Value {
	return Value{Type: TNumber, Str: lit}
}

// List builds a list value.
func List(cells ...Value) Value {
	return Value{Type: TList, Cells: cells}
}

// Nil is the empty list, used as the inert substitute for diverted forms.
func Nil() Value {
	return Value{Type: TList}
}

// IsList reports whether the value is a (possibly empty) list.
func (v Value) IsList() bool {
	return v.Type == TList
}

// IsSymbol reports whether the value is a symbol with the given name.
func (v Value) IsSymbol(name string) bool {
	return v.Type == TSymbol && v.Str == name
}

// Head returns the leading symbol name of a list form, or "" if the value is
// not a list or its first element is not a symbol.
func (v Value) Head() string {
	if v.Type != TList || len(v.Cells) == 0 {
		return ""
	}
	if v.Cells[0].Type != TSymbol {
		return ""
	}
	return v.Cells[0].Str
}

// Args returns the elements of a list form after the head, or nil for atoms
// and empty lists.
func (v Value) Args() []Value {
	if v.Type != TList || len(v.Cells) == 0 {
		return nil
	}
	return v.Cells[1:]
}

// String renders the value in its literal source form.
func (v Value) String() string {
	var b strings.Builder
	v.write(&b)
	return b.String()
}

func (v Value) write(b *strings.Builder) {
	switch v.Type {
	case TList:
		b.WriteByte('(')
		for i, c := range v.Cells {
			if i > 0 {
				b.WriteByte(' ')
			}
			c.write(b)
		}
		b.WriteByte(')')
	case TString:
		b.WriteByte('"')
		for _, r := range v.Str {
			switch r {
			case '"':
				b.WriteString(`\"`)
			case '\\':
				b.WriteString(`\\`)
			case '\n':
				b.WriteString(`\n`)
			default:
				b.WriteRune(r)
			}
		}
		b.WriteByte('"')
	default:
		b.WriteString(v.Str)
	}
}
