package loader

import (
	"github.com/quill-lang/quilldoc/internal/sexpr"
)

// evalForm applies the load-time effect of one expanded top-level form:
// package management changes the symbol table's state, definition forms
// intern their names, and everything else is ignored. The inert substitute
// an interceptor returns is the empty list, which falls through untouched.
func (l *Loader) evalForm(form sexpr.Value) {
	switch form.Head() {
	case "defpackage":
		l.evalDefpackage(form.Args())
	case "in-package":
		if args := form.Args(); len(args) > 0 {
			if name := symbolOrString(args[0]); name != "" {
				l.table.SetCurrent(name)
			}
		}
	case "export":
		for _, arg := range form.Args() {
			if name := quotableSymbol(arg); name != "" {
				l.table.Current().Export(name)
			}
		}
	case "defun", "defmacro", "defgeneric", "defmethod", "deftype",
		"defvar", "defparameter", "defclass":
		if args := form.Args(); len(args) > 0 {
			l.internDefinitionName(args[0])
		}
	case "defstruct":
		if args := form.Args(); len(args) > 0 {
			nameVal := args[0]
			if nameVal.IsList() && len(nameVal.Cells) > 0 {
				nameVal = nameVal.Cells[0]
			}
			l.internDefinitionName(nameVal)
		}
	case "progn":
		for _, sub := range form.Args() {
			l.evalForm(sub)
		}
	default:
		// Expressions without a modeled load-time effect.
	}
}

func (l *Loader) evalDefpackage(args []sexpr.Value) {
	if len(args) < 1 || args[0].Type != sexpr.TSymbol {
		return
	}
	pkg := l.table.EnsurePackage(args[0].Str)
	for _, opt := range args[1:] {
		if !opt.IsList() || len(opt.Cells) == 0 {
			continue
		}
		if opt.Cells[0].Type == sexpr.TKeyword && opt.Cells[0].Str == ":export" {
			for _, item := range opt.Cells[1:] {
				if name := quotableSymbol(item); name != "" {
					pkg.Export(name)
				}
			}
		}
	}
}

// internDefinitionName interns a definition's name position, unwrapping the
// compound (setf NAME) form.
func (l *Loader) internDefinitionName(v sexpr.Value) {
	if v.Head() == "setf" && len(v.Cells) == 2 {
		v = v.Cells[1]
	}
	if v.Type == sexpr.TSymbol {
		l.table.Intern(v.Str)
	}
}

// symbolOrString accepts the ways package names appear: bare symbols,
// strings, or quoted symbols.
func symbolOrString(v sexpr.Value) string {
	if v.Type == sexpr.TSymbol || v.Type == sexpr.TString {
		return v.Str
	}
	return quotableSymbol(v)
}

// quotableSymbol returns the symbol name in v, accepting bare symbols,
// strings, and (quote sym).
func quotableSymbol(v sexpr.Value) string {
	switch {
	case v.Type == sexpr.TSymbol || v.Type == sexpr.TString:
		return v.Str
	case v.Head() == "quote" && len(v.Cells) == 2 && v.Cells[1].Type == sexpr.TSymbol:
		return v.Cells[1].Str
	}
	return ""
}
