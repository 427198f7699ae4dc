package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/quill-lang/quilldoc/internal/sexpr"
)

// Manifest is the parsed form of a module manifest:
//
//	(defmodule NAME
//	  :depends-on (DEP ...)
//	  :files ("a.ql" "b.ql" ...))
//
// File paths are relative to the manifest's directory.
type Manifest struct {
	Name      string
	DependsOn []string
	Files     []string
}

func (l *Loader) readManifest(module, path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Module: module, Err: err}
	}
	defer func() { _ = f.Close() }()

	r := sexpr.NewReader(f, filepath.Base(path))
	form, err := r.ReadForm()
	if err == io.EOF {
		return nil, &LoadError{Module: module, Err: fmt.Errorf("empty manifest %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Module: module, Err: err}
	}

	m, err := parseManifest(form)
	if err != nil {
		return nil, &LoadError{Module: module, Err: err}
	}
	return m, nil
}

func parseManifest(form sexpr.Value) (*Manifest, error) {
	if form.Head() != "defmodule" {
		return nil, fmt.Errorf("manifest must start with defmodule, have %s", form)
	}
	args := form.Args()
	if len(args) < 1 || args[0].Type != sexpr.TSymbol {
		return nil, fmt.Errorf("defmodule needs a module name")
	}
	m := &Manifest{Name: args[0].Str}

	for i := 1; i+1 < len(args); i += 2 {
		if args[i].Type != sexpr.TKeyword {
			return nil, fmt.Errorf("bad manifest option: %s", args[i])
		}
		val := args[i+1]
		switch args[i].Str {
		case ":depends-on":
			if !val.IsList() {
				return nil, fmt.Errorf(":depends-on needs a list, have %s", val)
			}
			for _, dep := range val.Cells {
				if dep.Type != sexpr.TSymbol && dep.Type != sexpr.TString {
					return nil, fmt.Errorf("bad dependency: %s", dep)
				}
				m.DependsOn = append(m.DependsOn, dep.Str)
			}
		case ":files":
			if !val.IsList() {
				return nil, fmt.Errorf(":files needs a list, have %s", val)
			}
			for _, file := range val.Cells {
				if file.Type != sexpr.TString {
					return nil, fmt.Errorf("bad file entry: %s", file)
				}
				m.Files = append(m.Files, file.Str)
			}
		default:
			// Unknown options are tolerated so manifests can carry
			// metadata (:author, :version) this loader ignores.
		}
	}
	return m, nil
}
