package loader

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-lang/quilldoc/internal/pipeline"
	"github.com/quill-lang/quilldoc/internal/sexpr"
	"github.com/quill-lang/quilldoc/internal/symtab"
)

func writeFixture(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestLoader(dir string) (*Loader, *symtab.Table, *pipeline.Pipeline) {
	table := symtab.NewTable()
	pipe := pipeline.New()
	logger := log.New(os.Stderr, "", 0)
	return New(table, pipe, []string{dir}, logger), table, pipe
}

func parseSexpr(t *testing.T, src string) sexpr.Value {
	t.Helper()
	r := sexpr.NewReader(strings.NewReader(src), "test")
	form, err := r.ReadForm()
	require.NoError(t, err)
	return form
}

func TestLoad_FlatManifestLayout(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, filepath.Join(dir, "greeting.qm"),
		`(defmodule greeting :files ("greeting.ql"))`)
	writeFixture(t, filepath.Join(dir, "greeting.ql"),
		`(defun greet (name) "Greets a person." name)`)

	l, table, _ := newTestLoader(dir)

	require.NoError(t, l.Load(context.Background(), "greeting", Options{SuppressDiagnostics: true}))
	assert.True(t, l.Loaded("greeting"))

	// The definition's name was interned into the current package.
	res, err := table.Resolve("greet")
	require.NoError(t, err)
	assert.Equal(t, symtab.DefaultPackage, res.Namespace)
}

func TestLoad_NestedManifestLayout(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, filepath.Join(dir, "geometry", "geometry.qm"),
		`(defmodule geometry :files ("shapes.ql"))`)
	writeFixture(t, filepath.Join(dir, "geometry", "shapes.ql"),
		`(defvar *pi* 3.14159)`)

	l, _, _ := newTestLoader(dir)

	require.NoError(t, l.Load(context.Background(), "geometry", Options{SuppressDiagnostics: true}))
	assert.True(t, l.Loaded("geometry"))
}

func TestLoad_DependenciesLoadDepthFirst(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, filepath.Join(dir, "base.qm"), `(defmodule base :files ("base.ql"))`)
	writeFixture(t, filepath.Join(dir, "base.ql"), `(defun base-fn (x) x)`)
	writeFixture(t, filepath.Join(dir, "app.qm"),
		`(defmodule app :depends-on (base) :files ("app.ql"))`)
	writeFixture(t, filepath.Join(dir, "app.ql"), `(defun app-fn (x) (base-fn x))`)

	l, _, pipe := newTestLoader(dir)

	var order []string
	pipe.SwapHook(func(form sexpr.Value) (sexpr.Value, error) {
		if form.Head() == "defun" && len(form.Args()) > 0 {
			order = append(order, form.Args()[0].Str)
		}
		return form, nil
	})

	require.NoError(t, l.Load(context.Background(), "app", Options{SuppressDiagnostics: true}))
	assert.Equal(t, []string{"base-fn", "app-fn"}, order)
	assert.True(t, l.Loaded("base"))
	assert.True(t, l.Loaded("app"))
}

func TestLoad_MissingModule(t *testing.T) {
	l, _, _ := newTestLoader(t.TempDir())

	err := l.Load(context.Background(), "nonexistent", Options{SuppressDiagnostics: true})
	require.Error(t, err)
	var lErr *LoadError
	require.ErrorAs(t, err, &lErr)
	assert.Equal(t, "nonexistent", lErr.Module)
}

func TestLoad_DependencyCycle(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, filepath.Join(dir, "a.qm"), `(defmodule a :depends-on (b) :files ())`)
	writeFixture(t, filepath.Join(dir, "b.qm"), `(defmodule b :depends-on (a) :files ())`)

	l, _, _ := newTestLoader(dir)

	err := l.Load(context.Background(), "a", Options{SuppressDiagnostics: true})
	require.Error(t, err)
	var lErr *LoadError
	require.ErrorAs(t, err, &lErr)
	assert.Equal(t, "a", lErr.Module)
	assert.Contains(t, lErr.Error(), "cycle")
}

func TestLoad_SkipsAlreadyLoadedUnlessForced(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, filepath.Join(dir, "mod.qm"), `(defmodule mod :files ("mod.ql"))`)
	writeFixture(t, filepath.Join(dir, "mod.ql"), `(defun f (x) x)`)

	l, _, pipe := newTestLoader(dir)

	passes := 0
	pipe.SwapHook(func(form sexpr.Value) (sexpr.Value, error) {
		passes++
		return form, nil
	})

	opts := Options{SuppressDiagnostics: true}
	require.NoError(t, l.Load(context.Background(), "mod", opts))
	require.NoError(t, l.Load(context.Background(), "mod", opts))
	assert.Equal(t, 1, passes, "second load is a no-op")

	opts.ForceReload = true
	require.NoError(t, l.Load(context.Background(), "mod", opts))
	assert.Equal(t, 2, passes, "forced reload runs the pass again")
}

func TestLoad_HookErrorsPassThroughUnwrapped(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, filepath.Join(dir, "mod.qm"), `(defmodule mod :files ("mod.ql"))`)
	writeFixture(t, filepath.Join(dir, "mod.ql"), `(defun f (x) x)`)

	l, _, pipe := newTestLoader(dir)

	hookErr := errors.New("handler rejected the form")
	pipe.SwapHook(func(form sexpr.Value) (sexpr.Value, error) {
		return sexpr.Nil(), hookErr
	})

	err := l.Load(context.Background(), "mod", Options{SuppressDiagnostics: true})
	require.Error(t, err)
	assert.Equal(t, hookErr, err, "hook errors must not be wrapped in LoadError")
}

func TestLoad_UnreadableSourceFileIsALoadError(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, filepath.Join(dir, "mod.qm"), `(defmodule mod :files ("missing.ql"))`)

	l, _, _ := newTestLoader(dir)

	err := l.Load(context.Background(), "mod", Options{SuppressDiagnostics: true})
	require.Error(t, err)
	var lErr *LoadError
	assert.ErrorAs(t, err, &lErr)
}

func TestLoad_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, filepath.Join(dir, "mod.qm"), `(defmodule mod :files ("mod.ql"))`)
	writeFixture(t, filepath.Join(dir, "mod.ql"), `(defun f (x) x)`)

	l, _, _ := newTestLoader(dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.Load(ctx, "mod", Options{SuppressDiagnostics: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoad_PackageFormsShapeResolution(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, filepath.Join(dir, "pkgmod.qm"), `(defmodule pkgmod :files ("pkg.ql"))`)
	writeFixture(t, filepath.Join(dir, "pkg.ql"), `
(defpackage geometry (:export area))
(in-package geometry)
(defun area (shape) shape)
(defun perimeter (shape) shape)
(export 'perimeter)
`)

	l, table, _ := newTestLoader(dir)

	require.NoError(t, l.Load(context.Background(), "pkgmod", Options{SuppressDiagnostics: true}))

	assert.Equal(t, "geometry", table.Current().Name)

	res, err := table.Resolve("geometry:area")
	require.NoError(t, err)
	assert.True(t, res.Exported, "defpackage :export marks the name exported")

	res, err = table.Resolve("geometry:perimeter")
	require.NoError(t, err)
	assert.True(t, res.Exported, "a top-level export form marks the name exported")
}

func TestEvalForm_PrognRecursesAndSetfInterns(t *testing.T) {
	l, table, _ := newTestLoader(t.TempDir())

	l.evalForm(parseSexpr(t, `(progn
  (defun f (x) x)
  (defun (setf point-x) (value point) value))`))

	res, err := table.Resolve("f")
	require.NoError(t, err)
	assert.Equal(t, symtab.DefaultPackage, res.Namespace)

	res, err = table.Resolve("point-x")
	require.NoError(t, err)
	assert.Equal(t, symtab.DefaultPackage, res.Namespace)
}

func TestParseManifest(t *testing.T) {
	t.Run("full manifest", func(t *testing.T) {
		form := parseSexpr(t, `(defmodule app
  :depends-on (base "extra")
  :files ("a.ql" "b.ql")
  :author "someone")`)
		m, err := parseManifest(form)
		require.NoError(t, err)
		assert.Equal(t, "app", m.Name)
		assert.Equal(t, []string{"base", "extra"}, m.DependsOn)
		assert.Equal(t, []string{"a.ql", "b.ql"}, m.Files)
	})

	t.Run("wrong head", func(t *testing.T) {
		_, err := parseManifest(parseSexpr(t, `(defsystem app)`))
		assert.Error(t, err)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := parseManifest(parseSexpr(t, `(defmodule)`))
		assert.Error(t, err)
	})

	t.Run("bad files entry", func(t *testing.T) {
		_, err := parseManifest(parseSexpr(t, `(defmodule app :files (a.ql))`))
		assert.Error(t, err)
	})
}
