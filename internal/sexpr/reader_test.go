package sexpr

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, src string) []Value {
	t.Helper()
	r := NewReader(strings.NewReader(src), "test.ql")
	var forms []Value
	for {
		form, err := r.ReadForm()
		if err == io.EOF {
			return forms
		}
		require.NoError(t, err)
		forms = append(forms, form)
	}
}

func TestReadForm_Atoms(t *testing.T) {
	forms := readAll(t, `greet :export "hello" 42 -3.5`)
	require.Len(t, forms, 5)

	assert.Equal(t, Symbol("greet"), forms[0])
	assert.Equal(t, Keyword(":export"), forms[1])
	assert.Equal(t, String("hello"), forms[2])
	assert.Equal(t, Number("42"), forms[3])
	assert.Equal(t, Number("-3.5"), forms[4])
}

func TestReadForm_List(t *testing.T) {
	forms := readAll(t, `(defun greet (name) "Greets a person." (print name))`)
	require.Len(t, forms, 1)

	form := forms[0]
	require.True(t, form.IsList())
	require.Len(t, form.Cells, 5)
	assert.Equal(t, "defun", form.Head())
	assert.Equal(t, Symbol("greet"), form.Cells[1])
	assert.Equal(t, List(Symbol("name")), form.Cells[2])
	assert.Equal(t, String("Greets a person."), form.Cells[3])
	assert.Equal(t, "(print name)", form.Cells[4].String())
}

func TestReadForm_QuoteSugar(t *testing.T) {
	forms := readAll(t, `(export 'greet)`)
	require.Len(t, forms, 1)
	assert.Equal(t, "(export (quote greet))", forms[0].String())
}

func TestReadForm_Comments(t *testing.T) {
	src := `
; leading comment
(defvar *level* 3) ; trailing comment
; another
(defvar *name*)
`
	forms := readAll(t, src)
	require.Len(t, forms, 2)
	assert.Equal(t, "defvar", forms[0].Head())
	assert.Equal(t, "defvar", forms[1].Head())
}

func TestReadForm_StringEscapes(t *testing.T) {
	forms := readAll(t, `"line one\nline \"two\""`)
	require.Len(t, forms, 1)
	assert.Equal(t, "line one\nline \"two\"", forms[0].Str)
}

func TestReadForm_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unterminated list", `(defun greet (name)`},
		{"unbalanced close", `)`},
		{"unterminated string", `"half`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(strings.NewReader(tt.src), "bad.ql")
			_, err := r.ReadForm()
			require.Error(t, err)
			assert.NotEqual(t, io.EOF, err)
		})
	}
}

func TestReadForm_EOFAtBoundary(t *testing.T) {
	r := NewReader(strings.NewReader("(a) ; done\n"), "test.ql")
	_, err := r.ReadForm()
	require.NoError(t, err)
	_, err = r.ReadForm()
	assert.Equal(t, io.EOF, err)
}

func TestValue_StringPreservesLiteralForm(t *testing.T) {
	src := `(defun (setf point-x) (value point &optional (scale 1)) (set-x point value))`
	forms := readAll(t, src)
	require.Len(t, forms, 1)
	assert.Equal(t, src, forms[0].String())
}

func TestValue_HeadAndArgs(t *testing.T) {
	assert.Equal(t, "", Symbol("x").Head())
	assert.Equal(t, "", Nil().Head())
	assert.Equal(t, "", List(String("s"), Symbol("x")).Head())
	assert.Nil(t, Nil().Args())

	form := List(Symbol("defun"), Symbol("f"), Nil())
	assert.Equal(t, "defun", form.Head())
	assert.Len(t, form.Args(), 2)
}
