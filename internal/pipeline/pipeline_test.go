package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-lang/quilldoc/internal/sexpr"
)

func TestExpand_DefaultHookIsIdentity(t *testing.T) {
	p := New()
	form := sexpr.List(sexpr.Symbol("print"), sexpr.String("hi"))

	out, err := p.Expand(form)
	require.NoError(t, err)
	assert.Equal(t, form, out)
}

func TestSwapHook_ReturnsDisplacedHook(t *testing.T) {
	p := New()
	marker := sexpr.Symbol("marked")
	replacement := func(form sexpr.Value) (sexpr.Value, error) {
		return marker, nil
	}

	prior := p.SwapHook(replacement)
	require.NotNil(t, prior)

	out, err := p.Expand(sexpr.Symbol("anything"))
	require.NoError(t, err)
	assert.Equal(t, marker, out)

	// Restoring the displaced hook brings back default behavior.
	p.SwapHook(prior)
	form := sexpr.List(sexpr.Symbol("print"))
	out, err = p.Expand(form)
	require.NoError(t, err)
	assert.Equal(t, form, out)
}

func TestExpand_HookErrorPropagates(t *testing.T) {
	p := New()
	boom := errors.New("boom")
	p.SwapHook(func(form sexpr.Value) (sexpr.Value, error) {
		return sexpr.Nil(), boom
	})

	_, err := p.Expand(sexpr.Symbol("x"))
	assert.Equal(t, boom, err)
}
