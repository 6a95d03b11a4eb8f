package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsbridge/pkg/errors"
)

func newTestContext(t *testing.T) *Context {
	t.Helper()
	ctx, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctx.Close() })
	return ctx
}

func TestNewContext(t *testing.T) {
	ctx, err := New()
	require.NoError(t, err)
	require.NotNil(t, ctx)
	assert.NoError(t, ctx.Close())
	// Close is idempotent.
	assert.NoError(t, ctx.Close())
}

func TestRunStringScalars(t *testing.T) {
	ctx := newTestContext(t)

	cases := []struct {
		name string
		src  string
		want Value
	}{
		{"IntArithmetic", "5+5", IntValue(10)},
		{"MoreArithmetic", "10+5", IntValue(15)},
		{"StringMethod", "'abc'.toUpperCase()", NewString("ABC")},
		{"Boolean", "true", BooleanValue(true)},
		{"Null", "null", Null},
		{"Undefined", "undefined", Undefined},
		{"Fractional", "2.5", FloatValue(2.5)},
		{"NaN", "0/0", NumberValue(NaN())},
		{"Infinity", "1/0", NumberValue(Infinity())},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ctx.RunString(tc.src)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRunStringIsStackNeutral(t *testing.T) {
	ctx := newTestContext(t)

	require.Equal(t, 0, ctx.heap.Depth())
	_, err := ctx.RunString("5+5")
	require.NoError(t, err)
	assert.Equal(t, 0, ctx.heap.Depth())

	// The failure path unwinds just as completely.
	_, err = ctx.RunString("(((")
	require.Error(t, err)
	assert.Equal(t, 0, ctx.heap.Depth())

	// Object results are anchored, not left on the stack.
	val, err := ctx.RunString("({a:1})")
	require.NoError(t, err)
	assert.Equal(t, 0, ctx.heap.Depth())
	obj, err := val.ToObject()
	require.NoError(t, err)
	obj.Release()
}

func TestRunStringSyntaxError(t *testing.T) {
	ctx := newTestContext(t)

	_, err := ctx.RunString("5+")
	require.Error(t, err)
	assert.Equal(t, errors.Syntax, errors.CodeOf(err))
	assert.NotEmpty(t, err.Error())

	// The context stays usable after a failed evaluation.
	val, err := ctx.RunString("5+5")
	require.NoError(t, err)
	assert.Equal(t, IntValue(10), val)
}

func TestRunStringErrorCategories(t *testing.T) {
	ctx := newTestContext(t)

	cases := []struct {
		name string
		src  string
		want errors.Code
	}{
		{"Syntax", "(((", errors.Syntax},
		{"Type", "null.x", errors.Type},
		{"Range", "new Array(-1)", errors.Range},
		{"URI", "decodeURIComponent('%')", errors.URI},
		{"Eval", "throw new EvalError('nope')", errors.Eval},
		{"Generic", "throw new Error('plain')", errors.Generic},
		// The engine's reference-error code has no category of its own.
		{"ReferenceFoldsToGeneric", "noSuchBinding", errors.Generic},
		// Thrown primitives carry no error code at all.
		{"ThrownPrimitive", "throw 'just a string'", errors.Generic},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ctx.RunString(tc.src)
			require.Error(t, err)
			assert.Equal(t, tc.want, errors.CodeOf(err))
			assert.Equal(t, 0, ctx.heap.Depth())
		})
	}
}

func TestRunStringThrownPrimitiveDiagnostic(t *testing.T) {
	ctx := newTestContext(t)

	// A thrown primitive has no "stack" property; the diagnostic is the
	// thrown value itself, not the text "undefined".
	_, err := ctx.RunString("throw 'just a string'")
	require.Error(t, err)
	assert.Equal(t, errors.Generic, errors.CodeOf(err))
	assert.Equal(t, "just a string", err.Error())
	assert.Equal(t, 0, ctx.heap.Depth())

	_, err = ctx.RunString("throw 42")
	require.Error(t, err)
	assert.Equal(t, "42", err.Error())
	assert.Equal(t, 0, ctx.heap.Depth())
}

func TestRunStringObjectResult(t *testing.T) {
	ctx := newTestContext(t)

	val, err := ctx.RunString(`({ok:false})`)
	require.NoError(t, err)
	require.True(t, val.IsObject())

	obj, err := val.ToObject()
	require.NoError(t, err)
	defer obj.Release()

	got, ok := obj.Encode()
	require.True(t, ok)
	assert.Equal(t, `{"ok":false}`, got)
}

func TestDecodeJSON(t *testing.T) {
	ctx := newTestContext(t)

	val := ctx.DecodeJSON(`{"type":"Person","age":30}`)
	require.True(t, val.IsObject())
	obj, err := val.ToObject()
	require.NoError(t, err)
	defer obj.Release()

	name, err := obj.Get("type")
	require.NoError(t, err)
	assert.Equal(t, NewString("Person"), name)

	age, err := obj.Get("age")
	require.NoError(t, err)
	assert.Equal(t, IntValue(30), age)

	assert.Equal(t, 0, ctx.heap.Depth())
}

func TestDecodeJSONScalars(t *testing.T) {
	ctx := newTestContext(t)

	assert.Equal(t, IntValue(5), ctx.DecodeJSON("5"))
	assert.Equal(t, NewString("x"), ctx.DecodeJSON(`"x"`))
	assert.Equal(t, BooleanValue(true), ctx.DecodeJSON("true"))
	assert.Equal(t, Null, ctx.DecodeJSON("null"))
}

func TestDecodeJSONMalformedDegrades(t *testing.T) {
	ctx := newTestContext(t)

	val := ctx.DecodeJSON("{definitely not json")
	assert.True(t, val.IsUndefined())
	assert.Equal(t, 0, ctx.heap.Depth())
}

func TestClosedContextRejectsOperations(t *testing.T) {
	ctx, err := New()
	require.NoError(t, err)
	require.NoError(t, ctx.Close())

	_, err = ctx.RunString("1")
	require.Error(t, err)
	assert.Equal(t, errors.Generic, errors.CodeOf(err))

	assert.True(t, ctx.DecodeJSON("1").IsUndefined())
}

func TestCloseDeferredWhileHandlesOutstanding(t *testing.T) {
	ctx, err := New()
	require.NoError(t, err)

	val, err := ctx.RunString("({n:1})")
	require.NoError(t, err)
	obj, err := val.ToObject()
	require.NoError(t, err)

	require.NoError(t, ctx.Close())

	// The heap stays alive under the outstanding handle.
	assert.False(t, ctx.destroyed)
	got, err := obj.Get("n")
	require.NoError(t, err)
	assert.Equal(t, IntValue(1), got)

	// Releasing the last handle releases the heap.
	obj.Release()
	assert.True(t, ctx.destroyed)
	assert.True(t, ctx.heap.Destroyed())
}

func TestUnicodeSourceIsNormalized(t *testing.T) {
	ctx := newTestContext(t)

	// "é" written as 'e' + combining acute normalizes to the precomposed
	// form before evaluation.
	val, err := ctx.RunString("'é'")
	require.NoError(t, err)
	assert.Equal(t, NewString("é"), val)
}
