package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	e := New(Syntax, "unexpected token")
	assert.Equal(t, "unexpected token", e.Error())
	assert.Equal(t, "SyntaxError", e.Kind())
	assert.Equal(t, "unexpected token", e.Message())
}

func TestErrorWithoutMessage(t *testing.T) {
	assert.Equal(t, "an unknown error occurred", (&Error{Code: Generic}).Error())
	assert.Equal(t, "TypeError (code 6)", (&Error{Code: Type}).Error())
}

func TestErrorf(t *testing.T) {
	e := Errorf(Conversion, "cannot convert %q", "x")
	assert.Equal(t, `cannot convert "x"`, e.Error())
	assert.Equal(t, Conversion, e.Code)
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	e := &Error{Code: Construction, Msg: "could not create engine heap", Cause: cause}
	assert.True(t, stderrors.Is(e, cause))

	wrapped := fmt.Errorf("outer: %w", e)
	var got *Error
	assert.True(t, stderrors.As(wrapped, &got))
	assert.Equal(t, Construction, got.Code)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, None, CodeOf(nil))
	assert.Equal(t, NullRef, CodeOf(New(NullRef, "dangling")))
	assert.Equal(t, Generic, CodeOf(stderrors.New("plain")))
}

func TestKindNames(t *testing.T) {
	assert.Equal(t, "None", None.Kind())
	assert.Equal(t, "Error", Generic.Kind())
	assert.Equal(t, "EvalError", Eval.Kind())
	assert.Equal(t, "RangeError", Range.Kind())
	assert.Equal(t, "URIError", URI.Kind())
	assert.Equal(t, "NullReference", NullRef.Kind())
	assert.Equal(t, "Code(99)", Code(99).Kind())
}
