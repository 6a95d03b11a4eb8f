// Package bridge is a safe, leak-free host interface to an embedded
// stack-based scripting engine. Every operation that touches the engine's
// shared value stack runs inside a call block that tracks what it pushed and
// unwinds it on every exit path, so callers never balance pushes and pops by
// hand. Object-typed results are handed out as durable handles anchored in a
// persistent registry, letting them outlive the stack frame that produced
// them.
//
// A Context and all handles derived from it belong to one logical thread of
// control; nothing here synchronizes, and a running evaluation cannot be
// interrupted.
package bridge

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"jsbridge/pkg/engine"
	"jsbridge/pkg/errors"
)

const debugBridge = false

func debugPrintf(format string, args ...interface{}) {
	if debugBridge {
		fmt.Printf(format, args...)
	}
}

// engineCodes is the validated mapping from engine error codes to the closed
// host taxonomy. The engine's reference-error code has no category of its
// own and folds into Generic, as does anything unrecognized.
var engineCodes = map[engine.ErrCode]errors.Code{
	engine.ErrNone:      errors.None,
	engine.ErrError:     errors.Generic,
	engine.ErrEval:      errors.Eval,
	engine.ErrRange:     errors.Range,
	engine.ErrReference: errors.Generic,
	engine.ErrSyntax:    errors.Syntax,
	engine.ErrType:      errors.Type,
	engine.ErrURI:       errors.URI,
}

func codeFromEngine(c engine.ErrCode) errors.Code {
	if code, ok := engineCodes[c]; ok {
		return code
	}
	return errors.Generic
}

// Context owns one engine heap, exclusively and 1:1. It is created with New
// and released with Close; object handles read out of it stay valid until
// they are released, even past Close (the heap is only freed once the last
// handle is gone).
type Context struct {
	heap    *engine.Heap
	anchors map[engine.Ref]*anchor

	closed    bool // no new operations accepted
	destroyed bool // heap released
}

// New creates a context backed by a fresh engine heap. Fails with a
// Construction error when the engine cannot provide one.
func New() (*Context, error) {
	h, err := engine.NewHeap()
	if err != nil {
		return nil, &errors.Error{
			Code:  errors.Construction,
			Msg:   "could not create engine heap",
			Cause: err,
		}
	}
	return &Context{
		heap:    h,
		anchors: make(map[engine.Ref]*anchor),
	}, nil
}

// RunString compiles and runs source against this context's heap and returns
// the resulting value. On failure the engine's exception object supplies the
// error category and its "stack" property the diagnostic text. Either way
// the value stack is exactly as deep afterward as before the call.
func (c *Context) RunString(source string) (Value, error) {
	if c.closed {
		return Undefined, errors.New(errors.Generic, "context is closed")
	}
	source = norm.NFC.String(source)

	bl := c.block()
	defer bl.close()

	if bl.evalString(source) == 0 {
		return bl.get(), nil
	}

	code := codeFromEngine(bl.errorCode())
	if code == errors.None {
		code = errors.Generic
	}
	// Thrown primitives carry no "stack" property; the diagnostic is then
	// the thrown value's own rendering.
	present, _ := bl.getProp(-1, "stack")
	if !present {
		bl.pop()
	}
	diag := bl.get().String()
	debugPrintf("eval failed: %s: %s\n", code.Kind(), diag)
	return Undefined, errors.New(code, diag)
}

// DecodeJSON parses text as JSON and returns the decoded value. Malformed
// input degrades to Undefined, matching the engine's tolerant JSON
// semantics; decoding never fails.
func (c *Context) DecodeJSON(text string) Value {
	if c.closed {
		return Undefined
	}
	bl := c.block()
	defer bl.close()

	bl.pushString(text)
	bl.decodeJSON()
	return bl.get()
}

// Close releases the context. No further operations are accepted, but the
// underlying heap is destroyed only once every outstanding object handle has
// been released, so live handles never dangle over a freed heap. Idempotent.
func (c *Context) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.maybeDestroy()
	return nil
}

// Closed reports whether Close has been called.
func (c *Context) Closed() bool { return c.closed }

func (c *Context) maybeDestroy() {
	if c.closed && !c.destroyed && len(c.anchors) == 0 {
		debugPrintf("destroying heap\n")
		c.heap.Destroy()
		c.destroyed = true
	}
}
