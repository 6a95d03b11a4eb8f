// Package engine exposes an embedded JavaScript engine through a small,
// duktape-style stack API: one Heap owns a runtime, a transient value stack
// and a persistent object registry, and every entry point operates on
// stack-indexed slots. Callers are expected to keep the stack balanced;
// the bridge layer on top of this package does that bookkeeping.
//
// A Heap and everything derived from it is a single-threaded resource.
// There is no internal synchronization and no way to interrupt a running
// evaluation.
package engine

import (
	"errors"
	"fmt"

	"github.com/dop251/goja"
)

// Type is the engine's runtime type code for a stack slot.
type Type int

const (
	TypeNone Type = iota
	TypeUndefined
	TypeNull
	TypeBoolean
	TypeNumber
	TypeString
	TypeObject
)

// ErrCode is the engine's error code for an exception object, mirroring the
// script language's own exception hierarchy.
type ErrCode int

const (
	ErrNone ErrCode = iota
	ErrError
	ErrEval
	ErrRange
	ErrReference
	ErrSyntax
	ErrType
	ErrURI
)

// errorNames maps an exception object's "name" property to its code.
var errorNames = map[string]ErrCode{
	"Error":          ErrError,
	"EvalError":      ErrEval,
	"RangeError":     ErrRange,
	"ReferenceError": ErrReference,
	"SyntaxError":    ErrSyntax,
	"TypeError":      ErrType,
	"URIError":       ErrURI,
}

// Heap is one isolated engine instance: a global object, a transient value
// stack and a garbage-collected object graph. It is valid from NewHeap until
// Destroy and must not be used afterward.
type Heap struct {
	rt    *goja.Runtime
	stack []goja.Value

	// Persistent registry ("heap stash"): objects anchored here stay
	// reachable for the collector independent of the value stack.
	stash map[Ref]*goja.Object
	ids   map[*goja.Object]Ref
	next  Ref

	jsonThis  goja.Value
	stringify goja.Callable
	parse     goja.Callable

	destroyed bool
}

// NewHeap creates a fresh engine heap. It fails if the runtime cannot be
// initialized with the entry points the bridge depends on.
func NewHeap() (*Heap, error) {
	rt := goja.New()
	jsonVal := rt.Get("JSON")
	if jsonVal == nil {
		return nil, fmt.Errorf("engine: runtime has no JSON object")
	}
	jsonObj := jsonVal.ToObject(rt)
	stringify, ok := goja.AssertFunction(jsonObj.Get("stringify"))
	if !ok {
		return nil, fmt.Errorf("engine: JSON.stringify is not callable")
	}
	parse, ok := goja.AssertFunction(jsonObj.Get("parse"))
	if !ok {
		return nil, fmt.Errorf("engine: JSON.parse is not callable")
	}
	return &Heap{
		rt:        rt,
		stash:     make(map[Ref]*goja.Object),
		ids:       make(map[*goja.Object]Ref),
		jsonThis:  jsonVal,
		stringify: stringify,
		parse:     parse,
	}, nil
}

// Destroy releases the heap. Idempotent; every Ref and stack slot derived
// from this heap is invalid afterward.
func (h *Heap) Destroy() {
	if h.destroyed {
		return
	}
	h.destroyed = true
	h.stack = nil
	h.stash = nil
	h.ids = nil
	h.rt = nil
	h.stringify = nil
	h.parse = nil
	h.jsonThis = nil
}

// Destroyed reports whether Destroy has been called.
func (h *Heap) Destroyed() bool { return h.destroyed }

func (h *Heap) live() {
	if h.destroyed {
		panic("engine: use of destroyed heap")
	}
}

// Eval compiles and runs src against this heap. On success it returns 0 and
// pushes the result; on failure it returns nonzero and pushes the exception
// object. The exception object always carries a non-empty "stack" property
// with the engine's diagnostic text.
func (h *Heap) Eval(src string) int {
	h.live()
	v, err := h.rt.RunString(src)
	if err == nil {
		if v == nil {
			v = goja.Undefined()
		}
		h.push(v)
		return 0
	}
	h.push(h.exceptionValue(err))
	return 1
}

// exceptionValue turns an evaluation error into the value left on the stack.
// Runtime throws carry their own exception object; compile-time errors are
// materialized as real engine error objects so the caller can read the error
// code and diagnostic off the stack the same way on both paths.
func (h *Heap) exceptionValue(err error) goja.Value {
	var exc *goja.Exception
	if errors.As(err, &exc) {
		v := exc.Value()
		if obj, ok := v.(*goja.Object); ok {
			h.ensureStackProp(obj, exc.Error())
			return obj
		}
		if v != nil {
			return v
		}
		return h.rt.ToValue(exc.Error())
	}

	ctor := "SyntaxError"
	var refErr *goja.CompilerReferenceError
	if errors.As(err, &refErr) {
		ctor = "ReferenceError"
	}
	if obj, nerr := h.rt.New(h.rt.Get(ctor), h.rt.ToValue(err.Error())); nerr == nil {
		h.ensureStackProp(obj, err.Error())
		return obj
	}
	return h.rt.ToValue(err.Error())
}

func (h *Heap) ensureStackProp(obj *goja.Object, diag string) {
	s, err := safeGet(obj, "stack")
	if err == nil && s != nil && !goja.IsUndefined(s) && s.String() != "" {
		return
	}
	_ = obj.Set("stack", diag)
}

// GetErrorCode inspects the slot at idx and returns the error code of the
// exception object there, or ErrNone when the slot is not an error object.
func (h *Heap) GetErrorCode(idx int) ErrCode {
	h.live()
	obj, ok := h.at(idx).(*goja.Object)
	if !ok {
		return ErrNone
	}
	if name, err := safeGet(obj, "name"); err == nil && name != nil {
		if code, ok := errorNames[name.String()]; ok {
			return code
		}
	}
	// An object carrying a message but an unrecognized name is still
	// treated as a plain error.
	if msg, err := safeGet(obj, "message"); err == nil && msg != nil && !goja.IsUndefined(msg) {
		return ErrError
	}
	return ErrNone
}
