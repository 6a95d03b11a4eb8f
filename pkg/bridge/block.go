package bridge

import (
	"jsbridge/pkg/engine"
	"jsbridge/pkg/errors"
)

// callBlock wraps a run of low-level engine calls and guarantees they leave
// no dirt on the value stack. It counts every slot it pushes; close pops
// exactly that many, in LIFO order, on every exit path. Callers open a block
// at the start of a logical operation and defer close immediately:
//
//	bl := c.block()
//	defer bl.close()
//
// The counter never goes negative: popping or reading past what the block
// tracks is a programmer error and panics rather than corrupting the shared
// stack for every later call on this context.
type callBlock struct {
	ctx  *Context
	size int
}

func (c *Context) block() *callBlock {
	return &callBlock{ctx: c}
}

// close pops every slot the block still tracks. Runs unconditionally via
// defer, which is what makes each operation stack-neutral even when it
// returns early on an error.
func (b *callBlock) close() {
	for b.size > 0 {
		b.pop()
	}
}

func (b *callBlock) inc() { b.size++ }

func (b *callBlock) dec() {
	if b.size == 0 {
		panic("bridge: call block slot count underflow")
	}
	b.size--
}

func (b *callBlock) pop() {
	if b.size == 0 {
		panic("bridge: pop on a call block with no tracked slots")
	}
	b.ctx.heap.Pop()
	b.dec()
}

func (b *callBlock) pushUndefined() { b.ctx.heap.PushUndefined(); b.inc() }
func (b *callBlock) pushNull()      { b.ctx.heap.PushNull(); b.inc() }
func (b *callBlock) pushNaN()       { b.ctx.heap.PushNaN(); b.inc() }

func (b *callBlock) pushBoolean(v bool) { b.ctx.heap.PushBoolean(v); b.inc() }

func (b *callBlock) pushNumber(f float64) { b.ctx.heap.PushNumber(f); b.inc() }

func (b *callBlock) pushString(s string) { b.ctx.heap.PushString(s); b.inc() }

// pushHeapPtr re-pushes an anchored object and returns its absolute stack
// index. A ref that no longer resolves pushes undefined; callers check with
// isUndefined before touching it.
func (b *callBlock) pushHeapPtr(ref engine.Ref) int {
	idx := b.ctx.heap.PushHeapPtr(ref)
	b.inc()
	return idx
}

func (b *callBlock) isUndefined(idx int) bool {
	return b.ctx.heap.IsUndefined(idx)
}

// evalString compiles and runs code, tracking the slot the engine leaves
// behind (the result on success, the exception object on failure).
func (b *callBlock) evalString(code string) int {
	b.inc()
	return b.ctx.heap.Eval(code)
}

func (b *callBlock) errorCode() engine.ErrCode {
	return b.ctx.heap.GetErrorCode(-1)
}

// owns reports whether idx addresses a slot this block tracks. Property
// operations on slots outside the tracked range are programmer errors.
func (b *callBlock) owns(idx int) bool {
	depth := b.ctx.heap.Depth()
	i := idx
	if i < 0 {
		i = depth + i
	}
	return i >= depth-b.size && i < depth
}

// getProp pushes the named property of the slot at idx (undefined when
// absent) and reports whether the property existed. A throwing accessor
// surfaces as a non-nil error; the pushed slot is tracked either way.
func (b *callBlock) getProp(idx int, name string) (bool, error) {
	if !b.owns(idx) {
		panic("bridge: property read outside the tracked stack range")
	}
	ok, err := b.ctx.heap.GetProp(idx, name)
	b.inc()
	return ok, err
}

// putProp writes the top tracked slot as a property of the object at objIdx,
// consuming it. Engine-level rejection (frozen or sealed target) surfaces as
// false.
func (b *callBlock) putProp(objIdx int, name string) bool {
	if !b.owns(objIdx) {
		panic("bridge: property write outside the tracked stack range")
	}
	ok := b.ctx.heap.PutProp(objIdx, name)
	b.dec()
	return ok
}

func (b *callBlock) decodeJSON() {
	b.ctx.heap.DecodeJSON(-1)
}

// pushValue marshals a host-side Value onto the value stack. NaN becomes the
// engine's NaN sentinel; Infinity becomes the literal string "Infinity", a
// deliberate lossy approximation since the engine's number type has no
// JSON-safe infinite literal. A released object handle is a NullRef error.
func (b *callBlock) pushValue(v Value) error {
	switch v.kind {
	case KindUndefined:
		b.pushUndefined()
	case KindNull:
		b.pushNull()
	case KindNumber:
		switch {
		case v.num.IsNaN():
			b.pushNaN()
		case v.num.IsInfinity():
			b.pushString("Infinity")
		default:
			b.pushNumber(v.num.Float64())
		}
	case KindBoolean:
		b.pushBoolean(v.b)
	case KindString:
		b.pushString(v.str)
	case KindObject:
		idx := b.pushHeapPtr(v.obj.refOrZero())
		if b.isUndefined(idx) {
			return errors.New(errors.NullRef, "object value no longer resolves to a live object")
		}
	default:
		return errors.Errorf(errors.Conversion, "cannot push value of kind %s", v.kind)
	}
	return nil
}

// get reads the value at the top of the stack without removing it. Reading
// from a block that tracks nothing is a programmer error. An object slot is
// materialized as an anchored handle so it outlives the stack frame.
func (b *callBlock) get() Value {
	if b.size == 0 {
		panic("bridge: read on a call block with no tracked slots")
	}
	h := b.ctx.heap
	switch h.GetType(-1) {
	case engine.TypeNone:
		return Null
	case engine.TypeUndefined:
		return Undefined
	case engine.TypeNull:
		return Null
	case engine.TypeBoolean:
		return BooleanValue(h.GetBoolean(-1))
	case engine.TypeNumber:
		return NumberValue(NumberFromFloat(h.GetNumber(-1)))
	case engine.TypeString:
		return NewString(h.GetString(-1))
	case engine.TypeObject:
		return ObjectValue(b.ctx.objectFromTop())
	default:
		// Unrecognized engine type codes map to undefined.
		return Undefined
	}
}
