package bridge

import (
	"jsbridge/pkg/engine"
	"jsbridge/pkg/errors"
)

// anchor is one persistent-registry entry, shared by every live Object
// handle referring to the same underlying engine object. The registry entry
// exists for exactly as long as the count is positive.
type anchor struct {
	ref   engine.Ref
	count int
}

// Object is a stable handle to an engine-side object, anchored in the
// context's persistent registry so it survives being popped off the
// transient value stack. Handles are created by reading an object-typed
// value off the stack and must be released with Release when no longer
// needed; a released handle never resolves again.
//
// Two handles obtained from the same underlying object share one anchor:
// releasing one leaves the other fully usable, and the registry entry is
// removed only when the last of them is released.
type Object struct {
	ctx      *Context
	anc      *anchor
	released bool
}

// objectFromTop materializes an anchored handle for the object at the top of
// the value stack. The same underlying object maps to the same anchor, whose
// reference count is bumped.
func (c *Context) objectFromTop() *Object {
	ref := c.heap.GetHeapPtr(-1)
	a, ok := c.anchors[ref]
	if !ok {
		c.heap.StashPut(ref, -1)
		a = &anchor{ref: ref}
		c.anchors[ref] = a
	}
	a.count++
	return &Object{ctx: c, anc: a}
}

// refOrZero returns the handle's identity, or the never-resolving zero ref
// once the handle has been released.
func (o *Object) refOrZero() engine.Ref {
	if o.released {
		return 0
	}
	return o.anc.ref
}

func (o *Object) usable() error {
	if o.released {
		return errors.New(errors.NullRef, "object handle has been released")
	}
	if o.ctx.destroyed {
		return errors.New(errors.NullRef, "object handle outlived its context")
	}
	return nil
}

// Release drops this handle's share of the anchor. When the last handle to
// the underlying object is released the registry entry is removed, making
// the object collectible again. Idempotent. If the owning context was closed
// while handles were outstanding, releasing the last one also releases the
// heap.
func (o *Object) Release() {
	if o.released {
		return
	}
	o.released = true
	o.anc.count--
	if o.anc.count > 0 {
		return
	}
	delete(o.ctx.anchors, o.anc.ref)
	if !o.ctx.destroyed {
		o.ctx.heap.StashDelete(o.anc.ref)
	}
	o.ctx.maybeDestroy()
}

// Get looks up a property on the object. An absent property is a successful
// Undefined value, not an error; a handle that no longer resolves is a
// NullRef error; a lookup the engine itself fails (a throwing accessor) is a
// Generic error.
func (o *Object) Get(name string) (Value, error) {
	if err := o.usable(); err != nil {
		return Undefined, err
	}
	bl := o.ctx.block()
	defer bl.close()

	idx := bl.pushHeapPtr(o.anc.ref)
	if bl.isUndefined(idx) {
		return Undefined, errors.New(errors.NullRef, "invalid heap pointer")
	}
	if _, err := bl.getProp(idx, name); err != nil {
		return Undefined, errors.Errorf(errors.Generic, "failed to get property %q: %s", name, err)
	}
	return bl.get(), nil
}

// Set writes a property on the object. The value goes through ToValue, so
// any supported host type may be passed directly. Fails with NullRef when
// the handle no longer resolves and with Generic when the engine rejects the
// write (e.g. a frozen target).
func (o *Object) Set(name string, value any) error {
	if err := o.usable(); err != nil {
		return err
	}
	val, err := ToValue(value)
	if err != nil {
		return err
	}

	bl := o.ctx.block()
	defer bl.close()

	idx := bl.pushHeapPtr(o.anc.ref)
	if bl.isUndefined(idx) {
		return errors.New(errors.NullRef, "invalid heap pointer")
	}
	if err := bl.pushValue(val); err != nil {
		return err
	}
	if !bl.putProp(idx, name) {
		return errors.Errorf(errors.Generic, "failed to set property %q", name)
	}
	return nil
}

// Encode produces the JSON text for the object. Absence (a handle that no
// longer resolves, or a value JSON cannot represent) is an explicit false,
// never an error or a panic.
func (o *Object) Encode() (string, bool) {
	if o.usable() != nil {
		return "", false
	}
	bl := o.ctx.block()
	defer bl.close()

	idx := bl.pushHeapPtr(o.anc.ref)
	if bl.isUndefined(idx) {
		return "", false
	}
	return o.ctx.heap.EncodeJSON(idx)
}
