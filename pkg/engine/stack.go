package engine

import (
	"fmt"
	"math"
	"reflect"

	"github.com/dop251/goja"
)

// Stack primitives. Indices may be negative, addressing from the top of the
// stack duktape-style: -1 is the top slot. Out-of-range access is a
// programmer error and panics; the bridge's call blocks make that condition
// unreachable for well-formed callers.

// Depth returns the current number of slots on the value stack.
func (h *Heap) Depth() int { return len(h.stack) }

func (h *Heap) abs(idx int) int {
	n := len(h.stack)
	i := idx
	if i < 0 {
		i = n + i
	}
	if i < 0 || i >= n {
		panic(fmt.Sprintf("engine: stack index %d out of range (depth %d)", idx, n))
	}
	return i
}

func (h *Heap) at(idx int) goja.Value { return h.stack[h.abs(idx)] }

func (h *Heap) push(v goja.Value) { h.stack = append(h.stack, v) }

// Pop removes the top slot.
func (h *Heap) Pop() {
	h.live()
	n := len(h.stack)
	if n == 0 {
		panic("engine: pop on empty value stack")
	}
	h.stack[n-1] = nil
	h.stack = h.stack[:n-1]
}

// PopN removes the top n slots.
func (h *Heap) PopN(n int) {
	for i := 0; i < n; i++ {
		h.Pop()
	}
}

// Dup pushes a copy of the slot at idx.
func (h *Heap) Dup(idx int) {
	h.live()
	h.push(h.at(idx))
}

// GetType returns the runtime type code of the slot at idx. Values outside
// the recognized set (e.g. symbols) report TypeNone.
func (h *Heap) GetType(idx int) Type {
	h.live()
	v := h.at(idx)
	switch {
	case v == nil, goja.IsUndefined(v):
		return TypeUndefined
	case goja.IsNull(v):
		return TypeNull
	}
	if _, ok := v.(*goja.Object); ok {
		return TypeObject
	}
	switch v.ExportType().Kind() {
	case reflect.Bool:
		return TypeBoolean
	case reflect.Int64, reflect.Float64:
		return TypeNumber
	case reflect.String:
		return TypeString
	}
	return TypeNone
}

// IsUndefined reports whether the slot at idx holds undefined.
func (h *Heap) IsUndefined(idx int) bool {
	h.live()
	v := h.at(idx)
	return v == nil || goja.IsUndefined(v)
}

// GetBoolean reads the slot at idx coerced to a boolean.
func (h *Heap) GetBoolean(idx int) bool {
	h.live()
	return h.at(idx).ToBoolean()
}

// GetNumber reads the slot at idx coerced to the engine's double type.
func (h *Heap) GetNumber(idx int) float64 {
	h.live()
	return h.at(idx).ToFloat()
}

// GetString reads the slot at idx coerced to a string.
func (h *Heap) GetString(idx int) string {
	h.live()
	return h.at(idx).String()
}

func (h *Heap) PushUndefined() { h.live(); h.push(goja.Undefined()) }
func (h *Heap) PushNull()      { h.live(); h.push(goja.Null()) }
func (h *Heap) PushNaN()       { h.live(); h.push(h.rt.ToValue(math.NaN())) }

func (h *Heap) PushBoolean(b bool) { h.live(); h.push(h.rt.ToValue(b)) }

func (h *Heap) PushNumber(f float64) { h.live(); h.push(h.rt.ToValue(f)) }

func (h *Heap) PushString(s string) { h.live(); h.push(h.rt.ToValue(s)) }

// GetProp looks up name on the slot at idx and pushes the result, pushing
// undefined when the property is absent or the slot cannot hold properties.
// The return value reports presence. A throwing accessor is not absence: the
// lookup still pushes undefined but surfaces the throw as a non-nil error.
func (h *Heap) GetProp(idx int, name string) (bool, error) {
	h.live()
	obj, ok := h.toObject(h.at(idx))
	if !ok {
		h.PushUndefined()
		return false, nil
	}
	v, err := safeGet(obj, name)
	if err != nil {
		h.PushUndefined()
		return false, err
	}
	if v == nil {
		h.PushUndefined()
		return false, nil
	}
	h.push(v)
	return true, nil
}

// PutProp writes the top slot as property name of the object at objIdx,
// consuming the top slot. It reports false when the target is not an object
// or the engine rejects the write (e.g. a frozen target).
func (h *Heap) PutProp(objIdx int, name string) bool {
	h.live()
	obj, isObj := h.at(objIdx).(*goja.Object)
	val := h.at(-1)
	h.Pop()
	if !isObj {
		return false
	}
	return safeSet(obj, name, val)
}

// DelProp removes property name from the object at idx.
func (h *Heap) DelProp(idx int, name string) bool {
	h.live()
	obj, isObj := h.at(idx).(*goja.Object)
	if !isObj {
		return false
	}
	return obj.Delete(name) == nil
}

// toObject coerces a slot value to an object, absorbing the coercion throw
// for null/undefined.
func (h *Heap) toObject(v goja.Value) (obj *goja.Object, ok bool) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, false
	}
	defer func() {
		if recover() != nil {
			obj, ok = nil, false
		}
	}()
	return v.ToObject(h.rt), true
}

// safeGet reads a property, converting a getter throw into an error.
func safeGet(obj *goja.Object, name string) (v goja.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			v = nil
			if e, ok := r.(error); ok {
				err = e
			} else {
				err = fmt.Errorf("%v", r)
			}
		}
	}()
	return obj.Get(name), nil
}

// safeSet writes a property, absorbing setter/extensibility throws.
func safeSet(obj *goja.Object, name string, val goja.Value) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return obj.Set(name, val) == nil
}
