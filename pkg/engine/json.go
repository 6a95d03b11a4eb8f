package engine

import "github.com/dop251/goja"

// EncodeJSON produces the JSON text for the slot at idx without mutating the
// stack. It reports false when the slot is undefined or the value has no
// JSON representation (stringify rejected it or yielded undefined).
func (h *Heap) EncodeJSON(idx int) (string, bool) {
	h.live()
	v := h.at(idx)
	if v == nil || goja.IsUndefined(v) {
		return "", false
	}
	res, err := h.stringify(h.jsonThis, v)
	if err != nil || res == nil || goja.IsUndefined(res) {
		return "", false
	}
	return res.String(), true
}

// DecodeJSON parses the string slot at idx in place, replacing it with the
// decoded value. Malformed input degrades the slot to undefined rather than
// throwing; callers never observe a decode failure.
func (h *Heap) DecodeJSON(idx int) {
	h.live()
	i := h.abs(idx)
	res, err := h.parse(h.jsonThis, h.stack[i])
	if err != nil || res == nil {
		h.stack[i] = goja.Undefined()
		return
	}
	h.stack[i] = res
}
