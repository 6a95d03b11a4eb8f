package engine

import "github.com/dop251/goja"

// Ref is an opaque, stable identity for one engine-side object. It is not a
// stack index: stack slots are transient, a Ref stays meaningful for as long
// as the registry anchors the object. Ref 0 is never handed out and never
// resolves.
type Ref uint64

// GetHeapPtr returns the identity of the object at idx, or 0 when the slot
// does not hold an object. The same live object always yields the same Ref
// until its registry anchor is deleted.
func (h *Heap) GetHeapPtr(idx int) Ref {
	h.live()
	obj, ok := h.at(idx).(*goja.Object)
	if !ok {
		return 0
	}
	if ref, ok := h.ids[obj]; ok {
		return ref
	}
	h.next++
	h.ids[obj] = h.next
	return h.next
}

// PushHeapPtr re-pushes a previously obtained identity and returns the
// absolute index of the pushed slot. A ref that no longer resolves (never
// anchored, or anchor deleted) pushes undefined.
func (h *Heap) PushHeapPtr(ref Ref) int {
	h.live()
	if obj, ok := h.stash[ref]; ok {
		h.push(obj)
	} else {
		h.PushUndefined()
	}
	return len(h.stack) - 1
}

// StashPut anchors the object at idx in the persistent registry under ref,
// keeping it reachable for the collector independent of the value stack.
func (h *Heap) StashPut(ref Ref, idx int) {
	h.live()
	obj, ok := h.at(idx).(*goja.Object)
	if !ok || ref == 0 {
		panic("engine: stash put requires an object slot and a valid ref")
	}
	h.stash[ref] = obj
}

// StashDelete removes the registry entry for ref. The ref stops resolving;
// a subsequent PushHeapPtr pushes undefined. Safe to call after Destroy.
func (h *Heap) StashDelete(ref Ref) {
	if obj, ok := h.stash[ref]; ok {
		delete(h.stash, ref)
		delete(h.ids, obj)
	}
}

// StashLen returns the number of anchored objects. Used by tests to assert
// registry entries live exactly as long as their handles.
func (h *Heap) StashLen() int { return len(h.stash) }
