package lisp

import (
	"github.com/deosjr/crisp/log"
)

// header links every collectable object into the interpreter's registry.
type header struct {
	next   object
	marked bool
	freed  bool
}

// object is implemented by everything the collector manages.
type object interface {
	gc() *header
	// trace calls mark on every object directly reachable from this one.
	trace(mark func(object))
	// release frees what the object owns. It runs once, when swept.
	release()
	describe() string
}

// Stats describes the registry after a collection.
type Stats struct {
	Live   int
	Freed  int
	Cycles int
}

// heap is the registry of all allocated objects, newest first.
type heap struct {
	head   object
	live   int
	cycles int
	trace  bool
	log    *log.Logger
}

func (h *heap) register(o object) {
	hd := o.gc()
	hd.next = h.head
	hd.marked = false
	h.head = o
	h.live++
}

// mark sets the mark on everything reachable from roots. It uses an
// explicit stack so long lists do not grow the Go stack.
func (h *heap) mark(roots ...object) {
	stack := append([]object(nil), roots...)
	push := func(o object) {
		stack = append(stack, o)
	}
	for len(stack) > 0 {
		o := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		hd := o.gc()
		if hd.marked {
			continue
		}
		hd.marked = true
		o.trace(push)
	}
}

// sweep releases every unmarked object and clears the mark on the rest.
func (h *heap) sweep() int {
	freed := 0
	var prev object
	for o := h.head; o != nil; {
		hd := o.gc()
		next := hd.next
		if hd.marked {
			hd.marked = false
			prev = o
			o = next
			continue
		}
		if prev == nil {
			h.head = next
		} else {
			prev.gc().next = next
		}
		if h.trace {
			h.log.Debugf("gc: free %s", o.describe())
		}
		hd.next = nil
		o.release()
		freed++
		h.live--
		o = next
	}
	return freed
}

func (h *heap) contains(target object) bool {
	for o := h.head; o != nil; o = o.gc().next {
		if o == target {
			return true
		}
	}
	return false
}

// Collect runs a full mark and sweep from the root environment.
//
// Only values reachable from the root survive. Callers must collect
// between top-level evaluations: a value held only by an evaluation in
// progress is not a root and would be freed.
func (in *Interpreter) Collect() Stats {
	roots := []object{in.nilv, in.t, in.f}
	if in.quote != nil {
		roots = append(roots, in.quote)
	}
	if in.root != nil {
		roots = append(roots, in.root)
	}
	in.heap.mark(roots...)
	freed := in.heap.sweep()
	in.heap.cycles++
	in.log.Debugf("gc: cycle %d freed %d live %d", in.heap.cycles, freed, in.heap.live)
	return Stats{Live: in.heap.live, Freed: freed, Cycles: in.heap.cycles}
}

// Live is the number of registered objects.
func (in *Interpreter) Live() int {
	return in.heap.live
}
