package lisp

import (
	"sort"

	"github.com/deosjr/crisp/table"
)

// Env is one frame of the lexical environment chain.
type Env struct {
	header
	dict  *table.Table[*Value]
	outer *Env
}

// NewEnv registers a new frame. A nil outer makes a parentless frame.
func (in *Interpreter) NewEnv(outer *Env) *Env {
	e := &Env{dict: table.New[*Value](), outer: outer}
	in.heap.register(e)
	return e
}

// Lookup returns the innermost binding of name, searching outward.
func (e *Env) Lookup(name Name) (*Value, bool) {
	if v, ok := e.dict.Get(name); ok {
		return v, true
	}
	if e.outer == nil {
		return nil, false
	}
	return e.outer.Lookup(name)
}

// Define binds name in this frame, shadowing any outer binding.
func (e *Env) Define(name Name, v *Value) {
	e.dict.Set(name, v)
}

// Parent is the enclosing frame, nil for a root.
func (e *Env) Parent() *Env {
	return e.outer
}

func (e *Env) IsRoot() bool {
	return e.outer == nil
}

// Root walks to the outermost frame.
func (e *Env) Root() *Env {
	for e.outer != nil {
		e = e.outer
	}
	return e
}

// Names returns the names bound in this frame only, sorted.
func (e *Env) Names() []string {
	keys := e.dict.Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = *k
	}
	sort.Strings(names)
	return names
}

// Len is the number of bindings in this frame.
func (e *Env) Len() int {
	return e.dict.Len()
}

func (e *Env) gc() *header { return &e.header }

func (e *Env) trace(mark func(object)) {
	e.dict.Range(func(_ Name, v *Value) bool {
		mark(v)
		return true
	})
	if e.outer != nil {
		mark(e.outer)
	}
}

func (e *Env) release() {
	e.dict.Reset()
	e.freed = true
}

func (e *Env) describe() string {
	if e.outer == nil {
		return "root env"
	}
	return "env"
}
