package lisp

// Constructors. Every value goes through alloc so the collector knows it.

func (in *Interpreter) alloc(v *Value) *Value {
	in.heap.register(v)
	return v
}

// Nil is the interpreter's unique empty list.
func (in *Interpreter) Nil() *Value {
	return in.nilv
}

// Bool returns one of the interpreter's two boolean values.
func (in *Interpreter) Bool(b bool) *Value {
	if b {
		return in.t
	}
	return in.f
}

func (in *Interpreter) Number(n float64) *Value {
	return in.alloc(&Value{kind: KindNumber, number: n})
}

// Str interns text and wraps it as a string value.
func (in *Interpreter) Str(text string) *Value {
	return in.alloc(&Value{kind: KindString, name: in.Intern(text)})
}

// Atom interns text and wraps it as a symbol.
func (in *Interpreter) Atom(text string) *Value {
	return in.alloc(&Value{kind: KindAtom, name: in.Intern(text)})
}

// Cons allocates a pair. Neither argument is modified.
func (in *Interpreter) Cons(car, cdr *Value) *Value {
	return in.alloc(&Value{kind: KindCons, car: car, cdr: cdr})
}

func (in *Interpreter) Function(name string, fn Builtin) *Value {
	return in.alloc(&Value{kind: KindFunction, fn: &function{name: name, call: fn}})
}

// Lambda allocates a closure over env. A nil env closes over nothing: the
// body then sees only its own parameters.
func (in *Interpreter) Lambda(formals, bodies *Value, env *Env) *Value {
	return in.alloc(&Value{kind: KindLambda, lambda: &closure{formals: formals, bodies: bodies, env: env}})
}

// List builds a proper list of values.
func (in *Interpreter) List(values ...*Value) *Value {
	return in.ListWithTail(in.nilv, values...)
}

// ListWithTail builds a list of values ending in tail instead of nil.
func (in *Interpreter) ListWithTail(tail *Value, values ...*Value) *Value {
	list := tail
	for i := len(values) - 1; i >= 0; i-- {
		list = in.Cons(values[i], list)
	}
	return list
}
