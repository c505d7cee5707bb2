package lisp

import (
	"fmt"

	"github.com/deosjr/crisp/table"
)

// Name is an interned string; see table.Name.
type Name = table.Name

type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
	KindAtom
	KindCons
	KindFunction
	KindLambda
)

var kindNames = [...]string{
	KindNil:      "nil",
	KindBool:     "boolean",
	KindNumber:   "number",
	KindString:   "string",
	KindAtom:     "atom",
	KindCons:     "cons",
	KindFunction: "function",
	KindLambda:   "lambda",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Builtin is a host function. It receives its operands unevaluated together
// with the calling environment; builtins that want applicative order call
// EvalList themselves.
type Builtin func(in *Interpreter, operands *Value, env *Env) (*Value, error)

// Value is a node of the value graph. Values are only created through the
// constructors on Interpreter, which register them with the collector.
type Value struct {
	header
	kind    Kind
	boolean bool
	number  float64
	// name holds the interned text of strings and atoms
	name     Name
	car, cdr *Value
	fn       *function
	lambda   *closure
}

type function struct {
	name string
	call Builtin
}

type closure struct {
	formals *Value
	bodies  *Value
	env     *Env
}

func (v *Value) Kind() Kind { return v.kind }

func (v *Value) IsNil() bool      { return v.kind == KindNil }
func (v *Value) IsBool() bool     { return v.kind == KindBool }
func (v *Value) IsNumber() bool   { return v.kind == KindNumber }
func (v *Value) IsString() bool   { return v.kind == KindString }
func (v *Value) IsAtom() bool     { return v.kind == KindAtom }
func (v *Value) IsCons() bool     { return v.kind == KindCons }
func (v *Value) IsFunction() bool { return v.kind == KindFunction }
func (v *Value) IsLambda() bool   { return v.kind == KindLambda }

// IsProcedure reports whether v can be applied.
func (v *Value) IsProcedure() bool {
	return v.kind == KindFunction || v.kind == KindLambda
}

// IsSelfEvaluating reports whether evaluation returns v unchanged.
func (v *Value) IsSelfEvaluating() bool {
	switch v.kind {
	case KindNil, KindBool, KindNumber, KindString:
		return true
	}
	return false
}

func (v *Value) AsBool() bool      { return v.boolean }
func (v *Value) AsNumber() float64 { return v.number }

// AsName returns the interned name of a string or atom.
func (v *Value) AsName() Name { return v.name }

// Text returns the content of a string or atom.
func (v *Value) Text() string {
	if v.name == nil {
		return ""
	}
	return *v.name
}

// Car returns the first half of a cons cell.
func (v *Value) Car() *Value { return v.car }

// Cdr returns the second half of a cons cell.
func (v *Value) Cdr() *Value { return v.cdr }

// Formals returns the formal argument list of a lambda.
func (v *Value) Formals() *Value { return v.lambda.formals }

// Bodies returns the body expressions of a lambda.
func (v *Value) Bodies() *Value { return v.lambda.bodies }

// Captured returns the environment a lambda closes over.
func (v *Value) Captured() *Env { return v.lambda.env }

// Truthy is false only for #f.
func (v *Value) Truthy() bool {
	return !(v.kind == KindBool && !v.boolean)
}

// IsList reports whether v is nil or a nil-terminated chain of cons cells.
func (v *Value) IsList() bool {
	for v.kind == KindCons {
		v = v.cdr
	}
	return v.kind == KindNil
}

// Length counts the top-level elements of a proper list.
func (v *Value) Length() (int, error) {
	n := 0
	c := v
	for c.kind == KindCons {
		n++
		c = c.cdr
	}
	switch {
	case c.kind == KindNil:
		return n, nil
	case n > 0:
		return 0, evalErrorf(ErrImproperList, v, "length of improper list %s", v)
	}
	return 0, evalErrorf(ErrType, v, "length expects a list, got %s %s", v.kind, v)
}

// Slice returns the elements of a proper list.
func (v *Value) Slice() ([]*Value, error) {
	var out []*Value
	c := v
	for c.kind == KindCons {
		out = append(out, c.car)
		c = c.cdr
	}
	if c.kind != KindNil {
		return nil, evalErrorf(ErrImproperList, v, "expected a proper list, got %s", v)
	}
	return out, nil
}

// Eq is identity. Atoms and strings are identical when they share an
// interned name; numbers and booleans compare by value.
func Eq(a, b *Value) bool {
	if a == b {
		return true
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNil:
		return true
	case KindBool:
		return a.boolean == b.boolean
	case KindNumber:
		return a.number == b.number
	case KindString, KindAtom:
		return a.name == b.name
	}
	return false
}

// Equal compares structure, recursing through cons cells.
func Equal(a, b *Value) bool {
	for a.kind == KindCons && b.kind == KindCons {
		if !Equal(a.car, b.car) {
			return false
		}
		a, b = a.cdr, b.cdr
	}
	return Eq(a, b)
}

// Describe is the shallow form: leaves print their content, compound
// values print a placeholder.
func (v *Value) Describe() string {
	switch v.kind {
	case KindCons:
		return "<cons>"
	case KindLambda:
		return "<lambda>"
	case KindFunction:
		return "<builtin " + v.fn.name + ">"
	}
	return v.String()
}

func (v *Value) gc() *header { return &v.header }

func (v *Value) trace(mark func(object)) {
	switch v.kind {
	case KindCons:
		mark(v.car)
		mark(v.cdr)
	case KindLambda:
		if v.lambda == nil {
			return
		}
		mark(v.lambda.formals)
		mark(v.lambda.bodies)
		if v.lambda.env != nil {
			mark(v.lambda.env)
		}
	}
}

// release drops what the value owns besides its children; the tracer, not
// the destructor, is responsible for car and cdr.
func (v *Value) release() {
	if v.kind == KindLambda {
		v.lambda = nil
	}
	v.freed = true
}

func (v *Value) describe() string {
	return v.kind.String() + " " + v.Describe()
}
