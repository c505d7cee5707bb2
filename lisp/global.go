package lisp

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// specialForms receive their operands unevaluated.
var specialForms = map[string]Builtin{
	"quote":  quote,
	"lambda": lambda,
	"define": define,
	"if":     ifForm,
	"begin":  begin,
	"let":    let,
	"and":    and,
	"or":     or,
}

type procedure func(in *Interpreter, env *Env, args []*Value) (*Value, error)

// procedures receive their operands evaluated left to right.
var procedures = map[string]procedure{
	"+":              add,
	"-":              sub,
	"*":              mul,
	"/":              div,
	"=":              numEq,
	"<":              lt,
	">":              gt,
	"<=":             leq,
	">=":             geq,
	"not":            not,
	"cons":           cons,
	"car":            car,
	"cdr":            cdr,
	"list":           list,
	"length":         length,
	"list?":          islist,
	"boolean?":       isboolean,
	"symbol?":        issymbol,
	"number?":        isnumber,
	"string?":        isstring,
	"null?":          isnull,
	"pair?":          ispair,
	"procedure?":     isprocedure,
	"eq?":            iseq,
	"equal?":         isequal,
	"display":        display,
	"newline":        newline,
	"string->symbol": string2symbol,
	"symbol->string": symbol2string,
	"string-append":  stringappend,
	"apply":          apply,
	"eval":           eval,
	"gensym":         gensym,
}

func loadBuiltins(in *Interpreter) {
	for name, fn := range specialForms {
		in.AddBuiltin(name, fn)
	}
	in.quote, _ = in.Lookup("quote")
	for name, fn := range procedures {
		in.AddBuiltin(name, applicative(name, fn))
	}
}

// applicative turns p into a builtin that evaluates its operands first.
func applicative(name string, p procedure) Builtin {
	return func(in *Interpreter, operands *Value, env *Env) (*Value, error) {
		list, err := in.EvalList(env, operands)
		if err != nil {
			return nil, err
		}
		args, err := list.Slice()
		if err != nil {
			return nil, err
		}
		v, err := p(in, env, args)
		if err != nil {
			return nil, withForm(err, in.Cons(in.Atom(name), operands))
		}
		return v, nil
	}
}

// withForm fills in the form of an EvalError raised without one.
func withForm(err error, form *Value) error {
	if ee, ok := err.(*EvalError); ok && ee.Form == nil {
		ee.Form = form
	}
	return err
}

func arity(name string, args []*Value, n int) error {
	if len(args) != n {
		return evalErrorf(ErrArity, nil, "%s expects %d operands, got %d", name, n, len(args))
	}
	return nil
}

func operands(name string, forms *Value) ([]*Value, error) {
	ops, err := forms.Slice()
	if err != nil {
		return nil, evalErrorf(ErrSyntax, forms, "invalid syntax for %s", name)
	}
	return ops, nil
}

// syntaxError reports a special form whose operand list ops is malformed.
func syntaxError(name string, ops *Value) error {
	rest := strings.TrimSuffix(strings.TrimPrefix(ops.String(), "("), ")")
	return evalErrorf(ErrSyntax, ops, "invalid syntax (%s %s)", name, rest)
}

// Special forms

func quote(in *Interpreter, ops *Value, env *Env) (*Value, error) {
	args, err := operands("quote", ops)
	if err != nil {
		return nil, err
	}
	if len(args) != 1 {
		return nil, syntaxError("quote", ops)
	}
	return args[0], nil
}

// (lambda formals body...)
func lambda(in *Interpreter, ops *Value, env *Env) (*Value, error) {
	if ops.kind != KindCons || ops.cdr.kind != KindCons {
		return nil, syntaxError("lambda", ops)
	}
	if err := checkFormals(ops.car); err != nil {
		return nil, err
	}
	return in.Lambda(ops.car, ops.cdr, env), nil
}

func checkFormals(formals *Value) error {
	c := formals
	for c.kind == KindCons {
		if c.car.kind != KindAtom {
			return evalErrorf(ErrFormals, formals, "formal arguments must be atoms, got %s", c.car)
		}
		c = c.cdr
	}
	if c.kind != KindNil && c.kind != KindAtom {
		return evalErrorf(ErrFormals, formals, "formal arguments must be atoms, got %s", c)
	}
	return nil
}

// (define name expr) or (define (name formals...) body...). Definitions
// always land in the root environment.
func define(in *Interpreter, ops *Value, env *Env) (*Value, error) {
	if ops.kind != KindCons || ops.cdr.kind != KindCons {
		return nil, syntaxError("define", ops)
	}
	target := ops.car
	switch target.kind {
	case KindAtom:
		if ops.cdr.cdr.kind != KindNil {
			return nil, syntaxError("define", ops)
		}
		v, err := in.EvalEnv(env, ops.cdr.car)
		if err != nil {
			return nil, err
		}
		env.Root().Define(target.name, v)
		return target, nil
	case KindCons:
		name := target.car
		if name.kind != KindAtom {
			return nil, syntaxError("define", ops)
		}
		if err := checkFormals(target.cdr); err != nil {
			return nil, err
		}
		env.Root().Define(name.name, in.Lambda(target.cdr, ops.cdr, env))
		return name, nil
	}
	return nil, syntaxError("define", ops)
}

// (if test then [else]). A missing else yields nil.
func ifForm(in *Interpreter, ops *Value, env *Env) (*Value, error) {
	args, err := operands("if", ops)
	if err != nil {
		return nil, err
	}
	if len(args) != 2 && len(args) != 3 {
		return nil, syntaxError("if", ops)
	}
	test, err := in.EvalEnv(env, args[0])
	if err != nil {
		return nil, err
	}
	if test.Truthy() {
		return in.EvalEnv(env, args[1])
	}
	if len(args) == 3 {
		return in.EvalEnv(env, args[2])
	}
	return in.nilv, nil
}

func begin(in *Interpreter, ops *Value, env *Env) (*Value, error) {
	args, err := operands("begin", ops)
	if err != nil {
		return nil, err
	}
	return in.sequence(env, args)
}

func (in *Interpreter) sequence(env *Env, body []*Value) (*Value, error) {
	result := in.nilv
	for _, e := range body {
		v, err := in.EvalEnv(env, e)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

// (let ((name expr)...) body...). The bindings are evaluated in the
// calling environment and bound in a fresh child of it.
func let(in *Interpreter, ops *Value, env *Env) (*Value, error) {
	args, err := operands("let", ops)
	if err != nil {
		return nil, err
	}
	if len(args) < 2 {
		return nil, syntaxError("let", ops)
	}
	bindings, err := args[0].Slice()
	if err != nil {
		return nil, syntaxError("let", ops)
	}
	frame := in.NewEnv(env)
	for _, b := range bindings {
		pair, err := b.Slice()
		if err != nil || len(pair) != 2 || pair[0].kind != KindAtom {
			return nil, syntaxError("let", ops)
		}
		v, err := in.EvalEnv(env, pair[1])
		if err != nil {
			return nil, err
		}
		frame.Define(pair[0].name, v)
	}
	return in.sequence(frame, args[1:])
}

// and returns the first falsey value, or the last value, or #t.
func and(in *Interpreter, ops *Value, env *Env) (*Value, error) {
	args, err := operands("and", ops)
	if err != nil {
		return nil, err
	}
	result := in.t
	for _, e := range args {
		v, err := in.EvalEnv(env, e)
		if err != nil {
			return nil, err
		}
		if !v.Truthy() {
			return v, nil
		}
		result = v
	}
	return result, nil
}

// or returns the first truthy value, or #f.
func or(in *Interpreter, ops *Value, env *Env) (*Value, error) {
	args, err := operands("or", ops)
	if err != nil {
		return nil, err
	}
	for _, e := range args {
		v, err := in.EvalEnv(env, e)
		if err != nil {
			return nil, err
		}
		if v.Truthy() {
			return v, nil
		}
	}
	return in.f, nil
}

// Arithmetic

func numbers(name string, args []*Value) ([]float64, error) {
	if len(args) == 0 {
		return nil, evalErrorf(ErrArity, nil, "%s expects at least 1 operand", name)
	}
	nums := make([]float64, len(args))
	for i, a := range args {
		if a.kind != KindNumber {
			return nil, evalErrorf(ErrType, nil, "%s expects numbers, got %s", name, a.Describe())
		}
		nums[i] = a.number
	}
	return nums, nil
}

// fold combines the operands left to right with the first as seed. A
// single operand is returned as is.
func fold(name string, f func(a, b float64) float64) procedure {
	return func(in *Interpreter, env *Env, args []*Value) (*Value, error) {
		nums, err := numbers(name, args)
		if err != nil {
			return nil, err
		}
		acc := nums[0]
		for _, n := range nums[1:] {
			acc = f(acc, n)
		}
		return in.Number(acc), nil
	}
}

var (
	add = fold("+", func(a, b float64) float64 { return a + b })
	sub = fold("-", func(a, b float64) float64 { return a - b })
	mul = fold("*", func(a, b float64) float64 { return a * b })
	div = fold("/", func(a, b float64) float64 { return a / b })
)

// compare holds when cmp holds for every adjacent pair of operands.
func compare(name string, cmp func(a, b float64) bool) procedure {
	return func(in *Interpreter, env *Env, args []*Value) (*Value, error) {
		nums, err := numbers(name, args)
		if err != nil {
			return nil, err
		}
		for i := 1; i < len(nums); i++ {
			if !cmp(nums[i-1], nums[i]) {
				return in.f, nil
			}
		}
		return in.t, nil
	}
}

var (
	numEq = compare("=", func(a, b float64) bool { return a == b })
	lt    = compare("<", func(a, b float64) bool { return a < b })
	gt    = compare(">", func(a, b float64) bool { return a > b })
	leq   = compare("<=", func(a, b float64) bool { return a <= b })
	geq   = compare(">=", func(a, b float64) bool { return a >= b })
)

// Only #f is false.
func not(in *Interpreter, env *Env, args []*Value) (*Value, error) {
	if err := arity("not", args, 1); err != nil {
		return nil, err
	}
	return in.Bool(!args[0].Truthy()), nil
}

// Lists

func cons(in *Interpreter, env *Env, args []*Value) (*Value, error) {
	if err := arity("cons", args, 2); err != nil {
		return nil, err
	}
	return in.Cons(args[0], args[1]), nil
}

func car(in *Interpreter, env *Env, args []*Value) (*Value, error) {
	if err := arity("car", args, 1); err != nil {
		return nil, err
	}
	if args[0].kind != KindCons {
		return nil, evalErrorf(ErrType, nil, "car expects a pair, got %s", args[0].Describe())
	}
	return args[0].car, nil
}

func cdr(in *Interpreter, env *Env, args []*Value) (*Value, error) {
	if err := arity("cdr", args, 1); err != nil {
		return nil, err
	}
	if args[0].kind != KindCons {
		return nil, evalErrorf(ErrType, nil, "cdr expects a pair, got %s", args[0].Describe())
	}
	return args[0].cdr, nil
}

func list(in *Interpreter, env *Env, args []*Value) (*Value, error) {
	return in.List(args...), nil
}

func length(in *Interpreter, env *Env, args []*Value) (*Value, error) {
	if err := arity("length", args, 1); err != nil {
		return nil, err
	}
	n, err := args[0].Length()
	if err != nil {
		return nil, err
	}
	return in.Number(float64(n)), nil
}

// Predicates

func predicate(name string, test func(v *Value) bool) procedure {
	return func(in *Interpreter, env *Env, args []*Value) (*Value, error) {
		if err := arity(name, args, 1); err != nil {
			return nil, err
		}
		return in.Bool(test(args[0])), nil
	}
}

var (
	islist      = predicate("list?", (*Value).IsList)
	isboolean   = predicate("boolean?", (*Value).IsBool)
	issymbol    = predicate("symbol?", (*Value).IsAtom)
	isnumber    = predicate("number?", (*Value).IsNumber)
	isstring    = predicate("string?", (*Value).IsString)
	isnull      = predicate("null?", (*Value).IsNil)
	ispair      = predicate("pair?", (*Value).IsCons)
	isprocedure = predicate("procedure?", (*Value).IsProcedure)
)

func iseq(in *Interpreter, env *Env, args []*Value) (*Value, error) {
	if err := arity("eq?", args, 2); err != nil {
		return nil, err
	}
	return in.Bool(Eq(args[0], args[1])), nil
}

func isequal(in *Interpreter, env *Env, args []*Value) (*Value, error) {
	if err := arity("equal?", args, 2); err != nil {
		return nil, err
	}
	return in.Bool(Equal(args[0], args[1])), nil
}

// Output

// display writes strings raw and everything else in printed form.
func display(in *Interpreter, env *Env, args []*Value) (*Value, error) {
	if err := arity("display", args, 1); err != nil {
		return nil, err
	}
	v := args[0]
	text := v.String()
	if v.kind == KindString {
		text = *v.name
	}
	if _, err := io.WriteString(in.out, text); err != nil {
		return nil, fmt.Errorf("display: %w", err)
	}
	return in.nilv, nil
}

func newline(in *Interpreter, env *Env, args []*Value) (*Value, error) {
	if err := arity("newline", args, 0); err != nil {
		return nil, err
	}
	if _, err := fmt.Fprintln(in.out); err != nil {
		return nil, fmt.Errorf("newline: %w", err)
	}
	return in.nilv, nil
}

// Strings and symbols

func string2symbol(in *Interpreter, env *Env, args []*Value) (*Value, error) {
	if err := arity("string->symbol", args, 1); err != nil {
		return nil, err
	}
	if args[0].kind != KindString {
		return nil, evalErrorf(ErrType, nil, "string->symbol expects a string, got %s", args[0].Describe())
	}
	return in.alloc(&Value{kind: KindAtom, name: args[0].name}), nil
}

func symbol2string(in *Interpreter, env *Env, args []*Value) (*Value, error) {
	if err := arity("symbol->string", args, 1); err != nil {
		return nil, err
	}
	if args[0].kind != KindAtom {
		return nil, evalErrorf(ErrType, nil, "symbol->string expects a symbol, got %s", args[0].Describe())
	}
	return in.alloc(&Value{kind: KindString, name: args[0].name}), nil
}

func stringappend(in *Interpreter, env *Env, args []*Value) (*Value, error) {
	var b strings.Builder
	for _, a := range args {
		if a.kind != KindString {
			return nil, evalErrorf(ErrType, nil, "string-append expects strings, got %s", a.Describe())
		}
		b.WriteString(*a.name)
	}
	return in.Str(b.String()), nil
}

// Evaluation

// (apply proc arg... list)
func apply(in *Interpreter, env *Env, args []*Value) (*Value, error) {
	if len(args) < 2 {
		return nil, evalErrorf(ErrArity, nil, "apply expects at least 2 operands, got %d", len(args))
	}
	rest, err := args[len(args)-1].Slice()
	if err != nil {
		return nil, evalErrorf(ErrType, nil, "apply expects a list as last operand, got %s", args[len(args)-1].Describe())
	}
	spread := append(append([]*Value{}, args[1:len(args)-1]...), rest...)
	return in.Apply(env, args[0], spread)
}

// (eval expr) evaluates an already evaluated expression once more.
func eval(in *Interpreter, env *Env, args []*Value) (*Value, error) {
	if err := arity("eval", args, 1); err != nil {
		return nil, err
	}
	return in.EvalEnv(env, args[0])
}

// gensym returns a fresh symbol named g-<uuid>. Gensyms never repeat,
// within a run or across runs; source text could still spell one out.
func gensym(in *Interpreter, env *Env, args []*Value) (*Value, error) {
	if err := arity("gensym", args, 0); err != nil {
		return nil, err
	}
	return in.Atom("g-" + uuid.NewString()), nil
}
