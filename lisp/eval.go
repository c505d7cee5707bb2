package lisp

// EvalEnv evaluates e in env. It is the evaluator builtins recurse into;
// hosts use EvalExpr, which adds the top-level error handling.
func (in *Interpreter) EvalEnv(env *Env, e *Value) (*Value, error) {
	switch e.kind {
	case KindAtom:
		v, ok := env.Lookup(e.name)
		if !ok {
			return nil, evalErrorf(ErrUnbound, e, "failed to resolve atom %s", *e.name)
		}
		return v, nil
	case KindCons:
		if !e.IsList() {
			return nil, evalErrorf(ErrImproperList, e, "invalid list %s", e)
		}
		proc, err := in.EvalEnv(env, e.car)
		if err != nil {
			return nil, err
		}
		return in.apply(proc, e.cdr, env)
	}
	// nil, booleans, numbers, strings and procedures evaluate to themselves
	return e, nil
}

// EvalList evaluates each element of a proper list left to right and
// returns the results as a new list.
func (in *Interpreter) EvalList(env *Env, list *Value) (*Value, error) {
	var values []*Value
	c := list
	for c.kind == KindCons {
		v, err := in.EvalEnv(env, c.car)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		c = c.cdr
	}
	if c.kind != KindNil {
		return nil, evalErrorf(ErrImproperList, list, "cannot evaluate improper list %s", list)
	}
	return in.List(values...), nil
}

// apply calls proc with the unevaluated operand list. Builtins see the raw
// operands; lambdas evaluate them first.
func (in *Interpreter) apply(proc, operands *Value, env *Env) (*Value, error) {
	switch proc.kind {
	case KindFunction:
		return proc.fn.call(in, operands, env)
	case KindLambda:
		args, err := in.EvalList(env, operands)
		if err != nil {
			return nil, err
		}
		return in.call(proc, args)
	}
	return nil, evalErrorf(ErrNotApplicable, proc, "can not apply a non function %s", proc)
}

// call runs a lambda on already evaluated arguments in a fresh frame whose
// parent is the environment captured by the lambda.
func (in *Interpreter) call(proc, args *Value) (*Value, error) {
	l := proc.lambda
	env := in.NewEnv(l.env)
	if err := in.Bind(env, l.formals, args); err != nil {
		return nil, err
	}
	result := in.nilv
	for body := l.bodies; body.kind == KindCons; body = body.cdr {
		v, err := in.EvalEnv(env, body.car)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

// Bind binds formals to values in env.
//
// A list of atoms binds pairwise and needs at least as many values as
// atoms. A bare atom, alone or as the dotted tail of the list, binds the
// remaining values as a list. Surplus values after a proper formal list
// are ignored.
func (in *Interpreter) Bind(env *Env, formals, values *Value) error {
	for {
		switch formals.kind {
		case KindNil:
			return nil
		case KindAtom:
			env.Define(formals.name, values)
			return nil
		case KindCons:
			if formals.car.kind != KindAtom {
				return evalErrorf(ErrFormals, formals, "formal arguments must be atoms, got %s", formals.car)
			}
			if values.kind != KindCons {
				return evalErrorf(ErrArity, formals, "insufficient parameters for %s", formals)
			}
			env.Define(formals.car.name, values.car)
			formals, values = formals.cdr, values.cdr
		default:
			return evalErrorf(ErrFormals, formals, "formal arguments must be atoms, got %s", formals)
		}
	}
}

// Apply calls proc on evaluated arguments. Builtins receive each argument
// wrapped in a call to the quote builtin so it is not evaluated a second
// time; the builtin value sits in operator position and evaluates to itself.
func (in *Interpreter) Apply(env *Env, proc *Value, args []*Value) (*Value, error) {
	switch proc.kind {
	case KindFunction:
		quoted := make([]*Value, len(args))
		for i, a := range args {
			quoted[i] = in.List(in.quote, a)
		}
		return proc.fn.call(in, in.List(quoted...), env)
	case KindLambda:
		return in.call(proc, in.List(args...))
	}
	return nil, evalErrorf(ErrNotApplicable, proc, "can not apply a non function %s", proc)
}
