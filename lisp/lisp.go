package lisp

import (
	"errors"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/deosjr/crisp/log"
	"github.com/deosjr/crisp/table"
)

// Interpreter owns everything one instance of the language needs: the
// string table, the collector registry and the root environment. It is not
// safe for concurrent use.
type Interpreter struct {
	id      uuid.UUID
	strings *table.Strings
	heap    heap
	root    *Env

	nilv, t, f *Value
	// quote is the quote builtin itself, so Apply does not depend on what
	// the atom quote is bound to.
	quote *Value

	out     io.Writer
	log     *log.Logger
	onError func(error)
	prelude bool
}

type Option func(*Interpreter)

// WithErrorHandler installs a callback run for every error that aborts a
// top-level evaluation, before it is returned.
func WithErrorHandler(fn func(error)) Option {
	return func(in *Interpreter) {
		in.onError = fn
	}
}

func WithLogger(lg *log.Logger) Option {
	return func(in *Interpreter) {
		in.log = lg
	}
}

// WithTracing logs every object the collector frees at debug level.
func WithTracing(on bool) Option {
	return func(in *Interpreter) {
		in.heap.trace = on
	}
}

// WithOutput sets where display writes. The default is stdout.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) {
		in.out = w
	}
}

// WithoutPrelude skips loading the Lisp-level library.
func WithoutPrelude() Option {
	return func(in *Interpreter) {
		in.prelude = false
	}
}

func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		id:      uuid.New(),
		strings: table.NewStrings(),
		out:     os.Stdout,
		log:     log.Default(),
		prelude: true,
	}
	for _, opt := range opts {
		opt(in)
	}
	in.log = in.log.With("crisp[" + in.id.String()[:8] + "]")
	in.heap.log = in.log
	in.nilv = in.alloc(&Value{kind: KindNil})
	in.t = in.alloc(&Value{kind: KindBool, boolean: true})
	in.f = in.alloc(&Value{kind: KindBool, boolean: false})
	in.root = in.NewEnv(nil)
	loadBuiltins(in)
	if in.prelude {
		if err := in.Load(prelude); err != nil {
			panic(err)
		}
	}
	return in
}

// ID identifies this interpreter instance in logs.
func (in *Interpreter) ID() uuid.UUID {
	return in.id
}

// Root is the parentless environment top-level definitions land in.
func (in *Interpreter) Root() *Env {
	return in.root
}

// Intern returns the canonical name for text.
func (in *Interpreter) Intern(text string) Name {
	return in.strings.StoreString(text)
}

// Define binds name in the root environment.
func (in *Interpreter) Define(name string, v *Value) {
	in.root.Define(in.Intern(name), v)
}

// AddBuiltin binds a host function in the root environment.
func (in *Interpreter) AddBuiltin(name string, fn Builtin) {
	in.Define(name, in.Function(name, fn))
}

// Lookup resolves name from the root environment.
func (in *Interpreter) Lookup(name string) (*Value, bool) {
	return in.root.Lookup(in.Intern(name))
}

// EvalExpr evaluates one expression as a top-level evaluation. Any error
// abandons the whole evaluation; it is passed to the error handler and
// returned with a nil value. The interpreter stays usable afterwards.
func (in *Interpreter) EvalExpr(e *Value, env *Env) (*Value, error) {
	v, err := in.EvalEnv(env, e)
	if err != nil {
		in.fail(err)
		return nil, err
	}
	return v, nil
}

// Eval reads every form in input and evaluates them in the root
// environment, returning the value of the last one.
func (in *Interpreter) Eval(input string) (*Value, error) {
	forms, err := in.ReadAll(input)
	if err != nil {
		in.fail(err)
		return nil, err
	}
	result := in.nilv
	for _, form := range forms {
		result, err = in.EvalExpr(form, in.root)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (in *Interpreter) fail(err error) {
	var ee *EvalError
	if errors.As(err, &ee) {
		in.log.Debugf("%v", err)
	}
	if in.onError != nil {
		in.onError(err)
	}
}
