package lisp

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestEval(t *testing.T) {
	// NOTE: one shared interpreter for the test, meaning order matters here!
	in := newTestInterpreter()
	for i, tt := range []struct {
		input string
		want  string
	}{
		{input: "(+ 5 (* 2 3))", want: "11"},
		{input: "(/ (- (+ 5 (* 2 3)) 3) 4)", want: "2"},
		{input: "(/ 5 2)", want: "2.5"},
		{input: "(* -3 6)", want: "-18"},
		{input: "(/ (- (+ 515 (* 87 311)) 302) 27)", want: "1010"},
		{input: "(/ (- (+ 515 (* -87 311)) 296) 27)", want: "-994"},
		{input: "(- 7)", want: "7"},
		{input: "((lambda (x) (+ x 3)) 7)", want: "10"},
		{input: "((lambda (x . y) (list x y)) 28 37 47)", want: "(28 (37 47))"},
		{input: "((lambda x x) 7 13)", want: "(7 13)"},
		{input: "((lambda x x))", want: "()"},
		{input: "((lambda (x) x) 1 2 3)", want: "1"},
		{input: "(define r 10)", want: "r"},
		{input: "(* 3 (* r r))", want: "300"},
		{input: "(if (> (* 11 11) 120) (* 7 6) oops)", want: "42"},
		{input: "(if #f 1)", want: "()"},
		{input: "(if 0 'yes 'no)", want: "yes"},
		{input: "(if '() 'yes 'no)", want: "yes"},
		{input: "(define fact (lambda (n) (if (<= n 1) 1 (* n (fact (- n 1))))))", want: "fact"},
		{input: "(fact 10)", want: "3628800"},
		{input: "(define (twice x) (* 2 x))", want: "twice"},
		{input: "(define repeat (lambda (f) (lambda (x) (f (f x)))))", want: "repeat"},
		{input: "((repeat twice) 10)", want: "40"},
		{input: "((repeat (repeat (repeat (repeat twice)))) 10)", want: "655360"},
		{input: "(define x 5)", want: "x"},
		{input: "(+ (let ((x 3)) (+ x (* x 10))) x)", want: "38"},
		{input: "(begin 1 2 3)", want: "3"},
		{input: "(begin)", want: "()"},
		{input: "(and)", want: "#t"},
		{input: "(and 1 #f 3)", want: "#f"},
		{input: "(and 1 2 3)", want: "3"},
		{input: "(or)", want: "#f"},
		{input: "(or #f 2 oops)", want: "2"},
		{input: "(not 5)", want: "#f"},
		{input: "(not '())", want: "#f"},
		{input: "(not #f)", want: "#t"},
		{input: "(= 1 1 1)", want: "#t"},
		{input: "(< 1 2 2)", want: "#f"},
		{input: "(<= 1 2 2)", want: "#t"},
		{input: "(> 3 2 1)", want: "#t"},
		{input: "(>= 3 3 4)", want: "#f"},
		{input: "(cons 1 '(2 3))", want: "(1 2 3)"},
		{input: "(cons 1 2)", want: "(1 . 2)"},
		{input: "(cons 1 (cons 1 2))", want: "(1 1 . 2)"},
		{input: "(car '(1 2 3))", want: "1"},
		{input: "(cdr '(1 2 3))", want: "(2 3)"},
		{input: "(length '(1 2 3))", want: "3"},
		{input: "(length '())", want: "0"},
		{input: "(list? '(1 2))", want: "#t"},
		{input: "(list? '(1 . 2))", want: "#f"},
		{input: "(list? '())", want: "#t"},
		{input: "(boolean? #f)", want: "#t"},
		{input: "(symbol? 'a)", want: "#t"},
		{input: "(number? 'a)", want: "#f"},
		{input: `(string? "a")`, want: "#t"},
		{input: "(null? '())", want: "#t"},
		{input: "(pair? '())", want: "#f"},
		{input: "(procedure? car)", want: "#t"},
		{input: "(procedure? twice)", want: "#t"},
		{input: "(eq? 'a 'a)", want: "#t"},
		{input: "(eq? '(1) '(1))", want: "#f"},
		{input: "(equal? '(1 (2 \"x\")) '(1 (2 \"x\")))", want: "#t"},
		{input: `(string-append "foo" "bar")`, want: `"foobar"`},
		{input: `(string->symbol "abc")`, want: "abc"},
		{input: `(eq? (string->symbol "abc") 'abc)`, want: "#t"},
		{input: "(symbol->string 'abc)", want: `"abc"`},
		{input: "(apply + 1 2 '(3 4))", want: "10"},
		{input: "(apply twice '(4))", want: "8"},
		{input: "(apply list '(a b))", want: "(a b)"},
		{input: "(eval '(+ 1 2))", want: "3"},
		{input: "(eval (list 'car ''(9 8)))", want: "9"},
		{input: "(symbol? (gensym))", want: "#t"},
		{input: "(eq? (gensym) (gensym))", want: "#f"},
		{input: "(map (lambda (x) (* x x)) '(1 2 3))", want: "(1 4 9)"},
		{input: "(filter (lambda (x) (> x 1)) '(1 2 3))", want: "(2 3)"},
		{input: "(foldl + 0 '(1 2 3 4))", want: "10"},
		{input: "(append '(1 2) '(3))", want: "(1 2 3)"},
		{input: "(reverse '(1 2 3))", want: "(3 2 1)"},
		{input: "(cadr '(1 2 3))", want: "2"},
		{input: "(caddr '(1 2 3))", want: "3"},
		{input: "'()", want: "()"},
		{input: `"hello"`, want: `"hello"`},
	} {
		e, err := in.Eval(tt.input)
		if err != nil {
			t.Errorf("%d) eval error %v", i, err)
			continue
		}
		got := e.String()
		if got != tt.want {
			t.Errorf("%d) got %s want %s", i, got, tt.want)
		}
	}
}

func TestEvalErrors(t *testing.T) {
	in := newTestInterpreter()
	in.Eval("(define (f x y) x)")
	for i, tt := range []struct {
		input string
		kind  error
	}{
		{input: "undefined-atom", kind: ErrUnbound},
		{input: "(car 5)", kind: ErrType},
		{input: "(cdr '())", kind: ErrType},
		{input: "(length '(1 2 . 3))", kind: ErrImproperList},
		{input: "(length 5)", kind: ErrType},
		{input: "(5 1)", kind: ErrNotApplicable},
		{input: "(\"f\")", kind: ErrNotApplicable},
		{input: "(+ 1 'a)", kind: ErrType},
		{input: "(+)", kind: ErrArity},
		{input: "(f 1)", kind: ErrArity},
		{input: "(car 1 2)", kind: ErrArity},
		{input: "((lambda (1) 1) 2)", kind: ErrFormals},
		{input: "(lambda (x 1) x)", kind: ErrFormals},
		{input: "(+ 1 . 2)", kind: ErrImproperList},
		{input: "(quote)", kind: ErrSyntax},
		{input: "(quote 1 2)", kind: ErrSyntax},
		{input: "(lambda (x))", kind: ErrSyntax},
		{input: "(define)", kind: ErrSyntax},
		{input: "(define 5 1)", kind: ErrSyntax},
		{input: "(define x 1 2)", kind: ErrSyntax},
		{input: "(if)", kind: ErrSyntax},
		{input: "(let ((x)) x)", kind: ErrSyntax},
		{input: "(apply + 1)", kind: ErrType},
		{input: "(string-append \"a\" 'b)", kind: ErrType},
		{input: "(symbol->string \"a\")", kind: ErrType},
		{input: "(+ 1 (car '()))", kind: ErrType},
	} {
		v, err := in.Eval(tt.input)
		if err == nil {
			t.Errorf("%d) %s: expected error, got %s", i, tt.input, v)
			continue
		}
		if v != nil {
			t.Errorf("%d) %s: got value %s alongside error", i, tt.input, v)
		}
		if !errors.Is(err, tt.kind) {
			t.Errorf("%d) %s: got %v want kind %v", i, tt.input, err, tt.kind)
		}
		var ee *EvalError
		if !errors.As(err, &ee) {
			t.Errorf("%d) %s: got %T want *EvalError", i, tt.input, err)
			continue
		}
		if ee.Form == nil {
			t.Errorf("%d) %s: error carries no form", i, tt.input)
		}
	}
}

func TestErrorHandler(t *testing.T) {
	var seen []error
	in := newTestInterpreter(WithErrorHandler(func(err error) {
		seen = append(seen, err)
	}))
	if _, err := in.Eval("(+ 1 2)"); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 0 {
		t.Fatalf("handler called on success: %v", seen)
	}
	_, err := in.Eval("(car nope)")
	if len(seen) != 1 || seen[0] != err {
		t.Fatalf("got handler calls %v want exactly %v", seen, err)
	}
	_, err = in.Eval("(1 2")
	if len(seen) != 2 || !IsIncomplete(seen[1]) {
		t.Fatalf("reader error not passed to handler: %v", seen)
	}
	if err == nil {
		t.Fatal("expected reader error")
	}
}

func TestStateSurvivesErrors(t *testing.T) {
	in := newTestInterpreter()
	for i, tt := range []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "(define a 1)", want: "a"},
		{input: "(define b (car 1))", wantErr: true},
		{input: "a", want: "1"},
		{input: "b", wantErr: true},
		{input: "(define a (+ a 1)) (car '()) (define a 100)", wantErr: true},
		{input: "a", want: "2"},
	} {
		v, err := in.Eval(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%d) expected error, got %s", i, v)
			}
			continue
		}
		if err != nil {
			t.Errorf("%d) eval error %v", i, err)
			continue
		}
		if got := v.String(); got != tt.want {
			t.Errorf("%d) got %s want %s", i, got, tt.want)
		}
	}
}

func TestSelfEvaluating(t *testing.T) {
	in := newTestInterpreter()
	car, _ := in.Lookup("car")
	lam, err := in.Eval("(lambda (x) x)")
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range []*Value{
		in.Nil(), in.Bool(true), in.Bool(false), in.Number(1.5), in.Str("s"), car, lam,
	} {
		got, err := in.EvalEnv(in.Root(), v)
		if err != nil {
			t.Errorf("%d) eval error %v", i, err)
			continue
		}
		if got != v {
			t.Errorf("%d) %s did not evaluate to itself", i, v)
		}
		again, _ := in.EvalEnv(in.Root(), got)
		if again != v {
			t.Errorf("%d) evaluating %s twice changed it", i, v)
		}
	}
}

func TestBuiltinSeesRawOperands(t *testing.T) {
	in := newTestInterpreter()
	var seen *Value
	in.AddBuiltin("raw", func(in *Interpreter, operands *Value, env *Env) (*Value, error) {
		seen = operands
		return in.Nil(), nil
	})
	if _, err := in.Eval("(raw (+ 1 2) x)"); err != nil {
		t.Fatal(err)
	}
	if got := seen.String(); got != "((+ 1 2) x)" {
		t.Errorf("got %s want ((+ 1 2) x)", got)
	}
	// Apply wraps evaluated arguments for builtins in the quote builtin.
	if _, err := in.Apply(in.Root(), mustLookup(t, in, "raw"), []*Value{in.Number(3)}); err != nil {
		t.Fatal(err)
	}
	ops, err := seen.Slice()
	if err != nil || len(ops) != 1 {
		t.Fatalf("got operands %s want one", seen)
	}
	wrapped, err := ops[0].Slice()
	if err != nil || len(wrapped) != 2 {
		t.Fatalf("got %s want a two element call", ops[0])
	}
	if wrapped[0] != mustLookup(t, in, "quote") {
		t.Errorf("got operator %s want the quote builtin", wrapped[0].Describe())
	}
	if !wrapped[1].IsNumber() || wrapped[1].AsNumber() != 3 {
		t.Errorf("got argument %s want 3", wrapped[1])
	}
}

func TestApplyIgnoresQuoteBinding(t *testing.T) {
	in := newTestInterpreter()
	for i, tt := range []struct {
		input   string
		want    string
		wantErr error
	}{
		{input: "((lambda (quote) (apply + (list 1 2))) 0)", want: "3"},
		{input: "((lambda (quote) (apply list '(a b))) 0)", want: "(a b)"},
		{input: "(apply define '(y 1))", wantErr: ErrSyntax},
		{input: "'a", want: "a"},
		{input: "(procedure? quote)", want: "#t"},
	} {
		v, err := in.Eval(tt.input)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("%d) got %v want %v", i, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("%d) eval error %v", i, err)
			continue
		}
		if got := v.String(); got != tt.want {
			t.Errorf("%d) got %s want %s", i, got, tt.want)
		}
	}
	if q := mustLookup(t, in, "quote"); !q.IsFunction() {
		t.Errorf("quote rebound to %s", q.Describe())
	}
	in.Define("quote", in.Number(0))
	in.Collect()
	v, err := in.Apply(in.Root(), mustLookup(t, in, "list"), []*Value{in.Atom("z")})
	if err != nil || v.String() != "(z)" {
		t.Errorf("got %v, %v want (z) after quote was rebound and collected", v, err)
	}
}

func TestDisplay(t *testing.T) {
	var buf bytes.Buffer
	in := newTestInterpreter(WithOutput(&buf))
	if _, err := in.Eval(`(display "hi") (newline) (display '(1 "two")) (newline)`); err != nil {
		t.Fatal(err)
	}
	want := "hi\n(1 \"two\")\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestOutputErrors(t *testing.T) {
	in := newTestInterpreter(WithOutput(failingWriter{}))
	for i, input := range []string{`(display "hi")`, "(display 1)", "(newline)"} {
		_, err := in.Eval(input)
		if err == nil || !strings.Contains(err.Error(), "disk full") {
			t.Errorf("%d) %s: got %v want the write error", i, input, err)
		}
	}
}

func TestNonFiniteNumbers(t *testing.T) {
	in := newTestInterpreter()
	for i, tt := range []struct {
		input string
		want  string
	}{
		{input: "(/ 1 0)", want: "+inf.0"},
		{input: "(/ -1 0)", want: "-inf.0"},
		{input: "(- (/ 1 0) (/ 1 0))", want: "+nan.0"},
		{input: "(< -inf.0 0 +inf.0)", want: "#t"},
		{input: "(number? +nan.0)", want: "#t"},
	} {
		v, err := in.Eval(tt.input)
		if err != nil {
			t.Errorf("%d) eval error %v", i, err)
			continue
		}
		got := v.String()
		if got != tt.want {
			t.Errorf("%d) got %s want %s", i, got, tt.want)
		}
		back, err := in.Read(got)
		if err != nil || !back.IsNumber() && !back.IsBool() {
			t.Errorf("%d) %s does not read back: %v, %v", i, got, back, err)
		}
	}
}

func TestDefineFromInnerScope(t *testing.T) {
	in := newTestInterpreter()
	if _, err := in.Eval("((lambda (y) (define z (* y 2))) 21)"); err != nil {
		t.Fatal(err)
	}
	z, ok := in.Lookup("z")
	if !ok {
		t.Fatal("define inside a lambda did not reach the root")
	}
	if got := z.String(); got != "42" {
		t.Errorf("got %s want 42", got)
	}
	if _, ok := in.Lookup("y"); ok {
		t.Error("lambda parameter leaked into the root")
	}
}

func TestWithoutPrelude(t *testing.T) {
	in := newTestInterpreter(WithoutPrelude())
	_, err := in.Eval("(map car '((1)))")
	if !errors.Is(err, ErrUnbound) {
		t.Errorf("got %v want unbound map", err)
	}
	if !strings.Contains(err.Error(), "map") {
		t.Errorf("error %q does not name the atom", err)
	}
}

func mustLookup(t *testing.T, in *Interpreter, name string) *Value {
	t.Helper()
	v, ok := in.Lookup(name)
	if !ok {
		t.Fatalf("%s is not bound", name)
	}
	return v
}
