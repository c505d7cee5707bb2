package lisp

import (
	"reflect"
	"testing"
)

func TestEnvScoping(t *testing.T) {
	in := newTestInterpreter(WithoutPrelude())
	v1, v2, v3 := in.Intern("v1"), in.Intern("v2"), in.Intern("v3")

	root := in.NewEnv(nil)
	child := in.NewEnv(root)
	grandChild := in.NewEnv(child)

	for _, e := range []*Env{root, child, grandChild} {
		for _, name := range []Name{v1, v2, v3} {
			if _, ok := e.Lookup(name); ok {
				t.Fatalf("%s bound in an empty env", *name)
			}
		}
	}

	root.Define(v1, in.Number(1))
	root.Define(v2, in.Number(2))
	root.Define(v3, in.Number(3))
	child.Define(v2, in.Number(12))
	child.Define(v3, in.Number(13))
	grandChild.Define(v3, in.Number(23))

	for i, tt := range []struct {
		env  *Env
		name Name
		want float64
	}{
		{env: root, name: v1, want: 1},
		{env: root, name: v2, want: 2},
		{env: root, name: v3, want: 3},
		{env: child, name: v1, want: 1},
		{env: child, name: v2, want: 12},
		{env: child, name: v3, want: 13},
		{env: grandChild, name: v1, want: 1},
		{env: grandChild, name: v2, want: 12},
		{env: grandChild, name: v3, want: 23},
	} {
		v, ok := tt.env.Lookup(tt.name)
		if !ok {
			t.Errorf("%d) %s unbound", i, *tt.name)
			continue
		}
		if got := v.AsNumber(); got != tt.want {
			t.Errorf("%d) got %v want %v", i, got, tt.want)
		}
	}

	if !root.IsRoot() || child.IsRoot() {
		t.Error("IsRoot wrong")
	}
	if grandChild.Root() != root || grandChild.Parent() != child {
		t.Error("grand child does not lead back to its root")
	}
	if got, want := child.Names(), []string{"v2", "v3"}; !reflect.DeepEqual(got, want) {
		t.Errorf("got names %v want %v", got, want)
	}
}

func TestEnvRedefine(t *testing.T) {
	in := newTestInterpreter(WithoutPrelude())
	e := in.NewEnv(nil)
	x := in.Intern("x")
	e.Define(x, in.Number(1))
	e.Define(in.Intern("x"), in.Number(2))
	if e.Len() != 1 {
		t.Fatalf("got %d bindings want 1", e.Len())
	}
	v, _ := e.Lookup(x)
	if v.AsNumber() != 2 {
		t.Errorf("got %v want 2", v.AsNumber())
	}
}
