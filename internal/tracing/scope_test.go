package tracing

import (
	"testing"

	"github.com/sirkon/effectful/internal/lattice"
)

func TestScopeShadowing(t *testing.T) {
	root := newScope(nil)

	if _, ok := root.lookup("a", 0); ok {
		t.Fatal("nothing was expected for a right now")
	}

	root.bind("a", 0, lattice.Literal("param"))
	root.bind("a", 3, lattice.Literal("second"))
	root.bind("b", 2, lattice.Hole())
	root.bind("a", 7, lattice.Literal("third"))

	child := newScope(root)
	child.bind("a", 9, lattice.Literal("inner"))

	type test struct {
		name  string
		sc    *scope
		ident string
		index int
		want  string
		isnil bool
	}
	testingFunc := func(tt test) func(t *testing.T) {
		return func(t *testing.T) {
			v, ok := tt.sc.lookup(tt.ident, tt.index)
			if !ok && !tt.isnil {
				t.Fatalf("%s was not found at statement %d", tt.ident, tt.index)
			}
			if ok && tt.isnil {
				t.Fatalf("no binding of %s was expected at statement %d, got %s", tt.ident, tt.index, v)
			}
			if !ok {
				return
			}
			if got := lattice.Render(v); got != tt.want {
				t.Fatalf("%q was expected for %s at statement %d, got %q", tt.want, tt.ident, tt.index, got)
			}
		}
	}

	tests := []test{
		{name: "param", sc: root, ident: "a", index: 0, want: "param"},
		{name: "param-still", sc: root, ident: "a", index: 2, want: "param"},
		{name: "second", sc: root, ident: "a", index: 3, want: "second"},
		{name: "second-still", sc: root, ident: "a", index: 6, want: "second"},
		{name: "third", sc: root, ident: "a", index: 100, want: "third"},
		{name: "b-before", sc: root, ident: "b", index: 1, isnil: true},
		{name: "b-hole", sc: root, ident: "b", index: 2, want: "*"},
		{name: "parent-fallback", sc: child, ident: "a", index: 8, want: "third"},
		{name: "child-shadow", sc: child, ident: "a", index: 9, want: "inner"},
		{name: "parent-unchanged", sc: root, ident: "a", index: 9, want: "third"},
		{name: "parent-name", sc: child, ident: "b", index: 9, want: "*"},
		{name: "missing", sc: child, ident: "c", index: 9, isnil: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, testingFunc(tt))
	}
}

func TestScopeRebindSameStatement(t *testing.T) {
	sc := newScope(nil)
	sc.bind("x", 1, lattice.Literal("a"))
	sc.bind("x", 1, lattice.Literal("b"))

	v, ok := sc.lookup("x", 1)
	if !ok {
		t.Fatal("x was expected at statement 1")
	}
	if got := lattice.Render(v); got != "b" {
		t.Fatalf("b was expected, got %q", got)
	}
}
