package tracing

import (
	"math"

	"github.com/sirkon/rbtree"

	"github.com/sirkon/effectful/internal/lattice"
)

// binding is a value of a name valid for statements [start, end]. Bindings
// of the same name never overlap: a new binding cuts the previous one right
// before its own statement.
type binding struct {
	start int
	end   int
	value lattice.State
}

// Cmp orders disjoint bindings. Overlapping spans compare equal.
func (b *binding) Cmp(other *binding) int {
	if b.end < other.start {
		return -1
	}
	if b.start > other.end {
		return 1
	}
	return 0
}

type nameBindings struct {
	tree *rbtree.Tree[*binding]
	last *binding
}

// scope keeps bindings of a single function invocation or of a nested block
// of it. Statement indices are shared by a scope and its children.
type scope struct {
	parent *scope
	names  map[string]*nameBindings
}

func newScope(parent *scope) *scope {
	return &scope{
		parent: parent,
		names:  map[string]*nameBindings{},
	}
}

// bind adds a binding of the name visible from the statement with the given
// index on. Statement indices passed to bind never decrease.
func (s *scope) bind(name string, index int, v lattice.State) {
	nb, ok := s.names[name]
	if !ok {
		nb = &nameBindings{tree: rbtree.New[*binding]()}
		s.names[name] = nb
	}

	if last := nb.last; last != nil {
		if last.start >= index {
			// Rebinding within the same statement.
			last.value = v
			return
		}

		// The last binding is the rightmost one, so shrinking it keeps the
		// tree ordered.
		last.end = index - 1
	}

	b := &binding{
		start: index,
		end:   math.MaxInt,
		value: v,
	}
	nb.tree.InsertReturn(b)
	nb.last = b
}

// lookup returns the binding of the name with the largest start not greater
// than index, searching enclosing scopes when this one has none.
func (s *scope) lookup(name string, index int) (lattice.State, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		nb, ok := sc.names[name]
		if !ok {
			continue
		}

		if b := nb.covering(index); b != nil {
			return b.value, true
		}
	}

	return lattice.State{}, false
}

// covering returns the binding whose span holds the index, if any. Spans
// come out of the tree ordered by start.
func (nb *nameBindings) covering(index int) *binding {
	for b := range nb.tree.Iter() {
		if b.start > index {
			break
		}
		if b.end >= index {
			return b
		}
	}

	return nil
}
