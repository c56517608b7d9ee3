// Package lattice implements the abstract value domain of effect inference.
//
// A State is an ordered list of segments, each either a known literal or a
// hole standing for a statically unknown part of a string:
//
//	"~/" + <unknown> + ".json" // [Literal("~/"), Hole, Literal(".json")]
//
// States are values: every operation returns a new State and never changes
// its operands.
package lattice

import (
	"strconv"
	"strings"
)

// =============================================================================
// Segment
// =============================================================================

// Segment is a single piece of a State.
type Segment struct {
	hole  bool
	value string
}

// Literal returns a known segment.
func (s Segment) Literal() (string, bool) {
	return s.value, !s.hole
}

// IsHole reports whether the segment is unknown.
func (s Segment) IsHole() bool {
	return s.hole
}

// =============================================================================
// State
// =============================================================================

// State is a lattice value. The zero State is not valid, use constructors.
type State struct {
	segs []Segment
}

// Literal returns a fully known State.
func Literal(s string) State {
	return State{segs: []Segment{{value: s}}}
}

// Hole returns a fully unknown State.
func Hole() State {
	return State{segs: []Segment{{hole: true}}}
}

// Concat appends b's segments after a's. No hole is inserted at the seam.
func Concat(a, b State) State {
	segs := make([]Segment, 0, len(a.segs)+len(b.segs))
	segs = append(segs, a.segs...)
	segs = append(segs, b.segs...)

	return State{segs: segs}
}

// ConcatAll folds states with Concat. Returns Literal("") for no states.
func ConcatAll(states ...State) State {
	if len(states) == 0 {
		return Literal("")
	}

	res := states[0]
	for _, s := range states[1:] {
		res = Concat(res, s)
	}

	return res
}

// Optimize coalesces consecutive literal segments. Holes stay boundaries.
// Optimize is idempotent.
func Optimize(s State) State {
	segs := make([]Segment, 0, len(s.segs))
	for _, seg := range s.segs {
		last := len(segs) - 1
		if last >= 0 && !seg.hole && !segs[last].hole {
			segs[last].value += seg.value
			continue
		}
		segs = append(segs, seg)
	}

	return State{segs: segs}
}

// Render returns a glob pattern of the state: literal segments verbatim and
// "*" for every hole.
func Render(s State) string {
	var b strings.Builder
	for _, seg := range s.segs {
		if seg.hole {
			b.WriteByte('*')
			continue
		}
		b.WriteString(seg.value)
	}

	return b.String()
}

// Segments returns a copy of the state's segments.
func (s State) Segments() []Segment {
	res := make([]Segment, len(s.segs))
	copy(res, s.segs)

	return res
}

// Valid reports whether the state was built with constructors.
func (s State) Valid() bool {
	return len(s.segs) > 0
}

// Known returns the string value if the state has no holes.
func (s State) Known() (string, bool) {
	var b strings.Builder
	for _, seg := range s.segs {
		if seg.hole {
			return "", false
		}
		b.WriteString(seg.value)
	}

	return b.String(), len(s.segs) > 0
}

// Equal compares normalized forms of states.
func Equal(a, b State) bool {
	na, nb := Optimize(a), Optimize(b)
	if len(na.segs) != len(nb.segs) {
		return false
	}
	for i := range na.segs {
		if na.segs[i] != nb.segs[i] {
			return false
		}
	}

	return true
}

// Key returns an exact textual identity of the normalized state. Unlike
// Render it distinguishes a hole from a literal "*".
func Key(s State) string {
	var b strings.Builder
	for _, seg := range Optimize(s).segs {
		if seg.hole {
			b.WriteString("?")
			continue
		}
		b.WriteString(strconv.Quote(seg.value))
	}

	return b.String()
}

// String is the same as Render.
func (s State) String() string {
	return Render(s)
}
