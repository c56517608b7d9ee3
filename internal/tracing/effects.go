package tracing

import (
	"go/token"

	"github.com/sirkon/effectful/internal/lattice"
)

// Effect is a resolved effect invocation.
type Effect struct {
	Name string
	Args []lattice.State

	// Via is the declared function whose effect statement produced it.
	Via string

	// Pos is the call site of Via.
	Pos token.Position
}

// Rendered returns glob-rendered arguments.
func (e Effect) Rendered() []string {
	res := make([]string, len(e.Args))
	for i, a := range e.Args {
		res[i] = lattice.Render(a)
	}

	return res
}

// Accumulator is the ordered output of an analysis run. It has a single
// writer and must not be shared between concurrent runs.
type Accumulator struct {
	effects []Effect
}

// Append adds effects in order.
func (a *Accumulator) Append(effects ...Effect) {
	a.effects = append(a.effects, effects...)
}

// Len returns the number of collected effects.
func (a *Accumulator) Len() int {
	return len(a.effects)
}

// Effects returns a copy of the collected effects.
func (a *Accumulator) Effects() []Effect {
	res := make([]Effect, len(a.effects))
	copy(res, a.effects)

	return res
}

// since returns a copy of effects appended after the accumulator had n of
// them.
func (a *Accumulator) since(n int) []Effect {
	res := make([]Effect, len(a.effects)-n)
	copy(res, a.effects[n:])

	return res
}
