package tracing

import (
	"path"
	"strconv"
	"strings"

	"github.com/sirkon/effectful/internal/lattice"
)

// intrinsic models a pure string function without running it.
type intrinsic func(args []lattice.State) lattice.State

var intrinsics = map[string]intrinsic{
	"fmt.Sprintf":        sprintf,
	"path.Join":          joinPath,
	"path/filepath.Join": joinPath,
}

// sprintf substitutes %s and %v with argument states, %q with the quoted
// argument. Other verbs produce holes. A format that is not fully known or
// uses explicit argument indexes yields a hole.
func sprintf(args []lattice.State) lattice.State {
	if len(args) == 0 {
		return lattice.Hole()
	}

	format, ok := args[0].Known()
	if !ok || strings.Contains(format, "%[") {
		return lattice.Hole()
	}
	args = args[1:]

	var parts []lattice.State
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, lattice.Literal(lit.String()))
			lit.Reset()
		}
	}
	next := func() (lattice.State, bool) {
		if len(args) == 0 {
			return lattice.Hole(), false
		}
		v := args[0]
		args = args[1:]
		return v, true
	}

	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			lit.WriteByte(format[i])
			continue
		}

		i++
		if i >= len(format) {
			lit.WriteByte('%')
			break
		}

		switch format[i] {
		case '%':
			lit.WriteByte('%')
		case 's', 'v':
			flush()
			v, _ := next()
			parts = append(parts, v)
		case 'q':
			flush()
			v, _ := next()
			if known, ok := v.Known(); ok {
				parts = append(parts, lattice.Literal(strconv.Quote(known)))
				continue
			}
			parts = append(parts, lattice.Literal(`"`), v, lattice.Literal(`"`))
		default:
			// Flags, width, precision or a non-string verb.
			for i < len(format) && !isVerb(format[i]) {
				i++
			}
			flush()
			_, _ = next()
			parts = append(parts, lattice.Hole())
		}
	}
	flush()

	return lattice.Optimize(lattice.ConcatAll(parts...))
}

func isVerb(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// joinPath models path.Join and filepath.Join with "/" as the separator.
// Fully known arguments are joined and cleaned exactly, otherwise known empty
// elements are dropped and the rest is joined without cleaning.
func joinPath(args []lattice.State) lattice.State {
	known := make([]string, 0, len(args))
	for _, a := range args {
		v, ok := a.Known()
		if !ok {
			break
		}
		known = append(known, v)
	}
	if len(known) == len(args) {
		return lattice.Literal(path.Join(known...))
	}

	var parts []lattice.State
	for _, a := range args {
		if v, ok := a.Known(); ok && v == "" {
			continue
		}
		if len(parts) > 0 {
			parts = append(parts, lattice.Literal("/"))
		}
		parts = append(parts, a)
	}
	if len(parts) == 0 {
		return lattice.Literal("")
	}

	return lattice.Optimize(lattice.ConcatAll(parts...))
}
