// Package declindex maps function names to their parsed effect declarations.
//
// The index is built once per analysis run from every function carrying the
// declare directive plus configured declarations of external functions. It
// is read-only afterwards and may be shared between concurrent analyses.
package declindex

import (
	"fmt"
	"go/token"
	"sort"

	"github.com/sirkon/effectful/internal/decl"
	"github.com/sirkon/effectful/internal/declparse"
	"github.com/sirkon/effectful/internal/effrules"
	"github.com/sirkon/effectful/internal/source"
)

// Reporter receives problems found while building the index.
type Reporter interface {
	Report(rule effrules.Rule, message string, pos token.Position)
}

// Index is the name → declaration table.
type Index struct {
	entries map[string]entry
}

type entry struct {
	decl *decl.Declaration
	err  error
	pos  token.Position
}

// New creates an empty index.
func New() *Index {
	return &Index{entries: map[string]entry{}}
}

// Build scans the program and the given external declarations, keyed by
// qualified function name. Declarations found in the source win over
// externals with the same name.
//
// Malformed declarations do not stop the build: they are reported and kept
// in the index as failures, so only analyses actually reaching them fail.
func Build(prog *source.Program, externals map[string]string, r Reporter) *Index {
	idx := New()

	names := make([]string, 0, len(externals))
	for name := range externals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := idx.Add(name, externals[name], token.Position{}); err != nil && r != nil {
			r.Report(effrules.GrammarParse(), fmt.Sprintf("external %s: %s", name, err), token.Position{})
		}
	}

	if prog == nil {
		return idx
	}

	for _, fn := range prog.Functions() {
		var declared bool
		for _, d := range fn.Directives {
			pos := prog.Position(d.Pos)
			switch d.Kind {
			case source.DirectiveDeclare:
				if declared {
					if r != nil {
						r.Report(effrules.DuplicateDeclaration(), fmt.Sprintf("function %s is declared more than once", fn.Name), pos)
					}
					continue
				}
				declared = true

				idx.Remove(fn.Name)
				if err := idx.Add(fn.Name, d.Payload, pos); err != nil && r != nil {
					r.Report(effrules.GrammarParse(), fmt.Sprintf("function %s: %s", fn.Name, err), pos)
				}

			case source.DirectiveEntrypoint:
				if d.Payload != "" && r != nil {
					r.Report(effrules.DirectivePayload(), fmt.Sprintf("function %s: entrypoint payload %q is ignored", fn.Name, d.Payload), pos)
				}
			}
		}
	}

	return idx
}

// Add parses the text and stores the outcome under the given name. A parse
// failure is stored as well and returned.
func (i *Index) Add(name, text string, pos token.Position) error {
	d, err := declparse.Parse(text)
	if err == nil {
		err = d.Validate()
		if err != nil {
			err = fmt.Errorf("invalid declaration: %w", err)
			d = nil
		}
	}

	i.entries[name] = entry{
		decl: d,
		err:  err,
		pos:  pos,
	}

	return err
}

// Remove deletes an entry if it exists.
func (i *Index) Remove(name string) {
	delete(i.entries, name)
}

// Lookup returns the declaration for a name. The ok result reports whether the
// name is declared at all, a non-nil error means the declaration is
// malformed.
func (i *Index) Lookup(name string) (d *decl.Declaration, ok bool, err error) {
	e, ok := i.entries[name]
	if !ok {
		return nil, false, nil
	}

	return e.decl, true, e.err
}

// Position returns where the declaration of the name was found. Externals
// have a zero position.
func (i *Index) Position(name string) token.Position {
	return i.entries[name].pos
}

// Names returns declared names in sorted order.
func (i *Index) Names() []string {
	res := make([]string, 0, len(i.entries))
	for name := range i.entries {
		res = append(res, name)
	}
	sort.Strings(res)

	return res
}

// Len returns the number of entries including failed ones.
func (i *Index) Len() int {
	return len(i.entries)
}
