package decl

import (
	"fmt"
	"strings"
)

// ArgBinding pairs a positional parameter with the alias used inside the
// declaration's own expressions.
//
//	dir as D // Param: "dir", Alias: "D"
type ArgBinding struct {
	Param string
	Alias string
}

// EffectStatement describes a single effect invocation.
//
//	read_file(D + '/' + N) as Data // Name: "read_file", Args: [D + '/' + N], Result: "Data"
type EffectStatement struct {
	Name   string
	Args   []Expr
	Result string // "" when there is no result binding
}

// Declaration is the parsed payload of a declare directive.
type Declaration struct {
	Args    []ArgBinding
	Effects []EffectStatement

	// Returns is nil when there is no returns clause. Callers of such a
	// function always receive an unknown value.
	Returns Expr
}

// String renders the declaration in the canonical grammar form. Parsing the
// result yields a declaration equal to d.
func (d *Declaration) String() string {
	var b strings.Builder

	if len(d.Args) > 0 {
		b.WriteString("args=(")
		for i, a := range d.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s as %s", a.Param, a.Alias)
		}
		b.WriteString("), ")
	}

	b.WriteString("side_effects=(")
	for i, s := range d.Effects {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(s.String())
	}
	b.WriteString(")")

	if d.Returns != nil {
		b.WriteString(", returns=(")
		b.WriteString(d.Returns.String())
		b.WriteString(")")
	}

	return b.String()
}

func (s *EffectStatement) String() string {
	var b strings.Builder
	b.WriteString(s.Name)
	b.WriteByte('(')
	for i, a := range s.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteByte(')')
	if s.Result != "" {
		b.WriteString(" as ")
		b.WriteString(s.Result)
	}

	return b.String()
}

// Names returns every name visible inside the declaration namespace right
// before the effect statement with the given index is evaluated.
func (d *Declaration) Names(stmt int) []string {
	var res []string
	for _, a := range d.Args {
		res = append(res, a.Param, a.Alias)
	}
	for i := 0; i < stmt && i < len(d.Effects); i++ {
		if r := d.Effects[i].Result; r != "" {
			res = append(res, r)
		}
	}

	return res
}

// Validate checks every variable reference of the declaration is visible at
// the point of use: arguments and aliases everywhere, effect result bindings
// after their statement and in the returns clause.
func (d *Declaration) Validate() error {
	for i, s := range d.Effects {
		visible := nameSet(d.Names(i))
		for _, a := range s.Args {
			if err := checkVars(a, visible); err != nil {
				return fmt.Errorf("effect %s: %w", s.Name, err)
			}
		}
	}

	if d.Returns != nil {
		if err := checkVars(d.Returns, nameSet(d.Names(len(d.Effects)))); err != nil {
			return fmt.Errorf("returns: %w", err)
		}
	}

	return nil
}

func nameSet(names []string) map[string]struct{} {
	res := make(map[string]struct{}, len(names))
	for _, n := range names {
		res[n] = struct{}{}
	}

	return res
}

func checkVars(e Expr, visible map[string]struct{}) error {
	switch v := e.(type) {
	case *ExprVar:
		if _, ok := visible[v.Name]; !ok {
			return fmt.Errorf("unknown name %q", v.Name)
		}
	case *ExprConcat:
		if err := checkVars(v.LHS, visible); err != nil {
			return err
		}
		return checkVars(v.RHS, visible)
	}

	return nil
}
