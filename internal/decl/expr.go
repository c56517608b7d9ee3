package decl

import "strings"

// Expr marks nodes of the declaration expression language.
type Expr interface {
	isExpr()

	// String renders the expression in the declaration grammar.
	String() string
}

// ExprLit represents a string literal.
//
//	'/'     // Value: "/"
//	"a.txt" // Value: "a.txt"
type ExprLit struct {
	Value string
}

// ExprVar represents a reference to an argument name, its alias or an
// effect result binding.
//
//	D // Name: "D"
type ExprVar struct {
	Name string
}

// ExprConcat represents binary string concatenation. The first top-level "+"
// splits the operands, so LHS is never an ExprConcat while RHS may be one:
//
//	D + '/'     // LHS: <ExprVar>(D), RHS: <ExprLit>("/")
//	D + '/' + N // LHS: <ExprVar>(D), RHS: <ExprConcat>('/' + N)
type ExprConcat struct {
	LHS Expr
	RHS Expr
}

func (*ExprLit) isExpr()    {}
func (*ExprVar) isExpr()    {}
func (*ExprConcat) isExpr() {}

func (e *ExprLit) String() string {
	// Single quotes are preferred, double quotes are used when the value
	// itself carries a single quote. The grammar has no escapes.
	if strings.ContainsRune(e.Value, '\'') {
		return `"` + e.Value + `"`
	}

	return "'" + e.Value + "'"
}

func (e *ExprVar) String() string {
	return e.Name
}

func (e *ExprConcat) String() string {
	return e.LHS.String() + " + " + e.RHS.String()
}

// Lit is a shortcut for &ExprLit{Value: v}.
func Lit(v string) *ExprLit { return &ExprLit{Value: v} }

// Var is a shortcut for &ExprVar{Name: name}.
func Var(name string) *ExprVar { return &ExprVar{Name: name} }

// Concat is a shortcut for &ExprConcat{LHS: lhs, RHS: rhs}.
func Concat(lhs, rhs Expr) *ExprConcat { return &ExprConcat{LHS: lhs, RHS: rhs} }
