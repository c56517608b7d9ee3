// Package tracing infers effects of Go functions by symbolic evaluation
// over the syntax tree.
//
// Every string value is approximated with a lattice.State. The engine walks
// a function body statement by statement, keeping bindings in a scope
// indexed by statement number, and follows calls:
//
//   - declared functions contribute their effect statements, evaluated
//     against the call arguments, and the state of their returns
//     expression;
//   - a few standard library helpers (fmt.Sprintf, path.Join and the like)
//     are evaluated directly;
//   - functions of the analyzed package are inferred recursively, with
//     memoization, a recursion guard and a depth limit;
//   - everything else yields an unknown value and a diagnostic.
//
// Non-fatal problems go to a Reporter. Conditions that make the result
// meaningless abort the run with an *Error.
package tracing
