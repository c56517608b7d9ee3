// Package decl defines the typed model of an effect declaration.
//
// A declaration is the parsed form of the payload attached to a function with
// the declare directive:
//
//	//effect:declare args=(dir as D, name as N),
//	//	side_effects=(read_file(D + '/' + N)),
//	//	returns=(D + '/' + N)
//
// It consists of argument bindings (a positional parameter paired with an
// alias usable inside the declaration), effect statements and an optional
// return expression. Values of this package are immutable once built and are
// shared freely between concurrent analyses.
package decl
