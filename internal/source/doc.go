// Package source adapts Go syntax trees to what effect inference needs: an
// index of functions with their ordered parameters, bodies and effect
// directives, package-level string constants, and qualified callee names.
//
// Directives are line comments in a function's doc comment:
//
//	//effect:declare args=(name as N), side_effects=(read_file(N)), returns=(N)
//	func load(name string) string { … }
//
//	//effect:entrypoint
//	func main() { … }
//
// A declare payload continues over the following plain comment lines of the
// same group while it ends with a comma or a plus, or has an open group, so
// long declarations can be wrapped:
//
//	//effect:declare args=(dir as D, name as N),
//	//	side_effects=(read_file(D + '/' + N)),
//	//	returns=(D + '/' + N)
//
// A complete payload ends at its line. Prose below it stays documentation.
package source
