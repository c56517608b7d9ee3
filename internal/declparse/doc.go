// Package declparse parses the effect declaration grammar:
//
//	declaration := ["("] ["args" "=" args ","] "side_effects" "=" effects
//	               ["," "returns" "=" ["("] expr [")"]] [","] [")"]
//	args        := "(" (arg ("," arg)*)? ")"
//	arg         := ident "as" ident
//	effects     := "(" (effect ("," effect)*)? ")"
//	effect      := ident "(" (expr ("," expr)*)? ")" ["as" ident]
//	expr        := operand ["+" expr]
//	operand     := litstr | ident
//	litstr      := "'" chars "'" | '"' chars '"'
//
// Whitespace is insignificant around tokens. The first top-level "+" of an
// expression splits it into a single operand on the left and the rest on the
// right. Parenthesized sub-expressions are not supported and are reported as
// errors rather than silently accepted.
//
// Parsing is a pure function of its input: the same text always produces an
// equal declaration or the same error.
package declparse
