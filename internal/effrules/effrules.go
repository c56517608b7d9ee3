// Package effrules defines the canonical diagnostic codes (EFF-series) reported by effectful.
//
// Code numbering scheme:
//
//	000–049  Declarations and directives
//	050–099  Symbolic evaluation, non-fatal
//	100–149  Symbolic evaluation, fatal
package effrules

import "fmt"

// Rule represents an effectful diagnostic code.
type Rule int

const (
	ruleInvalid Rule = iota

	EFF000GrammarParse
	EFF010DirectivePayload
	EFF020DuplicateDeclaration
	EFF050UnresolvedCallee
	EFF055UnsupportedExpression
	EFF060NonStringValue
	EFF065UnsupportedAssignOp
	EFF070RecursionCycle
	EFF080Effect
	EFF100UnsupportedPattern
	EFF110UnresolvedVariable
	EFF120ArityMismatch
	EFF130DepthExceeded
)

// String returns the canonical code and short name of the rule.
// Example: "EFF050: UnresolvedCallee"
func (r Rule) String() string {
	switch r {
	case EFF000GrammarParse:
		return "EFF000: GrammarParse"
	case EFF010DirectivePayload:
		return "EFF010: DirectivePayload"
	case EFF020DuplicateDeclaration:
		return "EFF020: DuplicateDeclaration"
	case EFF050UnresolvedCallee:
		return "EFF050: UnresolvedCallee"
	case EFF055UnsupportedExpression:
		return "EFF055: UnsupportedExpression"
	case EFF060NonStringValue:
		return "EFF060: NonStringValue"
	case EFF065UnsupportedAssignOp:
		return "EFF065: UnsupportedAssignOp"
	case EFF070RecursionCycle:
		return "EFF070: RecursionCycle"
	case EFF080Effect:
		return "EFF080: Effect"
	case EFF100UnsupportedPattern:
		return "EFF100: UnsupportedPattern"
	case EFF110UnresolvedVariable:
		return "EFF110: UnresolvedVariable"
	case EFF120ArityMismatch:
		return "EFF120: ArityMismatch"
	case EFF130DepthExceeded:
		return "EFF130: DepthExceeded"
	default:
		return fmt.Sprintf("rule-unknown(%d)", r)
	}
}

// Description returns the human-readable explanation of the rule.
func (r Rule) Description() string {
	switch r {
	case EFF000GrammarParse:
		return "Effect declaration text is malformed."
	case EFF010DirectivePayload:
		return "Entrypoint directive takes no payload."
	case EFF020DuplicateDeclaration:
		return "Function is declared more than once."
	case EFF050UnresolvedCallee:
		return "Callee is neither declared nor defined locally, its result is unknown."
	case EFF055UnsupportedExpression:
		return "Expression shape is not modelled, its value is unknown."
	case EFF060NonStringValue:
		return "Only string values are tracked, the value is unknown."
	case EFF065UnsupportedAssignOp:
		return "Only += is modelled among assignment operators."
	case EFF070RecursionCycle:
		return "Recursive call with the same arguments, its result is unknown."
	case EFF080Effect:
		return "Function may trigger an effect."
	case EFF100UnsupportedPattern:
		return "Only identifiers and tuples of identifiers can be bound."
	case EFF110UnresolvedVariable:
		return "Variable has no visible binding."
	case EFF120ArityMismatch:
		return "Call passes fewer arguments than the callee binds."
	case EFF130DepthExceeded:
		return "Call depth limit exceeded."
	default:
		return fmt.Sprintf("unknown-rule(%d)", r)
	}
}

// Fatal reports whether the rule aborts the analysis of an entrypoint.
func (r Rule) Fatal() bool {
	switch r {
	case EFF000GrammarParse,
		EFF100UnsupportedPattern,
		EFF110UnresolvedVariable,
		EFF120ArityMismatch,
		EFF130DepthExceeded:
		return true
	default:
		return false
	}
}

// Canonical constructors.

func GrammarParse() Rule          { return EFF000GrammarParse }
func DirectivePayload() Rule      { return EFF010DirectivePayload }
func DuplicateDeclaration() Rule  { return EFF020DuplicateDeclaration }
func UnresolvedCallee() Rule      { return EFF050UnresolvedCallee }
func UnsupportedExpression() Rule { return EFF055UnsupportedExpression }
func NonStringValue() Rule        { return EFF060NonStringValue }
func UnsupportedAssignOp() Rule   { return EFF065UnsupportedAssignOp }
func RecursionCycle() Rule        { return EFF070RecursionCycle }
func Effect() Rule                { return EFF080Effect }
func UnsupportedPattern() Rule    { return EFF100UnsupportedPattern }
func UnresolvedVariable() Rule    { return EFF110UnresolvedVariable }
func ArityMismatch() Rule         { return EFF120ArityMismatch }
func DepthExceeded() Rule         { return EFF130DepthExceeded }
