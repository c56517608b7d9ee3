package tracing

import (
	"fmt"
	"go/token"

	"github.com/sirkon/effectful/internal/effrules"
)

// ErrorKind classifies fatal analysis conditions.
type ErrorKind int

const (
	errorKindInvalid ErrorKind = iota
	KindGrammarParse
	KindUnsupportedPattern
	KindUnresolvedVariable
	KindArityMismatch
	KindDepthExceeded
)

func (k ErrorKind) String() string {
	switch k {
	case KindGrammarParse:
		return "grammar parse"
	case KindUnsupportedPattern:
		return "unsupported binding pattern"
	case KindUnresolvedVariable:
		return "unresolved variable"
	case KindArityMismatch:
		return "arity mismatch"
	case KindDepthExceeded:
		return "depth exceeded"
	default:
		return fmt.Sprintf("error-kind-invalid(%d)", k)
	}
}

// Rule returns the diagnostic code matching the kind.
func (k ErrorKind) Rule() effrules.Rule {
	switch k {
	case KindGrammarParse:
		return effrules.GrammarParse()
	case KindUnsupportedPattern:
		return effrules.UnsupportedPattern()
	case KindUnresolvedVariable:
		return effrules.UnresolvedVariable()
	case KindArityMismatch:
		return effrules.ArityMismatch()
	case KindDepthExceeded:
		return effrules.DepthExceeded()
	default:
		return effrules.Rule(0)
	}
}

// Error is a fatal condition aborting the analysis of an entrypoint.
type Error struct {
	Kind ErrorKind

	// Func is the function being analysed when the condition was met.
	Func string
	Pos  token.Position
	Msg  string

	// Err is the underlying error, if any.
	Err error
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s", e.Msg, e.Err)
	}

	if e.Pos.IsValid() {
		return fmt.Sprintf("%s in %s at %s: %s", e.Kind, e.Func, e.Pos, msg)
	}
	return fmt.Sprintf("%s in %s: %s", e.Kind, e.Func, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}
