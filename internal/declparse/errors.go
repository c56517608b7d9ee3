package declparse

import (
	"fmt"
)

// Error describes malformed declaration text.
type Error struct {
	// Text is the full declaration text being parsed.
	Text string

	// Offset is a byte offset in Text where the problem was detected.
	Offset int

	// Msg describes the problem.
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse declaration at offset %d: %s near %q", e.Offset, e.Msg, e.Near())
}

// Near returns a short fragment of the text starting at the error offset.
func (e *Error) Near() string {
	const fragmentLimit = 24

	if e.Offset >= len(e.Text) {
		return "<end of text>"
	}

	rest := e.Text[e.Offset:]
	if len(rest) > fragmentLimit {
		rest = rest[:fragmentLimit] + "…"
	}

	return rest
}
