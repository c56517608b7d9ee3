package source

import (
	"go/ast"
	"go/token"
	"strings"
)

// DefaultPrefix is the directive namespace used when none is configured.
const DefaultPrefix = "effect"

// DirectiveKind tells what a directive marks.
type DirectiveKind int

const (
	directiveKindInvalid DirectiveKind = iota
	DirectiveDeclare
	DirectiveEntrypoint
)

func (k DirectiveKind) String() string {
	switch k {
	case DirectiveDeclare:
		return "declare"
	case DirectiveEntrypoint:
		return "entrypoint"
	default:
		return "invalid"
	}
}

// Directive is a single effect directive found in a doc comment.
type Directive struct {
	Kind    DirectiveKind
	Payload string
	Pos     token.Pos
}

// directives extracts effect directives with the given prefix from the
// comment group.
func directives(prefix string, doc *ast.CommentGroup) []Directive {
	if doc == nil {
		return nil
	}

	lead := "//" + prefix + ":"
	var res []Directive
	var cur *Directive
	for _, c := range doc.List {
		text := c.Text
		if strings.HasPrefix(text, lead) {
			name, payload, _ := strings.Cut(text[len(lead):], " ")
			var kind DirectiveKind
			switch strings.TrimSpace(name) {
			case "declare":
				kind = DirectiveDeclare
			case "entrypoint":
				kind = DirectiveEntrypoint
			default:
				cur = nil
				continue
			}

			res = append(res, Directive{
				Kind:    kind,
				Payload: strings.TrimSpace(payload),
				Pos:     c.Pos(),
			})
			cur = &res[len(res)-1]
			continue
		}

		// Another tool's directive ends the payload.
		if isDirective(text) || cur == nil {
			cur = nil
			continue
		}

		if line, ok := strings.CutPrefix(text, "//"); ok {
			line = strings.TrimSpace(line)
			if line == "" || !unfinished(cur.Payload) {
				cur = nil
				continue
			}
			if cur.Payload != "" {
				cur.Payload += " "
			}
			cur.Payload += line
		}
	}

	return res
}

// unfinished reports whether the payload continues on the next line: it ends
// with a comma or a plus, or has a group left open.
func unfinished(payload string) bool {
	if strings.HasSuffix(payload, ",") || strings.HasSuffix(payload, "+") {
		return true
	}

	var depth int
	var quote byte
	for i := 0; i < len(payload); i++ {
		b := payload[i]
		switch {
		case quote != 0:
			if b == quote {
				quote = 0
			}
		case b == '\'' || b == '"':
			quote = b
		case b == '(':
			depth++
		case b == ')':
			depth--
		}
	}

	return depth > 0
}

// isDirective mimics go/ast's notion of a directive comment: "//" directly
// followed by a lowercase word and a colon.
func isDirective(text string) bool {
	rest, ok := strings.CutPrefix(text, "//")
	if !ok || rest == "" {
		return false
	}

	colon := strings.IndexByte(rest, ':')
	if colon <= 0 {
		return false
	}
	for i := 0; i < colon; i++ {
		if b := rest[i]; !(b >= 'a' && b <= 'z' || b >= '0' && b <= '9') {
			return false
		}
	}

	return true
}
