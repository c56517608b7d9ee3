package declparse

import (
	"github.com/sirkon/effectful/internal/decl"
)

// Parse parses declaration text.
func Parse(text string) (*decl.Declaration, error) {
	c := &cursor{text: text}

	d, err := declaration(c)
	if err != nil {
		return nil, err
	}

	return d, nil
}

// ParseExpr parses a standalone expression.
func ParseExpr(text string) (decl.Expr, error) {
	c := &cursor{text: text}

	e, err := expr(c)
	if err != nil {
		return nil, err
	}

	c.ws()
	if !c.eof() {
		return nil, c.errorf("unexpected text after expression")
	}

	return e, nil
}

func declaration(c *cursor) (*decl.Declaration, error) {
	var res decl.Declaration

	grouped := c.maybe('(')

	if c.assignment("args") {
		args, err := list(c, argBinding)
		if err != nil {
			return nil, err
		}
		if err := c.expect(','); err != nil {
			return nil, err
		}
		res.Args = args
	}

	if !c.assignment("side_effects") {
		return nil, c.errorf("expected side_effects=")
	}
	effects, err := list(c, effectStatement)
	if err != nil {
		return nil, err
	}
	res.Effects = effects

	if c.maybe(',') {
		if c.assignment("returns") {
			ret, err := returns(c)
			if err != nil {
				return nil, err
			}
			res.Returns = ret

			// Trailing comma.
			c.maybe(',')
		}
	}

	if grouped {
		if err := c.expect(')'); err != nil {
			return nil, c.errorf("unterminated group: missing closing ')' of the declaration")
		}
	}

	c.ws()
	if !c.eof() {
		return nil, c.errorf("unexpected text after declaration")
	}

	return &res, nil
}

func argBinding(c *cursor) (decl.ArgBinding, error) {
	param, err := c.ident()
	if err != nil {
		return decl.ArgBinding{}, err
	}

	if !c.keyword("as") {
		return decl.ArgBinding{}, c.errorf("missing 'as' after argument %s", param)
	}

	alias, err := c.ident()
	if err != nil {
		return decl.ArgBinding{}, err
	}

	return decl.ArgBinding{
		Param: param,
		Alias: alias,
	}, nil
}

func effectStatement(c *cursor) (decl.EffectStatement, error) {
	name, err := c.ident()
	if err != nil {
		return decl.EffectStatement{}, err
	}

	args, err := list(c, expr)
	if err != nil {
		return decl.EffectStatement{}, err
	}

	res := decl.EffectStatement{
		Name: name,
		Args: args,
	}
	if c.keyword("as") {
		result, err := c.ident()
		if err != nil {
			return decl.EffectStatement{}, err
		}
		res.Result = result
	}

	return res, nil
}

// returns parses the expression of a returns clause, which may be wrapped
// into a single group.
func returns(c *cursor) (decl.Expr, error) {
	if !c.maybe('(') {
		return expr(c)
	}

	e, err := expr(c)
	if err != nil {
		return nil, err
	}
	if err := c.expect(')'); err != nil {
		return nil, c.errorf("unterminated group: missing closing ')' of returns")
	}

	return e, nil
}

func expr(c *cursor) (decl.Expr, error) {
	lhs, err := operand(c)
	if err != nil {
		return nil, err
	}

	if !c.maybe('+') {
		return lhs, nil
	}

	rhs, err := expr(c)
	if err != nil {
		return nil, err
	}

	return decl.Concat(lhs, rhs), nil
}

func operand(c *cursor) (decl.Expr, error) {
	c.ws()
	switch b := c.peek(); {
	case b == '\'' || b == '"':
		v, err := c.litstr()
		if err != nil {
			return nil, err
		}
		return decl.Lit(v), nil

	case isIdentStart(b):
		name, err := c.ident()
		if err != nil {
			return nil, err
		}
		return decl.Var(name), nil

	case b == '(':
		return nil, c.errorf("nested concatenation is not supported")

	case c.eof():
		return nil, c.errorf("expected expression, got end of text")

	default:
		return nil, c.errorf("expected expression")
	}
}
