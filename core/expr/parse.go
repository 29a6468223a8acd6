// core/expr/parse.go
package expr

import (
	"fmt"
	"strings"

	"kpath-core/ident"
)

// SyntaxError reports malformed definition text: unbalanced parentheses, a
// dangling operator, or an ill-formed identifier token. Pos is a 0-based
// byte offset into Input.
type SyntaxError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("definition syntax error at offset %d: %s (in %q)", e.Pos, e.Msg, e.Input)
}

// Parse converts one module definition into an expression tree.
//
// Grammar (single left-to-right pass, structural recursion into brackets):
//
//	expression := term (' ' term)*        space joins required steps (AND)
//	term       := andTerm (',' andTerm)*  comma separates alternatives (OR)
//	andTerm    := factor (('+' | '-') factor)*
//	factor     := identifier | '(' expression ')'
//
// '+' chains required complex subunits; '-' marks the following subunit as
// optional. Consecutive or trailing separators fail rather than producing an
// empty atom.
func Parse(definition string) (Node, error) {
	p := &parser{in: strings.TrimSpace(definition)}
	if p.in == "" {
		return nil, p.fail(0, "empty definition")
	}
	n, err := p.expression()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.in) {
		return nil, p.fail(p.pos, fmt.Sprintf("unexpected %q", p.in[p.pos]))
	}
	return n, nil
}

type parser struct {
	in  string
	pos int
}

func (p *parser) fail(pos int, msg string) error {
	return &SyntaxError{Input: p.in, Pos: pos, Msg: msg}
}

func (p *parser) peek() (byte, bool) {
	if p.pos >= len(p.in) {
		return 0, false
	}
	return p.in[p.pos], true
}

func (p *parser) expression() (Node, error) {
	first, err := p.term()
	if err != nil {
		return nil, err
	}
	children := []Node{first}
	for {
		c, ok := p.peek()
		if !ok || c != ' ' {
			break
		}
		p.pos++
		next, err := p.term()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return And{Children: children}, nil
}

func (p *parser) term() (Node, error) {
	first, err := p.andTerm()
	if err != nil {
		return nil, err
	}
	alts := []Node{first}
	for {
		c, ok := p.peek()
		if !ok || c != ',' {
			break
		}
		p.pos++
		next, err := p.andTerm()
		if err != nil {
			return nil, err
		}
		alts = append(alts, next)
	}
	if len(alts) == 1 {
		return alts[0], nil
	}
	return Or{Children: alts}, nil
}

func (p *parser) andTerm() (Node, error) {
	first, err := p.factor()
	if err != nil {
		return nil, err
	}
	parts := []Node{first}
	for {
		c, ok := p.peek()
		if !ok || (c != '+' && c != '-') {
			break
		}
		p.pos++
		next, err := p.factor()
		if err != nil {
			return nil, err
		}
		if c == '-' {
			next = Optional{Child: next}
		}
		parts = append(parts, next)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return And{Children: parts}, nil
}

func (p *parser) factor() (Node, error) {
	c, ok := p.peek()
	if !ok {
		return nil, p.fail(p.pos, "missing operand at end of input")
	}
	if c == '(' {
		open := p.pos
		p.pos++
		n, err := p.expression()
		if err != nil {
			return nil, err
		}
		if c, ok := p.peek(); !ok || c != ')' {
			return nil, p.fail(open, "unbalanced '('")
		}
		p.pos++
		return n, nil
	}
	start := p.pos
	for p.pos < len(p.in) && !isSeparator(p.in[p.pos]) {
		p.pos++
	}
	tok := p.in[start:p.pos]
	if tok == "" {
		return nil, p.fail(start, fmt.Sprintf("missing operand before %q", c))
	}
	id, err := ident.Parse(tok)
	if err != nil {
		return nil, p.fail(start, err.Error())
	}
	return Atom{ID: id}, nil
}

func isSeparator(c byte) bool {
	switch c {
	case ' ', '(', ')', '+', '-', ',':
		return true
	}
	return false
}
