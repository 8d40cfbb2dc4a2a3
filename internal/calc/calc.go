// Package calc is a small arithmetic evaluator backing the calculator
// spec suite and the `mdspec run` command.
package calc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Resolver supplies the value of a free variable.
type Resolver func(name string) (float64, error)

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

// Evaluate parses and evaluates an arithmetic expression. Supported:
// float literals, identifiers resolved through lookup, the constants pi
// and e, unary minus, + - * /, and parentheses.
func Evaluate(input string, lookup Resolver) (float64, error) {
	p := &parser{input: strings.TrimSpace(input), lookup: lookup}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos < len(p.input) {
		return 0, fmt.Errorf("unexpected %q in expression", p.input[p.pos:])
	}
	return v, nil
}

// Format renders a value the way calculator specs document it.
func Format(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

type parser struct {
	input  string
	pos    int
	lookup Resolver
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t' || p.input[p.pos] == '\n') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

// expr := term (('+' | '-') term)*
func (p *parser) expr() (float64, error) {
	v, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			rhs, err := p.term()
			if err != nil {
				return 0, err
			}
			v += rhs
		case '-':
			p.pos++
			rhs, err := p.term()
			if err != nil {
				return 0, err
			}
			v -= rhs
		default:
			return v, nil
		}
	}
}

// term := unary (('*' | '/') unary)*
func (p *parser) term() (float64, error) {
	v, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			rhs, err := p.unary()
			if err != nil {
				return 0, err
			}
			v *= rhs
		case '/':
			p.pos++
			rhs, err := p.unary()
			if err != nil {
				return 0, err
			}
			if rhs == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			v /= rhs
		default:
			return v, nil
		}
	}
}

// unary := '-' unary | primary
func (p *parser) unary() (float64, error) {
	if p.peek() == '-' {
		p.pos++
		v, err := p.unary()
		return -v, err
	}
	return p.primary()
}

// primary := number | ident | '(' expr ')'
func (p *parser) primary() (float64, error) {
	c := p.peek()
	switch {
	case c == '(':
		p.pos++
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	case c >= '0' && c <= '9' || c == '.':
		return p.number()
	case isIdentStart(rune(c)):
		return p.ident()
	case c == 0:
		return 0, fmt.Errorf("unexpected end of expression")
	default:
		return 0, fmt.Errorf("unexpected %q in expression", string(c))
	}
}

func (p *parser) number() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) && (p.input[p.pos] >= '0' && p.input[p.pos] <= '9' || p.input[p.pos] == '.') {
		p.pos++
	}
	v, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", p.input[start:p.pos])
	}
	return v, nil
}

func (p *parser) ident() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) && isIdentPart(rune(p.input[p.pos])) {
		p.pos++
	}
	name := p.input[start:p.pos]
	if v, ok := constants[name]; ok {
		return v, nil
	}
	return p.lookup(name)
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
