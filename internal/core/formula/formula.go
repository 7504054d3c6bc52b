// Package formula evaluates the restricted arithmetic used for occupation
// points and derived skill bases.
//
// Grammar:
//
//	expr   := term (('+' | '-') term)*
//	term   := factor (('×' | '÷') factor)*
//	factor := INTEGER | ABILITY | '(' expr ')'
//
// Ability symbols substitute the raw ability value. Division truncates toward
// zero; the final result is clamped to zero from below.
package formula

import (
	"math"
)

// Vars maps ability symbols to their values.
type Vars map[string]int

// Formula is a validated, parsed expression ready for evaluation.
type Formula struct {
	source string
	tokens []token
}

// Parse validates source and checks it against the grammar.
func Parse(source string) (*Formula, error) {
	tokens, err := tokenize(source)
	if err != nil {
		return nil, err
	}

	// dry run with every ability at 1 to surface grammar errors early
	p := &parser{tokens: tokens, vars: unitVars, lenient: true}
	if _, err := p.parse(); err != nil {
		return nil, err
	}

	return &Formula{source: source, tokens: tokens}, nil
}

// String returns the original source.
func (f *Formula) String() string {
	return f.source
}

// Eval evaluates the formula against vars.
func (f *Formula) Eval(vars Vars) (int, error) {
	p := &parser{tokens: f.tokens, vars: vars}
	v, err := p.parse()
	if err != nil {
		return 0, err
	}
	if v < 0 {
		v = 0
	}
	return int(v), nil
}

// Evaluate parses and evaluates source in one step.
func Evaluate(source string, vars Vars) (int, error) {
	f, err := Parse(source)
	if err != nil {
		return 0, err
	}
	return f.Eval(vars)
}

var unitVars = Vars{"STR": 1, "CON": 1, "POW": 1, "DEX": 1, "APP": 1, "SIZ": 1, "INT": 1, "EDU": 1}

type parser struct {
	tokens []token
	pos    int
	vars   Vars
	// lenient skips division by zero; used when only the grammar is checked
	lenient bool
}

func (p *parser) parse() (int64, error) {
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	if p.pos < len(p.tokens) {
		t := p.tokens[p.pos]
		return 0, domainErr("unexpected %q at position %d", t.text, t.pos)
	}
	return v, nil
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) expr() (int64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		t, ok := p.peek()
		if !ok || (t.kind != tokPlus && t.kind != tokMinus) {
			return left, nil
		}
		p.pos++
		right, err := p.term()
		if err != nil {
			return 0, err
		}
		if t.kind == tokPlus {
			left, err = add(left, right)
		} else {
			left, err = add(left, -right)
		}
		if err != nil {
			return 0, err
		}
	}
}

func (p *parser) term() (int64, error) {
	left, err := p.factor()
	if err != nil {
		return 0, err
	}
	for {
		t, ok := p.peek()
		if !ok || (t.kind != tokMul && t.kind != tokDiv) {
			return left, nil
		}
		p.pos++
		right, err := p.factor()
		if err != nil {
			return 0, err
		}
		if t.kind == tokMul {
			left, err = mul(left, right)
			if err != nil {
				return 0, err
			}
			continue
		}
		if right == 0 {
			if p.lenient {
				left = 0
				continue
			}
			return 0, domainErr("division by zero")
		}
		left /= right
	}
}

func (p *parser) factor() (int64, error) {
	t, ok := p.peek()
	if !ok {
		return 0, domainErr("unexpected end of formula")
	}
	p.pos++

	switch t.kind {
	case tokNumber:
		return t.value, nil
	case tokAbility:
		v, ok := p.vars[t.text]
		if !ok {
			return 0, domainErr("no value for %s", t.text)
		}
		return int64(v), nil
	case tokLParen:
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		closing, ok := p.peek()
		if !ok || closing.kind != tokRParen {
			return 0, domainErr("missing closing parenthesis for position %d", t.pos)
		}
		p.pos++
		return v, nil
	default:
		return 0, domainErr("unexpected %q at position %d", t.text, t.pos)
	}
}

// results are kept within int32 so they fit every stored column
const limit = math.MaxInt32

func add(a, b int64) (int64, error) {
	s := a + b
	if s > limit || s < -limit {
		return 0, domainErr("integer overflow")
	}
	return s, nil
}

func mul(a, b int64) (int64, error) {
	s := a * b
	if s > limit || s < -limit {
		return 0, domainErr("integer overflow")
	}
	return s, nil
}
