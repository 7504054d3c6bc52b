package formula

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/example/cocsheet/internal/errs"
)

// MaxLength is the longest accepted source, in characters.
const MaxLength = 200

// Multiplicative operators as users must spell them.
const (
	MulSign = '×'
	DivSign = '÷'
)

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokAbility
	tokPlus
	tokMinus
	tokMul
	tokDiv
	tokLParen
	tokRParen
)

func (k tokenKind) isOperator() bool {
	return k == tokPlus || k == tokMinus || k == tokMul || k == tokDiv
}

type token struct {
	kind  tokenKind
	text  string
	value int64
	pos   int
}

// forbidden substrings are rejected before tokenizing; the grammar already
// excludes all of them.
var forbidden = []string{
	"eval", "exec", "import", "__", "drop", "delete", "update", "insert",
	";", "--", "/*", "*/", "script",
}

// Abilities lists the symbols a formula may reference.
var Abilities = []string{"STR", "CON", "POW", "DEX", "APP", "SIZ", "INT", "EDU"}

func isAbility(s string) bool {
	for _, a := range Abilities {
		if a == s {
			return true
		}
	}
	return false
}

func domainErr(format string, args ...any) error {
	return errs.Domain("formula", format, args...)
}

// tokenize validates source and splits it into tokens.
func tokenize(source string) ([]token, error) {
	if utf8.RuneCountInString(source) > MaxLength {
		return nil, domainErr("formula exceeds %d characters", MaxLength)
	}

	lower := strings.ToLower(source)
	for _, f := range forbidden {
		if strings.Contains(lower, f) {
			return nil, domainErr("formula contains forbidden sequence %q", f)
		}
	}

	var tokens []token
	runes := []rune(source)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r >= '0' && r <= '9':
			start := i
			for i < len(runes) && runes[i] >= '0' && runes[i] <= '9' {
				i++
			}
			text := string(runes[start:i])
			v, err := strconv.ParseInt(text, 10, 32)
			if err != nil {
				return nil, domainErr("integer literal %s is too large", text)
			}
			tokens = append(tokens, token{kind: tokNumber, text: text, value: v, pos: start})
		case r < utf8.RuneSelf && unicode.IsLetter(r):
			start := i
			for i < len(runes) && runes[i] < utf8.RuneSelf && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i])) {
				i++
			}
			text := string(runes[start:i])
			if !isAbility(text) {
				return nil, domainErr("unknown identifier %q (allowed: %s)", text, strings.Join(Abilities, " "))
			}
			tokens = append(tokens, token{kind: tokAbility, text: text, pos: start})
		default:
			kind, ok := operatorKind(r)
			if !ok {
				if r == '*' || r == '/' {
					return nil, domainErr("use × and ÷ instead of %q", string(r))
				}
				return nil, domainErr("disallowed character %q at position %d", string(r), i)
			}
			tokens = append(tokens, token{kind: kind, text: string(r), pos: i})
			i++
		}
	}

	if len(tokens) == 0 {
		return nil, domainErr("formula is empty")
	}

	for i := 1; i < len(tokens); i++ {
		if tokens[i-1].kind.isOperator() && tokens[i].kind.isOperator() {
			return nil, domainErr("adjacent operators %q%q at position %d", tokens[i-1].text, tokens[i].text, tokens[i].pos)
		}
	}

	return tokens, nil
}

func operatorKind(r rune) (tokenKind, bool) {
	switch r {
	case '+':
		return tokPlus, true
	case '-':
		return tokMinus, true
	case MulSign:
		return tokMul, true
	case DivSign:
		return tokDiv, true
	case '(':
		return tokLParen, true
	case ')':
		return tokRParen, true
	}
	return 0, false
}
