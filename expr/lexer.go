package expr

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenType int

const (
	tokEOF tokenType = iota
	tokIdent
	tokNumber
	tokString
	tokTrue
	tokFalse
	tokNull
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPercent
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokComma
	tokDot
	tokNot
	tokLess
	tokLessEq
	tokGreater
	tokGreaterEq
	tokEq
	tokNotEq
	tokAnd
	tokOr
	tokQuestion
	tokColon
)

type token struct {
	typ  tokenType
	text string
	pos  int
}

// lex scans src into a token stream. It fails on the first character it
// cannot form a token from.
func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c >= '0' && c <= '9':
			start := i
			sawDot := false
			for i < len(src) && (src[i] >= '0' && src[i] <= '9' || src[i] == '.' && !sawDot && i+1 < len(src) && src[i+1] >= '0' && src[i+1] <= '9') {
				if src[i] == '.' {
					sawDot = true
				}
				i++
			}
			toks = append(toks, token{tokNumber, src[start:i], start})
		case c == '\'' || c == '"':
			lit, next, err := lexString(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{tokString, lit, i})
			i = next
		default:
			r, w := utf8.DecodeRuneInString(src[i:])
			if !isIdentStart(r) {
				typ, width, err := lexOperator(src, i)
				if err != nil {
					return nil, err
				}
				toks = append(toks, token{typ, src[i : i+width], i})
				i += width
				break
			}
			start := i
			i += w
			for i < len(src) {
				r, w := utf8.DecodeRuneInString(src[i:])
				if !isIdentPart(r) {
					break
				}
				i += w
			}
			word := src[start:i]
			switch word {
			case "true":
				toks = append(toks, token{tokTrue, word, start})
			case "false":
				toks = append(toks, token{tokFalse, word, start})
			case "null":
				toks = append(toks, token{tokNull, word, start})
			default:
				toks = append(toks, token{tokIdent, word, start})
			}
		}
	}
	toks = append(toks, token{tokEOF, "", len(src)})
	return toks, nil
}

func lexOperator(src string, i int) (tokenType, int, error) {
	two := ""
	if i+1 < len(src) {
		two = src[i : i+2]
	}
	switch two {
	case "<=":
		return tokLessEq, 2, nil
	case ">=":
		return tokGreaterEq, 2, nil
	case "==":
		return tokEq, 2, nil
	case "!=":
		return tokNotEq, 2, nil
	case "&&":
		return tokAnd, 2, nil
	case "||":
		return tokOr, 2, nil
	}
	switch src[i] {
	case '+':
		return tokPlus, 1, nil
	case '-':
		return tokMinus, 1, nil
	case '*':
		return tokStar, 1, nil
	case '/':
		return tokSlash, 1, nil
	case '%':
		return tokPercent, 1, nil
	case '(':
		return tokLParen, 1, nil
	case ')':
		return tokRParen, 1, nil
	case '[':
		return tokLBracket, 1, nil
	case ']':
		return tokRBracket, 1, nil
	case ',':
		return tokComma, 1, nil
	case '.':
		return tokDot, 1, nil
	case '!':
		return tokNot, 1, nil
	case '<':
		return tokLess, 1, nil
	case '>':
		return tokGreater, 1, nil
	case '?':
		return tokQuestion, 1, nil
	case ':':
		return tokColon, 1, nil
	}
	r, _ := utf8.DecodeRuneInString(src[i:])
	return tokEOF, 0, fmt.Errorf("unexpected character %q at position %d", r, i)
}

func lexString(src string, i int) (string, int, error) {
	quote := src[i]
	var b strings.Builder
	j := i + 1
	for j < len(src) {
		c := src[j]
		switch c {
		case quote:
			return b.String(), j + 1, nil
		case '\\':
			if j+1 >= len(src) {
				return "", 0, fmt.Errorf("unterminated string literal at position %d", i)
			}
			j++
			switch src[j] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '\\', '\'', '"':
				b.WriteByte(src[j])
			default:
				return "", 0, fmt.Errorf("invalid escape \\%c at position %d", src[j], j)
			}
			j++
		default:
			b.WriteByte(c)
			j++
		}
	}
	return "", 0, fmt.Errorf("unterminated string literal at position %d", i)
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
