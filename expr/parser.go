package expr

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lvillar/doclayout"
)

// parse compiles one expression body into a tree. Grammar, loosest first:
//
//	ternary   := or [ "?" ternary ":" ternary ]
//	or        := and { "||" and }
//	and       := equality { "&&" equality }
//	equality  := compare { ("==" | "!=") compare }
//	compare   := additive { ("<" | "<=" | ">" | ">=") additive }
//	additive  := multiply { ("+" | "-") multiply }
//	multiply  := unary { ("*" | "/" | "%") unary }
//	unary     := ("!" | "-") unary | postfix
//	postfix   := primary { "." ident [ "(" args ")" ] | "[" ternary "]" }
//	primary   := number | string | true | false | null
//	           | ident [ "(" args ")" ] | "(" ternary ")"
func parse(src string) (exprNode, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	node, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if p.peek().typ != tokEOF {
		t := p.peek()
		return nil, fmt.Errorf("unexpected %q at position %d", t.text, t.pos)
	}
	return node, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.typ != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) accept(typ tokenType) bool {
	if p.peek().typ == typ {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(typ tokenType, what string) error {
	if !p.accept(typ) {
		t := p.peek()
		if t.typ == tokEOF {
			return fmt.Errorf("expected %s, found end of expression", what)
		}
		return fmt.Errorf("expected %s, found %q at position %d", what, t.text, t.pos)
	}
	return nil
}

func (p *parser) parseTernary() (exprNode, error) {
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.accept(tokQuestion) {
		return cond, nil
	}
	then, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokColon, "':'"); err != nil {
		return nil, err
	}
	els, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	return &condNode{cond: cond, then: then, els: els}, nil
}

func (p *parser) parseOr() (exprNode, error) {
	return p.parseBinary([]tokenType{tokOr}, p.parseAnd)
}

func (p *parser) parseAnd() (exprNode, error) {
	return p.parseBinary([]tokenType{tokAnd}, p.parseEquality)
}

func (p *parser) parseEquality() (exprNode, error) {
	return p.parseBinary([]tokenType{tokEq, tokNotEq}, p.parseCompare)
}

func (p *parser) parseCompare() (exprNode, error) {
	return p.parseBinary([]tokenType{tokLess, tokLessEq, tokGreater, tokGreaterEq}, p.parseAdditive)
}

func (p *parser) parseAdditive() (exprNode, error) {
	return p.parseBinary([]tokenType{tokPlus, tokMinus}, p.parseMultiply)
}

func (p *parser) parseMultiply() (exprNode, error) {
	return p.parseBinary([]tokenType{tokStar, tokSlash, tokPercent}, p.parseUnary)
}

func (p *parser) parseBinary(ops []tokenType, sub func() (exprNode, error)) (exprNode, error) {
	left, err := sub()
	if err != nil {
		return nil, err
	}
	for {
		matched := false
		for _, op := range ops {
			if p.peek().typ == op {
				p.next()
				right, err := sub()
				if err != nil {
					return nil, err
				}
				left = &binaryNode{op: op, l: left, r: right}
				matched = true
				break
			}
		}
		if !matched {
			return left, nil
		}
	}
}

func (p *parser) parseUnary() (exprNode, error) {
	switch p.peek().typ {
	case tokNot, tokMinus:
		op := p.next().typ
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unaryNode{op: op, operand: operand}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (exprNode, error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.accept(tokDot):
			name := p.peek()
			if err := p.expect(tokIdent, "member name"); err != nil {
				return nil, err
			}
			if p.accept(tokLParen) {
				args, err := p.parseArgs()
				if err != nil {
					return nil, err
				}
				node = &methodNode{recv: node, name: name.text, args: args}
			} else {
				node = &memberNode{recv: node, name: name.text}
			}
		case p.accept(tokLBracket):
			idx, err := p.parseTernary()
			if err != nil {
				return nil, err
			}
			if err := p.expect(tokRBracket, "']'"); err != nil {
				return nil, err
			}
			node = &indexNode{recv: node, idx: idx}
		default:
			return node, nil
		}
	}
}

func (p *parser) parsePrimary() (exprNode, error) {
	t := p.peek()
	switch t.typ {
	case tokNumber:
		p.next()
		d, err := decimal.NewFromString(t.text)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q at position %d", t.text, t.pos)
		}
		return &literalNode{v: doclayout.NumberValue(d)}, nil
	case tokString:
		p.next()
		return &literalNode{v: doclayout.StringValue(t.text)}, nil
	case tokTrue:
		p.next()
		return &literalNode{v: doclayout.BoolValue(true)}, nil
	case tokFalse:
		p.next()
		return &literalNode{v: doclayout.BoolValue(false)}, nil
	case tokNull:
		p.next()
		return &literalNode{v: doclayout.NullValue()}, nil
	case tokIdent:
		p.next()
		if p.accept(tokLParen) {
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			return &callNode{fn: t.text, args: args}, nil
		}
		return &identNode{name: t.text}, nil
	case tokLParen:
		p.next()
		node, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return node, nil
	case tokEOF:
		return nil, fmt.Errorf("unexpected end of expression")
	}
	return nil, fmt.Errorf("unexpected %q at position %d", t.text, t.pos)
}

// parseArgs parses a call argument list; the opening paren is consumed.
func (p *parser) parseArgs() ([]exprNode, error) {
	var args []exprNode
	if p.accept(tokRParen) {
		return args, nil
	}
	for {
		arg, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.accept(tokComma) {
			continue
		}
		if err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return args, nil
	}
}
