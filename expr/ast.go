package expr

import (
	"fmt"

	"github.com/lvillar/doclayout"
)

// exprNode is one node of a compiled expression tree. Nodes are immutable
// after parsing; all mutable state lives in the RenderContext.
type exprNode interface {
	eval(rc *doclayout.RenderContext) (doclayout.Value, error)
}

type literalNode struct {
	v doclayout.Value
}

func (n *literalNode) eval(*doclayout.RenderContext) (doclayout.Value, error) {
	return n.v, nil
}

type identNode struct {
	name string
}

func (n *identNode) eval(rc *doclayout.RenderContext) (doclayout.Value, error) {
	v, ok := rc.Lookup(n.name)
	if !ok {
		return doclayout.Value{}, fmt.Errorf("undefined identifier %q", n.name)
	}
	return v, nil
}

// memberNode is a dotted access: object field, or the Length/Count
// pseudo-properties on strings and sequences. A member of null or a missing
// object field resolves to null so optional data paths stay expressible.
type memberNode struct {
	recv exprNode
	name string
}

func (n *memberNode) eval(rc *doclayout.RenderContext) (doclayout.Value, error) {
	recv, err := n.recv.eval(rc)
	if err != nil {
		return doclayout.Value{}, err
	}
	switch n.name {
	case "Length":
		if t := recv.Type(); t == doclayout.StringType || t == doclayout.ArrayType {
			return doclayout.IntValue(int64(recv.Len())), nil
		}
	case "Count":
		if t := recv.Type(); t == doclayout.ArrayType || t == doclayout.ObjectType {
			return doclayout.IntValue(int64(recv.Len())), nil
		}
	}
	switch recv.Type() {
	case doclayout.NullType:
		return doclayout.NullValue(), nil
	case doclayout.ObjectType:
		v, ok := recv.Field(n.name)
		if !ok {
			return doclayout.NullValue(), nil
		}
		return v, nil
	}
	return doclayout.Value{}, fmt.Errorf("cannot access member %q of %s value", n.name, recv.Type())
}

type indexNode struct {
	recv exprNode
	idx  exprNode
}

func (n *indexNode) eval(rc *doclayout.RenderContext) (doclayout.Value, error) {
	recv, err := n.recv.eval(rc)
	if err != nil {
		return doclayout.Value{}, err
	}
	idx, err := n.idx.eval(rc)
	if err != nil {
		return doclayout.Value{}, err
	}
	switch recv.Type() {
	case doclayout.ArrayType:
		if idx.Type() != doclayout.NumberType {
			return doclayout.Value{}, fmt.Errorf("array index must be a number, got %s", idx.Type())
		}
		i := int(idx.Number().IntPart())
		v, ok := recv.Index(i)
		if !ok {
			return doclayout.Value{}, fmt.Errorf("index %d out of range (length %d)", i, recv.Len())
		}
		return v, nil
	case doclayout.ObjectType:
		if idx.Type() != doclayout.StringType {
			return doclayout.Value{}, fmt.Errorf("object key must be a string, got %s", idx.Type())
		}
		v, ok := recv.Field(idx.Text())
		if !ok {
			return doclayout.NullValue(), nil
		}
		return v, nil
	}
	return doclayout.Value{}, fmt.Errorf("cannot index %s value", recv.Type())
}

type callNode struct {
	fn   string
	args []exprNode
}

func (n *callNode) eval(rc *doclayout.RenderContext) (doclayout.Value, error) {
	fn, ok := builtinFuncs[n.fn]
	if !ok {
		return doclayout.Value{}, fmt.Errorf("unknown function %q", n.fn)
	}
	args, err := evalAll(n.args, rc)
	if err != nil {
		return doclayout.Value{}, err
	}
	return fn(args)
}

type methodNode struct {
	recv exprNode
	name string
	args []exprNode
}

func (n *methodNode) eval(rc *doclayout.RenderContext) (doclayout.Value, error) {
	m, ok := valueMethods[n.name]
	if !ok {
		return doclayout.Value{}, fmt.Errorf("unknown method %q", n.name)
	}
	recv, err := n.recv.eval(rc)
	if err != nil {
		return doclayout.Value{}, err
	}
	args, err := evalAll(n.args, rc)
	if err != nil {
		return doclayout.Value{}, err
	}
	return m(recv, args)
}

func evalAll(nodes []exprNode, rc *doclayout.RenderContext) ([]doclayout.Value, error) {
	args := make([]doclayout.Value, len(nodes))
	for i, a := range nodes {
		v, err := a.eval(rc)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

type unaryNode struct {
	op      tokenType
	operand exprNode
}

func (n *unaryNode) eval(rc *doclayout.RenderContext) (doclayout.Value, error) {
	v, err := n.operand.eval(rc)
	if err != nil {
		return doclayout.Value{}, err
	}
	switch n.op {
	case tokNot:
		return doclayout.BoolValue(!v.IsTruthy()), nil
	case tokMinus:
		if v.Type() != doclayout.NumberType {
			return doclayout.Value{}, fmt.Errorf("cannot negate %s value", v.Type())
		}
		return doclayout.NumberValue(v.Number().Neg()), nil
	}
	return doclayout.Value{}, fmt.Errorf("invalid unary operator")
}

type binaryNode struct {
	op   tokenType
	l, r exprNode
}

func (n *binaryNode) eval(rc *doclayout.RenderContext) (doclayout.Value, error) {
	// Short-circuit logic first.
	switch n.op {
	case tokAnd:
		l, err := n.l.eval(rc)
		if err != nil {
			return doclayout.Value{}, err
		}
		if !l.IsTruthy() {
			return doclayout.BoolValue(false), nil
		}
		r, err := n.r.eval(rc)
		if err != nil {
			return doclayout.Value{}, err
		}
		return doclayout.BoolValue(r.IsTruthy()), nil
	case tokOr:
		l, err := n.l.eval(rc)
		if err != nil {
			return doclayout.Value{}, err
		}
		if l.IsTruthy() {
			return doclayout.BoolValue(true), nil
		}
		r, err := n.r.eval(rc)
		if err != nil {
			return doclayout.Value{}, err
		}
		return doclayout.BoolValue(r.IsTruthy()), nil
	}

	l, err := n.l.eval(rc)
	if err != nil {
		return doclayout.Value{}, err
	}
	r, err := n.r.eval(rc)
	if err != nil {
		return doclayout.Value{}, err
	}

	switch n.op {
	case tokEq:
		return doclayout.BoolValue(l.Equal(r)), nil
	case tokNotEq:
		return doclayout.BoolValue(!l.Equal(r)), nil
	case tokLess, tokLessEq, tokGreater, tokGreaterEq:
		cmp, err := compareValues(l, r)
		if err != nil {
			return doclayout.Value{}, err
		}
		switch n.op {
		case tokLess:
			return doclayout.BoolValue(cmp < 0), nil
		case tokLessEq:
			return doclayout.BoolValue(cmp <= 0), nil
		case tokGreater:
			return doclayout.BoolValue(cmp > 0), nil
		default:
			return doclayout.BoolValue(cmp >= 0), nil
		}
	case tokPlus:
		if l.Type() == doclayout.NumberType && r.Type() == doclayout.NumberType {
			return doclayout.NumberValue(l.Number().Add(r.Number())), nil
		}
		if l.Type() == doclayout.StringType || r.Type() == doclayout.StringType {
			return doclayout.StringValue(l.String() + r.String()), nil
		}
		return doclayout.Value{}, fmt.Errorf("cannot add %s and %s", l.Type(), r.Type())
	case tokMinus, tokStar, tokSlash, tokPercent:
		if l.Type() != doclayout.NumberType || r.Type() != doclayout.NumberType {
			return doclayout.Value{}, fmt.Errorf("arithmetic requires numbers, got %s and %s", l.Type(), r.Type())
		}
		ln, rn := l.Number(), r.Number()
		switch n.op {
		case tokMinus:
			return doclayout.NumberValue(ln.Sub(rn)), nil
		case tokStar:
			return doclayout.NumberValue(ln.Mul(rn)), nil
		case tokSlash:
			if rn.IsZero() {
				return doclayout.Value{}, fmt.Errorf("division by zero")
			}
			return doclayout.NumberValue(ln.Div(rn)), nil
		default:
			if rn.IsZero() {
				return doclayout.Value{}, fmt.Errorf("division by zero")
			}
			return doclayout.NumberValue(ln.Mod(rn)), nil
		}
	}
	return doclayout.Value{}, fmt.Errorf("invalid binary operator")
}

func compareValues(l, r doclayout.Value) (int, error) {
	if l.Type() == doclayout.NumberType && r.Type() == doclayout.NumberType {
		return l.Number().Cmp(r.Number()), nil
	}
	if l.Type() == doclayout.StringType && r.Type() == doclayout.StringType {
		switch {
		case l.Text() < r.Text():
			return -1, nil
		case l.Text() > r.Text():
			return 1, nil
		default:
			return 0, nil
		}
	}
	return 0, fmt.Errorf("cannot compare %s and %s", l.Type(), r.Type())
}

type condNode struct {
	cond, then, els exprNode
}

func (n *condNode) eval(rc *doclayout.RenderContext) (doclayout.Value, error) {
	c, err := n.cond.eval(rc)
	if err != nil {
		return doclayout.Value{}, err
	}
	if c.IsTruthy() {
		return n.then.eval(rc)
	}
	return n.els.eval(rc)
}
