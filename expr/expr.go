// Package expr implements the {{ ... }} expression language evaluated
// against a RenderContext: property paths, indexing, arithmetic on exact
// decimals, comparisons, boolean logic, a ternary operator, and a small
// allow-listed set of functions and string methods. Compiled expressions are
// cached in a bounded LRU keyed by source text; a security denylist rejects
// anything resembling reflection, filesystem, or process access.
package expr

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/shopspring/decimal"

	"github.com/lvillar/doclayout"
)

// Error is an expression failure: syntax error, undefined identifier, type
// mismatch, or denylist violation. It is always attributed to the offending
// expression text.
type Error struct {
	Expr    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("expression %q: %s", e.Expr, e.Message)
}

func newError(expr, format string, args ...any) *Error {
	return &Error{Expr: expr, Message: fmt.Sprintf(format, args...)}
}

const (
	defaultCacheSize = 256
	maxSourceLength  = 2048
)

// Evaluator compiles and evaluates expressions. The compiled-expression
// cache is safe for concurrent use across independent render calls; all
// mutable evaluation state lives in the RenderContext passed per call.
type Evaluator struct {
	cache  *lru.Cache[string, *program]
	maxLen int
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithCacheSize bounds the compiled-expression cache.
func WithCacheSize(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			c, err := lru.New[string, *program](n)
			if err == nil {
				e.cache = c
			}
		}
	}
}

// WithMaxLength overrides the maximum accepted expression length.
func WithMaxLength(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.maxLen = n
		}
	}
}

// NewEvaluator creates an Evaluator with a bounded compiled-expression
// cache.
func NewEvaluator(opts ...Option) *Evaluator {
	cache, err := lru.New[string, *program](defaultCacheSize)
	if err != nil {
		panic(err) // only returns an error for a non-positive size
	}
	e := &Evaluator{cache: cache, maxLen: maxSourceLength}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// compile returns the cached program for src, parsing on a miss. The
// denylist is enforced here, so it covers both validation and evaluation.
func (e *Evaluator) compile(src string) (*program, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, newError(src, "expression is empty")
	}
	if len(src) > e.maxLen {
		return nil, newError(src, "expression exceeds maximum length of %d characters", e.maxLen)
	}
	if err := checkForbidden(src); err != nil {
		return nil, newError(src, "%v", err)
	}
	if p, ok := e.cache.Get(src); ok {
		return p, nil
	}
	root, err := parse(src)
	if err != nil {
		return nil, newError(src, "%v", err)
	}
	p := &program{src: src, root: root}
	e.cache.Add(src, p)
	return p, nil
}

// Evaluate evaluates a bare expression body (no braces) against rc.
func (e *Evaluator) Evaluate(src string, rc *doclayout.RenderContext) (doclayout.Value, error) {
	if rc == nil {
		return doclayout.Value{}, newError(src, "render context is nil")
	}
	p, err := e.compile(src)
	if err != nil {
		return doclayout.Value{}, err
	}
	return p.run(rc)
}

// EvaluateString replaces every {{ expr }} span in text with the string
// form of its value. Text without expression spans is returned untouched.
// If any contained expression fails, the whole call fails with no partial
// substitution.
func (e *Evaluator) EvaluateString(text string, rc *doclayout.RenderContext) (string, error) {
	if !ContainsExpressions(text) {
		return text, nil
	}
	var b strings.Builder
	rest := text
	for {
		open := strings.Index(rest, "{{")
		if open < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		close := strings.Index(rest[open+2:], "}}")
		if close < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		b.WriteString(rest[:open])
		body := rest[open+2 : open+2+close]
		v, err := e.Evaluate(strings.TrimSpace(body), rc)
		if err != nil {
			return "", err
		}
		b.WriteString(v.String())
		rest = rest[open+2+close+2:]
	}
}

// EvaluateCondition evaluates src and coerces the result to a boolean:
// booleans pass through, numbers are truthy iff non-zero, strings iff
// non-empty, null is falsy.
func (e *Evaluator) EvaluateCondition(src string, rc *doclayout.RenderContext) (bool, error) {
	v, err := e.Evaluate(src, rc)
	if err != nil {
		return false, err
	}
	return v.IsTruthy(), nil
}

// EvaluateCollection evaluates src and requires an iterable result. A null
// result yields an empty sequence; anything else non-iterable fails.
func (e *Evaluator) EvaluateCollection(src string, rc *doclayout.RenderContext) ([]doclayout.Value, error) {
	v, err := e.Evaluate(src, rc)
	if err != nil {
		return nil, err
	}
	switch v.Type() {
	case doclayout.NullType:
		return []doclayout.Value{}, nil
	case doclayout.ArrayType:
		return v.Items(), nil
	}
	return nil, newError(src, "result of type %s is not iterable", v.Type())
}

// EvaluateText evaluates src and renders the result as a string.
func (e *Evaluator) EvaluateText(src string, rc *doclayout.RenderContext) (string, error) {
	v, err := e.Evaluate(src, rc)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// EvaluateNumber evaluates src and requires a numeric result; a string is a
// type-conversion mismatch, not a parse opportunity.
func (e *Evaluator) EvaluateNumber(src string, rc *doclayout.RenderContext) (decimal.Decimal, error) {
	v, err := e.Evaluate(src, rc)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if v.Type() != doclayout.NumberType {
		return decimal.Decimal{}, newError(src, "cannot convert %s to number", v.Type())
	}
	return v.Number(), nil
}

// EvaluateInt evaluates src as a number and truncates to an int.
func (e *Evaluator) EvaluateInt(src string, rc *doclayout.RenderContext) (int, error) {
	d, err := e.EvaluateNumber(src, rc)
	if err != nil {
		return 0, err
	}
	return int(d.IntPart()), nil
}

// EvaluateFloat evaluates src as a number and converts to float64.
func (e *Evaluator) EvaluateFloat(src string, rc *doclayout.RenderContext) (float64, error) {
	d, err := e.EvaluateNumber(src, rc)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

// EvaluateBool evaluates src and requires a strictly boolean result.
// Use EvaluateCondition for truthy coercion.
func (e *Evaluator) EvaluateBool(src string, rc *doclayout.RenderContext) (bool, error) {
	v, err := e.Evaluate(src, rc)
	if err != nil {
		return false, err
	}
	if v.Type() != doclayout.BoolType {
		return false, newError(src, "cannot convert %s to boolean", v.Type())
	}
	return v.Bool(), nil
}

// TryEvaluate is the non-throwing variant of Evaluate.
func (e *Evaluator) TryEvaluate(src string, rc *doclayout.RenderContext) (doclayout.Value, bool) {
	v, err := e.Evaluate(src, rc)
	return v, err == nil
}

// TryEvaluateString is the non-throwing variant of EvaluateString.
func (e *Evaluator) TryEvaluateString(text string, rc *doclayout.RenderContext) (string, bool) {
	s, err := e.EvaluateString(text, rc)
	return s, err == nil
}

// TryEvaluateCondition is the non-throwing variant of EvaluateCondition.
func (e *Evaluator) TryEvaluateCondition(src string, rc *doclayout.RenderContext) (bool, bool) {
	b, err := e.EvaluateCondition(src, rc)
	return b, err == nil
}

// TryEvaluateNumber is the non-throwing variant of EvaluateNumber.
func (e *Evaluator) TryEvaluateNumber(src string, rc *doclayout.RenderContext) (decimal.Decimal, bool) {
	d, err := e.EvaluateNumber(src, rc)
	return d, err == nil
}

// ValidateExpression checks syntax and security policy without evaluating
// against any context. A nil result means the expression is acceptable.
func (e *Evaluator) ValidateExpression(src string) error {
	_, err := e.compile(src)
	return err
}

// ContainsExpressions reports whether text contains at least one balanced
// {{ ... }} span.
func ContainsExpressions(text string) bool {
	open := strings.Index(text, "{{")
	return open >= 0 && strings.Contains(text[open+2:], "}}")
}

// ExtractExpressions returns the trimmed bodies of every {{ ... }} span in
// text, in order of appearance.
func ExtractExpressions(text string) []string {
	var out []string
	rest := text
	for {
		open := strings.Index(rest, "{{")
		if open < 0 {
			return out
		}
		close := strings.Index(rest[open+2:], "}}")
		if close < 0 {
			return out
		}
		out = append(out, strings.TrimSpace(rest[open+2:open+2+close]))
		rest = rest[open+2+close+2:]
	}
}

// program is an immutable compiled expression. It is stateless and safe for
// concurrent evaluation against independent contexts.
type program struct {
	src  string
	root exprNode
}

func (p *program) run(rc *doclayout.RenderContext) (doclayout.Value, error) {
	v, err := p.root.eval(rc)
	if err != nil {
		if _, ok := err.(*Error); ok {
			return doclayout.Value{}, err
		}
		return doclayout.Value{}, &Error{Expr: p.src, Message: err.Error()}
	}
	return v, nil
}
