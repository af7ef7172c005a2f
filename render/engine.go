// Package render walks a layout tree and translates it into drawing
// instructions for a document-building Sink. The Engine evaluates
// visibility and repetition expressions, resolves effective styles, and
// dispatches each node to its per-kind renderer.
package render

import (
	"context"
	"fmt"

	"github.com/lvillar/doclayout"
	"github.com/lvillar/doclayout/expr"
)

// InvalidComponentError is the fatal render-time failure for a kind with no
// registered renderer. It aborts the whole render; there is no best-effort
// fallback.
type InvalidComponentError struct {
	Kind doclayout.Kind
}

func (e *InvalidComponentError) Error() string {
	return fmt.Sprintf("render: no renderer registered for component kind %q", e.Kind)
}

// Engine renders layout trees. It is stateless across calls and safe for
// concurrent use; all per-render state lives in the RenderContext.
type Engine struct {
	eval   *expr.Evaluator
	loader doclayout.ImageLoader
}

// Option configures an Engine.
type Option func(*Engine)

// WithEvaluator shares an expression evaluator (and its compiled-expression
// cache) with the engine.
func WithEvaluator(ev *expr.Evaluator) Option {
	return func(e *Engine) { e.eval = ev }
}

// WithImageLoader installs the image-fetching collaborator used by the
// image renderer. Without one, image instructions carry only the source
// descriptor and the sink resolves it.
func WithImageLoader(l doclayout.ImageLoader) Option {
	return func(e *Engine) { e.loader = l }
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.eval == nil {
		e.eval = expr.NewEvaluator()
	}
	return e
}

// Render renders node and its subtree into sink. Rendering is fail-fast: a
// partially rendered document is not a meaningful result, so the first
// failure aborts the call. The context is checked at every node boundary so
// external cancellation takes effect within one node's processing time.
func (e *Engine) Render(ctx context.Context, sink doclayout.Sink, node *doclayout.LayoutNode, rc *doclayout.RenderContext) error {
	if sink == nil {
		return doclayout.ErrNilSink
	}
	if node == nil {
		return doclayout.ErrNilNode
	}
	if rc == nil {
		return doclayout.ErrNilContext
	}
	return e.renderNode(ctx, sink, node, rc, false)
}

// RenderChildren renders nodes in document order.
func (e *Engine) RenderChildren(ctx context.Context, sink doclayout.Sink, nodes []*doclayout.LayoutNode, rc *doclayout.RenderContext) error {
	if sink == nil {
		return doclayout.ErrNilSink
	}
	if rc == nil {
		return doclayout.ErrNilContext
	}
	for _, n := range nodes {
		if err := e.Render(ctx, sink, n, rc); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) renderNode(ctx context.Context, sink doclayout.Sink, node *doclayout.LayoutNode, rc *doclayout.RenderContext, skipRepeat bool) error {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	// Pagination progress feeds back into the expression environment.
	rc.Page = sink.Page()

	if node.Visible != "" {
		visible, err := e.eval.EvaluateCondition(node.Visible, rc)
		if err != nil {
			return doclayout.WrapNodeError(node, err)
		}
		if !visible {
			return nil
		}
	}

	if node.RepeatFor != "" && !skipRepeat {
		return e.renderRepeat(ctx, sink, node, rc)
	}

	fn, ok := renderers[node.Kind]
	if !ok {
		return &InvalidComponentError{Kind: node.Kind}
	}

	props, err := e.resolveProperties(node, rc)
	if err != nil {
		return doclayout.WrapNodeError(node, err)
	}
	style, err := e.resolveStyle(node, rc)
	if err != nil {
		return doclayout.WrapNodeError(node, err)
	}

	if err := fn(e, ctx, sink, node, props, style, rc); err != nil {
		return doclayout.WrapNodeError(node, err)
	}
	return nil
}

// renderRepeat renders node once per element of its repeatFor collection,
// binding the loop variable and index in a fresh scope per iteration. An
// empty collection renders nothing and leaves the repeat info untouched.
func (e *Engine) renderRepeat(ctx context.Context, sink doclayout.Sink, node *doclayout.LayoutNode, rc *doclayout.RenderContext) error {
	items, err := e.eval.EvaluateCollection(node.RepeatFor, rc)
	if err != nil {
		return doclayout.WrapNodeError(node, err)
	}
	if len(items) == 0 {
		return nil
	}

	saved := rc.Repeat
	defer func() { rc.Repeat = saved }()

	itemName := node.RepeatAs
	if itemName == "" {
		itemName = "item"
	}
	count := len(items)
	for i, item := range items {
		err := func() error {
			scope := rc.CreateScope()
			defer scope.Dispose()
			rc.SetVariable(itemName, item)
			if node.RepeatIndex != "" {
				rc.SetVariable(node.RepeatIndex, doclayout.IntValue(int64(i)))
			}
			rc.Repeat = doclayout.RepeatInfo{
				IsRepeating: true,
				Index:       i,
				Count:       count,
				IsFirst:     i == 0,
				IsLast:      i == count-1,
			}
			return e.renderNode(ctx, sink, node, rc, true)
		}()
		if err != nil {
			return err
		}
	}
	return nil
}

// resolveProperties merges registry defaults under the node's own
// properties and substitutes {{ }} spans in string values.
func (e *Engine) resolveProperties(node *doclayout.LayoutNode, rc *doclayout.RenderContext) (map[string]doclayout.Value, error) {
	meta, _ := doclayout.Metadata(node.Kind)

	props := make(map[string]doclayout.Value, len(node.Properties))
	if meta != nil {
		for _, spec := range meta.Optional {
			if !spec.Default.IsNull() {
				props[spec.Name] = spec.Default
			}
		}
	}
	for name, v := range node.Properties {
		if v.ContainsExpression() {
			s, err := e.eval.EvaluateString(v.Text(), rc)
			if err != nil {
				return nil, fmt.Errorf("property %q: %w", name, err)
			}
			props[name] = doclayout.StringValue(s)
			continue
		}
		props[name] = v
	}
	return props, nil
}

// resolveStyle computes the node's effective style and substitutes
// expression-valued string fields.
func (e *Engine) resolveStyle(node *doclayout.LayoutNode, rc *doclayout.RenderContext) (*doclayout.StyleProperties, error) {
	style := Resolve(node, rc.InheritedStyle())
	if style == nil {
		return nil, nil
	}
	var err error
	eval := func(s string) string {
		if err != nil || s == "" {
			return s
		}
		var out string
		out, err = e.eval.EvaluateString(s, rc)
		return out
	}
	style.FontFamily = eval(style.FontFamily)
	style.Color = eval(style.Color)
	style.Background = eval(style.Background)
	if style.Border != nil {
		style.Border.Color = eval(style.Border.Color)
	}
	if err != nil {
		return nil, fmt.Errorf("style: %w", err)
	}
	return style, nil
}
