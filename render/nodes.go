package render

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/lvillar/doclayout"
)

// renderContainer opens an element scope, renders the children in document
// order, and closes the scope. All seven container kinds share this shape;
// their differences are layout concerns owned by the sink.
func renderContainer(e *Engine, ctx context.Context, sink doclayout.Sink, node *doclayout.LayoutNode, props map[string]doclayout.Value, style *doclayout.StyleProperties, rc *doclayout.RenderContext) error {
	if err := sink.BeginElement(elementInfo(node, props, style)); err != nil {
		return err
	}
	if err := e.RenderChildren(ctx, sink, node.Children, rc); err != nil {
		return err
	}
	return sink.EndElement(node.Kind)
}

// renderWrapper opens an element scope around the single optional child.
func renderWrapper(e *Engine, ctx context.Context, sink doclayout.Sink, node *doclayout.LayoutNode, props map[string]doclayout.Value, style *doclayout.StyleProperties, rc *doclayout.RenderContext) error {
	if err := sink.BeginElement(elementInfo(node, props, style)); err != nil {
		return err
	}
	if node.Child != nil {
		if err := e.Render(ctx, sink, node.Child, rc); err != nil {
			return err
		}
	}
	return sink.EndElement(node.Kind)
}

// renderDefaultTextStyle installs its style as the inherited style for the
// whole subtree before rendering the child.
func renderDefaultTextStyle(e *Engine, ctx context.Context, sink doclayout.Sink, node *doclayout.LayoutNode, props map[string]doclayout.Value, style *doclayout.StyleProperties, rc *doclayout.RenderContext) error {
	if err := sink.BeginElement(elementInfo(node, props, style)); err != nil {
		return err
	}
	if node.Child != nil {
		pop := rc.PushInheritedStyle(style)
		err := e.Render(ctx, sink, node.Child, rc)
		pop()
		if err != nil {
			return err
		}
	}
	return sink.EndElement(node.Kind)
}

// renderShowIf renders its child only when the condition property holds.
// The kind is deprecated in favor of the visible field but still honored.
func renderShowIf(e *Engine, ctx context.Context, sink doclayout.Sink, node *doclayout.LayoutNode, props map[string]doclayout.Value, style *doclayout.StyleProperties, rc *doclayout.RenderContext) error {
	cond, ok := props["condition"]
	if !ok {
		return fmt.Errorf("showIf requires a condition property")
	}
	show := cond.IsTruthy()
	if cond.Type() == doclayout.StringType {
		var err error
		show, err = e.eval.EvaluateCondition(cond.Text(), rc)
		if err != nil {
			return err
		}
	}
	if !show || node.Child == nil {
		return nil
	}
	return e.Render(ctx, sink, node.Child, rc)
}

func renderText(_ *Engine, _ context.Context, sink doclayout.Sink, _ *doclayout.LayoutNode, props map[string]doclayout.Value, style *doclayout.StyleProperties, _ *doclayout.RenderContext) error {
	return sink.DrawText(doclayout.TextInstruction{
		Content: propString(props, "content", ""),
		Style:   style,
	})
}

func renderImage(e *Engine, ctx context.Context, sink doclayout.Sink, _ *doclayout.LayoutNode, props map[string]doclayout.Value, _ *doclayout.StyleProperties, _ *doclayout.RenderContext) error {
	src := propString(props, "src", "")
	if src == "" {
		return fmt.Errorf("image requires a src property")
	}
	inst := doclayout.ImageInstruction{
		Source: src,
		Width:  propNumber(props, "width", 0),
		Height: propNumber(props, "height", 0),
	}
	if e.loader != nil {
		img, err := e.loader.Load(ctx, src)
		if err != nil {
			return fmt.Errorf("loading image %q: %w", src, err)
		}
		inst.Data = img.Bytes
		inst.Format = img.Format
		if inst.Width == 0 {
			inst.Width = float64(img.Width)
		}
		if inst.Height == 0 {
			inst.Height = float64(img.Height)
		}
	}
	return sink.DrawImage(inst)
}

func renderLine(_ *Engine, _ context.Context, sink doclayout.Sink, _ *doclayout.LayoutNode, props map[string]doclayout.Value, style *doclayout.StyleProperties, _ *doclayout.RenderContext) error {
	color := propString(props, "color", "")
	if color == "" && style != nil {
		color = style.Color
	}
	return sink.DrawLine(doclayout.LineInstruction{
		Orientation: propString(props, "orientation", "horizontal"),
		Thickness:   propNumber(props, "thickness", 1),
		Color:       color,
	})
}

func renderDivider(_ *Engine, _ context.Context, sink doclayout.Sink, _ *doclayout.LayoutNode, props map[string]doclayout.Value, _ *doclayout.StyleProperties, _ *doclayout.RenderContext) error {
	return sink.DrawLine(doclayout.LineInstruction{
		Orientation: "horizontal",
		Thickness:   propNumber(props, "thickness", 0.3),
		Color:       propString(props, "color", "#B4B4B4"),
	})
}

func renderSpacer(_ *Engine, _ context.Context, sink doclayout.Sink, _ *doclayout.LayoutNode, props map[string]doclayout.Value, _ *doclayout.StyleProperties, _ *doclayout.RenderContext) error {
	return sink.Space(propNumber(props, "size", 10))
}

func renderPageBreak(_ *Engine, _ context.Context, sink doclayout.Sink, _ *doclayout.LayoutNode, _ map[string]doclayout.Value, _ *doclayout.StyleProperties, _ *doclayout.RenderContext) error {
	return sink.PageBreak()
}

// renderPageNumber draws the format string with {page} and {pages}
// substituted from the sink's live page counters.
func renderPageNumber(_ *Engine, _ context.Context, sink doclayout.Sink, _ *doclayout.LayoutNode, props map[string]doclayout.Value, style *doclayout.StyleProperties, _ *doclayout.RenderContext) error {
	text := propString(props, "format", "{page}")
	text = strings.ReplaceAll(text, "{page}", strconv.Itoa(sink.Page().CurrentPage))
	text = strings.ReplaceAll(text, "{pages}", strconv.Itoa(sink.Page().TotalPages))
	return sink.DrawText(doclayout.TextInstruction{Content: text, Style: style})
}

func renderTotalPages(_ *Engine, _ context.Context, sink doclayout.Sink, _ *doclayout.LayoutNode, props map[string]doclayout.Value, style *doclayout.StyleProperties, _ *doclayout.RenderContext) error {
	text := propString(props, "format", "{pages}")
	text = strings.ReplaceAll(text, "{pages}", strconv.Itoa(sink.Page().TotalPages))
	return sink.DrawText(doclayout.TextInstruction{Content: text, Style: style})
}

func renderPlaceholder(_ *Engine, _ context.Context, sink doclayout.Sink, _ *doclayout.LayoutNode, props map[string]doclayout.Value, style *doclayout.StyleProperties, _ *doclayout.RenderContext) error {
	return sink.DrawText(doclayout.TextInstruction{
		Content: propString(props, "label", "Placeholder"),
		Style:   style,
	})
}

func renderEmpty(_ *Engine, _ context.Context, _ doclayout.Sink, _ *doclayout.LayoutNode, _ map[string]doclayout.Value, _ *doclayout.StyleProperties, _ *doclayout.RenderContext) error {
	return nil
}
