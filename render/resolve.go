package render

import "github.com/lvillar/doclayout"

// Resolve merges a node's own style over the inherited one, field by field:
// a field the node sets overrides the inherited value, everything else
// passes through unchanged. No field ever defaults here; defaults belong to
// the sink and the per-kind renderers. The result is a copy, never an alias
// of either input.
func Resolve(node *doclayout.LayoutNode, inherited *doclayout.StyleProperties) *doclayout.StyleProperties {
	own := node.Style
	if own.IsZero() {
		return inherited.Clone()
	}
	if inherited.IsZero() {
		return own.Clone()
	}
	merged := inherited.Clone()
	if own.FontFamily != "" {
		merged.FontFamily = own.FontFamily
	}
	if own.FontSize != nil {
		v := *own.FontSize
		merged.FontSize = &v
	}
	if own.FontStyle != "" {
		merged.FontStyle = own.FontStyle
	}
	if own.Color != "" {
		merged.Color = own.Color
	}
	if own.Background != "" {
		merged.Background = own.Background
	}
	if own.Alignment != "" {
		merged.Alignment = own.Alignment
	}
	if own.LineHeight != nil {
		v := *own.LineHeight
		merged.LineHeight = &v
	}
	if own.LetterSpacing != nil {
		v := *own.LetterSpacing
		merged.LetterSpacing = &v
	}
	if own.Border != nil {
		b := *own.Border
		if own.Border.Width != nil {
			w := *own.Border.Width
			b.Width = &w
		}
		merged.Border = &b
	}
	return merged
}
