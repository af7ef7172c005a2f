package doclayout

// Kind is the discriminator selecting a node's category and rendering
// behavior. An unrecognized value parses fine and is reported as an
// UNKNOWN_COMPONENT validation error rather than a parse failure.
type Kind string

// Container kinds: ordered lists of children.
const (
	KindColumn  Kind = "column"
	KindRow     Kind = "row"
	KindGrid    Kind = "grid"
	KindTable   Kind = "table"
	KindLayers  Kind = "layers"
	KindInlined Kind = "inlined"
	KindList    Kind = "list"
)

// Wrapper kinds: decorate or transform at most one child.
const (
	KindPadding          Kind = "padding"
	KindBorder           Kind = "border"
	KindBackground       Kind = "background"
	KindAlignment        Kind = "alignment"
	KindWidth            Kind = "width"
	KindHeight           Kind = "height"
	KindMinWidth         Kind = "minWidth"
	KindMaxWidth         Kind = "maxWidth"
	KindMinHeight        Kind = "minHeight"
	KindMaxHeight        Kind = "maxHeight"
	KindAspectRatio      Kind = "aspectRatio"
	KindExtend           Kind = "extend"
	KindShrink           Kind = "shrink"
	KindScale            Kind = "scale"
	KindRotate           Kind = "rotate"
	KindFlipHorizontal   Kind = "flipHorizontal"
	KindFlipVertical     Kind = "flipVertical"
	KindTranslate        Kind = "translate"
	KindUnconstrained    Kind = "unconstrained"
	KindDefaultTextStyle Kind = "defaultTextStyle"
	KindShowOnce         Kind = "showOnce"
	KindSkipOnce         Kind = "skipOnce"
	KindShowEntire       Kind = "showEntire"
	KindEnsureSpace      Kind = "ensureSpace"
	KindStopPaging       Kind = "stopPaging"
	KindHyperlink        Kind = "hyperlink"
	KindSection          Kind = "section"
	KindSectionLink      Kind = "sectionLink"
	KindClip             Kind = "clip"
	KindOpacity          Kind = "opacity"
	KindShowIf           Kind = "showIf" // deprecated, use the visible field
)

// Leaf kinds: content with no children.
const (
	KindText        Kind = "text"
	KindImage       Kind = "image"
	KindBarcode     Kind = "barcode"
	KindQRCode      Kind = "qrCode"
	KindLine        Kind = "line"
	KindDivider     Kind = "divider"
	KindSpacer      Kind = "spacer"
	KindPageBreak   Kind = "pageBreak"
	KindPageNumber  Kind = "pageNumber"
	KindTotalPages  Kind = "totalPages"
	KindPlaceholder Kind = "placeholder"
	KindEmpty       Kind = "empty"
)

// Category classifies a kind by its child shape.
type Category int

const (
	CategoryContainer Category = iota // 0..N children
	CategoryWrapper                   // 0..1 child
	CategoryLeaf                      // no children
)

func (c Category) String() string {
	switch c {
	case CategoryContainer:
		return "container"
	case CategoryWrapper:
		return "wrapper"
	case CategoryLeaf:
		return "leaf"
	}
	return "invalid"
}

// LayoutNode is one node of a document layout tree. Trees are caller-owned
// and treated as immutable for the duration of a render or validate call.
type LayoutNode struct {
	ID          string           `json:"id,omitempty"`
	Kind        Kind             `json:"type"`
	Properties  map[string]Value `json:"properties,omitempty"`
	Style       *StyleProperties `json:"style,omitempty"`
	Visible     string           `json:"visible,omitempty"`
	RepeatFor   string           `json:"repeatFor,omitempty"`
	RepeatAs    string           `json:"repeatAs,omitempty"`
	RepeatIndex string           `json:"repeatIndex,omitempty"`
	Children    []*LayoutNode    `json:"children,omitempty"`
	Child       *LayoutNode      `json:"child,omitempty"`
}

// Prop looks up a property by name.
func (n *LayoutNode) Prop(name string) (Value, bool) {
	v, ok := n.Properties[name]
	return v, ok
}

// PropOr looks up a property, falling back to def when absent.
func (n *LayoutNode) PropOr(name string, def Value) Value {
	if v, ok := n.Properties[name]; ok {
		return v
	}
	return def
}
