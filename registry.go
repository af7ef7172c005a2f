package doclayout

import (
	"sort"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// PropType declares the expected value shape of a component property.
type PropType int

const (
	PropString PropType = iota
	PropNumber
	PropBool
	PropColor
	PropURL
	PropEnum
	PropExpression
	PropObject
	PropArray
)

func (t PropType) String() string {
	switch t {
	case PropString:
		return "string"
	case PropNumber:
		return "number"
	case PropBool:
		return "boolean"
	case PropColor:
		return "color"
	case PropURL:
		return "url"
	case PropEnum:
		return "enum"
	case PropExpression:
		return "expression"
	case PropObject:
		return "object"
	case PropArray:
		return "array"
	}
	return "invalid"
}

// PropSpec describes one declared property of a component kind.
type PropSpec struct {
	Name    string
	Type    PropType
	Enum    []string // allowed values for PropEnum
	Default Value    // null when the property has no default
}

// ComponentMetadata is the static record for one node kind: its category,
// declared properties, and deprecation state. The table is built once at
// init and never mutated.
type ComponentMetadata struct {
	Kind       Kind
	Category   Category
	Required   []PropSpec
	Optional   []PropSpec
	Deprecated bool
	ReplacedBy string // migration hint for deprecated kinds
}

// PropSpecFor returns the declared spec for a property name, searching
// required then optional specs.
func (m *ComponentMetadata) PropSpecFor(name string) (PropSpec, bool) {
	for _, p := range m.Required {
		if p.Name == name {
			return p, true
		}
	}
	for _, p := range m.Optional {
		if p.Name == name {
			return p, true
		}
	}
	return PropSpec{}, false
}

func req(name string, t PropType, enum ...string) PropSpec {
	return PropSpec{Name: name, Type: t, Enum: enum}
}

func opt(name string, t PropType, def Value, enum ...string) PropSpec {
	return PropSpec{Name: name, Type: t, Default: def, Enum: enum}
}

var components = map[Kind]*ComponentMetadata{
	// Containers.
	KindColumn: {Category: CategoryContainer, Optional: []PropSpec{
		opt("spacing", PropNumber, IntValue(0)),
	}},
	KindRow: {Category: CategoryContainer, Optional: []PropSpec{
		opt("spacing", PropNumber, IntValue(0)),
	}},
	KindGrid: {Category: CategoryContainer, Optional: []PropSpec{
		opt("columns", PropNumber, IntValue(12)),
		opt("spacing", PropNumber, IntValue(0)),
	}},
	KindTable: {Category: CategoryContainer, Required: []PropSpec{
		req("columns", PropArray),
	}, Optional: []PropSpec{
		opt("headerRows", PropNumber, IntValue(1)),
		opt("cellPadding", PropNumber, IntValue(2)),
	}},
	KindLayers:  {Category: CategoryContainer},
	KindInlined: {Category: CategoryContainer, Optional: []PropSpec{
		opt("spacing", PropNumber, IntValue(0)),
	}},
	KindList: {Category: CategoryContainer, Optional: []PropSpec{
		opt("ordered", PropBool, BoolValue(false)),
		opt("bullet", PropString, StringValue("•")),
	}},

	// Wrappers.
	KindPadding: {Category: CategoryWrapper, Optional: []PropSpec{
		opt("all", PropNumber, NullValue()),
		opt("top", PropNumber, NullValue()),
		opt("right", PropNumber, NullValue()),
		opt("bottom", PropNumber, NullValue()),
		opt("left", PropNumber, NullValue()),
	}},
	KindBorder: {Category: CategoryWrapper, Optional: []PropSpec{
		opt("width", PropNumber, IntValue(1)),
		opt("color", PropColor, StringValue("#000000")),
	}},
	KindBackground: {Category: CategoryWrapper, Required: []PropSpec{
		req("color", PropColor),
	}},
	KindAlignment: {Category: CategoryWrapper, Optional: []PropSpec{
		opt("horizontal", PropEnum, NullValue(), "left", "center", "right"),
		opt("vertical", PropEnum, NullValue(), "top", "middle", "bottom"),
	}},
	KindWidth:     {Category: CategoryWrapper, Required: []PropSpec{req("value", PropNumber)}},
	KindHeight:    {Category: CategoryWrapper, Required: []PropSpec{req("value", PropNumber)}},
	KindMinWidth:  {Category: CategoryWrapper, Required: []PropSpec{req("value", PropNumber)}},
	KindMaxWidth:  {Category: CategoryWrapper, Required: []PropSpec{req("value", PropNumber)}},
	KindMinHeight: {Category: CategoryWrapper, Required: []PropSpec{req("value", PropNumber)}},
	KindMaxHeight: {Category: CategoryWrapper, Required: []PropSpec{req("value", PropNumber)}},
	KindAspectRatio: {Category: CategoryWrapper, Required: []PropSpec{
		req("ratio", PropNumber),
	}},
	KindExtend: {Category: CategoryWrapper, Optional: []PropSpec{
		opt("direction", PropEnum, StringValue("both"), "both", "horizontal", "vertical"),
	}},
	KindShrink: {Category: CategoryWrapper},
	KindScale: {Category: CategoryWrapper, Required: []PropSpec{
		req("factor", PropNumber),
	}},
	KindRotate: {Category: CategoryWrapper, Required: []PropSpec{
		req("angle", PropNumber),
	}},
	KindFlipHorizontal: {Category: CategoryWrapper},
	KindFlipVertical:   {Category: CategoryWrapper},
	KindTranslate: {Category: CategoryWrapper, Optional: []PropSpec{
		opt("x", PropNumber, IntValue(0)),
		opt("y", PropNumber, IntValue(0)),
	}},
	KindUnconstrained:    {Category: CategoryWrapper},
	KindDefaultTextStyle: {Category: CategoryWrapper},
	KindShowOnce:         {Category: CategoryWrapper},
	KindSkipOnce:         {Category: CategoryWrapper},
	KindShowEntire:       {Category: CategoryWrapper},
	KindEnsureSpace: {Category: CategoryWrapper, Optional: []PropSpec{
		opt("minHeight", PropNumber, IntValue(0)),
	}},
	KindStopPaging: {Category: CategoryWrapper},
	KindHyperlink: {Category: CategoryWrapper, Required: []PropSpec{
		req("url", PropURL),
	}},
	KindSection: {Category: CategoryWrapper, Required: []PropSpec{
		req("name", PropString),
	}},
	KindSectionLink: {Category: CategoryWrapper, Required: []PropSpec{
		req("name", PropString),
	}},
	KindClip: {Category: CategoryWrapper},
	KindOpacity: {Category: CategoryWrapper, Required: []PropSpec{
		req("value", PropNumber),
	}},
	KindShowIf: {Category: CategoryWrapper, Required: []PropSpec{
		req("condition", PropExpression),
	}, Deprecated: true, ReplacedBy: "visible"},

	// Leaves.
	KindText: {Category: CategoryLeaf, Required: []PropSpec{
		req("content", PropString),
	}},
	KindImage: {Category: CategoryLeaf, Required: []PropSpec{
		req("src", PropURL),
	}, Optional: []PropSpec{
		opt("width", PropNumber, NullValue()),
		opt("height", PropNumber, NullValue()),
	}},
	KindBarcode: {Category: CategoryLeaf, Required: []PropSpec{
		req("content", PropString),
	}, Optional: []PropSpec{
		opt("symbology", PropEnum, StringValue("code128"), "code128", "code39", "ean", "pdf417"),
		opt("width", PropNumber, IntValue(200)),
		opt("height", PropNumber, IntValue(60)),
	}},
	KindQRCode: {Category: CategoryLeaf, Required: []PropSpec{
		req("content", PropString),
	}, Optional: []PropSpec{
		opt("size", PropNumber, IntValue(128)),
		opt("errorCorrection", PropEnum, StringValue("M"), "L", "M", "Q", "H"),
	}},
	KindLine: {Category: CategoryLeaf, Optional: []PropSpec{
		opt("orientation", PropEnum, StringValue("horizontal"), "horizontal", "vertical"),
		opt("thickness", PropNumber, IntValue(1)),
		opt("color", PropColor, StringValue("#000000")),
	}},
	KindDivider: {Category: CategoryLeaf, Optional: []PropSpec{
		opt("thickness", PropNumber, NumberValue(dec("0.3"))),
		opt("color", PropColor, StringValue("#B4B4B4")),
	}},
	KindSpacer: {Category: CategoryLeaf, Optional: []PropSpec{
		opt("size", PropNumber, IntValue(10)),
	}},
	KindPageBreak: {Category: CategoryLeaf},
	KindPageNumber: {Category: CategoryLeaf, Optional: []PropSpec{
		opt("format", PropString, StringValue("{page}")),
	}},
	KindTotalPages: {Category: CategoryLeaf, Optional: []PropSpec{
		opt("format", PropString, StringValue("{pages}")),
	}},
	KindPlaceholder: {Category: CategoryLeaf, Optional: []PropSpec{
		opt("label", PropString, StringValue("Placeholder")),
	}},
	KindEmpty: {Category: CategoryLeaf},
}

func init() {
	for k, m := range components {
		m.Kind = k
	}
}

// Metadata returns the static metadata for a kind. The second result is
// false for unrecognized kinds.
func Metadata(k Kind) (*ComponentMetadata, bool) {
	m, ok := components[k]
	return m, ok
}

// IsKnownKind reports whether k is a registered component kind.
func IsKnownKind(k Kind) bool {
	_, ok := components[k]
	return ok
}

// Kinds returns every registered kind in sorted order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(components))
	for k := range components {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
