package doclayout

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ParseJSON parses a JSON layout template into a node tree. Unrecognized
// kinds are preserved as data for the validation engine to report; only
// malformed JSON fails.
func ParseJSON(data []byte) (*LayoutNode, error) {
	var n LayoutNode
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("doclayout: parsing template: %w", err)
	}
	return &n, nil
}

// ParseYAML parses a YAML layout template into a node tree. Numeric scalars
// are parsed from their literal text so decimal scale is preserved, exactly
// as with JSON input.
func ParseYAML(data []byte) (*LayoutNode, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("doclayout: parsing template: %w", err)
	}
	root := &doc
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return nil, fmt.Errorf("doclayout: parsing template: empty document")
		}
		root = doc.Content[0]
	}
	v, err := yamlValue(root)
	if err != nil {
		return nil, fmt.Errorf("doclayout: parsing template: %w", err)
	}
	n, err := nodeFromValue(v)
	if err != nil {
		return nil, fmt.Errorf("doclayout: parsing template: %w", err)
	}
	return n, nil
}

func yamlValue(n *yaml.Node) (Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!null":
			return NullValue(), nil
		case "!!bool":
			return BoolValue(n.Value == "true" || n.Value == "True" || n.Value == "TRUE"), nil
		case "!!int", "!!float":
			d, err := decimal.NewFromString(n.Value)
			if err != nil {
				return Value{}, fmt.Errorf("line %d: invalid number %q", n.Line, n.Value)
			}
			return NumberValue(d), nil
		default:
			return StringValue(n.Value), nil
		}
	case yaml.SequenceNode:
		items := make([]Value, len(n.Content))
		for i, c := range n.Content {
			v, err := yamlValue(c)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return ArrayValue(items), nil
	case yaml.MappingNode:
		fields := make(map[string]Value, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := yamlValue(n.Content[i+1])
			if err != nil {
				return Value{}, err
			}
			fields[n.Content[i].Value] = v
		}
		return ObjectValue(fields), nil
	}
	return Value{}, fmt.Errorf("line %d: unsupported YAML node", n.Line)
}

// nodeFromValue builds a LayoutNode from a generic object value. Shared by
// the YAML front end; JSON goes through encoding/json directly.
func nodeFromValue(v Value) (*LayoutNode, error) {
	if v.Type() != ObjectType {
		return nil, fmt.Errorf("node must be an object, got %s", v.Type())
	}
	n := &LayoutNode{}
	for name, f := range v.Fields() {
		switch name {
		case "id":
			n.ID = f.Text()
		case "type":
			n.Kind = Kind(f.Text())
		case "visible":
			n.Visible = f.Text()
		case "repeatFor":
			n.RepeatFor = f.Text()
		case "repeatAs":
			n.RepeatAs = f.Text()
		case "repeatIndex":
			n.RepeatIndex = f.Text()
		case "properties":
			if f.Type() != NullType && f.Type() != ObjectType {
				return nil, fmt.Errorf("properties must be an object, got %s", f.Type())
			}
			if len(f.Fields()) > 0 {
				n.Properties = f.Fields()
			}
		case "style":
			if f.Type() == NullType {
				continue
			}
			s, err := styleFromValue(f)
			if err != nil {
				return nil, err
			}
			n.Style = s
		case "children":
			for i, c := range f.Items() {
				child, err := nodeFromValue(c)
				if err != nil {
					return nil, fmt.Errorf("children[%d]: %w", i, err)
				}
				n.Children = append(n.Children, child)
			}
		case "child":
			if f.Type() == NullType {
				continue
			}
			child, err := nodeFromValue(f)
			if err != nil {
				return nil, fmt.Errorf("child: %w", err)
			}
			n.Child = child
		}
	}
	return n, nil
}

func styleFromValue(v Value) (*StyleProperties, error) {
	if v.Type() != ObjectType {
		return nil, fmt.Errorf("style must be an object, got %s", v.Type())
	}
	s := &StyleProperties{}
	for name, f := range v.Fields() {
		switch name {
		case "fontFamily":
			s.FontFamily = f.Text()
		case "fontSize":
			s.FontSize = floatPtr(f)
		case "fontStyle":
			s.FontStyle = f.Text()
		case "color":
			s.Color = f.Text()
		case "background":
			s.Background = f.Text()
		case "alignment":
			s.Alignment = f.Text()
		case "lineHeight":
			s.LineHeight = floatPtr(f)
		case "letterSpacing":
			s.LetterSpacing = floatPtr(f)
		case "border":
			if f.Type() != ObjectType {
				return nil, fmt.Errorf("style border must be an object, got %s", f.Type())
			}
			b := &BorderStyle{}
			if w, ok := f.Field("width"); ok {
				b.Width = floatPtr(w)
			}
			if c, ok := f.Field("color"); ok {
				b.Color = c.Text()
			}
			s.Border = b
		}
	}
	return s, nil
}

func floatPtr(v Value) *float64 {
	if v.Type() != NumberType {
		return nil
	}
	f := v.Number().InexactFloat64()
	return &f
}
