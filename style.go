package doclayout

// BorderStyle describes the border of an element.
type BorderStyle struct {
	Width *float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Color string   `json:"color,omitempty" yaml:"color,omitempty"`
}

// StyleProperties carries the inheritable visual attributes of a node.
// Every field is independently optional; an unset field inherits from the
// nearest defaultTextStyle ancestor. String fields may contain {{ }}
// expressions, resolved at render time.
type StyleProperties struct {
	FontFamily    string       `json:"fontFamily,omitempty" yaml:"fontFamily,omitempty"`
	FontSize      *float64     `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`
	FontStyle     string       `json:"fontStyle,omitempty" yaml:"fontStyle,omitempty"` // "", "B", "I", "BI"
	Color         string       `json:"color,omitempty" yaml:"color,omitempty"`
	Background    string       `json:"background,omitempty" yaml:"background,omitempty"`
	Alignment     string       `json:"alignment,omitempty" yaml:"alignment,omitempty"` // L, C, R, J
	LineHeight    *float64     `json:"lineHeight,omitempty" yaml:"lineHeight,omitempty"`
	LetterSpacing *float64     `json:"letterSpacing,omitempty" yaml:"letterSpacing,omitempty"`
	Border        *BorderStyle `json:"border,omitempty" yaml:"border,omitempty"`
}

// Clone returns a deep copy, or nil for a nil receiver.
func (s *StyleProperties) Clone() *StyleProperties {
	if s == nil {
		return nil
	}
	c := *s
	if s.FontSize != nil {
		v := *s.FontSize
		c.FontSize = &v
	}
	if s.LineHeight != nil {
		v := *s.LineHeight
		c.LineHeight = &v
	}
	if s.LetterSpacing != nil {
		v := *s.LetterSpacing
		c.LetterSpacing = &v
	}
	if s.Border != nil {
		b := *s.Border
		if s.Border.Width != nil {
			w := *s.Border.Width
			b.Width = &w
		}
		c.Border = &b
	}
	return &c
}

// IsZero reports whether no field is set.
func (s *StyleProperties) IsZero() bool {
	if s == nil {
		return true
	}
	return s.FontFamily == "" && s.FontSize == nil && s.FontStyle == "" &&
		s.Color == "" && s.Background == "" && s.Alignment == "" &&
		s.LineHeight == nil && s.LetterSpacing == nil && s.Border == nil
}
