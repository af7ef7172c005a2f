package render

import (
	"github.com/shopspring/decimal"

	"github.com/lvillar/doclayout"
)

// Property values that went through expression substitution arrive as
// strings, so the numeric accessors parse string content as a fallback.

func propNumber(props map[string]doclayout.Value, name string, def float64) float64 {
	v, ok := props[name]
	if !ok {
		return def
	}
	switch v.Type() {
	case doclayout.NumberType:
		return v.Number().InexactFloat64()
	case doclayout.StringType:
		d, err := decimal.NewFromString(v.Text())
		if err != nil {
			return def
		}
		return d.InexactFloat64()
	}
	return def
}

func propString(props map[string]doclayout.Value, name, def string) string {
	v, ok := props[name]
	if !ok || v.IsNull() {
		return def
	}
	return v.String()
}
