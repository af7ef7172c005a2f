package doclayout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// ValueType identifies the variant held by a Value.
type ValueType int

const (
	NullType ValueType = iota
	BoolType
	NumberType
	StringType
	ArrayType
	ObjectType
)

func (t ValueType) String() string {
	switch t {
	case NullType:
		return "null"
	case BoolType:
		return "boolean"
	case NumberType:
		return "number"
	case StringType:
		return "string"
	case ArrayType:
		return "array"
	case ObjectType:
		return "object"
	}
	return "invalid"
}

// Value is a JSON-like tagged union: null, boolean, number, string, array or
// object. Numbers are backed by decimal.Decimal so that literal scale
// survives arithmetic (100 * 1.15 prints as 115.00). The zero Value is null.
type Value struct {
	typ ValueType
	b   bool
	num decimal.Decimal
	str string
	arr []Value
	obj map[string]Value
}

// NullValue returns the null Value.
func NullValue() Value { return Value{} }

// BoolValue returns a boolean Value.
func BoolValue(b bool) Value { return Value{typ: BoolType, b: b} }

// NumberValue returns a number Value backed by the given decimal.
func NumberValue(d decimal.Decimal) Value { return Value{typ: NumberType, num: d} }

// IntValue returns a number Value for an integer.
func IntValue(i int64) Value { return NumberValue(decimal.NewFromInt(i)) }

// FloatValue returns a number Value for a float.
func FloatValue(f float64) Value { return NumberValue(decimal.NewFromFloat(f)) }

// StringValue returns a string Value.
func StringValue(s string) Value { return Value{typ: StringType, str: s} }

// ArrayValue returns an array Value over the given items.
func ArrayValue(items []Value) Value { return Value{typ: ArrayType, arr: items} }

// ObjectValue returns an object Value over the given fields.
func ObjectValue(fields map[string]Value) Value { return Value{typ: ObjectType, obj: fields} }

// Type reports the variant held by v.
func (v Value) Type() ValueType { return v.typ }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.typ == NullType }

// Bool returns the boolean content, or false for non-boolean values.
func (v Value) Bool() bool { return v.typ == BoolType && v.b }

// Number returns the numeric content, or zero for non-number values.
func (v Value) Number() decimal.Decimal {
	if v.typ != NumberType {
		return decimal.Decimal{}
	}
	return v.num
}

// Text returns the string content, or "" for non-string values.
// Use String for a display rendering of any variant.
func (v Value) Text() string {
	if v.typ != StringType {
		return ""
	}
	return v.str
}

// Items returns the array elements, or nil for non-array values.
func (v Value) Items() []Value {
	if v.typ != ArrayType {
		return nil
	}
	return v.arr
}

// Fields returns the object fields, or nil for non-object values.
func (v Value) Fields() map[string]Value {
	if v.typ != ObjectType {
		return nil
	}
	return v.obj
}

// Field looks up a field on an object Value.
func (v Value) Field(name string) (Value, bool) {
	if v.typ != ObjectType {
		return Value{}, false
	}
	f, ok := v.obj[name]
	return f, ok
}

// Index returns the i-th element of an array Value.
func (v Value) Index(i int) (Value, bool) {
	if v.typ != ArrayType || i < 0 || i >= len(v.arr) {
		return Value{}, false
	}
	return v.arr[i], true
}

// Len returns the element count for arrays and objects and the rune count
// for strings; zero otherwise.
func (v Value) Len() int {
	switch v.typ {
	case ArrayType:
		return len(v.arr)
	case ObjectType:
		return len(v.obj)
	case StringType:
		return utf8.RuneCountInString(v.str)
	}
	return 0
}

// IsTruthy applies the boolean coercion rules: booleans pass through,
// numbers are truthy iff non-zero, strings iff non-empty, null is falsy,
// arrays and objects are truthy iff non-empty.
func (v Value) IsTruthy() bool {
	switch v.typ {
	case BoolType:
		return v.b
	case NumberType:
		return !v.num.IsZero()
	case StringType:
		return v.str != ""
	case ArrayType:
		return len(v.arr) > 0
	case ObjectType:
		return len(v.obj) > 0
	}
	return false
}

// String renders v for substitution into text: strings verbatim, numbers in
// their decimal form (scale preserved), booleans as true/false, null as the
// empty string, arrays and objects as compact JSON.
func (v Value) String() string {
	switch v.typ {
	case NullType:
		return ""
	case BoolType:
		if v.b {
			return "true"
		}
		return "false"
	case NumberType:
		return v.num.String()
	case StringType:
		return v.str
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

// Equal reports deep equality. Numbers compare by value, so 1 equals 1.0.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ {
		return false
	}
	switch v.typ {
	case NullType:
		return true
	case BoolType:
		return v.b == o.b
	case NumberType:
		return v.num.Cmp(o.num) == 0
	case StringType:
		return v.str == o.str
	case ArrayType:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case ObjectType:
		if len(v.obj) != len(o.obj) {
			return false
		}
		for k, f := range v.obj {
			of, ok := o.obj[k]
			if !ok || !f.Equal(of) {
				return false
			}
		}
		return true
	}
	return false
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.typ {
	case NullType:
		return []byte("null"), nil
	case BoolType:
		return json.Marshal(v.b)
	case NumberType:
		return []byte(v.num.String()), nil
	case StringType:
		return json.Marshal(v.str)
	case ArrayType:
		if v.arr == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.arr)
	case ObjectType:
		// Deterministic field order.
		keys := make([]string, 0, len(v.obj))
		for k := range v.obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			vb, err := json.Marshal(v.obj[k])
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			buf.Write(vb)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("doclayout: cannot marshal value of type %v", v.typ)
}

// UnmarshalJSON implements json.Unmarshaler. Numbers are decoded through
// json.Number so their literal scale is preserved.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	val, err := valueFromGo(raw)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

// valueFromGo converts a decoded JSON value (with json.Number for numbers)
// into a Value.
func valueFromGo(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(x), nil
	case string:
		return StringValue(x), nil
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		if err != nil {
			return Value{}, fmt.Errorf("doclayout: invalid number %q: %w", x.String(), err)
		}
		return NumberValue(d), nil
	case float64:
		return FloatValue(x), nil
	case int:
		return IntValue(int64(x)), nil
	case int64:
		return IntValue(x), nil
	case []any:
		items := make([]Value, len(x))
		for i, el := range x {
			v, err := valueFromGo(el)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return ArrayValue(items), nil
	case map[string]any:
		fields := make(map[string]Value, len(x))
		for k, el := range x {
			v, err := valueFromGo(el)
			if err != nil {
				return Value{}, err
			}
			fields[k] = v
		}
		return ObjectValue(fields), nil
	}
	return Value{}, fmt.Errorf("doclayout: unsupported value of type %T", raw)
}

// ContainsExpression reports whether a string Value carries at least one
// balanced {{ ... }} span.
func (v Value) ContainsExpression() bool {
	if v.typ != StringType {
		return false
	}
	open := strings.Index(v.str, "{{")
	return open >= 0 && strings.Contains(v.str[open+2:], "}}")
}
