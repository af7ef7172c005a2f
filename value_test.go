package doclayout

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValueZeroIsNull(t *testing.T) {
	var v Value
	if !v.IsNull() {
		t.Fatal("zero Value should be null")
	}
	if v.String() != "" {
		t.Fatalf("null renders as empty string, got %q", v.String())
	}
	if v.IsTruthy() {
		t.Fatal("null is falsy")
	}
}

func TestValueNumberScalePreserved(t *testing.T) {
	var v Value
	if err := json.Unmarshal([]byte(`19.90`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.Type() != NumberType {
		t.Fatalf("expected number, got %s", v.Type())
	}
	if v.String() != "19.90" {
		t.Fatalf("literal scale must survive, got %q", v.String())
	}

	doubled := NumberValue(v.Number().Mul(decimal.NewFromInt(2)))
	if doubled.String() != "39.80" {
		t.Fatalf("scale must survive arithmetic, got %q", doubled.String())
	}
}

func TestValueEqualNumbersByValue(t *testing.T) {
	one := IntValue(1)
	oneScaled := NumberValue(decimal.RequireFromString("1.0"))
	if !one.Equal(oneScaled) {
		t.Fatal("1 and 1.0 must compare equal")
	}
	if one.String() == oneScaled.String() {
		t.Fatal("display forms should still differ")
	}
}

func TestValueTruthiness(t *testing.T) {
	tests := []struct {
		v    Value
		want bool
	}{
		{NullValue(), false},
		{BoolValue(true), true},
		{BoolValue(false), false},
		{IntValue(0), false},
		{IntValue(-3), true},
		{StringValue(""), false},
		{StringValue("x"), true},
		{ArrayValue(nil), false},
		{ArrayValue([]Value{IntValue(1)}), true},
		{ObjectValue(nil), false},
		{ObjectValue(map[string]Value{"a": NullValue()}), true},
	}
	for i, tt := range tests {
		if got := tt.v.IsTruthy(); got != tt.want {
			t.Errorf("case %d: expected %v, got %v", i, tt.want, got)
		}
	}
}

func TestValueJSONRoundTrip(t *testing.T) {
	src := `{"name":"Acme","count":3,"price":19.90,"tags":["a","b"],"active":true,"note":null}`
	var v Value
	if err := json.Unmarshal([]byte(src), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	name, ok := v.Field("name")
	if !ok || name.Text() != "Acme" {
		t.Fatalf("unexpected name: %v", name)
	}
	tags, _ := v.Field("tags")
	if tags.Len() != 2 {
		t.Fatalf("expected 2 tags, got %d", tags.Len())
	}
	note, ok := v.Field("note")
	if !ok || !note.IsNull() {
		t.Fatal("expected explicit null field")
	}

	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	// Keys come back sorted; the decimal scale survives.
	want := `{"active":true,"count":3,"name":"Acme","note":null,"price":19.90,"tags":["a","b"]}`
	if string(out) != want {
		t.Fatalf("expected %s\ngot      %s", want, out)
	}
}

func TestValueStringRendersCompactJSON(t *testing.T) {
	v := ObjectValue(map[string]Value{
		"b": IntValue(2),
		"a": IntValue(1),
	})
	if v.String() != `{"a":1,"b":2}` {
		t.Fatalf("unexpected rendering: %q", v.String())
	}
}

func TestValueContainsExpression(t *testing.T) {
	if !StringValue("Hi {{ name }}").ContainsExpression() {
		t.Fatal("expected span detected")
	}
	if StringValue("no braces").ContainsExpression() {
		t.Fatal("expected no span")
	}
	if StringValue("{{ unclosed").ContainsExpression() {
		t.Fatal("unbalanced span does not count")
	}
	if IntValue(3).ContainsExpression() {
		t.Fatal("non-strings never contain expressions")
	}
}

func TestValueAccessorsOnWrongVariant(t *testing.T) {
	v := StringValue("x")
	if v.Items() != nil || v.Fields() != nil {
		t.Fatal("wrong-variant accessors must return nil")
	}
	if _, ok := v.Field("a"); ok {
		t.Fatal("Field on a string must report false")
	}
	if _, ok := v.Index(0); ok {
		t.Fatal("Index on a string must report false")
	}
	if !v.Number().IsZero() {
		t.Fatal("Number on a string is zero")
	}
}
