package expr

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/lvillar/doclayout"
)

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testContext() *doclayout.RenderContext {
	data := doclayout.ObjectValue(map[string]doclayout.Value{
		"name":    doclayout.StringValue("John"),
		"price":   doclayout.IntValue(100),
		"taxRate": doclayout.NumberValue(mustDecimal("0.15")),
		"value":   doclayout.IntValue(7),
		"active":  doclayout.BoolValue(true),
		"empty":   doclayout.StringValue(""),
		"items": doclayout.ArrayValue([]doclayout.Value{
			doclayout.StringValue("a"),
			doclayout.StringValue("b"),
			doclayout.StringValue("c"),
		}),
		"customer": doclayout.ObjectValue(map[string]doclayout.Value{
			"name": doclayout.StringValue("Acme"),
			"address": doclayout.ObjectValue(map[string]doclayout.Value{
				"city": doclayout.StringValue("Madrid"),
			}),
		}),
		"nothing": doclayout.NullValue(),
	})
	return doclayout.NewRenderContext(data)
}

func evalString(t *testing.T, src string) string {
	t.Helper()
	e := NewEvaluator()
	v, err := e.Evaluate(src, testContext())
	if err != nil {
		t.Fatalf("Evaluate(%q): %v", src, err)
	}
	return v.String()
}

func TestEvaluateStringInterpolation(t *testing.T) {
	e := NewEvaluator()
	got, err := e.EvaluateString("Hello, {{ name }}!", testContext())
	if err != nil {
		t.Fatalf("EvaluateString: %v", err)
	}
	if got != "Hello, John!" {
		t.Fatalf("expected %q, got %q", "Hello, John!", got)
	}
}

func TestEvaluateStringWithoutExpressions(t *testing.T) {
	e := NewEvaluator()
	got, err := e.EvaluateString("plain text", testContext())
	if err != nil {
		t.Fatalf("EvaluateString: %v", err)
	}
	if got != "plain text" {
		t.Fatalf("expected text untouched, got %q", got)
	}
}

func TestEvaluateStringUnclosedBraces(t *testing.T) {
	e := NewEvaluator()
	got, err := e.EvaluateString("left {{ open", testContext())
	if err != nil {
		t.Fatalf("EvaluateString: %v", err)
	}
	if got != "left {{ open" {
		t.Fatalf("unclosed span should pass through, got %q", got)
	}
}

func TestEvaluateStringNoPartialSubstitution(t *testing.T) {
	e := NewEvaluator()
	_, err := e.EvaluateString("ok {{ name }} bad {{ missing }}", testContext())
	if err == nil {
		t.Fatal("expected failure for undefined identifier")
	}
}

func TestDecimalArithmetic(t *testing.T) {
	// Binary floats would give 114.99999999999999 here.
	got := evalString(t, "price * (1 + taxRate)")
	if got != "115.00" {
		t.Fatalf("expected 115.00, got %q", got)
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2", "3"},
		{"10 - 4", "6"},
		{"6 * 7", "42"},
		{"10 / 4", "2.5"},
		{"10 % 3", "1"},
		{"-value", "-7"},
		{"2 + 3 * 4", "14"},
		{"(2 + 3) * 4", "20"},
		{"'a' + 'b'", "ab"},
		{"0.1 + 0.2", "0.3"},
	}
	for _, tt := range tests {
		if got := evalString(t, tt.src); got != tt.want {
			t.Errorf("%q: expected %q, got %q", tt.src, tt.want, got)
		}
	}
}

func TestComparisons(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"value > 5", true},
		{"value > 10", false},
		{"value >= 7", true},
		{"value < 7", false},
		{"value <= 7", true},
		{"value == 7", true},
		{"value != 7", false},
		{"name == 'John'", true},
		{"'apple' < 'banana'", true},
		{"active && value > 5", true},
		{"!active", false},
		{"active || value > 100", true},
	}
	e := NewEvaluator()
	rc := testContext()
	for _, tt := range tests {
		got, err := e.EvaluateCondition(tt.src, rc)
		if err != nil {
			t.Fatalf("EvaluateCondition(%q): %v", tt.src, err)
		}
		if got != tt.want {
			t.Errorf("%q: expected %v, got %v", tt.src, tt.want, got)
		}
	}
}

func TestTernary(t *testing.T) {
	if got := evalString(t, "value > 5 ? 'big' : 'small'"); got != "big" {
		t.Fatalf("expected big, got %q", got)
	}
	if got := evalString(t, "value > 10 ? 'big' : 'small'"); got != "small" {
		t.Fatalf("expected small, got %q", got)
	}
}

func TestMemberAccess(t *testing.T) {
	if got := evalString(t, "customer.name"); got != "Acme" {
		t.Fatalf("expected Acme, got %q", got)
	}
	if got := evalString(t, "customer.address.city"); got != "Madrid" {
		t.Fatalf("expected Madrid, got %q", got)
	}
	// Missing fields are null, not errors.
	e := NewEvaluator()
	v, err := e.Evaluate("customer.phone", testContext())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !v.IsNull() {
		t.Fatalf("expected null for missing field, got %v", v)
	}
}

func TestIndexing(t *testing.T) {
	if got := evalString(t, "items[0]"); got != "a" {
		t.Fatalf("expected a, got %q", got)
	}
	if got := evalString(t, "items[2]"); got != "c" {
		t.Fatalf("expected c, got %q", got)
	}
	e := NewEvaluator()
	if _, err := e.Evaluate("items[9]", testContext()); err == nil {
		t.Fatal("expected out-of-range error")
	}
}

func TestLengthAndCount(t *testing.T) {
	if got := evalString(t, "items.Length"); got != "3" {
		t.Fatalf("expected 3, got %q", got)
	}
	if got := evalString(t, "name.Length"); got != "4" {
		t.Fatalf("expected 4, got %q", got)
	}
	if got := evalString(t, "items.Count"); got != "3" {
		t.Fatalf("expected 3, got %q", got)
	}
}

func TestUndefinedIdentifier(t *testing.T) {
	e := NewEvaluator()
	_, err := e.Evaluate("nonexistent", testContext())
	if err == nil {
		t.Fatal("expected error for undefined identifier")
	}
	if !strings.Contains(err.Error(), "undefined identifier") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDivisionByZero(t *testing.T) {
	e := NewEvaluator()
	for _, src := range []string{"1 / 0", "1 % 0"} {
		if _, err := e.Evaluate(src, testContext()); err == nil {
			t.Fatalf("%q: expected division error", src)
		}
	}
}

func TestForbiddenPatterns(t *testing.T) {
	e := NewEvaluator()
	forbidden := []string{
		"System.IO.File.ReadAllText('/etc/passwd')",
		"Reflection.GetType('x')",
		"eval('1+1')",
		"exec('rm')",
		"Environment.GetVariable('PATH')",
		"File.Delete('x')",
	}
	for _, src := range forbidden {
		_, err := e.Evaluate(src, testContext())
		if err == nil {
			t.Fatalf("%q: expected rejection", src)
		}
		if !strings.Contains(err.Error(), "forbidden") {
			t.Fatalf("%q: unexpected error: %v", src, err)
		}
	}
}

func TestForbiddenDoesNotOvermatch(t *testing.T) {
	rc := testContext()
	rc.SetVariable("profile", doclayout.ObjectValue(map[string]doclayout.Value{
		"name": doclayout.StringValue("default"),
	}))

	e := NewEvaluator()
	v, err := e.Evaluate("profile.name", rc)
	if err != nil {
		t.Fatalf("identifier containing 'file' must pass: %v", err)
	}
	if v.Text() != "default" {
		t.Fatalf("expected default, got %v", v)
	}
}

func TestBuiltinFunctions(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"Round(3.456, 2)", "3.46"},
		{"Round(3.4)", "3"},
		{"Abs(-5)", "5"},
		{"Min(3, 1, 2)", "1"},
		{"Max(3, 1, 2)", "3"},
		{"Currency(1234.5)", "$1234.50"},
		{"Currency(1234.5, '€')", "€1234.50"},
		{"IsNullOrEmpty(empty) ? 'yes' : 'no'", "yes"},
		{"IsNullOrEmpty(name) ? 'yes' : 'no'", "no"},
		{"IsNullOrEmpty(nothing) ? 'yes' : 'no'", "yes"},
	}
	for _, tt := range tests {
		if got := evalString(t, tt.src); got != tt.want {
			t.Errorf("%q: expected %q, got %q", tt.src, tt.want, got)
		}
	}

	e := NewEvaluator()
	if _, err := e.Evaluate("NoSuchFunc(1)", testContext()); err == nil {
		t.Fatal("expected unknown function error")
	}
}

func TestStringMethods(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"name.ToUpper()", "JOHN"},
		{"name.ToLower()", "john"},
		{"'  pad  '.Trim()", "pad"},
		{"name.Replace('J', 'D')", "Dohn"},
		{"name.Substring(1)", "ohn"},
		{"name.Substring(0, 2)", "Jo"},
		{"name.Contains('oh') ? 'y' : 'n'", "y"},
		{"name.StartsWith('Jo') ? 'y' : 'n'", "y"},
		{"name.EndsWith('hn') ? 'y' : 'n'", "y"},
		{"value.ToString()", "7"},
	}
	for _, tt := range tests {
		if got := evalString(t, tt.src); got != tt.want {
			t.Errorf("%q: expected %q, got %q", tt.src, tt.want, got)
		}
	}

	e := NewEvaluator()
	if _, err := e.Evaluate("value.ToUpper()", testContext()); err == nil {
		t.Fatal("expected error calling string method on a number")
	}
	if _, err := e.Evaluate("name.Substring(10)", testContext()); err == nil {
		t.Fatal("expected substring range error")
	}
}

func TestScopeShadowing(t *testing.T) {
	e := NewEvaluator()
	rc := testContext()

	scope := rc.CreateScope()
	rc.SetVariable("name", doclayout.StringValue("Inner"))

	got, err := e.EvaluateString("Hello, {{ name }}!", rc)
	if err != nil {
		t.Fatalf("EvaluateString: %v", err)
	}
	if got != "Hello, Inner!" {
		t.Fatalf("expected inner binding, got %q", got)
	}

	scope.Dispose()
	got, err = e.EvaluateString("Hello, {{ name }}!", rc)
	if err != nil {
		t.Fatalf("EvaluateString after dispose: %v", err)
	}
	if got != "Hello, John!" {
		t.Fatalf("expected outer binding restored, got %q", got)
	}
}

func TestEvaluateCollection(t *testing.T) {
	e := NewEvaluator()
	rc := testContext()

	items, err := e.EvaluateCollection("items", rc)
	if err != nil {
		t.Fatalf("EvaluateCollection: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	empty, err := e.EvaluateCollection("nothing", rc)
	if err != nil {
		t.Fatalf("EvaluateCollection(null): %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("null source should yield an empty collection, got %d", len(empty))
	}

	if _, err := e.EvaluateCollection("name", rc); err == nil {
		t.Fatal("expected non-iterable error for a string source")
	}
}

func TestEvaluateNumberStrictness(t *testing.T) {
	e := NewEvaluator()
	rc := testContext()

	d, err := e.EvaluateNumber("price", rc)
	if err != nil {
		t.Fatalf("EvaluateNumber: %v", err)
	}
	if d.String() != "100" {
		t.Fatalf("expected 100, got %s", d)
	}

	_, err = e.EvaluateNumber("name", rc)
	if err == nil {
		t.Fatal("expected conversion error for a string result")
	}
	if !strings.Contains(err.Error(), "cannot convert") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSyntaxErrors(t *testing.T) {
	e := NewEvaluator()
	for _, src := range []string{"1 +", "* 2", "(1 + 2", "items[", "a ? b", "1 2"} {
		if err := e.ValidateExpression(src); err == nil {
			t.Errorf("%q: expected syntax error", src)
		}
	}
}

func TestNonASCIIInput(t *testing.T) {
	e := NewEvaluator()

	// Unicode letters lex as a single identifier.
	_, err := e.Evaluate("café", testContext())
	if err == nil || !strings.Contains(err.Error(), `undefined identifier "café"`) {
		t.Fatalf("expected undefined identifier error, got %v", err)
	}

	if err := e.ValidateExpression("price € 2"); err == nil || !strings.Contains(err.Error(), "unexpected character") {
		t.Fatalf("expected unexpected-character error, got %v", err)
	}
}

func TestTryEvaluateVariants(t *testing.T) {
	e := NewEvaluator()
	rc := testContext()

	if v, ok := e.TryEvaluate("price * 2", rc); !ok || v.String() != "200" {
		t.Fatalf("TryEvaluate = %v, %v", v, ok)
	}
	if _, ok := e.TryEvaluate("missing", rc); ok {
		t.Fatalf("TryEvaluate on undefined identifier reported ok")
	}

	if s, ok := e.TryEvaluateString("Hi {{ name }}", rc); !ok || s != "Hi John" {
		t.Fatalf("TryEvaluateString = %q, %v", s, ok)
	}
	if _, ok := e.TryEvaluateString("{{ missing }}", rc); ok {
		t.Fatalf("TryEvaluateString on undefined identifier reported ok")
	}

	if b, ok := e.TryEvaluateCondition("price > 50", rc); !ok || !b {
		t.Fatalf("TryEvaluateCondition = %v, %v", b, ok)
	}
	if _, ok := e.TryEvaluateCondition("1 +", rc); ok {
		t.Fatalf("TryEvaluateCondition on syntax error reported ok")
	}

	if d, ok := e.TryEvaluateNumber("price + 1", rc); !ok || d.String() != "101" {
		t.Fatalf("TryEvaluateNumber = %s, %v", d, ok)
	}
	if _, ok := e.TryEvaluateNumber("name", rc); ok {
		t.Fatalf("TryEvaluateNumber on a string reported ok")
	}
}

func TestEmptyAndOversizedExpressions(t *testing.T) {
	e := NewEvaluator(WithMaxLength(16))
	if err := e.ValidateExpression("   "); err == nil {
		t.Fatal("expected error for empty expression")
	}
	if err := e.ValidateExpression("1 + 2 + 3 + 4 + 5 + 6"); err == nil {
		t.Fatal("expected error for oversized expression")
	}
	if err := e.ValidateExpression("1 + 2"); err != nil {
		t.Fatalf("short expression should pass: %v", err)
	}
}

func TestCompileCaching(t *testing.T) {
	e := NewEvaluator(WithCacheSize(2))
	rc := testContext()

	for i := 0; i < 3; i++ {
		v, err := e.Evaluate("price * 2", rc)
		if err != nil {
			t.Fatalf("Evaluate: %v", err)
		}
		if v.String() != "200" {
			t.Fatalf("expected 200, got %v", v)
		}
	}

	// Evictions must not affect correctness.
	for _, src := range []string{"1 + 1", "2 + 2", "3 + 3", "price * 2"} {
		if _, err := e.Evaluate(src, rc); err != nil {
			t.Fatalf("Evaluate(%q): %v", src, err)
		}
	}
}

func TestExtractExpressions(t *testing.T) {
	got := ExtractExpressions("{{ a }} and {{ b.c }} but not {{ unclosed")
	if len(got) != 2 || got[0] != "a" || got[1] != "b.c" {
		t.Fatalf("unexpected extraction: %v", got)
	}
	if ContainsExpressions("no spans here") {
		t.Fatal("expected no spans")
	}
	if !ContainsExpressions("one {{ span }}") {
		t.Fatal("expected a span")
	}
}
