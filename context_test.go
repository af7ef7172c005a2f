package doclayout

import "testing"

func TestRenderContextScopes(t *testing.T) {
	rc := NewRenderContext(ObjectValue(map[string]Value{
		"name": StringValue("root"),
	}))

	if rc.ScopeDepth() != 1 {
		t.Fatalf("expected 1 scope, got %d", rc.ScopeDepth())
	}

	scope := rc.CreateScope()
	rc.SetVariable("name", StringValue("inner"))
	rc.SetVariable("extra", IntValue(1))

	if v, ok := rc.Lookup("name"); !ok || v.Text() != "inner" {
		t.Fatalf("expected shadowed binding, got %v", v)
	}
	if _, ok := rc.Lookup("extra"); !ok {
		t.Fatal("expected scoped binding")
	}

	scope.Dispose()
	if v, ok := rc.Lookup("name"); !ok || v.Text() != "root" {
		t.Fatalf("expected root data field after dispose, got %v", v)
	}
	if _, ok := rc.Lookup("extra"); ok {
		t.Fatal("scoped binding must vanish on dispose")
	}
}

func TestScopeDisposeIdempotent(t *testing.T) {
	rc := NewRenderContext(NullValue())
	scope := rc.CreateScope()
	scope.Dispose()
	scope.Dispose()
	if rc.ScopeDepth() != 1 {
		t.Fatalf("double dispose must not pop twice, depth %d", rc.ScopeDepth())
	}
}

func TestLookupBuiltins(t *testing.T) {
	rc := NewRenderContext(ObjectValue(map[string]Value{
		"page": StringValue("shadow-me-not"),
	}))
	rc.Page = PageInfo{Width: 595, Height: 842, CurrentPage: 2, TotalPages: 5}
	rc.Document = DocumentInfo{Title: "Report", Author: "QA"}
	rc.Repeat = RepeatInfo{IsRepeating: true, Index: 1, Count: 3, IsLast: false}

	page, ok := rc.Lookup("page")
	if !ok {
		t.Fatal("expected page builtin")
	}
	// Builtins win over same-named data fields.
	if page.Type() != ObjectType {
		t.Fatalf("expected builtin object, got %s", page.Type())
	}
	cur, _ := page.Field("currentPage")
	if cur.String() != "2" {
		t.Fatalf("unexpected currentPage: %v", cur)
	}

	doc, _ := rc.Lookup("document")
	title, _ := doc.Field("title")
	if title.Text() != "Report" {
		t.Fatalf("unexpected title: %v", title)
	}

	idx, _ := rc.Lookup("repeatIndex")
	if idx.String() != "1" {
		t.Fatalf("unexpected repeatIndex: %v", idx)
	}
	rep, _ := rc.Lookup("isRepeating")
	if !rep.Bool() {
		t.Fatal("expected isRepeating true")
	}
}

func TestLookupFallsBackToDataFields(t *testing.T) {
	rc := NewRenderContext(ObjectValue(map[string]Value{
		"customer": StringValue("Acme"),
	}))
	if v, ok := rc.Lookup("customer"); !ok || v.Text() != "Acme" {
		t.Fatalf("expected root field, got %v", v)
	}
	if _, ok := rc.Lookup("missing"); ok {
		t.Fatal("unknown identifier must not resolve")
	}
}

func TestInheritedStyleStack(t *testing.T) {
	rc := NewRenderContext(NullValue())
	if rc.InheritedStyle() != nil {
		t.Fatal("no inherited style initially")
	}

	outer := &StyleProperties{FontFamily: "Helvetica"}
	popOuter := rc.PushInheritedStyle(outer)
	inner := &StyleProperties{FontFamily: "Courier"}
	popInner := rc.PushInheritedStyle(inner)

	if rc.InheritedStyle().FontFamily != "Courier" {
		t.Fatalf("expected innermost style, got %q", rc.InheritedStyle().FontFamily)
	}
	popInner()
	if rc.InheritedStyle().FontFamily != "Helvetica" {
		t.Fatalf("expected outer style restored, got %q", rc.InheritedStyle().FontFamily)
	}
	popOuter()
	if rc.InheritedStyle() != nil {
		t.Fatal("expected empty style stack")
	}
}
