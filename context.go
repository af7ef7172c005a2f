package doclayout

// PageInfo describes the page geometry and counters. It is mutated by the
// document-building collaborator as pages are emitted and read back by
// expressions such as {{ page.currentPage }}.
type PageInfo struct {
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	CurrentPage int     `json:"currentPage"`
	TotalPages  int     `json:"totalPages"`
}

// RepeatInfo describes the innermost active repeatFor iteration.
type RepeatInfo struct {
	IsRepeating bool
	Index       int
	Count       int
	IsFirst     bool
	IsLast      bool
}

// DocumentInfo carries document metadata, set once before rendering starts.
type DocumentInfo struct {
	Title  string
	Author string
}

// RenderContext is the mutable state of a single render pass: the root data
// payload, a stack of variable scopes, page and repeat counters, and the
// inherited style chain. It is created per render call, owned by exactly one
// Render invocation, and never shared across concurrent renders.
type RenderContext struct {
	data     Value
	scopes   []map[string]Value
	styles   []*StyleProperties
	Page     PageInfo
	Repeat   RepeatInfo
	Document DocumentInfo
}

// NewRenderContext creates a context over the given root data value with a
// single root scope.
func NewRenderContext(data Value) *RenderContext {
	return &RenderContext{
		data:   data,
		scopes: []map[string]Value{{}},
	}
}

// Data returns the root data value.
func (rc *RenderContext) Data() Value { return rc.data }

// Scope is a handle to one pushed variable frame. Dispose pops the frame,
// reverting every binding made since CreateScope, including bindings that
// shadowed an outer variable of the same name.
type Scope struct {
	rc       *RenderContext
	disposed bool
}

// CreateScope pushes a fresh variable frame. Callers must pair it with
// Dispose on every exit path, typically via defer.
func (rc *RenderContext) CreateScope() *Scope {
	rc.scopes = append(rc.scopes, map[string]Value{})
	return &Scope{rc: rc}
}

// Dispose pops the frame created by CreateScope. It is idempotent.
func (s *Scope) Dispose() {
	if s.disposed || len(s.rc.scopes) <= 1 {
		return
	}
	s.disposed = true
	s.rc.scopes = s.rc.scopes[:len(s.rc.scopes)-1]
}

// ScopeDepth reports the number of live variable frames.
func (rc *RenderContext) ScopeDepth() int { return len(rc.scopes) }

// SetVariable binds name in the innermost scope, shadowing any outer
// binding of the same name until that scope is disposed.
func (rc *RenderContext) SetVariable(name string, v Value) {
	rc.scopes[len(rc.scopes)-1][name] = v
}

// Lookup resolves an identifier: scopes innermost-first, then the built-in
// context variables, then top-level fields of the root data object.
func (rc *RenderContext) Lookup(name string) (Value, bool) {
	for i := len(rc.scopes) - 1; i >= 0; i-- {
		if v, ok := rc.scopes[i][name]; ok {
			return v, true
		}
	}
	if v, ok := rc.builtin(name); ok {
		return v, true
	}
	if v, ok := rc.data.Field(name); ok {
		return v, true
	}
	return Value{}, false
}

func (rc *RenderContext) builtin(name string) (Value, bool) {
	switch name {
	case "data":
		return rc.data, true
	case "page":
		return ObjectValue(map[string]Value{
			"width":       FloatValue(rc.Page.Width),
			"height":      FloatValue(rc.Page.Height),
			"currentPage": IntValue(int64(rc.Page.CurrentPage)),
			"totalPages":  IntValue(int64(rc.Page.TotalPages)),
		}), true
	case "document":
		return ObjectValue(map[string]Value{
			"title":  StringValue(rc.Document.Title),
			"author": StringValue(rc.Document.Author),
		}), true
	case "repeatIndex":
		return IntValue(int64(rc.Repeat.Index)), true
	case "repeatCount":
		return IntValue(int64(rc.Repeat.Count)), true
	case "isRepeating":
		return BoolValue(rc.Repeat.IsRepeating), true
	case "isFirst":
		return BoolValue(rc.Repeat.IsFirst), true
	case "isLast":
		return BoolValue(rc.Repeat.IsLast), true
	}
	return Value{}, false
}

// InheritedStyle returns the style currently inherited from defaultTextStyle
// ancestors, or nil when none is active.
func (rc *RenderContext) InheritedStyle() *StyleProperties {
	if len(rc.styles) == 0 {
		return nil
	}
	return rc.styles[len(rc.styles)-1]
}

// PushInheritedStyle installs s as the inherited style for a subtree and
// returns the function restoring the previous one.
func (rc *RenderContext) PushInheritedStyle(s *StyleProperties) func() {
	rc.styles = append(rc.styles, s)
	return func() {
		rc.styles = rc.styles[:len(rc.styles)-1]
	}
}
