package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lvillar/doclayout"
	"github.com/lvillar/doclayout/expr"
)

var evaluator = expr.NewEvaluator()

// Fonts available without embedding. Anything else needs a font file at
// render time, which a template alone cannot guarantee.
var builtinFonts = map[string]bool{
	"helvetica":    true,
	"arial":        true,
	"courier":      true,
	"times":        true,
	"symbol":       true,
	"zapfdingbats": true,
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// wrapperChainWarnAt is the consecutive single-child wrapper count at which
// the chain is flagged once.
const wrapperChainWarnAt = 3

// Validate analyzes a layout tree and reports every finding in one pass.
// It never stops at the first error.
func Validate(root *doclayout.LayoutNode, opts ...Option) *Result {
	cfg := newConfig(opts)
	v := &validator{cfg: cfg}
	if cfg.hasSampleData {
		v.sampleCtx = doclayout.NewRenderContext(cfg.sampleData)
	}

	res := &Result{}
	if root == nil {
		res.Errors = append(res.Errors, Issue{
			Code:    CodeInvalidStructure,
			Message: "layout tree is empty",
			Path:    "",
		})
	} else {
		v.walk(root, res)
	}

	res.Statistics = v.stats
	res.Statistics.ComplexityScore = complexityScore(v.stats)
	if cfg.strict {
		res.Errors = append(res.Errors, res.Warnings...)
		res.Warnings = nil
	}
	res.IsValid = len(res.Errors) == 0
	return res
}

type frame struct {
	node       *doclayout.LayoutNode
	path       string
	depth      int
	wrapperRun int
}

type validator struct {
	cfg       config
	sampleCtx *doclayout.RenderContext
	stats     Statistics
	idPaths   map[string]string
	deepWarn  bool
}

// walk traverses the tree in document order with an explicit stack so that
// pathological nesting cannot exhaust the goroutine stack.
func (v *validator) walk(root *doclayout.LayoutNode, res *Result) {
	v.idPaths = make(map[string]string)
	v.stats.KindCounts = make(map[doclayout.Kind]int)

	stack := []frame{{node: root, path: "", depth: 1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		v.checkNode(f, res)

		refs := childRefs(f.node)
		run := 0
		if meta, ok := doclayout.Metadata(f.node.Kind); ok && meta.Category == doclayout.CategoryWrapper {
			run = f.wrapperRun + 1
		}
		for i := len(refs) - 1; i >= 0; i-- {
			stack = append(stack, frame{
				node:       refs[i].node,
				path:       joinPath(f.path, refs[i].seg),
				depth:      f.depth + 1,
				wrapperRun: run,
			})
		}
	}
}

func (v *validator) checkNode(f frame, res *Result) {
	n := f.node
	v.stats.NodeCount++
	if f.depth > v.stats.MaxDepth {
		v.stats.MaxDepth = f.depth
	}
	v.stats.KindCounts[n.Kind]++
	if n.Kind == doclayout.KindImage {
		v.stats.ImageCount++
	}
	if n.Visible != "" {
		v.stats.ConditionalCount++
		v.stats.ExpressionCount++
	}
	if n.RepeatFor != "" {
		v.stats.RepeatCount++
		v.stats.ExpressionCount++
	}
	for _, propVal := range n.Properties {
		if propVal.ContainsExpression() {
			v.stats.ExpressionCount += len(expr.ExtractExpressions(propVal.Text()))
		}
	}

	meta, known := doclayout.Metadata(n.Kind)
	if !known {
		res.Errors = append(res.Errors, v.issue(CodeUnknownComponent, f,
			fmt.Sprintf("unknown component kind %q", n.Kind)))
	}

	if n.ID != "" {
		if prev, dup := v.idPaths[n.ID]; dup {
			res.Errors = append(res.Errors, v.issue(CodeDuplicateNodeID, f,
				fmt.Sprintf("duplicate node id %q, first used at %q", n.ID, displayPath(prev))))
		} else {
			v.idPaths[n.ID] = f.path
		}
	}

	if known {
		v.checkProperties(f, meta, res)
		v.checkStructure(f, meta, res)
		if v.cfg.checkDeprecations && meta.Deprecated {
			msg := fmt.Sprintf("component kind %q is deprecated", n.Kind)
			if meta.ReplacedBy != "" {
				msg += fmt.Sprintf(", use %q instead", meta.ReplacedBy)
			}
			res.Warnings = append(res.Warnings, v.issue(CodeDeprecatedComponent, f, msg))
		}
		if f.wrapperRun+1 == wrapperChainWarnAt && meta.Category == doclayout.CategoryWrapper {
			if v.cfg.checkPerformance {
				res.Warnings = append(res.Warnings, v.issue(CodeUnnecessaryWrappers, f,
					fmt.Sprintf("%d consecutive wrapper nodes, consider merging them", wrapperChainWarnAt)))
			}
		}
	}

	if v.cfg.checkExpressions {
		v.checkExpressions(f, res)
	}
	v.checkRepeat(f, res)

	if v.cfg.checkImageURLs && n.Kind == doclayout.KindImage {
		if src, ok := n.Prop("src"); ok && src.Type() == doclayout.StringType {
			if strings.HasPrefix(src.Text(), "http://") {
				res.Warnings = append(res.Warnings, v.issue(CodeInsecureImageURL, f,
					fmt.Sprintf("image source %q uses plain HTTP", src.Text())))
			}
		}
	}

	if v.cfg.checkFonts && n.Style != nil && n.Style.FontFamily != "" {
		family := n.Style.FontFamily
		if !expr.ContainsExpressions(family) && !builtinFonts[strings.ToLower(family)] {
			res.Warnings = append(res.Warnings, v.issue(CodeUnknownFont, f,
				fmt.Sprintf("font family %q is not a built-in font", family)))
		}
	}

	if v.cfg.checkPerformance {
		if f.depth > v.cfg.maxDepth && !v.deepWarn {
			v.deepWarn = true
			res.Warnings = append(res.Warnings, v.issue(CodeDeepNesting, f,
				fmt.Sprintf("nesting depth %d exceeds %d", f.depth, v.cfg.maxDepth)))
		}
		if len(n.Children) > v.cfg.maxChildren {
			res.Warnings = append(res.Warnings, v.issue(CodeTooManyChildren, f,
				fmt.Sprintf("%d children exceeds %d", len(n.Children), v.cfg.maxChildren)))
		}
	}
}

func (v *validator) checkProperties(f frame, meta *doclayout.ComponentMetadata, res *Result) {
	n := f.node
	for _, spec := range meta.Required {
		if _, ok := n.Prop(spec.Name); !ok {
			res.Errors = append(res.Errors, v.issue(CodeMissingRequiredProperty, f,
				fmt.Sprintf("component %q requires property %q", n.Kind, spec.Name)))
		}
	}
	for name, val := range n.Properties {
		spec, ok := meta.PropSpecFor(name)
		if !ok {
			continue
		}
		if msg := propTypeProblem(spec, val); msg != "" {
			res.Errors = append(res.Errors, Issue{
				Code:    CodeInvalidPropertyType,
				Message: msg,
				Path:    joinPath(f.path, "properties."+name),
				NodeID:  n.ID,
			})
		}
	}
}

// propTypeProblem reports a mismatch between a declared property type and a
// literal value. String values carrying expressions are left to the
// expression checks, their resolved type is unknowable statically.
func propTypeProblem(spec doclayout.PropSpec, val doclayout.Value) string {
	if val.Type() == doclayout.StringType && val.ContainsExpression() {
		return ""
	}
	switch spec.Type {
	case doclayout.PropNumber:
		if val.Type() != doclayout.NumberType {
			return fmt.Sprintf("property %q expects a number, got %s", spec.Name, val.Type())
		}
	case doclayout.PropBool:
		if val.Type() != doclayout.BoolType {
			return fmt.Sprintf("property %q expects a boolean, got %s", spec.Name, val.Type())
		}
	case doclayout.PropString, doclayout.PropURL, doclayout.PropExpression:
		if val.Type() != doclayout.StringType {
			return fmt.Sprintf("property %q expects a string, got %s", spec.Name, val.Type())
		}
	case doclayout.PropColor:
		if val.Type() != doclayout.StringType {
			return fmt.Sprintf("property %q expects a color string, got %s", spec.Name, val.Type())
		}
		if !hexColor.MatchString(val.Text()) {
			return fmt.Sprintf("property %q expects a hex color like #RRGGBB, got %q", spec.Name, val.Text())
		}
	case doclayout.PropEnum:
		if val.Type() != doclayout.StringType {
			return fmt.Sprintf("property %q expects one of %v, got %s", spec.Name, spec.Enum, val.Type())
		}
		for _, allowed := range spec.Enum {
			if val.Text() == allowed {
				return ""
			}
		}
		return fmt.Sprintf("property %q expects one of %v, got %q", spec.Name, spec.Enum, val.Text())
	case doclayout.PropObject:
		if val.Type() != doclayout.ObjectType {
			return fmt.Sprintf("property %q expects an object, got %s", spec.Name, val.Type())
		}
	case doclayout.PropArray:
		if val.Type() != doclayout.ArrayType {
			return fmt.Sprintf("property %q expects an array, got %s", spec.Name, val.Type())
		}
	}
	return ""
}

func (v *validator) checkStructure(f frame, meta *doclayout.ComponentMetadata, res *Result) {
	n := f.node
	switch meta.Category {
	case doclayout.CategoryLeaf:
		if len(n.Children) > 0 || n.Child != nil {
			res.Errors = append(res.Errors, v.issue(CodeInvalidStructure, f,
				fmt.Sprintf("leaf component %q cannot have children", n.Kind)))
		}
	case doclayout.CategoryWrapper:
		if len(n.Children) > 0 {
			res.Errors = append(res.Errors, v.issue(CodeInvalidStructure, f,
				fmt.Sprintf("wrapper component %q takes a single child, not children", n.Kind)))
		}
	case doclayout.CategoryContainer:
		if n.Child != nil {
			res.Warnings = append(res.Warnings, v.issue(CodeInvalidStructure, f,
				fmt.Sprintf("container component %q should use children, not child", n.Kind)))
		}
	}
}

func (v *validator) checkExpressions(f frame, res *Result) {
	n := f.node
	v.checkBareExpression(n.Visible, joinPath(f.path, "visible"), n.ID, res)
	v.checkBareExpression(n.RepeatFor, joinPath(f.path, "repeatFor"), n.ID, res)

	for name, val := range n.Properties {
		if val.Type() != doclayout.StringType {
			continue
		}
		propPath := joinPath(f.path, "properties."+name)
		if val.ContainsExpression() {
			for _, body := range expr.ExtractExpressions(val.Text()) {
				if err := evaluator.ValidateExpression(body); err != nil {
					res.Errors = append(res.Errors, Issue{
						Code:    CodeInvalidExpression,
						Message: err.Error(),
						Path:    propPath,
						NodeID:  n.ID,
					})
				}
			}
		} else if spec, ok := propSpec(n, name); ok && spec.Type == doclayout.PropExpression {
			v.checkBareExpression(val.Text(), propPath, n.ID, res)
		}
	}

	if n.Style != nil {
		for field, text := range map[string]string{
			"style.fontFamily": n.Style.FontFamily,
			"style.color":      n.Style.Color,
			"style.background": n.Style.Background,
		} {
			if !expr.ContainsExpressions(text) {
				continue
			}
			for _, body := range expr.ExtractExpressions(text) {
				if err := evaluator.ValidateExpression(body); err != nil {
					res.Errors = append(res.Errors, Issue{
						Code:    CodeInvalidExpression,
						Message: err.Error(),
						Path:    joinPath(f.path, field),
						NodeID:  n.ID,
					})
				}
			}
		}
	}
}

func (v *validator) checkBareExpression(src, path, nodeID string, res *Result) {
	if src == "" {
		return
	}
	if err := evaluator.ValidateExpression(src); err != nil {
		res.Errors = append(res.Errors, Issue{
			Code:    CodeInvalidExpression,
			Message: err.Error(),
			Path:    path,
			NodeID:  nodeID,
		})
	}
}

func (v *validator) checkRepeat(f frame, res *Result) {
	n := f.node
	if n.RepeatFor == "" {
		return
	}

	// A repeat source that mentions the loop machinery itself is the usual
	// sign of a template pasted into its own collection.
	if strings.Contains(n.RepeatFor, "repeatFor") || strings.Contains(n.RepeatFor, "RepeatFor") {
		res.Warnings = append(res.Warnings, v.issue(CodeCircularReference, f,
			fmt.Sprintf("repeat source %q appears to reference the repeat binding itself", n.RepeatFor)))
	}

	if v.sampleCtx == nil {
		return
	}
	val, err := evaluator.Evaluate(n.RepeatFor, v.sampleCtx)
	if err != nil {
		// Loop variables from enclosing repeats are not in scope during
		// static analysis, so unresolved identifiers are not findings.
		return
	}
	if val.Type() != doclayout.ArrayType && !val.IsNull() {
		res.Errors = append(res.Errors, v.issue(CodeInvalidRepeatSource, f,
			fmt.Sprintf("repeat source %q evaluates to %s, expected an array", n.RepeatFor, val.Type())))
	}
}

func (v *validator) issue(code Code, f frame, msg string) Issue {
	return Issue{Code: code, Message: msg, Path: f.path, NodeID: f.node.ID}
}

func propSpec(n *doclayout.LayoutNode, name string) (doclayout.PropSpec, bool) {
	meta, ok := doclayout.Metadata(n.Kind)
	if !ok {
		return doclayout.PropSpec{}, false
	}
	return meta.PropSpecFor(name)
}

type childRef struct {
	node *doclayout.LayoutNode
	seg  string
}

// childRefs lists every attached child. Nodes with both child and children
// set are malformed, but checks still have to see the whole tree.
func childRefs(n *doclayout.LayoutNode) []childRef {
	var refs []childRef
	if n.Child != nil {
		refs = append(refs, childRef{n.Child, "child"})
	}
	for i, c := range n.Children {
		refs = append(refs, childRef{c, fmt.Sprintf("children[%d]", i)})
	}
	return refs
}

func joinPath(parent, seg string) string {
	if parent == "" {
		return seg
	}
	return parent + "." + seg
}

func displayPath(p string) string {
	if p == "" {
		return "(root)"
	}
	return p
}
