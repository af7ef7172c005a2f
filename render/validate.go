package render

import (
	"fmt"

	"github.com/lvillar/doclayout"
)

// LayoutIssue is one finding from the engine-level structural check.
type LayoutIssue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// LayoutValidation is the result of ValidateLayout.
type LayoutValidation struct {
	Valid    bool          `json:"valid"`
	Errors   []LayoutIssue `json:"errors,omitempty"`
	Warnings []LayoutIssue `json:"warnings,omitempty"`
}

// ValidateLayout is the engine's cheap pre-render check: every kind must be
// registered and every declared-required property present. Use package
// validate for the full static analysis. Paths carry positional indices so
// failures are attributable to a specific subtree location.
func (e *Engine) ValidateLayout(node *doclayout.LayoutNode) LayoutValidation {
	var v LayoutValidation
	if node == nil {
		v.Errors = append(v.Errors, LayoutIssue{Path: "", Message: "node is nil"})
		return v
	}
	e.validateNode(node, "", &v)
	v.Valid = len(v.Errors) == 0
	return v
}

func (e *Engine) validateNode(node *doclayout.LayoutNode, path string, v *LayoutValidation) {
	meta, ok := doclayout.Metadata(node.Kind)
	if !ok {
		v.Errors = append(v.Errors, LayoutIssue{
			Path:    path,
			Message: fmt.Sprintf("unknown component kind %q", node.Kind),
		})
		return
	}
	for _, spec := range meta.Required {
		if _, present := node.Properties[spec.Name]; !present {
			v.Errors = append(v.Errors, LayoutIssue{
				Path:    path,
				Message: fmt.Sprintf("%s requires property %q", node.Kind, spec.Name),
			})
		}
	}
	switch meta.Category {
	case doclayout.CategoryLeaf:
		if len(node.Children) > 0 || node.Child != nil {
			v.Errors = append(v.Errors, LayoutIssue{
				Path:    path,
				Message: fmt.Sprintf("%s is a leaf and cannot have children", node.Kind),
			})
		}
	case doclayout.CategoryWrapper:
		if len(node.Children) > 0 {
			v.Errors = append(v.Errors, LayoutIssue{
				Path:    path,
				Message: fmt.Sprintf("%s is a wrapper and takes a single child, not children", node.Kind),
			})
		}
	case doclayout.CategoryContainer:
		if node.Child != nil {
			v.Warnings = append(v.Warnings, LayoutIssue{
				Path:    path,
				Message: fmt.Sprintf("%s is a container; its child field is ignored", node.Kind),
			})
		}
	}
	for i, c := range node.Children {
		e.validateNode(c, childPath(path, fmt.Sprintf("children[%d]", i)), v)
	}
	if node.Child != nil && meta.Category == doclayout.CategoryWrapper {
		e.validateNode(node.Child, childPath(path, "child"), v)
	}
}

func childPath(base, seg string) string {
	if base == "" {
		return seg
	}
	return base + "." + seg
}
