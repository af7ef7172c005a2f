// Package validate statically analyzes a layout tree: structural checks,
// expression syntax checks, optional semantic checks against sample data,
// lint-style warnings, and structural statistics with a derived complexity
// score. Errors accumulate so one pass reports the full set; nothing here
// evaluates expressions against live data unless sample data is supplied.
package validate

import "github.com/lvillar/doclayout"

// Code identifies a class of validation finding.
type Code string

const (
	CodeUnknownComponent        Code = "UNKNOWN_COMPONENT"
	CodeMissingRequiredProperty Code = "MISSING_REQUIRED_PROPERTY"
	CodeInvalidPropertyType     Code = "INVALID_PROPERTY_TYPE"
	CodeDuplicateNodeID         Code = "DUPLICATE_NODE_ID"
	CodeInvalidExpression       Code = "INVALID_EXPRESSION"
	CodeInvalidRepeatSource     Code = "INVALID_REPEAT_SOURCE"
	CodeInvalidStructure        Code = "INVALID_STRUCTURE"

	CodeCircularReference   Code = "CIRCULAR_REFERENCE"
	CodeDeepNesting         Code = "DEEP_NESTING"
	CodeTooManyChildren     Code = "TOO_MANY_CHILDREN"
	CodeDeprecatedComponent Code = "DEPRECATED_COMPONENT"
	CodeInsecureImageURL    Code = "INSECURE_IMAGE_URL"
	CodeUnknownFont         Code = "UNKNOWN_FONT"
	CodeUnnecessaryWrappers Code = "UNNECESSARY_WRAPPERS"
)

// Issue is one validation finding, attributed to a tree path and, when the
// owning node has one, its ID.
type Issue struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path"`
	NodeID  string `json:"nodeId,omitempty"`
}

// Statistics summarizes the structure of a validated tree.
type Statistics struct {
	NodeCount        int                    `json:"nodeCount"`
	MaxDepth         int                    `json:"maxDepth"`
	KindCounts       map[doclayout.Kind]int `json:"kindCounts"`
	ExpressionCount  int                    `json:"expressionCount"`
	ImageCount       int                    `json:"imageCount"`
	RepeatCount      int                    `json:"repeatCount"`
	ConditionalCount int                    `json:"conditionalCount"`
	ComplexityScore  int                    `json:"complexityScore"` // 1..10
}

// Result is the outcome of one validation pass.
type Result struct {
	IsValid    bool       `json:"isValid"`
	Errors     []Issue    `json:"errors"`
	Warnings   []Issue    `json:"warnings"`
	Statistics Statistics `json:"statistics"`
}
