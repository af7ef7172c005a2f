// Package doclayout implements a declarative, data-driven document layout
// model. A document is described as a tree of typed nodes (containers,
// wrappers, and content leaves) whose properties, visibility, and repetition
// may be bound to a runtime data payload through small embedded
// `{{ ... }}` expressions.
//
// The package splits into a data model (this package), an expression
// evaluator (package expr), a recursive renderer that translates a node tree
// into drawing instructions for a document-building Sink (package render),
// and a static validation engine (package validate).
//
// Example template:
//
//	{
//	  "type": "column",
//	  "children": [
//	    {"type": "text", "properties": {"content": "Hello, {{ name }}!"}},
//	    {
//	      "type": "text",
//	      "repeatFor": "data.items",
//	      "repeatAs": "item",
//	      "properties": {"content": "{{ repeatIndex + 1 }}. {{ item.label }}"}
//	    }
//	  ]
//	}
package doclayout
