package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/lvillar/doclayout"
)

// Resources use URI templates with the doclayout:// scheme.
func registerResources(s *Server) {
	s.AddResource(Resource{
		URI:         "doclayout://components",
		Name:        "Component Catalog",
		Description: "All supported component kinds with categories and property specifications.",
		MIMEType:    "application/json",
		Handler:     handleComponentsResource,
	})

	s.AddResource(Resource{
		URI:         "doclayout://example",
		Name:        "Example Template",
		Description: "A small invoice-style template demonstrating expressions, repeats and conditional visibility.",
		MIMEType:    "application/json",
		Handler:     handleExampleResource,
	})
}

func handleComponentsResource(uri string) ([]ResourceContent, error) {
	catalog := make([]map[string]any, 0)
	for _, kind := range doclayout.Kinds() {
		meta, _ := doclayout.Metadata(kind)
		entry := map[string]any{
			"kind":     kind,
			"category": meta.Category.String(),
		}
		if len(meta.Required) > 0 {
			entry["required"] = propSpecsJSON(meta.Required)
		}
		if len(meta.Optional) > 0 {
			entry["optional"] = propSpecsJSON(meta.Optional)
		}
		if meta.Deprecated {
			entry["deprecated"] = true
			if meta.ReplacedBy != "" {
				entry["replacedBy"] = meta.ReplacedBy
			}
		}
		catalog = append(catalog, entry)
	}

	encoded, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding catalog: %w", err)
	}
	return []ResourceContent{{
		URI:      uri,
		MIMEType: "application/json",
		Text:     string(encoded),
	}}, nil
}

func propSpecsJSON(specs []doclayout.PropSpec) []map[string]any {
	out := make([]map[string]any, 0, len(specs))
	for _, spec := range specs {
		entry := map[string]any{
			"name": spec.Name,
			"type": spec.Type.String(),
		}
		if len(spec.Enum) > 0 {
			entry["enum"] = spec.Enum
		}
		if !spec.Default.IsNull() {
			entry["default"] = spec.Default
		}
		out = append(out, entry)
	}
	return out
}

const exampleTemplate = `{
  "type": "column",
  "children": [
    {
      "type": "text",
      "properties": { "content": "Invoice {{ invoice.number }}" },
      "style": { "fontSize": 18, "fontStyle": "B" }
    },
    {
      "type": "text",
      "visible": "invoice.discount > 0",
      "properties": { "content": "Discount applied: {{ Currency(invoice.discount) }}" }
    },
    { "type": "divider" },
    {
      "type": "row",
      "repeatFor": "invoice.lines",
      "repeatAs": "line",
      "children": [
        { "type": "text", "properties": { "content": "{{ line.description }}" } },
        { "type": "text", "properties": { "content": "{{ Currency(line.quantity * line.unitPrice) }}" } }
      ]
    },
    { "type": "spacer", "properties": { "size": 12 } },
    {
      "type": "text",
      "properties": { "content": "Total: {{ Currency(invoice.total) }}" },
      "style": { "fontStyle": "B" }
    }
  ]
}`

func handleExampleResource(uri string) ([]ResourceContent, error) {
	return []ResourceContent{{
		URI:      uri,
		MIMEType: "application/json",
		Text:     exampleTemplate,
	}}, nil
}
