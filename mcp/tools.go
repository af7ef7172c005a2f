package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lvillar/doclayout"
	"github.com/lvillar/doclayout/render"
	"github.com/lvillar/doclayout/validate"
)

func registerTools(s *Server) {
	s.AddTool(validateLayoutTool())
	s.AddTool(renderLayoutTool())
	s.AddTool(layoutStatsTool())
	s.AddTool(listComponentsTool())
}

func templateSchema() map[string]any {
	return map[string]any{
		"type":        []string{"object", "string"},
		"description": "Layout template as a JSON object, or as a string in JSON or YAML form",
	}
}

func validateLayoutTool() Tool {
	return Tool{
		Name:        "validate_layout",
		Description: "Validate a layout template: structure, required properties, expression syntax, deprecated components and performance warnings. Returns the full list of errors and warnings plus structural statistics.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"template": templateSchema(),
				"sampleData": map[string]any{
					"type":        "object",
					"description": "Optional sample data for semantic checks such as repeat sources",
				},
				"strict": map[string]any{
					"type":        "boolean",
					"description": "Treat warnings as errors",
				},
			},
			"required": []string{"template"},
		},
		Handler: handleValidateLayout,
	}
}

func handleValidateLayout(args map[string]any) (ToolResult, error) {
	node, err := templateArg(args)
	if err != nil {
		return ToolResult{}, err
	}

	var opts []validate.Option
	if sample, ok := args["sampleData"]; ok {
		val, err := toValue(sample)
		if err != nil {
			return ToolResult{}, fmt.Errorf("decoding sampleData: %w", err)
		}
		opts = append(opts, validate.WithSampleData(val))
	}
	if strict, _ := args["strict"].(bool); strict {
		opts = append(opts, validate.WithStrictMode())
	}

	return jsonResult(validate.Validate(node, opts...))
}

func renderLayoutTool() Tool {
	return Tool{
		Name:        "render_layout",
		Description: "Render a layout template against data and return the resulting draw instructions as JSON. Useful for previewing what a backend would receive without producing a document.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"template": templateSchema(),
				"data": map[string]any{
					"type":        "object",
					"description": "Data the template's expressions are evaluated against",
				},
			},
			"required": []string{"template"},
		},
		Handler: handleRenderLayout,
	}
}

func handleRenderLayout(args map[string]any) (ToolResult, error) {
	node, err := templateArg(args)
	if err != nil {
		return ToolResult{}, err
	}

	data := doclayout.NullValue()
	if raw, ok := args["data"]; ok {
		data, err = toValue(raw)
		if err != nil {
			return ToolResult{}, fmt.Errorf("decoding data: %w", err)
		}
	}

	engine := render.New()
	rec := doclayout.NewRecorder()
	rc := doclayout.NewRenderContext(data)
	if err := engine.Render(context.Background(), rec, node, rc); err != nil {
		return ToolResult{}, fmt.Errorf("rendering layout: %w", err)
	}

	return jsonResult(map[string]any{
		"instructions": rec.Instructions(),
		"page":         rec.Page(),
	})
}

func layoutStatsTool() Tool {
	return Tool{
		Name:        "layout_stats",
		Description: "Compute structural statistics for a layout template: node and expression counts, nesting depth, per-kind counts and a 1-10 complexity score.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"template": templateSchema(),
			},
			"required": []string{"template"},
		},
		Handler: handleLayoutStats,
	}
}

func handleLayoutStats(args map[string]any) (ToolResult, error) {
	node, err := templateArg(args)
	if err != nil {
		return ToolResult{}, err
	}
	res := validate.Validate(node, validate.WithoutExpressionValidation())
	return jsonResult(res.Statistics)
}

func listComponentsTool() Tool {
	return Tool{
		Name:        "list_components",
		Description: "List the supported component kinds with their category, required and optional properties, and deprecation status.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"category": map[string]any{
					"type":        "string",
					"enum":        []string{"container", "wrapper", "leaf"},
					"description": "Restrict the listing to one category",
				},
			},
		},
		Handler: handleListComponents,
	}
}

func handleListComponents(args map[string]any) (ToolResult, error) {
	filter, _ := args["category"].(string)

	var out []map[string]any
	for _, kind := range doclayout.Kinds() {
		meta, _ := doclayout.Metadata(kind)
		if filter != "" && meta.Category.String() != filter {
			continue
		}
		entry := map[string]any{
			"kind":     kind,
			"category": meta.Category.String(),
		}
		if len(meta.Required) > 0 {
			entry["required"] = propNames(meta.Required)
		}
		if len(meta.Optional) > 0 {
			entry["optional"] = propNames(meta.Optional)
		}
		if meta.Deprecated {
			entry["deprecated"] = true
			if meta.ReplacedBy != "" {
				entry["replacedBy"] = meta.ReplacedBy
			}
		}
		out = append(out, entry)
	}
	return jsonResult(out)
}

func propNames(specs []doclayout.PropSpec) []string {
	names := make([]string, len(specs))
	for i, spec := range specs {
		names[i] = spec.Name
	}
	return names
}

// templateArg decodes the "template" argument, which may arrive as a JSON
// object or as a JSON/YAML string.
func templateArg(args map[string]any) (*doclayout.LayoutNode, error) {
	raw, ok := args["template"]
	if !ok {
		return nil, fmt.Errorf("missing 'template' argument")
	}

	if text, ok := raw.(string); ok {
		if node, err := doclayout.ParseJSON([]byte(text)); err == nil {
			return node, nil
		}
		node, err := doclayout.ParseYAML([]byte(text))
		if err != nil {
			return nil, fmt.Errorf("parsing template string: %w", err)
		}
		return node, nil
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encoding template: %w", err)
	}
	return doclayout.ParseJSON(encoded)
}

func toValue(raw any) (doclayout.Value, error) {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return doclayout.Value{}, err
	}
	var val doclayout.Value
	if err := json.Unmarshal(encoded, &val); err != nil {
		return doclayout.Value{}, err
	}
	return val, nil
}

func jsonResult(v any) (ToolResult, error) {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ToolResult{}, fmt.Errorf("encoding result: %w", err)
	}
	return ToolResult{
		Content: []ContentBlock{{Type: "text", Text: string(encoded)}},
	}, nil
}
