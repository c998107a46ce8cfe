package ai

import (
	"slices"
	"sort"

	"google.golang.org/genai"
)

// ParamSchema describes structured output using JSON Schema conventions.
// It is converted to each backend's native schema type.
type ParamSchema struct {
	Type        string                  `json:"type"`
	Description string                  `json:"description,omitempty"`
	Properties  map[string]*ParamSchema `json:"properties,omitempty"`
	Required    []string                `json:"required,omitempty"`
	Enum        []string                `json:"enum,omitempty"`
	Items       *ParamSchema            `json:"items,omitempty"`
}

// DraftSchema is the fixed shape every backend must answer with: an embed
// with title, description and integer color, plus optional buttons.
func DraftSchema() *ParamSchema {
	return &ParamSchema{
		Type: "object",
		Properties: map[string]*ParamSchema{
			"embed": {
				Type:        "object",
				Description: "O objeto Embed do Discord.",
				Properties: map[string]*ParamSchema{
					"title":       {Type: "string"},
					"description": {Type: "string"},
					"color":       {Type: "integer"},
				},
				Required: []string{"title", "description", "color"},
			},
			"buttons": {
				Type:        "array",
				Description: "Lista opcional de objetos Button.",
				Items: &ParamSchema{
					Type: "object",
					Properties: map[string]*ParamSchema{
						"label": {Type: "string"},
						"style": {Type: "string", Enum: []string{"primary", "secondary", "success", "danger", "link"}},
						"type":  {Type: "string", Enum: []string{"normal", "link", "channel"}},
						"url":   {Type: "string"},
					},
					Required: []string{"label", "style"},
				},
			},
		},
		Required: []string{"embed"},
	}
}

var genaiTypes = map[string]genai.Type{
	"object":  genai.TypeObject,
	"array":   genai.TypeArray,
	"string":  genai.TypeString,
	"integer": genai.TypeInteger,
	"number":  genai.TypeNumber,
	"boolean": genai.TypeBoolean,
}

func toGenai(s *ParamSchema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        genaiTypes[s.Type],
		Description: s.Description,
		Required:    s.Required,
		Enum:        s.Enum,
		Items:       toGenai(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for k, v := range s.Properties {
			out.Properties[k] = toGenai(v)
		}
	}
	return out
}

// strictSchemaMap renders s for OpenAI strict structured outputs. Every
// object requires all of its properties and forbids extras; properties that
// were optional become nullable instead.
func strictSchemaMap(s *ParamSchema) map[string]any {
	return strictNode(s, false)
}

func strictNode(s *ParamSchema, nullable bool) map[string]any {
	m := map[string]any{"type": s.Type}
	if nullable {
		m["type"] = []string{s.Type, "null"}
	}
	if s.Description != "" {
		m["description"] = s.Description
	}
	if s.Type == "object" {
		names := make([]string, 0, len(s.Properties))
		for k := range s.Properties {
			names = append(names, k)
		}
		sort.Strings(names)
		props := make(map[string]any, len(names))
		for _, k := range names {
			props[k] = strictNode(s.Properties[k], !slices.Contains(s.Required, k))
		}
		m["properties"] = props
		m["required"] = names
		m["additionalProperties"] = false
	}
	if len(s.Enum) > 0 {
		enum := make([]any, 0, len(s.Enum)+1)
		for _, e := range s.Enum {
			enum = append(enum, e)
		}
		if nullable {
			enum = append(enum, nil)
		}
		m["enum"] = enum
	}
	if s.Items != nil {
		m["items"] = strictNode(s.Items, false)
	}
	return m
}
