package ai

import "github.com/xeipuuv/gojsonschema"

const (
	recommendationsSchema = `{
		"type": "array",
		"items": {
			"type": "object",
			"required": ["item", "reason", "type"],
			"properties": {
				"item":   {"type": "string", "minLength": 1},
				"reason": {"type": "string"},
				"type":   {"type": "string", "enum": ["borrow", "lend"]}
			}
		}
	}`

	insightsSchema = `{
		"type": "array",
		"items": {
			"type": "object",
			"required": ["tip", "potential_impact"],
			"properties": {
				"tip":              {"type": "string", "minLength": 1},
				"potential_impact": {"type": "string"}
			}
		}
	}`

	badgesSchema = `{
		"type": "array",
		"items": {
			"type": "object",
			"required": ["emoji", "name", "description"],
			"properties": {
				"emoji":       {"type": "string"},
				"name":        {"type": "string", "minLength": 1},
				"description": {"type": "string"}
			}
		}
	}`

	imageSchema = `{
		"type": "object",
		"required": ["name", "category", "description", "price", "condition"],
		"properties": {
			"name":        {"type": "string"},
			"category":    {"type": "string", "enum": ["tools", "kitchen", "electronics", "outdoor", "sports", "other"]},
			"description": {"type": "string"},
			"price":       {"type": "number", "minimum": 0},
			"condition":   {"type": "string"}
		}
	}`

	profileSchema = `{
		"type": "object",
		"required": ["bio", "skills", "interests"],
		"properties": {
			"bio":       {"type": "string"},
			"skills":    {"type": "array", "items": {"type": "string"}},
			"interests": {"type": "array", "items": {"type": "string"}}
		}
	}`
)

var (
	recommendationsValidator = mustSchema(recommendationsSchema)
	insightsValidator        = mustSchema(insightsSchema)
	badgesValidator          = mustSchema(badgesSchema)
	imageValidator           = mustSchema(imageSchema)
	profileValidator         = mustSchema(profileSchema)
)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchemaLoader().Compile(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic("ai: compile schema: " + err.Error())
	}
	return schema
}
