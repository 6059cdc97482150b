package tool

// Schema describes the parameters a tool accepts, in a provider-neutral
// shape that adapters translate to their own function-calling format.
type Schema struct {
	Name        string
	Description string
	Properties  map[string]Property
	Required    []string

	order []string
}

// Property describes a single tool parameter.
type Property struct {
	Type        string // string, integer, number, boolean
	Description string
}

// SchemaBuilder builds a Schema fluently.
type SchemaBuilder struct {
	schema *Schema
}

// NewSchema starts building a schema for the named tool.
func NewSchema(name, description string) *SchemaBuilder {
	return &SchemaBuilder{
		schema: &Schema{
			Name:        name,
			Description: description,
			Properties:  make(map[string]Property),
		},
	}
}

// AddParam adds a parameter to the schema.
func (b *SchemaBuilder) AddParam(name, typ, description string, required bool) *SchemaBuilder {
	b.schema.Properties[name] = Property{Type: typ, Description: description}
	b.schema.order = append(b.schema.order, name)
	if required {
		b.schema.Required = append(b.schema.Required, name)
	}
	return b
}

// Build returns the completed schema.
func (b *SchemaBuilder) Build() *Schema {
	return b.schema
}

// ParamNames returns parameter names in declaration order.
func (s *Schema) ParamNames() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// JSONSchema renders the parameters as a JSON-schema object map, the format
// both the Gemini functionDeclarations and OpenAI function tools expect.
func (s *Schema) JSONSchema() map[string]any {
	props := make(map[string]any, len(s.Properties))
	for name, p := range s.Properties {
		props[name] = map[string]any{
			"type":        p.Type,
			"description": p.Description,
		}
	}
	out := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(s.Required) > 0 {
		out["required"] = s.Required
	}
	return out
}
