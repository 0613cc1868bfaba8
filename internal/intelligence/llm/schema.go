package llm

import (
	"google.golang.org/genai"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// SchemaType is a JSON schema primitive.
type SchemaType string

const (
	TypeObject  SchemaType = "object"
	TypeArray   SchemaType = "array"
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeBoolean SchemaType = "boolean"
)

// Schema is a provider-neutral subset of JSON schema, translated to each
// backend's native form.
type Schema struct {
	Type        SchemaType
	Description string
	Properties  map[string]*Schema
	Required    []string
	Items       *Schema
}

func (s *Schema) toGenai() *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{Description: s.Description, Required: s.Required}
	switch s.Type {
	case TypeObject:
		out.Type = genai.TypeObject
	case TypeArray:
		out.Type = genai.TypeArray
	case TypeNumber:
		out.Type = genai.TypeNumber
	case TypeBoolean:
		out.Type = genai.TypeBoolean
	default:
		out.Type = genai.TypeString
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for k, v := range s.Properties {
			out.Properties[k] = v.toGenai()
		}
	}
	out.Items = s.Items.toGenai()
	return out
}

func (s *Schema) toJSONSchema() *jsonschema.Definition {
	if s == nil {
		return nil
	}
	out := &jsonschema.Definition{Description: s.Description, Required: s.Required}
	switch s.Type {
	case TypeObject:
		out.Type = jsonschema.Object
	case TypeArray:
		out.Type = jsonschema.Array
	case TypeNumber:
		out.Type = jsonschema.Number
	case TypeBoolean:
		out.Type = jsonschema.Boolean
	default:
		out.Type = jsonschema.String
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]jsonschema.Definition, len(s.Properties))
		for k, v := range s.Properties {
			out.Properties[k] = *v.toJSONSchema()
		}
	}
	out.Items = s.Items.toJSONSchema()
	return out
}

//Personal.AI order the ending
