package parser

import (
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/goliatone/go-formrules/pkg/openapi"
)

// convertSchema copies the constraints forms care about. A schema already on
// the conversion stack is returned as a bare reference so cycles terminate.
func convertSchema(ref *openapi3.SchemaRef, stack map[*openapi3.Schema]bool) pkgopenapi.Schema {
	if ref == nil {
		return pkgopenapi.Schema{}
	}
	if ref.Value == nil || stack[ref.Value] {
		return pkgopenapi.Schema{Ref: ref.Ref}
	}
	if stack == nil {
		stack = make(map[*openapi3.Schema]bool)
	}
	stack[ref.Value] = true
	defer delete(stack, ref.Value)

	src := ref.Value
	schema := pkgopenapi.Schema{
		Ref:         ref.Ref,
		Type:        firstSchemaType(src.Type),
		Format:      src.Format,
		Title:       src.Title,
		Description: src.Description,
		MinItems:    int(src.MinItems),
		Extensions:  extractExtensions(src.Extensions),
	}
	if len(src.Required) > 0 {
		schema.Required = append([]string(nil), src.Required...)
	}
	if len(src.Enum) > 0 {
		schema.Enum = append([]any(nil), src.Enum...)
	}
	if src.MinLength != 0 {
		value := int(src.MinLength)
		schema.MinLength = &value
	}
	if src.MaxLength != nil {
		value := int(*src.MaxLength)
		schema.MaxLength = &value
	}
	if src.MaxItems != nil {
		value := int(*src.MaxItems)
		schema.MaxItems = &value
	}
	if len(src.Properties) > 0 {
		schema.Properties = make(map[string]pkgopenapi.Schema, len(src.Properties))
		for name, property := range src.Properties {
			schema.Properties[name] = convertSchema(property, stack)
		}
	}
	if src.Items != nil {
		items := convertSchema(src.Items, stack)
		schema.Items = &items
	}
	mergeAllOf(&schema, src.AllOf, stack)
	return schema
}

// mergeAllOf folds allOf members into target: properties and required lists
// are unioned, extensions and scalar constraints fill gaps.
func mergeAllOf(target *pkgopenapi.Schema, refs openapi3.SchemaRefs, stack map[*openapi3.Schema]bool) {
	for _, ref := range refs {
		part := convertSchema(ref, stack)
		if target.Type == "" {
			target.Type = part.Type
		}
		if target.Format == "" {
			target.Format = part.Format
		}
		if target.MinLength == nil {
			target.MinLength = part.MinLength
		}
		if target.MaxLength == nil {
			target.MaxLength = part.MaxLength
		}
		target.Required = append(target.Required, part.Required...)
		if len(part.Properties) > 0 && target.Properties == nil {
			target.Properties = make(map[string]pkgopenapi.Schema, len(part.Properties))
		}
		for name, property := range part.Properties {
			if _, exists := target.Properties[name]; !exists {
				target.Properties[name] = property
			}
		}
		for key, value := range part.Extensions {
			if target.Extensions == nil {
				target.Extensions = make(map[string]any)
			}
			if _, exists := target.Extensions[key]; !exists {
				target.Extensions[key] = value
			}
		}
	}
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	for _, value := range types.Slice() {
		if value != "null" {
			return value
		}
	}
	return ""
}

var knownExtensions = map[string]bool{
	pkgopenapi.ExtensionValidation: true,
	pkgopenapi.ExtensionWidget:     true,
	pkgopenapi.ExtensionOrder:      true,
}

func extractExtensions(raw map[string]any) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	result := make(map[string]any)
	for key, value := range raw {
		if !knownExtensions[key] || value == nil {
			continue
		}
		if s, ok := value.(string); ok {
			value = strings.TrimSpace(s)
		}
		result[key] = value
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
