package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Binding points a reference key at an enumeration inside
// components.schemas. An empty Property reads the enum of the schema itself;
// array properties read the enum of their items.
type Binding struct {
	Key      string
	Schema   string
	Property string
}

// Choice is one enum value plus its display label.
type Choice struct {
	Value string
	Label string
}

// LabelsExtension carries display labels aligned with the enum values.
const LabelsExtension = "x-enum-labels"

// Options tunes document loading.
type Options struct {
	// AllowExternalRefs enables resolution of $ref values that point outside
	// the document.
	AllowExternalRefs bool
}

// Parser extracts enumerations from OpenAPI documents using kin-openapi.
type Parser struct {
	options Options
}

// New constructs a Parser with the given options.
func New(options Options) *Parser {
	return &Parser{options: options}
}

// Enumerations loads raw and returns the choices for every binding, keyed by
// Binding.Key. A binding that does not resolve to an enum is an error.
func (p *Parser) Enumerations(ctx context.Context, raw []byte, bindings []Binding) (map[string][]Choice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: p.options.AllowExternalRefs,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}
	if spec.Components == nil || len(spec.Components.Schemas) == 0 {
		return nil, errors.New("openapi parser: document does not define component schemas")
	}

	out := make(map[string][]Choice, len(bindings))
	for _, binding := range bindings {
		key := strings.TrimSpace(binding.Key)
		if key == "" {
			return nil, errors.New("openapi parser: binding key is required")
		}
		schema, err := resolveBinding(spec.Components.Schemas, binding)
		if err != nil {
			return nil, err
		}
		out[key] = choicesFromSchema(schema)
	}
	return out, nil
}

func resolveBinding(schemas openapi3.Schemas, binding Binding) (*openapi3.Schema, error) {
	name := strings.TrimSpace(binding.Schema)
	ref, ok := schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("openapi parser: schema %q not found", name)
	}
	schema := ref.Value

	if property := strings.TrimSpace(binding.Property); property != "" {
		propRef, ok := schema.Properties[property]
		if !ok || propRef == nil || propRef.Value == nil {
			return nil, fmt.Errorf("openapi parser: schema %q has no property %q", name, property)
		}
		schema = propRef.Value
	}
	if len(schema.Enum) == 0 && schema.Items != nil && schema.Items.Value != nil {
		schema = schema.Items.Value
	}
	if len(schema.Enum) == 0 {
		return nil, fmt.Errorf("openapi parser: %s does not declare an enum", bindingPath(binding))
	}
	return schema, nil
}

func choicesFromSchema(schema *openapi3.Schema) []Choice {
	labels := extensionLabels(schema.Extensions[LabelsExtension])
	out := make([]Choice, 0, len(schema.Enum))
	for idx, value := range schema.Enum {
		if value == nil {
			continue
		}
		text := fmt.Sprint(value)
		label := text
		if idx < len(labels) && strings.TrimSpace(labels[idx]) != "" {
			label = labels[idx]
		}
		out = append(out, Choice{Value: text, Label: label})
	}
	return out
}

func extensionLabels(raw any) []string {
	values, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		text, _ := value.(string)
		out = append(out, text)
	}
	return out
}

func bindingPath(binding Binding) string {
	if binding.Property == "" {
		return "schema " + binding.Schema
	}
	return "schema " + binding.Schema + "." + binding.Property
}
