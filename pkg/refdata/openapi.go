package refdata

import (
	"context"

	"github.com/goliatone/go-formrows/internal/openapi/parser"
)

// OpenAPIBinding points a reference key at an enum inside
// components.schemas, for example {Key: "eventTypes", Schema: "EventCreateDto",
// Property: "eventType"}.
type OpenAPIBinding = parser.Binding

// FromOpenAPI builds a set from enum declarations of an OpenAPI document so
// select choices track the API contract. Labels come from the x-enum-labels
// extension when present.
func FromOpenAPI(ctx context.Context, raw []byte, bindings []OpenAPIBinding) (Set, error) {
	choices, err := parser.New(parser.Options{}).Enumerations(ctx, raw, bindings)
	if err != nil {
		return Set{}, err
	}
	entries := make(map[string][]Entry, len(choices))
	for key, list := range choices {
		converted := make([]Entry, 0, len(list))
		for _, choice := range list {
			converted = append(converted, Entry{Value: choice.Value, Label: choice.Label})
		}
		entries[key] = converted
	}
	return New(entries), nil
}
