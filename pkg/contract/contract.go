// Package contract exports the shape of submission payloads as an OpenAPI 3
// document so receiving services can validate what a form sends them.
package contract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-appform/pkg/model"
	"github.com/goliatone/go-appform/pkg/registry"
	"github.com/goliatone/go-appform/pkg/submission"
	"github.com/goliatone/go-appform/pkg/validation"
)

// Version is reported in the info block of generated documents.
const Version = "1.0.0"

// PayloadSchemaName returns the component name of the payload union.
func PayloadSchemaName(reg *registry.Registry) string {
	return reg.Name() + "-payload"
}

// CategorySchemaName returns the component name of one category's payload.
func CategorySchemaName(reg *registry.Registry, category string) string {
	return reg.Name() + "-" + category
}

// Build describes the payload of every category of reg. Each category gets
// its own component schema; the payload schema is their oneOf union, and one
// POST operation per event type accepts it.
func Build(reg *registry.Registry) (*openapi3.T, error) {
	if reg == nil {
		return nil, errors.New("contract: registry is required")
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   reg.Title(),
			Version: Version,
		},
		Components: &openapi3.Components{
			Schemas: make(openapi3.Schemas),
		},
	}

	union := &openapi3.Schema{}
	for _, category := range reg.Categories() {
		name := CategorySchemaName(reg, category.Key)
		schema, err := categorySchema(reg, category)
		if err != nil {
			return nil, err
		}
		doc.Components.Schemas[name] = openapi3.NewSchemaRef("", schema)
		union.OneOf = append(union.OneOf, openapi3.NewSchemaRef("#/components/schemas/"+name, schema))
	}
	payloadName := PayloadSchemaName(reg)
	doc.Components.Schemas[payloadName] = openapi3.NewSchemaRef("", union)

	paths := openapi3.NewPaths()
	for _, accepting := range []bool{false, true} {
		eventType := reg.EventType(accepting)
		paths.Set("/"+eventType, &openapi3.PathItem{
			Post: operation(eventType, reg.SubmitLabel(accepting), payloadName, union),
		})
	}
	doc.Paths = paths
	return doc, nil
}

func operation(eventType, summary, payloadName string, payload *openapi3.Schema) *openapi3.Operation {
	body := openapi3.NewRequestBody().
		WithRequired(true).
		WithJSONSchemaRef(openapi3.NewSchemaRef("#/components/schemas/"+payloadName, payload))

	errorsSchema := openapi3.NewObjectSchema().
		WithProperty("message", openapi3.NewStringSchema()).
		WithProperty("errors", openapi3.NewObjectSchema().
			WithAdditionalProperties(openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())))

	responses := openapi3.NewResponses(
		openapi3.WithStatus(202, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Accepted")}),
		openapi3.WithStatus(422, &openapi3.ResponseRef{Value: openapi3.NewResponse().
			WithDescription("Rejected with field errors").
			WithJSONSchema(errorsSchema)}),
	)

	return &openapi3.Operation{
		OperationID: eventType,
		Summary:     summary,
		RequestBody: &openapi3.RequestBodyRef{Value: body},
		Responses:   responses,
	}
}

func categorySchema(reg *registry.Registry, category model.Category) (*openapi3.Schema, error) {
	fields := openapi3.NewObjectSchema()
	section := reg.CategorySection()
	for _, field := range category.Fields {
		if err := addField(fields, model.QualifiedKey(section, field.Key), field); err != nil {
			return nil, err
		}
	}
	contact := reg.Contact()
	for _, field := range contact.Fields {
		if err := addField(fields, model.QualifiedKey(contact.Key, field.Key), field); err != nil {
			return nil, err
		}
	}

	collections := openapi3.NewObjectSchema()
	for _, schema := range reg.Collections() {
		entry := openapi3.NewObjectSchema()
		for _, component := range schema.Components {
			if err := addField(entry, component.Key, component); err != nil {
				return nil, err
			}
		}
		list := openapi3.NewArraySchema().WithItems(entry)
		list.Title = schema.Label
		if schema.Mandatory {
			list.WithMinItems(1)
		}
		collections.WithProperty(schema.Key, list)
		collections.Required = append(collections.Required, schema.Key)
	}

	out := openapi3.NewObjectSchema().
		WithProperty("category", openapi3.NewStringSchema().WithEnum(category.Key)).
		WithProperty("fields", fields).
		WithProperty("collections", collections).
		WithProperty("id", openapi3.NewStringSchema())
	out.Title = category.Label
	out.Required = []string{"category", "fields", "collections"}
	return out, nil
}

func addField(parent *openapi3.Schema, name string, field model.FieldSchema) error {
	schema := openapi3.NewStringSchema()
	schema.Title = field.Label
	if field.Kind == model.KindEmail {
		schema.Format = "email"
	}
	pattern := field.EffectivePattern()
	if field.Hint != "" && validation.Matches(pattern, field.Hint) {
		schema.Example = field.Hint
	}
	if pattern != "" {
		if _, err := validation.Compile(pattern); err != nil {
			return fmt.Errorf("contract: field %q: %w", name, err)
		}
	}
	switch {
	case pattern != "" && field.Required():
		schema.Pattern = validation.Anchor(pattern)
	case pattern != "":
		schema.Pattern = "^(?:" + pattern + ")?$"
	case field.Required():
		schema.WithMinLength(1)
	}

	parent.WithProperty(name, schema)
	if field.Required() {
		parent.Required = append(parent.Required, name)
	}
	return nil
}

// ValidatePayload checks payload against the payload schema of doc.
func ValidatePayload(doc *openapi3.T, reg *registry.Registry, payload submission.Payload) error {
	if doc == nil || doc.Components == nil {
		return errors.New("contract: document has no components")
	}
	ref, ok := doc.Components.Schemas[PayloadSchemaName(reg)]
	if !ok || ref.Value == nil {
		return fmt.Errorf("contract: missing schema %q", PayloadSchemaName(reg))
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("contract: encode payload: %w", err)
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return fmt.Errorf("contract: decode payload: %w", err)
	}
	if err := ref.Value.VisitJSON(value); err != nil {
		return fmt.Errorf("contract: payload: %w", err)
	}
	return nil
}

// Validate checks doc itself for structural errors.
func Validate(ctx context.Context, doc *openapi3.T) error {
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return fmt.Errorf("contract: validate: %w", err)
	}
	return nil
}

// Format selects the encoding used by Marshal.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Marshal encodes doc as indented JSON or as block-style YAML. Key order
// follows the JSON encoding in both cases.
func Marshal(doc *openapi3.T, format Format) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("contract: document is nil")
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("contract: encode document: %w", err)
	}
	switch format {
	case "", FormatJSON:
		return raw, nil
	case FormatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(raw, &node); err != nil {
			return nil, fmt.Errorf("contract: convert document: %w", err)
		}
		blockStyle(&node)
		out, err := yaml.Marshal(&node)
		if err != nil {
			return nil, fmt.Errorf("contract: encode yaml: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("contract: unknown format %q", format)
	}
}

// blockStyle drops the flow and quoting styles carried over from JSON.
func blockStyle(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		blockStyle(child)
	}
}
