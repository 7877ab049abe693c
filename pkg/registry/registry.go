package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-appform/pkg/model"
)

// ErrUnknownCategory is returned by Resolve for keys the registry does not hold.
var ErrUnknownCategory = errors.New("registry: unknown category")

// SubmitLabels holds the submit button caption for new applications and for
// accepting a prior application.
type SubmitLabels struct {
	Apply  string `json:"apply" yaml:"apply"`
	Accept string `json:"accept" yaml:"accept"`
}

// Events holds the submission type identifiers sent to the channel.
type Events struct {
	Application string `json:"application" yaml:"application"`
	Accept      string `json:"accept" yaml:"accept"`
}

// Messages holds the notification copy. Format strings take a single %s.
type Messages struct {
	SelectCategory   string `json:"selectCategory" yaml:"selectCategory"`
	Required         string `json:"required" yaml:"required"`
	Format           string `json:"format" yaml:"format"`
	EmptyCollection  string `json:"emptyCollection" yaml:"emptyCollection"`
	Duplicate        string `json:"duplicate" yaml:"duplicate"`
	SubmissionFailed string `json:"submissionFailed" yaml:"submissionFailed"`
	Sent             string `json:"sent" yaml:"sent"`
}

// Definition is the full, declarative description of one application form.
type Definition struct {
	Name            string                   `json:"name" yaml:"name"`
	Title           string                   `json:"title" yaml:"title"`
	CategoryLabel   string                   `json:"categoryLabel" yaml:"categoryLabel"`
	CategorySection string                   `json:"categorySection" yaml:"categorySection"`
	Categories      []model.Category         `json:"categories" yaml:"categories"`
	Contact         model.Section            `json:"contact" yaml:"contact"`
	Collections     []model.CollectionSchema `json:"collections" yaml:"collections"`
	Submit          SubmitLabels             `json:"submit" yaml:"submit"`
	Events          Events                   `json:"events" yaml:"events"`
	Messages        Messages                 `json:"messages" yaml:"messages"`
	Confirmation    string                   `json:"confirmation" yaml:"confirmation"`
}

// Registry is an immutable, validated Definition with keyed lookups.
type Registry struct {
	def         Definition
	categories  map[string]int
	collections map[string]int
}

// New validates def and returns a registry built from a private copy of it.
func New(def Definition) (*Registry, error) {
	def = withDefaults(cloneDefinition(def))
	if err := Validate(def).Err(); err != nil {
		return nil, fmt.Errorf("registry: definition %q: %w", def.Name, err)
	}

	reg := &Registry{
		def:         def,
		categories:  make(map[string]int, len(def.Categories)),
		collections: make(map[string]int, len(def.Collections)),
	}
	for idx, category := range def.Categories {
		reg.categories[category.Key] = idx
	}
	for idx, collection := range def.Collections {
		reg.collections[collection.Key] = idx
	}
	return reg, nil
}

// MustNew is New that panics on error. Intended for package-level definitions.
func MustNew(def Definition) *Registry {
	reg, err := New(def)
	if err != nil {
		panic(err)
	}
	return reg
}

// Definition returns a copy of the underlying definition.
func (r *Registry) Definition() Definition {
	return cloneDefinition(r.def)
}

func (r *Registry) Name() string            { return r.def.Name }
func (r *Registry) Title() string           { return r.def.Title }
func (r *Registry) CategoryLabel() string   { return r.def.CategoryLabel }
func (r *Registry) CategorySection() string { return r.def.CategorySection }
func (r *Registry) Messages() Messages      { return r.def.Messages }
func (r *Registry) Confirmation() string    { return r.def.Confirmation }

// Categories returns the categories in declaration order.
func (r *Registry) Categories() []model.Category {
	out := make([]model.Category, len(r.def.Categories))
	for idx, category := range r.def.Categories {
		out[idx] = cloneCategory(category)
	}
	return out
}

// Has reports whether key names a registered category.
func (r *Registry) Has(key string) bool {
	_, ok := r.categories[key]
	return ok
}

// Resolve returns the category registered under key.
func (r *Registry) Resolve(key string) (model.Category, error) {
	idx, ok := r.categories[strings.TrimSpace(key)]
	if !ok {
		return model.Category{}, fmt.Errorf("%w: %q", ErrUnknownCategory, key)
	}
	return cloneCategory(r.def.Categories[idx]), nil
}

// Contact returns the static contact section.
func (r *Registry) Contact() model.Section {
	section := r.def.Contact
	section.Fields = append([]model.FieldSchema(nil), section.Fields...)
	return section
}

// Collections returns the collection schemas in declaration order.
func (r *Registry) Collections() []model.CollectionSchema {
	out := make([]model.CollectionSchema, len(r.def.Collections))
	for idx, collection := range r.def.Collections {
		out[idx] = cloneCollection(collection)
	}
	return out
}

// Collection looks up a collection schema by key.
func (r *Registry) Collection(key string) (model.CollectionSchema, bool) {
	idx, ok := r.collections[key]
	if !ok {
		return model.CollectionSchema{}, false
	}
	return cloneCollection(r.def.Collections[idx]), true
}

// SubmitLabel returns the submit caption for a new application or, when
// accepting is true, for accepting a prior one.
func (r *Registry) SubmitLabel(accepting bool) string {
	if accepting {
		return r.def.Submit.Accept
	}
	return r.def.Submit.Apply
}

// EventType returns the submission type identifier for the flow.
func (r *Registry) EventType(accepting bool) string {
	if accepting {
		return r.def.Events.Accept
	}
	return r.def.Events.Application
}

// Lookup finds the schema for a qualified field key in either the category
// section (for the given category) or the contact section.
func (r *Registry) Lookup(category, qualified string) (model.FieldSchema, bool) {
	section, key := model.SplitQualifiedKey(qualified)
	switch section {
	case r.def.Contact.Key:
		return r.def.Contact.Field(key)
	case r.def.CategorySection:
		idx, ok := r.categories[category]
		if !ok {
			return model.FieldSchema{}, false
		}
		return r.def.Categories[idx].Field(key)
	default:
		return model.FieldSchema{}, false
	}
}

func withDefaults(def Definition) Definition {
	if def.CategorySection == "" {
		def.CategorySection = "category"
	}
	if def.CategoryLabel == "" {
		def.CategoryLabel = "Category"
	}
	if def.Contact.Key == "" {
		def.Contact.Key = "contact"
	}
	if def.Contact.Label == "" {
		def.Contact.Label = model.DefaultLabeler(def.Contact.Key)
	}
	if def.Submit.Apply == "" {
		def.Submit.Apply = "Apply"
	}
	if def.Submit.Accept == "" {
		def.Submit.Accept = "Accept"
	}
	if def.Events.Application == "" {
		def.Events.Application = def.Name + "-application"
	}
	if def.Events.Accept == "" {
		def.Events.Accept = def.Name + "-accept"
	}
	m := &def.Messages
	if m.SelectCategory == "" {
		m.SelectCategory = "Please select a " + strings.ToLower(def.CategoryLabel)
	}
	if m.Required == "" {
		m.Required = "%s is required"
	}
	if m.Format == "" {
		m.Format = "Please correct the format: %s"
	}
	if m.EmptyCollection == "" {
		m.EmptyCollection = "Add at least one %s"
	}
	if m.Duplicate == "" {
		m.Duplicate = "%s is already listed"
	}
	if m.SubmissionFailed == "" {
		m.SubmissionFailed = "Error"
	}
	if m.Sent == "" {
		m.Sent = "Sent"
	}
	for idx := range def.Collections {
		collection := &def.Collections[idx]
		if collection.EntryLabel == "" {
			collection.EntryLabel = strings.ToLower(collection.Label)
		}
		if collection.AddLabel == "" {
			collection.AddLabel = "Add"
		}
	}
	return def
}

func cloneDefinition(def Definition) Definition {
	out := def
	out.Categories = make([]model.Category, len(def.Categories))
	for idx, category := range def.Categories {
		out.Categories[idx] = cloneCategory(category)
	}
	out.Contact.Fields = append([]model.FieldSchema(nil), def.Contact.Fields...)
	out.Collections = make([]model.CollectionSchema, len(def.Collections))
	for idx, collection := range def.Collections {
		out.Collections[idx] = cloneCollection(collection)
	}
	return out
}

func cloneCategory(category model.Category) model.Category {
	category.Fields = append([]model.FieldSchema(nil), category.Fields...)
	return category
}

func cloneCollection(collection model.CollectionSchema) model.CollectionSchema {
	collection.Components = append([]model.FieldSchema(nil), collection.Components...)
	return collection
}
