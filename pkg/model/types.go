package model

import (
	"strconv"
	"strings"
)

// FieldKind is the closed set of value kinds a field can hold.
type FieldKind string

const (
	KindText       FieldKind = "text"
	KindEmail      FieldKind = "email"
	KindTelephone  FieldKind = "telephone"
	KindAddress    FieldKind = "address"
	KindStructured FieldKind = "structured"
)

// EmailPattern mirrors the native format constraint browsers apply to
// type=email inputs. It is only used when an email field declares no pattern.
const EmailPattern = `[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*`

// Valid reports whether the kind is one of the declared constants.
func (k FieldKind) Valid() bool {
	switch k {
	case KindText, KindEmail, KindTelephone, KindAddress, KindStructured:
		return true
	default:
		return false
	}
}

// FieldSchema describes a single input. Pattern, when present, must match the
// whole value; callers never need to add anchors themselves.
type FieldSchema struct {
	Key         string    `json:"key" yaml:"key"`
	Label       string    `json:"label" yaml:"label"`
	Kind        FieldKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	Pattern     string    `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Hint        string    `json:"hint,omitempty" yaml:"hint,omitempty"`
	Optional    bool      `json:"optional,omitempty" yaml:"optional,omitempty"`
}

// Required is the inverse of Optional.
func (f FieldSchema) Required() bool {
	return !f.Optional
}

// EffectivePattern returns the pattern used for validation, falling back to
// the kind-implied format for email fields.
func (f FieldSchema) EffectivePattern() string {
	if f.Pattern != "" {
		return f.Pattern
	}
	if f.Kind == KindEmail {
		return EmailPattern
	}
	return ""
}

// Category is one variant of the primary field set.
type Category struct {
	Key    string        `json:"key" yaml:"key"`
	Label  string        `json:"label" yaml:"label"`
	Fields []FieldSchema `json:"fields" yaml:"fields"`
}

// Field looks up a field by its unqualified key.
func (c Category) Field(key string) (FieldSchema, bool) {
	return findField(c.Fields, key)
}

// Section is a static group of fields rendered regardless of category, such
// as the contact block.
type Section struct {
	Key    string        `json:"key" yaml:"key"`
	Label  string        `json:"label" yaml:"label"`
	Fields []FieldSchema `json:"fields" yaml:"fields"`
}

// Field looks up a field by its unqualified key.
func (s Section) Field(key string) (FieldSchema, bool) {
	return findField(s.Fields, key)
}

// CollectionSchema declares a named, repeatable list of structured entries.
// Every entry carries one value per component, in component order.
type CollectionSchema struct {
	Key        string        `json:"key" yaml:"key"`
	Label      string        `json:"label" yaml:"label"`
	EntryLabel string        `json:"entryLabel,omitempty" yaml:"entryLabel,omitempty"`
	AddLabel   string        `json:"addLabel,omitempty" yaml:"addLabel,omitempty"`
	Mandatory  bool          `json:"mandatory,omitempty" yaml:"mandatory,omitempty"`
	Components []FieldSchema `json:"components" yaml:"components"`
}

// Component looks up a component by key.
func (c CollectionSchema) Component(key string) (FieldSchema, bool) {
	return findField(c.Components, key)
}

// ComponentIndex returns the position of a component or -1.
func (c CollectionSchema) ComponentIndex(key string) int {
	for idx, component := range c.Components {
		if component.Key == key {
			return idx
		}
	}
	return -1
}

// QualifiedKey joins a section key and a field key into the dotted form used
// throughout form state, rendered control ids and payloads.
func QualifiedKey(section, key string) string {
	section = strings.TrimSpace(section)
	key = strings.TrimSpace(key)
	if section == "" {
		return key
	}
	if key == "" {
		return section
	}
	return section + "." + key
}

// SplitQualifiedKey is the inverse of QualifiedKey. Keys without a section
// return an empty section.
func SplitQualifiedKey(qualified string) (section, key string) {
	idx := strings.Index(qualified, ".")
	if idx < 0 {
		return "", qualified
	}
	return qualified[:idx], qualified[idx+1:]
}

func findField(fields []FieldSchema, key string) (FieldSchema, bool) {
	for _, field := range fields {
		if field.Key == key {
			return field, true
		}
	}
	return FieldSchema{}, false
}

// DraftSegment marks draft component keys within a collection.
const DraftSegment = "draft"

// EntryKey addresses one component of a committed collection entry, for
// example "pharmacies.0.ods".
func EntryKey(collection string, index int, component string) string {
	return collection + "." + strconv.Itoa(index) + "." + component
}

// DraftKey addresses one component of a collection's draft row, for example
// "pharmacies.draft.ods".
func DraftKey(collection, component string) string {
	return collection + "." + DraftSegment + "." + component
}
