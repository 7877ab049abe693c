package collection

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-appform/pkg/model"
	"github.com/goliatone/go-appform/pkg/validation"
)

var (
	// ErrUnknownComponent is returned for component keys the schema does not declare.
	ErrUnknownComponent = errors.New("collection: unknown component")
	// ErrEntryOutOfRange is returned for entry indices outside the list.
	ErrEntryOutOfRange = errors.New("collection: entry index out of range")
)

// Entry is one committed collection value: one string per component, in
// component order, with a derived status for each.
type Entry struct {
	schema   model.CollectionSchema
	values   []string
	statuses []validation.Status
}

// NewEntry builds an entry from positional values. Missing values are empty
// and extra values are dropped.
func NewEntry(schema model.CollectionSchema, values []string) *Entry {
	entry := &Entry{
		schema:   schema,
		values:   make([]string, len(schema.Components)),
		statuses: make([]validation.Status, len(schema.Components)),
	}
	copy(entry.values, values)
	for idx, component := range schema.Components {
		entry.statuses[idx] = validation.Check(component, entry.values[idx])
	}
	return entry
}

// Values returns a copy of the component values.
func (e *Entry) Values() []string {
	return append([]string(nil), e.values...)
}

// Value returns the value of one component.
func (e *Entry) Value(component string) string {
	if idx := e.schema.ComponentIndex(component); idx >= 0 {
		return e.values[idx]
	}
	return ""
}

// Status returns the status of one component.
func (e *Entry) Status(component string) validation.Status {
	if idx := e.schema.ComponentIndex(component); idx >= 0 {
		return e.statuses[idx]
	}
	return validation.StatusEmpty
}

// Set replaces one component value and re-validates that component only.
func (e *Entry) Set(component, value string) (validation.Status, error) {
	idx := e.schema.ComponentIndex(component)
	if idx < 0 {
		return validation.StatusEmpty, fmt.Errorf("%w: %q in %q", ErrUnknownComponent, component, e.schema.Key)
	}
	e.values[idx] = value
	e.statuses[idx] = validation.Check(e.schema.Components[idx], value)
	return e.statuses[idx], nil
}

// Problem returns the first component that would fail submission and why.
// Missing components are reported before malformed ones.
func (e *Entry) Problem() (string, validation.Reason) {
	return firstProblem(e.schema.Components, e.values)
}

// Map returns the entry as component key to value.
func (e *Entry) Map() map[string]string {
	out := make(map[string]string, len(e.values))
	for idx, component := range e.schema.Components {
		out[component.Key] = e.values[idx]
	}
	return out
}

func firstProblem(components []model.FieldSchema, values []string) (string, validation.Reason) {
	malformed := ""
	for idx, component := range components {
		switch validation.FieldReason(component, values[idx]) {
		case validation.ReasonMissing:
			return component.Key, validation.ReasonMissing
		case validation.ReasonFormatMismatch:
			if malformed == "" {
				malformed = component.Key
			}
		}
	}
	if malformed != "" {
		return malformed, validation.ReasonFormatMismatch
	}
	return "", validation.ReasonNone
}
