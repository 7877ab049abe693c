package render

import (
	"context"
	"encoding/json"
	"fmt"
)

// JSONRenderer emits the view as indented JSON for API consumers and
// front ends that render client side.
type JSONRenderer struct{}

func (JSONRenderer) Name() string        { return "json" }
func (JSONRenderer) ContentType() string { return "application/json; charset=utf-8" }

// Render merges option errors into the view and marshals it.
func (JSONRenderer) Render(_ context.Context, view FormView, options RenderOptions) ([]byte, error) {
	view = Prepare(view, options)
	out, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render: marshal view: %w", err)
	}
	return out, nil
}

// Prepare applies per-request options to a copy of view: option errors are
// attached to their fields, the rest join the form errors, and extra hidden
// fields are merged in.
func Prepare(view FormView, options RenderOptions) FormView {
	view = cloneView(view)
	leftover := ApplyErrors(&view, options.Errors)
	view.FormErrors = MergeFormErrors(view.FormErrors, append(leftover, options.FormErrors...)...)
	if len(options.Hidden) > 0 {
		view.Hidden = MergeHiddenFields(view.Hidden, options.Hidden...)
	}
	return view
}

func cloneView(view FormView) FormView {
	out := view
	if view.Section != nil {
		section := *view.Section
		section.Fields = cloneFields(section.Fields)
		out.Section = &section
	}
	out.Contact.Fields = cloneFields(view.Contact.Fields)
	out.Collections = make([]CollectionView, len(view.Collections))
	for idx, collection := range view.Collections {
		copyCollection := collection
		copyCollection.Draft = cloneFields(collection.Draft)
		copyCollection.Entries = make([]EntryView, len(collection.Entries))
		for eidx, entry := range collection.Entries {
			copyCollection.Entries[eidx] = EntryView{Index: entry.Index, Components: cloneFields(entry.Components)}
		}
		out.Collections[idx] = copyCollection
	}
	out.Hidden = append([]HiddenField(nil), view.Hidden...)
	out.FormErrors = append([]string(nil), view.FormErrors...)
	return out
}

func cloneFields(fields []FieldView) []FieldView {
	if fields == nil {
		return nil
	}
	out := make([]FieldView, len(fields))
	for idx, field := range fields {
		field.Errors = append([]string(nil), field.Errors...)
		out[idx] = field
	}
	return out
}
