package render

import (
	"github.com/goliatone/go-appform/pkg/model"
	"github.com/goliatone/go-appform/pkg/validation"
)

// DefaultPlaceholder keeps floating-label layouts working when a schema has
// no placeholder of its own.
const DefaultPlaceholder = " "

// CategoryFieldName is the control name of the category selector.
const CategoryFieldName = "category"

// FieldView is the presentation of one input control.
type FieldView struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Label       string            `json:"label"`
	Value       string            `json:"value"`
	Kind        model.FieldKind   `json:"kind"`
	InputType   string            `json:"inputType"`
	Required    bool              `json:"required"`
	Pattern     string            `json:"pattern,omitempty"`
	Placeholder string            `json:"placeholder"`
	Hint        string            `json:"hint,omitempty"`
	Status      validation.Status `json:"status"`
	Errors      []string          `json:"errors,omitempty"`
}

// Multiline reports whether the control renders as a textarea.
func (f FieldView) Multiline() bool {
	return f.InputType == "textarea"
}

// SectionView groups the fields of a category or the contact section.
type SectionView struct {
	Key    string      `json:"key"`
	Label  string      `json:"label"`
	Fields []FieldView `json:"fields"`
}

// CategoryOption is one choice in the category selector.
type CategoryOption struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// CategorySelectorView is the category selector control.
type CategorySelectorView struct {
	Name     string           `json:"name"`
	Label    string           `json:"label"`
	Required bool             `json:"required"`
	Options  []CategoryOption `json:"options"`
}

// EntryView is one committed collection entry.
type EntryView struct {
	Index      int         `json:"index"`
	Components []FieldView `json:"components"`
}

// CollectionView is a collection with its entries and draft row.
type CollectionView struct {
	Key        string      `json:"key"`
	Label      string      `json:"label"`
	EntryLabel string      `json:"entryLabel"`
	AddLabel   string      `json:"addLabel"`
	Mandatory  bool        `json:"mandatory"`
	Entries    []EntryView `json:"entries"`
	Draft      []FieldView `json:"draft"`
	CanAdd     bool        `json:"canAdd"`
}

// FormView is the composed view of a whole application form.
type FormView struct {
	Name         string               `json:"name"`
	Title        string               `json:"title"`
	Category     CategorySelectorView `json:"category"`
	Section      *SectionView         `json:"section,omitempty"`
	Contact      SectionView          `json:"contact"`
	Collections  []CollectionView     `json:"collections"`
	SubmitLabel  string               `json:"submitLabel"`
	Hidden       []HiddenField        `json:"hidden,omitempty"`
	Focus        string               `json:"focus,omitempty"`
	State        string               `json:"state"`
	Confirmation string               `json:"confirmation,omitempty"`
	FormErrors   []string             `json:"formErrors,omitempty"`
}

// Completed reports whether the view should show the confirmation in place
// of the form.
func (v FormView) Completed() bool {
	return v.Confirmation != ""
}

// InputType maps a field kind onto the control type used to render it.
func InputType(kind model.FieldKind) string {
	switch kind {
	case model.KindEmail:
		return "email"
	case model.KindTelephone:
		return "tel"
	case model.KindAddress:
		return "textarea"
	default:
		return "text"
	}
}

// Field derives the view of one schema. id is the qualified key used as both
// the control id and its name.
func Field(id string, schema model.FieldSchema, value string) FieldView {
	placeholder := schema.Placeholder
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	kind := schema.Kind
	if kind == "" {
		kind = model.KindText
	}
	return FieldView{
		ID:          id,
		Name:        id,
		Label:       schema.Label,
		Value:       value,
		Kind:        kind,
		InputType:   InputType(kind),
		Required:    schema.Required(),
		Pattern:     schema.Pattern,
		Placeholder: placeholder,
		Hint:        schema.Hint,
		Status:      validation.Check(schema, value),
	}
}

// Fields derives one view per schema, in declared order. Values are keyed by
// qualified key; missing values render empty.
func Fields(section string, schemas []model.FieldSchema, values map[string]string) []FieldView {
	views := make([]FieldView, 0, len(schemas))
	for _, schema := range schemas {
		key := model.QualifiedKey(section, schema.Key)
		views = append(views, Field(key, schema, values[key]))
	}
	return views
}

// Categories derives the category selector with selected marked.
func Categories(label string, categories []model.Category, selected string) CategorySelectorView {
	options := make([]CategoryOption, 0, len(categories))
	for _, category := range categories {
		options = append(options, CategoryOption{
			Key:      category.Key,
			Label:    category.Label,
			Selected: category.Key == selected,
		})
	}
	return CategorySelectorView{
		Name:     CategoryFieldName,
		Label:    label,
		Required: true,
		Options:  options,
	}
}

// Collection derives a collection view from committed entries and the
// current draft. Each entry and the draft hold one value per component.
func Collection(schema model.CollectionSchema, entries [][]string, draft []string, canAdd bool) CollectionView {
	view := CollectionView{
		Key:        schema.Key,
		Label:      schema.Label,
		EntryLabel: schema.EntryLabel,
		AddLabel:   schema.AddLabel,
		Mandatory:  schema.Mandatory,
		Entries:    make([]EntryView, 0, len(entries)),
		Draft:      make([]FieldView, 0, len(schema.Components)),
		CanAdd:     canAdd,
	}
	for idx, values := range entries {
		entry := EntryView{Index: idx, Components: make([]FieldView, 0, len(schema.Components))}
		for pos, component := range schema.Components {
			entry.Components = append(entry.Components,
				Field(model.EntryKey(schema.Key, idx, component.Key), component, valueAt(values, pos)))
		}
		view.Entries = append(view.Entries, entry)
	}
	for pos, component := range schema.Components {
		view.Draft = append(view.Draft, Field(model.DraftKey(schema.Key, component.Key), component, valueAt(draft, pos)))
	}
	return view
}

// ApplyErrors attaches messages to the field views they address. Unknown
// keys are returned so callers can surface them at form level.
func ApplyErrors(view *FormView, errors map[string][]string) []string {
	if view == nil || len(errors) == 0 {
		return nil
	}
	remaining := make(map[string][]string, len(errors))
	for key, messages := range errors {
		remaining[key] = messages
	}

	attach := func(fields []FieldView) {
		for idx := range fields {
			if messages, ok := remaining[fields[idx].ID]; ok {
				fields[idx].Errors = normalizeMessages(append(fields[idx].Errors, messages...))
				delete(remaining, fields[idx].ID)
			}
		}
	}
	if view.Section != nil {
		attach(view.Section.Fields)
	}
	attach(view.Contact.Fields)
	for cidx := range view.Collections {
		collection := &view.Collections[cidx]
		for eidx := range collection.Entries {
			attach(collection.Entries[eidx].Components)
		}
		attach(collection.Draft)
	}

	var leftover []string
	for _, key := range sortedKeys(remaining) {
		leftover = append(leftover, remaining[key]...)
	}
	return normalizeMessages(leftover)
}

func valueAt(values []string, idx int) string {
	if idx < len(values) {
		return values[idx]
	}
	return ""
}
