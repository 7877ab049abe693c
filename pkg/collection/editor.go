package collection

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-appform/pkg/model"
	"github.com/goliatone/go-appform/pkg/render"
	"github.com/goliatone/go-appform/pkg/validation"
)

// AddResult describes a successful add.
type AddResult struct {
	// Index is the position of the new entry.
	Index int
	// Focus is the draft key of the first component, ready for the next entry.
	Focus string
}

// Editor owns an ordered list of entries and the draft row used to compose
// new ones. It is not safe for concurrent use.
type Editor struct {
	schema  model.CollectionSchema
	policy  Policy
	entries []*Entry
	draft   []string
}

// NewEditor creates an editor for schema.
func NewEditor(schema model.CollectionSchema, opts ...Option) *Editor {
	editor := &Editor{
		schema: schema,
		draft:  make([]string, len(schema.Components)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(editor)
		}
	}
	return editor
}

// Schema returns the collection schema.
func (e *Editor) Schema() model.CollectionSchema { return e.schema }

// Policy returns the add-row policy.
func (e *Editor) Policy() Policy { return e.policy }

// Len returns the number of committed entries.
func (e *Editor) Len() int { return len(e.entries) }

// Entry returns the entry at index.
func (e *Editor) Entry(index int) (*Entry, bool) {
	if index < 0 || index >= len(e.entries) {
		return nil, false
	}
	return e.entries[index], true
}

// Entries returns a copy of every entry's values in list order.
func (e *Editor) Entries() [][]string {
	out := make([][]string, len(e.entries))
	for idx, entry := range e.entries {
		out[idx] = entry.Values()
	}
	return out
}

// Draft returns a copy of the draft values as typed.
func (e *Editor) Draft() []string {
	return append([]string(nil), e.draft...)
}

// DraftStatus returns the status of one draft component.
func (e *Editor) DraftStatus(component string) validation.Status {
	idx := e.schema.ComponentIndex(component)
	if idx < 0 {
		return validation.StatusEmpty
	}
	return validation.Check(e.schema.Components[idx], e.candidate()[idx])
}

// SetDraft updates one draft component and returns its new status.
func (e *Editor) SetDraft(component, value string) (validation.Status, error) {
	idx := e.schema.ComponentIndex(component)
	if idx < 0 {
		return validation.StatusEmpty, fmt.Errorf("%w: %q in %q", ErrUnknownComponent, component, e.schema.Key)
	}
	e.draft[idx] = value
	return validation.Check(e.schema.Components[idx], e.normalise(value)), nil
}

// NextFocus returns the draft key that should receive focus after component
// was edited. Without AutoAdvance, or while the component is not valid,
// focus stays where it is.
func (e *Editor) NextFocus(component string) string {
	idx := e.schema.ComponentIndex(component)
	if idx < 0 {
		return ""
	}
	current := model.DraftKey(e.schema.Key, component)
	if !e.policy.AutoAdvance || e.DraftStatus(component) != validation.StatusValid {
		return current
	}
	if idx+1 < len(e.schema.Components) {
		return model.DraftKey(e.schema.Key, e.schema.Components[idx+1].Key)
	}
	return current
}

// FirstDraftKey is the focus target for the collection's add row.
func (e *Editor) FirstDraftKey() string {
	if len(e.schema.Components) == 0 {
		return e.schema.Key
	}
	return model.DraftKey(e.schema.Key, e.schema.Components[0].Key)
}

// CanAdd reports whether Add would succeed.
func (e *Editor) CanAdd() bool {
	return e.check() == nil
}

// Add commits the draft as a new entry at the end of the list and clears
// the draft. On failure nothing changes and a *validation.Failure keyed by
// the offending draft component is returned.
func (e *Editor) Add() (AddResult, error) {
	if failure := e.check(); failure != nil {
		return AddResult{}, failure
	}
	e.entries = append(e.entries, NewEntry(e.schema, e.candidate()))
	e.draft = make([]string, len(e.schema.Components))
	return AddResult{Index: len(e.entries) - 1, Focus: e.FirstDraftKey()}, nil
}

// Remove deletes the entry at index without validating anything. It reports
// false for out-of-range indices.
func (e *Editor) Remove(index int) bool {
	if index < 0 || index >= len(e.entries) {
		return false
	}
	e.entries = append(e.entries[:index], e.entries[index+1:]...)
	return true
}

// SetEntryValue edits one component of a committed entry.
func (e *Editor) SetEntryValue(index int, component, value string) (validation.Status, error) {
	entry, ok := e.Entry(index)
	if !ok {
		return validation.StatusEmpty, fmt.Errorf("%w: %s[%d]", ErrEntryOutOfRange, e.schema.Key, index)
	}
	return entry.Set(component, value)
}

// Problem returns the first committed entry that would fail submission,
// as an entry key and reason.
func (e *Editor) Problem() (string, validation.Reason) {
	for idx, entry := range e.entries {
		if component, reason := entry.Problem(); reason != validation.ReasonNone {
			return model.EntryKey(e.schema.Key, idx, component), reason
		}
	}
	return "", validation.ReasonNone
}

// Payload returns the entries as component key to value maps.
func (e *Editor) Payload() []map[string]string {
	out := make([]map[string]string, 0, len(e.entries))
	for _, entry := range e.entries {
		out = append(out, entry.Map())
	}
	return out
}

// View derives the presentation of the collection.
func (e *Editor) View() render.CollectionView {
	return render.Collection(e.schema, e.Entries(), e.Draft(), e.CanAdd())
}

func (e *Editor) check() *validation.Failure {
	candidate := e.candidate()
	component, reason := firstProblem(e.schema.Components, candidate)
	if reason != validation.ReasonNone {
		return validation.InvalidField(model.DraftKey(e.schema.Key, component), reason)
	}
	if isBlank(candidate) {
		return validation.InvalidField(e.FirstDraftKey(), validation.ReasonMissing)
	}
	if e.policy.RejectDuplicates && e.contains(candidate) {
		return validation.InvalidField(e.FirstDraftKey(), validation.ReasonDuplicate)
	}
	return nil
}

func (e *Editor) candidate() []string {
	out := make([]string, len(e.draft))
	for idx, value := range e.draft {
		out[idx] = e.normalise(value)
	}
	return out
}

func (e *Editor) normalise(value string) string {
	return e.policy.Normalise(value)
}

func (e *Editor) contains(candidate []string) bool {
	for _, entry := range e.entries {
		same := true
		for idx, value := range entry.values {
			if !strings.EqualFold(value, candidate[idx]) {
				same = false
				break
			}
		}
		if same {
			return true
		}
	}
	return false
}

func isBlank(values []string) bool {
	for _, value := range values {
		if value != "" {
			return false
		}
	}
	return true
}
