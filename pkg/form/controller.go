package form

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-appform/pkg/collection"
	"github.com/goliatone/go-appform/pkg/model"
	"github.com/goliatone/go-appform/pkg/notify"
	"github.com/goliatone/go-appform/pkg/prior"
	"github.com/goliatone/go-appform/pkg/registry"
	"github.com/goliatone/go-appform/pkg/render"
	"github.com/goliatone/go-appform/pkg/submission"
	"github.com/goliatone/go-appform/pkg/validation"
)

// Payload is the data handed to the submission channel.
type Payload = submission.Payload

// Controller owns the state of one application form.
type Controller struct {
	reg      *registry.Registry
	logger   *slog.Logger
	notifier notify.Notifier
	channel  submission.Channel
	policy   collection.Policy
	prior    prior.Values
	hidden   []render.HiddenField

	state     State
	category  string
	fields    map[string]string
	editors   []*collection.Editor
	byKey     map[string]int
	recordID  string
	requestID uuid.UUID

	focus       string
	failure     *validation.Failure
	fieldErrors map[string][]string
	formErrors  []string
}

// New creates a controller for the application described by reg.
func New(reg *registry.Registry, opts ...Option) (*Controller, error) {
	if reg == nil {
		return nil, errors.New("form: registry is required")
	}
	c := &Controller{
		reg:      reg,
		logger:   slog.New(slog.DiscardHandler),
		notifier: notify.Discard,
		fields:   make(map[string]string),
		byKey:    make(map[string]int),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if c.requestID == uuid.Nil {
		c.requestID = uuid.New()
	}
	if err := c.load(c.prior); err != nil {
		return nil, err
	}
	c.logger.Debug("form controller ready",
		"form", reg.Name(),
		"category", c.category,
		"accepting", c.Accepting(),
	)
	return c, nil
}

func (c *Controller) load(values prior.Values) error {
	if values.Category != "" {
		if _, err := c.reg.Resolve(values.Category); err != nil {
			return fmt.Errorf("form: prior values: %w", err)
		}
		c.category = values.Category
	}
	c.recordID = strings.TrimSpace(values.ID)

	for key, value := range values.Fields {
		if _, ok := c.reg.Lookup(c.category, key); !ok {
			c.logger.Debug("ignoring prior value for unknown field", "key", key)
			continue
		}
		c.fields[key] = value
	}

	for _, schema := range c.reg.Collections() {
		entries := make([][]string, 0, len(values.Collections[schema.Key]))
		for _, stored := range values.Collections[schema.Key] {
			row := make([]string, len(schema.Components))
			for idx, component := range schema.Components {
				row[idx] = stored[component.Key]
			}
			entries = append(entries, row)
		}
		c.byKey[schema.Key] = len(c.editors)
		c.editors = append(c.editors, collection.NewEditor(schema,
			collection.WithPolicy(c.policy),
			collection.WithEntries(entries),
		))
	}
	for key := range values.Collections {
		if _, ok := c.byKey[key]; !ok {
			c.logger.Debug("ignoring prior values for unknown collection", "collection", key)
		}
	}
	return nil
}

// State returns the lifecycle state.
func (c *Controller) State() State { return c.state }

// Category returns the selected category key, or "" when none is selected.
func (c *Controller) Category() string { return c.category }

// Accepting reports whether the form accepts a prior application.
func (c *Controller) Accepting() bool { return c.recordID != "" }

// RecordID returns the prior record id in the accept flow.
func (c *Controller) RecordID() string { return c.recordID }

// RequestID returns the id the next submission is sent under. It stays the
// same across failed attempts and is renewed after a success.
func (c *Controller) RequestID() uuid.UUID { return c.requestID }

// Focus returns the key of the control that should hold focus.
func (c *Controller) Focus() string { return c.focus }

// Failure returns the most recent gating or submission failure.
func (c *Controller) Failure() *validation.Failure { return c.failure }

// Registry returns the registry the controller was built with.
func (c *Controller) Registry() *registry.Registry { return c.reg }

// Value returns the current value of a qualified field key.
func (c *Controller) Value(key string) string { return c.fields[key] }

// Values returns a copy of every field value, keyed by qualified key.
func (c *Controller) Values() map[string]string {
	out := make(map[string]string, len(c.fields))
	for key, value := range c.fields {
		out[key] = value
	}
	return out
}

// SelectCategory switches the primary field set. Values entered for the
// previous category are discarded; selecting the current category again
// changes nothing.
func (c *Controller) SelectCategory(key string) error {
	if err := c.mutable(); err != nil {
		return err
	}
	category, err := c.reg.Resolve(key)
	if err != nil {
		return fmt.Errorf("form: select category: %w", err)
	}
	if category.Key == c.category {
		return nil
	}

	prefix := c.reg.CategorySection() + "."
	for field := range c.fields {
		if strings.HasPrefix(field, prefix) {
			delete(c.fields, field)
			delete(c.fieldErrors, field)
		}
	}
	previous := c.category
	c.category = category.Key
	c.focus = render.CategoryFieldName
	if len(category.Fields) > 0 {
		c.focus = model.QualifiedKey(c.reg.CategorySection(), category.Fields[0].Key)
	}
	c.logger.Debug("category selected", "from", previous, "to", category.Key)
	return nil
}

// SetField stores the value of a field of the selected category or the
// contact section and returns its status.
func (c *Controller) SetField(key, value string) (validation.Status, error) {
	if err := c.mutable(); err != nil {
		return validation.StatusEmpty, err
	}
	schema, ok := c.reg.Lookup(c.category, key)
	if !ok {
		return validation.StatusEmpty, fmt.Errorf("%w: %q", ErrUnknownField, key)
	}
	c.fields[key] = value
	delete(c.fieldErrors, key)
	return validation.Check(schema, value), nil
}

// SetDraft edits one draft component of a collection.
func (c *Controller) SetDraft(name, component, value string) (validation.Status, error) {
	editor, err := c.editor(name)
	if err != nil {
		return validation.StatusEmpty, err
	}
	status, err := editor.SetDraft(component, value)
	if err != nil {
		return status, err
	}
	delete(c.fieldErrors, model.DraftKey(name, component))
	c.focus = editor.NextFocus(component)
	return status, nil
}

// AddEntry commits a collection's draft. A rejected draft is presented like
// any other failure and leaves the list and draft untouched.
func (c *Controller) AddEntry(name string) (collection.AddResult, error) {
	editor, err := c.editor(name)
	if err != nil {
		return collection.AddResult{}, err
	}
	result, err := editor.Add()
	if err != nil {
		var failure *validation.Failure
		if errors.As(err, &failure) {
			c.present(failure)
		}
		return result, err
	}
	c.focus = result.Focus
	c.logger.Debug("collection entry added", "collection", name, "index", result.Index)
	return result, nil
}

// RemoveEntry deletes the entry at index. It reports false for indices
// outside the list.
func (c *Controller) RemoveEntry(name string, index int) (bool, error) {
	editor, err := c.editor(name)
	if err != nil {
		return false, err
	}
	removed := editor.Remove(index)
	if removed {
		c.clearEntryErrors(name)
	}
	return removed, nil
}

// SetEntryValue edits one component of a committed entry.
func (c *Controller) SetEntryValue(name string, index int, component, value string) (validation.Status, error) {
	editor, err := c.editor(name)
	if err != nil {
		return validation.StatusEmpty, err
	}
	status, err := editor.SetEntryValue(index, component, value)
	if err != nil {
		return status, err
	}
	delete(c.fieldErrors, model.EntryKey(name, index, component))
	return status, nil
}

// Collection returns the view of one collection.
func (c *Controller) Collection(name string) (render.CollectionView, error) {
	idx, ok := c.byKey[name]
	if !ok {
		return render.CollectionView{}, fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}
	return c.editors[idx].View(), nil
}

// Entries returns a copy of a collection's committed entries.
func (c *Controller) Entries(name string) ([][]string, error) {
	idx, ok := c.byKey[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}
	return c.editors[idx].Entries(), nil
}

// Policy returns the add-row policy shared by every collection.
func (c *Controller) Policy() collection.Policy { return c.policy }

func (c *Controller) editor(name string) (*collection.Editor, error) {
	if err := c.mutable(); err != nil {
		return nil, err
	}
	idx, ok := c.byKey[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}
	return c.editors[idx], nil
}

func (c *Controller) mutable() error {
	if c.state == StateSucceeded {
		return ErrDetached
	}
	return nil
}

func (c *Controller) clearEntryErrors(name string) {
	prefix := name + "."
	for key := range c.fieldErrors {
		if strings.HasPrefix(key, prefix) && !strings.HasPrefix(key, prefix+model.DraftSegment+".") {
			delete(c.fieldErrors, key)
		}
	}
}

func (c *Controller) transition(next State) {
	if c.state == next {
		return
	}
	c.logger.Debug("form state changed", "from", c.state.String(), "to", next.String())
	c.state = next
}
