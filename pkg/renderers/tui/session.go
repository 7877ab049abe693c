// Package tui drives an application form from the terminal. A Session walks
// the category, section fields and collections with survey prompts and
// submits through the form controller, re-prompting whatever the
// controller reports as the first failure.
package tui

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/goliatone/go-appform/pkg/form"
	"github.com/goliatone/go-appform/pkg/model"
	"github.com/goliatone/go-appform/pkg/registry"
	"github.com/goliatone/go-appform/pkg/submission"
	"github.com/goliatone/go-appform/pkg/validation"
)

// Session is one interactive pass over a form.
type Session struct {
	ctrl   *form.Controller
	reg    *registry.Registry
	driver PromptDriver
	out    io.Writer
	theme  Theme
	logger *slog.Logger
}

// NewSession prepares a session for ctrl. Without WithPromptDriver it uses
// survey on the process terminal.
func NewSession(ctrl *form.Controller, opts ...Option) (*Session, error) {
	if ctrl == nil {
		return nil, ErrNoController
	}
	s := &Session{
		ctrl:   ctrl,
		reg:    ctrl.Registry(),
		out:    os.Stdout,
		theme:  DefaultTheme,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(s.out)
	}
	return s, nil
}

// Run prompts for every part of the form, then submits until the controller
// accepts the form and the round trip succeeds. Declining the final
// confirmation returns ErrAborted.
func (s *Session) Run(ctx context.Context) (submission.Result, error) {
	if err := s.driver.Info(ctx, s.theme.InfoPrefix+s.reg.Title()); err != nil {
		return submission.Result{}, err
	}
	if err := s.fill(ctx); err != nil {
		return submission.Result{}, err
	}

	for {
		ok, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: s.reg.SubmitLabel(s.ctrl.Accepting()) + "?",
			Default: true,
		})
		if err != nil {
			return submission.Result{}, err
		}
		if !ok {
			return submission.Result{}, ErrAborted
		}

		result, err := s.ctrl.SubmitAndWait(ctx)
		if err == nil {
			if confirmation := strings.TrimSpace(plainText(s.reg.Confirmation())); confirmation != "" {
				if err := s.driver.Info(ctx, s.theme.SuccessPrefix+html.UnescapeString(confirmation)); err != nil {
					return result, err
				}
			}
			return result, nil
		}

		var failure *validation.Failure
		if !errors.As(err, &failure) {
			return result, err
		}
		s.logger.Debug("submission blocked", "kind", string(failure.Kind), "key", failure.Key)
		if err := s.repair(ctx, failure); err != nil {
			return result, err
		}
	}
}

func (s *Session) fill(ctx context.Context) error {
	if err := s.chooseCategory(ctx); err != nil {
		return err
	}
	category, err := s.reg.Resolve(s.ctrl.Category())
	if err != nil {
		return err
	}
	section := s.reg.CategorySection()
	for _, field := range category.Fields {
		if err := s.promptField(ctx, model.QualifiedKey(section, field.Key), field); err != nil {
			return err
		}
	}
	contact := s.reg.Contact()
	for _, field := range contact.Fields {
		if err := s.promptField(ctx, model.QualifiedKey(contact.Key, field.Key), field); err != nil {
			return err
		}
	}
	for _, schema := range s.reg.Collections() {
		if err := s.editCollection(ctx, schema); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) chooseCategory(ctx context.Context) error {
	categories := s.reg.Categories()
	options := make([]string, len(categories))
	current := -1
	for idx, category := range categories {
		options[idx] = category.Label
		if category.Key == s.ctrl.Category() {
			current = idx
		}
	}
	idx, err := s.driver.Select(ctx, SelectConfig{
		Message:      s.reg.CategoryLabel(),
		Options:      options,
		DefaultIndex: current,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(categories) {
		return fmt.Errorf("tui: category choice %d out of range", idx)
	}
	return s.ctrl.SelectCategory(categories[idx].Key)
}

func (s *Session) promptField(ctx context.Context, key string, field model.FieldSchema) error {
	var (
		value string
		err   error
	)
	if field.Kind == model.KindAddress {
		value, err = s.driver.TextArea(ctx, TextAreaConfig{
			Message: s.theme.PromptPrefix + field.Label,
			Default: s.ctrl.Value(key),
			Help:    field.Hint,
		})
	} else {
		value, err = s.driver.Input(ctx, InputConfig{
			Message:     s.theme.PromptPrefix + field.Label,
			Default:     s.ctrl.Value(key),
			Help:        field.Hint,
			Placeholder: field.Placeholder,
			Validator:   s.validator(key, field, nil),
		})
	}
	if err != nil {
		return err
	}
	_, err = s.ctrl.SetField(key, value)
	return err
}

// validator checks a typed value the way the controller will. Draft prompts
// pass the collection policy's normaliser.
func (s *Session) validator(key string, field model.FieldSchema, normalise func(string) string) func(string) error {
	return func(value string) error {
		if normalise != nil {
			value = normalise(value)
		}
		reason := validation.FieldReason(field, value)
		if reason == validation.ReasonNone {
			return nil
		}
		return errors.New(form.Present(s.reg, validation.InvalidField(key, reason)).Notification.Message)
	}
}

func (s *Session) editCollection(ctx context.Context, schema model.CollectionSchema) error {
	for {
		entries, err := s.ctrl.Entries(schema.Key)
		if err != nil {
			return err
		}
		if err := s.listEntries(ctx, schema, entries); err != nil {
			return err
		}

		if len(entries) > 0 {
			remove, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Remove a " + schema.EntryLabel + "?"})
			if err != nil {
				return err
			}
			if remove {
				if err := s.removeEntry(ctx, schema, entries); err != nil {
					return err
				}
				continue
			}
		}

		add, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: schema.AddLabel + "?",
			Default: schema.Mandatory && len(entries) == 0,
		})
		if err != nil {
			return err
		}
		if !add {
			return nil
		}
		if err := s.addEntry(ctx, schema); err != nil {
			return err
		}
	}
}

func (s *Session) listEntries(ctx context.Context, schema model.CollectionSchema, entries [][]string) error {
	if len(entries) == 0 {
		return s.driver.Info(ctx, s.theme.InfoPrefix+schema.Label+": none")
	}
	lines := []string{s.theme.InfoPrefix + schema.Label + ":"}
	for idx, entry := range entries {
		lines = append(lines, fmt.Sprintf("  %d. %s", idx+1, strings.Join(entry, " / ")))
	}
	return s.driver.Info(ctx, strings.Join(lines, "\n"))
}

func (s *Session) addEntry(ctx context.Context, schema model.CollectionSchema) error {
	for _, component := range schema.Components {
		key := model.DraftKey(schema.Key, component.Key)
		value, err := s.driver.Input(ctx, InputConfig{
			Message:     s.theme.PromptPrefix + component.Label,
			Help:        component.Hint,
			Placeholder: component.Placeholder,
			Validator:   s.validator(key, component, s.ctrl.Policy().Normalise),
		})
		if err != nil {
			return err
		}
		if _, err := s.ctrl.SetDraft(schema.Key, component.Key, value); err != nil {
			return err
		}
	}
	if !s.ctrl.Policy().AddOnEnter {
		ok, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Add this " + schema.EntryLabel + "?", Default: true})
		if err != nil || !ok {
			return err
		}
	}
	_, err := s.ctrl.AddEntry(schema.Key)
	var failure *validation.Failure
	if errors.As(err, &failure) {
		// Already presented by the controller; the draft stays for another try.
		return nil
	}
	return err
}

func (s *Session) removeEntry(ctx context.Context, schema model.CollectionSchema, entries [][]string) error {
	options := make([]string, len(entries))
	for idx, entry := range entries {
		options[idx] = strings.Join(entry, " / ")
	}
	idx, err := s.driver.Select(ctx, SelectConfig{Message: "Remove which " + schema.EntryLabel + "?", Options: options})
	if err != nil {
		return err
	}
	_, err = s.ctrl.RemoveEntry(schema.Key, idx)
	return err
}

// repair re-prompts the location a failure points at.
func (s *Session) repair(ctx context.Context, failure *validation.Failure) error {
	switch failure.Kind {
	case validation.KindMissingCategory:
		return s.chooseCategory(ctx)
	case validation.KindEmptyCollection:
		schema, ok := s.reg.Collection(failure.Key)
		if !ok {
			return failure
		}
		return s.editCollection(ctx, schema)
	case validation.KindSubmissionFailed:
		retry, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Try again?", Default: true})
		if err != nil {
			return err
		}
		if !retry {
			return ErrAborted
		}
		return nil
	case validation.KindInvalidField:
		return s.repairField(ctx, failure.Key)
	default:
		return failure
	}
}

func (s *Session) repairField(ctx context.Context, key string) error {
	section, rest := model.SplitQualifiedKey(key)
	if schema, ok := s.reg.Collection(section); ok {
		return s.repairEntry(ctx, schema, rest)
	}
	field, ok := s.reg.Lookup(s.ctrl.Category(), key)
	if !ok {
		return fmt.Errorf("tui: cannot prompt for %q", key)
	}
	return s.promptField(ctx, key, field)
}

func (s *Session) repairEntry(ctx context.Context, schema model.CollectionSchema, rest string) error {
	position, componentKey, _ := strings.Cut(rest, ".")
	if position == model.DraftSegment {
		return s.editCollection(ctx, schema)
	}
	idx, err := strconv.Atoi(position)
	if err != nil {
		return fmt.Errorf("tui: malformed entry key %q: %w", rest, err)
	}
	component, ok := schema.Component(componentKey)
	if !ok {
		return fmt.Errorf("tui: unknown component %q", componentKey)
	}
	entries, err := s.ctrl.Entries(schema.Key)
	if err != nil {
		return err
	}
	current := ""
	if idx < len(entries) {
		if pos := schema.ComponentIndex(componentKey); pos >= 0 && pos < len(entries[idx]) {
			current = entries[idx][pos]
		}
	}
	key := model.EntryKey(schema.Key, idx, componentKey)
	value, err := s.driver.Input(ctx, InputConfig{
		Message:   s.theme.PromptPrefix + component.Label,
		Default:   current,
		Help:      component.Hint,
		Validator: s.validator(key, component, nil),
	})
	if err != nil {
		return err
	}
	_, err = s.ctrl.SetEntryValue(schema.Key, idx, componentKey, value)
	return err
}
