package form

import (
	"context"

	"github.com/google/uuid"

	"github.com/goliatone/go-appform/pkg/collection"
	"github.com/goliatone/go-appform/pkg/model"
	"github.com/goliatone/go-appform/pkg/notify"
	"github.com/goliatone/go-appform/pkg/render"
	"github.com/goliatone/go-appform/pkg/submission"
	"github.com/goliatone/go-appform/pkg/validation"
)

// Validate walks the whole form in a fixed order and returns the first
// failure: the category, then the category fields, then the contact fields,
// then each collection (emptiness before its entries). It changes nothing.
func (c *Controller) Validate() *validation.Failure {
	if c.category == "" {
		return validation.MissingCategory()
	}
	category, err := c.reg.Resolve(c.category)
	if err != nil {
		return validation.MissingCategory()
	}

	if failure := c.checkSection(c.reg.CategorySection(), category.Fields); failure != nil {
		return failure
	}
	contact := c.reg.Contact()
	if failure := c.checkSection(contact.Key, contact.Fields); failure != nil {
		return failure
	}

	for _, editor := range c.editors {
		schema := editor.Schema()
		if schema.Mandatory && editor.Len() == 0 {
			return validation.EmptyCollection(schema.Key)
		}
		if key, reason := editor.Problem(); reason != validation.ReasonNone {
			return validation.InvalidField(key, reason)
		}
	}
	return nil
}

func (c *Controller) checkSection(section string, fields []model.FieldSchema) *validation.Failure {
	for _, field := range fields {
		key := model.QualifiedKey(section, field.Key)
		if reason := validation.FieldReason(field, c.fields[key]); reason != validation.ReasonNone {
			return validation.InvalidField(key, reason)
		}
	}
	return nil
}

// Payload assembles the data of the selected category, the contact section
// and every collection. Values of other categories are never included.
func (c *Controller) Payload() Payload {
	payload := Payload{
		Category:    c.category,
		Fields:      make(map[string]string),
		Collections: make(map[string][]map[string]string, len(c.editors)),
		ID:          c.recordID,
	}
	if category, err := c.reg.Resolve(c.category); err == nil {
		for _, field := range category.Fields {
			key := model.QualifiedKey(c.reg.CategorySection(), field.Key)
			payload.Fields[key] = c.fields[key]
		}
	}
	contact := c.reg.Contact()
	for _, field := range contact.Fields {
		key := model.QualifiedKey(contact.Key, field.Key)
		payload.Fields[key] = c.fields[key]
	}
	for _, editor := range c.editors {
		payload.Collections[editor.Schema().Key] = editor.Payload()
	}
	return payload
}

// Dispatch is a validated submission waiting for its round trip.
type Dispatch struct {
	channel    submission.Channel
	submission submission.Submission
}

// Submission returns what will be sent.
func (d *Dispatch) Submission() submission.Submission {
	return d.submission
}

// Run sends the submission through the channel. Transport errors are folded
// into the result.
func (d *Dispatch) Run(ctx context.Context) submission.Result {
	if d.channel == nil {
		return submission.Result{Err: ErrNoChannel}
	}
	result, err := d.channel.Submit(ctx, d.submission)
	if err != nil && result.Err == nil {
		result.Err = err
	}
	return result
}

// Submit validates the form. On failure the first failing location is
// presented (focus and one notification) and returned as a
// *validation.Failure. On success the controller enters StateSubmitting and
// returns the Dispatch to run. A Submit while submitting returns (nil, nil).
func (c *Controller) Submit() (*Dispatch, error) {
	switch c.state {
	case StateSucceeded:
		return nil, ErrDetached
	case StateSubmitting:
		c.logger.Debug("submit ignored while a submission is in flight")
		return nil, nil
	}

	if failure := c.Validate(); failure != nil {
		c.present(failure)
		c.logger.Debug("submit blocked", "kind", string(failure.Kind), "key", failure.Key, "reason", string(failure.Reason))
		return nil, failure
	}

	kind := submission.KindApplication
	if c.Accepting() {
		kind = submission.KindAccept
	}
	sub := submission.New(kind, c.reg.EventType(c.Accepting()), c.recordID, c.Payload())
	sub.RequestID = c.requestID

	c.failure = nil
	c.fieldErrors = nil
	c.formErrors = nil
	c.transition(StateSubmitting)
	c.logger.Debug("submission dispatched", "type", sub.Type, "request_id", sub.RequestID.String())
	return &Dispatch{channel: c.channel, submission: sub}, nil
}

// SubmitAndWait submits, runs the dispatch and applies its result. It
// returns the gating failure, or a SubmissionFailed failure when the round
// trip did not succeed.
func (c *Controller) SubmitAndWait(ctx context.Context) (submission.Result, error) {
	dispatch, err := c.Submit()
	if err != nil || dispatch == nil {
		return submission.Result{}, err
	}
	result := dispatch.Run(ctx)
	c.OnSubmissionResult(result)
	if c.state != StateSucceeded {
		return result, validation.SubmissionFailed()
	}
	return result, nil
}

// OnSubmissionResult applies the outcome of a dispatch. An empty reply or an
// error keeps every value and returns the form to editing; server field
// errors in the reply are attached to their fields. Otherwise the form
// succeeds, shows the confirmation and detaches its handle.
func (c *Controller) OnSubmissionResult(result submission.Result) {
	if c.state != StateSubmitting {
		c.logger.Debug("submission result ignored", "state", c.state.String())
		return
	}

	if !result.Succeeded() {
		failure := validation.SubmissionFailed()
		c.transition(StateFailed)
		c.mapReplyErrors(result.Reply)
		c.present(failure)
		if result.Err != nil {
			c.logger.Debug("submission failed", "error", result.Err)
		}
		return
	}

	c.transition(StateSucceeded)
	c.focus = ""
	c.requestID = uuid.New()
	c.fields = make(map[string]string)
	for idx, editor := range c.editors {
		c.editors[idx] = collection.NewEditor(editor.Schema(), collection.WithPolicy(c.policy))
	}
	c.notifier.Notify(notify.Notification{Message: c.reg.Messages().Sent, Severity: notify.SeveritySuccess})
	if result.Handle != nil {
		result.Handle.Detach()
	}
}

func (c *Controller) mapReplyErrors(reply []byte) {
	parsed, ok := submission.ParseReplyErrors(reply)
	if !ok {
		return
	}
	mapping := render.MapErrorPayload(c.baseView(), parsed.Errors)
	c.fieldErrors = mapping.Fields
	c.formErrors = render.MergeFormErrors(mapping.Form, parsed.Message)
}

// present records failure and performs its presentation: focus, an inline
// message for field failures, and exactly one notification.
func (c *Controller) present(failure *validation.Failure) {
	p := Present(c.reg, failure)
	c.failure = failure
	c.focus = p.Focus
	if failure.Kind == validation.KindInvalidField && failure.Key != "" {
		if c.fieldErrors == nil {
			c.fieldErrors = make(map[string][]string)
		}
		c.fieldErrors[failure.Key] = []string{p.Notification.Message}
	}
	c.notifier.Notify(p.Notification)
}
