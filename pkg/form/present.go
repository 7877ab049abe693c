package form

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-appform/pkg/model"
	"github.com/goliatone/go-appform/pkg/notify"
	"github.com/goliatone/go-appform/pkg/registry"
	"github.com/goliatone/go-appform/pkg/render"
	"github.com/goliatone/go-appform/pkg/validation"
)

// Presentation is what a front end does about a failure: move focus and
// raise one notification.
type Presentation struct {
	Focus        string
	Notification notify.Notification
}

// Present maps a failure onto its presentation using the copy configured in
// reg. It has no side effects.
func Present(reg *registry.Registry, failure *validation.Failure) Presentation {
	if failure == nil {
		return Presentation{}
	}
	messages := reg.Messages()
	p := Presentation{Notification: notify.Notification{Severity: notify.SeverityError}}

	switch failure.Kind {
	case validation.KindMissingCategory:
		p.Focus = render.CategoryFieldName
		p.Notification.Message = messages.SelectCategory
	case validation.KindInvalidField:
		p.Focus = failure.Key
		schema, _ := describe(reg, failure.Key)
		switch failure.Reason {
		case validation.ReasonFormatMismatch:
			example := schema.Hint
			if example == "" {
				example = schema.Label
			}
			p.Notification.Message = fmt.Sprintf(messages.Format, example)
		case validation.ReasonDuplicate:
			p.Notification.Message = fmt.Sprintf(messages.Duplicate, schema.Label)
		default:
			p.Notification.Message = fmt.Sprintf(messages.Required, schema.Label)
		}
	case validation.KindEmptyCollection:
		entryLabel := failure.Key
		if schema, ok := reg.Collection(failure.Key); ok {
			entryLabel = schema.EntryLabel
			if len(schema.Components) > 0 {
				p.Focus = model.DraftKey(schema.Key, schema.Components[0].Key)
			}
		}
		p.Notification.Message = fmt.Sprintf(messages.EmptyCollection, entryLabel)
	case validation.KindSubmissionFailed:
		p.Notification.Message = messages.SubmissionFailed
	default:
		p.Focus = failure.Key
		p.Notification.Message = messages.SubmissionFailed
	}
	return p
}

// describe finds the schema behind any key the controller hands out:
// qualified field keys, entry keys and draft keys.
func describe(reg *registry.Registry, key string) (model.FieldSchema, bool) {
	section, field := model.SplitQualifiedKey(key)
	if section == reg.Contact().Key {
		return reg.Contact().Field(field)
	}
	if section == reg.CategorySection() {
		for _, category := range reg.Categories() {
			if schema, ok := category.Field(field); ok {
				return schema, true
			}
		}
		return model.FieldSchema{Key: field, Label: model.DefaultLabeler(field)}, false
	}
	if schema, ok := reg.Collection(section); ok {
		if idx := strings.LastIndex(field, "."); idx >= 0 {
			field = field[idx+1:]
		}
		if component, ok := schema.Component(field); ok {
			return component, true
		}
	}
	return model.FieldSchema{Key: key, Label: model.DefaultLabeler(field)}, false
}
