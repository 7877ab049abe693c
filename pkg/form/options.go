package form

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/goliatone/go-appform/pkg/collection"
	"github.com/goliatone/go-appform/pkg/notify"
	"github.com/goliatone/go-appform/pkg/prior"
	"github.com/goliatone/go-appform/pkg/render"
	"github.com/goliatone/go-appform/pkg/submission"
)

// Option configures a Controller.
type Option func(*Controller)

// WithPrior pre-populates the form from an earlier application and switches
// it to the accept flow when the values carry a record id.
func WithPrior(values prior.Values) Option {
	return func(c *Controller) {
		c.prior = values
	}
}

// WithNotifier sets the notification collaborator.
func WithNotifier(notifier notify.Notifier) Option {
	return func(c *Controller) {
		if notifier != nil {
			c.notifier = notifier
		}
	}
}

// WithChannel sets the submission channel used by Dispatch.Run.
func WithChannel(channel submission.Channel) Option {
	return func(c *Controller) {
		c.channel = channel
	}
}

// WithPolicy sets the add-row policy for every collection.
func WithPolicy(policy collection.Policy) Option {
	return func(c *Controller) {
		c.policy = policy
	}
}

// WithLogger sets the logger used for state transitions.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHidden adds hidden inputs to every rendered view, such as a CSRF token.
func WithHidden(fields ...render.HiddenField) Option {
	return func(c *Controller) {
		c.hidden = append(c.hidden, fields...)
	}
}

// WithRequestID restores the request id issued when the form was first
// rendered, so a resubmitted form reaches the channel under the same id.
// uuid.Nil is ignored.
func WithRequestID(id uuid.UUID) Option {
	return func(c *Controller) {
		if id != uuid.Nil {
			c.requestID = id
		}
	}
}
