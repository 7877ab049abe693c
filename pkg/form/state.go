package form

import "errors"

// State is the controller lifecycle state.
type State int

const (
	// StateEditing accepts edits and submissions.
	StateEditing State = iota
	// StateSubmitting waits for the submission outcome. Further submits are ignored.
	StateSubmitting
	// StateSucceeded is terminal; the form has been handed off and detached.
	StateSucceeded
	// StateFailed behaves like StateEditing after a failed round trip.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

var (
	// ErrDetached is returned by mutators once a submission has succeeded.
	ErrDetached = errors.New("form: controller detached")
	// ErrUnknownField is returned for qualified keys that are not part of the
	// current form.
	ErrUnknownField = errors.New("form: unknown field")
	// ErrUnknownCollection is returned for collection keys the registry does
	// not declare.
	ErrUnknownCollection = errors.New("form: unknown collection")
	// ErrNoChannel is reported when a dispatch runs without a channel.
	ErrNoChannel = errors.New("form: no submission channel configured")
)
