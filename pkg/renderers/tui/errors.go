package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C) or declined
	// to submit.
	ErrAborted = errors.New("tui: aborted")
	// ErrNoController is returned when a session is created without a form.
	ErrNoController = errors.New("tui: form controller is required")
)
