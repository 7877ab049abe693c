package validation

import (
	"fmt"

	"github.com/goliatone/go-appform/pkg/model"
)

// Status is the per-field validity derived from the current value.
type Status int

const (
	// StatusEmpty marks a field with no value. It never shows an error by itself.
	StatusEmpty Status = iota
	// StatusInvalid marks a non-empty value that fails the field pattern.
	StatusInvalid
	// StatusValid marks a non-empty value that satisfies the field pattern.
	StatusValid
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusInvalid:
		return "invalid"
	case StatusValid:
		return "valid"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "empty", "":
		*s = StatusEmpty
	case "invalid":
		*s = StatusInvalid
	case "valid":
		*s = StatusValid
	default:
		return fmt.Errorf("validation: unknown status %q", text)
	}
	return nil
}

// Check derives the status of value against schema.
func Check(schema model.FieldSchema, value string) Status {
	if value == "" {
		return StatusEmpty
	}
	if !Matches(schema.EffectivePattern(), value) {
		return StatusInvalid
	}
	return StatusValid
}

// Acceptable reports whether a status satisfies the schema at submission
// time: required fields must be valid, optional ones empty or valid.
func Acceptable(schema model.FieldSchema, status Status) bool {
	if status == StatusValid {
		return true
	}
	return status == StatusEmpty && schema.Optional
}

// FieldReason returns the failure reason for value, or ReasonNone when the
// value is acceptable.
func FieldReason(schema model.FieldSchema, value string) Reason {
	switch Check(schema, value) {
	case StatusEmpty:
		if schema.Optional {
			return ReasonNone
		}
		return ReasonMissing
	case StatusInvalid:
		return ReasonFormatMismatch
	default:
		return ReasonNone
	}
}
