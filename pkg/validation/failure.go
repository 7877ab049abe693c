package validation

import "fmt"

// Kind classifies a gating failure.
type Kind string

const (
	KindMissingCategory  Kind = "missing_category"
	KindInvalidField     Kind = "invalid_field"
	KindEmptyCollection  Kind = "empty_collection"
	KindSubmissionFailed Kind = "submission_failed"
)

// Reason refines an InvalidField failure.
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonMissing        Reason = "missing"
	ReasonFormatMismatch Reason = "format_mismatch"
	ReasonDuplicate      Reason = "duplicate"
)

// Failure is the pure result of a failed gating check: what went wrong and
// where. Presentation (focus, notifications) is derived from it elsewhere.
type Failure struct {
	Kind   Kind   `json:"kind"`
	Key    string `json:"key,omitempty"`
	Reason Reason `json:"reason,omitempty"`
}

func (f *Failure) Error() string {
	if f == nil {
		return "validation: <nil>"
	}
	switch f.Kind {
	case KindMissingCategory:
		return "validation: no category selected"
	case KindInvalidField:
		return fmt.Sprintf("validation: field %q invalid (%s)", f.Key, f.Reason)
	case KindEmptyCollection:
		return fmt.Sprintf("validation: collection %q is empty", f.Key)
	case KindSubmissionFailed:
		return "validation: submission failed"
	default:
		return fmt.Sprintf("validation: %s %q", f.Kind, f.Key)
	}
}

// Is matches failures of the same kind, key and reason so callers can use
// errors.Is against a template value.
func (f *Failure) Is(target error) bool {
	other, ok := target.(*Failure)
	if !ok || f == nil || other == nil {
		return false
	}
	return *f == *other
}

// MissingCategory reports that no category was chosen.
func MissingCategory() *Failure {
	return &Failure{Kind: KindMissingCategory, Key: "category"}
}

// InvalidField reports a field that is missing or malformed.
func InvalidField(key string, reason Reason) *Failure {
	return &Failure{Kind: KindInvalidField, Key: key, Reason: reason}
}

// EmptyCollection reports a mandatory collection with no entries.
func EmptyCollection(name string) *Failure {
	return &Failure{Kind: KindEmptyCollection, Key: name}
}

// SubmissionFailed reports a failed round trip through the submission channel.
func SubmissionFailed() *Failure {
	return &Failure{Kind: KindSubmissionFailed}
}
