package collection

import "strings"

// Policy toggles optional add-row behaviour. The zero value accepts values
// verbatim, allows duplicates and leaves focus handling to the caller.
type Policy struct {
	// TrimWhitespace trims draft values before they are tested and added.
	TrimWhitespace bool `json:"trimWhitespace" yaml:"trimWhitespace" mapstructure:"trim_whitespace"`
	// RejectDuplicates refuses a draft equal to an existing entry.
	RejectDuplicates bool `json:"rejectDuplicates" yaml:"rejectDuplicates" mapstructure:"reject_duplicates"`
	// AutoAdvance moves the suggested focus to the next component once the
	// current one becomes valid.
	AutoAdvance bool `json:"autoAdvance" yaml:"autoAdvance" mapstructure:"auto_advance"`
	// AddOnEnter lets interactive front ends commit the draft as soon as the
	// last component is confirmed instead of asking first.
	AddOnEnter bool `json:"addOnEnter" yaml:"addOnEnter" mapstructure:"add_on_enter"`
}

// Normalise applies the policy to a typed draft value.
func (p Policy) Normalise(value string) string {
	if p.TrimWhitespace {
		return strings.TrimSpace(value)
	}
	return value
}

// Option configures an Editor.
type Option func(*Editor)

// WithPolicy sets the add-row policy.
func WithPolicy(policy Policy) Option {
	return func(e *Editor) {
		e.policy = policy
	}
}

// WithEntries seeds the editor with committed entries, one value per
// component each. Seeded entries are not validated against the add rules;
// their statuses are derived as usual.
func WithEntries(entries [][]string) Option {
	return func(e *Editor) {
		for _, values := range entries {
			e.entries = append(e.entries, NewEntry(e.schema, values))
		}
	}
}
