package render

import (
	"fmt"
	"sort"
	"strings"
)

// RecordIDField is the hidden input carrying the prior record id in the
// accept flow.
const RecordIDField = "id"

// HiddenField represents a hidden form input emitted alongside the visible
// sections.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken constructs a hidden field carrying the provided token. Callers
// supply the input name to match their backend ("_csrf", "csrf_token").
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// RecordID constructs the hidden identity field for an accept submission.
func RecordID(id string) HiddenField {
	return Hidden(RecordIDField, id)
}

// MergeHiddenFields applies fields on top of base. Empty names are ignored;
// later fields win on name collisions. The result is sorted by name.
func MergeHiddenFields(base []HiddenField, fields ...HiddenField) []HiddenField {
	merged := make(map[string]string, len(base)+len(fields))
	for _, field := range append(append([]HiddenField(nil), base...), fields...) {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		merged[name] = field.Value
	}
	return SortedHiddenFields(merged)
}

// SortedHiddenFields normalises and sorts hidden fields for deterministic
// rendering. Empty names are dropped.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	if len(fields) == 0 {
		return nil
	}

	names := make([]string, 0, len(fields))
	clean := make(map[string]string, len(fields))
	for name, value := range fields {
		key := strings.TrimSpace(name)
		if key == "" {
			continue
		}
		if _, seen := clean[key]; !seen {
			names = append(names, key)
		}
		clean[key] = value
	}
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)

	result := make([]HiddenField, 0, len(names))
	for _, name := range names {
		result = append(result, HiddenField{Name: name, Value: clean[name]})
	}
	return result
}
