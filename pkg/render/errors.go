package render

import (
	"sort"
	"strings"
)

// ErrorMapping splits a server error payload into field-level and form-level
// messages keyed by qualified field keys.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors concatenates and normalises multiple form-level error
// slices, trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload normalises server error payloads (including JSON pointer
// paths) into the qualified keys carried by view. Unknown paths are treated
// as form-level errors so messages are not lost.
func MapErrorPayload(view FormView, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{
		Fields: make(map[string][]string),
	}
	if len(payload) == 0 {
		return mapping
	}

	fieldPaths := collectFieldPaths(view)

	for _, rawPath := range sortedKeys(payload) {
		messages := payload[rawPath]
		normalizedMessages := normalizeMessages(messages)
		if len(normalizedMessages) == 0 {
			continue
		}

		mapped, formLevel := mapErrorPath(rawPath, fieldPaths)
		if formLevel || mapped == "" {
			mapping.Form = append(mapping.Form, normalizedMessages...)
			continue
		}
		mapping.Fields[mapped] = append(mapping.Fields[mapped], normalizedMessages...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

// mapErrorPath resolves a server path to the longest known qualified key,
// first as given and then without wrapper segments such as "body" or
// "fields". It reports true when the message belongs to the form.
func mapErrorPath(raw string, fieldPaths map[string]struct{}) (string, bool) {
	if isFormLevelKey(raw) {
		return "", true
	}
	segments := parsePathSegments(raw)
	if len(segments) == 0 {
		return "", true
	}

	best := longestMatchingPath(segments, fieldPaths)
	if unwrapped := dropWrapperSegments(segments); len(unwrapped) < len(segments) {
		if candidate := longestMatchingPath(unwrapped, fieldPaths); segmentCount(candidate) > segmentCount(best) {
			best = candidate
		}
	}
	return best, best == ""
}

// parsePathSegments splits dotted paths, JSON pointers ("#/contact/email")
// and JSONPath-like keys ("$.pharmacies[0].ods") into segments.
func parsePathSegments(path string) []string {
	clean := strings.TrimLeft(strings.TrimSpace(path), "#$/.")
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if segment := strings.TrimSpace(part); segment != "" {
			out = append(out, segment)
		}
	}
	return out
}

var wrapperSegments = map[string]struct{}{
	"body":        {},
	"request":     {},
	"payload":     {},
	"data":        {},
	"attributes":  {},
	"fields":      {},
	"collections": {},
}

func dropWrapperSegments(segments []string) []string {
	out := segments
	for len(out) > 0 {
		if _, ok := wrapperSegments[strings.ToLower(out[0])]; !ok {
			break
		}
		out = out[1:]
	}
	return out
}

func longestMatchingPath(segments []string, fieldPaths map[string]struct{}) string {
	for end := len(segments); end > 0; end-- {
		candidate := strings.Join(segments[:end], ".")
		if _, ok := fieldPaths[candidate]; ok {
			return candidate
		}
	}
	return ""
}

func segmentCount(path string) int {
	if path == "" {
		return 0
	}
	return strings.Count(path, ".") + 1
}

func collectFieldPaths(view FormView) map[string]struct{} {
	dest := make(map[string]struct{})
	add := func(fields []FieldView) {
		for _, field := range fields {
			if id := strings.TrimSpace(field.ID); id != "" {
				dest[id] = struct{}{}
			}
		}
	}
	dest[view.Category.Name] = struct{}{}
	if view.Section != nil {
		add(view.Section.Fields)
	}
	add(view.Contact.Fields)
	for _, collection := range view.Collections {
		dest[collection.Key] = struct{}{}
		for _, entry := range collection.Entries {
			add(entry.Components)
		}
	}
	return dest
}

func sortedKeys[V any](values map[string]V) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
