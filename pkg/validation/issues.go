package validation

import (
	"fmt"
	"strings"
)

// SchemaIssue represents a definition problem with optional location metadata.
type SchemaIssue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// SchemaValidationResult captures the outcome of checking an application
// definition.
type SchemaValidationResult struct {
	Valid  bool          `json:"valid"`
	Issues []SchemaIssue `json:"issues,omitempty"`
}

// Add records an issue at the given JSON pointer and marks the result invalid.
func (r *SchemaValidationResult) Add(path, format string, args ...any) {
	r.Valid = false
	r.Issues = append(r.Issues, SchemaIssue{
		Path:    path,
		Field:   fieldPathFromPointer(path),
		Message: strings.TrimSpace(fmt.Sprintf(format, args...)),
	})
}

// Err returns nil for a valid result and an *IssueError otherwise.
func (r SchemaValidationResult) Err() error {
	if r.Valid || len(r.Issues) == 0 {
		return nil
	}
	return &IssueError{Issues: append([]SchemaIssue(nil), r.Issues...)}
}

// IssueError wraps the issues of an invalid definition.
type IssueError struct {
	Issues []SchemaIssue
}

func (e *IssueError) Error() string {
	if len(e.Issues) == 0 {
		return "validation: invalid definition"
	}
	first := e.Issues[0]
	msg := first.Message
	if first.Path != "" {
		msg += " at " + first.Path
	}
	if extra := len(e.Issues) - 1; extra > 0 {
		msg += fmt.Sprintf(" (and %d more)", extra)
	}
	return "validation: " + msg
}

// fieldPathFromPointer turns "/categories/soleTrader/fields/name" into
// "soleTrader.name", dropping structural segments.
func fieldPathFromPointer(pointer string) string {
	trimmed := strings.TrimSpace(pointer)
	trimmed = strings.TrimPrefix(trimmed, "#")
	trimmed = strings.TrimPrefix(trimmed, "/")
	if trimmed == "" {
		return ""
	}

	parts := strings.Split(trimmed, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.ReplaceAll(part, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		switch segment {
		case "", "categories", "sections", "collections", "fields", "components":
			continue
		case "pattern", "label", "key", "kind":
			continue
		default:
			if isNumeric(segment) {
				continue
			}
			out = append(out, segment)
		}
	}
	return strings.Join(out, ".")
}

func isNumeric(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
