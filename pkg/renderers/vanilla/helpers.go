package vanilla

import "strings"

func joinClasses(base ChromeClass, extra string) string {
	extra = sanitizeClassList(extra)
	if extra == "" {
		return string(base)
	}
	return string(base) + " " + extra
}

// sanitizeClassList drops empty and reserved tokens from a user supplied
// class attribute.
func sanitizeClassList(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	tokens := strings.Fields(value)
	keep := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		if strings.HasPrefix(token, "appform-") {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		keep = append(keep, token)
	}
	return strings.Join(keep, " ")
}
