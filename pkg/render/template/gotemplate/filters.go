package gotemplate

import (
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
)

var (
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy
)

func sanitizer() *bluemonday.Policy {
	markupPolicyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("role").OnElements("div", "p", "span")
		p.AllowAttrs("class").Globally()
		markupPolicy = p
	})
	return markupPolicy
}

// SanitizeMarkup strips scripts, handlers and unknown attributes from
// configured markup such as confirmation messages.
func SanitizeMarkup(markup string) string {
	return sanitizer().Sanitize(markup)
}

// defaultFilters is handed to go-template, which registers each filter once
// per process. trim comes with go-template itself.
func defaultFilters() map[string]any {
	return map[string]any{
		"sanitize": pongo2.FilterFunction(filterSanitize),
	}
}

func filterExists(name string) bool {
	return pongo2.FilterExists(name)
}

// filterSanitize marks its output safe; the policy has already removed
// anything that could execute.
func filterSanitize(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsSafeValue(""), nil
	}
	return pongo2.AsSafeValue(SanitizeMarkup(in.String())), nil
}
