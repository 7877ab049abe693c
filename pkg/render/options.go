package render

import theme "github.com/goliatone/go-theme"

// RenderOptions describe per-request data that renderers can use to customise
// their output without mutating the view.
type RenderOptions struct {
	// Errors surfaces server-side validation feedback keyed by qualified field
	// key. Renderers merge these with the errors already carried by the view.
	Errors map[string][]string
	// FormErrors are messages that could not be tied to a single field.
	FormErrors []string
	// Hidden adds extra hidden inputs, such as a CSRF token.
	Hidden []HiddenField
	// Theme carries resolved theme tokens and asset lookups. Nil renders the
	// built-in look.
	Theme *theme.RendererConfig
}
