package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassForm         ChromeClass = "appform-form"
	ClassHeader       ChromeClass = "appform-header"
	ClassSelector     ChromeClass = "appform-selector"
	ClassFieldset     ChromeClass = "appform-fieldset"
	ClassField        ChromeClass = "appform-field"
	ClassCollection   ChromeClass = "appform-collection"
	ClassEntries      ChromeClass = "appform-entries"
	ClassDraft        ChromeClass = "appform-draft"
	ClassActions      ChromeClass = "appform-actions"
	ClassErrors       ChromeClass = "appform-errors"
	ClassConfirmation ChromeClass = "appform-confirmation"
)

// ChromeClasses lets hosts add their own classes (Bootstrap, Tailwind) to
// the structural elements. The semantic class is always kept.
type ChromeClasses struct {
	Form         string `json:"form,omitempty"`
	Header       string `json:"header,omitempty"`
	Selector     string `json:"selector,omitempty"`
	Fieldset     string `json:"fieldset,omitempty"`
	Field        string `json:"field,omitempty"`
	Collection   string `json:"collection,omitempty"`
	Entries      string `json:"entries,omitempty"`
	Draft        string `json:"draft,omitempty"`
	Actions      string `json:"actions,omitempty"`
	Errors       string `json:"errors,omitempty"`
	Confirmation string `json:"confirmation,omitempty"`
}

func (c ChromeClasses) resolve() map[string]string {
	return map[string]string{
		"form":         joinClasses(ClassForm, c.Form),
		"header":       joinClasses(ClassHeader, c.Header),
		"selector":     joinClasses(ClassSelector, c.Selector),
		"fieldset":     joinClasses(ClassFieldset, c.Fieldset),
		"field":        joinClasses(ClassField, c.Field),
		"collection":   joinClasses(ClassCollection, c.Collection),
		"entries":      joinClasses(ClassEntries, c.Entries),
		"draft":        joinClasses(ClassDraft, c.Draft),
		"actions":      joinClasses(ClassActions, c.Actions),
		"errors":       joinClasses(ClassErrors, c.Errors),
		"confirmation": joinClasses(ClassConfirmation, c.Confirmation),
	}
}
