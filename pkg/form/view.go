package form

import "github.com/goliatone/go-appform/pkg/render"

// View composes the current presentation of the whole form.
func (c *Controller) View() render.FormView {
	view := c.baseView()
	view.Focus = c.focus
	view.State = c.state.String()
	if c.state == StateSucceeded {
		view.Confirmation = c.reg.Confirmation()
	}
	leftover := render.ApplyErrors(&view, c.fieldErrors)
	view.FormErrors = render.MergeFormErrors(c.formErrors, leftover...)
	return view
}

func (c *Controller) baseView() render.FormView {
	contact := c.reg.Contact()
	view := render.FormView{
		Name:     c.reg.Name(),
		Title:    c.reg.Title(),
		Category: render.Categories(c.reg.CategoryLabel(), c.reg.Categories(), c.category),
		Contact: render.SectionView{
			Key:    contact.Key,
			Label:  contact.Label,
			Fields: render.Fields(contact.Key, contact.Fields, c.fields),
		},
		Collections: make([]render.CollectionView, 0, len(c.editors)),
		SubmitLabel: c.reg.SubmitLabel(c.Accepting()),
	}
	if category, err := c.reg.Resolve(c.category); err == nil {
		section := c.reg.CategorySection()
		view.Section = &render.SectionView{
			Key:    section,
			Label:  category.Label,
			Fields: render.Fields(section, category.Fields, c.fields),
		}
	}
	for _, editor := range c.editors {
		view.Collections = append(view.Collections, editor.View())
	}

	hidden := append([]render.HiddenField(nil), c.hidden...)
	if c.recordID != "" {
		hidden = append(hidden, render.RecordID(c.recordID))
	}
	if len(hidden) > 0 {
		view.Hidden = render.MergeHiddenFields(nil, hidden...)
	}
	return view
}
