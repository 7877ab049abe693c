package vanilla_test

import (
	"context"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-appform/pkg/form"
	"github.com/goliatone/go-appform/pkg/prior"
	"github.com/goliatone/go-appform/pkg/registry"
	"github.com/goliatone/go-appform/pkg/render"
	"github.com/goliatone/go-appform/pkg/renderers/vanilla"
	"github.com/goliatone/go-appform/pkg/submission"
)

func newRenderer(t *testing.T, opts ...vanilla.Option) *vanilla.Renderer {
	t.Helper()
	r, err := vanilla.New(opts...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func newController(t *testing.T, opts ...form.Option) *form.Controller {
	t.Helper()
	ctrl, err := form.New(registry.Business(), opts...)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return ctrl
}

func renderView(t *testing.T, r *vanilla.Renderer, view render.FormView, options render.RenderOptions) string {
	t.Helper()
	out, err := r.Render(context.Background(), view, options)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func assertContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, html)
		}
	}
}

func assertNotContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if strings.Contains(html, fragment) {
			t.Fatalf("expected output not to contain %q\n%s", fragment, html)
		}
	}
}

func TestRenderInitialForm(t *testing.T) {
	r := newRenderer(t)
	html := renderView(t, r, newController(t).View(), render.RenderOptions{})

	assertContains(t, html,
		`<style>.appform-form`,
		`name="category" id="category-limitedCompany" value="limitedCompany" required`,
		`<label for="category-partnership">Partnership</label>`,
		`<input type="email" id="contact.email" name="contact.email"`,
		`<input type="tel" id="contact.telephone"`,
		`id="pharmacies.draft.ods" name="pharmacies.draft.ods" value="" placeholder="ODS code" pattern="^[a-zA-Z]{2,3}\d{2,3}$"`,
		`data-collection="pharmacies" data-mandatory="true"`,
		`aria-disabled="true">Add pharmacy</button>`,
		`<button type="submit">Apply</button>`,
	)
	assertNotContains(t, html, `<fieldset class="appform-fieldset" id="business"`, " checked", "<textarea")
}

func TestRenderSelectedCategory(t *testing.T) {
	ctrl := newController(t)
	if err := ctrl.SelectCategory("limitedCompany"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if _, err := ctrl.SetField("business.address", "1 High St <b>"); err != nil {
		t.Fatalf("set: %v", err)
	}

	html := renderView(t, newRenderer(t), ctrl.View(), render.RenderOptions{})
	assertContains(t, html,
		`value="limitedCompany" required checked`,
		`<legend>Limited Company</legend>`,
		`<input type="text" id="business.number" name="business.number" value="" placeholder="01234567"`,
		`<textarea id="business.address" name="business.address" placeholder=" " required>1 High St &lt;b&gt;</textarea>`,
		`required autofocus>`,
	)
	assertNotContains(t, html, "1 High St <b>")
}

func TestRenderAppliesOptionErrors(t *testing.T) {
	r := newRenderer(t)
	html := renderView(t, r, newController(t).View(), render.RenderOptions{
		Errors:     map[string][]string{"contact.email": {"Email already registered"}, "unknown": {"Something else"}},
		FormErrors: []string{"Please try again"},
		Hidden:     []render.HiddenField{render.CSRFToken("_csrf", "tok")},
	})

	assertContains(t, html,
		`<div class="appform-field is-invalid" data-status="empty">`,
		`<div class="invalid-feedback">Email already registered</div>`,
		`<li>Something else</li>`,
		`<li>Please try again</li>`,
		`<input type="hidden" name="_csrf" value="tok">`,
	)
}

func TestRenderAcceptFlow(t *testing.T) {
	ctrl := newController(t, form.WithPrior(prior.Values{
		ID:          "rec-9",
		Category:    "soleTrader",
		Fields:      map[string]string{"business.name": "Corner Chemist"},
		Collections: map[string][]map[string]string{"pharmacies": {{"ods": "AB123"}}},
	}))

	html := renderView(t, newRenderer(t), ctrl.View(), render.RenderOptions{})
	assertContains(t, html,
		`<input type="hidden" name="id" value="rec-9">`,
		`value="Corner Chemist"`,
		`<li data-index="0">`,
		`id="pharmacies.0.ods" name="pharmacies.0.ods" value="AB123"`,
		`name="remove" value="pharmacies.0"`,
		`<button type="submit">Accept</button>`,
	)
}

func TestRenderConfirmation(t *testing.T) {
	ctrl := newController(t, form.WithChannel(submission.Func(func(context.Context, submission.Submission) (submission.Result, error) {
		return submission.Result{Reply: []byte("ok")}, nil
	})))
	if err := ctrl.SelectCategory("soleTrader"); err != nil {
		t.Fatalf("select: %v", err)
	}
	for key, value := range map[string]string{
		"business.name":     "Corner Chemist",
		"business.address":  "1 High Street",
		"contact.name":      "Jo Bloggs",
		"contact.position":  "Owner",
		"contact.email":     "jo@example.com",
		"contact.telephone": "07123456789",
	} {
		if _, err := ctrl.SetField(key, value); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}
	if _, err := ctrl.SetDraft(registry.Pharmacies, "ods", "AB123"); err != nil {
		t.Fatalf("draft: %v", err)
	}
	if _, err := ctrl.AddEntry(registry.Pharmacies); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := ctrl.SubmitAndWait(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	html := renderView(t, newRenderer(t, vanilla.WithInlineStylesheet(false)), ctrl.View(), render.RenderOptions{})
	assertContains(t, html,
		`<section class="appform-confirmation" data-form="business">`,
		`role="alert">Your application has been posted.`,
	)
	assertNotContains(t, html, "<form", "<style>")
}

func TestRenderSanitizesConfirmation(t *testing.T) {
	view := render.FormView{
		Name:         "clinic",
		Confirmation: `<div class="alert" onclick="steal()">Thanks<script>alert(1)</script></div>`,
	}
	html := renderView(t, newRenderer(t), view, render.RenderOptions{})
	assertContains(t, html, `<div class="alert">Thanks</div>`)
	assertNotContains(t, html, "onclick", "<script")
}

func TestRenderThemeAndChrome(t *testing.T) {
	r := newRenderer(t,
		vanilla.WithInlineStylesheet(false),
		vanilla.WithChromeClasses(vanilla.ChromeClasses{
			Form:    "needs-validation appform-form needs-validation",
			Actions: "d-grid",
		}),
	)
	html := renderView(t, r, newController(t).View(), render.RenderOptions{
		Theme: &theme.RendererConfig{
			Theme:   "acme",
			Variant: "dark",
			Tokens:  map[string]string{"brand": "#123456"},
			AssetURL: func(key string) string {
				if key == vanilla.ThemeStylesheetAsset {
					return "/themes/acme/vanilla.css"
				}
				return ""
			},
		},
	})

	assertContains(t, html,
		`<style data-theme="acme">:root {`,
		`--brand: #123456;`,
		`<link rel="stylesheet" href="/themes/acme/vanilla.css">`,
		`<form class="appform-form needs-validation" data-form="business" data-state="editing"`,
		`<div class="appform-actions d-grid">`,
	)
}

func TestRendererMetadata(t *testing.T) {
	r := newRenderer(t)
	if r.Name() != "vanilla" {
		t.Fatalf("name = %q", r.Name())
	}
	if !strings.HasPrefix(r.ContentType(), "text/html") {
		t.Fatalf("content type = %q", r.ContentType())
	}
	if _, err := vanilla.AssetsFS().Open(vanilla.StylesheetName); err != nil {
		t.Fatalf("open stylesheet: %v", err)
	}
}
