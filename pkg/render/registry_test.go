package render_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/goliatone/go-appform/pkg/render"
)

type stubRenderer struct {
	name, contentType string
}

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return s.contentType }
func (s stubRenderer) Render(context.Context, render.FormView, render.RenderOptions) ([]byte, error) {
	return []byte(s.name), nil
}

func TestRegistryNegotiate(t *testing.T) {
	reg, err := render.NewRegistry(
		stubRenderer{name: "html", contentType: "text/html; charset=utf-8"},
		render.JSONRenderer{},
	)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	cases := map[string]string{
		"":                                   "html",
		"*/*":                                "html",
		"application/json":                   "json",
		"text/plain, application/json;q=0.9": "json",
		"text/html,application/xhtml+xml":    "html",
	}
	for accept, want := range cases {
		renderer, err := reg.Negotiate(accept)
		if err != nil {
			t.Fatalf("negotiate %q: %v", accept, err)
		}
		if renderer.Name() != want {
			t.Fatalf("negotiate %q = %s, want %s", accept, renderer.Name(), want)
		}
	}

	if _, err := reg.Negotiate("image/png"); err == nil {
		t.Fatalf("expected negotiation failure")
	}
	if err := reg.Register(render.JSONRenderer{}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if _, err := reg.Get("missing"); err == nil {
		t.Fatalf("expected missing renderer error")
	}
}

func TestJSONRendererAppliesOptions(t *testing.T) {
	view := sampleView()
	out, err := render.JSONRenderer{}.Render(context.Background(), view, render.RenderOptions{
		Errors:     map[string][]string{"contact.email": {"Email invalid"}, "elsewhere": {"Check again"}},
		FormErrors: []string{"Try later"},
		Hidden:     []render.HiddenField{render.CSRFToken("_csrf", "t")},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var decoded render.FormView
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := decoded.Contact.Fields[0].Errors; len(got) != 1 || got[0] != "Email invalid" {
		t.Fatalf("expected inline error, got %#v", got)
	}
	if len(decoded.FormErrors) != 2 || len(decoded.Hidden) != 1 {
		t.Fatalf("unexpected form errors/hidden: %#v %#v", decoded.FormErrors, decoded.Hidden)
	}
	if len(view.Contact.Fields[0].Errors) != 0 {
		t.Fatalf("render mutated the caller's view")
	}
}
