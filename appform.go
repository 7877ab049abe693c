// Package appform is the quick-start entry point for schema-driven
// application forms. Most callers want Generate or GenerateHTML; the
// packages under pkg/ expose the controller, renderers and registry for
// finer control.
package appform

import (
	"context"
	"fmt"

	"github.com/goliatone/go-appform/pkg/form"
	"github.com/goliatone/go-appform/pkg/prior"
	"github.com/goliatone/go-appform/pkg/registry"
	"github.com/goliatone/go-appform/pkg/render"
	"github.com/goliatone/go-appform/pkg/renderers/vanilla"
)

// RenderOptions describes per-request overrides such as server-side errors,
// hidden inputs and theme tokens.
type RenderOptions = render.RenderOptions

// Payload is the data a valid form hands to its submission channel.
type Payload = form.Payload

// Request describes one render.
type Request struct {
	// Registry defaults to the built-in business application.
	Registry *registry.Registry
	// Category pre-selects a category.
	Category string
	// Prior pre-populates the form; a record id switches to the accept flow.
	Prior prior.Values
	// Renderer is "vanilla" (default) or "json".
	Renderer string
	Options  RenderOptions
}

// NewController creates a form controller for reg.
func NewController(reg *registry.Registry, options ...form.Option) (*form.Controller, error) {
	return form.New(reg, options...)
}

// Generate builds a controller for the request and renders its view.
func Generate(ctx context.Context, req Request, options ...form.Option) ([]byte, error) {
	reg := req.Registry
	if reg == nil {
		reg = registry.Business()
	}
	ctrl, err := form.New(reg, append([]form.Option{form.WithPrior(req.Prior)}, options...)...)
	if err != nil {
		return nil, err
	}
	if req.Category != "" {
		if err := ctrl.SelectCategory(req.Category); err != nil {
			return nil, err
		}
	}

	var renderer render.Renderer
	switch req.Renderer {
	case "", "vanilla":
		renderer, err = vanilla.New()
		if err != nil {
			return nil, err
		}
	case "json":
		renderer = render.JSONRenderer{}
	default:
		return nil, fmt.Errorf("appform: unknown renderer %q", req.Renderer)
	}
	return renderer.Render(ctx, ctrl.View(), req.Options)
}

// GenerateHTML renders the form of reg as HTML with category pre-selected
// when it is not empty.
func GenerateHTML(ctx context.Context, reg *registry.Registry, category string) ([]byte, error) {
	return Generate(ctx, Request{Registry: reg, Category: category})
}
