// Package vanilla renders application forms as server-side HTML using the
// pongo2 template engine and an embedded template bundle.
package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-appform/pkg/render"
	rendertemplate "github.com/goliatone/go-appform/pkg/render/template"
	gotemplate "github.com/goliatone/go-appform/pkg/render/template/gotemplate"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	chrome           ChromeClasses
	inlineStyles     bool
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithChromeClasses adds host classes to the structural elements.
func WithChromeClasses(classes ChromeClasses) Option {
	return func(cfg *config) {
		cfg.chrome = classes
	}
}

// WithInlineStylesheet toggles embedding the default stylesheet in the
// output. It is on by default.
func WithInlineStylesheet(enabled bool) Option {
	return func(cfg *config) {
		cfg.inlineStyles = enabled
	}
}

type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	chrome       map[string]string
	inlineStyles bool
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), inlineStyles: true}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:    renderer,
		chrome:       cfg.chrome.resolve(),
		inlineStyles: cfg.inlineStyles,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render writes the form, or its confirmation once the form has succeeded.
// Option errors and hidden fields are merged into a copy of view.
func (r *Renderer) Render(_ context.Context, view render.FormView, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	view = render.Prepare(view, options)
	data := map[string]any{
		"form":   view,
		"chrome": r.chrome,
		"theme":  themeContext(options.Theme),
	}
	if r.inlineStyles {
		data["stylesheet"] = defaultStylesheet()
	}

	result, err := r.templates.RenderTemplate("templates/form.tmpl", data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func themeContext(cfg *theme.RendererConfig) map[string]string {
	if cfg == nil {
		return map[string]string{}
	}
	vars := cfg.CSSVars
	if len(vars) == 0 {
		vars = render.CSSVars(cfg.Tokens)
	}
	ctx := map[string]string{
		"name":    cfg.Theme,
		"variant": cfg.Variant,
		"css":     render.CSSVarsStyle(vars),
	}
	if cfg.AssetURL != nil {
		ctx["stylesheet"] = cfg.AssetURL(ThemeStylesheetAsset)
	}
	return ctx
}
