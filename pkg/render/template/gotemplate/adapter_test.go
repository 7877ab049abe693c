package gotemplate_test

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flosch/pongo2/v6"
	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-appform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-appform/pkg/testsupport"
)

//go:embed testdata/templates/*.tpl
var embeddedTemplates embed.FS

func TestEngineRenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	golden := filepath.Join("testdata", "hello.golden")
	if testsupport.WriteMaybeGolden(t, golden, []byte(result)) {
		return
	}
	want := testsupport.MustReadGoldenString(t, golden)
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func TestEngineStructDataUsesJSONNames(t *testing.T) {
	engine := newEngine(t)

	type person struct {
		Name string `json:"name"`
	}
	result, err := engine.RenderTemplate("hello.tpl", person{Name: "Grace"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "Hello Grace!" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestEngineGlobalContext(t *testing.T) {
	engine, err := gotemplate.New(
		gotemplate.WithFS(templatesFS(t)),
		gotemplate.WithGlobalData(map[string]any{"settings": map[string]any{"env": "staging"}}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	result, err := engine.RenderTemplate("use-global", map[string]any{"name": "  Ada  "})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "STAGING:Ada" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestEngineRegisterFilter(t *testing.T) {
	engine, err := gotemplate.New(
		gotemplate.WithFS(templatesFS(t)),
		gotemplate.WithFilter("shout", func(input any, _ any) (any, error) {
			if input == nil {
				return "", nil
			}
			return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
		}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	result, err := engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "ADA!" {
		t.Fatalf("unexpected output %q", result)
	}
	if err := engine.RegisterFilter("shout", func(any, any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate filter error")
	}
}

func TestEngineSanitizeFilter(t *testing.T) {
	engine := newEngine(t)

	markup := `<div class="alert" role="alert" onclick="steal()">Posted<script>alert(1)</script></div>`
	result, err := engine.RenderTemplate("use-sanitize", map[string]any{"markup": markup})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	sanitized, escaped, ok := strings.Cut(result, "|")
	if !ok {
		t.Fatalf("unexpected output %q", result)
	}
	if strings.Contains(sanitized, "script") || strings.Contains(sanitized, "onclick") {
		t.Fatalf("sanitize left executable markup: %q", sanitized)
	}
	if !strings.Contains(sanitized, `role="alert"`) || !strings.Contains(sanitized, "Posted") {
		t.Fatalf("sanitize dropped allowed markup: %q", sanitized)
	}
	if strings.Contains(escaped, "<div") {
		t.Fatalf("unfiltered markup must be escaped: %q", escaped)
	}
}

func TestEngineRenderString(t *testing.T) {
	engine := newEngine(t)
	result, err := engine.RenderString("{{ a|integer }}-{{ b }}", map[string]any{"a": 1, "b": "two"})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if result != "1-two" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestEnginePassesGoTemplateOptions(t *testing.T) {
	initials := func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var out strings.Builder
		for _, word := range strings.Fields(in.String()) {
			out.WriteString(strings.ToUpper(word[:1]))
		}
		return pongo2.AsValue(out.String()), nil
	}
	engine, err := gotemplate.New(
		gotemplate.WithFS(templatesFS(t)),
		gotemplate.WithGoTemplateOptions(gotemplatepkg.WithTemplateFunc(map[string]any{
			"initials": pongo2.FilterFunction(initials),
		})),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	result, err := engine.RenderString("{{ name|initials }}", map[string]any{"name": "jo bloggs"})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if result != "JB" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestEnginePostHookRewritesOutput(t *testing.T) {
	engine := newEngine(t)
	engine.RegisterPostHook(func(ctx *gotemplatepkg.HookContext) (string, error) {
		return strings.TrimSuffix(ctx.Output, "!"), nil
	})

	result, err := engine.RenderTemplate("hello", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "Hello Ada" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestNewRequiresFS(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without templates")
	}
}

func templatesFS(t *testing.T) fs.FS {
	t.Helper()
	sub, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	return sub
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()
	engine, err := gotemplate.New(gotemplate.WithFS(templatesFS(t)))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
