package render

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"
)

type stubThemeSelector struct {
	selection *theme.Selection
	err       error
	calls     []string
}

func (s *stubThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls = append(s.calls, name+"/"+variant)
	return s.selection, s.err
}

func TestResolveThemeMergesVariant(t *testing.T) {
	selector := &stubThemeSelector{selection: &theme.Selection{
		Theme:   "acme",
		Variant: "dark",
		Manifest: &theme.Manifest{
			Name:    "acme",
			Version: "1.0.0",
			Tokens:  map[string]string{"brand": "#123456", "surface": "#ffffff"},
			Assets: theme.Assets{
				Prefix: "/assets/themes/acme",
				Files:  map[string]string{"stylesheet": "theme.css"},
			},
			Variants: map[string]theme.Variant{
				"dark": {Tokens: map[string]string{"surface": "#000000"}},
			},
		},
	}}

	cfg, err := ResolveTheme(selector, "acme", "dark")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if diff := cmp.Diff([]string{"acme/dark"}, selector.calls); diff != "" {
		t.Fatalf("selector calls mismatch (-want +got):\n%s", diff)
	}
	wantVars := map[string]string{"--brand": "#123456", "--surface": "#000000"}
	if diff := cmp.Diff(wantVars, cfg.CSSVars); diff != "" {
		t.Fatalf("css vars mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/themes/acme/theme.css" {
		t.Fatalf("asset url = %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("missing asset url = %q", got)
	}
}

func TestResolveThemeErrors(t *testing.T) {
	if _, err := ResolveTheme(nil, "acme", ""); err == nil {
		t.Fatalf("expected error for nil selector")
	}
	boom := errors.New("boom")
	if _, err := ResolveTheme(&stubThemeSelector{err: boom}, "acme", ""); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped selector error, got %v", err)
	}
	if _, err := ResolveTheme(&stubThemeSelector{selection: &theme.Selection{Theme: "acme"}}, "acme", ""); err == nil {
		t.Fatalf("expected error for selection without manifest")
	}
}

func TestCSSVarsStyle(t *testing.T) {
	got := CSSVarsStyle(CSSVars(map[string]string{"color.brand": "#123456", "radius": "4px"}))
	want := ":root {\n  --color-brand: #123456;\n  --radius: 4px;\n}"
	if got != want {
		t.Fatalf("style mismatch:\nwant %q\ngot  %q", want, got)
	}
}

func TestManifestSelector(t *testing.T) {
	selector := ManifestSelector{
		Default: "acme",
		Manifests: map[string]*theme.Manifest{
			"acme": {
				Name:     "acme",
				Version:  "1.0.0",
				Tokens:   map[string]string{"brand": "#123456"},
				Variants: map[string]theme.Variant{"dark": {Tokens: map[string]string{"brand": "#000000"}}},
			},
		},
	}

	cfg, err := ResolveTheme(selector, "", "dark")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Theme != "acme" || cfg.CSSVars["--brand"] != "#000000" {
		t.Fatalf("unexpected config %#v", cfg)
	}

	cfg, err = ResolveTheme(selector, "acme", "sepia")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Variant != "" || cfg.CSSVars["--brand"] != "#123456" {
		t.Fatalf("unknown variants should fall back to base tokens, got %#v", cfg)
	}

	if _, err := selector.Select("missing", ""); err == nil {
		t.Fatalf("expected unknown theme error")
	}
}
