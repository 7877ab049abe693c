package render

import (
	"errors"
	"fmt"
	"path"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ResolveTheme selects a theme through selector and derives the renderer
// configuration from it. Variant tokens and asset files override the base
// manifest. Every token is also exposed as a CSS custom property.
func ResolveTheme(selector theme.ThemeSelector, name, variant string) (*theme.RendererConfig, error) {
	if selector == nil {
		return nil, errors.New("render: theme selector is nil")
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("render: select theme %q: %w", name, err)
	}
	if selection == nil || selection.Manifest == nil {
		return nil, fmt.Errorf("render: theme %q has no manifest", name)
	}
	return ThemeConfig(selection), nil
}

// ThemeConfig converts a selection into the configuration renderers consume.
func ThemeConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil {
		return nil
	}
	manifest := selection.Manifest
	tokens := make(map[string]string)
	prefix := ""
	files := make(map[string]string)
	if manifest != nil {
		for key, value := range manifest.Tokens {
			tokens[key] = value
		}
		prefix = manifest.Assets.Prefix
		for key, value := range manifest.Assets.Files {
			files[key] = value
		}
		if v, ok := manifest.Variants[selection.Variant]; ok {
			for key, value := range v.Tokens {
				tokens[key] = value
			}
			if v.Assets.Prefix != "" {
				prefix = v.Assets.Prefix
			}
			for key, value := range v.Assets.Files {
				files[key] = value
			}
		}
	}

	return &theme.RendererConfig{
		Theme:   selection.Theme,
		Variant: selection.Variant,
		Tokens:  tokens,
		CSSVars: CSSVars(tokens),
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if prefix == "" || strings.Contains(file, "://") {
				return file
			}
			return path.Join(prefix, file)
		},
	}
}

// CSSVars maps theme tokens onto CSS custom property names.
func CSSVars(tokens map[string]string) map[string]string {
	if len(tokens) == 0 {
		return nil
	}
	out := make(map[string]string, len(tokens))
	for key, value := range tokens {
		name := strings.ReplaceAll(strings.TrimSpace(key), ".", "-")
		if name == "" {
			continue
		}
		out["--"+name] = value
	}
	return out
}

// CSSVarsStyle renders custom properties as a :root rule in key order.
func CSSVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range sortedKeys(vars) {
		b.WriteString("  ")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}


// ManifestSelector selects among manifests held in memory, such as themes
// declared in configuration.
type ManifestSelector struct {
	Manifests map[string]*theme.Manifest
	// Default names the manifest used when Select receives an empty name.
	Default string
}

var _ theme.ThemeSelector = ManifestSelector{}

// Select returns the named manifest. An unknown variant falls back to the
// base tokens.
func (s ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if strings.TrimSpace(name) == "" {
		name = s.Default
	}
	manifest, ok := s.Manifests[name]
	if !ok || manifest == nil {
		return nil, fmt.Errorf("render: unknown theme %q", name)
	}
	if _, ok := manifest.Variants[variant]; !ok {
		variant = ""
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}
