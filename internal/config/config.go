// Package config provides configuration types and defaults for the appform
// command.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-appform/pkg/collection"
	"github.com/goliatone/go-appform/pkg/render"
)

// Config holds all configuration options for appform.
type Config struct {
	// Definitions points at a JSON or YAML application definition. Empty
	// uses the built-in business application.
	Definitions string            `mapstructure:"definitions"`
	LogLevel    string            `mapstructure:"log_level"`
	Prior       PriorConfig       `mapstructure:"prior"`
	Submission  SubmissionConfig  `mapstructure:"submission"`
	Collections collection.Policy `mapstructure:"collections"`
	Render      RenderConfig      `mapstructure:"render"`
	Preview     PreviewConfig     `mapstructure:"preview"`
}

// PriorConfig locates stored applications for the accept flow.
type PriorConfig struct {
	Dir string `mapstructure:"dir"`
}

// SubmissionConfig selects the submission channel. An empty endpoint writes
// submissions to stdout.
type SubmissionConfig struct {
	Endpoint string            `mapstructure:"endpoint"`
	Timeout  time.Duration     `mapstructure:"timeout"`
	Headers  map[string]string `mapstructure:"headers"`
}

// RenderConfig configures HTML output.
type RenderConfig struct {
	Renderer         string      `mapstructure:"renderer"` // "vanilla" (default) or "json"
	InlineStylesheet bool        `mapstructure:"inline_stylesheet"`
	Theme            ThemeConfig `mapstructure:"theme"`
}

// ThemeConfig declares a theme inline. Tokens become CSS custom properties.
type ThemeConfig struct {
	Name     string                       `mapstructure:"name"`
	Variant  string                       `mapstructure:"variant"`
	Tokens   map[string]string            `mapstructure:"tokens"`
	Variants map[string]map[string]string `mapstructure:"variants"`
}

// PreviewConfig configures the preview server.
type PreviewConfig struct {
	Addr string `mapstructure:"addr"`
}

// Defaults returns the configuration used when no file or flag overrides a
// value.
func Defaults() Config {
	return Config{
		LogLevel: "info",
		Submission: SubmissionConfig{
			Timeout: 10 * time.Second,
		},
		Render: RenderConfig{
			Renderer:         "vanilla",
			InlineStylesheet: true,
		},
		Preview: PreviewConfig{
			Addr: ":8080",
		},
	}
}

// Validate reports configuration values that cannot work.
func (c Config) Validate() error {
	var errs []error
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.Render.Renderer {
	case "", "vanilla", "json":
	default:
		errs = append(errs, fmt.Errorf("config: unknown renderer %q", c.Render.Renderer))
	}
	if c.Submission.Timeout < 0 {
		errs = append(errs, errors.New("config: submission timeout must not be negative"))
	}
	if endpoint := c.Submission.Endpoint; endpoint != "" &&
		!strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		errs = append(errs, fmt.Errorf("config: submission endpoint %q must be an http(s) URL", endpoint))
	}
	if len(c.Render.Theme.Tokens) == 0 && len(c.Render.Theme.Variants) > 0 {
		errs = append(errs, errors.New("config: theme variants need base tokens"))
	}
	return errors.Join(errs...)
}

// ParseLevel maps a level name onto a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("config: unknown log level %q", name)
	}
}

// ThemeSelector returns a selector for the configured theme, or nil when no
// tokens are configured.
func (t ThemeConfig) ThemeSelector() theme.ThemeSelector {
	if len(t.Tokens) == 0 {
		return nil
	}
	name := t.Name
	if name == "" {
		name = "custom"
	}
	manifest := &theme.Manifest{
		Name:     name,
		Version:  "1.0.0",
		Tokens:   t.Tokens,
		Variants: make(map[string]theme.Variant, len(t.Variants)),
	}
	for variant, tokens := range t.Variants {
		manifest.Variants[variant] = theme.Variant{Tokens: tokens}
	}
	return render.ManifestSelector{
		Default:   name,
		Manifests: map[string]*theme.Manifest{name: manifest},
	}
}
