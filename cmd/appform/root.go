package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-appform/internal/config"
	"github.com/goliatone/go-appform/pkg/form"
	"github.com/goliatone/go-appform/pkg/notify"
	"github.com/goliatone/go-appform/pkg/prior"
	"github.com/goliatone/go-appform/pkg/registry"
	"github.com/goliatone/go-appform/pkg/render"
	"github.com/goliatone/go-appform/pkg/renderers/vanilla"
	"github.com/goliatone/go-appform/pkg/submission"
)

// app carries the state shared by every subcommand. Each root command owns
// its own viper instance so commands can be built repeatedly in tests.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "appform",
		Short: "Schema-driven application forms",
		Long: `appform renders, fills and serves application forms described by a
declarative definition: a category selector, per-category fields, a contact
section and repeatable collections, gated by fail-fast validation.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: ./appform.yaml)")
	root.PersistentFlags().StringP("definitions", "d", "",
		"application definition file (JSON or YAML); built-in business form when empty")
	root.PersistentFlags().String("log-level", "",
		"log level: debug, info, warn, error")
	root.PersistentFlags().String("prior-dir", "",
		"directory of stored applications for the accept flow")

	_ = a.v.BindPFlag("definitions", root.PersistentFlags().Lookup("definitions"))
	_ = a.v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))
	_ = a.v.BindPFlag("prior.dir", root.PersistentFlags().Lookup("prior-dir"))

	root.AddCommand(
		a.categoriesCmd(),
		a.renderCmd(),
		a.fillCmd(),
		a.contractCmd(),
		a.previewCmd(),
	)
	return root
}

func (a *app) load(cmd *cobra.Command, _ []string) error {
	defaults := config.Defaults()
	a.v.SetDefault("log_level", defaults.LogLevel)
	a.v.SetDefault("submission.timeout", defaults.Submission.Timeout)
	a.v.SetDefault("render.renderer", defaults.Render.Renderer)
	a.v.SetDefault("render.inline_stylesheet", defaults.Render.InlineStylesheet)
	a.v.SetDefault("preview.addr", defaults.Preview.Addr)

	a.v.SetEnvPrefix("APPFORM")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigName("appform")
	}
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg config.Config
	if err := a.v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, _ := config.ParseLevel(cfg.LogLevel)
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	a.cfg = cfg

	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("config loaded", "file", used)
	}
	return nil
}

func (a *app) registry() (*registry.Registry, error) {
	path := strings.TrimSpace(a.cfg.Definitions)
	if path == "" {
		return registry.Business(), nil
	}
	reg, err := registry.LoadFS(os.DirFS(filepath.Dir(path)), filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("loading definitions: %w", err)
	}
	return reg, nil
}

// priorValues loads a stored application when id is set.
func (a *app) priorValues(cmd *cobra.Command, id string) (prior.Values, error) {
	if id == "" {
		return prior.Values{}, nil
	}
	if a.cfg.Prior.Dir == "" {
		return prior.Values{}, errors.New("--prior needs a prior directory (prior.dir or --prior-dir)")
	}
	return prior.NewFileSource(a.cfg.Prior.Dir).Load(cmd.Context(), id)
}

func (a *app) controller(reg *registry.Registry, values prior.Values, opts ...form.Option) (*form.Controller, error) {
	base := []form.Option{
		form.WithPrior(values),
		form.WithPolicy(a.cfg.Collections),
		form.WithLogger(a.logger),
		form.WithNotifier(notify.Log{Logger: a.logger}),
	}
	return form.New(reg, append(base, opts...)...)
}

func (a *app) renderer() (render.Renderer, error) {
	switch a.cfg.Render.Renderer {
	case "json":
		return render.JSONRenderer{}, nil
	default:
		return vanilla.New(vanilla.WithInlineStylesheet(a.cfg.Render.InlineStylesheet))
	}
}

func (a *app) theme() (*theme.RendererConfig, error) {
	selector := a.cfg.Render.Theme.ThemeSelector()
	if selector == nil {
		return nil, nil
	}
	return render.ResolveTheme(selector, a.cfg.Render.Theme.Name, a.cfg.Render.Theme.Variant)
}

func (a *app) channel(cmd *cobra.Command) submission.Channel {
	endpoint := a.cfg.Submission.Endpoint
	if endpoint == "" {
		return submission.NewWriterChannel(cmd.OutOrStdout(), nil)
	}
	opts := []submission.HTTPOption{
		submission.WithTimeout(a.cfg.Submission.Timeout),
		submission.WithLogger(a.logger),
	}
	for name, value := range a.cfg.Submission.Headers {
		opts = append(opts, submission.WithHeader(name, value))
	}
	return submission.NewHTTPChannel(endpoint, opts...)
}
