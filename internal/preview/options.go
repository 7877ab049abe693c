package preview

import (
	"io"
	"log/slog"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-appform/pkg/collection"
	"github.com/goliatone/go-appform/pkg/prior"
	"github.com/goliatone/go-appform/pkg/registry"
	"github.com/goliatone/go-appform/pkg/render"
	"github.com/goliatone/go-appform/pkg/submission"
)

type Options struct {
	Registry *registry.Registry
	// Renderers is negotiated against the Accept header. Nil registers the
	// vanilla HTML renderer followed by the JSON renderer.
	Renderers *render.Registry
	// Prior serves the accept flow. Nil disables /accept/{id}.
	Prior   prior.Source
	Channel submission.Channel
	Policy  collection.Policy
	Theme   *theme.RendererConfig
	Hidden  []render.HiddenField
	Logger  *slog.Logger
}

type OptionFn func(*Options)

// DefaultOptions serves the built-in business application and accepts
// submissions without forwarding them anywhere.
func DefaultOptions() Options {
	return Options{
		Registry: registry.Business(),
		Channel:  submission.NewWriterChannel(io.Discard, nil),
		Logger:   slog.New(slog.DiscardHandler),
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.Registry == nil {
		opts.Registry = registry.Business()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Hidden != nil {
		opts.Hidden = append([]render.HiddenField{}, opts.Hidden...)
	}
	return opts
}

func WithRegistry(reg *registry.Registry) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Registry = reg
	}
}

func WithRenderers(renderers *render.Registry) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Renderers = renderers
	}
}

func WithPrior(source prior.Source) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Prior = source
	}
}

func WithChannel(channel submission.Channel) OptionFn {
	return func(o *Options) {
		if o == nil || channel == nil {
			return
		}
		o.Channel = channel
	}
}

func WithPolicy(policy collection.Policy) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Policy = policy
	}
}

func WithTheme(cfg *theme.RendererConfig) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Theme = cfg
	}
}

// WithHidden adds hidden inputs, such as a CSRF token, to every rendered form.
func WithHidden(fields ...render.HiddenField) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Hidden = append(o.Hidden, fields...)
	}
}

func WithLogger(logger *slog.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}
