package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-appform/internal/preview"
	"github.com/goliatone/go-appform/pkg/prior"
	"github.com/goliatone/go-appform/pkg/render"
)

func (a *app) previewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Serve the form over HTTP",
		Long: `Serve the form, its stylesheet and its submission contract.

Routes:
  GET  /                      empty form (HTML or JSON by Accept header)
  POST /                      add, remove or submit
  GET  /categories/{category} form with a category selected
  GET  /accept/{id}           accept flow for a stored application
  GET  /assets/{name}         built-in stylesheet
  GET  /contract              OpenAPI contract (?format=yaml)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			handler, err := a.previewHandler(cmd)
			if err != nil {
				return err
			}

			r := chi.NewRouter()
			r.Use(middleware.RequestID)
			r.Use(middleware.RealIP)
			r.Use(middleware.Recoverer)
			r.Use(middleware.Timeout(60 * time.Second))
			handler.Register(r)

			srv := &http.Server{
				Addr:              a.cfg.Preview.Addr,
				Handler:           r,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("preview server listening", "addr", srv.Addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			a.logger.Info("preview server shutting down")
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().String("addr", "", "listen address (default :8080)")
	_ = a.v.BindPFlag("preview.addr", cmd.Flags().Lookup("addr"))
	return cmd
}

func (a *app) previewHandler(cmd *cobra.Command) (*preview.Handler, error) {
	reg, err := a.registry()
	if err != nil {
		return nil, err
	}
	cfg, err := a.theme()
	if err != nil {
		return nil, err
	}
	renderer, err := a.renderer()
	if err != nil {
		return nil, err
	}

	renderers, err := render.NewRegistry(renderer)
	if err != nil {
		return nil, err
	}
	if renderer.Name() != "json" {
		if err := renderers.Register(render.JSONRenderer{}); err != nil {
			return nil, err
		}
	}

	opts := []preview.OptionFn{
		preview.WithRegistry(reg),
		preview.WithRenderers(renderers),
		preview.WithPolicy(a.cfg.Collections),
		preview.WithTheme(cfg),
		preview.WithLogger(a.logger),
	}
	if a.cfg.Submission.Endpoint != "" {
		opts = append(opts, preview.WithChannel(a.channel(cmd)))
	}
	if a.cfg.Prior.Dir != "" {
		opts = append(opts, preview.WithPrior(prior.NewFileSource(a.cfg.Prior.Dir)))
	}
	return preview.New(opts...)
}
