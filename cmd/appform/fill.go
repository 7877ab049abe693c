package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-appform/pkg/form"
	"github.com/goliatone/go-appform/pkg/renderers/tui"
)

func (a *app) fillCmd() *cobra.Command {
	var priorID string
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill in and submit the form interactively",
		Long: `Walk through the form in the terminal and submit it.

Submissions go to submission.endpoint when configured; otherwise they are
written to stdout as one JSON line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}
			values, err := a.priorValues(cmd, priorID)
			if err != nil {
				return err
			}

			out := cmd.ErrOrStderr()
			ctrl, err := a.controller(reg, values,
				form.WithNotifier(tui.NewPrinter(out, tui.DefaultTheme)),
				form.WithChannel(a.channel(cmd)),
			)
			if err != nil {
				return err
			}
			session, err := tui.NewSession(ctrl,
				tui.WithPromptDriver(tui.NewSurveyDriver(out)),
				tui.WithOutput(out),
				tui.WithLogger(a.logger),
			)
			if err != nil {
				return err
			}

			if _, err := session.Run(cmd.Context()); err != nil {
				if errors.Is(err, tui.ErrAborted) {
					fmt.Fprintln(out, "Aborted.")
					return nil
				}
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&priorID, "prior", "", "stored application id to accept")
	return cmd
}
