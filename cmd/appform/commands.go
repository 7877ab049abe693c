package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-appform/pkg/contract"
	"github.com/goliatone/go-appform/pkg/render"
)

func (a *app) categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the categories of the application form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tLABEL\tFIELDS")
			for _, category := range reg.Categories() {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", category.Key, category.Label, len(category.Fields))
			}
			return tw.Flush()
		},
	}
}

func (a *app) renderCmd() *cobra.Command {
	var (
		category string
		priorID  string
		output   string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the form as HTML or JSON",
		Long: `Render the form with the configured renderer (render.renderer).

Examples:
  # Empty form
  appform render

  # Category already selected
  appform render --category soleTrader --output form.html

  # Accept flow for a stored application
  appform render --prior-dir ./applications --prior rec-7`,
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
			ctrl, err := a.controller(reg, values)
			if err != nil {
				return err
			}
			if category != "" {
				if err := ctrl.SelectCategory(category); err != nil {
					return err
				}
			}

			renderer, err := a.renderer()
			if err != nil {
				return err
			}
			cfg, err := a.theme()
			if err != nil {
				return err
			}
			out, err := renderer.Render(cmd.Context(), ctrl.View(), render.RenderOptions{Theme: cfg})
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, out)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "category to pre-select")
	cmd.Flags().StringVar(&priorID, "prior", "", "stored application id to accept")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

func (a *app) contractCmd() *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "contract",
		Short: "Print the OpenAPI contract of submission payloads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}
			doc, err := contract.Build(reg)
			if err != nil {
				return err
			}
			if err := contract.Validate(cmd.Context(), doc); err != nil {
				return err
			}
			out, err := contract.Marshal(doc, contract.Format(format))
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, out)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(contract.FormatJSON), "json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
