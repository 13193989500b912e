package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"formctl/internal/docs"
	"formctl/internal/formsvc"
	"formctl/internal/model"
	"formctl/internal/publish"
)

func newFormCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "form",
		Short: "Form-level details",
	}
	cmd.AddCommand(newFormShowCmd(app))
	cmd.AddCommand(newFormUpdateInfoCmd(app))
	cmd.AddCommand(newFormExportCmd(app))
	return cmd
}

func newFormShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <form-id>",
		Short: "Show form info and its section outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withService(cmd, func(ctx context.Context, svc *formsvc.Service) (any, error) {
				return svc.Form(ctx, args[0])
			})
		},
	}
}

func newFormUpdateInfoCmd(app *App) *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "update-info <form-id>",
		Short: "Set the form title and/or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				info model.FormInfo
				mask []string
			)
			if cmd.Flags().Changed("title") {
				info.Title = title
				mask = append(mask, "title")
			}
			if cmd.Flags().Changed("description") {
				info.Description = description
				mask = append(mask, "description")
			}
			return app.withService(cmd, func(ctx context.Context, svc *formsvc.Service) (any, error) {
				return svc.UpdateInfo(ctx, args[0], info, mask)
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New form title")
	cmd.Flags().StringVar(&description, "description", "", "New form description")
	return cmd
}

func newFormExportCmd(app *App) *cobra.Command {
	var (
		toDir     string
		overwrite bool
		render    bool
	)

	cmd := &cobra.Command{
		Use:   "export <form-id>",
		Short: "Export the form outline as Markdown",
		Long: `Export the form as a Markdown page: one heading per section, one numbered
entry per question. Without --to the page is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			svc, done, err := app.service(ctx)
			if err != nil {
				return err
			}
			snap, err := svc.Snapshot(ctx, args[0])
			done()
			if err != nil {
				return err
			}

			if toDir != "" {
				res, err := publish.WriteForm(snap, toDir, publish.WriteOptions{Overwrite: overwrite})
				if err != nil {
					return err
				}
				return writeOut(cmd, app, res)
			}
			md := publish.RenderFormMarkdown(snap)
			if render {
				md = docs.Render(md, 80)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), md)
			return err
		},
	}

	cmd.Flags().StringVar(&toDir, "to", "", "Write <form-id>.md into this directory")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	cmd.Flags().BoolVar(&render, "render", false, "Render for the terminal instead of printing raw Markdown")
	cmd.MarkFlagsMutuallyExclusive("to", "render")
	return cmd
}
