package cli

import (
	"context"

	"github.com/spf13/cobra"

	"formctl/internal/tui"
)

func newBrowseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "browse <form-id>",
		Short: "Browse a form's sections and questions interactively (read-only)",
		Long: `Open a filterable outline of the form. / filters, enter shows details,
q quits. The outline is a single snapshot; it does not refresh.`,
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
			return tui.Run(snap)
		},
	}
}
